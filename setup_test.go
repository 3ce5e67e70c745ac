package ormnaming_test

import (
	"database/sql"
	"os"
	"testing"

	"github.com/arllen133/ormnaming"
	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T, opts ...ormnaming.ObservabilityOption) (*sql.DB, *ormnaming.Session) {
	driver := os.Getenv("TEST_DRIVER")
	dsn := os.Getenv("TEST_DSN")

	if driver == "" {
		driver = "sqlite3"
		dsn = ":memory:"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if driver == "sqlite3" {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}
	t.Cleanup(func() { db.Close() })

	dialect, err := ormnaming.DialectByName(driver)
	if err != nil {
		t.Fatalf("Unsupported TEST_DRIVER: %v", err)
	}

	session := ormnaming.NewSession(db, dialect, opts...)
	return db, session
}
