// Package ormnaming derives database names from Go struct definitions.
// This file implements database dialect abstraction for schema export and
// validation.
//
// Dialect is responsible for:
//   - Database identification (MySQL, PostgreSQL, SQLite)
//   - Placeholder format (? vs $1, $2)
//   - Identifier quoting
//   - Column definitions derived from Go field kinds
//   - Listing the columns of an existing table
//
// Usage example:
//
//	session := ormnaming.NewSession(db, ormnaming.SQLite)
//	ddl := ormnaming.CreateTableSQL(ormnaming.PostgreSQL, mapping)
package ormnaming

import (
	"fmt"
	"reflect"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

var (
	SQLite     = &SQLiteDialect{}
	MySQL      = &MySQLDialect{}
	PostgreSQL = &PostgreSQLDialect{}
)

// Dialect abstracts database-specific SQL features.
//
// Implementations:
//   - MySQLDialect: MySQL dialect
//   - PostgreSQLDialect: PostgreSQL dialect
//   - SQLiteDialect: SQLite dialect
type Dialect interface {
	// Name returns the database type name, which is also the driver name.
	//
	// Returns:
	//   - "mysql" for MySQL
	//   - "postgres" for PostgreSQL
	//   - "sqlite3" for SQLite
	Name() string

	// PlaceholderFormat returns the placeholder format used by the database.
	PlaceholderFormat() sq.PlaceholderFormat

	// Quote quotes an identifier so that physical names are used exactly
	// as resolved.
	Quote(ident string) string

	// ColumnDefinition returns the type and constraints of a column, without
	// the column name.
	//
	// Example output:
	//   SQLite: "INTEGER PRIMARY KEY AUTOINCREMENT"
	//   PostgreSQL: "BIGSERIAL PRIMARY KEY"
	ColumnDefinition(c ColumnMapping) string

	// ColumnsQuery builds a query returning the column names of table, one
	// per row, in ordinal order.
	ColumnsQuery(table string) sq.SelectBuilder
}

// DialectByName returns the dialect for a driver name.
func DialectByName(name string) (Dialect, error) {
	switch name {
	case "", "sqlite", "sqlite3":
		return SQLite, nil
	case "mysql":
		return MySQL, nil
	case "postgres", "postgresql", "pgx":
		return PostgreSQL, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, name)
}

// CreateTableSQL returns the CREATE TABLE statement for a mapping using the
// resolved physical names.
func CreateTableSQL(d Dialect, m *EntityMapping) string {
	defs := make([]string, 0, len(m.columns))
	for _, c := range m.columns {
		defs = append(defs, d.Quote(c.Physical)+" "+d.ColumnDefinition(c))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", d.Quote(m.TableName()), strings.Join(defs, ",\n\t"))
}

func quoteWith(ident string, q string) string {
	return q + strings.ReplaceAll(ident, q, q+q) + q
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// MySQLDialect implements MySQL database dialect.
//
// MySQL features:
//   - Uses ? as placeholder
//   - Quotes identifiers with backticks
//   - Lists columns through information_schema of the current database
type MySQLDialect struct{}

// Name returns the MySQL dialect name.
func (d *MySQLDialect) Name() string { return "mysql" }

// PlaceholderFormat returns MySQL's placeholder format (?).
func (d *MySQLDialect) PlaceholderFormat() sq.PlaceholderFormat {
	return sq.Question
}

func (d *MySQLDialect) Quote(ident string) string { return quoteWith(ident, "`") }

func (d *MySQLDialect) ColumnDefinition(c ColumnMapping) string {
	var typ string
	switch {
	case c.Kind == reflect.Bool:
		typ = "BOOLEAN"
	case c.Kind == reflect.Int64 || c.Kind == reflect.Uint64 || c.Kind == reflect.Int || c.Kind == reflect.Uint:
		typ = "BIGINT"
	case isInteger(c.Kind):
		typ = "INT"
	case c.Kind == reflect.Float32 || c.Kind == reflect.Float64:
		typ = "DOUBLE"
	case c.Kind == reflect.Slice:
		typ = "BLOB"
	case c.Kind == reflect.Struct:
		typ = "DATETIME"
	default:
		typ = "VARCHAR(255)"
	}
	if c.PrimaryKey {
		typ += " PRIMARY KEY"
		if c.AutoIncrement {
			typ += " AUTO_INCREMENT"
		}
	}
	return typ
}

func (d *MySQLDialect) ColumnsQuery(table string) sq.SelectBuilder {
	return sq.Select("column_name").
		From("information_schema.columns").
		Where("table_schema = DATABASE()").
		Where(sq.Eq{"table_name": table}).
		OrderBy("ordinal_position").
		PlaceholderFormat(d.PlaceholderFormat())
}

// PostgreSQLDialect implements PostgreSQL database dialect.
//
// PostgreSQL features:
//   - Uses $1, $2, $3 as placeholders
//   - Folds unquoted identifiers to lower case, so names are always quoted
//   - Auto-increment keys use BIGSERIAL
type PostgreSQLDialect struct{}

// Name returns the PostgreSQL dialect name.
func (d *PostgreSQLDialect) Name() string { return "postgres" }

// PlaceholderFormat returns PostgreSQL's placeholder format ($1, $2, ...).
func (d *PostgreSQLDialect) PlaceholderFormat() sq.PlaceholderFormat {
	return sq.Dollar
}

func (d *PostgreSQLDialect) Quote(ident string) string { return quoteWith(ident, `"`) }

func (d *PostgreSQLDialect) ColumnDefinition(c ColumnMapping) string {
	var typ string
	switch {
	case c.Kind == reflect.Bool:
		typ = "BOOLEAN"
	case c.PrimaryKey && c.AutoIncrement && isInteger(c.Kind):
		return "BIGSERIAL PRIMARY KEY"
	case c.Kind == reflect.Int64 || c.Kind == reflect.Uint64 || c.Kind == reflect.Int || c.Kind == reflect.Uint || c.Kind == reflect.Uint32:
		typ = "BIGINT"
	case isInteger(c.Kind):
		typ = "INTEGER"
	case c.Kind == reflect.Float32 || c.Kind == reflect.Float64:
		typ = "DOUBLE PRECISION"
	case c.Kind == reflect.Slice:
		typ = "BYTEA"
	case c.Kind == reflect.Struct:
		typ = "TIMESTAMP"
	default:
		typ = "TEXT"
	}
	if c.PrimaryKey {
		typ += " PRIMARY KEY"
	}
	return typ
}

func (d *PostgreSQLDialect) ColumnsQuery(table string) sq.SelectBuilder {
	return sq.Select("column_name").
		From("information_schema.columns").
		Where("table_schema = current_schema()").
		Where(sq.Eq{"table_name": table}).
		OrderBy("ordinal_position").
		PlaceholderFormat(d.PlaceholderFormat())
}

// SQLiteDialect implements SQLite database dialect.
//
// SQLite features:
//   - Uses ? as placeholder
//   - An INTEGER PRIMARY KEY column aliases the rowid
//   - Lists columns with the pragma_table_info table-valued function (3.16+)
//   - Commonly used in testing and development environments
type SQLiteDialect struct{}

// Name returns the SQLite dialect name.
func (d *SQLiteDialect) Name() string { return "sqlite3" }

// PlaceholderFormat returns SQLite's placeholder format (?).
func (d *SQLiteDialect) PlaceholderFormat() sq.PlaceholderFormat {
	return sq.Question
}

func (d *SQLiteDialect) Quote(ident string) string { return quoteWith(ident, `"`) }

func (d *SQLiteDialect) ColumnDefinition(c ColumnMapping) string {
	var typ string
	switch {
	case c.Kind == reflect.Bool || isInteger(c.Kind):
		typ = "INTEGER"
	case c.Kind == reflect.Float32 || c.Kind == reflect.Float64:
		typ = "REAL"
	case c.Kind == reflect.Slice:
		typ = "BLOB"
	case c.Kind == reflect.Struct:
		typ = "DATETIME"
	default:
		typ = "TEXT"
	}
	if c.PrimaryKey {
		typ += " PRIMARY KEY"
		if c.AutoIncrement && typ == "INTEGER PRIMARY KEY" {
			typ += " AUTOINCREMENT"
		}
	}
	return typ
}

func (d *SQLiteDialect) ColumnsQuery(table string) sq.SelectBuilder {
	// table name is inlined as a quoted literal
	return sq.Select("name").
		From("pragma_table_info(" + quoteLiteral(table) + ")").
		OrderBy("cid").
		PlaceholderFormat(d.PlaceholderFormat())
}
