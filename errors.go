package ormnaming

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotStruct          = errors.New("ormnaming: not a struct type")
	ErrRecursiveEmbedding = errors.New("ormnaming: recursive embedded struct")
	ErrNoPrimaryKey       = errors.New("ormnaming: no primary key")
	ErrDuplicateColumn    = errors.New("ormnaming: duplicate physical column name")
	ErrEmptyName          = errors.New("ormnaming: empty name")
	ErrUnknownStrategy    = errors.New("ormnaming: unknown naming strategy")
	ErrUnknownDialect     = errors.New("ormnaming: unknown dialect")
	ErrSchemaMismatch     = errors.New("ormnaming: schema does not match mapping")
)

// SchemaMismatchError reports resolved columns that are missing from the
// database table. Missing holds every resolved column when the table itself
// does not exist.
type SchemaMismatchError struct {
	Table        string
	Missing      []string
	TableMissing bool
}

func (e *SchemaMismatchError) Error() string {
	if e.TableMissing {
		return fmt.Sprintf("ormnaming: table %q does not exist", e.Table)
	}
	return fmt.Sprintf("ormnaming: table %q is missing columns: %s", e.Table, strings.Join(e.Missing, ", "))
}

func (e *SchemaMismatchError) Unwrap() error { return ErrSchemaMismatch }
