// Package gormnaming exposes the two-stage naming of ormnaming as a GORM
// schema.Namer, so a model parsed by GORM ends up with the same table and
// column names as its ormnaming mapping.
//
// Usage example:
//
//	db, err := gorm.Open(dialector, &gorm.Config{
//	    NamingStrategy: gormnaming.New(ormnaming.NewResolver()),
//	})
package gormnaming

import (
	"github.com/arllen133/ormnaming"
	"gorm.io/gorm/schema"
)

// Namer implements schema.Namer. Index, constraint and join table names are
// left to the embedded schema.NamingStrategy.
type Namer struct {
	schema.NamingStrategy
	resolver *ormnaming.Resolver
}

var _ schema.Namer = Namer{}

// New returns a Namer backed by r.
func New(r *ormnaming.Resolver) Namer {
	return Namer{resolver: r}
}

// TableName resolves the table name of a model type name. GORM calls it
// only for models that do not implement schema.Tabler.
func (n Namer) TableName(str string) string {
	return n.resolver.TableName(ormnaming.EntitySource{GoName: str, LogicalName: str}).Physical
}

// SchemaName returns the model type name for a physical table name when the
// table belongs to a registered mapping, otherwise it defers to GORM.
func (n Namer) SchemaName(table string) string {
	if m, ok := ormnaming.LookupTable(table); ok {
		return m.Entity()
	}
	return n.NamingStrategy.SchemaName(table)
}

// ColumnName resolves the column name of a struct field. For registered
// mappings the column, including any db tag override, is taken from the
// mapping; other fields go through both naming stages without an override.
// GORM does not call ColumnName for fields tagged gorm:"column:...".
func (n Namer) ColumnName(table, column string) string {
	if m, ok := ormnaming.LookupTable(table); ok {
		if c, ok := m.Column(column); ok {
			return c.Physical
		}
	}
	return n.resolver.ColumnName(ormnaming.FieldSource{
		GoName:      column,
		LogicalName: ormnaming.LogicalName(column),
	}).Physical
}
