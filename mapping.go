package ormnaming

import (
	"reflect"
	"slices"

	"github.com/samber/lo"
)

// NameResolution records both naming stages for a single table or column.
type NameResolution struct {
	Logical  string // In-memory name, e.g. "userAge"
	Override string // Explicit name from a tag or TableName method, empty if none
	Implicit string // Result of the implicit strategy
	Physical string // Result of the physical strategy, the stored name
}

// HasOverride reports whether the name came from an explicit override.
func (n NameResolution) HasOverride() bool { return n.Override != "" }

// Normalized reports whether the physical stage changed the implicit name.
func (n NameResolution) Normalized() bool { return n.Physical != n.Implicit }

// ColumnMapping is the resolved mapping of one struct field.
type ColumnMapping struct {
	NameResolution
	Field         string // Go field name
	PrimaryKey    bool
	AutoIncrement bool
	GoType        string
	Kind          reflect.Kind
}

// EntityMapping is the resolved, immutable mapping of a model to a table.
// Accessors return copies; an EntityMapping is safe for concurrent use.
type EntityMapping struct {
	entity     string
	table      NameResolution
	columns    []ColumnMapping
	pk         int
	byName     map[string]int // Go name and logical name
	byPhysical map[string]int
	implicit   string
	physical   string
}

// Entity returns the Go type name of the model.
func (m *EntityMapping) Entity() string { return m.entity }

// Table returns the table name resolution.
func (m *EntityMapping) Table() NameResolution { return m.table }

// TableName returns the physical table name.
func (m *EntityMapping) TableName() string { return m.table.Physical }

// Columns returns the column mappings in field declaration order.
func (m *EntityMapping) Columns() []ColumnMapping { return slices.Clone(m.columns) }

// Column looks up a column by Go field name ("UserAge") or logical name ("userAge").
func (m *EntityMapping) Column(name string) (ColumnMapping, bool) {
	i, ok := m.byName[name]
	if !ok {
		return ColumnMapping{}, false
	}
	return m.columns[i], true
}

// ColumnByPhysical looks up a column by its stored name.
func (m *EntityMapping) ColumnByPhysical(name string) (ColumnMapping, bool) {
	i, ok := m.byPhysical[name]
	if !ok {
		return ColumnMapping{}, false
	}
	return m.columns[i], true
}

// PrimaryKey returns the identifier column.
func (m *EntityMapping) PrimaryKey() ColumnMapping { return m.columns[m.pk] }

// SelectColumns returns the physical column names in declaration order.
func (m *EntityMapping) SelectColumns() []string {
	return lo.Map(m.columns, func(c ColumnMapping, _ int) string {
		return c.Physical
	})
}

// Overrides returns the columns whose name came from an explicit override.
func (m *EntityMapping) Overrides() []ColumnMapping {
	return lo.Filter(m.columns, func(c ColumnMapping, _ int) bool {
		return c.HasOverride()
	})
}

// Strategies returns the names of the implicit and physical strategies the
// mapping was resolved with.
func (m *EntityMapping) Strategies() (implicit, physical string) {
	return m.implicit, m.physical
}
