package ormnaming_test

import (
	"reflect"
	"testing"

	"github.com/arllen133/ormnaming"
	"github.com/arllen133/ormnaming/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registryModel struct {
	ID    int64  `db:"id,primaryKey,autoIncrement"`
	Label string `db:"labelText"`
}

func TestRegistry(t *testing.T) {
	assert.Same(t, domain.UserRecordMapping, ormnaming.Load[domain.UserRecord]())

	m, ok := ormnaming.Lookup(reflect.TypeOf(&domain.UserRecord{}))
	require.True(t, ok)
	assert.Same(t, domain.UserRecordMapping, m)

	m, ok = ormnaming.LookupTable("user_record")
	require.True(t, ok)
	assert.Equal(t, "UserRecord", m.Entity())

	_, ok = ormnaming.LookupTable("UserRecord")
	assert.False(t, ok)
}

func TestMustRegister(t *testing.T) {
	m := ormnaming.MustRegister[registryModel](ormnaming.NewResolver())
	assert.Equal(t, "registry_model", m.TableName())
	assert.Same(t, m, ormnaming.Load[registryModel]())

	c, ok := m.Column("Label")
	require.True(t, ok)
	assert.Equal(t, "label_text", c.Physical)

	tables := make([]string, 0)
	for _, rm := range ormnaming.Registered() {
		tables = append(tables, rm.TableName())
	}
	assert.Contains(t, tables, "registry_model")
	assert.Contains(t, tables, "user_record")
	assert.IsIncreasing(t, tables)

	// Re-registering under another strategy replaces the table index
	ormnaming.MustRegister[registryModel](ormnaming.NewResolver(ormnaming.WithPhysicalStrategy(ormnaming.PhysicalStandard)))
	_, ok = ormnaming.LookupTable("registry_model")
	assert.False(t, ok)
	_, ok = ormnaming.LookupTable("registryModel")
	assert.True(t, ok)
}

func TestLoadUnregisteredPanics(t *testing.T) {
	type unregistered struct{ ID int64 }
	assert.Panics(t, func() {
		ormnaming.Load[unregistered]()
	})
}

func TestMustRegisterPanicsOnError(t *testing.T) {
	type noKey struct{ Name string }
	assert.PanicsWithValue(t, "ormnaming: cannot register ormnaming_test.noKey: ormnaming: no primary key: noKey has no field tagged primaryKey or named ID", func() {
		ormnaming.MustRegister[noKey](ormnaming.NewResolver())
	})
}

type pointerModel struct {
	ID   int64 `db:"id,primaryKey"`
	Slug string
}

func TestRegisterPointerType(t *testing.T) {
	m := ormnaming.MustRegister[*pointerModel](ormnaming.NewResolver())
	assert.Equal(t, "pointer_model", m.TableName())

	assert.NotPanics(t, func() {
		assert.Same(t, m, ormnaming.Load[*pointerModel]())
		assert.Same(t, m, ormnaming.Load[pointerModel]())
	})

	found, ok := ormnaming.Lookup(reflect.TypeOf(&pointerModel{}))
	require.True(t, ok)
	assert.Same(t, m, found)

	found, ok = ormnaming.Lookup(reflect.TypeOf((*pointerModel)(nil)).Elem())
	require.True(t, ok)
	assert.Same(t, m, found)
}
