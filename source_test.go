package ormnaming_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/arllen133/ormnaming"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  ormnaming.Tag
	}{
		{"empty", "", ormnaming.Tag{}},
		{"skip", "-", ormnaming.Tag{Skip: true}},
		{"column", "user_address", ormnaming.Tag{Column: "user_address"}},
		{"camel column", "userAge", ormnaming.Tag{Column: "userAge"}},
		{"pk flags", "id,primaryKey,autoIncrement", ormnaming.Tag{Column: "id", PrimaryKey: true, AutoIncrement: true}},
		{"short pk", ",pk", ormnaming.Tag{PrimaryKey: true}},
		{"column key", "column:userAge", ormnaming.Tag{Column: "userAge"}},
		{"semicolons", "id;primaryKey;table:accounts", ormnaming.Tag{Column: "id", PrimaryKey: true, Table: "accounts"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ormnaming.ParseTag(tt.value))
		})
	}
}

type auditFields struct {
	CreatedAt time.Time
	UpdatedBy string `db:"updatedBy"`
}

type sourceModel struct {
	ID int64 `db:"id,pk"`
	auditFields
	Title    string  `orm:"headline"`
	Secret   string  `db:"-"`
	internal string
	Score    *float64
}

func TestSourceOf(t *testing.T) {
	src, err := ormnaming.SourceOf(reflect.TypeOf(&sourceModel{}))
	require.NoError(t, err)

	assert.Equal(t, "sourceModel", src.GoName)
	assert.Empty(t, src.TableOverride)

	names := make([]string, 0, len(src.Fields))
	for _, f := range src.Fields {
		names = append(names, f.GoName)
	}
	assert.Equal(t, []string{"ID", "CreatedAt", "UpdatedBy", "Title", "Score"}, names)

	assert.True(t, src.Fields[0].PrimaryKey)
	assert.Equal(t, "id", src.Fields[0].Override)
	assert.Equal(t, reflect.Int64, src.Fields[0].Kind)
	assert.Equal(t, reflect.Struct, src.Fields[1].Kind)
	assert.Equal(t, "updatedBy", src.Fields[2].Override)
	assert.Equal(t, "headline", src.Fields[3].Override)
	assert.Equal(t, "title", src.Fields[3].LogicalName)
	assert.Equal(t, reflect.Float64, src.Fields[4].Kind)
	assert.Equal(t, "*float64", src.Fields[4].GoType)
}

func TestSourceOfNotStruct(t *testing.T) {
	_, err := ormnaming.SourceOf(reflect.TypeOf(42))
	assert.ErrorIs(t, err, ormnaming.ErrNotStruct)
}

type treeNode struct {
	*treeNode
	ID int64
}

type ringA struct {
	*ringB
	ID int64
}

type ringB struct {
	*ringA
	Name string
}

func TestSourceOfRecursiveEmbedding(t *testing.T) {
	_, err := ormnaming.SourceOf(reflect.TypeOf((*treeNode)(nil)).Elem())
	assert.ErrorIs(t, err, ormnaming.ErrRecursiveEmbedding)

	_, err = ormnaming.SourceOf(reflect.TypeOf((*ringA)(nil)).Elem())
	assert.ErrorIs(t, err, ormnaming.ErrRecursiveEmbedding)

	_, err = ormnaming.Resolve[treeNode](context.Background(), ormnaming.NewResolver())
	assert.ErrorIs(t, err, ormnaming.ErrRecursiveEmbedding)
}

type timestamps struct {
	CreatedAt time.Time
}

type versioned struct {
	timestamps
	Version int
}

// timestamps is reached twice, through separate embedding paths
type diamondModel struct {
	ID int64
	timestamps
	versioned
}

func TestSourceOfRepeatedEmbedding(t *testing.T) {
	src, err := ormnaming.SourceOf(reflect.TypeOf((*diamondModel)(nil)).Elem())
	require.NoError(t, err)

	names := make([]string, 0, len(src.Fields))
	for _, f := range src.Fields {
		names = append(names, f.GoName)
	}
	assert.Equal(t, []string{"ID", "CreatedAt", "CreatedAt", "Version"}, names)

	_, err = ormnaming.Resolve[diamondModel](context.Background(), ormnaming.NewResolver())
	assert.ErrorIs(t, err, ormnaming.ErrDuplicateColumn)
}

type tabledModel struct {
	ID int64
}

func (tabledModel) TableName() string { return "AppUsers" }

func TestSourceOfTabler(t *testing.T) {
	src, err := ormnaming.SourceOf(reflect.TypeOf(tabledModel{}))
	require.NoError(t, err)
	assert.Equal(t, "AppUsers", src.TableOverride)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, reflect.Int64, ormnaming.KindOf("int64"))
	assert.Equal(t, reflect.String, ormnaming.KindOf("*string"))
	assert.Equal(t, reflect.Struct, ormnaming.KindOf("time.Time"))
	assert.Equal(t, reflect.Slice, ormnaming.KindOf("[]byte"))
	assert.Equal(t, reflect.Invalid, ormnaming.KindOf("json.RawMessage"))
}
