package generator_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arllen133/ormnaming"
	"github.com/arllen133/ormnaming/cmd/namegen/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modelsSource = `package models

// UserRecord is the example entity.
type UserRecord struct {
	ID          int64  ` + "`db:\"id,primaryKey\"`" + `
	UserName    string
	UserAddress string ` + "`db:\"user_address\"`" + `
	UserAge     int32  ` + "`db:\"userAge\"`" + `
	cache       string
}

type Account struct {
	ID          uint64
	DisplayName string
	Hidden      string ` + "`db:\"-\"`" + `
}

func (*Account) TableName() string {
	return "AppAccounts"
}

// Untagged structs without TableName are not models.
type Options struct {
	Verbose bool
}
`

func writeModels(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "models.go"), []byte(modelsSource), 0644))
	// Generated and test files are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user_record_columns_gen.go"), []byte("package models\n\ntype Generated struct {\n\tID int64 `db:\"id\"`\n}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "models_test.go"), []byte("package models\n\ntype Fixture struct {\n\tID int64 `db:\"id\"`\n}\n"), 0644))
	return dir
}

func TestParseModels(t *testing.T) {
	dir := writeModels(t)

	models, err := generator.ParseModels(dir)
	require.NoError(t, err)
	require.Len(t, models, 2)

	user := models[0]
	assert.Equal(t, "models", user.PackageName)
	assert.Equal(t, "UserRecord", user.ModelName)
	assert.Equal(t, []string{"UserRecord is the example entity."}, user.Doc)
	require.Len(t, user.Source.Fields, 4)

	assert.Equal(t, "ID", user.Source.Fields[0].GoName)
	assert.True(t, user.Source.Fields[0].PrimaryKey)
	assert.Equal(t, "int64", user.Source.Fields[0].GoType)
	assert.Equal(t, "userName", user.Source.Fields[1].LogicalName)
	assert.Empty(t, user.Source.Fields[1].Override)
	assert.Equal(t, "user_address", user.Source.Fields[2].Override)
	assert.Equal(t, "userAge", user.Source.Fields[3].Override)

	account := models[1]
	assert.Equal(t, "Account", account.ModelName)
	assert.Equal(t, "AppAccounts", account.Source.TableOverride)
	require.Len(t, account.Source.Fields, 2)
	assert.Equal(t, "DisplayName", account.Source.Fields[1].GoName)
}

func TestParseModels_MissingDir(t *testing.T) {
	_, err := generator.ParseModels(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestFilterModels(t *testing.T) {
	models, err := generator.ParseModels(writeModels(t))
	require.NoError(t, err)

	names := func(ms []generator.ModelMeta) []string {
		var out []string
		for _, m := range ms {
			out = append(out, m.ModelName)
		}
		return out
	}

	assert.Equal(t, []string{"UserRecord", "Account"}, names(generator.FilterModels(models, &generator.GenConfig{})))
	assert.Equal(t, []string{"Account"}, names(generator.FilterModels(models, &generator.GenConfig{IncludeStructs: []string{"Account"}})))
	assert.Equal(t, []string{"UserRecord"}, names(generator.FilterModels(models, &generator.GenConfig{ExcludeStructs: []string{"Account"}})))
}

const embeddedSource = `package models

type Base struct {
	ID        int64 ` + "`db:\"id,primaryKey\"`" + `
	CreatedAt time.Time
}

type Member struct {
	Base
	UserName string ` + "`db:\"userName\"`" + `
	Audit
}

type Audit struct {
	*Stamp
	UpdatedBy string
}

type Stamp struct {
	Revision int
}
`

func TestParseModels_EmbeddedStructs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "embedded.go"), []byte(embeddedSource), 0644))

	models, err := generator.ParseModels(dir)
	require.NoError(t, err)

	var member *generator.ModelMeta
	for i := range models {
		if models[i].ModelName == "Member" {
			member = &models[i]
		}
	}
	require.NotNil(t, member)

	names := make([]string, 0, len(member.Source.Fields))
	for _, f := range member.Source.Fields {
		names = append(names, f.GoName)
	}
	assert.Equal(t, []string{"ID", "CreatedAt", "UserName", "Revision", "UpdatedBy"}, names)

	mappings, err := generator.Resolve(context.Background(), ormnaming.NewResolver(), []generator.ModelMeta{*member})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "created_at", "user_name", "revision", "updated_by"}, mappings[0].SelectColumns())
	assert.Equal(t, "ID", mappings[0].PrimaryKey().Field)
}

func TestParseModels_RecursiveEmbedding(t *testing.T) {
	dir := t.TempDir()
	src := "package models\n\ntype Node struct {\n\t*Node\n\tID int64 `db:\"id\"`\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "node.go"), []byte(src), 0644))

	_, err := generator.ParseModels(dir)
	assert.ErrorIs(t, err, ormnaming.ErrRecursiveEmbedding)
}
