package generator

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/arllen133/ormnaming"
	"github.com/bytedance/sonic"
	"github.com/dave/jennifer/jen"
)

// Resolve resolves the naming of every model with r.
func Resolve(ctx context.Context, r *ormnaming.Resolver, models []ModelMeta) ([]*ormnaming.EntityMapping, error) {
	mappings := make([]*ormnaming.EntityMapping, 0, len(models))
	for _, m := range models {
		mapping, err := r.Resolve(ctx, m.Source)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", m.FileName, err)
		}
		mappings = append(mappings, mapping)
	}
	return mappings, nil
}

// WriteTable writes the naming table of each mapping, one row for the table
// followed by one row per column.
func WriteTable(w io.Writer, mappings []*ormnaming.EntityMapping) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ENTITY\tFIELD\tOVERRIDE\tIMPLICIT\tPHYSICAL\tPK")
	for _, m := range mappings {
		t := m.Table()
		fmt.Fprintf(tw, "%s\t(table)\t%s\t%s\t%s\t\n", m.Entity(), orDash(t.Override), t.Implicit, t.Physical)
		for _, c := range m.Columns() {
			pk := ""
			if c.PrimaryKey {
				pk = "yes"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", m.Entity(), c.Logical, orDash(c.Override), c.Implicit, c.Physical, pk)
		}
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

type nameJSON struct {
	Logical  string `json:"logical"`
	Override string `json:"override,omitempty"`
	Implicit string `json:"implicit"`
	Physical string `json:"physical"`
}

type columnJSON struct {
	Field      string `json:"field"`
	Logical    string `json:"logical"`
	Override   string `json:"override,omitempty"`
	Implicit   string `json:"implicit"`
	Physical   string `json:"physical"`
	GoType     string `json:"go_type"`
	PrimaryKey bool   `json:"primary_key,omitempty"`
}

type mappingJSON struct {
	Entity           string       `json:"entity"`
	ImplicitStrategy string       `json:"implicit_strategy"`
	PhysicalStrategy string       `json:"physical_strategy"`
	Table            nameJSON     `json:"table"`
	Columns          []columnJSON `json:"columns"`
}

// WriteJSON writes the mappings as an indented JSON array.
func WriteJSON(w io.Writer, mappings []*ormnaming.EntityMapping) error {
	out := make([]mappingJSON, 0, len(mappings))
	for _, m := range mappings {
		implicit, physical := m.Strategies()
		t := m.Table()
		mj := mappingJSON{
			Entity:           m.Entity(),
			ImplicitStrategy: implicit,
			PhysicalStrategy: physical,
			Table:            nameJSON{Logical: t.Logical, Override: t.Override, Implicit: t.Implicit, Physical: t.Physical},
		}
		for _, c := range m.Columns() {
			mj.Columns = append(mj.Columns, columnJSON{
				Field:      c.Field,
				Logical:    c.Logical,
				Override:   c.Override,
				Implicit:   c.Implicit,
				Physical:   c.Physical,
				GoType:     c.GoType,
				PrimaryKey: c.PrimaryKey,
			})
		}
		out = append(out, mj)
	}

	data, err := sonic.ConfigStd.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// WriteDDL writes a CREATE TABLE statement per mapping.
func WriteDDL(w io.Writer, d ormnaming.Dialect, mappings []*ormnaming.EntityMapping) error {
	for _, m := range mappings {
		if _, err := fmt.Fprintf(w, "%s;\n\n", ormnaming.CreateTableSQL(d, m)); err != nil {
			return err
		}
	}
	return nil
}

// ColumnsFile builds a Go file declaring the physical table name and column
// names of m:
//
//	const UserRecordTable = "user_record"
//
//	var UserRecordColumns = struct {
//	    ID      string
//	    UserAge string
//	    ...
//	}{...}
func ColumnsFile(pkgName string, m *ormnaming.EntityMapping) *jen.File {
	f := jen.NewFile(pkgName)
	f.HeaderComment("Code generated by namegen. DO NOT EDIT.")

	implicit, physical := m.Strategies()
	f.Commentf("%sTable is the physical table name of %s (%s/%s naming).", m.Entity(), m.Entity(), implicit, physical)
	f.Const().Id(m.Entity() + "Table").Op("=").Lit(m.TableName())

	fields := make([]jen.Code, 0, len(m.Columns()))
	values := jen.Dict{}
	for _, c := range m.Columns() {
		fields = append(fields, jen.Id(c.Field).String())
		values[jen.Id(c.Field)] = jen.Lit(c.Physical)
	}

	f.Commentf("%sColumns holds the physical column names of %s.", m.Entity(), m.Entity())
	f.Var().Id(m.Entity() + "Columns").Op("=").Struct(fields...).Values(values)
	return f
}

// ColumnsFileName returns the name of the generated file for m.
func ColumnsFileName(m *ormnaming.EntityMapping) string {
	return ormnaming.PhysicalSnakeCase.ToPhysicalTableName(m.Entity()) + "_columns_gen.go"
}

// GenerateFile writes the columns file of m into outDir and returns its path.
func GenerateFile(pkgName string, m *ormnaming.EntityMapping, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(outDir, ColumnsFileName(m))
	if err := ColumnsFile(pkgName, m).Save(path); err != nil {
		return "", err
	}
	return path, nil
}
