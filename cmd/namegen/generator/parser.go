package generator

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/arllen133/ormnaming"
	"github.com/arllen133/ormnaming/gen"
)

// ModelMeta is a model struct found in a source directory.
type ModelMeta struct {
	PackageName string
	ModelName   string
	FileName    string
	Doc         []string // Documentation comments
	Source      ormnaming.EntitySource
}

// ParseModels parses the Go files of dir and returns the structs that carry
// db tags or a TableName method, in file and declaration order.
// Test files, generated files (_gen.go) and config.go are skipped.
func ParseModels(dir string) ([]ModelMeta, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var filenames []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") ||
			strings.HasSuffix(name, "_test.go") || strings.HasSuffix(name, "_gen.go") ||
			name == gen.ConfigFileName {
			continue
		}
		filenames = append(filenames, filepath.Join(dir, name))
	}
	slices.Sort(filenames)

	fset := token.NewFileSet()
	files := make([]*ast.File, 0, len(filenames))
	for _, filename := range filenames {
		file, err := parser.ParseFile(fset, filename, nil, parser.ParseComments)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	// TableName methods and embedded structs may live in any file of the package
	tableNames := make(map[string]string)
	structs := make(map[string]*ast.StructType)
	for _, file := range files {
		for name, table := range tableNameMethods(file) {
			tableNames[name] = table
		}
		for name, st := range structTypes(file) {
			structs[name] = st
		}
	}

	var models []ModelMeta
	for i, file := range files {
		for _, decl := range file.Decls {
			genDecl, ok := decl.(*ast.GenDecl)
			if !ok || genDecl.Tok != token.TYPE {
				continue
			}
			for _, spec := range genDecl.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				st, ok := ts.Type.(*ast.StructType)
				if !ok {
					continue
				}

				doc := ts.Doc
				if doc == nil && len(genDecl.Specs) == 1 {
					doc = genDecl.Doc
				}

				model, tagged, err := parseStruct(ts.Name.Name, st, structs)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", filenames[i], err)
				}
				table, hasTableName := tableNames[ts.Name.Name]
				if !tagged && !hasTableName {
					continue
				}
				if hasTableName {
					model.TableOverride = table
				}

				models = append(models, ModelMeta{
					PackageName: file.Name.Name,
					ModelName:   ts.Name.Name,
					FileName:    filenames[i],
					Doc:         commentLines(doc),
					Source:      model,
				})
			}
		}
	}
	return models, nil
}

// parseStruct converts a struct declaration into an EntitySource. It reports
// whether any field carries a naming tag. Untagged embedded structs declared
// in the same package are flattened, like SourceOf does; embedded types from
// other packages are skipped.
func parseStruct(name string, st *ast.StructType, structs map[string]*ast.StructType) (ormnaming.EntitySource, bool, error) {
	src := ormnaming.EntitySource{
		GoName:      name,
		LogicalName: name,
	}
	tagged := false

	// embedding holds the structs on the current embedding path
	embedding := map[string]bool{name: true}
	var collect func(owner string, st *ast.StructType) error
	collect = func(owner string, st *ast.StructType) error {
		for _, field := range st.Fields.List {
			tagValue, hasTag := fieldTag(field)
			if hasTag {
				tagged = true
			}

			if len(field.Names) == 0 {
				embedded := embeddedName(field.Type)
				if embedded == "" {
					continue
				}
				if inner, ok := structs[embedded]; ok && tagValue == "" {
					if embedding[embedded] {
						return fmt.Errorf("%w: %s embeds %s", ormnaming.ErrRecursiveEmbedding, owner, embedded)
					}
					embedding[embedded] = true
					err := collect(embedded, inner)
					delete(embedding, embedded)
					if err != nil {
						return err
					}
					continue
				}
				if !ast.IsExported(embedded) {
					continue
				}
				addField(&src, embedded, tagValue, types.ExprString(field.Type))
				continue
			}

			goType := types.ExprString(field.Type)
			for _, ident := range field.Names {
				if !ident.IsExported() {
					continue
				}
				addField(&src, ident.Name, tagValue, goType)
			}
		}
		return nil
	}
	if err := collect(name, st); err != nil {
		return ormnaming.EntitySource{}, false, err
	}
	return src, tagged, nil
}

func addField(src *ormnaming.EntitySource, goName, tagValue, goType string) {
	fs, tag := ormnaming.NewFieldSource(goName, tagValue, goType)
	if tag.Skip {
		return
	}
	if tag.Table != "" && src.TableOverride == "" {
		src.TableOverride = tag.Table
	}
	src.Fields = append(src.Fields, fs)
}

// fieldTag returns the naming tag value of a field and whether it has one.
func fieldTag(field *ast.Field) (string, bool) {
	if field.Tag == nil {
		return "", false
	}
	raw, err := strconv.Unquote(field.Tag.Value)
	if err != nil {
		return "", false
	}
	return ormnaming.LookupTag(reflect.StructTag(raw))
}

// embeddedName returns the type name of an embedded field: "Base" for Base
// and *Base, "Model" for gorm.Model.
func embeddedName(expr ast.Expr) string {
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return t.Sel.Name
	}
	return ""
}

// structTypes returns the struct declarations of file by type name.
func structTypes(file *ast.File) map[string]*ast.StructType {
	result := make(map[string]*ast.StructType)
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, spec := range genDecl.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			if st, ok := ts.Type.(*ast.StructType); ok {
				result[ts.Name.Name] = st
			}
		}
	}
	return result
}

// tableNameMethods finds `func (T) TableName() string { return "x" }`
// declarations and returns the literal table name per receiver type.
func tableNameMethods(file *ast.File) map[string]string {
	result := make(map[string]string)
	for _, decl := range file.Decls {
		funcDecl, ok := decl.(*ast.FuncDecl)
		if !ok || funcDecl.Name.Name != "TableName" || funcDecl.Recv == nil || funcDecl.Body == nil {
			continue
		}
		if len(funcDecl.Recv.List) == 0 {
			continue
		}

		recvType := ""
		switch t := funcDecl.Recv.List[0].Type.(type) {
		case *ast.StarExpr:
			if ident, ok := t.X.(*ast.Ident); ok {
				recvType = ident.Name
			}
		case *ast.Ident:
			recvType = t.Name
		}
		if recvType == "" {
			continue
		}

		for _, stmt := range funcDecl.Body.List {
			ret, ok := stmt.(*ast.ReturnStmt)
			if !ok || len(ret.Results) == 0 {
				continue
			}
			if table, ok := stringLit(ret.Results[0]); ok {
				result[recvType] = table
				break
			}
		}
	}
	return result
}

func commentLines(cg *ast.CommentGroup) []string {
	if cg == nil {
		return nil
	}
	return strings.Split(strings.TrimSpace(cg.Text()), "\n")
}
