package ormnaming

import (
	"fmt"
	"reflect"
	"strings"
)

// TagName is the struct tag read for column overrides and options.
// FallbackTagName is consulted when TagName is absent.
const (
	TagName         = "db"
	FallbackTagName = "orm"
)

// Tabler is implemented by models that override their table name,
// following the GORM convention.
type Tabler interface {
	TableName() string
}

// FieldSource describes one persistent field before naming.
type FieldSource struct {
	GoName        string       // Go struct field name, e.g. "UserName"
	LogicalName   string       // Property-style name, e.g. "userName"
	Override      string       // Explicit column name from the tag, empty if none
	PrimaryKey    bool         // Tagged primaryKey/pk
	AutoIncrement bool         // Tagged autoIncrement
	GoType        string       // Type as written, e.g. "int64" or "*time.Time"
	Kind          reflect.Kind // Underlying kind, reflect.Invalid if unknown
}

// EntitySource describes a model type before naming.
type EntitySource struct {
	GoName        string // Go type name, e.g. "UserRecord"
	LogicalName   string // Entity name, defaults to GoName
	TableOverride string // Explicit table name, empty if none
	Fields        []FieldSource
}

// Tag is the parsed form of a `db` struct tag.
type Tag struct {
	Column        string
	Table         string
	PrimaryKey    bool
	AutoIncrement bool
	Skip          bool
}

// ParseTag parses the value of a db tag.
//
// The first element, if it has no ':' in it, is the column override. Options
// may be separated by ',' or ';':
//
//	db:"user_address"
//	db:"id,primaryKey,autoIncrement"
//	db:"column:userAge"
//	db:",pk;table:user_record"
//	db:"-"
func ParseTag(value string) Tag {
	var tag Tag
	if value == "-" {
		tag.Skip = true
		return tag
	}
	if value == "" {
		return tag
	}

	value = strings.ReplaceAll(value, ";", ",")
	parts := strings.Split(value, ",")

	if first := strings.TrimSpace(parts[0]); first != "" && !strings.Contains(first, ":") {
		tag.Column = first
	}

	for _, part := range parts {
		key, val, _ := strings.Cut(strings.TrimSpace(part), ":")
		switch key {
		case "primaryKey", "primarykey", "pk":
			tag.PrimaryKey = true
		case "autoIncrement", "autoincrement":
			tag.AutoIncrement = true
		case "column":
			if val != "" {
				tag.Column = val
			}
		case "table":
			if val != "" {
				tag.Table = val
			}
		}
	}
	return tag
}

// LookupTag returns the naming tag of a struct field, preferring db over orm.
func LookupTag(st reflect.StructTag) (string, bool) {
	if v, ok := st.Lookup(TagName); ok {
		return v, true
	}
	return st.Lookup(FallbackTagName)
}

// NewFieldSource builds a FieldSource from a field name, its tag value and
// its type as written in source.
func NewFieldSource(goName, tagValue, goType string) (FieldSource, Tag) {
	tag := ParseTag(tagValue)
	return FieldSource{
		GoName:        goName,
		LogicalName:   LogicalName(goName),
		Override:      tag.Column,
		PrimaryKey:    tag.PrimaryKey,
		AutoIncrement: tag.AutoIncrement,
		GoType:        goType,
		Kind:          KindOf(goType),
	}, tag
}

// SourceOf builds an EntitySource from a struct type using reflection.
// Unexported fields and fields tagged db:"-" are skipped; embedded structs
// are flattened. A struct that embeds itself, directly or through another
// embedded struct, is rejected with ErrRecursiveEmbedding.
func SourceOf(typ reflect.Type) (EntitySource, error) {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return EntitySource{}, fmt.Errorf("%w: %s", ErrNotStruct, typ)
	}

	src := EntitySource{
		GoName:      typ.Name(),
		LogicalName: typ.Name(),
	}

	// embedding holds the structs on the current embedding path
	embedding := map[reflect.Type]bool{typ: true}
	var collect func(t reflect.Type) error
	collect = func(t reflect.Type) error {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			tagValue, _ := LookupTag(field.Tag)

			if field.Anonymous && tagValue == "" {
				ft := field.Type
				if ft.Kind() == reflect.Ptr {
					ft = ft.Elem()
				}
				if ft.Kind() == reflect.Struct {
					if embedding[ft] {
						return fmt.Errorf("%w: %s embeds %s", ErrRecursiveEmbedding, t, ft)
					}
					embedding[ft] = true
					err := collect(ft)
					delete(embedding, ft)
					if err != nil {
						return err
					}
					continue
				}
			}
			if !field.IsExported() {
				continue
			}

			fs, tag := NewFieldSource(field.Name, tagValue, field.Type.String())
			if tag.Skip {
				continue
			}
			fs.Kind = indirectKind(field.Type)
			if tag.Table != "" && src.TableOverride == "" {
				src.TableOverride = tag.Table
			}
			src.Fields = append(src.Fields, fs)
		}
		return nil
	}
	if err := collect(typ); err != nil {
		return EntitySource{}, err
	}

	if tabler, ok := reflect.New(typ).Interface().(Tabler); ok {
		src.TableOverride = tabler.TableName()
	}
	return src, nil
}

func indirectKind(t reflect.Type) reflect.Kind {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
		return reflect.Slice
	}
	if t.Kind() == reflect.Struct {
		if t.PkgPath() == "time" && t.Name() == "Time" {
			return reflect.Struct
		}
		return reflect.Invalid
	}
	return t.Kind()
}

var kindsByName = map[string]reflect.Kind{
	"bool":    reflect.Bool,
	"int":     reflect.Int,
	"int8":    reflect.Int8,
	"int16":   reflect.Int16,
	"int32":   reflect.Int32,
	"int64":   reflect.Int64,
	"uint":    reflect.Uint,
	"uint8":   reflect.Uint8,
	"uint16":  reflect.Uint16,
	"uint32":  reflect.Uint32,
	"uint64":  reflect.Uint64,
	"float32": reflect.Float32,
	"float64": reflect.Float64,
	"string":  reflect.String,
	"[]byte":  reflect.Slice,
	"byte":    reflect.Uint8,
	"rune":    reflect.Int32,
}

// KindOf maps a Go type as written in source to its kind. Pointers are
// dereferenced and time.Time reports reflect.Struct. Unknown types report
// reflect.Invalid.
func KindOf(goType string) reflect.Kind {
	goType = strings.TrimLeft(goType, "*")
	if k, ok := kindsByName[goType]; ok {
		return k
	}
	if goType == "time.Time" || goType == "sql.NullTime" {
		return reflect.Struct
	}
	return reflect.Invalid
}
