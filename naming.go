// Package ormnaming derives database table and column names from Go struct
// definitions using a two-stage naming model.
//
// The first stage (implicit naming) picks a candidate name for a table or
// column: an explicit override from a struct tag or TableName method is used
// verbatim, otherwise the candidate is derived from the Go identifier. The
// second stage (physical naming) normalizes that candidate into the name that
// is actually stored in the database. The physical stage runs on overrides
// too, so an override written in camelCase still ends up in snake_case under
// the default configuration:
//
//	field        override       implicit       physical
//	UserName     -              userName       user_name
//	UserAddress  user_address   user_address   user_address
//	UserAge      userAge        userAge        user_age
//
// Usage example:
//
//	resolver := ormnaming.NewResolver()
//	mapping, err := ormnaming.Resolve[domain.UserRecord](ctx, resolver)
//	if err != nil {
//	    return err
//	}
//	col, _ := mapping.Column("userAge")
//	fmt.Println(col.Physical) // user_age
package ormnaming

import (
	"fmt"
	"strings"
	"unicode"
)

// ImplicitNamingStrategy is the first naming stage. It returns the candidate
// name for a table or column before physical normalization.
//
// Implementations must return an override verbatim when one is present.
type ImplicitNamingStrategy interface {
	// Name identifies the strategy in configuration and logs.
	Name() string

	// TableName returns the implicit table name for an entity.
	TableName(src EntitySource) string

	// ColumnName returns the implicit column name for a field.
	ColumnName(src FieldSource) string
}

// PhysicalNamingStrategy is the second naming stage. It is applied to every
// implicit name, including names that came from an override.
type PhysicalNamingStrategy interface {
	// Name identifies the strategy in configuration and logs.
	Name() string

	// ToPhysicalTableName normalizes an implicit table name.
	ToPhysicalTableName(name string) string

	// ToPhysicalColumnName normalizes an implicit column name.
	ToPhysicalColumnName(name string) string
}

// Pre-defined strategies. If no strategy is configured a Resolver uses
// ImplicitJPA and PhysicalSnakeCase.
var (
	ImplicitJPA     ImplicitNamingStrategy = implicitJPA{}     // eg "UserName" -> "userName"
	ImplicitGoField ImplicitNamingStrategy = implicitGoField{} // eg "UserName" -> "UserName"

	PhysicalSnakeCase PhysicalNamingStrategy = physicalConvention{name: "snake", convert: toSnakeCase}    // eg "userName" -> "user_name"
	PhysicalStandard  PhysicalNamingStrategy = physicalConvention{name: "standard", convert: sameName}    // eg "userName" -> "userName"
	PhysicalLowerCase PhysicalNamingStrategy = physicalConvention{name: "lower", convert: strings.ToLower} // eg "userName" -> "username"
)

var (
	implicitStrategies = map[string]ImplicitNamingStrategy{
		ImplicitJPA.Name():     ImplicitJPA,
		ImplicitGoField.Name(): ImplicitGoField,
	}
	physicalStrategies = map[string]PhysicalNamingStrategy{
		PhysicalSnakeCase.Name(): PhysicalSnakeCase,
		PhysicalStandard.Name():  PhysicalStandard,
		PhysicalLowerCase.Name(): PhysicalLowerCase,
	}
)

// ImplicitStrategyByName returns the pre-defined implicit strategy with the
// given name. An empty name selects ImplicitJPA.
func ImplicitStrategyByName(name string) (ImplicitNamingStrategy, error) {
	if name == "" {
		return ImplicitJPA, nil
	}
	if s, ok := implicitStrategies[name]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: implicit %q", ErrUnknownStrategy, name)
}

// PhysicalStrategyByName returns the pre-defined physical strategy with the
// given name. An empty name selects PhysicalSnakeCase.
func PhysicalStrategyByName(name string) (PhysicalNamingStrategy, error) {
	if name == "" {
		return PhysicalSnakeCase, nil
	}
	if s, ok := physicalStrategies[name]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: physical %q", ErrUnknownStrategy, name)
}

// implicitJPA names columns after the logical (property) name of a field and
// tables after the entity name.
type implicitJPA struct{}

func (implicitJPA) Name() string { return "jpa" }

func (implicitJPA) TableName(src EntitySource) string {
	if src.TableOverride != "" {
		return src.TableOverride
	}
	if src.LogicalName != "" {
		return src.LogicalName
	}
	return src.GoName
}

func (implicitJPA) ColumnName(src FieldSource) string {
	if src.Override != "" {
		return src.Override
	}
	if src.LogicalName != "" {
		return src.LogicalName
	}
	return LogicalName(src.GoName)
}

// implicitGoField names columns after the Go field name as written.
type implicitGoField struct{}

func (implicitGoField) Name() string { return "field" }

func (implicitGoField) TableName(src EntitySource) string {
	if src.TableOverride != "" {
		return src.TableOverride
	}
	return src.GoName
}

func (implicitGoField) ColumnName(src FieldSource) string {
	if src.Override != "" {
		return src.Override
	}
	return src.GoName
}

// physicalConvention applies the same conversion to tables and columns.
type physicalConvention struct {
	name    string
	convert func(string) string
}

func (c physicalConvention) Name() string { return c.name }

func (c physicalConvention) ToPhysicalTableName(name string) string {
	return c.convert(name)
}

func (c physicalConvention) ToPhysicalColumnName(name string) string {
	return c.convert(name)
}

func sameName(name string) string {
	return name
}

// toSnakeCase lower-cases name and inserts an underscore at each word
// boundary: before an upper-case letter that follows a lower-case letter or
// digit, and before the last letter of an upper-case run that starts a new
// word ("HTMLElement" -> "html_element"). Existing underscores are kept.
func toSnakeCase(name string) string {
	runes := []rune(name)
	n := len(runes)
	var buf strings.Builder
	buf.Grow(n + 4)

	for i := 0; i < n; i++ {
		r := runes[i]
		if i > 0 && unicode.IsUpper(r) && runes[i-1] != '_' {
			prev := runes[i-1]
			if unicode.IsLower(prev) || unicode.IsDigit(prev) ||
				(unicode.IsUpper(prev) && i+1 < n && unicode.IsLower(runes[i+1])) {
				buf.WriteByte('_')
			}
		}
		buf.WriteRune(unicode.ToLower(r))
	}

	return buf.String()
}

// LogicalName returns the property-style name of a Go identifier: the first
// letter is lower-cased unless the first two letters are both upper case, so
// "UserName" becomes "userName" while "ID" and "URL" are left alone.
func LogicalName(goName string) string {
	runes := []rune(goName)
	if len(runes) == 0 {
		return goName
	}
	if len(runes) > 1 && unicode.IsUpper(runes[0]) && unicode.IsUpper(runes[1]) {
		return goName
	}
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
