package generator

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"

	"github.com/arllen133/ormnaming/gen"
)

// GenConfig holds parsed configuration from config.go
type GenConfig struct {
	OutPath          string
	IncludeStructs   []string
	ExcludeStructs   []string
	ImplicitStrategy string
	PhysicalStrategy string
	Dialect          string
}

// ParseConfig parses config.go in the given directory for gen.Config.
// It returns nil without error when the directory has no config.go.
func ParseConfig(dir string) (*GenConfig, error) {
	configFile := filepath.Join(dir, gen.ConfigFileName)
	if _, err := os.Stat(configFile); err != nil {
		if os.IsNotExist(err) {
			// No config.go found, return nil (use defaults)
			return nil, nil
		}
		return nil, err
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, configFile, nil, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", configFile, err)
	}

	cfg := &GenConfig{
		OutPath: "generated", // default
	}

	// Look for var _ = gen.Config{...}
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.VAR {
			continue
		}

		for _, spec := range genDecl.Specs {
			valueSpec, ok := spec.(*ast.ValueSpec)
			if !ok || len(valueSpec.Values) == 0 {
				continue
			}

			compLit, ok := valueSpec.Values[0].(*ast.CompositeLit)
			if !ok {
				continue
			}

			typeName := ""
			if sel, ok := compLit.Type.(*ast.SelectorExpr); ok {
				// gen.Config
				if ident, ok := sel.X.(*ast.Ident); ok {
					typeName = ident.Name + "." + sel.Sel.Name
				}
			} else if ident, ok := compLit.Type.(*ast.Ident); ok {
				// Config (local)
				typeName = ident.Name
			}

			if typeName != "gen.Config" && typeName != "Config" {
				continue
			}

			for _, elt := range compLit.Elts {
				kv, ok := elt.(*ast.KeyValueExpr)
				if !ok {
					continue
				}

				key, ok := kv.Key.(*ast.Ident)
				if !ok {
					continue
				}

				switch key.Name {
				case "OutPath":
					if s, ok := stringLit(kv.Value); ok {
						cfg.OutPath = s
					}
				case "IncludeStructs":
					cfg.IncludeStructs = parseStringSlice(kv.Value)
				case "ExcludeStructs":
					cfg.ExcludeStructs = parseStringSlice(kv.Value)
				case "ImplicitStrategy":
					cfg.ImplicitStrategy, _ = stringLit(kv.Value)
				case "PhysicalStrategy":
					cfg.PhysicalStrategy, _ = stringLit(kv.Value)
				case "Dialect":
					cfg.Dialect, _ = stringLit(kv.Value)
				}
			}
			return cfg, nil
		}
	}

	return cfg, nil
}

func stringLit(expr ast.Expr) (string, bool) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	s, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return s, true
}

// parseStringSlice extracts struct names from []any{...}
func parseStringSlice(expr ast.Expr) []string {
	var result []string
	compLit, ok := expr.(*ast.CompositeLit)
	if !ok {
		return result
	}

	for _, elt := range compLit.Elts {
		switch v := elt.(type) {
		case *ast.BasicLit:
			if s, ok := stringLit(v); ok {
				result = append(result, s)
			}
		case *ast.CompositeLit:
			// Type literal like models.User{}
			if name := typeName(v.Type); name != "" {
				result = append(result, name)
			}
		case *ast.UnaryExpr:
			// &models.User{}
			if comp, ok := v.X.(*ast.CompositeLit); ok {
				if name := typeName(comp.Type); name != "" {
					result = append(result, name)
				}
			}
		}
	}
	return result
}

func typeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.Ident:
		return t.Name
	}
	return ""
}

// FilterModels applies the Include/Exclude filters of cfg.
func FilterModels(models []ModelMeta, cfg *GenConfig) []ModelMeta {
	if len(cfg.IncludeStructs) == 0 && len(cfg.ExcludeStructs) == 0 {
		return models
	}

	includeSet := make(map[string]bool)
	for _, name := range cfg.IncludeStructs {
		includeSet[name] = true
	}

	excludeSet := make(map[string]bool)
	for _, name := range cfg.ExcludeStructs {
		excludeSet[name] = true
	}

	var result []ModelMeta
	for _, m := range models {
		if excludeSet[m.ModelName] {
			continue
		}
		if len(includeSet) > 0 && !includeSet[m.ModelName] {
			continue
		}
		result = append(result, m)
	}
	return result
}
