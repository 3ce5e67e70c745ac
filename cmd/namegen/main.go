// Command namegen prints how the table and column names of model structs are
// resolved, and can emit DDL or Go constants for the resolved names.
//
//	namegen -i ./domain
//	namegen -i ./domain -physical standard -format json
//	namegen -i ./domain -format ddl -dialect postgres
//	namegen -i ./domain -format go -o ./domain/generated
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/arllen133/ormnaming"
	"github.com/arllen133/ormnaming/cmd/namegen/generator"
	"github.com/arllen133/ormnaming/gen"
)

type options struct {
	outDir   string
	implicit string
	physical string
	format   string
	dialect  string
	verbose  bool
}

func main() {
	inputDir := flag.String("i", ".", "input directory containing model files")
	recursive := flag.Bool("r", false, "recursively search subdirectories for config.go")
	var opts options
	flag.StringVar(&opts.outDir, "o", "", "output directory for -format go (overrides config.go)")
	flag.StringVar(&opts.implicit, "implicit", "", "implicit naming strategy: jpa, field (overrides config.go)")
	flag.StringVar(&opts.physical, "physical", "", "physical naming strategy: snake, standard, lower (overrides config.go)")
	flag.StringVar(&opts.format, "format", "table", "output format: table, json, ddl, go")
	flag.StringVar(&opts.dialect, "dialect", "", "DDL dialect: sqlite3, mysql, postgres (overrides config.go)")
	flag.BoolVar(&opts.verbose, "v", false, "log every resolved name")
	flag.Parse()

	ctx := context.Background()

	if *recursive {
		dirs, err := findConfigDirs(*inputDir)
		if err != nil {
			log.Fatalf("failed to find config directories: %v", err)
		}

		if len(dirs) == 0 {
			fmt.Fprintln(os.Stderr, "No config.go files found.")
			return
		}

		for _, dir := range dirs {
			fmt.Fprintf(os.Stderr, "=== Processing %s ===\n", dir)
			if err := processDir(ctx, dir, opts); err != nil {
				log.Fatal(err)
			}
		}
		return
	}

	if err := processDir(ctx, *inputDir, opts); err != nil {
		log.Fatal(err)
	}
}

// findConfigDirs recursively finds all directories containing config.go
func findConfigDirs(root string) ([]string, error) {
	var dirs []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if info.Name() == gen.ConfigFileName {
			dirs = append(dirs, filepath.Dir(path))
		}
		return nil
	})
	return dirs, err
}

// processDir resolves and outputs the models of a single directory
func processDir(ctx context.Context, modelDir string, opts options) error {
	cfg, err := generator.ParseConfig(modelDir)
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg == nil {
		cfg = &generator.GenConfig{}
	}

	// flag > config > default
	implicit := firstNonEmpty(opts.implicit, cfg.ImplicitStrategy)
	physical := firstNonEmpty(opts.physical, cfg.PhysicalStrategy)

	var resolverOpts []ormnaming.ResolverOption
	if opts.verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		resolverOpts = append(resolverOpts, ormnaming.WithObservability(ormnaming.WithLogger(logger)))
	}
	resolver, err := ormnaming.NewResolverByName(implicit, physical, resolverOpts...)
	if err != nil {
		return err
	}

	models, err := generator.ParseModels(modelDir)
	if err != nil {
		return fmt.Errorf("failed to parse models: %w", err)
	}
	models = generator.FilterModels(models, cfg)

	mappings, err := generator.Resolve(ctx, resolver, models)
	if err != nil {
		return err
	}

	switch opts.format {
	case "table":
		return generator.WriteTable(os.Stdout, mappings)
	case "json":
		return generator.WriteJSON(os.Stdout, mappings)
	case "ddl":
		d, err := ormnaming.DialectByName(firstNonEmpty(opts.dialect, cfg.Dialect))
		if err != nil {
			return err
		}
		return generator.WriteDDL(os.Stdout, d, mappings)
	case "go":
		outDir := modelDir
		if opts.outDir != "" {
			outDir = opts.outDir
		} else if cfg.OutPath != "" {
			// OutPath is relative to modelDir
			outDir = filepath.Join(modelDir, cfg.OutPath)
		}
		for i, m := range mappings {
			pkgName := models[i].PackageName
			if filepath.Clean(outDir) != filepath.Clean(modelDir) {
				pkgName = filepath.Base(outDir)
			}
			path, err := generator.GenerateFile(pkgName, m, outDir)
			if err != nil {
				return fmt.Errorf("failed to generate file for %s: %w", m.Entity(), err)
			}
			fmt.Fprintf(os.Stderr, "Generated %s\n", path)
		}
		return nil
	}
	return fmt.Errorf("unknown format %q", opts.format)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
