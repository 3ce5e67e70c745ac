package generator_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arllen133/ormnaming/cmd/namegen/generator"
)

func TestParseConfig_NoConfigFile(t *testing.T) {
	// Create a temp directory without config.go
	dir := t.TempDir()

	cfg, err := generator.ParseConfig(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should return nil when no config.go exists
	if cfg != nil {
		t.Errorf("expected nil config, got: %+v", cfg)
	}
}

func TestParseConfig_EmptyConfig(t *testing.T) {
	dir := t.TempDir()

	configContent := `package test

import "github.com/arllen133/ormnaming/gen"

var _ = gen.Config{}
`
	err := os.WriteFile(filepath.Join(dir, "config.go"), []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config.go: %v", err)
	}

	cfg, err := generator.ParseConfig(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg == nil {
		t.Fatal("expected non-nil config")
	}

	// Default values
	if cfg.OutPath != "generated" {
		t.Errorf("expected OutPath 'generated', got '%s'", cfg.OutPath)
	}
	if cfg.ImplicitStrategy != "" || cfg.PhysicalStrategy != "" {
		t.Errorf("expected empty strategies, got %q/%q", cfg.ImplicitStrategy, cfg.PhysicalStrategy)
	}
}

func TestParseConfig_WithStrategies(t *testing.T) {
	dir := t.TempDir()

	configContent := `package test

import "github.com/arllen133/ormnaming/gen"

var _ = gen.Config{
	OutPath:          "columns",
	ImplicitStrategy: "field",
	PhysicalStrategy: "standard",
	Dialect:          "postgres",
}
`
	err := os.WriteFile(filepath.Join(dir, "config.go"), []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config.go: %v", err)
	}

	cfg, err := generator.ParseConfig(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.OutPath != "columns" {
		t.Errorf("expected OutPath 'columns', got '%s'", cfg.OutPath)
	}
	if cfg.ImplicitStrategy != "field" {
		t.Errorf("expected ImplicitStrategy 'field', got '%s'", cfg.ImplicitStrategy)
	}
	if cfg.PhysicalStrategy != "standard" {
		t.Errorf("expected PhysicalStrategy 'standard', got '%s'", cfg.PhysicalStrategy)
	}
	if cfg.Dialect != "postgres" {
		t.Errorf("expected Dialect 'postgres', got '%s'", cfg.Dialect)
	}
}

func TestParseConfig_IncludeExclude(t *testing.T) {
	dir := t.TempDir()

	configContent := `package test

import "github.com/arllen133/ormnaming/gen"

var _ = gen.Config{
	IncludeStructs: []any{"UserRecord", &Account{}, models.Order{}},
	ExcludeStructs: []any{"BaseModel"},
}
`
	err := os.WriteFile(filepath.Join(dir, "config.go"), []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config.go: %v", err)
	}

	cfg, err := generator.ParseConfig(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"UserRecord", "Account", "Order"}
	if len(cfg.IncludeStructs) != len(want) {
		t.Fatalf("expected %d include structs, got %v", len(want), cfg.IncludeStructs)
	}
	for i, name := range want {
		if cfg.IncludeStructs[i] != name {
			t.Errorf("IncludeStructs[%d]: expected %q, got %q", i, name, cfg.IncludeStructs[i])
		}
	}
	if len(cfg.ExcludeStructs) != 1 || cfg.ExcludeStructs[0] != "BaseModel" {
		t.Errorf("expected ExcludeStructs [BaseModel], got %v", cfg.ExcludeStructs)
	}
}

func TestParseConfig_SyntaxError(t *testing.T) {
	dir := t.TempDir()

	configContent := `package test

var _ = gen.Config{
	PhysicalStrategy: "standard",
`
	err := os.WriteFile(filepath.Join(dir, "config.go"), []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config.go: %v", err)
	}

	cfg, err := generator.ParseConfig(dir)
	if err == nil {
		t.Fatalf("expected parse error, got config: %+v", cfg)
	}
	if cfg != nil {
		t.Errorf("expected nil config on error, got: %+v", cfg)
	}
	if !strings.Contains(err.Error(), "config.go") {
		t.Errorf("expected error to name config.go, got: %v", err)
	}
}
