package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(""))
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.MaxBoundSets != DefaultMaxBoundSets {
		t.Errorf("MaxBoundSets = %d, want %d", cfg.MaxBoundSets, DefaultMaxBoundSets)
	}
	if cfg.EntryPoint != "vs_main" {
		t.Errorf("EntryPoint = %q, want vs_main", cfg.EntryPoint)
	}
	if !cfg.WarnShadowedAttributes {
		t.Error("WarnShadowedAttributes should default to true")
	}
}

func TestParseConfigOverrides(t *testing.T) {
	data := []byte(`
log_level = "debug"
asset_root = "testbed"
entry_point = "main_vs"
max_bound_sets = 8
warn_shadowed_attributes = false
`)
	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	want := Config{
		LogLevel:               "debug",
		AssetRoot:              "testbed",
		EntryPoint:             "main_vs",
		MaxBoundSets:           8,
		WarnShadowedAttributes: false,
	}
	if *cfg != want {
		t.Errorf("ParseConfig() = %+v, want %+v", *cfg, want)
	}
}

func TestParseConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"zero sets", "max_bound_sets = 0"},
		{"negative sets", "max_bound_sets = -2"},
		{"empty entry point", `entry_point = ""`},
		{"bad level", `log_level = "chatty"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("ParseConfig() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestParseConfigSyntaxError(t *testing.T) {
	if _, err := ParseConfig([]byte("max_bound_sets = ")); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bindplan.toml")
	if err := os.WriteFile(path, []byte("max_bound_sets = 6\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.MaxBoundSets != 6 {
		t.Errorf("MaxBoundSets = %d, want 6", cfg.MaxBoundSets)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
