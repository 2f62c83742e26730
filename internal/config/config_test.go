package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-gridgen/pkg/model"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "gridgen.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:9090" {
		t.Fatalf("addr not loaded: %q", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout.Std() != 2*time.Second {
		t.Fatalf("read timeout not parsed: %v", cfg.Server.ReadTimeout.Std())
	}
	if cfg.Server.WriteTimeout.Std() != 30*time.Second {
		t.Fatalf("unset timeout lost its default: %v", cfg.Server.WriteTimeout.Std())
	}

	want := model.GridModel{Cols: 12, Rows: 8, ColSize: 36, RowSize: 38}
	if diff := cmp.Diff(want, cfg.Grid.Model); diff != "" {
		t.Fatalf("model mismatch (-want +got):\n%s", diff)
	}
	if cfg.Grid.Seed != 77 || cfg.Grid.Limits.MaxCells != 5000 {
		t.Fatalf("grid settings not loaded: %+v", cfg.Grid)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("log settings not loaded: %+v", cfg.Log)
	}

	text, err := cfg.Translator().Translate("es", "grid.actions.generate")
	if err != nil || text != "Generar" {
		t.Fatalf("labels not loaded: %q, %v", text, err)
	}
}

func TestThemeConfig_Manifest(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "gridgen.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	manifest := cfg.Theme.Manifest()
	if manifest == nil {
		t.Fatalf("expected manifest")
	}
	if manifest.Name != "acme" || manifest.Version != "1.0.0" {
		t.Fatalf("manifest identity mismatch: %s@%s", manifest.Name, manifest.Version)
	}
	if manifest.Assets.Files["grid.stylesheet"] != "theme.css" {
		t.Fatalf("assets not converted: %+v", manifest.Assets)
	}
	if manifest.Variants["dark"].Tokens["brand"] != "#654321" {
		t.Fatalf("variant not converted: %+v", manifest.Variants)
	}

	if (ThemeConfig{}).Manifest() != nil {
		t.Fatalf("empty theme should produce no manifest")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvAddr, ":7070")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvSeed, "123")

	cfg, err := Load(filepath.Join("testdata", "gridgen.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":7070" || cfg.Log.Level != "warn" || cfg.Grid.Seed != 123 {
		t.Fatalf("env overrides not applied: addr=%q level=%q seed=%d", cfg.Server.Addr, cfg.Log.Level, cfg.Grid.Seed)
	}
}

func TestLoad_InvalidSeedEnv(t *testing.T) {
	t.Setenv(EnvSeed, "minus-one")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for invalid seed")
	}
}

func TestLoad_RejectsInvalidModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	data := []byte("grid:\n  model:\n    cols: 0\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := Load(path)
	if !errors.Is(err, model.ErrInvalidModel) {
		t.Fatalf("expected ErrInvalidModel, got %v", err)
	}
}

func TestLoad_RejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("server:\n  read_timeout: soon\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for bad duration")
	}
}

func TestValidate_UnknownVariant(t *testing.T) {
	cfg := Default()
	cfg.Theme = ThemeConfig{Name: "acme", Variant: "dark"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for undefined variant")
	}
}
