// Package config loads the gridgen YAML configuration and applies GRIDGEN_
// environment overrides on top of it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-gridgen/pkg/generator"
	"github.com/goliatone/go-gridgen/pkg/model"
	"github.com/goliatone/go-gridgen/pkg/render"
)

// Environment variables consulted by Load.
const (
	EnvAddr      = "GRIDGEN_ADDR"
	EnvLogLevel  = "GRIDGEN_LOG_LEVEL"
	EnvLogFormat = "GRIDGEN_LOG_FORMAT"
	EnvSeed      = "GRIDGEN_SEED"
)

// Config is the root configuration.
type Config struct {
	Server ServerConfig         `yaml:"server"`
	Grid   GridConfig           `yaml:"grid"`
	Page   PageConfig           `yaml:"page"`
	Theme  ThemeConfig          `yaml:"theme"`
	Labels render.MapTranslator `yaml:"labels"`
	Log    LogConfig            `yaml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// GridConfig holds the starting model and generation settings.
type GridConfig struct {
	Model   model.GridModel   `yaml:"model"`
	Seed    uint64            `yaml:"seed"`
	Limits  model.Limits      `yaml:"limits"`
	Palette generator.Palette `yaml:"palette"`
}

// PageConfig is page chrome. Both fields accept markup, which renderers
// sanitise.
type PageConfig struct {
	Title string `yaml:"title"`
	Intro string `yaml:"intro"`
}

// ThemeConfig describes a single theme manifest inline.
type ThemeConfig struct {
	Name      string                        `yaml:"name"`
	Version   string                        `yaml:"version"`
	Variant   string                        `yaml:"variant"`
	Tokens    map[string]string             `yaml:"tokens"`
	Templates map[string]string             `yaml:"templates"`
	Assets    AssetsConfig                  `yaml:"assets"`
	Variants  map[string]ThemeVariantConfig `yaml:"variants"`
}

// AssetsConfig mirrors theme.Assets.
type AssetsConfig struct {
	Prefix string            `yaml:"prefix"`
	Files  map[string]string `yaml:"files"`
}

// ThemeVariantConfig mirrors theme.Variant.
type ThemeVariantConfig struct {
	Tokens    map[string]string `yaml:"tokens"`
	Templates map[string]string `yaml:"templates"`
	Assets    AssetsConfig      `yaml:"assets"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// Duration is a time.Duration read from strings such as "5s".
type Duration time.Duration

// UnmarshalYAML accepts Go duration strings.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML writes the duration back in its string form.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns a configuration that works without a file.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration(10 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			ShutdownTimeout: Duration(5 * time.Second),
		},
		Grid: GridConfig{
			Model:   model.DefaultModel(),
			Limits:  model.DefaultLimits(),
			Palette: generator.DefaultPalette(),
		},
		Page: PageConfig{
			Title: "Grid generator",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path over the defaults and applies environment overrides. An
// empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if addr := strings.TrimSpace(os.Getenv(EnvAddr)); addr != "" {
		c.Server.Addr = addr
	}
	if level := strings.TrimSpace(os.Getenv(EnvLogLevel)); level != "" {
		c.Log.Level = level
	}
	if format := strings.TrimSpace(os.Getenv(EnvLogFormat)); format != "" {
		c.Log.Format = format
	}
	if raw := strings.TrimSpace(os.Getenv(EnvSeed)); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvSeed, err)
		}
		c.Grid.Seed = seed
	}
	return nil
}

// Validate checks the starting model against the configured limits.
func (c *Config) Validate() error {
	if err := c.Grid.Model.ValidateWithin(c.Grid.Limits); err != nil {
		return fmt.Errorf("config: grid.model: %w", err)
	}
	if c.Theme.Variant != "" && c.Theme.Name == "" {
		return errors.New("config: theme.variant set without theme.name")
	}
	if c.Theme.Variant != "" {
		if _, ok := c.Theme.Variants[c.Theme.Variant]; !ok {
			return fmt.Errorf("config: theme.variant %q is not defined", c.Theme.Variant)
		}
	}
	return nil
}

// Manifest converts the inline theme into a go-theme manifest. It returns nil
// when no theme is configured.
func (t ThemeConfig) Manifest() *theme.Manifest {
	if strings.TrimSpace(t.Name) == "" {
		return nil
	}
	manifest := &theme.Manifest{
		Name:      t.Name,
		Version:   t.Version,
		Tokens:    t.Tokens,
		Templates: t.Templates,
		Assets:    theme.Assets{Prefix: t.Assets.Prefix, Files: t.Assets.Files},
	}
	if len(t.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(t.Variants))
		for name, v := range t.Variants {
			manifest.Variants[name] = theme.Variant{
				Tokens:    v.Tokens,
				Templates: v.Templates,
				Assets:    theme.Assets{Prefix: v.Assets.Prefix, Files: v.Assets.Files},
			}
		}
	}
	return manifest
}

// Translator returns the configured labels, or nil when there are none.
func (c *Config) Translator() render.Translator {
	if len(c.Labels) == 0 {
		return nil
	}
	return c.Labels
}
