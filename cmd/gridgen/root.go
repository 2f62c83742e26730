package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-gridgen/internal/config"
	"github.com/goliatone/go-gridgen/internal/logging"
	"github.com/goliatone/go-gridgen/pkg/model"
	"github.com/goliatone/go-gridgen/pkg/orchestrator"
	"github.com/goliatone/go-gridgen/pkg/render"
	"github.com/goliatone/go-gridgen/pkg/renderers/jsonrender"
	"github.com/goliatone/go-gridgen/pkg/renderers/terminal"
	"github.com/goliatone/go-gridgen/pkg/renderers/vanilla"
)

// app carries state shared by every subcommand once PersistentPreRunE has
// loaded the configuration.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "gridgen",
		Short: "Generate tables of randomly coloured cells",
		Long: `gridgen builds a table of Cols x Rows cells, each ColSize x RowSize pixels,
and gives every cell a random colour. Generate recolours every cell.

Serve it over HTTP, render it once to HTML, JSON or the terminal, or edit the
model interactively.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to a YAML config file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: json, console")

	root.AddCommand(
		newServeCommand(a),
		newRenderCommand(a),
		newPreviewCommand(a),
		newPromptCommand(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// orchestratorOptions configures how a command builds its container.
type orchestratorOptions struct {
	model    model.GridModel
	seed     uint64
	html     []vanilla.Option
	terminal []terminal.Option
}

func (a *app) orchestrator(opts orchestratorOptions) (*orchestrator.Orchestrator, error) {
	html, err := vanilla.New(opts.html...)
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	registry.MustRegister(html)
	registry.MustRegister(jsonrender.New(jsonrender.WithIndent("  ")))
	registry.MustRegister(terminal.New(opts.terminal...))

	grid := a.cfg.Grid
	m := grid.Model
	if opts.model != (model.GridModel{}) {
		m = opts.model
	}
	seed := grid.Seed
	if opts.seed != 0 {
		seed = opts.seed
	}

	options := []orchestrator.Option{
		orchestrator.WithDefaultModel(m),
		orchestrator.WithSeed(seed),
		orchestrator.WithLimits(grid.Limits),
		orchestrator.WithPalette(grid.Palette),
		orchestrator.WithRegistry(registry),
		orchestrator.WithLogger(a.logger.Named("grid")),
		orchestrator.WithTranslator(a.cfg.Translator()),
	}
	if manifest := a.cfg.Theme.Manifest(); manifest != nil {
		options = append(options, orchestrator.WithThemeManifest(manifest, a.cfg.Theme.Variant))
	}
	return orchestrator.New(options...)
}
