package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-gridgen/pkg/model"
	"github.com/goliatone/go-gridgen/pkg/orchestrator"
	"github.com/goliatone/go-gridgen/pkg/render"
	"github.com/goliatone/go-gridgen/pkg/renderers/terminal"
	"github.com/goliatone/go-gridgen/pkg/renderers/vanilla"
)

type renderFlags struct {
	cols, rows       int
	colSize, rowSize int
	seed             uint64
	generations      int
	renderer         string
	output           string
	theme, variant   string
	locale           string
	color            string
	maxCols, maxRows int
}

func (f *renderFlags) bind(cmd *cobra.Command, defaultRenderer string) {
	flags := cmd.Flags()
	flags.IntVar(&f.cols, "cols", 0, "number of columns (default from config)")
	flags.IntVar(&f.rows, "rows", 0, "number of rows (default from config)")
	flags.IntVar(&f.colSize, "col-size", 0, "cell width in pixels (default from config)")
	flags.IntVar(&f.rowSize, "row-size", 0, "cell height in pixels (default from config)")
	flags.Uint64Var(&f.seed, "seed", 0, "base seed; 0 uses grid.seed or a random one")
	flags.IntVar(&f.generations, "generations", 0, "press Generate this many times before rendering")
	flags.StringVar(&f.renderer, "renderer", defaultRenderer, "renderer: vanilla, json, terminal")
	flags.StringVarP(&f.output, "output", "o", "", "write to file instead of stdout")
	flags.StringVar(&f.theme, "theme", "", "theme name")
	flags.StringVar(&f.variant, "variant", "", "theme variant")
	flags.StringVar(&f.locale, "locale", "", "locale for labels")
	flags.StringVar(&f.color, "color", "auto", "terminal colours: auto, always, never")
	flags.IntVar(&f.maxCols, "max-cols", 0, "terminal: downsample to at most this many columns")
	flags.IntVar(&f.maxRows, "max-rows", 0, "terminal: downsample to at most this many rows")
}

// gridModel overlays the flags that were set on base.
func (f *renderFlags) gridModel(cmd *cobra.Command, base model.GridModel) model.GridModel {
	m := base
	set := func(name string, dst *int, value int) {
		if cmd.Flags().Changed(name) {
			*dst = value
		}
	}
	set("cols", &m.Cols, f.cols)
	set("rows", &m.Rows, f.rows)
	set("col-size", &m.ColSize, f.colSize)
	set("row-size", &m.RowSize, f.rowSize)
	return m
}

func (f *renderFlags) colorProfile() (termenv.Profile, error) {
	switch strings.ToLower(f.color) {
	case "", "auto":
		if f.output != "" {
			return termenv.TrueColor, nil
		}
		return termenv.EnvColorProfile(), nil
	case "always":
		return termenv.TrueColor, nil
	case "never":
		return termenv.Ascii, nil
	default:
		return termenv.Ascii, fmt.Errorf("unknown --color %q", f.color)
	}
}

func (f *renderFlags) orchestratorOptions(cmd *cobra.Command, a *app) (orchestratorOptions, error) {
	m := f.gridModel(cmd, a.cfg.Grid.Model)
	if err := m.ValidateWithin(a.cfg.Grid.Limits); err != nil {
		return orchestratorOptions{}, err
	}
	profile, err := f.colorProfile()
	if err != nil {
		return orchestratorOptions{}, err
	}
	return orchestratorOptions{
		model: m,
		seed:  f.seed,
		html:  []vanilla.Option{vanilla.WithDefaultStyles()},
		terminal: []terminal.Option{
			terminal.WithColorProfile(profile),
			terminal.WithMaxColumns(f.maxCols),
			terminal.WithMaxRows(f.maxRows),
		},
	}, nil
}

func (f *renderFlags) request(a *app) orchestrator.Request {
	return orchestrator.Request{
		Renderer:     f.renderer,
		ThemeName:    f.theme,
		ThemeVariant: f.variant,
		RenderOptions: render.RenderOptions{
			Locale: f.locale,
			Title:  a.cfg.Page.Title,
			Intro:  a.cfg.Page.Intro,
		},
	}
}

func newRenderCommand(a *app) *cobra.Command {
	flags := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the grid once as HTML, JSON or terminal output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, a, flags)
		},
	}
	flags.bind(cmd, "vanilla")
	return cmd
}

func newPreviewCommand(a *app) *cobra.Command {
	flags := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview the grid in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags.renderer = "terminal"
			return runRender(cmd, a, flags)
		},
	}
	flags.bind(cmd, "terminal")
	return cmd
}

func runRender(cmd *cobra.Command, a *app, flags *renderFlags) error {
	if flags.generations < 0 {
		return fmt.Errorf("--generations must not be negative")
	}
	opts, err := flags.orchestratorOptions(cmd, a)
	if err != nil {
		return err
	}
	orch, err := a.orchestrator(opts)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	for i := 0; i < flags.generations; i++ {
		if _, err := orch.Generate(ctx); err != nil {
			return err
		}
	}

	out, err := orch.Render(ctx, flags.request(a))
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), flags.output, out.Body)
}

func writeOutput(stdout io.Writer, path string, body []byte) error {
	if path == "" {
		_, err := stdout.Write(body)
		return err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
