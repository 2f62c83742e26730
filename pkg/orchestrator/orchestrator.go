package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-gridgen/pkg/form"
	"github.com/goliatone/go-gridgen/pkg/generator"
	"github.com/goliatone/go-gridgen/pkg/model"
	"github.com/goliatone/go-gridgen/pkg/render"
	"github.com/goliatone/go-gridgen/pkg/renderers/jsonrender"
	"github.com/goliatone/go-gridgen/pkg/renderers/terminal"
	"github.com/goliatone/go-gridgen/pkg/renderers/vanilla"
	"github.com/goliatone/go-gridgen/pkg/table"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithDefaultModel sets the model the container starts with.
func WithDefaultModel(m model.GridModel) Option {
	return func(o *Orchestrator) {
		o.model = m
	}
}

// WithSequence injects the seed sequence. Tests use it to make generations
// reproducible.
func WithSequence(seq *generator.Sequence) Option {
	return func(o *Orchestrator) {
		if seq != nil {
			o.seq = seq
		}
	}
}

// WithSeed is shorthand for WithSequence(generator.NewSequence(base)). Zero
// picks a random base.
func WithSeed(base uint64) Option {
	return func(o *Orchestrator) {
		o.seq = generator.NewSequence(base)
	}
}

// WithPalette sets the saturation and value cells are drawn with. Theme
// tokens override it.
func WithPalette(p generator.Palette) Option {
	return func(o *Orchestrator) {
		o.palette = p
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithThemeSelector resolves theme/variant choices ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.selector = selector
	}
}

// WithThemeManifest registers a manifest with the built-in selector and makes
// it the default theme, using variant when a request names none.
func WithThemeManifest(manifest *theme.Manifest, variant string) Option {
	return func(o *Orchestrator) {
		if manifest == nil {
			return
		}
		sel, ok := o.selector.(*ManifestSelector)
		if !ok || sel == nil {
			sel = NewManifestSelector()
			o.selector = sel
		}
		sel.Add(manifest)
		o.themeName = manifest.Name
		o.themeVariant = variant
	}
}

// WithThemeFallbacks supplies partials used when the selected theme does not
// override them.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		o.fallbacks = fallbacks
	}
}

// WithLimits bounds accepted models.
func WithLimits(limits model.Limits) Option {
	return func(o *Orchestrator) {
		o.limits = limits
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTranslator sets the translator used when a request does not carry one.
func WithTranslator(t render.Translator) Option {
	return func(o *Orchestrator) {
		o.translator = t
	}
}

// Orchestrator owns the grid state. Reads return snapshots; writes go through
// SetModel and Generate, which serialise on an internal mutex.
type Orchestrator struct {
	mu    sync.RWMutex
	model model.GridModel
	table model.Table

	genMu   sync.Mutex
	editMu  sync.Mutex
	loading atomic.Bool

	seq             *generator.Sequence
	palette         generator.Palette
	limits          model.Limits
	registry        *render.Registry
	defaultRenderer string
	selector        theme.ThemeSelector
	themeName       string
	themeVariant    string
	fallbacks       map[string]string
	logger          *zap.Logger
	translator      render.Translator
}

// New constructs an Orchestrator, validates the default model and generates
// the initial table so the first page already has colours.
func New(options ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		model:           model.DefaultModel(),
		palette:         generator.DefaultPalette(),
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if err := o.applyDefaults(); err != nil {
		return nil, err
	}

	if err := o.model.ValidateWithin(o.limits); err != nil {
		return nil, fmt.Errorf("orchestrator: default model: %w", err)
	}

	if o.selector != nil && o.themeName != "" {
		cfg, err := o.resolveTheme(o.themeName, o.themeVariant)
		if err != nil {
			return nil, err
		}
		o.palette = generator.PaletteFromTokens(cfg.Tokens, o.palette)
	}

	if _, err := o.Generate(context.Background()); err != nil {
		return nil, fmt.Errorf("orchestrator: initial generation: %w", err)
	}
	return o, nil
}

func (o *Orchestrator) applyDefaults() error {
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.seq == nil {
		o.seq = generator.NewSequence(0)
	}
	if o.limits == (model.Limits{}) {
		o.limits = model.DefaultLimits()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		html, err := vanilla.New()
		if err != nil {
			return fmt.Errorf("orchestrator: default renderer: %w", err)
		}
		o.registry.MustRegister(html)
		o.registry.MustRegister(jsonrender.New())
		o.registry.MustRegister(terminal.New())
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	return nil
}

// Model returns the current model.
func (o *Orchestrator) Model() model.GridModel {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.model
}

// Table returns the current generated table.
func (o *Orchestrator) Table() model.Table {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.table
}

// Limits returns the bounds applied to edits.
func (o *Orchestrator) Limits() model.Limits {
	return o.limits
}

// Loading reports whether a generation is in progress.
func (o *Orchestrator) Loading() bool {
	return o.loading.Load()
}

// Form returns a form bound to the current model. Accepted edits flow back
// through SetModel.
func (o *Orchestrator) Form() (*form.Form, error) {
	return o.newForm(func(m model.GridModel) {
		if err := o.SetModel(m); err != nil {
			o.logger.Error("form produced a rejected model", zap.Stringer("model", m), zap.Error(err))
		}
	})
}

func (o *Orchestrator) newForm(onChange func(model.GridModel)) (*form.Form, error) {
	f, err := form.New(form.Props{
		DefaultModel:  o.Model(),
		IsLoading:     o.Loading(),
		Limits:        o.limits,
		OnModelChange: onChange,
	})
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return f, nil
}

// SetModel validates and replaces the model. The table is left as is until
// the next Generate.
func (o *Orchestrator) SetModel(m model.GridModel) error {
	o.editMu.Lock()
	defer o.editMu.Unlock()
	return o.commitModel(m)
}

// commitModel requires editMu.
func (o *Orchestrator) commitModel(m model.GridModel) error {
	if err := m.ValidateWithin(o.limits); err != nil {
		return err
	}
	o.mu.Lock()
	prev := o.model
	o.model = m
	o.mu.Unlock()

	if prev != m {
		o.logger.Debug("grid model changed", zap.Stringer("from", prev), zap.Stringer("to", m))
	}
	return nil
}

// EditField applies one raw field edit through a Form.
func (o *Orchestrator) EditField(field, raw string) error {
	return o.edit(func(f *form.Form) error { return f.Edit(field, raw) })
}

// ApplyFields applies a form submission through a Form. Either every field is
// accepted or none is, and the resulting model is committed once.
func (o *Orchestrator) ApplyFields(values map[string]string) error {
	return o.edit(func(f *form.Form) error { return f.Apply(values) })
}

// edit runs fn against a form over the current model and commits the last
// model it reported. Intermediate models are never visible.
func (o *Orchestrator) edit(fn func(*form.Form) error) error {
	o.editMu.Lock()
	defer o.editMu.Unlock()

	var (
		next    model.GridModel
		changed bool
	)
	f, err := o.newForm(func(m model.GridModel) {
		next = m
		changed = true
	})
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return o.commitModel(next)
}

// Generate recomputes every cell from the current model with the next seed
// and replaces the table. Concurrent calls run one after another.
func (o *Orchestrator) Generate(ctx context.Context) (model.Table, error) {
	if ctx == nil {
		return model.Table{}, errors.New("orchestrator: context is required")
	}

	o.genMu.Lock()
	defer o.genMu.Unlock()

	if err := ctx.Err(); err != nil {
		return model.Table{}, err
	}

	o.loading.Store(true)
	defer o.loading.Store(false)

	start := time.Now()
	current := o.Model()
	seed := o.seq.Next()

	generated, err := generator.Generate(current, seed, o.palette)
	if err != nil {
		return model.Table{}, fmt.Errorf("orchestrator: %w", err)
	}

	o.mu.Lock()
	o.table = generated
	o.mu.Unlock()

	o.logger.Debug("grid generated",
		zap.Stringer("model", current),
		zap.Uint64("seed", seed.Base),
		zap.Uint64("generation", seed.Generation),
		zap.Duration("took", time.Since(start)),
	)
	return generated, nil
}

// Request describes one render.
type Request struct {
	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// ThemeName and ThemeVariant select a theme through the configured
	// selector. Empty values use the defaults.
	ThemeName    string
	ThemeVariant string

	// RenderOptions carries per-request data such as echoed values, errors and
	// hidden fields.
	RenderOptions render.RenderOptions
}

// Output is a rendered page and its media type.
type Output struct {
	ContentType string
	Body        []byte
}

// Page snapshots the current state into the structure renderers draw.
func (o *Orchestrator) Page(opts render.RenderOptions) (render.Page, error) {
	o.mu.RLock()
	current, generated := o.model, o.table
	o.mu.RUnlock()

	f, err := form.New(form.Props{
		DefaultModel: current,
		IsLoading:    o.Loading(),
		Limits:       o.limits,
	})
	if err != nil {
		return render.Page{}, fmt.Errorf("orchestrator: %w", err)
	}

	return render.Page{
		Model: current,
		Form: f.View(form.ViewOptions{
			Values:     opts.Values,
			Errors:     opts.Errors,
			FormErrors: opts.FormErrors,
		}),
		Table: table.NewView(generated),
	}, nil
}

// Render builds a page snapshot and renders it with the requested renderer.
func (o *Orchestrator) Render(ctx context.Context, req Request) (Output, error) {
	if ctx == nil {
		return Output{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return Output{}, err
	}

	opts := req.RenderOptions
	if opts.Translator == nil {
		opts.Translator = o.translator
	}
	if opts.Theme == nil && o.selector != nil {
		cfg, err := o.resolveTheme(req.ThemeName, req.ThemeVariant)
		if err != nil {
			return Output{}, err
		}
		opts.Theme = cfg
	}

	page, err := o.Page(opts)
	if err != nil {
		return Output{}, err
	}

	body, err := renderer.Render(ctx, page, opts)
	if err != nil {
		return Output{}, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return Output{ContentType: renderer.ContentType(), Body: body}, nil
}

// Renderers lists the registered renderer names.
func (o *Orchestrator) Renderers() []string {
	return o.registry.List()
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}
