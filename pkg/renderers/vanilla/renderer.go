// Package vanilla renders the grid page as server-side HTML: one form with
// the four numeric inputs and a Generate button, next to the coloured table.
// No client-side script is required.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-gridgen/pkg/form"
	"github.com/goliatone/go-gridgen/pkg/render"
	rendertemplate "github.com/goliatone/go-gridgen/pkg/render/template"
	"github.com/goliatone/go-gridgen/pkg/render/template/pongo"
)

const pageTemplate = "templates/page.tmpl"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	stylesheets      []string
	inlineStyles     bool
	lang             string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The bundle
// must use the same "templates/" layout as TemplatesFS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithStylesheet links an external stylesheet. May be repeated.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(href); trimmed != "" {
			cfg.stylesheets = append(cfg.stylesheets, trimmed)
		}
	}
}

// WithDefaultStyles inlines the built-in stylesheet into the page head.
func WithDefaultStyles() Option {
	return func(cfg *config) {
		cfg.inlineStyles = true
	}
}

// WithLang sets the document language used when a request has no locale.
func WithLang(lang string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(lang); trimmed != "" {
			cfg.lang = trimmed
		}
	}
}

type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	stylesheets  []string
	inlineStyles string
	lang         string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), lang: "en"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	r := &Renderer{
		templates:   renderer,
		stylesheets: cfg.stylesheets,
		lang:        cfg.lang,
	}
	if cfg.inlineStyles {
		r.inlineStyles = defaultStylesheet()
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, page render.Page, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("vanilla renderer: %w", err)
	}

	formView := copyFormView(page.Form)
	render.LocalizeFormView(&formView, opts)

	result, err := r.templates.RenderTemplate(render.ThemePartial(opts, render.PartialPage, pageTemplate), map[string]any{
		"page":         r.pageData(opts),
		"form":         formView,
		"table":        page.Table,
		"hiddenFields": hiddenFields(opts.HiddenFields),
		"theme":        themeData(opts),
		"stylesheets":  r.stylesheetsFor(opts),
		"inlineStyles": r.inlineStyles,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) pageData(opts render.RenderOptions) map[string]any {
	lang := strings.TrimSpace(opts.Locale)
	if lang == "" {
		lang = r.lang
	}
	documentTitle := plainText(opts.Title)
	if documentTitle == "" {
		documentTitle = "Grid generator"
	}
	return map[string]any{
		"lang":          lang,
		"documentTitle": documentTitle,
		"title":         sanitizeMarkup(opts.Title),
		"intro":         sanitizeMarkup(opts.Intro),
	}
}

func (r *Renderer) stylesheetsFor(opts render.RenderOptions) []string {
	href := render.ThemeAsset(opts, render.AssetStylesheet)
	if href == "" {
		return r.stylesheets
	}
	out := make([]string, 0, len(r.stylesheets)+1)
	out = append(out, r.stylesheets...)
	return append(out, href)
}

func copyFormView(in form.View) form.View {
	out := in
	out.Fields = make([]form.Field, len(in.Fields))
	copy(out.Fields, in.Fields)
	return out
}

func hiddenFields(fields map[string]string) []map[string]string {
	sorted := render.SortedHiddenFields(fields)
	out := make([]map[string]string, 0, len(sorted))
	for _, field := range sorted {
		out = append(out, map[string]string{"name": field.Name, "value": field.Value})
	}
	return out
}

func themeData(opts render.RenderOptions) map[string]any {
	if opts.Theme == nil {
		return map[string]any{}
	}
	return map[string]any{
		"name":    opts.Theme.Theme,
		"variant": opts.Theme.Variant,
		"cssVars": opts.Theme.CSSVars,
	}
}
