// Package jsonrender serialises the page snapshot for API clients: the model,
// the generation counters and the colour of every cell.
package jsonrender

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-gridgen/pkg/model"
	"github.com/goliatone/go-gridgen/pkg/render"
)

// Snapshot is the JSON document produced by Render.
type Snapshot struct {
	Model      model.GridModel     `json:"model"`
	Generation uint64              `json:"generation"`
	Seed       uint64              `json:"seed"`
	Rows       [][]string          `json:"rows"`
	Loading    bool                `json:"loading"`
	Theme      *ThemeRef           `json:"theme,omitempty"`
	Errors     map[string][]string `json:"errors,omitempty"`
	FormErrors []string            `json:"formErrors,omitempty"`
}

// ThemeRef names the theme the page was resolved with.
type ThemeRef struct {
	Name    string `json:"name"`
	Variant string `json:"variant,omitempty"`
}

type Option func(*Renderer)

// WithIndent pretty-prints the output.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return "json"
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

func (r *Renderer) Render(ctx context.Context, page render.Page, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("json renderer: %w", err)
	}

	snapshot := NewSnapshot(page, opts)

	var (
		out []byte
		err error
	)
	if r.indent != "" {
		out, err = json.MarshalIndent(snapshot, "", r.indent)
	} else {
		out, err = json.Marshal(snapshot)
	}
	if err != nil {
		return nil, fmt.Errorf("json renderer: marshal: %w", err)
	}
	return append(out, '\n'), nil
}

// NewSnapshot builds the document Render serialises.
func NewSnapshot(page render.Page, opts render.RenderOptions) Snapshot {
	rows := page.Table.Colors()
	if rows == nil {
		rows = [][]string{}
	}
	snapshot := Snapshot{
		Model:      page.Model,
		Generation: page.Table.Generation,
		Seed:       page.Table.Seed,
		Rows:       rows,
		Loading:    page.Form.Loading,
		Errors:     opts.Errors,
		FormErrors: opts.FormErrors,
	}
	if opts.Theme != nil && opts.Theme.Theme != "" {
		snapshot.Theme = &ThemeRef{Name: opts.Theme.Theme, Variant: opts.Theme.Variant}
	}
	return snapshot
}
