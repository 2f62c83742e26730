package render

import (
	"context"

	"github.com/goliatone/go-gridgen/pkg/form"
	"github.com/goliatone/go-gridgen/pkg/model"
	"github.com/goliatone/go-gridgen/pkg/table"
)

// Renderer converts a Page snapshot into a byte representation (HTML, JSON,
// ANSI text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, page Page, options RenderOptions) ([]byte, error)
}

// Page is the immutable snapshot a renderer draws: the form state next to the
// generated table.
type Page struct {
	Model model.GridModel
	Form  form.View
	Table table.View
}
