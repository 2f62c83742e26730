// Package gridgen is the top-level entry point: it re-exports the container
// constructor and the embedded assets so simple callers need one import.
package gridgen

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-gridgen/pkg/model"
	"github.com/goliatone/go-gridgen/pkg/orchestrator"
	"github.com/goliatone/go-gridgen/pkg/render"
	"github.com/goliatone/go-gridgen/pkg/renderers/vanilla"
)

// GridModel aliases model.GridModel.
type GridModel = model.GridModel

// RenderOptions describes per-request data renderers use to echo values or
// surface validation errors.
type RenderOptions = render.RenderOptions

// NewOrchestrator exposes the container constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	return orchestrator.New(options...)
}

// RenderHTML generates a table for m with the given base seed and renders the
// page with the vanilla renderer. It is the simplest entry point for callers
// that just want HTML output.
func RenderHTML(ctx context.Context, m GridModel, seed uint64, options ...orchestrator.Option) ([]byte, error) {
	base := []orchestrator.Option{
		orchestrator.WithDefaultModel(m),
		orchestrator.WithSeed(seed),
	}
	orch, err := orchestrator.New(append(base, options...)...)
	if err != nil {
		return nil, err
	}
	out, err := orch.Render(ctx, orchestrator.Request{Renderer: "vanilla"})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

// EmbeddedTemplates exposes the built-in vanilla templates so callers can
// reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the built-in stylesheet.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(gridgen.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
