package template

import (
	"io"
)

// TemplateRenderer executes a named template against page data. The result is
// returned and also written to every out writer.
type TemplateRenderer interface {
	RenderTemplate(name string, data map[string]any, out ...io.Writer) (string, error)
}
