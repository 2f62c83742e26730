// Package terminal previews the grid in a terminal: one background-coloured
// block per cell drawn with lipgloss, plus a survey-driven prompt that edits
// the model through the same form the HTML page uses.
package terminal

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/goliatone/go-gridgen/pkg/render"
)

// Renderer implements render.Renderer for ANSI terminals.
type Renderer struct {
	maxCols   int
	maxRows   int
	cellWidth int
	profile   termenv.Profile
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a terminal renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{
		cellWidth: 2,
		profile:   termenv.TrueColor,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "terminal"
}

// ContentType reports the output format.
func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render draws the summary line, any validation messages and the sampled
// table.
func (r *Renderer) Render(ctx context.Context, page render.Page, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}

	var buf bytes.Buffer
	lg := lipgloss.NewRenderer(&buf)
	lg.SetColorProfile(r.profile)

	heading := lg.NewStyle().Bold(true)
	errStyle := lg.NewStyle().Foreground(lipgloss.Color("#c92a2a"))

	if title := strings.TrimSpace(opts.Title); title != "" {
		buf.WriteString(heading.Render(title))
		buf.WriteByte('\n')
	}
	fmt.Fprintf(&buf, "%s  generation %d  seed %d\n",
		heading.Render(page.Model.String()), page.Table.Generation, page.Table.Seed)

	for _, msg := range opts.FormErrors {
		buf.WriteString(errStyle.Render(msg))
		buf.WriteByte('\n')
	}
	for _, field := range sortedKeys(opts.Errors) {
		for _, msg := range opts.Errors[field] {
			buf.WriteString(errStyle.Render(field + ": " + msg))
			buf.WriteByte('\n')
		}
	}

	block := strings.Repeat(" ", r.cellWidth)
	rows := sample(len(page.Table.Rows), r.maxRows)
	for _, ri := range rows {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("terminal: %w", err)
		}
		cells := page.Table.Rows[ri].Cells
		var line strings.Builder
		for _, ci := range sample(len(cells), r.maxCols) {
			line.WriteString(lg.NewStyle().Background(lipgloss.Color(cells[ci].Color)).Render(block))
		}
		buf.WriteString(line.String())
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// sample picks at most max evenly spaced indices out of n.
func sample(n, max int) []int {
	if max <= 0 || n <= max {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	out := make([]int, max)
	for i := range out {
		out[i] = i * n / max
	}
	return out
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
