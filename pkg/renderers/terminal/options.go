package terminal

import "github.com/muesli/termenv"

// Option configures the terminal renderer.
type Option func(*Renderer)

// WithMaxColumns downsamples wide tables to at most n columns. Zero renders
// every column.
func WithMaxColumns(n int) Option {
	return func(r *Renderer) {
		if n >= 0 {
			r.maxCols = n
		}
	}
}

// WithMaxRows downsamples tall tables to at most n rows. Zero renders every
// row.
func WithMaxRows(n int) Option {
	return func(r *Renderer) {
		if n >= 0 {
			r.maxRows = n
		}
	}
}

// WithCellWidth sets how many characters one cell occupies.
func WithCellWidth(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.cellWidth = n
		}
	}
}

// WithColorProfile overrides the ANSI colour profile. The default is
// TrueColor so output does not depend on the attached terminal.
func WithColorProfile(profile termenv.Profile) Option {
	return func(r *Renderer) {
		r.profile = profile
	}
}
