package render

import theme "github.com/goliatone/go-theme"

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the page snapshot.
type RenderOptions struct {
	// Theme carries the resolved theme tokens and CSS variables. Nil renders
	// with the built-in stylesheet only.
	Theme *theme.RendererConfig
	// Values echoes raw submitted input back into the form, typically after a
	// rejected submission.
	Values map[string]string
	// Errors surfaces server-side validation feedback keyed by field name.
	Errors map[string][]string
	// FormErrors are messages not tied to a single field.
	FormErrors []string
	// HiddenFields are emitted as hidden inputs inside the form (CSRF tokens
	// and similar).
	HiddenFields map[string]string
	// Locale selects translations when Translator is set.
	Locale string
	// Translator localises labels. Nil keeps the built-in English labels.
	Translator Translator
	// OnMissing is invoked when a translation cannot be resolved.
	OnMissing MissingTranslationHandler
	// Title and Intro are page chrome. Renderers producing markup sanitise
	// them before output.
	Title string
	Intro string
}
