package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-gridgen/pkg/form"
)

// ErrMissingTranslator is passed to MissingTranslationHandler when a label key
// is present but no Translator was configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides what to show when a key cannot be
// translated. The returned string replaces the label.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// MapTranslator is a Translator backed by locale -> key -> text tables, the
// shape of the `labels` config section.
type MapTranslator map[string]map[string]string

// Translate implements Translator. Lookups fall back from "es-MX" to "es".
func (m MapTranslator) Translate(locale, key string, args ...any) (string, error) {
	for _, candidate := range localeChain(locale) {
		if msg, ok := m[candidate][key]; ok {
			if len(args) > 0 {
				return fmt.Sprintf(msg, args...), nil
			}
			return msg, nil
		}
	}
	return "", fmt.Errorf("render: no translation for %q in locale %q", key, locale)
}

func localeChain(locale string) []string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return nil
	}
	chain := []string{locale}
	if idx := strings.IndexAny(locale, "-_"); idx > 0 {
		chain = append(chain, locale[:idx])
	}
	return chain
}

// LocalizeFormView translates the field labels and button label of view in
// place. Keys that cannot be translated keep their existing label unless
// opts.OnMissing says otherwise.
func LocalizeFormView(view *form.View, opts RenderOptions) {
	if view == nil {
		return
	}
	if opts.Translator == nil && opts.OnMissing == nil {
		return
	}

	for i := range view.Fields {
		field := &view.Fields[i]
		field.Label = translate(opts.Locale, field.LabelKey, field.Label, opts.Translator, opts.OnMissing)
	}
	view.ButtonLabel = translate(opts.Locale, view.ButtonLabelKey, view.ButtonLabel, opts.Translator, opts.OnMissing)
}

func translate(locale, key, fallback string, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}

	if t == nil {
		if onMissing != nil {
			return onMissing(locale, key, []any{map[string]any{"default": fallback}}, ErrMissingTranslator)
		}
		return fallback
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}

	if onMissing != nil {
		return onMissing(locale, key, []any{map[string]any{"default": fallback}}, err)
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}
