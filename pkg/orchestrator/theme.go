package orchestrator

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-gridgen/pkg/render"
)

// ErrUnknownTheme is returned when a selector cannot find the requested theme
// or variant.
var ErrUnknownTheme = errors.New("orchestrator: unknown theme")

func defaultThemeFallbacks() map[string]string {
	return map[string]string{
		render.PartialPage: "templates/page.tmpl",
	}
}

// ManifestSelector is a theme.ThemeSelector backed by in-memory manifests.
// The first manifest added is the default when a lookup names no theme.
type ManifestSelector struct {
	mu        sync.RWMutex
	manifests map[string]*theme.Manifest
	first     string
}

// NewManifestSelector returns a selector pre-loaded with manifests.
func NewManifestSelector(manifests ...*theme.Manifest) *ManifestSelector {
	s := &ManifestSelector{manifests: make(map[string]*theme.Manifest)}
	for _, m := range manifests {
		s.Add(m)
	}
	return s
}

// Add registers or replaces a manifest.
func (s *ManifestSelector) Add(manifest *theme.Manifest) {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.first == "" {
		s.first = manifest.Name
	}
	s.manifests[manifest.Name] = manifest
}

// Names lists registered themes in lexical order.
func (s *ManifestSelector) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select implements theme.ThemeSelector.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if name == "" {
		name = s.first
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %q has no variant %q", ErrUnknownTheme, name, variant)
		}
	}
	return &theme.Selection{Theme: manifest.Name, Variant: variant, Manifest: manifest}, nil
}

func (o *Orchestrator) resolveTheme(name, variant string) (*theme.RendererConfig, error) {
	if name == "" {
		name = o.themeName
	}
	if variant == "" && name == o.themeName {
		variant = o.themeVariant
	}

	selection, err := o.selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme: %w", err)
	}
	if selection == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}

	fallbacks := o.fallbacks
	if fallbacks == nil {
		fallbacks = defaultThemeFallbacks()
	}
	return rendererConfig(selection, fallbacks), nil
}

// rendererConfig flattens a selection into renderer input. Variant values win
// over manifest values, which win over fallbacks.
func rendererConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	partials := make(map[string]string, len(fallbacks))
	for key, value := range fallbacks {
		partials[key] = value
	}
	tokens := make(map[string]string)
	files := make(map[string]string)
	prefix := ""

	if manifest := selection.Manifest; manifest != nil {
		mergeInto(partials, manifest.Templates)
		mergeInto(tokens, manifest.Tokens)
		mergeInto(files, manifest.Assets.Files)
		prefix = manifest.Assets.Prefix

		if v, ok := manifest.Variants[selection.Variant]; ok {
			mergeInto(partials, v.Templates)
			mergeInto(tokens, v.Tokens)
			mergeInto(files, v.Assets.Files)
			if v.Assets.Prefix != "" {
				prefix = v.Assets.Prefix
			}
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars[cssVarName(key)] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: assetResolver(prefix, files),
	}
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	return func(key string) string {
		file := files[key]
		if file == "" || strings.Contains(file, "://") || strings.HasPrefix(file, "/") {
			return file
		}
		if prefix == "" {
			return file
		}
		return strings.TrimRight(prefix, "/") + "/" + path.Clean(file)
	}
}

// cssVarName turns "cell.saturation" into "--cell-saturation".
func cssVarName(token string) string {
	name := strings.NewReplacer(".", "-", "_", "-", " ", "-").Replace(strings.TrimSpace(token))
	return "--" + strings.TrimLeft(name, "-")
}

func mergeInto(dst, src map[string]string) {
	for key, value := range src {
		dst[key] = value
	}
}
