package render

// Keys renderers look up in a theme's partials and assets.
const (
	PartialPage     = "grid.page"
	AssetStylesheet = "grid.stylesheet"
)

// ThemePartial returns the template a theme maps key to, or fallback.
func ThemePartial(opts RenderOptions, key, fallback string) string {
	if opts.Theme == nil {
		return fallback
	}
	if name := opts.Theme.Partials[key]; name != "" {
		return name
	}
	return fallback
}

// ThemeAsset resolves an asset key through the theme, returning "" when the
// theme does not provide it.
func ThemeAsset(opts RenderOptions, key string) string {
	if opts.Theme == nil || opts.Theme.AssetURL == nil {
		return ""
	}
	return opts.Theme.AssetURL(key)
}
