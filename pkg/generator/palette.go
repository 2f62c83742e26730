package generator

import (
	"strconv"
	"strings"
)

const (
	minChannel = 0.2

	// Theme token keys read by PaletteFromTokens.
	TokenSaturation = "cell.saturation"
	TokenValue      = "cell.value"
)

// Palette fixes the saturation and value of generated colours; only the hue
// varies per cell. Both channels are clamped to [0.2, 1] so consecutive
// generations stay distinguishable.
type Palette struct {
	Saturation float64 `json:"saturation" yaml:"saturation"`
	Value      float64 `json:"value" yaml:"value"`
}

// DefaultPalette returns the palette used when no theme overrides it.
func DefaultPalette() Palette {
	return Palette{Saturation: 0.65, Value: 0.85}
}

// PaletteFromTokens reads cell.saturation and cell.value from theme tokens,
// falling back to base for missing or malformed entries.
func PaletteFromTokens(tokens map[string]string, base Palette) Palette {
	out := base
	if v, ok := parseToken(tokens, TokenSaturation); ok {
		out.Saturation = v
	}
	if v, ok := parseToken(tokens, TokenValue); ok {
		out.Value = v
	}
	return out.normalize()
}

func parseToken(tokens map[string]string, key string) (float64, bool) {
	raw := strings.TrimSpace(tokens[key])
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (p Palette) normalize() Palette {
	if p.Saturation == 0 && p.Value == 0 {
		return DefaultPalette()
	}
	p.Saturation = clamp(p.Saturation)
	p.Value = clamp(p.Value)
	return p
}

func clamp(v float64) float64 {
	switch {
	case v < minChannel:
		return minChannel
	case v > 1:
		return 1
	default:
		return v
	}
}
