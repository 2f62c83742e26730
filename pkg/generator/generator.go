package generator

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/goliatone/go-gridgen/pkg/model"
)

// goldenAngle spreads successive generations around the hue circle without
// ever landing on the previous hue.
const goldenAngle = 137.50776405003785

// Seed identifies one generation. Base selects the per-cell starting hues and
// Generation counts how many times the grid has been regenerated.
type Seed struct {
	Base       uint64 `json:"base"`
	Generation uint64 `json:"generation"`
}

// Previous returns the seed of the generation before s. The zero generation
// has no predecessor.
func (s Seed) Previous() (Seed, bool) {
	if s.Generation == 0 {
		return Seed{}, false
	}
	return Seed{Base: s.Base, Generation: s.Generation - 1}, true
}

// Generate builds a table for m. Non-positive dimensions are a precondition
// violation and return the model's validation error instead of a malformed
// table.
func Generate(m model.GridModel, seed Seed, palette Palette) (model.Table, error) {
	if err := m.ValidateWithin(model.Limits{}); err != nil {
		return model.Table{}, fmt.Errorf("generator: %w", err)
	}
	palette = palette.normalize()

	rows := make([][]model.Cell, m.Rows)
	for r := 0; r < m.Rows; r++ {
		cells := make([]model.Cell, m.Cols)
		for c := 0; c < m.Cols; c++ {
			cells[c] = model.Cell{
				Row:    r,
				Col:    c,
				Color:  CellColor(seed, r, c, palette),
				Width:  m.ColSize,
				Height: m.RowSize,
			}
		}
		rows[r] = cells
	}

	return model.Table{
		Model:      m,
		Rows:       rows,
		Seed:       seed.Base,
		Generation: seed.Generation,
	}, nil
}

// CellColor returns the hex colour of a single cell. For every generation
// after the first the result differs from the colour the same cell had in the
// previous generation.
func CellColor(seed Seed, row, col int, palette Palette) string {
	palette = palette.normalize()
	hue := hueAt(seed, row, col)
	color := palette.hex(hue)

	if prev, ok := seed.Previous(); ok {
		if color == palette.hex(hueAt(prev, row, col)) {
			color = palette.hex(math.Mod(hue+180, 360))
		}
	}
	return color
}

func hueAt(seed Seed, row, col int) float64 {
	h := mix(seed.Base ^ mix(uint64(row)<<32|uint64(uint32(col))))
	base := float64(h>>11) / float64(1<<53) * 360
	return math.Mod(base+float64(seed.Generation)*goldenAngle, 360)
}

// mix is the splitmix64 finaliser.
func mix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

func (p Palette) hex(hue float64) string {
	return colorful.Hsv(hue, p.Saturation, p.Value).Clamped().Hex()
}
