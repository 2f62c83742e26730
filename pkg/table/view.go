// Package table turns a generated model.Table into the row/cell view that
// renderers iterate over.
package table

import "github.com/goliatone/go-gridgen/pkg/model"

// Cell is the render-ready form of a model.Cell.
type Cell struct {
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Color string `json:"color"`
	Style string `json:"style"`
}

// Row holds the cells of one table row, left to right.
type Row struct {
	Index int    `json:"index"`
	Cells []Cell `json:"cells"`
}

// View is an immutable snapshot of a generated table.
type View struct {
	Rows       []Row  `json:"rows"`
	RowCount   int    `json:"rowCount"`
	ColCount   int    `json:"colCount"`
	CellWidth  int    `json:"cellWidth"`
	CellHeight int    `json:"cellHeight"`
	Generation uint64 `json:"generation"`
	Seed       uint64 `json:"seed"`
}

// NewView builds a view with exactly one Row per table row and one Cell per
// column.
func NewView(t model.Table) View {
	rows := make([]Row, 0, len(t.Rows))
	for r, cells := range t.Rows {
		row := Row{Index: r, Cells: make([]Cell, 0, len(cells))}
		for _, cell := range cells {
			row.Cells = append(row.Cells, Cell{
				Row:   cell.Row,
				Col:   cell.Col,
				Color: cell.Color,
				Style: cell.Style(),
			})
		}
		rows = append(rows, row)
	}

	rowCount, colCount := t.Dimensions()
	return View{
		Rows:       rows,
		RowCount:   rowCount,
		ColCount:   colCount,
		CellWidth:  t.Model.ColSize,
		CellHeight: t.Model.RowSize,
		Generation: t.Generation,
		Seed:       t.Seed,
	}
}

// Colors returns the cell colours row by row.
func (v View) Colors() [][]string {
	out := make([][]string, 0, len(v.Rows))
	for _, row := range v.Rows {
		colors := make([]string, 0, len(row.Cells))
		for _, cell := range row.Cells {
			colors = append(colors, cell.Color)
		}
		out = append(out, colors)
	}
	return out
}
