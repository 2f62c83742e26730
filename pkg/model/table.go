package model

import "fmt"

// Cell is one generated table entry. Row and Col are zero based.
type Cell struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Color  string `json:"color"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Style returns the inline CSS declarations rendered on the cell element.
func (c Cell) Style() string {
	return fmt.Sprintf("width: %dpx; height: %dpx; background-color: %s;", c.Width, c.Height, c.Color)
}

// Table is a fully generated grid. Seed and Generation record the inputs the
// generator used so a table can be reproduced.
type Table struct {
	Model      GridModel `json:"model"`
	Rows       [][]Cell  `json:"rows"`
	Seed       uint64    `json:"seed"`
	Generation uint64    `json:"generation"`
}

// Dimensions returns the number of rows and the width of the first row.
func (t Table) Dimensions() (rows, cols int) {
	if len(t.Rows) == 0 {
		return 0, 0
	}
	return len(t.Rows), len(t.Rows[0])
}

// At returns the cell at the zero based position.
func (t Table) At(row, col int) (Cell, bool) {
	if row < 0 || row >= len(t.Rows) {
		return Cell{}, false
	}
	cells := t.Rows[row]
	if col < 0 || col >= len(cells) {
		return Cell{}, false
	}
	return cells[col], true
}

// Empty reports whether the table holds no cells.
func (t Table) Empty() bool {
	rows, cols := t.Dimensions()
	return rows == 0 || cols == 0
}
