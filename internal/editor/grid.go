package editor

// GridPicker models the hover-driven table size picker: hovering cell (r,c)
// highlights the r-by-c rectangle, committing inserts a table of that size.
type GridPicker struct {
	MaxRows int
	MaxCols int

	hoverRow int
	hoverCol int
}

// NewGridPicker returns a picker with the standard 8x8 grid.
func NewGridPicker() *GridPicker {
	return &GridPicker{MaxRows: 8, MaxCols: 8}
}

// Hover records the pointer entering cell (row, col), both 1-based. Out of
// range positions are clamped to the grid.
func (g *GridPicker) Hover(row, col int) {
	g.hoverRow = clamp(row, 1, g.MaxRows)
	g.hoverCol = clamp(col, 1, g.MaxCols)
}

// Highlighted reports whether cell (row, col) falls inside the preview
// rectangle for the current hover position.
func (g *GridPicker) Highlighted(row, col int) bool {
	return row >= 1 && row <= g.hoverRow && col >= 1 && col <= g.hoverCol
}

// Size returns the table size a click at the current hover position commits,
// or false when nothing has been hovered yet.
func (g *GridPicker) Size() (TableSize, bool) {
	if g.hoverRow == 0 || g.hoverCol == 0 {
		return TableSize{}, false
	}
	return TableSize{Rows: g.hoverRow, Cols: g.hoverCol}, true
}

// Reset clears the hover state, as when the picker closes.
func (g *GridPicker) Reset() {
	g.hoverRow, g.hoverCol = 0, 0
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
