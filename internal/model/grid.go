package model

import "strings"

// RawGrid is the untyped cell grid loaded from an uploaded spreadsheet.
// Rows may be ragged; a cell past the end of its row is treated as missing.
type RawGrid struct {
	rows [][]string
}

// NewRawGrid copies rows so later edits by the caller do not leak into the grid.
func NewRawGrid(rows [][]string) RawGrid {
	cp := make([][]string, len(rows))
	for i, r := range rows {
		cp[i] = append([]string(nil), r...)
	}
	return RawGrid{rows: cp}
}

func (g RawGrid) NumRows() int { return len(g.rows) }

// NumCols returns the width of the widest row.
func (g RawGrid) NumCols() int {
	n := 0
	for _, r := range g.rows {
		if len(r) > n {
			n = len(r)
		}
	}
	return n
}

// Cell returns the raw text at (row, col). ok is false when the cell is outside the grid.
func (g RawGrid) Cell(row, col int) (string, bool) {
	if row < 0 || row >= len(g.rows) || col < 0 || col >= len(g.rows[row]) {
		return "", false
	}
	return g.rows[row][col], true
}

// Value returns the trimmed cell text. ok is false for missing or blank cells.
func (g RawGrid) Value(row, col int) (string, bool) {
	s, ok := g.Cell(row, col)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
