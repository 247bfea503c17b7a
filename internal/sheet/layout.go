// Package sheet detects the labeled layout of an input grid and turns it into a
// typed Header and series list. It never generates data.
package sheet

import "go.uber.org/zap"

// Layout fixes the 0-based columns the parser reads.
type Layout struct {
	LabelColumn  int
	ValueColumn  int
	MarkerColumn int
	// NameColumn is followed by the low and high columns.
	NameColumn int
}

// DefaultLayout matches the shipped template: labels in B, values in C, series table in C:E.
func DefaultLayout() Layout {
	return Layout{
		LabelColumn:  1,
		ValueColumn:  2,
		MarkerColumn: 2,
		NameColumn:   2,
	}
}

func (l Layout) lowColumn() int  { return l.NameColumn + 1 }
func (l Layout) highColumn() int { return l.NameColumn + 2 }

// Parser runs the locator, header parser and series extractor over one grid.
// It holds no per-grid state and may be reused.
type Parser struct {
	layout Layout
	log    *zap.Logger
}

func NewParser(layout Layout, log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{layout: layout, log: log}
}
