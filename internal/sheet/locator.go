package sheet

import (
	"strings"

	"seriesgen/internal/model"
)

// Labels searched for in the label column, and the marker searched for in the marker column.
const (
	LabelStart     = "start"
	LabelEnd       = "end"
	LabelFrequency = "frequency"
	MarkerSeries   = "series"
)

// Locations are the 0-based rows of the first match for each label.
type Locations struct {
	StartRow     int
	EndRow       int
	FrequencyRow int
	SeriesRow    int
}

// Locate finds the label rows and the series marker row. Each label is searched
// independently and the earliest matching row wins.
func (p *Parser) Locate(grid model.RawGrid) (Locations, error) {
	var loc Locations
	for _, l := range []struct {
		label string
		dst   *int
	}{
		{LabelStart, &loc.StartRow},
		{LabelEnd, &loc.EndRow},
		{LabelFrequency, &loc.FrequencyRow},
	} {
		row, ok := findFirst(grid, p.layout.LabelColumn, l.label)
		if !ok {
			return Locations{}, model.MissingLabel(l.label)
		}
		*l.dst = row
	}

	row, ok := findFirst(grid, p.layout.MarkerColumn, MarkerSeries)
	if !ok {
		return Locations{}, model.MissingMarker(MarkerSeries)
	}
	loc.SeriesRow = row
	return loc, nil
}

func findFirst(grid model.RawGrid, col int, needle string) (int, bool) {
	for row := 0; row < grid.NumRows(); row++ {
		s, ok := grid.Cell(row, col)
		if !ok {
			continue
		}
		if strings.Contains(normalize(s), needle) {
			return row, true
		}
	}
	return -1, false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
