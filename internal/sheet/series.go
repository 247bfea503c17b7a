package sheet

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"seriesgen/internal/model"
)

var (
	minInt = decimal.NewFromInt(math.MinInt64)
	maxInt = decimal.NewFromInt(math.MaxInt64)
)

// ExtractSeries reads (name, low, high) from every row after the marker row.
// Rows with any of the three cells blank are dropped; a bound that does not parse
// as a number fails the whole run.
func (p *Parser) ExtractSeries(grid model.RawGrid, markerRow int) ([]model.SeriesSpec, error) {
	var out []model.SeriesSpec
	for row := markerRow + 1; row < grid.NumRows(); row++ {
		name, okName := grid.Value(row, p.layout.NameColumn)
		lowText, okLow := grid.Value(row, p.layout.lowColumn())
		highText, okHigh := grid.Value(row, p.layout.highColumn())
		if !okName || !okLow || !okHigh {
			p.log.Debug("dropping incomplete series row", zap.Int("row", row))
			continue
		}

		low, err := parseBound(lowText)
		if err != nil {
			return nil, model.InvalidSeriesRow(row, fmt.Errorf("low: %w", err))
		}
		high, err := parseBound(highText)
		if err != nil {
			return nil, model.InvalidSeriesRow(row, fmt.Errorf("high: %w", err))
		}
		out = append(out, model.SeriesSpec{Name: name, Low: low, High: high, Row: row})
	}
	return out, nil
}

// parseBound truncates toward zero: "12.9" -> 12, "-3.5" -> -3.
func parseBound(text string) (int, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(text, ",", ""))
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", text)
	}
	d = d.Truncate(0)
	if d.LessThan(minInt) || d.GreaterThan(maxInt) {
		return 0, errors.New("value out of range")
	}
	return int(d.IntPart()), nil
}
