package sheet

import (
	"go.uber.org/zap"

	"seriesgen/internal/model"
)

// Plan is everything the generator needs, plus where it was found.
type Plan struct {
	Locations Locations
	Header    model.Header
	Series    []model.SeriesSpec
}

// Parse runs the three detection stages in order and stops at the first error.
func (p *Parser) Parse(grid model.RawGrid) (*Plan, error) {
	loc, err := p.Locate(grid)
	if err != nil {
		return nil, err
	}
	header, err := p.ParseHeader(grid, loc)
	if err != nil {
		return nil, err
	}
	series, err := p.ExtractSeries(grid, loc.SeriesRow)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]int, len(series))
	for _, s := range series {
		if prev, ok := seen[s.Name]; ok {
			p.log.Warn("duplicate series name, later row wins",
				zap.String("series", s.Name),
				zap.Int("first_row", prev),
				zap.Int("row", s.Row))
		}
		seen[s.Name] = s.Row
	}

	p.log.Debug("layout detected",
		zap.Int("start_row", loc.StartRow),
		zap.Int("end_row", loc.EndRow),
		zap.Int("frequency_row", loc.FrequencyRow),
		zap.Int("series_row", loc.SeriesRow),
		zap.Int("series", len(series)))

	return &Plan{Locations: loc, Header: header, Series: series}, nil
}
