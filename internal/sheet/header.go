package sheet

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"seriesgen/internal/model"
)

// dateLayouts are tried in order for textual start/end cells.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"1/2/06 15:04",
	"1/2/06",
	"02-Jan-2006 15:04",
	"02-Jan-2006",
	"Jan 2, 2006 15:04",
	"Jan 2, 2006",
}

// ParseHeader reads the value cells next to the located labels.
// Dates are validated before frequency; start before end.
func (p *Parser) ParseHeader(grid model.RawGrid, loc Locations) (model.Header, error) {
	startText, _ := grid.Value(loc.StartRow, p.layout.ValueColumn)
	endText, _ := grid.Value(loc.EndRow, p.layout.ValueColumn)
	freqText, _ := grid.Cell(loc.FrequencyRow, p.layout.ValueColumn)

	start, ok := ParseDate(startText)
	if !ok {
		return model.Header{}, model.InvalidDate(LabelStart, startText)
	}
	end, ok := ParseDate(endText)
	if !ok {
		return model.Header{}, model.InvalidDate(LabelEnd, endText)
	}
	freq, ok := model.ParseFrequency(freqText)
	if !ok {
		return model.Header{}, model.UnsupportedFrequency(freqText)
	}

	h := model.Header{Start: start, End: end, Frequency: freq}
	if h.Duration() < 0 {
		p.log.Warn("end date precedes start date, output will be empty",
			zap.Time("start", start),
			zap.Time("end", end))
	}
	return h, nil
}

// ParseDate accepts an Excel serial number or one of the supported textual layouts.
// Times without a zone are read as UTC.
func ParseDate(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	if serial, err := strconv.ParseFloat(text, 64); err == nil {
		if serial <= 0 {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return t.UTC().Round(time.Second), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
