package data

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"seriesgen/internal/model"
)

// TemplateSheet is the worksheet name used by WriteTemplate.
const TemplateSheet = "Sheet1"

// Template describes a sample input workbook in the default layout.
type Template struct {
	Start     time.Time
	End       time.Time
	Frequency string
	Series    []model.SeriesSpec
}

// DefaultTemplate is a one-day window with two series.
func DefaultTemplate() Template {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return Template{
		Start:     start,
		End:       start.Add(23 * time.Hour),
		Frequency: string(model.FrequencyHourly),
		Series: []model.SeriesSpec{
			{Name: "Temp", Low: 10, High: 20},
			{Name: "Humidity", Low: 30, High: 50},
		},
	}
}

// WriteTemplate writes t as an xlsx workbook: labels in column B, values in column C,
// and the series table under a "Series" marker in columns C:E.
func WriteTemplate(w io.Writer, t Template) error {
	f := excelize.NewFile()
	defer f.Close()

	cells := []struct {
		cell  string
		value any
	}{
		{"B1", "Hourly Data Generator"},
		{"B3", "Start"},
		{"C3", t.Start},
		{"B4", "End"},
		{"C4", t.End},
		{"B5", "Frequency"},
		{"C5", t.Frequency},
		{"C7", "Series"},
		{"D7", "Low"},
		{"E7", "High"},
	}
	for _, c := range cells {
		if err := f.SetCellValue(TemplateSheet, c.cell, c.value); err != nil {
			return fmt.Errorf("set %s: %w", c.cell, err)
		}
	}

	for i, s := range t.Series {
		cell, err := excelize.CoordinatesToCellName(3, 8+i)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(TemplateSheet, cell, &[]any{s.Name, s.Low, s.High}); err != nil {
			return fmt.Errorf("write series %q: %w", s.Name, err)
		}
	}

	_, err := f.WriteTo(w)
	return err
}
