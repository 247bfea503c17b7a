package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"seriesgen/internal/model"
)

const (
	xlsxSheet      = "Sheet1"
	xlsxDateFormat = "yyyy-mm-dd hh:mm:ss"
)

// WriteXLSX streams the table into a single-sheet workbook. Timestamps are real
// date cells, so the layout option does not apply.
func WriteXLSX(w io.Writer, table *model.OutputTable, _ Options) error {
	f := excelize.NewFile()
	defer f.Close()

	numFmt := xlsxDateFormat
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return fmt.Errorf("date style: %w", err)
	}

	sw, err := f.NewStreamWriter(xlsxSheet)
	if err != nil {
		return err
	}
	if err := sw.SetColWidth(1, 1, 20); err != nil {
		return err
	}

	header := table.Header()
	hdr := make([]any, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	if err := sw.SetRow("A1", hdr); err != nil {
		return err
	}

	for i, ts := range table.Timestamps {
		row := make([]any, table.NumColumns())
		row[0] = excelize.Cell{StyleID: dateStyle, Value: ts}
		for j, c := range table.Columns {
			row[j+1] = c.Values[i]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}
