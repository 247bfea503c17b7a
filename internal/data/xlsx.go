package data

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"seriesgen/internal/model"
)

// ReadXLSX loads one worksheet as a RawGrid. Cells are read raw, so date cells
// arrive as Excel serial numbers rather than locale-formatted text.
func ReadXLSX(r io.Reader, sheet string) (model.RawGrid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return model.RawGrid{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return model.RawGrid{}, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return model.RawGrid{}, fmt.Errorf("sheet %q not found", sheet)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return model.RawGrid{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return model.NewRawGrid(rows), nil
}
