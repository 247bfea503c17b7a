package data

import (
	"encoding/csv"
	"fmt"
	"io"

	"seriesgen/internal/model"
)

// ReadCSV loads a comma-separated grid. Rows may have different lengths.
func ReadCSV(r io.Reader) (model.RawGrid, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return model.RawGrid{}, fmt.Errorf("read csv: %w", err)
	}
	return model.NewRawGrid(rows), nil
}
