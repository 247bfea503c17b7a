package export

import (
	"encoding/csv"
	"io"

	"seriesgen/internal/model"
)

// WriteCSV writes the header row "timestamp,<series>..." followed by one row per timestamp.
func WriteCSV(w io.Writer, table *model.OutputTable, opts Options) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(table.Header()); err != nil {
		return err
	}

	row := make([]string, table.NumColumns())
	for i := range table.Timestamps {
		if err := cw.Write(formatRow(row, table, i, opts)); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Preview returns up to n formatted rows (header excluded) as they would appear in the CSV.
func Preview(table *model.OutputTable, n int, opts Options) [][]string {
	if table == nil || n <= 0 {
		return [][]string{}
	}
	if n > table.NumRows() {
		n = table.NumRows()
	}
	out := make([][]string, n)
	for i := 0; i < n; i++ {
		out[i] = formatRow(make([]string, table.NumColumns()), table, i, opts)
	}
	return out
}

func formatRow(dst []string, table *model.OutputTable, i int, opts Options) []string {
	dst[0] = fmtTime(table.Timestamps[i], opts.layout())
	for j, c := range table.Columns {
		dst[j+1] = fmtFloat(c.Values[i])
	}
	return dst
}
