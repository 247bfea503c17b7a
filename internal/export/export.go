// Package export writes a generated table as a downloadable file.
package export

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"seriesgen/internal/model"
)

// Format is an output file type.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatXLSX    Format = "xlsx"
	FormatParquet Format = "parquet"
)

// DefaultTimestampLayout renders timestamps without a zone, e.g. "2024-06-01 13:00:00".
const DefaultTimestampLayout = "2006-01-02 15:04:05"

// DefaultBaseName is the download file name without extension.
const DefaultBaseName = "generated_hourly_data"

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX, FormatParquet:
		return f, nil
	case "":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported output format %q", s)
	}
}

func (f Format) Extension() string { return "." + string(f) }

func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatParquet:
		return "application/vnd.apache.parquet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// FileName is DefaultBaseName with the format's extension.
func (f Format) FileName() string { return DefaultBaseName + f.Extension() }

type Options struct {
	TimestampLayout string
}

func (o Options) layout() string {
	if o.TimestampLayout == "" {
		return DefaultTimestampLayout
	}
	return o.TimestampLayout
}

// Write encodes table to w in the given format.
func Write(w io.Writer, table *model.OutputTable, format Format, opts Options) error {
	if table == nil {
		return fmt.Errorf("table is nil")
	}
	switch format {
	case FormatCSV:
		return WriteCSV(w, table, opts)
	case FormatXLSX:
		return WriteXLSX(w, table, opts)
	case FormatParquet:
		return WriteParquet(w, table)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// WriteFile creates path (and its directory) and writes table into it.
func WriteFile(path string, table *model.OutputTable, format Format, opts Options) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, table, format, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fmtTime(t time.Time, layout string) string {
	return t.Format(layout)
}

// fmtFloat writes the shortest round-trip form and keeps one decimal place on
// whole numbers, so a point-mass column reads 10.0 rather than 10.
func fmtFloat(x float64) string {
	s := strconv.FormatFloat(x, 'f', -1, 64)
	if math.IsInf(x, 0) || math.IsNaN(x) || strings.ContainsRune(s, '.') {
		return s
	}
	return s + ".0"
}
