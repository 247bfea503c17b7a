package data

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"seriesgen/internal/model"
)

// Format is the input file type, derived from the file extension.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// DetectFormat maps a file name to an input format.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return FormatXLSX, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported input file %q: expected .xlsx or .csv", filepath.Base(name))
	}
}

// LoadGrid reads a spreadsheet from disk. sheet selects a worksheet for xlsx
// input; empty means the first sheet.
func LoadGrid(path, sheet string) (model.RawGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.RawGrid{}, err
	}
	defer f.Close()
	return ReadGrid(f, path, sheet)
}

// ReadGrid reads an uploaded spreadsheet; name is only used to pick the format.
func ReadGrid(r io.Reader, name, sheet string) (model.RawGrid, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return model.RawGrid{}, err
	}
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	default:
		return ReadXLSX(r, sheet)
	}
}
