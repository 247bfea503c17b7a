package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"seriesgen/internal/model"
)

// memFile is a write-only source.ParquetFile backed by a buffer.
type memFile struct {
	buffer *bytes.Buffer
}

func newMemFile() *memFile {
	return &memFile{buffer: &bytes.Buffer{}}
}

func (m *memFile) Create(string) (source.ParquetFile, error) { return m, nil }
func (m *memFile) Open(string) (source.ParquetFile, error)   { return m, nil }
func (m *memFile) Seek(int64, int) (int64, error)            { return int64(m.buffer.Len()), nil }
func (m *memFile) Read([]byte) (int, error)                  { return 0, fmt.Errorf("read not supported") }
func (m *memFile) Write(b []byte) (int, error)               { return m.buffer.Write(b) }
func (m *memFile) Close() error                              { return nil }

// WriteParquet writes timestamp as INT64 TIMESTAMP_MILLIS and every series as DOUBLE.
// Column names are reduced to [A-Za-z0-9_] since parquet-go schema tags cannot carry
// commas or spaces.
func WriteParquet(w io.Writer, table *model.OutputTable) error {
	names := ParquetColumnNames(table.Header())
	md := make([]string, 0, len(names))
	md = append(md, fmt.Sprintf("name=%s, type=INT64, convertedtype=TIMESTAMP_MILLIS", names[0]))
	for _, n := range names[1:] {
		md = append(md, fmt.Sprintf("name=%s, type=DOUBLE", n))
	}

	mf := newMemFile()
	pw, err := writer.NewCSVWriter(md, mf, 1)
	if err != nil {
		return fmt.Errorf("create parquet writer: %w", err)
	}

	for i, ts := range table.Timestamps {
		rec := make([]interface{}, 0, table.NumColumns())
		rec = append(rec, ts.UnixMilli())
		for _, c := range table.Columns {
			rec = append(rec, c.Values[i])
		}
		if err := pw.Write(rec); err != nil {
			return fmt.Errorf("write parquet row %d: %w", i, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("finalize parquet: %w", err)
	}

	_, err = w.Write(mf.buffer.Bytes())
	return err
}

// ParquetColumnNames sanitizes header names and suffixes collisions with _2, _3, ...
func ParquetColumnNames(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		n := sanitize(h)
		seen[n]++
		if c := seen[n]; c > 1 {
			n = fmt.Sprintf("%s_%d", n, c)
		}
		out[i] = n
	}
	return out
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "col"
	}
	return b.String()
}
