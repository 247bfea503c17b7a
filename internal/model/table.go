package model

import "time"

// TimestampColumn is the name of the first output column.
const TimestampColumn = "timestamp"

// Column is one generated series, aligned with OutputTable.Timestamps.
type Column struct {
	Name   string
	Values []float64
}

// OutputTable is the primary artifact of a run: one row per timestamp, one column
// per series. It is built once and not mutated after Generate returns.
type OutputTable struct {
	Timestamps []time.Time
	Columns    []Column
}

// NewOutputTable creates a table with the given timestamps and no series columns.
func NewOutputTable(timestamps []time.Time) *OutputTable {
	return &OutputTable{Timestamps: timestamps}
}

// SetColumn adds a column, or replaces the values of an existing column with the
// same name in place. It reports whether an existing column was replaced.
func (t *OutputTable) SetColumn(name string, values []float64) bool {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			t.Columns[i].Values = values
			return true
		}
	}
	t.Columns = append(t.Columns, Column{Name: name, Values: values})
	return false
}

// Column looks up a series column by name.
func (t *OutputTable) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

func (t *OutputTable) NumRows() int { return len(t.Timestamps) }

// NumColumns counts the timestamp column plus every series column.
func (t *OutputTable) NumColumns() int { return len(t.Columns) + 1 }

// Header returns the column names in output order.
func (t *OutputTable) Header() []string {
	h := make([]string, 0, t.NumColumns())
	h = append(h, TimestampColumn)
	for _, c := range t.Columns {
		h = append(h, c.Name)
	}
	return h
}

// Row returns the series values for row i in column order.
func (t *OutputTable) Row(i int) []float64 {
	out := make([]float64, len(t.Columns))
	for j, c := range t.Columns {
		out[j] = c.Values[i]
	}
	return out
}
