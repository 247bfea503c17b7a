package model

import "time"

// Header is the time window read from the labeled rows of the input grid.
//
// Start <= End is not enforced: a reversed window yields an empty timestamp sequence.
type Header struct {
	Start     time.Time
	End       time.Time
	Frequency Frequency
}

// Duration is End - Start; negative for a reversed window.
func (h Header) Duration() time.Duration {
	return h.End.Sub(h.Start)
}

// SeriesSpec is one (name, low, high) row of the series table.
// Low <= High is assumed, not checked.
type SeriesSpec struct {
	Name string
	Low  int
	High int

	// Row is the 0-based grid row this entry was read from.
	Row int
}
