package model

import (
	"strings"
	"time"
)

// Frequency is the cadence of generated timestamps.
// Keep these values stable; they are matched against spreadsheet text.
type Frequency string

const (
	FrequencyHourly Frequency = "hourly"
)

// ParseFrequency normalizes text (trim + case-fold) and reports whether it names a
// supported frequency.
func ParseFrequency(text string) (Frequency, bool) {
	switch Frequency(strings.ToLower(strings.TrimSpace(text))) {
	case FrequencyHourly:
		return FrequencyHourly, true
	default:
		return "", false
	}
}

// Step is the fixed distance between consecutive timestamps.
func (f Frequency) Step() time.Duration {
	switch f {
	case FrequencyHourly:
		return time.Hour
	default:
		return 0
	}
}
