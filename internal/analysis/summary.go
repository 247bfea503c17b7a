package analysis

import (
	"math"
	"sort"

	"seriesgen/internal/model"
)

// SeriesSummary describes the distribution of one generated column.
type SeriesSummary struct {
	Name  string
	Count int

	Min  float64
	Max  float64
	Mean float64
	P05  float64
	P95  float64

	SpreadP95P05 float64
}

// Summarize computes stats for a single column. An empty column yields a zero summary
// carrying only the name.
func Summarize(name string, values []float64) SeriesSummary {
	s := SeriesSummary{Name: name, Count: len(values)}
	if len(values) == 0 {
		return s
	}

	sum := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	sorted := make([]float64, len(values))
	copy(sorted, values)
	for _, v := range values {
		sum += v
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
	}
	sort.Float64s(sorted)
	s.Min = minv
	s.Max = maxv
	s.Mean = sum / float64(len(values))
	s.P05 = percentileSorted(sorted, 0.05)
	s.P95 = percentileSorted(sorted, 0.95)
	s.SpreadP95P05 = s.P95 - s.P05
	return s
}

// SummarizeTable summarizes every series column of t in column order.
func SummarizeTable(t *model.OutputTable) []SeriesSummary {
	if t == nil {
		return nil
	}
	out := make([]SeriesSummary, 0, len(t.Columns))
	for _, c := range t.Columns {
		out = append(out, Summarize(c.Name, c.Values))
	}
	return out
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
