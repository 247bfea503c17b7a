package analysis

import "sort"

type RankedSummary struct {
	Rank int
	SeriesSummary
}

// RankBySpread orders summaries by P95-P05 spread, widest first. Ties keep column order.
func RankBySpread(summaries []SeriesSummary) []RankedSummary {
	out := make([]RankedSummary, len(summaries))
	for i, s := range summaries {
		out[i] = RankedSummary{SeriesSummary: s}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SpreadP95P05 > out[j].SpreadP95P05
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
