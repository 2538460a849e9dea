package stats

import (
	"sort"

	"github.com/verte-zerg/calmtype/internal/model"
)

// TopCharsByFrequency returns the n most typed characters, most frequent first.
// Space is reported as "<space>".
func TopCharsByFrequency(aggs []model.CharAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	sorted := make([]model.CharAggregate, len(aggs))
	copy(sorted, aggs)
	sort.Slice(sorted, func(i, j int) bool {
		ti := sorted[i].Correct + sorted[i].Incorrect
		tj := sorted[j].Correct + sorted[j].Incorrect
		if ti == tj {
			return sorted[i].Char < sorted[j].Char
		}
		return ti > tj
	})
	n = min(n, len(sorted))
	out := make([]string, n)
	for i := range out {
		out[i] = sorted[i].Char
		if out[i] == " " {
			out[i] = "<space>"
		}
	}
	return out
}
