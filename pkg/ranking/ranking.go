// Package ranking orders evaluated candidates by efficiency gain and selects
// the top K per mode.
package ranking

import (
	"sort"

	"github.com/urbanmesh/linescout/pkg/efficiency"
)

// RankedResult is one selected candidate with its 1-based rank.
type RankedResult struct {
	Rank            int
	Candidate       string // "<from> <-> <to>" display form
	FromID          string
	ToID            string
	Mode            string
	WeightSeconds   float64
	DistanceKM      float64
	BaselineSeconds float64
	PostSeconds     float64
	GainSeconds     float64
	NewlyReachable  int
}

// SelectTop returns the top k evaluations by descending gain. Ties break by
// lexically ascending (FromID, ToID) so repeated runs order identically
// regardless of evaluation worker completion order. The input slice is not
// mutated. k <= 0 returns nil; k beyond the batch returns the whole batch.
func SelectTop(evals []efficiency.Evaluation, k int) []RankedResult {
	if k <= 0 || len(evals) == 0 {
		return nil
	}

	sorted := make([]efficiency.Evaluation, len(evals))
	copy(sorted, evals)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].GainSeconds != sorted[j].GainSeconds {
			return sorted[i].GainSeconds > sorted[j].GainSeconds
		}
		if sorted[i].Candidate.FromID != sorted[j].Candidate.FromID {
			return sorted[i].Candidate.FromID < sorted[j].Candidate.FromID
		}
		return sorted[i].Candidate.ToID < sorted[j].Candidate.ToID
	})

	if k > len(sorted) {
		k = len(sorted)
	}

	out := make([]RankedResult, k)
	for i := 0; i < k; i++ {
		e := sorted[i]
		out[i] = RankedResult{
			Rank:            i + 1,
			Candidate:       e.Candidate.FromID + " <-> " + e.Candidate.ToID,
			FromID:          e.Candidate.FromID,
			ToID:            e.Candidate.ToID,
			Mode:            string(e.Candidate.Mode),
			WeightSeconds:   e.Candidate.Weight,
			DistanceKM:      e.Candidate.DistanceKM,
			BaselineSeconds: e.BaselineSeconds,
			PostSeconds:     e.PostSeconds,
			GainSeconds:     e.GainSeconds,
			NewlyReachable:  e.NewlyReachable,
		}
	}
	return out
}
