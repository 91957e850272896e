// Package candidates generates hypothetical new direct connections between
// stops of one mode that are not linked by the existing network.
package candidates

import (
	"github.com/urbanmesh/linescout/pkg/network"
)

// Candidate is a hypothetical new direct connection between two stops of the
// same mode. Pairs are unordered and normalized so FromID < ToID lexically.
// Weight is the assumed travel time in seconds for the new link, estimated
// from great-circle distance at the mode's average speed.
type Candidate struct {
	Mode       network.Mode
	FromID     string
	ToID       string
	Weight     float64
	DistanceKM float64
}

// Options configures candidate generation.
type Options struct {
	// MinDistanceKM skips pairs closer than this. Zero disables the filter.
	MinDistanceKM float64
	// MaxCandidates caps the batch size (the per-mode testing budget N).
	// Zero means unlimited. When more eligible pairs exist than the cap,
	// the first N in lexical pair order are kept.
	MaxCandidates int
	// AverageSpeed overrides the derived mode speed, in meters per second.
	// Zero derives the speed from the graph's service edges.
	AverageSpeed float64
}

// Generate produces all eligible candidates for the graph's mode: unordered
// pairs of distinct stops not directly linked in either direction, at least
// MinDistanceKM apart, in deterministic lexical order. Fewer eligible pairs
// than MaxCandidates is a valid degenerate case, not an error.
func Generate(g *network.NetworkGraph, opts Options) ([]Candidate, error) {
	ids := g.StopIDs()
	if len(ids) < 2 {
		return nil, nil
	}

	speed := opts.AverageSpeed
	if speed <= 0 {
		speed = AverageSpeed(g)
	}

	var out []Candidate
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if opts.MaxCandidates > 0 && len(out) >= opts.MaxCandidates {
				return out, nil
			}
			a, b := ids[i], ids[j]
			if g.Adjacent(a, b) {
				continue
			}
			distKM := network.StopDistanceKM(g.Stop(a), g.Stop(b))
			if opts.MinDistanceKM > 0 && distKM < opts.MinDistanceKM {
				continue
			}
			out = append(out, Candidate{
				Mode:       g.Mode(),
				FromID:     a,
				ToID:       b,
				Weight:     distKM * 1000.0 / speed,
				DistanceKM: distKM,
			})
		}
	}
	return out, nil
}
