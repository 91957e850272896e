// Package efficiency scores transit graphs by mean shortest-path travel time
// and evaluates candidate connections by how much they reduce it.
package efficiency

import (
	"context"
	"fmt"
	"sync"

	"github.com/urbanmesh/linescout/pkg/candidates"
	"github.com/urbanmesh/linescout/pkg/network"
	"github.com/urbanmesh/linescout/pkg/parallel"
)

// defaultEpsilon absorbs floating-point noise when clamping gains to zero.
const defaultEpsilon = 1e-9

// Options configures evaluation.
type Options struct {
	// OriginSample restricts the representative origin set to the first S
	// stops in lexical order. Zero uses every stop. The set is fixed for
	// the whole batch so candidate scores stay comparable.
	OriginSample int
	// Parallelism bounds the evaluation worker pool. Zero uses GOMAXPROCS.
	Parallelism int
	// Epsilon is the tolerance for clamping negligible negative gains.
	// Zero uses the default.
	Epsilon float64
}

// Evaluation is the scored outcome for one candidate.
type Evaluation struct {
	Candidate       candidates.Candidate
	BaselineSeconds float64
	PostSeconds     float64
	GainSeconds     float64
	// NewlyReachable counts origin-destination pairs the candidate connects
	// that the baseline could not. Reported but excluded from the gain, so
	// new reachability is not conflated with travel-time improvement.
	NewlyReachable int
}

// BatchResult holds one mode's evaluated candidate batch.
type BatchResult struct {
	Mode            network.Mode
	BaselineSeconds float64
	PairCount       int
	OriginCount     int
	Evaluations     []Evaluation
}

// Origins returns the representative origin set: the first sample stops in
// lexical order, or every stop when sample is zero or exceeds the stop count.
func Origins(g *network.NetworkGraph, sample int) []string {
	ids := g.StopIDs()
	if sample <= 0 || sample >= len(ids) {
		return ids
	}
	return ids[:sample]
}

// Score computes the efficiency score of a graph: the arithmetic mean of
// finite shortest-path travel times from each origin to every other reachable
// stop. Lower is better.
func Score(g *network.NetworkGraph, origins []string) (float64, error) {
	if g.StopCount() < 2 {
		return 0, insufficientTopology("Score", g.Mode(), ErrTooFewStops)
	}
	if len(origins) == 0 {
		return 0, insufficientTopology("Score", g.Mode(), ErrNoOrigins)
	}

	var sum float64
	var pairs int
	for _, origin := range origins {
		for dest, d := range dijkstra(g, origin, nil) {
			if dest == origin {
				continue
			}
			sum += d
			pairs++
		}
	}
	if pairs == 0 {
		return 0, insufficientTopology("Score", g.Mode(), ErrNoPairs)
	}
	return sum / float64(pairs), nil
}

// EvaluateAll scores every candidate against the immutable baseline graph,
// concurrently. Each worker overlays its candidate's edge in both directions
// and recomputes the metric over the pair set reachable in the baseline, so
// the shared graph is never mutated and results are independent of worker
// completion order.
func EvaluateAll(ctx context.Context, g *network.NetworkGraph, cands []candidates.Candidate, opts Options) (*BatchResult, error) {
	if g.StopCount() < 2 {
		return nil, insufficientTopology("EvaluateAll", g.Mode(), ErrTooFewStops)
	}
	origins := Origins(g, opts.OriginSample)
	if len(origins) == 0 {
		return nil, insufficientTopology("EvaluateAll", g.Mode(), ErrNoOrigins)
	}
	for _, c := range cands {
		if c.Mode != g.Mode() {
			return nil, fmt.Errorf("candidate %q -> %q: %w (candidate %s, graph %s)",
				c.FromID, c.ToID, ErrWrongMode, c.Mode, g.Mode())
		}
	}

	epsilon := opts.Epsilon
	if epsilon <= 0 {
		epsilon = defaultEpsilon
	}

	// Baseline pass: one Dijkstra per origin. The reachable pair set it
	// discovers is frozen for the whole batch.
	baseline := make(map[string]map[string]float64, len(origins))
	var baselineSum float64
	var pairCount int
	for _, origin := range origins {
		dists := dijkstra(g, origin, nil)
		delete(dists, origin)
		baseline[origin] = dists
		for _, d := range dists {
			baselineSum += d
		}
		pairCount += len(dists)
	}
	if pairCount == 0 {
		return nil, insufficientTopology("EvaluateAll", g.Mode(), ErrNoPairs)
	}
	baselineScore := baselineSum / float64(pairCount)

	result := &BatchResult{
		Mode:            g.Mode(),
		BaselineSeconds: baselineScore,
		PairCount:       pairCount,
		OriginCount:     len(origins),
		Evaluations:     make([]Evaluation, len(cands)),
	}
	if len(cands) == 0 {
		return result, nil
	}

	pool, err := parallel.NewWorkerPool(opts.Parallelism)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	var mu sync.Mutex
	var firstErr error

	for i := range cands {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		idx := i
		cand := cands[i]
		submitErr := pool.Submit(func() {
			if ctx.Err() != nil {
				return
			}
			eval, evalErr := evaluateOne(g, cand, origins, baseline, baselineScore, pairCount, epsilon)
			if evalErr != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = evalErr
				}
				mu.Unlock()
				return
			}
			result.Evaluations[idx] = eval
		})
		if submitErr != nil {
			return nil, submitErr
		}
	}
	pool.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// evaluateOne scores a single candidate. The overlay carries the hypothetical
// edge in both directions since a new connection is usable either way.
func evaluateOne(g *network.NetworkGraph, cand candidates.Candidate, origins []string,
	baseline map[string]map[string]float64, baselineScore float64, pairCount int, epsilon float64) (Evaluation, error) {

	overlay := []overlayEdge{
		{from: cand.FromID, to: cand.ToID, weight: cand.Weight},
		{from: cand.ToID, to: cand.FromID, weight: cand.Weight},
	}

	var postSum float64
	var newlyReachable int
	for _, origin := range origins {
		dists := dijkstra(g, origin, overlay)
		base := baseline[origin]
		for dest, d := range dists {
			if dest == origin {
				continue
			}
			if _, wasReachable := base[dest]; wasReachable {
				postSum += d
			} else {
				newlyReachable++
			}
		}
	}

	postScore := postSum / float64(pairCount)

	gain := baselineScore - postScore
	if gain < -epsilon {
		// Adding an edge can only shorten shortest paths. A detectable
		// increase means the evaluator or builder is broken.
		return Evaluation{}, fmt.Errorf("candidate %q -> %q: %w: baseline %.6f, post %.6f",
			cand.FromID, cand.ToID, ErrNegativeGain, baselineScore, postScore)
	}
	if gain < 0 {
		gain = 0
	}

	return Evaluation{
		Candidate:       cand,
		BaselineSeconds: baselineScore,
		PostSeconds:     postScore,
		GainSeconds:     gain,
		NewlyReachable:  newlyReachable,
	}, nil
}
