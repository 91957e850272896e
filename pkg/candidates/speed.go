package candidates

import (
	"github.com/urbanmesh/linescout/pkg/network"
)

// Fallback cruise speeds in meters per second, used when a graph has no usable
// service edges to derive a speed from.
var fallbackSpeeds = map[network.Mode]float64{
	network.ModeHeavyRail: 18.0,
	network.ModeMetro:     9.0,
	network.ModeTram:      6.0,
	network.ModeCombined:  9.0,
}

// FallbackSpeed returns the configured fallback speed for a mode in meters
// per second.
func FallbackSpeed(mode network.Mode) float64 {
	if s, ok := fallbackSpeeds[mode]; ok {
		return s
	}
	return fallbackSpeeds[network.ModeCombined]
}

// AverageSpeed derives the mode's average speed in meters per second from the
// graph's existing service edges: the mean of distance/time over every
// non-transfer edge with a positive travel time. Transfer edges are excluded
// since walking speed says nothing about the mode's rolling stock. Falls back
// to a per-mode constant when the graph has no usable edges.
func AverageSpeed(g *network.NetworkGraph) float64 {
	var sum float64
	var n int
	for _, e := range g.Edges() {
		if e.Transfer || e.Weight <= 0 {
			continue
		}
		from, to := g.Stop(e.From), g.Stop(e.To)
		if from == nil || to == nil {
			continue
		}
		meters := network.StopDistanceKM(from, to) * 1000.0
		if meters <= 0 {
			continue
		}
		sum += meters / e.Weight
		n++
	}
	if n == 0 {
		return FallbackSpeed(g.Mode())
	}
	return sum / float64(n)
}
