package efficiency

import (
	"container/heap"

	"github.com/urbanmesh/linescout/pkg/network"
)

// overlayEdge is a hypothetical edge considered during relaxation without
// mutating the baseline graph.
type overlayEdge struct {
	from   string
	to     string
	weight float64
}

// pqItem is a priority-queue entry for Dijkstra.
type pqItem struct {
	stopID string
	dist   float64
}

// distHeap is a binary min-heap over tentative distances.
type distHeap []pqItem

func (h distHeap) Len() int            { return len(h) }
func (h distHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h distHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *distHeap) Push(x any)         { *h = append(*h, x.(pqItem)) }
func (h *distHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// dijkstra computes shortest travel times from origin to every reachable stop.
// Overlay edges participate in relaxation as if they were part of the graph.
// Stops absent from the result map are unreachable.
func dijkstra(g *network.NetworkGraph, origin string, overlay []overlayEdge) map[string]float64 {
	dist := make(map[string]float64, g.StopCount())
	settled := make(map[string]bool, g.StopCount())

	h := &distHeap{{stopID: origin, dist: 0}}
	dist[origin] = 0

	relax := func(to string, candidate float64, h *distHeap) {
		if old, seen := dist[to]; !seen || candidate < old {
			dist[to] = candidate
			heap.Push(h, pqItem{stopID: to, dist: candidate})
		}
	}

	for h.Len() > 0 {
		current := heap.Pop(h).(pqItem)
		if settled[current.stopID] {
			continue
		}
		settled[current.stopID] = true

		for _, e := range g.Neighbors(current.stopID) {
			relax(e.To, current.dist+e.Weight, h)
		}
		for _, oe := range overlay {
			if oe.from == current.stopID {
				relax(oe.to, current.dist+oe.weight, h)
			}
		}
	}

	return dist
}

// ShortestPathTimes returns the shortest travel time in seconds from origin to
// every reachable stop in the graph. Unreachable stops are absent from the map.
func ShortestPathTimes(g *network.NetworkGraph, origin string) map[string]float64 {
	return dijkstra(g, origin, nil)
}
