package network

import (
	"sort"
)

// Mode identifies a transit mode. Each mode is modelled and evaluated as an
// independent graph; Combined is the union of all of them plus inter-mode
// transfer edges.
type Mode string

const (
	ModeHeavyRail Mode = "heavy_rail"
	ModeMetro     Mode = "metro"
	ModeTram      Mode = "tram"
	ModeCombined  Mode = "combined"
)

// Modes lists the per-mode graphs in evaluation order.
func Modes() []Mode {
	return []Mode{ModeHeavyRail, ModeMetro, ModeTram}
}

// Valid reports whether the mode is one the engine knows about.
func (m Mode) Valid() bool {
	switch m {
	case ModeHeavyRail, ModeMetro, ModeTram, ModeCombined:
		return true
	}
	return false
}

// Stop is a node in a transit network. Stop IDs are line-qualified
// ("<line> - <name>") so the same physical station served by two lines is two
// distinct stops connected by a transfer edge.
type Stop struct {
	ID   string
	Name string
	Line string
	Mode Mode
	Lat  float64
	Lon  float64
}

// Edge is a directed link weighted by travel time in seconds. Transfer edges
// represent walking between co-located stops and carry the boarding penalty
// applied at build time.
type Edge struct {
	From     string
	To       string
	Weight   float64
	Transfer bool
}

// NetworkGraph is the immutable adjacency structure for one mode. It is safe
// for concurrent readers; nothing mutates it after Build returns.
type NetworkGraph struct {
	mode      Mode
	stops     map[string]*Stop
	adjacency map[string][]Edge
	stopIDs   []string
	edgeCount int
}

// Mode returns the graph's transit mode.
func (g *NetworkGraph) Mode() Mode {
	return g.mode
}

// StopCount returns the number of stops in the graph.
func (g *NetworkGraph) StopCount() int {
	return len(g.stopIDs)
}

// EdgeCount returns the number of directed edges in the graph.
func (g *NetworkGraph) EdgeCount() int {
	return g.edgeCount
}

// StopIDs returns all stop IDs in lexical order. The returned slice is shared;
// callers must not modify it.
func (g *NetworkGraph) StopIDs() []string {
	return g.stopIDs
}

// Stop returns the stop with the given ID, or nil if it does not exist.
func (g *NetworkGraph) Stop(id string) *Stop {
	return g.stops[id]
}

// Stops returns all stops in lexical ID order.
func (g *NetworkGraph) Stops() []*Stop {
	stops := make([]*Stop, len(g.stopIDs))
	for i, id := range g.stopIDs {
		stops[i] = g.stops[id]
	}
	return stops
}

// Neighbors returns the outgoing edges of a stop. The returned slice is
// shared; callers must not modify it.
func (g *NetworkGraph) Neighbors(stopID string) []Edge {
	return g.adjacency[stopID]
}

// HasEdge reports whether a directed edge from one stop to another exists.
func (g *NetworkGraph) HasEdge(fromID, toID string) bool {
	for _, e := range g.adjacency[fromID] {
		if e.To == toID {
			return true
		}
	}
	return false
}

// Adjacent reports whether two stops are directly linked in either direction.
func (g *NetworkGraph) Adjacent(a, b string) bool {
	return g.HasEdge(a, b) || g.HasEdge(b, a)
}

// Edges returns every directed edge, ordered by (From, To). Used by the
// snapshot codec and diagnostics; not on any hot path.
func (g *NetworkGraph) Edges() []Edge {
	edges := make([]Edge, 0, g.edgeCount)
	for _, id := range g.stopIDs {
		edges = append(edges, g.adjacency[id]...)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges
}
