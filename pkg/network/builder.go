package network

import (
	"math"
	"sort"
)

// Builder accumulates stops and edges for one mode and validates them into an
// immutable NetworkGraph. A Builder is single-use: after Build succeeds,
// further mutation returns ErrGraphSealed.
type Builder struct {
	mode            Mode
	stops           map[string]*Stop
	pending         []Edge
	transferPenalty float64
	sealed          bool
}

// NewBuilder creates a builder for the given mode.
func NewBuilder(mode Mode) *Builder {
	return &Builder{
		mode:  mode,
		stops: make(map[string]*Stop),
	}
}

// SetTransferPenalty sets the boarding penalty in seconds added to every
// transfer edge at build time. Candidate edges never carry this penalty; it
// models the cost of changing lines inside a station.
func (b *Builder) SetTransferPenalty(seconds float64) *Builder {
	b.transferPenalty = seconds
	return b
}

// AddStop registers a stop. Re-adding an identical stop is a no-op; re-adding
// the same ID with different attributes is a malformed-topology error.
func (b *Builder) AddStop(stop Stop) error {
	if b.sealed {
		return NewTopologyError("AddStop", b.mode).Stop(stop.ID).Cause(ErrGraphSealed).Err()
	}
	if existing, ok := b.stops[stop.ID]; ok {
		if *existing != stop {
			return NewTopologyError("AddStop", b.mode).Stop(stop.ID).Cause(ErrDuplicateStop).Err()
		}
		return nil
	}
	s := stop
	b.stops[stop.ID] = &s
	return nil
}

// AddEdge queues a directed service edge weighted by travel time in seconds.
// Validation happens at Build time.
func (b *Builder) AddEdge(from, to string, weightSeconds float64) error {
	return b.addEdge(Edge{From: from, To: to, Weight: weightSeconds})
}

// AddTransferEdge queues a directed transfer edge (walking between co-located
// stops). The configured transfer penalty is added to its weight at Build time.
func (b *Builder) AddTransferEdge(from, to string, weightSeconds float64) error {
	return b.addEdge(Edge{From: from, To: to, Weight: weightSeconds, Transfer: true})
}

func (b *Builder) addEdge(e Edge) error {
	if b.sealed {
		return NewTopologyError("AddEdge", b.mode).Edge(e.From, e.To).Cause(ErrGraphSealed).Err()
	}
	b.pending = append(b.pending, e)
	return nil
}

// Build validates the accumulated topology and returns the immutable graph.
// Edges must reference known stops, carry finite positive weights, and must
// not be self-loops. Parallel duplicate edges keep the smaller weight.
func (b *Builder) Build() (*NetworkGraph, error) {
	if b.sealed {
		return nil, NewTopologyError("Build", b.mode).Cause(ErrGraphSealed).Err()
	}
	if !b.mode.Valid() {
		return nil, NewTopologyError("Build", b.mode).Cause(ErrInvalidMode).Err()
	}

	adjacency := make(map[string][]Edge, len(b.stops))
	best := make(map[[2]string]float64, len(b.pending))
	transfer := make(map[[2]string]bool, len(b.pending))

	for _, e := range b.pending {
		if _, ok := b.stops[e.From]; !ok {
			return nil, NewTopologyError("Build", b.mode).Edge(e.From, e.To).Cause(ErrUnknownStop).Err()
		}
		if _, ok := b.stops[e.To]; !ok {
			return nil, NewTopologyError("Build", b.mode).Edge(e.From, e.To).Cause(ErrUnknownStop).Err()
		}
		if e.From == e.To {
			return nil, NewTopologyError("Build", b.mode).Edge(e.From, e.To).Cause(ErrSelfLoop).Err()
		}

		weight := e.Weight
		if e.Transfer {
			weight += b.transferPenalty
		}
		if weight <= 0 || math.IsInf(weight, 0) || math.IsNaN(weight) {
			return nil, NewTopologyError("Build", b.mode).Edge(e.From, e.To).Cause(ErrInvalidWeight).Err()
		}

		key := [2]string{e.From, e.To}
		if prev, ok := best[key]; !ok || weight < prev {
			best[key] = weight
			transfer[key] = e.Transfer
		}
	}

	for key, weight := range best {
		adjacency[key[0]] = append(adjacency[key[0]], Edge{
			From:     key[0],
			To:       key[1],
			Weight:   weight,
			Transfer: transfer[key],
		})
	}

	stopIDs := make([]string, 0, len(b.stops))
	for id := range b.stops {
		stopIDs = append(stopIDs, id)
	}
	sort.Strings(stopIDs)

	for id := range adjacency {
		edges := adjacency[id]
		sort.Slice(edges, func(i, j int) bool { return edges[i].To < edges[j].To })
		adjacency[id] = edges
	}

	b.sealed = true
	return &NetworkGraph{
		mode:      b.mode,
		stops:     b.stops,
		adjacency: adjacency,
		stopIDs:   stopIDs,
		edgeCount: len(best),
	}, nil
}
