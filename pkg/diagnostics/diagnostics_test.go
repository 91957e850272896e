package diagnostics

import (
	"testing"

	"github.com/urbanmesh/linescout/pkg/network"
)

func TestAnalyzeRing(t *testing.T) {
	b := network.NewBuilder(network.ModeMetro)
	ids := []string{"M1 - A", "M1 - B", "M1 - C", "M1 - D"}
	for _, id := range ids {
		b.AddStop(network.Stop{ID: id, Mode: network.ModeMetro})
	}
	for i := range ids {
		j := (i + 1) % len(ids)
		b.AddEdge(ids[i], ids[j], 1)
		b.AddEdge(ids[j], ids[i], 1)
	}
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	r := Analyze(g, 0)
	if !r.StronglyConnected || r.SCCCount != 1 {
		t.Errorf("ring should be one SCC, got count %d", r.SCCCount)
	}
	if !r.WeaklyConnected || r.ComponentCount != 1 {
		t.Errorf("ring should be one component, got %d", r.ComponentCount)
	}
	if r.IsTree {
		t.Error("ring is not a tree")
	}
	// Undirected skeleton: 4 stops, 4 edges, 1 component -> 1 cycle
	if r.CyclomaticNumber != 1 {
		t.Errorf("cyclomatic number = %d, want 1", r.CyclomaticNumber)
	}
	if r.DegreeMin != 2 || r.DegreeMax != 2 || r.DegreeMean != 2 {
		t.Errorf("ring degrees = %d/%v/%d, want 2/2/2", r.DegreeMin, r.DegreeMean, r.DegreeMax)
	}
	if r.MeanPathSeconds <= 0 {
		t.Errorf("mean path = %v, want positive", r.MeanPathSeconds)
	}
}

func TestAnalyzeChainIsTree(t *testing.T) {
	b := network.NewBuilder(network.ModeTram)
	ids := []string{"T3 - A", "T3 - B", "T3 - C"}
	for _, id := range ids {
		b.AddStop(network.Stop{ID: id, Mode: network.ModeTram})
	}
	for i := 0; i+1 < len(ids); i++ {
		b.AddEdge(ids[i], ids[i+1], 60)
		b.AddEdge(ids[i+1], ids[i], 60)
	}
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	r := Analyze(g, 0)
	if !r.IsTree {
		t.Error("chain should be a tree")
	}
	if r.CyclomaticNumber != 0 {
		t.Errorf("tree cyclomatic number = %d, want 0", r.CyclomaticNumber)
	}
	if !r.StronglyConnected {
		t.Error("bidirectional chain should be strongly connected")
	}
}

func TestAnalyzeDisconnected(t *testing.T) {
	b := network.NewBuilder(network.ModeMetro)
	for _, id := range []string{"M1 - A", "M1 - B", "M2 - C", "M2 - D"} {
		b.AddStop(network.Stop{ID: id, Mode: network.ModeMetro})
	}
	b.AddEdge("M1 - A", "M1 - B", 60)
	b.AddEdge("M2 - C", "M2 - D", 60)
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	r := Analyze(g, 0)
	if r.WeaklyConnected {
		t.Error("two segments should not be weakly connected")
	}
	if r.ComponentCount != 2 {
		t.Errorf("component count = %d, want 2", r.ComponentCount)
	}
	// One-way edges: each segment splits into singleton SCCs
	if r.StronglyConnected || r.SCCCount != 4 {
		t.Errorf("SCC count = %d, want 4", r.SCCCount)
	}
}

func TestAnalyzeEmptyGraph(t *testing.T) {
	g, err := network.NewBuilder(network.ModeMetro).Build()
	if err != nil {
		t.Fatal(err)
	}
	r := Analyze(g, 0)
	if r.StopCount != 0 || r.EdgeCount != 0 {
		t.Errorf("unexpected counts: %+v", r)
	}
}
