// Package diagnostics summarizes the structure of a built transit graph:
// connectivity, cycle structure, degree distribution, and mean travel time.
// Reports are logged after build and exported alongside results on request.
package diagnostics

import (
	"github.com/urbanmesh/linescout/pkg/efficiency"
	"github.com/urbanmesh/linescout/pkg/network"
)

// Report is a structural summary of one mode's graph.
type Report struct {
	Mode              network.Mode `json:"mode"`
	StopCount         int          `json:"stop_count"`
	EdgeCount         int          `json:"edge_count"`
	StronglyConnected bool         `json:"strongly_connected"`
	SCCCount          int          `json:"scc_count"`
	LargestSCCSize    int          `json:"largest_scc_size"`
	WeaklyConnected   bool         `json:"weakly_connected"`
	ComponentCount    int          `json:"component_count"`
	IsTree            bool         `json:"is_tree"`
	// CyclomaticNumber is E - V + C over the undirected skeleton: the number
	// of independent cycles in the network.
	CyclomaticNumber int     `json:"cyclomatic_number"`
	DegreeMin        int     `json:"degree_min"`
	DegreeMean       float64 `json:"degree_mean"`
	DegreeMax        int     `json:"degree_max"`
	// MeanPathSeconds is the mean shortest travel time over a sample of
	// origins (zero sample means all stops).
	MeanPathSeconds float64 `json:"mean_path_seconds"`
}

// Analyze builds a report for the graph. originSample bounds the number of
// shortest-path sources used for the mean travel time; zero uses every stop.
func Analyze(g *network.NetworkGraph, originSample int) *Report {
	r := &Report{
		Mode:      g.Mode(),
		StopCount: g.StopCount(),
		EdgeCount: g.EdgeCount(),
	}
	if g.StopCount() == 0 {
		r.WeaklyConnected = true
		r.StronglyConnected = true
		return r
	}

	undirected := undirectedSkeleton(g)

	sccCount, largest := stronglyConnectedComponents(g)
	r.SCCCount = sccCount
	r.LargestSCCSize = largest
	r.StronglyConnected = sccCount == 1

	components := weakComponents(g, undirected)
	r.ComponentCount = components
	r.WeaklyConnected = components == 1

	undirectedEdges := 0
	for _, peers := range undirected {
		undirectedEdges += len(peers)
	}
	undirectedEdges /= 2

	r.IsTree = components == 1 && undirectedEdges == g.StopCount()-1
	r.CyclomaticNumber = undirectedEdges - g.StopCount() + components

	r.DegreeMin, r.DegreeMean, r.DegreeMax = degreeStats(g)

	if score, err := efficiency.Score(g, efficiency.Origins(g, originSample)); err == nil {
		r.MeanPathSeconds = score
	}

	return r
}

// undirectedSkeleton maps each stop to the set of stops it shares any edge
// with, in either direction.
func undirectedSkeleton(g *network.NetworkGraph) map[string]map[string]bool {
	skeleton := make(map[string]map[string]bool, g.StopCount())
	for _, id := range g.StopIDs() {
		skeleton[id] = make(map[string]bool)
	}
	for _, id := range g.StopIDs() {
		for _, e := range g.Neighbors(id) {
			skeleton[e.From][e.To] = true
			skeleton[e.To][e.From] = true
		}
	}
	return skeleton
}

// stronglyConnectedComponents runs Tarjan's algorithm and returns the
// component count and the size of the largest component.
func stronglyConnectedComponents(g *network.NetworkGraph) (count, largest int) {
	type tarjanState struct {
		index   int
		lowlink int
		onStack bool
	}

	state := make(map[string]*tarjanState, g.StopCount())
	var stack []string
	indexCounter := 0

	var strongconnect func(u string)
	strongconnect = func(u string) {
		state[u] = &tarjanState{
			index:   indexCounter,
			lowlink: indexCounter,
			onStack: true,
		}
		indexCounter++
		stack = append(stack, u)

		for _, e := range g.Neighbors(u) {
			v := e.To
			if _, exists := state[v]; !exists {
				strongconnect(v)
				if state[v].lowlink < state[u].lowlink {
					state[u].lowlink = state[v].lowlink
				}
			} else if state[v].onStack {
				if state[v].index < state[u].lowlink {
					state[u].lowlink = state[v].index
				}
			}
		}

		// u is a root: pop the stack to form one SCC
		if state[u].lowlink == state[u].index {
			size := 0
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				state[w].onStack = false
				size++
				if w == u {
					break
				}
			}
			count++
			if size > largest {
				largest = size
			}
		}
	}

	for _, id := range g.StopIDs() {
		if _, visited := state[id]; !visited {
			strongconnect(id)
		}
	}
	return count, largest
}

// weakComponents counts connected components of the undirected skeleton.
func weakComponents(g *network.NetworkGraph, skeleton map[string]map[string]bool) int {
	visited := make(map[string]bool, g.StopCount())
	components := 0

	for _, start := range g.StopIDs() {
		if visited[start] {
			continue
		}
		components++
		queue := []string{start}
		visited[start] = true
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			for peer := range skeleton[current] {
				if !visited[peer] {
					visited[peer] = true
					queue = append(queue, peer)
				}
			}
		}
	}
	return components
}

// degreeStats summarizes the out-degree distribution.
func degreeStats(g *network.NetworkGraph) (min int, mean float64, max int) {
	ids := g.StopIDs()
	if len(ids) == 0 {
		return 0, 0, 0
	}
	min = len(g.Neighbors(ids[0]))
	total := 0
	for _, id := range ids {
		d := len(g.Neighbors(id))
		total += d
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return min, float64(total) / float64(len(ids)), max
}
