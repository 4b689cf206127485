package engine

import (
	"github.com/sdcanvas/simulation-core/internal/graph"
	"github.com/sdcanvas/simulation-core/internal/latency"
	"github.com/sdcanvas/simulation-core/internal/propagation"
	"github.com/sdcanvas/simulation-core/pkg/models"
)

// pathResolver computes the expected latency of a full request path
// from an entry point: each node's latency plus, for every outbound
// edge, the transport latency and downstream latency weighted by the
// fraction of requests traversing that edge. Cycles are cut by a
// per-walk visited set, so the recursion terminates on any graph.
type pathResolver struct {
	idx      *graph.Index
	mean     map[string]float64
	p99      map[string]float64
	edgeFrac map[*models.SystemEdge]float64
}

func newPathResolver(idx *graph.Index, prop *propagation.Result, mean, p99 map[string]float64) *pathResolver {
	p := &pathResolver{
		idx:      idx,
		mean:     mean,
		p99:      p99,
		edgeFrac: make(map[*models.SystemEdge]float64, len(idx.Edges)),
	}

	edgePos := make(map[*models.SystemEdge]int, len(idx.Edges))
	for i, e := range idx.Edges {
		edgePos[e] = i
	}

	// Per-edge traversal fraction: with traffic present it falls out of
	// the propagated rates; on an idle subgraph it falls back to the
	// declared split weights.
	for _, n := range idx.Nodes {
		outbound := idx.Outbound(n.ID)
		if len(outbound) == 0 {
			continue
		}
		incoming := prop.NodeRates[n.ID]
		if incoming > 0 {
			for _, e := range outbound {
				p.edgeFrac[e] = prop.EdgeRates[edgePos[e]] / incoming
			}
			continue
		}
		var totalWeight float64
		for _, e := range outbound {
			totalWeight += edgeWeight(e)
		}
		for _, e := range outbound {
			p.edgeFrac[e] = edgeWeight(e) / totalWeight
		}
	}

	return p
}

func edgeWeight(e *models.SystemEdge) float64 {
	if e.Weight > 0 {
		return e.Weight
	}
	return 1
}

// latencyFrom returns the expected mean and P99 path latency for a
// request entering at the given node.
func (p *pathResolver) latencyFrom(entry string) (mean, p99 float64) {
	visited := make(map[string]bool)
	return p.walk(entry, visited)
}

func (p *pathResolver) walk(id string, visited map[string]bool) (mean, p99 float64) {
	if visited[id] {
		return 0, 0
	}
	visited[id] = true
	defer delete(visited, id)

	mean = p.mean[id]
	p99 = p.p99[id]

	for _, e := range p.idx.Outbound(id) {
		frac := p.edgeFrac[e]
		if frac <= 0 {
			continue
		}
		transport := latency.EdgeTransportLatencyMs(e.Kind)
		dMean, dP99 := p.walk(e.To, visited)
		mean += frac * (transport + dMean)
		p99 += frac * (transport + dP99)
	}
	return mean, p99
}
