// Package propagation walks the architecture graph from its declared
// entry points and computes the request rate reaching every node and
// edge. Nodes are resolved in dependency order; cycles are broken at
// the first re-visit with a non-fatal warning; cache nodes shield their
// backing store by forwarding only their miss traffic.
package propagation

import (
	"fmt"

	"github.com/sdcanvas/simulation-core/internal/cache"
	"github.com/sdcanvas/simulation-core/internal/graph"
	"github.com/sdcanvas/simulation-core/pkg/config"
	"github.com/sdcanvas/simulation-core/pkg/models"
)

// Result holds the propagated rates for one run. EdgeRates is parallel
// to the index's Edges slice.
type Result struct {
	NodeRates    map[string]float64
	ForwardRates map[string]float64
	HitRates     map[string]float64
	EdgeRates    []float64
	Warnings     []models.Warning
}

// Propagate computes per-node and per-edge request rates. Entry points
// referencing unknown nodes are a structural error; everything else is
// absorbed with warnings.
func Propagate(idx *graph.Index, entries []config.EntryPoint) (*Result, error) {
	res := &Result{
		NodeRates:    make(map[string]float64),
		ForwardRates: make(map[string]float64),
		HitRates:     make(map[string]float64),
		EdgeRates:    make([]float64, len(idx.Edges)),
	}

	edgePos := make(map[*models.SystemEdge]int, len(idx.Edges))
	for i, e := range idx.Edges {
		edgePos[e] = i
	}

	// Seed entry rates and find the reachable subgraph.
	seeds := make([]string, 0, len(entries))
	for _, ep := range entries {
		node, ok := idx.Node(ep.Node)
		if !ok || node.Kind == models.NodeKindAnnotation {
			return nil, fmt.Errorf("entry point references unknown node %q", ep.Node)
		}
		if ep.RateRPS <= 0 {
			continue
		}
		res.NodeRates[ep.Node] += ep.RateRPS
		seeds = append(seeds, ep.Node)
		if len(idx.Outbound(ep.Node)) == 0 {
			res.warn(models.WarnDisconnectedEntry, ep.Node,
				fmt.Sprintf("entry point %s has no outbound edges; its traffic goes nowhere", ep.Node))
		}
	}

	reachable := reachableFrom(idx, seeds)

	// In-degree restricted to the reachable subgraph. Nodes become ready
	// once every reachable predecessor has been finalized; nodes on
	// cycles never reach zero and are force-finalized below.
	indeg := make(map[string]int)
	for id := range reachable {
		for _, e := range idx.Inbound(id) {
			if reachable[e.From] {
				indeg[id]++
			}
		}
	}

	var queue []string
	for _, n := range idx.Nodes {
		if reachable[n.ID] && indeg[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	finalized := make(map[string]bool)
	cycleWarned := make(map[string]bool)
	remaining := len(reachable)

	for remaining > 0 {
		if len(queue) == 0 {
			// Every remaining node sits on a cycle. Break it at the node
			// declared first: finalize with the rate accumulated so far.
			next := ""
			for _, n := range idx.Nodes {
				if reachable[n.ID] && !finalized[n.ID] {
					next = n.ID
					break
				}
			}
			if !cycleWarned[next] {
				cycleWarned[next] = true
				res.warn(models.WarnTraversalCycle, next,
					fmt.Sprintf("cycle detected at node %s; traffic already accounted for is not propagated again", next))
			}
			queue = append(queue, next)
		}

		id := queue[0]
		queue = queue[1:]
		if finalized[id] {
			continue
		}
		finalized[id] = true
		remaining--

		node, _ := idx.Node(id)
		rate := res.NodeRates[id]

		forward := rate
		if node.Kind == models.NodeKindCache {
			hitRate := cache.NodeHitRate(node.Cache, rate)
			res.HitRates[id] = hitRate
			forward = rate * (1 - hitRate)
		}
		res.ForwardRates[id] = forward

		outbound := idx.Outbound(id)
		if len(outbound) == 0 || forward <= 0 {
			continue
		}

		totalWeight := 0.0
		for _, e := range outbound {
			totalWeight += splitWeight(e)
		}

		for _, e := range outbound {
			share := forward * splitWeight(e) / totalWeight
			res.EdgeRates[edgePos[e]] += share

			if finalized[e.To] {
				// Back-edge: the rate is carried on the edge but does not
				// feed the target again. One warning per target.
				if !cycleWarned[e.To] {
					cycleWarned[e.To] = true
					res.warn(models.WarnTraversalCycle, e.To,
						fmt.Sprintf("edge %s -> %s closes a cycle; repeated visit contributes no additional rate", e.From, e.To))
				}
				continue
			}

			res.NodeRates[e.To] += share
			indeg[e.To]--
			if indeg[e.To] == 0 {
				queue = append(queue, e.To)
			}
		}
	}

	return res, nil
}

func splitWeight(e *models.SystemEdge) float64 {
	if e.Weight > 0 {
		return e.Weight
	}
	return 1
}

func reachableFrom(idx *graph.Index, seeds []string) map[string]bool {
	reachable := make(map[string]bool)
	queue := append([]string(nil), seeds...)
	for _, s := range seeds {
		reachable[s] = true
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, e := range idx.Outbound(id) {
			if !reachable[e.To] {
				reachable[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}
	return reachable
}

func (r *Result) warn(code models.WarningCode, target, msg string) {
	r.Warnings = append(r.Warnings, models.Warning{
		Code:     code,
		TargetID: target,
		Message:  msg,
	})
}
