// Package bottleneck ranks nodes and edges by how much they limit
// end-to-end performance: saturation, disproportionate latency
// contribution, ineffective caches, and expensive queries.
package bottleneck

import (
	"fmt"
	"sort"

	"github.com/sdcanvas/simulation-core/internal/graph"
	"github.com/sdcanvas/simulation-core/pkg/models"
	"github.com/sdcanvas/simulation-core/pkg/utils"
)

const (
	// SaturationThreshold flags a node as CPU-bound.
	SaturationThreshold = 0.85

	// latencyShare flags a node contributing this fraction of the total
	// mean latency as latency-bound.
	latencyShare = 0.5

	// dominantEdgeShare flags an inbound edge feeding most of a
	// saturated node's traffic.
	dominantEdgeShare = 0.6

	// fullScanCostFloor is the cost below which a full scan is too cheap
	// to rank as a bottleneck.
	fullScanCostFloor = 1000
)

type candidate struct {
	info  models.BottleneckInfo
	order int
}

// Detect scans the computed metrics and returns ranked bottlenecks,
// highest severity first. Ties break by declaration order in the input
// graph, keeping the output deterministic.
func Detect(
	idx *graph.Index,
	nodes []models.NodeMetrics,
	edges []models.EdgeMetrics,
	caches []models.CacheAnalysis,
	reports []models.TableQueryReport,
) []models.BottleneckInfo {
	var cands []candidate
	edgeOrderBase := len(idx.Nodes)

	var totalMean float64
	activeNodes := 0
	for _, nm := range nodes {
		if nm.IncomingRPS > 0 {
			totalMean += nm.MeanLatencyMs
			activeNodes++
		}
	}

	for _, nm := range nodes {
		order := idx.Order(nm.NodeID)

		if nm.Utilization >= SaturationThreshold {
			cands = append(cands, candidate{
				order: order,
				info: models.BottleneckInfo{
					TargetID:   nm.NodeID,
					TargetType: models.TargetNode,
					Type:       models.BottleneckCPU,
					Severity:   utils.Round(nm.Utilization, 4),
					Detail: fmt.Sprintf("utilization %.0f%% at %d instance(s), %.0f rps",
						nm.Utilization*100, nm.Instances, nm.IncomingRPS),
				},
			})
			continue
		}

		if activeNodes > 1 && totalMean > 0 && nm.IncomingRPS > 0 {
			share := nm.MeanLatencyMs / totalMean
			if share >= latencyShare {
				cands = append(cands, candidate{
					order: order,
					info: models.BottleneckInfo{
						TargetID:   nm.NodeID,
						TargetType: models.TargetNode,
						Type:       models.BottleneckLatency,
						Severity:   utils.Round(share, 4),
						Detail: fmt.Sprintf("contributes %.0f%% of total mean latency (%.1fms)",
							share*100, nm.MeanLatencyMs),
					},
				})
			}
		}
	}

	// Dominant inbound edges of saturated nodes.
	nodeByID := make(map[string]models.NodeMetrics, len(nodes))
	for _, nm := range nodes {
		nodeByID[nm.NodeID] = nm
	}
	for i, em := range edges {
		dest, ok := nodeByID[em.To]
		if !ok || dest.Utilization < SaturationThreshold || dest.IncomingRPS <= 0 {
			continue
		}
		share := em.RPS / dest.IncomingRPS
		if share >= dominantEdgeShare {
			cands = append(cands, candidate{
				order: edgeOrderBase + i,
				info: models.BottleneckInfo{
					TargetID:   em.EdgeID,
					TargetType: models.TargetEdge,
					Type:       models.BottleneckLatency,
					Severity:   utils.Round(share*dest.Utilization, 4),
					Detail: fmt.Sprintf("carries %.0f%% of the traffic into saturated node %s",
						share*100, em.To),
				},
			})
		}
	}

	// Cold and ineffective caches. Worst pattern per node.
	worstCache := make(map[string]models.CacheAnalysis)
	for _, ca := range caches {
		if ca.RequestRPS <= 0 {
			continue
		}
		if ca.Effectiveness != models.CacheCold && ca.Effectiveness != models.CacheIneffective {
			continue
		}
		if prev, ok := worstCache[ca.NodeID]; !ok || ca.HitRate < prev.HitRate {
			worstCache[ca.NodeID] = ca
		}
	}
	for _, n := range idx.Nodes {
		ca, ok := worstCache[n.ID]
		if !ok {
			continue
		}
		id := n.ID
		cands = append(cands, candidate{
			order: idx.Order(id),
			info: models.BottleneckInfo{
				TargetID:   id,
				TargetType: models.TargetNode,
				Type:       models.BottleneckCacheMiss,
				Severity:   utils.Round(1-ca.HitRate, 4),
				Detail: fmt.Sprintf("key %q hit rate %.1f%%; %.0f rps reach the backing store",
					ca.Key, ca.HitRate*100, ca.EffectiveBackingRPS),
			},
		})
	}

	// Tables whose worst query is an expensive full scan.
	for _, rep := range reports {
		if len(rep.Queries) == 0 {
			continue
		}
		top := rep.Queries[0]
		if top.ScanType != models.ScanTypeFull || top.EstimatedCost < fullScanCostFloor {
			continue
		}
		severity := utils.ClampFloat64(top.EstimatedCost/10_000, 0, 1)
		cands = append(cands, candidate{
			order: idx.Order(rep.NodeID),
			info: models.BottleneckInfo{
				TargetID:   rep.NodeID,
				TargetType: models.TargetNode,
				Type:       models.BottleneckQueryCost,
				Severity:   utils.Round(severity, 4),
				Detail: fmt.Sprintf("full scan on table %s, estimated cost %.0f",
					rep.Table, top.EstimatedCost),
			},
		})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].info.Severity != cands[j].info.Severity {
			return cands[i].info.Severity > cands[j].info.Severity
		}
		return cands[i].order < cands[j].order
	})

	out := make([]models.BottleneckInfo, len(cands))
	for i, c := range cands {
		out[i] = c.info
	}
	return out
}
