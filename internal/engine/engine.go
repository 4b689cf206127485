// Package engine orchestrates one simulation run: graph indexing,
// traffic propagation, latency composition, cache and query analysis,
// bottleneck detection, and timeline assembly. A run is one synchronous
// computation over read-only input; the engine holds no state between
// runs, so identical inputs produce identical results.
package engine

import (
	"log/slog"

	"github.com/sdcanvas/simulation-core/internal/behavior"
	"github.com/sdcanvas/simulation-core/internal/bottleneck"
	"github.com/sdcanvas/simulation-core/internal/cache"
	"github.com/sdcanvas/simulation-core/internal/graph"
	"github.com/sdcanvas/simulation-core/internal/latency"
	"github.com/sdcanvas/simulation-core/internal/propagation"
	"github.com/sdcanvas/simulation-core/internal/query"
	"github.com/sdcanvas/simulation-core/pkg/config"
	"github.com/sdcanvas/simulation-core/pkg/logger"
	"github.com/sdcanvas/simulation-core/pkg/models"
	"github.com/sdcanvas/simulation-core/pkg/utils"
)

// Engine runs simulations. It is safe to share across goroutines: Run
// only reads its inputs and allocates fresh outputs.
type Engine struct {
	logger *slog.Logger
}

// New creates a simulation engine.
func New() *Engine {
	return &Engine{logger: logger.Default}
}

// SetLogger sets the engine's logger.
func (e *Engine) SetLogger(l *slog.Logger) {
	e.logger = l
}

// Run simulates the graph under the given traffic configuration and
// returns a self-contained result. Structural problems in the graph or
// config abort the run with an error; degenerate inputs are absorbed
// and reported as warnings inside the result.
func (e *Engine) Run(g *models.Graph, cfg *config.SimulationConfig) (*models.SimulationResult, error) {
	idx, err := graph.NewIndex(g)
	if err != nil {
		return nil, err
	}

	prop, err := propagation.Propagate(idx, cfg.EntryPoints)
	if err != nil {
		return nil, err
	}

	result := &models.SimulationResult{
		Warnings: prop.Warnings,
	}

	// Per-node metrics.
	nodeMean := make(map[string]float64, len(idx.Nodes))
	nodeP99 := make(map[string]float64, len(idx.Nodes))
	for _, n := range idx.Nodes {
		model, err := behavior.GetNodeBehavior(n.Kind)
		if err != nil {
			return nil, err // unreachable: index construction validated kinds
		}

		rate := prop.NodeRates[n.ID]
		stats := latency.ComputeNodeStats(n, model, rate)
		nodeMean[n.ID] = stats.MeanLatencyMs
		nodeP99[n.ID] = stats.P99LatencyMs

		result.Nodes = append(result.Nodes, models.NodeMetrics{
			NodeID:        n.ID,
			Kind:          n.Kind,
			IncomingRPS:   utils.Round(rate, 4),
			EffectiveRPS:  utils.Round(prop.ForwardRates[n.ID], 4),
			Instances:     stats.Instances,
			Utilization:   utils.Round(stats.Utilization, 4),
			MeanLatencyMs: utils.Round(stats.MeanLatencyMs, 4),
			P99LatencyMs:  utils.Round(stats.P99LatencyMs, 4),
			Saturated:     stats.Saturated,
		})
	}

	// Per-edge metrics.
	for i, edge := range idx.Edges {
		transport := latency.EdgeTransportLatencyMs(edge.Kind)
		result.Edges = append(result.Edges, models.EdgeMetrics{
			EdgeID:             edge.ID,
			From:               edge.From,
			To:                 edge.To,
			Kind:               edge.Kind,
			RPS:                utils.Round(prop.EdgeRates[i], 4),
			TransportLatencyMs: transport,
			TotalLatencyMs:     utils.Round(transport+nodeMean[edge.To], 4),
		})
	}

	// Cache analyses and degenerate cache warnings.
	for _, n := range idx.Nodes {
		if n.Kind != models.NodeKindCache {
			continue
		}
		rate := prop.NodeRates[n.ID]
		if degenerateCache(n.Cache) && rate > 0 {
			result.Warnings = append(result.Warnings, models.Warning{
				Code:     models.WarnDegenerateCache,
				TargetID: n.ID,
				Message:  "cache " + n.ID + " has no usable ttl/cardinality; treated as a pass-through (hit rate 0)",
			})
		}
		result.Caches = append(result.Caches, cache.AnalyzeNode(n, rate)...)
	}

	// Query reports per database node.
	result.QueryReports = append(result.QueryReports, e.analyzeQueries(idx)...)

	// Entry-point metrics.
	paths := newPathResolver(idx, prop, nodeMean, nodeP99)
	for _, ep := range cfg.EntryPoints {
		mean, p99 := paths.latencyFrom(ep.Node)
		result.EntryPoints = append(result.EntryPoints, models.EntryPointMetrics{
			NodeID:            ep.Node,
			RateRPS:           ep.RateRPS,
			PathMeanLatencyMs: utils.Round(mean, 4),
			PathP99LatencyMs:  utils.Round(p99, 4),
		})
	}

	result.Bottlenecks = bottleneck.Detect(idx, result.Nodes, result.Edges, result.Caches, result.QueryReports)
	result.Timeline = buildTimeline(idx, prop, cfg)

	e.logger.Debug("simulation run complete",
		"nodes", len(result.Nodes),
		"edges", len(result.Edges),
		"bottlenecks", len(result.Bottlenecks),
		"warnings", len(result.Warnings),
		"ticks", len(result.Timeline))

	return result, nil
}

// analyzeQueries groups the queries declared on a database node's
// inbound edges by table and analyzes each group against the declared
// schema. Queries against undeclared tables are analyzed with schema
// defaults.
func (e *Engine) analyzeQueries(idx *graph.Index) []models.TableQueryReport {
	var reports []models.TableQueryReport

	for _, n := range idx.Nodes {
		if n.Kind != models.NodeKindDatabase {
			continue
		}

		byTable := make(map[string][]models.QuerySpec)
		var tableOrder []string
		for _, edge := range idx.Inbound(n.ID) {
			if edge.Query == nil {
				continue
			}
			q := *edge.Query
			if q.Table == "" {
				continue
			}
			if _, seen := byTable[q.Table]; !seen {
				tableOrder = append(tableOrder, q.Table)
			}
			byTable[q.Table] = append(byTable[q.Table], q)
		}

		schemas := make(map[string]models.TableSchema)
		if n.Database != nil {
			for _, t := range n.Database.Tables {
				schemas[t.Name] = t
			}
		}

		for _, table := range tableOrder {
			schema, ok := schemas[table]
			if !ok {
				schema = models.TableSchema{Name: table}
			}
			reports = append(reports, models.TableQueryReport{
				NodeID:  n.ID,
				Table:   table,
				Queries: query.AnalyzeQueriesForTable(schema, byTable[table]),
			})
		}
	}

	return reports
}

func degenerateCache(cfg *models.CacheConfig) bool {
	if cfg == nil {
		return true
	}
	if len(cfg.Patterns) > 0 {
		for _, p := range cfg.Patterns {
			ttl := p.TTLSeconds
			if ttl <= 0 {
				ttl = cfg.TTLSeconds
			}
			if ttl > 0 && p.Cardinality > 0 {
				return false
			}
		}
		return true
	}
	return cfg.TTLSeconds <= 0 || cfg.Cardinality <= 0
}
