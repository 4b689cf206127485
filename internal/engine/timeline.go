package engine

import (
	"math"

	"github.com/sdcanvas/simulation-core/internal/behavior"
	"github.com/sdcanvas/simulation-core/internal/graph"
	"github.com/sdcanvas/simulation-core/internal/latency"
	"github.com/sdcanvas/simulation-core/internal/propagation"
	"github.com/sdcanvas/simulation-core/pkg/config"
	"github.com/sdcanvas/simulation-core/pkg/models"
	"github.com/sdcanvas/simulation-core/pkg/utils"
)

// buildTimeline produces one snapshot per simulated tick. Rates scale
// linearly with the global load factor, so each tick rescales the
// steady-state rates and recomputes utilization and latency from them.
// The jitter source is explicitly seeded, keeping identical configs
// bit-identical across runs.
func buildTimeline(idx *graph.Index, prop *propagation.Result, cfg *config.SimulationConfig) []models.TimelineSnapshot {
	ticks := cfg.TickCount()
	jitter := cfg.JitterOrNone()

	var rng *utils.RandSource
	if jitter.Type == config.JitterUniform {
		rng = utils.NewRandSource(jitter.Seed)
	}

	timeline := make([]models.TimelineSnapshot, 0, ticks)
	for tick := 0; tick < ticks; tick++ {
		factor := 1.0
		switch jitter.Type {
		case config.JitterUniform:
			factor = rng.UniformFloat64(1-jitter.Amplitude, 1+jitter.Amplitude)
		case config.JitterWave:
			factor = 1 + jitter.Amplitude*math.Sin(2*math.Pi*float64(tick)/float64(ticks))
		}

		snapshot := models.TimelineSnapshot{
			Tick:       tick,
			LoadFactor: utils.Round(factor, 4),
			Nodes:      make([]models.NodeTickMetrics, 0, len(idx.Nodes)),
		}

		for _, n := range idx.Nodes {
			model, err := behavior.GetNodeBehavior(n.Kind)
			if err != nil {
				continue // unreachable on an indexed graph
			}
			rate := prop.NodeRates[n.ID] * factor
			stats := latency.ComputeNodeStats(n, model, rate)
			snapshot.Nodes = append(snapshot.Nodes, models.NodeTickMetrics{
				NodeID:        n.ID,
				RPS:           utils.Round(rate, 4),
				Utilization:   utils.Round(stats.Utilization, 4),
				MeanLatencyMs: utils.Round(stats.MeanLatencyMs, 4),
			})
		}

		timeline = append(timeline, snapshot)
	}

	return timeline
}
