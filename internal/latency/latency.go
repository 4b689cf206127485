// Package latency composes per-node and per-edge latency: base latency
// from the behavior model inflated by a queueing-style load factor,
// a multiplicative tail estimate, and instance-count scaling.
package latency

import (
	"math"

	"github.com/sdcanvas/simulation-core/internal/behavior"
	"github.com/sdcanvas/simulation-core/pkg/models"
	"github.com/sdcanvas/simulation-core/pkg/utils"
)

const (
	// maxModelUtilization caps the utilization fed into the load-factor
	// formula so saturated nodes report large but finite latency.
	maxModelUtilization = 0.98

	// tailInflation scales how fast P99 diverges from the mean as
	// utilization grows.
	tailInflation = 3.0

	// SaturationUtilization marks a node saturated.
	SaturationUtilization = 1.0
)

// transportLatencyMs is the fixed per-hop latency of each connection
// kind, independent of load.
var transportLatencyMs = map[models.EdgeKind]float64{
	models.EdgeKindHTTP:         1.0,
	models.EdgeKindDBQuery:      0.5,
	models.EdgeKindCacheLookup:  0.2,
	models.EdgeKindQueuePublish: 0.5,
	models.EdgeKindQueueConsume: 0.5,
	models.EdgeKindCDNFetch:     2.0,
	models.EdgeKindStorageRead:  1.0,
}

// MeanLatency returns a node's mean latency at the given utilization.
// The M/M/1-shaped load factor 1/(1-u) models queueing delay; the
// utilization is clamped below 1 so the result stays finite and
// positive even for overloaded nodes.
func MeanLatency(baseLatencyMs, utilization float64) float64 {
	if baseLatencyMs <= 0 {
		return 0
	}
	u := utils.ClampFloat64(utilization, 0, maxModelUtilization)
	return baseLatencyMs / (1 - u)
}

// P99Latency applies a multiplicative tail factor growing with
// utilization. The result is always >= the mean.
func P99Latency(meanLatencyMs, utilization float64) float64 {
	u := utils.ClampFloat64(utilization, 0, maxModelUtilization)
	return meanLatencyMs * (1 + tailInflation*u)
}

// InstanceCount computes the minimum instance count keeping per-instance
// load at or below the target utilization, clamped to the scaling
// policy's [min, max] range.
func InstanceCount(perInstanceCapacityRPS float64, scaling models.ScalingPolicy, incomingRPS float64) int {
	minInst := scaling.MinInstances
	if minInst < 1 {
		minInst = 1
	}
	maxInst := scaling.MaxInstances
	if maxInst < minInst {
		maxInst = minInst
	}

	if perInstanceCapacityRPS <= 0 || incomingRPS <= 0 {
		return minInst
	}

	target := scaling.TargetUtilization
	if target <= 0 || target > 1 {
		target = 1
	}

	needed := int(math.Ceil(incomingRPS / (perInstanceCapacityRPS * target)))
	return utils.Clamp(needed, minInst, maxInst)
}

// NodeUtilization is the per-instance utilization after scaling:
// incoming rate divided by the capacity of the chosen instance count.
func NodeUtilization(perInstanceCapacityRPS float64, instances int, incomingRPS float64) float64 {
	if perInstanceCapacityRPS <= 0 || instances <= 0 {
		return 0
	}
	return incomingRPS / (perInstanceCapacityRPS * float64(instances))
}

// EdgeTransportLatencyMs returns the fixed transport latency for a
// connection kind. Unknown kinds fall back to the HTTP figure.
func EdgeTransportLatencyMs(kind models.EdgeKind) float64 {
	if ms, ok := transportLatencyMs[kind]; ok {
		return ms
	}
	return transportLatencyMs[models.EdgeKindHTTP]
}

// NodeStats bundles the derived load figures for one node at one rate.
type NodeStats struct {
	Instances     int
	Utilization   float64
	MeanLatencyMs float64
	P99LatencyMs  float64
	Saturated     bool
}

// ComputeNodeStats derives instances, utilization, and latencies for a
// node at the given incoming rate using its behavior model.
func ComputeNodeStats(node *models.SystemNode, model behavior.NodeBehaviorModel, incomingRPS float64) NodeStats {
	capacity := behavior.PerInstanceCapacityRPS(model, node.Resources)
	scaling := behavior.ScalingFor(model, node.Scaling)

	instances := InstanceCount(capacity, scaling, incomingRPS)
	util := NodeUtilization(capacity, instances, incomingRPS)

	mean := MeanLatency(model.BaseLatencyMs, util)
	return NodeStats{
		Instances:     instances,
		Utilization:   util,
		MeanLatencyMs: mean,
		P99LatencyMs:  P99Latency(mean, util),
		Saturated:     util >= SaturationUtilization,
	}
}
