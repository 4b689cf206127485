// Package behavior maps each node kind to its static latency and
// resource model. The table is process-wide constant data: it is built
// once and never mutated, so lookups are safe from any goroutine.
package behavior

import (
	"errors"
	"fmt"

	"github.com/sdcanvas/simulation-core/pkg/models"
)

// ErrUnknownNodeKind is returned when a graph contains a kind absent
// from the registry. This indicates a loader bug, not user input.
var ErrUnknownNodeKind = errors.New("unknown node kind")

// NodeBehaviorModel is the static performance profile of a node kind.
type NodeBehaviorModel struct {
	// BaseLatencyMs is the latency of one request at zero load.
	BaseLatencyMs float64

	// DefaultCores and PerCoreThroughputRPS define per-instance capacity
	// when the node declares no resources of its own.
	DefaultCores         int
	PerCoreThroughputRPS float64
	DefaultMemoryMB      float64
	DefaultNetworkMbps   float64

	// ScalingDefaults applies when the node declares no scaling policy.
	ScalingDefaults models.ScalingPolicy
}

var nodeBehaviorModels = map[models.NodeKind]NodeBehaviorModel{
	models.NodeKindUser: {
		BaseLatencyMs:        0,
		DefaultCores:         1,
		PerCoreThroughputRPS: 1_000_000, // traffic sources never saturate
		ScalingDefaults:      models.ScalingPolicy{MinInstances: 1, MaxInstances: 1, TargetUtilization: 1.0},
	},
	models.NodeKindLoadBalancer: {
		BaseLatencyMs:        2,
		DefaultCores:         4,
		PerCoreThroughputRPS: 5000,
		DefaultMemoryMB:      4096,
		DefaultNetworkMbps:   10000,
		ScalingDefaults:      models.ScalingPolicy{MinInstances: 1, MaxInstances: 4, TargetUtilization: 0.7},
	},
	models.NodeKindCDN: {
		BaseLatencyMs:        5,
		DefaultCores:         8,
		PerCoreThroughputRPS: 10000,
		DefaultMemoryMB:      16384,
		DefaultNetworkMbps:   40000,
		ScalingDefaults:      models.ScalingPolicy{MinInstances: 1, MaxInstances: 16, TargetUtilization: 0.8},
	},
	models.NodeKindAPIServer: {
		BaseLatencyMs:        10,
		DefaultCores:         4,
		PerCoreThroughputRPS: 250,
		DefaultMemoryMB:      8192,
		DefaultNetworkMbps:   1000,
		ScalingDefaults:      models.ScalingPolicy{MinInstances: 1, MaxInstances: 10, TargetUtilization: 0.7},
	},
	models.NodeKindDatabase: {
		BaseLatencyMs:        15,
		DefaultCores:         8,
		PerCoreThroughputRPS: 125,
		DefaultMemoryMB:      32768,
		DefaultNetworkMbps:   1000,
		ScalingDefaults:      models.ScalingPolicy{MinInstances: 1, MaxInstances: 3, TargetUtilization: 0.6},
	},
	models.NodeKindObjectStore: {
		BaseLatencyMs:        20,
		DefaultCores:         8,
		PerCoreThroughputRPS: 500,
		DefaultMemoryMB:      16384,
		DefaultNetworkMbps:   10000,
		ScalingDefaults:      models.ScalingPolicy{MinInstances: 1, MaxInstances: 8, TargetUtilization: 0.8},
	},
	models.NodeKindCache: {
		BaseLatencyMs:        1,
		DefaultCores:         4,
		PerCoreThroughputRPS: 25000,
		DefaultMemoryMB:      8192,
		DefaultNetworkMbps:   10000,
		ScalingDefaults:      models.ScalingPolicy{MinInstances: 1, MaxInstances: 6, TargetUtilization: 0.8},
	},
	models.NodeKindMessageQueue: {
		BaseLatencyMs:        3,
		DefaultCores:         4,
		PerCoreThroughputRPS: 12500,
		DefaultMemoryMB:      8192,
		DefaultNetworkMbps:   10000,
		ScalingDefaults:      models.ScalingPolicy{MinInstances: 1, MaxInstances: 5, TargetUtilization: 0.75},
	},
	models.NodeKindAnnotation: {
		// Annotations carry no traffic; the model exists so lookups on a
		// structurally valid graph never fail.
		BaseLatencyMs:        0,
		DefaultCores:         1,
		PerCoreThroughputRPS: 1_000_000,
		ScalingDefaults:      models.ScalingPolicy{MinInstances: 1, MaxInstances: 1, TargetUtilization: 1.0},
	},
}

// GetNodeBehavior returns the behavior model for a node kind. It is a
// pure lookup with no side effects.
func GetNodeBehavior(kind models.NodeKind) (NodeBehaviorModel, error) {
	model, ok := nodeBehaviorModels[kind]
	if !ok {
		return NodeBehaviorModel{}, fmt.Errorf("%w: %q", ErrUnknownNodeKind, kind)
	}
	return model, nil
}

// PerInstanceCapacityRPS derives a node's per-instance throughput
// ceiling, preferring declared resources over the kind defaults.
func PerInstanceCapacityRPS(model NodeBehaviorModel, res *models.NodeResources) float64 {
	cores := model.DefaultCores
	perCore := model.PerCoreThroughputRPS
	if res != nil {
		if res.CPUCores > 0 {
			cores = res.CPUCores
		}
		if res.CoreThroughputRPS > 0 {
			perCore = res.CoreThroughputRPS
		}
	}
	if cores <= 0 {
		cores = 1
	}
	return float64(cores) * perCore
}

// ScalingFor returns the node's scaling policy, falling back to the
// kind defaults for unset fields.
func ScalingFor(model NodeBehaviorModel, sp *models.ScalingPolicy) models.ScalingPolicy {
	out := model.ScalingDefaults
	if sp == nil {
		return out
	}
	if sp.MinInstances > 0 {
		out.MinInstances = sp.MinInstances
	}
	if sp.MaxInstances > 0 {
		out.MaxInstances = sp.MaxInstances
	}
	if sp.TargetUtilization > 0 {
		out.TargetUtilization = sp.TargetUtilization
	}
	if out.MaxInstances < out.MinInstances {
		out.MaxInstances = out.MinInstances
	}
	return out
}
