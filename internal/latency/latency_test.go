package latency

import (
	"math"
	"testing"

	"github.com/sdcanvas/simulation-core/internal/behavior"
	"github.com/sdcanvas/simulation-core/pkg/models"
)

func TestMeanLatencyGrowsWithUtilization(t *testing.T) {
	base := 10.0
	prev := 0.0
	for _, u := range []float64{0, 0.25, 0.5, 0.75, 0.9, 0.95} {
		got := MeanLatency(base, u)
		if got < base {
			t.Fatalf("mean latency %f below base %f at utilization %f", got, base, u)
		}
		if got <= prev && u > 0 {
			t.Fatalf("mean latency not increasing at utilization %f", u)
		}
		prev = got
	}
}

func TestMeanLatencyClampsOverload(t *testing.T) {
	base := 10.0
	at1 := MeanLatency(base, 1.0)
	at2 := MeanLatency(base, 2.0)
	if math.IsInf(at1, 0) || at1 <= 0 {
		t.Fatalf("expected finite positive latency at utilization 1, got %f", at1)
	}
	if at1 != at2 {
		t.Fatalf("expected clamped latency beyond saturation, got %f and %f", at1, at2)
	}
}

func TestMeanLatencyZeroBase(t *testing.T) {
	if got := MeanLatency(0, 0.5); got != 0 {
		t.Fatalf("expected 0 for zero base latency, got %f", got)
	}
}

func TestP99AtLeastMean(t *testing.T) {
	for _, u := range []float64{0, 0.3, 0.7, 0.99, 1.5} {
		mean := MeanLatency(10, u)
		p99 := P99Latency(mean, u)
		if p99 < mean {
			t.Fatalf("p99 %f below mean %f at utilization %f", p99, mean, u)
		}
	}
}

func TestInstanceCount(t *testing.T) {
	scaling := models.ScalingPolicy{MinInstances: 1, MaxInstances: 10, TargetUtilization: 0.7}

	tests := []struct {
		name     string
		capacity float64
		rate     float64
		want     int
	}{
		{"no load", 1000, 0, 1},
		{"under one instance", 1000, 500, 1},
		{"exactly at target", 1000, 700, 1},
		{"just over target", 1000, 701, 2},
		{"needs several", 1000, 3500, 5},
		{"clamped to max", 1000, 100000, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InstanceCount(tt.capacity, scaling, tt.rate); got != tt.want {
				t.Fatalf("expected %d instances, got %d", tt.want, got)
			}
		})
	}
}

func TestInstanceCountRespectsMin(t *testing.T) {
	scaling := models.ScalingPolicy{MinInstances: 3, MaxInstances: 5, TargetUtilization: 0.7}
	if got := InstanceCount(1000, scaling, 10); got != 3 {
		t.Fatalf("expected min instances 3, got %d", got)
	}
}

func TestNodeUtilization(t *testing.T) {
	if got := NodeUtilization(1000, 2, 1000); got != 0.5 {
		t.Fatalf("expected utilization 0.5, got %f", got)
	}
	if got := NodeUtilization(0, 1, 1000); got != 0 {
		t.Fatalf("expected 0 for zero capacity, got %f", got)
	}
}

func TestEdgeTransportLatencyFallback(t *testing.T) {
	if got := EdgeTransportLatencyMs(models.EdgeKindCacheLookup); got != 0.2 {
		t.Fatalf("expected 0.2ms for cache lookup, got %f", got)
	}
	if got, want := EdgeTransportLatencyMs("bogus"), EdgeTransportLatencyMs(models.EdgeKindHTTP); got != want {
		t.Fatalf("expected fallback to http latency %f, got %f", want, got)
	}
}

func TestComputeNodeStatsSaturation(t *testing.T) {
	node := &models.SystemNode{
		ID:   "api",
		Kind: models.NodeKindAPIServer,
		Resources: &models.NodeResources{
			CPUCores:          1,
			CoreThroughputRPS: 100,
		},
		Scaling: &models.ScalingPolicy{MinInstances: 1, MaxInstances: 1, TargetUtilization: 0.7},
	}
	model, err := behavior.GetNodeBehavior(node.Kind)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats := ComputeNodeStats(node, model, 150)
	if !stats.Saturated {
		t.Fatalf("expected saturation at 150 rps on 100 rps capacity")
	}
	if stats.Instances != 1 {
		t.Fatalf("expected instance count clamped to 1, got %d", stats.Instances)
	}
	if stats.P99LatencyMs < stats.MeanLatencyMs {
		t.Fatalf("p99 %f below mean %f", stats.P99LatencyMs, stats.MeanLatencyMs)
	}

	relaxed := ComputeNodeStats(node, model, 10)
	if relaxed.Saturated {
		t.Fatalf("did not expect saturation at 10 rps")
	}
	if relaxed.MeanLatencyMs >= stats.MeanLatencyMs {
		t.Fatalf("expected lower latency at lower load")
	}
}
