package behavior

import (
	"errors"
	"testing"

	"github.com/sdcanvas/simulation-core/pkg/models"
)

func TestGetNodeBehaviorKnownKinds(t *testing.T) {
	kinds := []models.NodeKind{
		models.NodeKindUser,
		models.NodeKindLoadBalancer,
		models.NodeKindCDN,
		models.NodeKindAPIServer,
		models.NodeKindDatabase,
		models.NodeKindObjectStore,
		models.NodeKindCache,
		models.NodeKindMessageQueue,
		models.NodeKindAnnotation,
	}
	for _, kind := range kinds {
		model, err := GetNodeBehavior(kind)
		if err != nil {
			t.Fatalf("unexpected error for kind %s: %v", kind, err)
		}
		if model.PerCoreThroughputRPS <= 0 {
			t.Fatalf("kind %s has no throughput", kind)
		}
		if model.ScalingDefaults.MinInstances < 1 {
			t.Fatalf("kind %s has invalid scaling defaults", kind)
		}
	}
}

func TestGetNodeBehaviorUnknownKind(t *testing.T) {
	_, err := GetNodeBehavior("mainframe")
	if err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	if !errors.Is(err, ErrUnknownNodeKind) {
		t.Fatalf("expected ErrUnknownNodeKind, got %v", err)
	}
}

func TestGetNodeBehaviorIsStable(t *testing.T) {
	a, _ := GetNodeBehavior(models.NodeKindDatabase)
	b, _ := GetNodeBehavior(models.NodeKindDatabase)
	if a != b {
		t.Fatalf("repeated lookups returned different models")
	}
}

func TestPerInstanceCapacity(t *testing.T) {
	model, _ := GetNodeBehavior(models.NodeKindAPIServer)

	if got, want := PerInstanceCapacityRPS(model, nil), float64(model.DefaultCores)*model.PerCoreThroughputRPS; got != want {
		t.Fatalf("expected default capacity %f, got %f", want, got)
	}

	res := &models.NodeResources{CPUCores: 2, CoreThroughputRPS: 50}
	if got := PerInstanceCapacityRPS(model, res); got != 100 {
		t.Fatalf("expected declared capacity 100, got %f", got)
	}

	partial := &models.NodeResources{CPUCores: 2}
	if got := PerInstanceCapacityRPS(model, partial); got != 2*model.PerCoreThroughputRPS {
		t.Fatalf("expected mixed capacity, got %f", got)
	}
}

func TestScalingFor(t *testing.T) {
	model, _ := GetNodeBehavior(models.NodeKindAPIServer)

	defaults := ScalingFor(model, nil)
	if defaults != model.ScalingDefaults {
		t.Fatalf("expected kind defaults, got %+v", defaults)
	}

	override := ScalingFor(model, &models.ScalingPolicy{MinInstances: 2, MaxInstances: 20, TargetUtilization: 0.5})
	if override.MinInstances != 2 || override.MaxInstances != 20 || override.TargetUtilization != 0.5 {
		t.Fatalf("expected overrides applied, got %+v", override)
	}

	// A max below min is lifted to min.
	clamped := ScalingFor(model, &models.ScalingPolicy{MinInstances: 5, MaxInstances: 2})
	if clamped.MaxInstances != 5 {
		t.Fatalf("expected max lifted to min, got %+v", clamped)
	}
}
