package utils

import "testing"

func TestClamp(t *testing.T) {
	tests := []struct {
		value, min, max, want int
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{0, 0, 0, 0},
	}
	for _, tt := range tests {
		if got := Clamp(tt.value, tt.min, tt.max); got != tt.want {
			t.Errorf("Clamp(%d, %d, %d) = %d, want %d", tt.value, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestClampFloat64(t *testing.T) {
	if got := ClampFloat64(1.5, 0, 1); got != 1 {
		t.Errorf("expected 1, got %f", got)
	}
	if got := ClampFloat64(-0.5, 0, 1); got != 0 {
		t.Errorf("expected 0, got %f", got)
	}
	if got := ClampFloat64(0.5, 0, 1); got != 0.5 {
		t.Errorf("expected 0.5, got %f", got)
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		value    float64
		decimals int
		want     float64
	}{
		{3.14159, 2, 3.14},
		{3.14159, 4, 3.1416},
		{2.5, 0, 3},
		{-1.005, 2, -1.0},
		{0, 4, 0},
	}
	for _, tt := range tests {
		if got := Round(tt.value, tt.decimals); got != tt.want {
			t.Errorf("Round(%f, %d) = %f, want %f", tt.value, tt.decimals, got, tt.want)
		}
	}
}
