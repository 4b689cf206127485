package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseSimulationYAML(t *testing.T) {
	yamlText := `
entry_points:
  - node: users
    rate_rps: 1500
  - node: partners
    rate_rps: 200
ticks: 30
jitter:
  type: uniform
  amplitude: 0.2
  seed: 7
`
	cfg, err := ParseSimulationYAMLString(yamlText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.EntryPoints) != 2 {
		t.Fatalf("expected 2 entry points, got %d", len(cfg.EntryPoints))
	}
	if cfg.EntryPoints[0].Node != "users" || cfg.EntryPoints[0].RateRPS != 1500 {
		t.Fatalf("unexpected first entry point: %+v", cfg.EntryPoints[0])
	}
	if cfg.TickCount() != 30 {
		t.Fatalf("expected 30 ticks, got %d", cfg.TickCount())
	}
	j := cfg.JitterOrNone()
	if j.Type != JitterUniform || j.Amplitude != 0.2 || j.Seed != 7 {
		t.Fatalf("unexpected jitter: %+v", j)
	}
}

func TestParseSimulationYAMLDefaults(t *testing.T) {
	cfg, err := ParseSimulationYAMLString("entry_points:\n  - node: users\n    rate_rps: 10\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TickCount() != DefaultTicks {
		t.Fatalf("expected default ticks %d, got %d", DefaultTicks, cfg.TickCount())
	}
	j := cfg.JitterOrNone()
	if j.Type != JitterNone {
		t.Fatalf("expected flat jitter default, got %+v", j)
	}
}

func TestJitterSeedDefaulted(t *testing.T) {
	cfg := &SimulationConfig{
		Jitter: &Jitter{Type: JitterUniform, Amplitude: 0.1},
	}
	if got := cfg.JitterOrNone().Seed; got != DefaultJitterSeed {
		t.Fatalf("expected default seed %d, got %d", DefaultJitterSeed, got)
	}
}

func TestParseSimulationYAMLInvalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "no entry points",
			yaml:    "ticks: 10",
			wantErr: "at least one entry point",
		},
		{
			name:    "empty node",
			yaml:    "entry_points:\n  - rate_rps: 10\n",
			wantErr: "node cannot be empty",
		},
		{
			name:    "duplicate node",
			yaml:    "entry_points:\n  - node: users\n    rate_rps: 10\n  - node: users\n    rate_rps: 20\n",
			wantErr: "duplicate entry point",
		},
		{
			name:    "negative rate",
			yaml:    "entry_points:\n  - node: users\n    rate_rps: -5\n",
			wantErr: "rate_rps cannot be negative",
		},
		{
			name:    "negative ticks",
			yaml:    "entry_points:\n  - node: users\n    rate_rps: 10\nticks: -1\n",
			wantErr: "ticks cannot be negative",
		},
		{
			name:    "bad jitter type",
			yaml:    "entry_points:\n  - node: users\n    rate_rps: 10\njitter:\n  type: gaussian\n",
			wantErr: "invalid jitter type",
		},
		{
			name:    "amplitude out of range",
			yaml:    "entry_points:\n  - node: users\n    rate_rps: 10\njitter:\n  type: wave\n  amplitude: 1.5\n",
			wantErr: "amplitude",
		},
		{
			name:    "malformed yaml",
			yaml:    "entry_points: [",
			wantErr: "failed to parse",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSimulationYAMLString(tt.yaml)
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadSimulationConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sim.yaml")
	content := "entry_points:\n  - node: users\n    rate_rps: 250\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadSimulationConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.EntryPoints) != 1 || cfg.EntryPoints[0].RateRPS != 250 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadSimulationConfigMissingFile(t *testing.T) {
	if _, err := LoadSimulationConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
