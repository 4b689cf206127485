package config

import (
	"fmt"
	"os"
)

// LoadSimulationConfig loads and parses a simulation config file.
func LoadSimulationConfig(path string) (*SimulationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read simulation config %s: %w", path, err)
	}
	cfg, err := ParseSimulationYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse simulation config %s: %w", path, err)
	}
	return cfg, nil
}

// validateSimulationConfig performs validation on the configuration.
func validateSimulationConfig(cfg *SimulationConfig) error {
	if len(cfg.EntryPoints) == 0 {
		return fmt.Errorf("at least one entry point must be defined")
	}

	seen := make(map[string]bool)
	for i, ep := range cfg.EntryPoints {
		if ep.Node == "" {
			return fmt.Errorf("entry point %d: node cannot be empty", i)
		}
		if seen[ep.Node] {
			return fmt.Errorf("duplicate entry point node: %s", ep.Node)
		}
		seen[ep.Node] = true
		if ep.RateRPS < 0 {
			return fmt.Errorf("entry point %s: rate_rps cannot be negative", ep.Node)
		}
	}

	if cfg.Ticks < 0 {
		return fmt.Errorf("ticks cannot be negative, got %d", cfg.Ticks)
	}

	if cfg.Jitter != nil {
		validTypes := map[string]bool{
			JitterNone:    true,
			JitterUniform: true,
			JitterWave:    true,
		}
		if cfg.Jitter.Type != "" && !validTypes[cfg.Jitter.Type] {
			return fmt.Errorf("invalid jitter type: %s (must be none, uniform, or wave)", cfg.Jitter.Type)
		}
		if cfg.Jitter.Amplitude < 0 || cfg.Jitter.Amplitude >= 1 {
			return fmt.Errorf("jitter amplitude must be in [0, 1), got %f", cfg.Jitter.Amplitude)
		}
	}

	return nil
}
