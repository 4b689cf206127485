package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseSimulationYAML parses a SimulationConfig from YAML bytes and
// validates it. Used for APIs where the config arrives as payload
// rather than via the filesystem.
func ParseSimulationYAML(data []byte) (*SimulationConfig, error) {
	var cfg SimulationConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse simulation config yaml: %w", err)
	}

	if err := validateSimulationConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}

	return &cfg, nil
}

// ParseSimulationYAMLString parses a SimulationConfig from a YAML string.
func ParseSimulationYAMLString(yamlText string) (*SimulationConfig, error) {
	return ParseSimulationYAML([]byte(yamlText))
}
