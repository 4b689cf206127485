package config

// SimulationConfig holds the run-wide parameters for one simulation.
// It is immutable for the duration of a run.
type SimulationConfig struct {
	EntryPoints []EntryPoint `yaml:"entry_points" json:"entry_points"`
	Ticks       int          `yaml:"ticks,omitempty" json:"ticks,omitempty"`
	Jitter      *Jitter      `yaml:"jitter,omitempty" json:"jitter,omitempty"`
}

// EntryPoint declares a traffic source: a node identifier and the base
// request rate injected there.
type EntryPoint struct {
	Node    string  `yaml:"node" json:"node"`
	RateRPS float64 `yaml:"rate_rps" json:"rate_rps"`
}

// Jitter configures how entry rates vary across timeline ticks.
// Type "none" keeps rates flat; "uniform" draws a factor in
// [1-amplitude, 1+amplitude) per tick; "wave" follows a sinusoid with
// the given amplitude. Seed makes uniform jitter reproducible; zero is
// replaced by the default seed so identical configs give identical runs.
type Jitter struct {
	Type      string  `yaml:"type" json:"type"`
	Amplitude float64 `yaml:"amplitude,omitempty" json:"amplitude,omitempty"`
	Seed      int64   `yaml:"seed,omitempty" json:"seed,omitempty"`
}

const (
	JitterNone    = "none"
	JitterUniform = "uniform"
	JitterWave    = "wave"

	// DefaultTicks is the timeline length when the config leaves it unset.
	DefaultTicks = 60

	// DefaultJitterSeed keeps unseeded runs deterministic.
	DefaultJitterSeed = 1
)

// TickCount returns the configured timeline length, defaulted.
func (c *SimulationConfig) TickCount() int {
	if c.Ticks <= 0 {
		return DefaultTicks
	}
	return c.Ticks
}

// JitterOrNone returns the jitter config, defaulting to a flat profile.
func (c *SimulationConfig) JitterOrNone() Jitter {
	if c.Jitter == nil {
		return Jitter{Type: JitterNone}
	}
	j := *c.Jitter
	if j.Type == "" {
		j.Type = JitterNone
	}
	if j.Seed == 0 {
		j.Seed = DefaultJitterSeed
	}
	return j
}
