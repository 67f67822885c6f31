// Package config loads and validates a run's YAML configuration:
// resolution mode, delay-oracle selection, input/output paths and
// per-category train kinematics.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/e11824496/pytrainsim/simerr"
)

// CategoryKinematics is one train category's acceleration, deceleration
// and relative max-speed factor (§6, MB only).
type CategoryKinematics struct {
	Accel       float64 `yaml:"accel"`
	Decel       float64 `yaml:"decel"`
	RelMaxSpeed float64 `yaml:"rel_max_speed"`
}

// DelayConfig selects and parameterises a delay.Oracle.
type DelayConfig struct {
	// Type is one of "zero", "constant", "normal", "pareto", "table",
	// "ensemble".
	Type string `yaml:"type"`

	ConstantSeconds float64 `yaml:"constant_seconds,omitempty"`

	MeanSeconds   float64 `yaml:"mean_seconds,omitempty"`
	StdDevSeconds float64 `yaml:"stddev_seconds,omitempty"`

	Shape        float64 `yaml:"shape,omitempty"`
	ScaleSeconds float64 `yaml:"scale_seconds,omitempty"`

	Seed int64 `yaml:"seed,omitempty"`

	TableSecondsByTaskID map[string]float64 `yaml:"table,omitempty"`

	ByCategory map[string]DelayConfig `yaml:"by_category,omitempty"`
	Default    *DelayConfig           `yaml:"default,omitempty"`
}

// Config is a complete run description.
type Config struct {
	Resolution string `yaml:"resolution"` // fb | mb | lb

	NetworkPath  string `yaml:"network_path"`
	SchedulePath string `yaml:"schedule_path"`
	OutputDir    string `yaml:"output_dir"`

	RecordReservations bool `yaml:"record_reservations"`
	MaxHops            int  `yaml:"max_hops"`

	Categories map[string]CategoryKinematics `yaml:"categories"`
	Delay      DelayConfig                   `yaml:"delay"`
}

// Load reads and validates a Config from a YAML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the structural invariants a config must satisfy
// before a run starts (§9): resolution known, every category's
// kinematics physically sane, output directory set.
func (c *Config) Validate() error {
	switch c.Resolution {
	case "fb", "mb", "lb":
	default:
		return simerr.NewTopology("unknown resolution %q (want fb, mb or lb)", c.Resolution)
	}
	if c.NetworkPath == "" {
		return simerr.NewTopology("network_path is required")
	}
	if c.SchedulePath == "" {
		return simerr.NewTopology("schedule_path is required")
	}
	if c.OutputDir == "" {
		return simerr.NewTopology("output_dir is required")
	}
	for name, k := range c.Categories {
		if k.Accel <= 0 {
			return simerr.NewTopology("category %q: accel must be > 0, got %v", name, k.Accel)
		}
		if k.Decel >= 0 {
			return simerr.NewTopology("category %q: decel must be < 0, got %v", name, k.Decel)
		}
		if k.RelMaxSpeed <= 0 || k.RelMaxSpeed > 1 {
			return simerr.NewTopology("category %q: rel_max_speed must be in (0,1], got %v", name, k.RelMaxSpeed)
		}
	}
	return nil
}
