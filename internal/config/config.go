package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/okaryn/plife/internal/plife"
	"gopkg.in/yaml.v3"
)

const (
	DefaultParticles   = 800
	DefaultColors      = 4
	DefaultDt          = 0.02
	DefaultBeta        = 0.3
	DefaultFriction    = 0.9
	DefaultTicks       = 2000
	DefaultSampleEvery = 20
)

// Config is the file representation of a run. YAML is the primary
// format; TOML is accepted by extension.
type Config struct {
	Particles   int     `yaml:"particles" toml:"particles"`
	Colors      int     `yaml:"colors" toml:"colors"`
	Dt          float64 `yaml:"dt" toml:"dt"`
	Beta        float64 `yaml:"beta" toml:"beta"`
	Friction    float64 `yaml:"friction" toml:"friction"`
	Seed        int64   `yaml:"seed" toml:"seed"`
	Policy      string  `yaml:"policy" toml:"policy"`
	Placement   string  `yaml:"placement" toml:"placement"`
	Ticks       int     `yaml:"ticks" toml:"ticks"`
	SampleEvery int     `yaml:"sample_every" toml:"sample_every"`
}

func DefaultConfig() *Config {
	return &Config{
		Particles:   DefaultParticles,
		Colors:      DefaultColors,
		Dt:          DefaultDt,
		Beta:        DefaultBeta,
		Friction:    DefaultFriction,
		Seed:        42,
		Policy:      "identity",
		Placement:   "uniform",
		Ticks:       DefaultTicks,
		SampleEvery: DefaultSampleEvery,
	}
}

// Load reads a config file, filling unset fields with defaults. The
// format is chosen by extension: .toml is TOML, everything else YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Save writes the config as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params converts the file representation to simulation parameters.
func (c *Config) Params() plife.Params {
	return plife.Params{
		Particles: c.Particles,
		Colors:    c.Colors,
		Dt:        c.Dt,
		Beta:      c.Beta,
		Friction:  c.Friction,
		Seed:      c.Seed,
	}
}
