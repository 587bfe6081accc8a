package config

// Presets are ready-made parameter sets worth watching.
var Presets = map[string]*Config{
	"cells": {
		Particles: 800, Colors: 4, Dt: 0.02, Beta: 0.3, Friction: 0.9,
		Seed: 42, Policy: "identity", Placement: "uniform",
		Ticks: 2000, SampleEvery: 20,
	},
	"soup": {
		Particles: 1200, Colors: 6, Dt: 0.02, Beta: 0.2, Friction: 0.85,
		Seed: 7, Policy: "random", Placement: "uniform",
		Ticks: 4000, SampleEvery: 40,
	},
	"drift": {
		Particles: 600, Colors: 3, Dt: 0.01, Beta: 0.25, Friction: 0.99,
		Seed: 11, Policy: "random", Placement: "noise",
		Ticks: 6000, SampleEvery: 60,
	},
	"crystal": {
		Particles: 500, Colors: 2, Dt: 0.02, Beta: 0.6, Friction: 0.8,
		Seed: 3, Policy: "identity", Placement: "uniform",
		Ticks: 2000, SampleEvery: 20,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	out := *cfg
	return &out
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
