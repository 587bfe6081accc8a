package automation

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/okaryn/plife/internal/config"
	"github.com/okaryn/plife/internal/experiment"
	"github.com/okaryn/plife/internal/plife"
)

func TestLoadScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")

	data := `name: warmup
description: two quick runs
steps:
  - particles: 30
    colors: 2
    ticks: 10
    policy: identity
  - preset: crystal
    ticks: 10
    save_as: crystal-short
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	scenario, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if scenario.Name != "warmup" {
		t.Errorf("name = %s, want warmup", scenario.Name)
	}
	if len(scenario.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(scenario.Steps))
	}
	if scenario.Steps[0].Particles != 30 {
		t.Errorf("step 0 particles = %d, want 30", scenario.Steps[0].Particles)
	}
	if scenario.Steps[1].Preset != "crystal" {
		t.Errorf("step 1 preset = %s, want crystal", scenario.Steps[1].Preset)
	}
	if scenario.Steps[1].SaveAs != "crystal-short" {
		t.Errorf("step 1 save_as = %s", scenario.Steps[1].SaveAs)
	}
}

func TestLoadScenarioMissing(t *testing.T) {
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestStepConfigPresetAndOverrides(t *testing.T) {
	step := ScenarioStep{Preset: "crystal", Particles: 99, Ticks: 5}

	cfg, err := stepConfig(step)
	if err != nil {
		t.Fatalf("stepConfig failed: %v", err)
	}

	preset := config.GetPreset("crystal")
	if cfg.Params.Particles != 99 {
		t.Errorf("particles = %d, want override 99", cfg.Params.Particles)
	}
	if cfg.Params.Beta != preset.Beta {
		t.Errorf("beta = %v, want preset %v", cfg.Params.Beta, preset.Beta)
	}
	if cfg.Ticks != 5 {
		t.Errorf("ticks = %d, want 5", cfg.Ticks)
	}
	if cfg.Policy != preset.Policy {
		t.Errorf("policy = %s, want %s", cfg.Policy, preset.Policy)
	}
}

func TestStepConfigUnknownPreset(t *testing.T) {
	if _, err := stepConfig(ScenarioStep{Preset: "nope"}); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestRunScenario(t *testing.T) {
	scenario := &Scenario{
		Name: "tiny",
		Steps: []ScenarioStep{
			{Particles: 20, Colors: 2, Ticks: 5, SampleEvery: 5},
			{Particles: 20, Colors: 2, Ticks: 5, SampleEvery: 5, Policy: "random", Seed: 3},
		},
	}

	results, err := RunScenario(context.Background(), scenario)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	for i, r := range results {
		if r.Result.Ticks != 5 {
			t.Errorf("step %d ticks = %d, want 5", i, r.Result.Ticks)
		}
		if r.Experiment == nil {
			t.Errorf("step %d missing experiment", i)
		}
	}
}

func baseConfig() experiment.Config {
	return experiment.Config{
		Params: plife.Params{
			Particles: 20, Colors: 2, Dt: 0.02, Beta: 0.3, Friction: 0.9, Seed: 1,
		},
		Ticks: 5,
	}
}

func TestRunSweep(t *testing.T) {
	sweep := &ParameterSweep{
		Base:      baseConfig(),
		ParamName: "beta",
		ParamMin:  0.2,
		ParamMax:  0.4,
		NumSteps:  3,
	}

	results, err := RunSweep(context.Background(), sweep)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	want := []float64{0.2, 0.3, 0.4}
	for i, r := range results {
		if math.Abs(r.ParamValue-want[i]) > 1e-9 {
			t.Errorf("point %d = %v, want %v", i, r.ParamValue, want[i])
		}
		if _, ok := r.Metrics["mean_speed"]; !ok {
			t.Errorf("point %d missing mean_speed", i)
		}
	}
}

func TestRunSweepValidation(t *testing.T) {
	sweep := &ParameterSweep{Base: baseConfig(), ParamName: "beta", NumSteps: 1}
	if _, err := RunSweep(context.Background(), sweep); !errors.Is(err, plife.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}

	sweep = &ParameterSweep{
		Base: baseConfig(), ParamName: "gravity",
		ParamMin: 0, ParamMax: 1, NumSteps: 2,
	}
	if _, err := RunSweep(context.Background(), sweep); !errors.Is(err, plife.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds for unknown parameter, got %v", err)
	}
}

func TestRunSeedTrials(t *testing.T) {
	trials := &SeedTrials{Base: baseConfig(), BaseSeed: 10, NumTrials: 3}

	results, err := RunSeedTrials(context.Background(), trials)
	if err != nil {
		t.Fatalf("trials failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	for i, r := range results {
		if r.Seed != int64(10+i) {
			t.Errorf("trial %d seed = %d, want %d", i, r.Seed, 10+i)
		}
	}
}
