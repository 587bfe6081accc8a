// Package automation runs scripted scenario files and parameter
// sweeps without manual intervention.
package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/okaryn/plife/internal/config"
	"github.com/okaryn/plife/internal/engine"
	"github.com/okaryn/plife/internal/experiment"
	"github.com/okaryn/plife/internal/plife"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single step in a scenario
type ScenarioStep struct {
	Preset      string  `yaml:"preset"`
	Particles   int     `yaml:"particles"`
	Colors      int     `yaml:"colors"`
	Dt          float64 `yaml:"dt"`
	Beta        float64 `yaml:"beta"`
	Friction    float64 `yaml:"friction"`
	Seed        int64   `yaml:"seed"`
	Policy      string  `yaml:"policy"`
	Placement   string  `yaml:"placement"`
	Ticks       int     `yaml:"ticks"`
	SampleEvery int     `yaml:"sample_every"`
	SaveAs      string  `yaml:"save_as"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

// stepConfig builds an experiment config for one scenario step. The
// step starts from its preset (or the global defaults) and overrides
// only the fields the step sets.
func stepConfig(step ScenarioStep) (experiment.Config, error) {
	base := config.DefaultConfig()
	if step.Preset != "" {
		p := config.GetPreset(step.Preset)
		if p == nil {
			return experiment.Config{}, fmt.Errorf("unknown preset %q", step.Preset)
		}
		base = p
	}

	if step.Particles > 0 {
		base.Particles = step.Particles
	}
	if step.Colors > 0 {
		base.Colors = step.Colors
	}
	if step.Dt > 0 {
		base.Dt = step.Dt
	}
	if step.Beta > 0 {
		base.Beta = step.Beta
	}
	if step.Friction > 0 {
		base.Friction = step.Friction
	}
	if step.Seed != 0 {
		base.Seed = step.Seed
	}
	if step.Policy != "" {
		base.Policy = step.Policy
	}
	if step.Placement != "" {
		base.Placement = step.Placement
	}
	if step.Ticks > 0 {
		base.Ticks = step.Ticks
	}
	if step.SampleEvery > 0 {
		base.SampleEvery = step.SampleEvery
	}

	return experiment.Config{
		Params:      base.Params(),
		Policy:      base.Policy,
		Placement:   base.Placement,
		Ticks:       base.Ticks,
		SampleEvery: base.SampleEvery,
	}, nil
}

// StepResult pairs the outcome of one scenario step with the
// experiment that produced it.
type StepResult struct {
	Step       ScenarioStep
	Experiment *experiment.Experiment
	Result     *engine.Result
}

// RunScenario executes all steps in a scenario
func RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		fmt.Printf("Running step %d/%d\n", i+1, len(scenario.Steps))

		cfg, err := stepConfig(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp, err := experiment.New(cfg)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Step: step, Experiment: exp, Result: result})
	}

	return results, nil
}

// ParameterSweep runs simulations across a range of values for one
// simulation parameter.
type ParameterSweep struct {
	Base      experiment.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
	Anomalies  int
}

func applyParam(p *plife.Params, name string, value float64) error {
	switch name {
	case "beta":
		p.Beta = value
	case "friction":
		p.Friction = value
	case "dt":
		p.Dt = value
	default:
		return fmt.Errorf("%w: sweep parameter %q", plife.ErrParameterBounds, name)
	}
	return nil
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("%w: sweep needs at least 2 steps", plife.ErrParameterBounds)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := sweep.Base
		if err := applyParam(&cfg.Params, sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		exp, err := experiment.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("sweep %d: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("sweep %d: %w", i+1, err)
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			Metrics:    result.Metrics,
			Anomalies:  len(result.Anomalies),
		})

		fmt.Printf("Sweep %d/%d: %s=%.4f\n", i+1, sweep.NumSteps, sweep.ParamName, paramVal)
	}

	return results, nil
}

// SeedTrials runs the same configuration under several seeds and
// reports per-seed metrics, to separate structural behavior from
// initial-condition luck.
type SeedTrials struct {
	Base      experiment.Config
	BaseSeed  int64
	NumTrials int
}

// TrialResult holds statistics from one seed trial
type TrialResult struct {
	Seed      int64
	Metrics   map[string]float64
	Anomalies int
}

// RunSeedTrials executes multiple trials with consecutive seeds
func RunSeedTrials(ctx context.Context, trials *SeedTrials) ([]TrialResult, error) {
	if trials.NumTrials < 1 {
		return nil, fmt.Errorf("%w: trials must be positive", plife.ErrParameterBounds)
	}

	results := make([]TrialResult, 0, trials.NumTrials)

	for i := 0; i < trials.NumTrials; i++ {
		seed := trials.BaseSeed + int64(i)

		cfg := trials.Base
		cfg.Params.Seed = seed

		exp, err := experiment.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", i+1, err)
		}

		results = append(results, TrialResult{
			Seed:      seed,
			Metrics:   result.Metrics,
			Anomalies: len(result.Anomalies),
		})
	}

	return results, nil
}
