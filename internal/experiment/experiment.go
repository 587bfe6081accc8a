// Package experiment wires the field initializer, attraction matrix and
// engine into a runnable unit, resolving policies by name.
package experiment

import (
	"context"

	"github.com/okaryn/plife/internal/engine"
	"github.com/okaryn/plife/internal/field"
	"github.com/okaryn/plife/internal/force"
	"github.com/okaryn/plife/internal/metrics"
	"github.com/okaryn/plife/internal/plife"
)

// Config describes one experiment.
type Config struct {
	Params      plife.Params
	Policy      string
	Placement   string
	Ticks       int
	SampleEvery int
}

// Experiment is a fully wired simulation ready to run.
type Experiment struct {
	cfg     Config
	eng     *engine.Engine
	matrix  *force.Matrix
	palette plife.Palette
}

// New builds the matrix, initial field and engine for cfg and attaches
// the default metrics. Configuration errors surface here, before any
// tick runs.
func New(cfg Config) (*Experiment, error) {
	if cfg.Policy == "" {
		cfg.Policy = force.PolicyIdentity
	}
	if cfg.Placement == "" {
		cfg.Placement = field.PlacementUniform
	}

	matrix, err := force.Build(cfg.Policy, cfg.Params.Colors, cfg.Params.Seed)
	if err != nil {
		return nil, err
	}

	particles, palette, err := field.New(cfg.Params, cfg.Placement)
	if err != nil {
		return nil, err
	}

	eng, err := engine.New(cfg.Params, matrix, particles)
	if err != nil {
		return nil, err
	}
	for _, m := range DefaultMetrics() {
		eng.AddMetric(m)
	}

	return &Experiment{cfg: cfg, eng: eng, matrix: matrix, palette: palette}, nil
}

// Run executes the configured number of ticks.
func (e *Experiment) Run(ctx context.Context) (*engine.Result, error) {
	return e.eng.Run(ctx, engine.RunConfig{Ticks: e.cfg.Ticks, SampleEvery: e.cfg.SampleEvery})
}

func (e *Experiment) Engine() *engine.Engine { return e.eng }
func (e *Experiment) Matrix() *force.Matrix  { return e.matrix }
func (e *Experiment) Palette() plife.Palette { return e.palette }
func (e *Experiment) Config() Config         { return e.cfg }

// DefaultMetrics returns the metric set attached to every experiment.
func DefaultMetrics() []plife.Metric {
	return []plife.Metric{
		metrics.NewKineticEnergy(),
		metrics.NewMeanSpeed(),
		metrics.NewSegregation(0),
	}
}
