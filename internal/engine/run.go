package engine

import (
	"context"
	"fmt"

	"github.com/okaryn/plife/internal/plife"
)

// RunConfig controls a batch run of the tick loop.
type RunConfig struct {
	// Ticks is the number of ticks to advance.
	Ticks int
	// SampleEvery records a frame into the result every n ticks.
	// Zero disables frame recording.
	SampleEvery int
}

func (c RunConfig) validate() error {
	if c.Ticks <= 0 {
		return fmt.Errorf("%w: ticks must be positive, got %d", plife.ErrParameterBounds, c.Ticks)
	}
	if c.SampleEvery < 0 {
		return fmt.Errorf("%w: sample interval must be non-negative, got %d", plife.ErrParameterBounds, c.SampleEvery)
	}
	return nil
}

// Frame is one sampled snapshot of a run.
type Frame struct {
	Tick      int
	Time      float64
	Particles []plife.Particle
}

// Result collects the output of a batch run.
type Result struct {
	Frames    []Frame
	Ticks     int
	Metrics   map[string]float64
	Anomalies []plife.TickError
}

// Run advances the engine cfg.Ticks ticks, observing metrics and
// observers after each one. Cancellation is honored between ticks only;
// a tick is never partially applied, so collaborators always observe a
// fully computed state.
func (e *Engine) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	for _, m := range e.metrics {
		m.Reset()
	}

	frameCap := 0
	if cfg.SampleEvery > 0 {
		frameCap = cfg.Ticks/cfg.SampleEvery + 1
	}
	result := &Result{
		Frames:  make([]Frame, 0, frameCap),
		Metrics: make(map[string]float64),
	}

	for i := 0; i < cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		e.Step()

		for _, m := range e.metrics {
			m.Observe(e.cur, e.tick, e.time)
		}
		for _, obs := range e.observers {
			obs.OnTick(e.cur, e.tick, e.time)
		}

		if cfg.SampleEvery > 0 && e.tick%cfg.SampleEvery == 0 {
			result.Frames = append(result.Frames, Frame{
				Tick:      e.tick,
				Time:      e.time,
				Particles: e.Snapshot(),
			})
		}
		result.Ticks++
	}

	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Anomalies = e.Anomalies()

	return result, nil
}
