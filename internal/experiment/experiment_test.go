package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/okaryn/plife/internal/plife"
)

func smallConfig() Config {
	return Config{
		Params: plife.Params{
			Particles: 50, Colors: 2, Dt: 0.02, Beta: 0.3, Friction: 0.9, Seed: 42,
		},
		Ticks:       20,
		SampleEvery: 10,
	}
}

func TestNewDefaultsPolicies(t *testing.T) {
	exp, err := New(smallConfig())
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	// Empty policy and placement fall back to the defaults.
	if exp.Matrix().Size() != 2 {
		t.Errorf("matrix size = %d, want 2", exp.Matrix().Size())
	}
	if len(exp.Palette()) != 2 {
		t.Errorf("palette size = %d, want 2", len(exp.Palette()))
	}
}

func TestNewUnknownPolicy(t *testing.T) {
	cfg := smallConfig()
	cfg.Policy = "chaos"
	if _, err := New(cfg); !errors.Is(err, plife.ErrUnknownPolicy) {
		t.Errorf("expected ErrUnknownPolicy, got %v", err)
	}

	cfg = smallConfig()
	cfg.Placement = "grid"
	if _, err := New(cfg); !errors.Is(err, plife.ErrUnknownPolicy) {
		t.Errorf("expected ErrUnknownPolicy, got %v", err)
	}
}

func TestRunProducesMetrics(t *testing.T) {
	exp, err := New(smallConfig())
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Ticks != 20 {
		t.Errorf("ticks = %d, want 20", result.Ticks)
	}
	if len(result.Frames) != 2 {
		t.Errorf("frames = %d, want 2", len(result.Frames))
	}
	for _, name := range []string{"kinetic_energy", "mean_speed", "segregation"} {
		if _, ok := result.Metrics[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
}

func TestRunDeterministic(t *testing.T) {
	run := func() []plife.Particle {
		exp, err := New(smallConfig())
		if err != nil {
			t.Fatalf("new failed: %v", err)
		}
		if _, err := exp.Run(context.Background()); err != nil {
			t.Fatalf("run failed: %v", err)
		}
		return exp.Engine().Snapshot()
	}

	a := run()
	b := run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("particle %d diverged between identical runs", i)
		}
	}
}
