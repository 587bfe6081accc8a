package stream

import (
	"context"
	"testing"
	"time"

	"github.com/okaryn/plife/internal/engine"
	"github.com/okaryn/plife/internal/field"
	"github.com/okaryn/plife/internal/force"
	"github.com/okaryn/plife/internal/plife"
)

func testEngine(t *testing.T) (*engine.Engine, plife.Palette) {
	t.Helper()
	params := plife.Params{Particles: 10, Colors: 2, Dt: 0.02, Beta: 0.3, Friction: 0.9, Seed: 1}
	ps, palette, err := field.New(params, field.PlacementUniform)
	if err != nil {
		t.Fatal(err)
	}
	eng, err := engine.New(params, force.NewIdentity(2), ps)
	if err != nil {
		t.Fatal(err)
	}
	return eng, palette
}

func TestNewDefaultsTickRate(t *testing.T) {
	eng, palette := testEngine(t)

	s := New(eng, palette, 0)
	if s.tickRate != time.Second/30 {
		t.Errorf("tickRate = %v, want %v", s.tickRate, time.Second/30)
	}

	s = New(eng, palette, 60)
	if s.tickRate != time.Second/60 {
		t.Errorf("tickRate = %v, want %v", s.tickRate, time.Second/60)
	}

	if s.ClientCount() != 0 {
		t.Errorf("fresh server has %d clients", s.ClientCount())
	}
}

// TestGreetingDuringRun snapshots the run setup while the tick loop is
// stepping. Every snapshot must describe a fully computed tick; run with
// -race to catch the tick loop and a joining subscriber sharing a
// half-written buffer.
func TestGreetingDuringRun(t *testing.T) {
	eng, palette := testEngine(t)
	s := New(eng, palette, 1000)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.loop(ctx)
	}()

	for i := 0; i < 200; i++ {
		g := s.greeting()
		if g.Particles != 10 || len(g.Colors) != 10 {
			t.Fatalf("greeting reports %d particles, %d colors", g.Particles, len(g.Colors))
		}
		for _, c := range g.Colors {
			if c < 0 || c >= 2 {
				t.Fatalf("greeting color %d out of range", c)
			}
		}
	}

	cancel()
	<-done
}

func TestPayloadTracksEngine(t *testing.T) {
	eng, palette := testEngine(t)
	s := New(eng, palette, 30)

	eng.Step()
	p := s.payload()

	if p.Tick != 1 {
		t.Errorf("tick = %d, want 1", p.Tick)
	}
	if len(p.Positions) != 10 {
		t.Errorf("positions = %d, want 10", len(p.Positions))
	}

	ps := eng.Particles()
	for i := range ps {
		if p.Positions[i] != [3]float64{ps[i].Pos.X, ps[i].Pos.Y, ps[i].Pos.Z} {
			t.Errorf("position %d does not match engine state", i)
		}
	}
}
