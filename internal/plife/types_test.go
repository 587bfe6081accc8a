package plife

import (
	"errors"
	"testing"
)

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		ok     bool
	}{
		{"defaults", func(p *Params) {}, true},
		{"zero particles", func(p *Params) { p.Particles = 0 }, false},
		{"negative particles", func(p *Params) { p.Particles = -5 }, false},
		{"zero colors", func(p *Params) { p.Colors = 0 }, false},
		{"zero dt", func(p *Params) { p.Dt = 0 }, false},
		{"negative dt", func(p *Params) { p.Dt = -0.01 }, false},
		{"beta zero", func(p *Params) { p.Beta = 0 }, false},
		{"beta one", func(p *Params) { p.Beta = 1 }, false},
		{"beta interior", func(p *Params) { p.Beta = 0.5 }, true},
		{"friction negative", func(p *Params) { p.Friction = -0.1 }, false},
		{"friction above one", func(p *Params) { p.Friction = 1.1 }, false},
		{"friction zero", func(p *Params) { p.Friction = 0 }, true},
		{"friction one", func(p *Params) { p.Friction = 1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestPaletteHex(t *testing.T) {
	pal := Palette{
		{R: 1, G: 0, B: 0, A: 1},
		{R: 0, G: 1, B: 0, A: 1},
	}

	if got := pal.Hex(0); got != "#ff0000" {
		t.Errorf("Hex(0) = %s, want #ff0000", got)
	}
	if got := pal.Hex(1); got != "#00ff00" {
		t.Errorf("Hex(1) = %s, want #00ff00", got)
	}

	// Out-of-range indices fall back to white.
	if got := pal.Hex(-1); got != "#ffffff" {
		t.Errorf("Hex(-1) = %s, want #ffffff", got)
	}
	if got := pal.Hex(5); got != "#ffffff" {
		t.Errorf("Hex(5) = %s, want #ffffff", got)
	}
}

func TestTickErrorMessage(t *testing.T) {
	err := TickError{Tick: 12, Index: 7, Message: "non-finite position"}
	want := "tick 12, particle 7: non-finite position"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
