package plife

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Particle is a single colored point in the wrapping domain. Identity is
// the particle's index in its slice; N never changes during a run.
type Particle struct {
	Pos   Vec3
	Vel   Vec3
	Color int
}

// Params holds the per-run simulation parameters. All fields are fixed
// for the lifetime of a run.
type Params struct {
	Particles int
	Colors    int
	Dt        float64
	Beta      float64
	Friction  float64
	Seed      int64
}

// DefaultParams returns a parameter set that produces lively dynamics
// with the identity matrix policy.
func DefaultParams() Params {
	return Params{
		Particles: 800,
		Colors:    4,
		Dt:        0.02,
		Beta:      0.3,
		Friction:  0.9,
		Seed:      42,
	}
}

// Validate rejects parameter sets the force law and integrator cannot
// handle. It must pass before any tick runs.
func (p Params) Validate() error {
	if p.Particles <= 0 {
		return fmt.Errorf("%w: particles must be positive, got %d", ErrParameterBounds, p.Particles)
	}
	if p.Colors <= 0 {
		return fmt.Errorf("%w: colors must be positive, got %d", ErrParameterBounds, p.Colors)
	}
	if p.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrParameterBounds, p.Dt)
	}
	// The force law divides by beta and by (1 - beta).
	if p.Beta <= 0 || p.Beta >= 1 {
		return fmt.Errorf("%w: beta must be in (0, 1), got %f", ErrParameterBounds, p.Beta)
	}
	if p.Friction < 0 || p.Friction > 1 {
		return fmt.Errorf("%w: friction must be in [0, 1], got %f", ErrParameterBounds, p.Friction)
	}
	return nil
}

// RGBA is one palette entry with channels in [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// Palette maps a particle color index to its display color. Immutable
// after construction; read-only for presentation adapters.
type Palette []RGBA

// Hex returns the palette entry as a #rrggbb string for terminal and
// web adapters. Out-of-range indices map to white.
func (p Palette) Hex(i int) string {
	if i < 0 || i >= len(p) {
		return "#ffffff"
	}
	c := colorful.Color{R: p[i].R, G: p[i].G, B: p[i].B}
	return c.Clamped().Hex()
}

// Metric accumulates a scalar over the ticks of a run.
type Metric interface {
	Name() string
	Observe(ps []Particle, tick int, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every tick with the freshly published state.
// Implementations must treat ps as read-only and must not retain it.
type Observer interface {
	OnTick(ps []Particle, tick int, t float64)
}
