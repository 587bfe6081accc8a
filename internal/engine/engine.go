// Package engine advances the particle state tick by tick. It owns a
// double-buffered pair of particle snapshots: every tick reads only the
// current buffer, writes only the next buffer, and swaps them once all
// particles are done, so no unit of work ever observes a half-updated
// neighbor.
package engine

import (
	"fmt"
	"sync"

	"github.com/okaryn/plife/internal/force"
	"github.com/okaryn/plife/internal/plife"
)

// minChunk is the smallest per-goroutine slice of the O(N^2) pairwise
// loop worth scheduling.
const minChunk = 32

// Engine owns the particle and matrix storage for the lifetime of a run
// and exposes only read views to collaborators.
type Engine struct {
	params plife.Params
	matrix *force.Matrix

	cur  []plife.Particle
	next []plife.Particle

	metrics   []plife.Metric
	observers []plife.Observer

	tick int
	time float64

	mu        sync.Mutex
	anomalies []plife.TickError
}

// New validates the configuration and takes ownership of the initial
// particle slice. The matrix and params are immutable from here on.
func New(params plife.Params, matrix *force.Matrix, particles []plife.Particle) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := matrix.Validate(); err != nil {
		return nil, err
	}
	if matrix.Size() != params.Colors {
		return nil, fmt.Errorf("%w: matrix covers %d colors, params declare %d",
			plife.ErrDimensionMismatch, matrix.Size(), params.Colors)
	}
	if len(particles) != params.Particles {
		return nil, fmt.Errorf("%w: got %d particles, params declare %d",
			plife.ErrDimensionMismatch, len(particles), params.Particles)
	}
	for i, p := range particles {
		if p.Color < 0 || p.Color >= params.Colors {
			return nil, fmt.Errorf("%w: particle %d has color %d, want [0, %d)",
				plife.ErrDimensionMismatch, i, p.Color, params.Colors)
		}
	}

	return &Engine{
		params: params,
		matrix: matrix,
		cur:    particles,
		next:   make([]plife.Particle, len(particles)),
	}, nil
}

func (e *Engine) AddMetric(m plife.Metric)     { e.metrics = append(e.metrics, m) }
func (e *Engine) AddObserver(o plife.Observer) { e.observers = append(e.observers, o) }

// Params returns the run parameters.
func (e *Engine) Params() plife.Params { return e.params }

// Matrix returns the immutable attraction matrix.
func (e *Engine) Matrix() *force.Matrix { return e.matrix }

// Tick returns the number of completed ticks.
func (e *Engine) Tick() int { return e.tick }

// Time returns the simulated time.
func (e *Engine) Time() float64 { return e.time }

// Particles returns the published state of the last completed tick.
// Callers must not mutate it; use Snapshot for a private copy.
func (e *Engine) Particles() []plife.Particle { return e.cur }

// Snapshot copies the published state of the last completed tick.
func (e *Engine) Snapshot() []plife.Particle {
	out := make([]plife.Particle, len(e.cur))
	copy(out, e.cur)
	return out
}

// Anomalies returns the numeric anomalies recovered so far.
func (e *Engine) Anomalies() []plife.TickError {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]plife.TickError, len(e.anomalies))
	copy(out, e.anomalies)
	return out
}

// Step advances the simulation by one tick. Particles are advanced in
// parallel; each advance reads only the pre-step buffer, so the result
// is independent of scheduling order. The buffers swap only after every
// index in [0, N) has been written, which is the barrier between the
// compute and publish phases.
func (e *Engine) Step() {
	plife.ParallelFor(len(e.cur), minChunk, e.stepRange)
	e.cur, e.next = e.next, e.cur
	e.tick++
	e.time += e.params.Dt
}

// stepSerial advances one tick on the calling goroutine. Must produce
// output identical to Step.
func (e *Engine) stepSerial() {
	e.stepRange(0, len(e.cur))
	e.cur, e.next = e.next, e.cur
	e.tick++
	e.time += e.params.Dt
}

func (e *Engine) stepRange(start, end int) {
	for i := start; i < end; i++ {
		e.next[i] = e.advance(i)
	}
}

// advance computes the next state of particle i from the current state
// of all particles.
func (e *Engine) advance(i int) plife.Particle {
	p := e.cur[i]
	beta := e.params.Beta

	var f plife.Vec3
	for j := range e.cur {
		if j == i {
			continue
		}
		d := e.cur[j].Pos.Sub(p.Pos)
		dist := d.Length()
		if dist >= 1.0 {
			continue
		}
		a := e.matrix.At(p.Color, e.cur[j].Color)
		mag := force.Law(dist, a, beta)
		// Normalize guards dist == 0, which floating point can reach
		// even with self-interaction excluded.
		f = f.Add(d.Normalize().Scale(mag))
	}

	vel := p.Vel.Scale(e.params.Friction).Add(f.Scale(e.params.Dt))
	pos := wrap(p.Pos.Add(vel.Scale(e.params.Dt)))

	if !pos.IsFinite() || !vel.IsFinite() {
		e.recordAnomaly(i)
		return plife.Particle{Pos: p.Pos, Color: p.Color}
	}
	return plife.Particle{Pos: pos, Vel: vel, Color: p.Color}
}

// wrap teleports each axis that left the domain to the opposite edge.
// This is a single-step teleport, not modulo arithmetic: a particle
// crossing more than the full domain width in one tick lands off-grid.
// Accepted approximation for the small timesteps this model runs at.
func wrap(v plife.Vec3) plife.Vec3 {
	v.X = wrapAxis(v.X)
	v.Y = wrapAxis(v.Y)
	v.Z = wrapAxis(v.Z)
	return v
}

func wrapAxis(c float64) float64 {
	if c > 1.0 {
		return -1.0
	}
	if c < -1.0 {
		return 1.0
	}
	return c
}

func (e *Engine) recordAnomaly(i int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.anomalies = append(e.anomalies, plife.TickError{
		Tick:    e.tick,
		Index:   i,
		Message: "non-finite position or velocity, particle clamped",
	})
}
