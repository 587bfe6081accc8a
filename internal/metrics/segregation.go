package metrics

import (
	"math"

	"github.com/okaryn/plife/internal/plife"
)

// Segregation measures emergent color clustering: for a bounded sample
// of particles each tick, the fraction whose nearest neighbor shares
// their color. A fully mixed field with C colors sits near 1/C; values
// approaching 1 indicate same-color clusters.
type Segregation struct {
	sample  int
	total   float64
	samples int
}

// NewSegregation caps the per-tick probe at sample particles to keep the
// metric's cost bounded on large populations.
func NewSegregation(sample int) *Segregation {
	if sample <= 0 {
		sample = 128
	}
	return &Segregation{sample: sample}
}

func (s *Segregation) Name() string { return "segregation" }

func (s *Segregation) Observe(ps []plife.Particle, tick int, t float64) {
	if len(ps) < 2 {
		return
	}
	probes := s.sample
	if probes > len(ps) {
		probes = len(ps)
	}

	matches := 0
	// Stride the probes across the whole population so the sample is not
	// correlated with insertion order.
	for i := 0; i < probes; i++ {
		idx := i * len(ps) / probes
		best := math.Inf(1)
		bestColor := -1
		for j := range ps {
			if j == idx {
				continue
			}
			d := ps[j].Pos.Sub(ps[idx].Pos).LengthSq()
			if d < best {
				best = d
				bestColor = ps[j].Color
			}
		}
		if bestColor == ps[idx].Color {
			matches++
		}
	}

	s.total += float64(matches) / float64(probes)
	s.samples++
}

func (s *Segregation) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.total / float64(s.samples)
}

func (s *Segregation) Reset() {
	s.total = 0
	s.samples = 0
}
