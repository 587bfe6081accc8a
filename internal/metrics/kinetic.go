package metrics

import (
	"github.com/okaryn/plife/internal/plife"
)

// KineticEnergy averages the mean per-particle kinetic energy over the
// observed ticks. Particles have implicit unit mass.
type KineticEnergy struct {
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy { return &KineticEnergy{} }

func (k *KineticEnergy) Name() string { return "kinetic_energy" }

func (k *KineticEnergy) Observe(ps []plife.Particle, tick int, t float64) {
	if len(ps) == 0 {
		return
	}
	sum := 0.0
	for _, p := range ps {
		sum += 0.5 * p.Vel.LengthSq()
	}
	k.total += sum / float64(len(ps))
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *KineticEnergy) Reset() {
	k.total = 0
	k.samples = 0
}

// MeanSpeed averages the mean particle speed over the observed ticks.
type MeanSpeed struct {
	total   float64
	samples int
}

func NewMeanSpeed() *MeanSpeed { return &MeanSpeed{} }

func (m *MeanSpeed) Name() string { return "mean_speed" }

func (m *MeanSpeed) Observe(ps []plife.Particle, tick int, t float64) {
	if len(ps) == 0 {
		return
	}
	sum := 0.0
	for _, p := range ps {
		sum += p.Vel.Length()
	}
	m.total += sum / float64(len(ps))
	m.samples++
}

func (m *MeanSpeed) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *MeanSpeed) Reset() {
	m.total = 0
	m.samples = 0
}

// Speed returns the instantaneous mean speed of a snapshot, shared by
// the live view and the plot command.
func Speed(ps []plife.Particle) float64 {
	if len(ps) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range ps {
		sum += p.Vel.Length()
	}
	return sum / float64(len(ps))
}
