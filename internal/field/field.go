// Package field seeds the initial particle population and color palette.
// Every value is derived from a per-particle (or per-color) deterministic
// stream keyed by the run seed, so identical seeds reproduce identical
// fields bit for bit.
package field

import (
	"fmt"
	"math/rand"

	"github.com/aquilax/go-perlin"
	"github.com/okaryn/plife/internal/plife"
)

// Placement policies.
const (
	PlacementUniform = "uniform"
	PlacementNoise   = "noise"
)

// Placements lists the recognized placement policies.
func Placements() []string {
	return []string{PlacementUniform, PlacementNoise}
}

const (
	// splitmix64 increment and finalizer constants.
	mixGamma = 0x9E3779B97F4A7C15
	mixM1    = 0xBF58476D1CE4E5B9
	mixM2    = 0x94D049BB133111EB
)

// mix derives an independent PRNG seed from (seed, index) so that each
// particle and palette entry gets its own reproducible stream.
func mix(seed int64, index int64) int64 {
	z := uint64(seed) + uint64(index+1)*mixGamma
	z = (z ^ (z >> 30)) * mixM1
	z = (z ^ (z >> 27)) * mixM2
	return int64(z ^ (z >> 31))
}

func stream(seed, index int64) *rand.Rand {
	return rand.New(rand.NewSource(mix(seed, index)))
}

// unit draws one coordinate uniformly from [-1, 1).
func unit(rng *rand.Rand) float64 {
	return rng.Float64()*2 - 1
}

// New creates the initial particle population and palette for params.
// Positions follow the placement policy, velocities start at zero and
// colors are assigned round-robin so every color is equally represented.
func New(params plife.Params, placement string) ([]plife.Particle, plife.Palette, error) {
	if err := params.Validate(); err != nil {
		return nil, nil, err
	}

	var place func(rng *rand.Rand) plife.Vec3
	switch placement {
	case PlacementUniform, "":
		place = func(rng *rand.Rand) plife.Vec3 {
			return plife.Vec3{X: unit(rng), Y: unit(rng), Z: unit(rng)}
		}
	case PlacementNoise:
		place = noisePlacer(params.Seed)
	default:
		return nil, nil, fmt.Errorf("%w: placement %q (available: %v)", plife.ErrUnknownPolicy, placement, Placements())
	}

	particles := make([]plife.Particle, params.Particles)
	for i := range particles {
		rng := stream(params.Seed, int64(i))
		particles[i] = plife.Particle{
			Pos:   place(rng),
			Color: i % params.Colors,
		}
	}

	return particles, NewPalette(params.Colors, params.Seed), nil
}

// NewPalette draws one RGB color per index, channels uniform in [0, 1],
// alpha fixed at 1. Keyed by (seed, color index).
func NewPalette(colors int, seed int64) plife.Palette {
	pal := make(plife.Palette, colors)
	for c := range pal {
		rng := stream(^seed, int64(c))
		pal[c] = plife.RGBA{R: rng.Float64(), G: rng.Float64(), B: rng.Float64(), A: 1.0}
	}
	return pal
}

// noisePlacer biases positions toward the dense regions of a seeded 3D
// Perlin field via rejection sampling. Each particle consumes only its
// own stream, so determinism per (seed, index) is preserved.
func noisePlacer(seed int64) func(rng *rand.Rand) plife.Vec3 {
	p := perlin.NewPerlin(2, 2, 3, mix(seed, -1))
	const maxTries = 16
	return func(rng *rand.Rand) plife.Vec3 {
		var v plife.Vec3
		for try := 0; try < maxTries; try++ {
			v = plife.Vec3{X: unit(rng), Y: unit(rng), Z: unit(rng)}
			// Noise3D is roughly in [-1, 1]; map to an acceptance probability.
			density := (p.Noise3D(v.X, v.Y, v.Z) + 1) / 2
			if rng.Float64() < density {
				return v
			}
		}
		return v
	}
}
