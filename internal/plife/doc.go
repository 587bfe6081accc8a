// Package plife provides the core primitives for particle-life simulations.
//
// The package defines the shared vocabulary used by the rest of the module:
//
//   - [Vec3]: 3D vector with well-defined zero-vector normalization
//   - [Particle]: position, velocity and color of a single particle
//   - [Params]: per-run simulation parameters, validated at construction
//   - [Palette]: the immutable color table consumed by presentation adapters
//   - [Metric], [Observer]: per-tick read-only hooks into a running engine
//
// # Example
//
//	params := plife.DefaultParams()
//	mat := force.NewIdentity(params.Colors)
//	particles, palette, _ := field.New(params, field.PlacementUniform)
//	eng, _ := engine.New(params, mat, particles)
//	result, _ := eng.Run(ctx, engine.RunConfig{Ticks: 1000})
//
// # Thread Safety
//
// Particle slices handed to observers and metrics are snapshots of the
// current tick and must not be mutated or retained across ticks. Params,
// force matrices and palettes are immutable after construction and safe
// for concurrent readers.
package plife
