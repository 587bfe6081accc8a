// Package force implements the color-pair force model of the simulation:
// the piecewise radial force law and the attraction matrix that scales it.
package force

// Law returns the scalar radial force between two particles separated by
// dist, given the attraction coefficient of the (self, other) color pair
// and the shape parameter beta.
//
// Distances are measured in units of the interaction radius, so the law
// is zero at and beyond dist = 1. Below beta the force is purely
// repulsive regardless of attraction: strongest at contact, zero at
// dist = beta. In the mid range the force ramps linearly down to zero at
// the interaction radius, scaled by attraction. The mid branch does not
// meet the repulsive branch at dist = beta; the jump is a property of
// the model, kept as-is.
//
// Boundary semantics are strict less-than on both branch edges.
func Law(dist, attraction, beta float64) float64 {
	switch {
	case dist < beta:
		return dist/beta - 1
	case dist < 1.0:
		return attraction * (1 - (2*dist-1-beta)/(1-beta))
	default:
		return 0
	}
}
