package force

import (
	"math"
	"testing"
)

func TestLawRepulsiveBranch(t *testing.T) {
	beta := 0.3

	// Contact is maximal repulsion, independent of attraction.
	for _, a := range []float64{-1, 0, 0.5, 1} {
		if got := Law(0, a, beta); got != -1 {
			t.Errorf("Law(0, %v, %v) = %v, want -1", a, beta, got)
		}
	}

	// Linear ramp up to zero as dist approaches beta.
	if got := Law(beta/2, 1.0, beta); math.Abs(got-(-0.5)) > 1e-12 {
		t.Errorf("Law(beta/2) = %v, want -0.5", got)
	}
	eps := 1e-9
	if got := Law(beta-eps, 1.0, beta); math.Abs(got) > 1e-6 {
		t.Errorf("Law just below beta = %v, want ~0", got)
	}
}

func TestLawMidBranch(t *testing.T) {
	beta := 0.3
	attraction := 0.7

	// Peak sits at the left edge of the mid branch: the branches do
	// not meet at dist = beta.
	if got := Law(beta, attraction, beta); math.Abs(got-2*attraction) > 1e-12 {
		t.Errorf("Law(beta) = %v, want %v", got, 2*attraction)
	}

	// Midpoint of [beta, 1] evaluates to attraction itself.
	mid := (1 + beta) / 2
	if got := Law(mid, attraction, beta); math.Abs(got-attraction) > 1e-12 {
		t.Errorf("Law(midpoint) = %v, want %v", got, attraction)
	}

	// Ramp hits zero approaching the interaction radius.
	eps := 1e-9
	if got := Law(1-eps, attraction, beta); math.Abs(got) > 1e-6 {
		t.Errorf("Law just below 1 = %v, want ~0", got)
	}

	// Sign follows the attraction coefficient.
	if got := Law(mid, -attraction, beta); math.Abs(got+attraction) > 1e-12 {
		t.Errorf("Law(midpoint, negative) = %v, want %v", got, -attraction)
	}
}

func TestLawBeyondRadius(t *testing.T) {
	for _, dist := range []float64{1.0, 1.5, 100} {
		if got := Law(dist, 1.0, 0.3); got != 0 {
			t.Errorf("Law(%v) = %v, want 0", dist, got)
		}
	}
}

func TestLawBranchBoundaries(t *testing.T) {
	beta := 0.5

	// dist == beta belongs to the mid branch, not the repulsive one.
	if got := Law(beta, 1.0, beta); got != 2.0 {
		t.Errorf("Law(beta) = %v, want 2", got)
	}

	// dist == 1 belongs to the zero branch.
	if got := Law(1.0, 1.0, beta); got != 0 {
		t.Errorf("Law(1) = %v, want 0", got)
	}
}

func TestLawZeroAttraction(t *testing.T) {
	beta := 0.3
	// A zero coefficient silences the mid branch but never the
	// repulsive core.
	if got := Law(0.6, 0, beta); got != 0 {
		t.Errorf("mid branch with zero attraction = %v, want 0", got)
	}
	if got := Law(0.1, 0, beta); got >= 0 {
		t.Errorf("repulsive branch with zero attraction = %v, want negative", got)
	}
}
