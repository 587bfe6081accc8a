package force

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/okaryn/plife/internal/plife"
)

// Matrix construction policies.
const (
	PolicyIdentity = "identity"
	PolicyRandom   = "random"
)

// Policies lists the recognized matrix construction policies.
func Policies() []string {
	return []string{PolicyIdentity, PolicyRandom}
}

// Matrix maps a (self color, other color) pair to a signed attraction
// coefficient in [-1, 1]. Entries need not be symmetric: At(i, j) is the
// coefficient particle color i applies when observing color j. Immutable
// after construction.
type Matrix struct {
	n int
	a []float64
}

// NewIdentity builds the deterministic default policy: +1 on the
// diagonal (self-attraction), -1 everywhere else (cross-color repulsion).
func NewIdentity(n int) *Matrix {
	m := &Matrix{n: n, a: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				m.a[i*n+j] = 1.0
			} else {
				m.a[i*n+j] = -1.0
			}
		}
	}
	return m
}

// NewRandom builds a matrix with every entry drawn uniformly from
// [-1, 1]. The same seed reproduces the same matrix.
func NewRandom(n int, seed int64) *Matrix {
	rng := rand.New(rand.NewSource(seed))
	m := &Matrix{n: n, a: make([]float64, n*n)}
	for i := range m.a {
		m.a[i] = rng.Float64()*2 - 1
	}
	return m
}

// Build constructs a matrix by policy name.
func Build(policy string, n int, seed int64) (*Matrix, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: matrix size must be positive, got %d", plife.ErrParameterBounds, n)
	}
	switch policy {
	case PolicyIdentity:
		return NewIdentity(n), nil
	case PolicyRandom:
		return NewRandom(n, seed), nil
	default:
		return nil, fmt.Errorf("%w: %q (available: %v)", plife.ErrUnknownPolicy, policy, Policies())
	}
}

// Size returns the number of colors the matrix covers.
func (m *Matrix) Size() int { return m.n }

// At returns the attraction coefficient for (self, other).
func (m *Matrix) At(self, other int) float64 {
	return m.a[self*m.n+other]
}

// Rows returns a copy of the matrix as nested slices, for printing
// and export.
func (m *Matrix) Rows() [][]float64 {
	rows := make([][]float64, m.n)
	for i := 0; i < m.n; i++ {
		rows[i] = make([]float64, m.n)
		copy(rows[i], m.a[i*m.n:(i+1)*m.n])
	}
	return rows
}

// Validate checks that every entry is finite and within [-1, 1], the
// range the force law's interpolation assumes.
func (m *Matrix) Validate() error {
	for i, v := range m.a {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < -1 || v > 1 {
			return fmt.Errorf("%w: entry (%d, %d) = %f", plife.ErrMatrixBounds, i/m.n, i%m.n, v)
		}
	}
	return nil
}
