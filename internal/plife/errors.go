package plife

import (
	"errors"
	"fmt"
)

// Domain errors for simulation construction and stepping.
var (
	// ErrParameterBounds indicates a simulation parameter outside its valid range.
	ErrParameterBounds = errors.New("plife: parameter out of valid bounds")

	// ErrUnknownPolicy indicates an unrecognized matrix or placement policy name.
	ErrUnknownPolicy = errors.New("plife: unknown policy")

	// ErrMatrixBounds indicates an attraction coefficient outside [-1, 1] or non-finite.
	ErrMatrixBounds = errors.New("plife: attraction coefficient out of [-1, 1]")

	// ErrDimensionMismatch indicates mismatched particle, color or matrix sizes.
	ErrDimensionMismatch = errors.New("plife: dimension mismatch")
)

// TickError records a recoverable numeric anomaly during a tick.
// The affected particle is clamped (position reverted, velocity zeroed)
// and the rest of the tick proceeds normally.
type TickError struct {
	Tick    int
	Index   int
	Message string
}

func (e TickError) Error() string {
	return fmt.Sprintf("tick %d, particle %d: %s", e.Tick, e.Index, e.Message)
}
