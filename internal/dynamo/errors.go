package dynamo

import (
	"errors"
	"fmt"

	"github.com/san-kum/latticesim/internal/grid"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidSize indicates a lattice side length below 1.
	ErrInvalidSize = grid.ErrInvalidSize

	// ErrInvalidState indicates NaN or Inf in the position, velocity or acceleration field.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrContextCanceled indicates the run was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// SimulationError wraps an error with the step at which it occurred.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
