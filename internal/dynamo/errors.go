package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for lab operations.
var (
	// ErrInvalidState indicates a state with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownIntegrator indicates an integrator name with no implementation.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")

	// ErrUnknownPreset indicates a preset or gravity body that does not exist.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")

	// ErrNoPendulum indicates a pendulum index outside the lab.
	ErrNoPendulum = errors.New("dynamo: no such pendulum")

	// ErrNoOscillation indicates a signal with no measurable period.
	ErrNoOscillation = errors.New("dynamo: no oscillation detected")
)

// SimulationError wraps an error with the simulated time it occurred at.
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
