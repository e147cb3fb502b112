package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a state vector with invalid dimensions or values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")

	// ErrDimensionMismatch indicates mismatched state/control dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")

	// ErrAttitudeSingularity indicates pitch reached the 1/cos(theta) pole of the Euler kinematics.
	ErrAttitudeSingularity = errors.New("dynamo: attitude singularity (pitch at +/-90 deg)")

	// ErrUninitialized indicates a unit was built or stepped without an explicit initial state.
	ErrUninitialized = errors.New("dynamo: initial state not set")

	// ErrScheduleSkip indicates a step crossed more than one boundary of a sample schedule.
	ErrScheduleSkip = errors.New("dynamo: step spans more than one sample boundary")

	// ErrNonPositiveStep indicates a step size that is zero, negative or not finite.
	ErrNonPositiveStep = errors.New("dynamo: step size must be positive and finite")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("t=%.6f step %d: %v", e.Time, e.Step, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
