package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for orbit simulation.
var (
	// ErrInvalidState indicates a state vector with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrUnknownLaw indicates a force law name that is not recognized.
	ErrUnknownLaw = errors.New("dynamo: unknown force law")

	// ErrUnknownIntegrator indicates an integrator name that is not registered.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")

	// ErrParameterBounds indicates a parameter value is outside its valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownParam indicates a parameter name the system does not expose.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")

	// ErrStopped indicates an operation on a driver that has been torn down.
	ErrStopped = errors.New("dynamo: animation driver stopped")
)

// SimulationError wraps an error with the tick and simulated time it occurred at.
type SimulationError struct {
	Tick    uint64
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("tick %d (t=%.2f): %v", e.Tick, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
