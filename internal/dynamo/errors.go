package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for scenario construction and parameter updates.
var (
	// ErrInvalidBody indicates a body with non-positive mass or radius, or non-finite state.
	ErrInvalidBody = errors.New("dynamo: invalid body")

	// ErrNoBodies indicates a scenario without any bodies.
	ErrNoBodies = errors.New("dynamo: scenario has no bodies")

	// ErrDuplicateID indicates two bodies sharing an id.
	ErrDuplicateID = errors.New("dynamo: duplicate body id")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")
)

// BodyError wraps a construction error with the offending body.
type BodyError struct {
	ID      int
	Field   string
	Value   float64
	Wrapped error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("%s: body %d: %s = %g", e.Wrapped, e.ID, e.Field, e.Value)
}

func (e *BodyError) Unwrap() error {
	return e.Wrapped
}

// ParamError wraps ErrParameterBounds with the rejected value.
type ParamError struct {
	Name  string
	Value float64
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %s = %g", ErrParameterBounds, e.Name, e.Value)
}

func (e *ParamError) Unwrap() error {
	return ErrParameterBounds
}
