package featgo

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFitted is returned when Transform or any method that requires
	// learned state is called before a successful Fit.
	ErrNotFitted = errors.New("transformer is not fitted: call Fit or FitTransform first")
)

// ErrInvalidConfig indicates an invalid constructor option. It is raised
// eagerly at construction time, before any data is seen.
type ErrInvalidConfig struct {
	Param      string
	Value      any
	Constraint string
}

func (e *ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid %s: got %v, want %s", e.Param, e.Value, e.Constraint)
}

// ErrUnsupportedOperation indicates an operation that the transformer does
// not implement, such as inverting a similarity projection.
type ErrUnsupportedOperation struct {
	Op string
}

func (e *ErrUnsupportedOperation) Error() string {
	return fmt.Sprintf("%s is not supported by this transformer", e.Op)
}
