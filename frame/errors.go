package frame

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidData is the category for all data contract violations raised
	// by this package. Every typed error below matches it via errors.Is.
	ErrInvalidData = errors.New("invalid input data")
)

// ErrColumnNotFound indicates a referenced variable that is not a column of
// the frame.
type ErrColumnNotFound struct {
	Name string
}

func (e *ErrColumnNotFound) Error() string {
	return fmt.Sprintf("column %q not found", e.Name)
}

func (e *ErrColumnNotFound) Unwrap() error { return ErrInvalidData }

// ErrMissingValues indicates null cells in a variable that requires complete
// data.
type ErrMissingValues struct {
	Variable string
	Count    int
}

func (e *ErrMissingValues) Error() string {
	return fmt.Sprintf("variable %q contains %d missing value(s)", e.Variable, e.Count)
}

func (e *ErrMissingValues) Unwrap() error { return ErrInvalidData }

// ErrKindMismatch indicates a variable whose column kind does not satisfy a
// transformer requirement, e.g. a string column passed to a numeric
// transformer.
type ErrKindMismatch struct {
	Variable string
	Kind     Kind
	Want     string
}

func (e *ErrKindMismatch) Error() string {
	return fmt.Sprintf("variable %q has kind %s, want %s", e.Variable, e.Kind, e.Want)
}

func (e *ErrKindMismatch) Unwrap() error { return ErrInvalidData }

// ErrSchemaMismatch indicates a transform-time frame whose column set differs
// from the one seen at fit time.
type ErrSchemaMismatch struct {
	Missing []string
	Extra   []string
}

func (e *ErrSchemaMismatch) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing columns %v", e.Missing))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, fmt.Sprintf("unexpected columns %v", e.Extra))
	}
	if len(parts) == 0 {
		return "schema mismatch"
	}
	return "schema mismatch: " + strings.Join(parts, ", ")
}

func (e *ErrSchemaMismatch) Unwrap() error { return ErrInvalidData }
