package optionmodel

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput reports malformed option sets, options or selections:
	// unknown references, two options from the same set, missing IDs.
	ErrInvalidInput = errors.New("optionmodel: invalid input")

	// ErrInternalConsistency reports a nesting walk that reached a state the
	// selections could not have produced if they were well formed.
	ErrInternalConsistency = errors.New("optionmodel: internal consistency")

	// ErrMatrixTooLarge reports a combination count above the caller's bound
	// or beyond what an int can hold.
	ErrMatrixTooLarge = errors.New("optionmodel: matrix too large")
)

// FilterError captures a failed filter expression alongside the cause.
type FilterError struct {
	Expr string
	Err  error
}

func (e *FilterError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("optionmodel: filter %q: %v", e.Expr, e.Err)
}

func (e *FilterError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
