package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks contract violations in pricing inputs.
// Pricing errors must surface, never be silently corrected.
var ErrInvalidInput = errors.New("invalid input")

// An InvalidInputError names the offending field of a malformed input.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e InvalidInputError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}
