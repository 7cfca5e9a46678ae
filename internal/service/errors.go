package service

import (
	"errors"
	"fmt"
)

// ErrConflict is returned when a mutation keeps losing the optimistic
// aggregate save and its retry budget runs out. The caller may retry
// the whole logical operation.
var ErrConflict = errors.New("cart was modified concurrently, retries exhausted")

// ValidationError reports malformed or missing input. It is raised
// before any store access, so a failed validation never leaves a
// partial write behind.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
