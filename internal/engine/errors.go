package engine

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by errors.Is for every NotFoundError.
var ErrNotFound = errors.New("not found")

// PatternError reports a recurring pattern that violates its shape invariant.
// It is returned where a pattern is constructed or loaded, never from expansion.
type PatternError struct {
	Field  string
	Reason string
}

func (e *PatternError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid recurring pattern: %s", e.Reason)
	}
	return fmt.Sprintf("invalid recurring pattern: %s %s", e.Field, e.Reason)
}

// ValidationError is returned for bad caller input at a Service boundary.
type ValidationError struct {
	Field string
	Value any
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Value)
}

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
