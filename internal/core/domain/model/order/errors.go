package order

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for transition failures; concrete types below unwrap to
// these so callers can classify with errors.Is.
var (
	ErrInvalidTransition = errors.New("transition is not allowed")
	ErrMissingReason     = errors.New("reason is required")
)

// InvalidTransitionError reports an edge absent from a transition table.
// Allowed carries the legal targets from the current state for caller guidance.
type InvalidTransitionError struct {
	From    string
	To      string
	Allowed []string
}

// NewInvalidTransitionError creates an InvalidTransitionError for the edge
// from -> to, carrying the allowed target names.
func NewInvalidTransitionError(from, to string, allowed []string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to, Allowed: allowed}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: from %s to %s (allowed: %s)",
		ErrInvalidTransition, e.From, e.To, strings.Join(e.Allowed, ", "))
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// MissingReasonError reports a terminal coarse transition attempted without
// a justification.
type MissingReasonError struct {
	To string
}

// NewMissingReasonError creates a MissingReasonError for the terminal target.
func NewMissingReasonError(to string) *MissingReasonError {
	return &MissingReasonError{To: to}
}

func (e *MissingReasonError) Error() string {
	return fmt.Sprintf("%s: transition to %s requires a non-empty reason", ErrMissingReason, e.To)
}

func (e *MissingReasonError) Unwrap() error {
	return ErrMissingReason
}
