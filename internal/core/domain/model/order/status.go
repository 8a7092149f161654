package order

import (
	"fmt"

	"workorders/internal/pkg/errs"
)

// Status represents the coarse lifecycle state of a work order.
// It implements a six-state machine covering the order's business phases:
//
//	Pending ──> Planning ──> Execution ──> Completed
//	   │            │         │      ^
//	   │            │         v      │
//	   │            │        Paused ─┘
//	   └────────────┴──> Cancelled (also from Execution/Paused in the
//	                     table; the coarse-path use case restricts it
//	                     further to Pending/Planning)
//
// Completed and Cancelled are terminal: no outgoing edges exist.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// The zero value helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// Pending is the initial status of a newly created order.
	Pending

	// Planning covers proposal and work-plan preparation.
	Planning

	// Execution covers field work, reporting and technical closure.
	Execution

	// Paused is an interrupted execution; work may resume.
	Paused

	// Completed is terminal: administrative closure finished and payment received.
	Completed

	// Cancelled is terminal: the order was abandoned with a recorded reason.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "unknown",
		Pending:       "pending",
		Planning:      "planning",
		Execution:     "execution",
		Paused:        "paused",
		Completed:     "completed",
		Cancelled:     "cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "pending",
		Planning:  "planning",
		Execution: "execution",
		Paused:    "paused",
		Completed: "completed",
		Cancelled: "cancelled",
	}
}

// statusTransitions is the coarse transition table. A status missing from a
// value set is not reachable from that key; terminal statuses map to an
// empty set.
func statusTransitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:   {Planning, Cancelled},
		Planning:  {Execution, Cancelled},
		Execution: {Completed, Paused, Cancelled},
		Paused:    {Execution, Cancelled},
		Completed: {},
		Cancelled: {},
	}
}

// ParseStatus resolves a canonical status value ("pending", "execution", ...)
// to its Status. Returns false for unrecognized input instead of an error so
// callers can decide how to classify the failure.
func ParseStatus(input string) (Status, bool) {
	for status, value := range getValidStatusStrings() {
		if value == input {
			return status, true
		}
	}
	return StatusUnknown, false
}

// String returns the canonical lowercase value of the status.
// Implements fmt.Stringer and is safe on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Validate checks that the Status is one of the six defined states.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// AllowedTransitions returns the statuses reachable from s, in table order.
// Terminal and invalid statuses yield an empty slice.
func (s Status) AllowedTransitions() []Status {
	allowed, ok := statusTransitions()[s]
	if !ok {
		return nil
	}
	return allowed
}

// IsTerminal reports whether the status has no outgoing edges.
func (s Status) IsTerminal() bool {
	return len(s.AllowedTransitions()) == 0 && s != StatusUnknown
}

// ValidateTransition checks the edge s -> to against the transition table and
// enforces the reason rule for terminal targets. Pure function, no side effects.
//
// Returns:
//   - *InvalidTransitionError if the edge is not in the table
//   - *MissingReasonError if to is Completed or Cancelled and reason is empty
//   - nil when the transition is legal
func (s Status) ValidateTransition(to Status, reason string) error {
	allowed := s.AllowedTransitions()
	if !containsStatus(allowed, to) {
		return NewInvalidTransitionError(s.String(), to.String(), statusNames(allowed))
	}

	if (to == Completed || to == Cancelled) && reason == "" {
		return NewMissingReasonError(to.String())
	}

	return nil
}

func containsStatus(statuses []Status, status Status) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func statusNames(statuses []Status) []string {
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.String())
	}
	return names
}
