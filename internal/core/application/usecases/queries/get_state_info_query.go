// Package queries contains read-only operations over the persistence model.
// Query handlers go straight to the database with raw SQL and never load
// aggregates; write semantics stay in the commands package.
package queries

import (
	"errors"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/pkg/guard"
)

var ErrGetStateInfoQueryIsNotConstructed = errors.New(
	"GetStateInfoQuery must be created via NewGetStateInfoQuery constructor",
)

// GetStateInfoQuery retrieves the lifecycle position of one order: where it
// stands on both machines and where it can legally go next.
type GetStateInfoQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetStateInfoQuery creates a state-info query for the given order.
func NewGetStateInfoQuery(orderID kernel.UUID) (GetStateInfoQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetStateInfoQuery{}, err
	}

	return GetStateInfoQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetStateInfoQueryIsNotConstructed if validation fails.
func (q GetStateInfoQuery) Validate() error {
	return q.guard.Validate(ErrGetStateInfoQueryIsNotConstructed)
}

// OrderID returns the identifier of the order to inspect.
func (q GetStateInfoQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetStateInfoQueryResponse describes an order's position on both state
// machines.
//
// CurrentStep is empty when the order never entered the detailed flow and
// carries the raw stored value when that value is unrecognized; in the latter
// case StepNumber is 0 and NextPossibleSteps is empty, because nothing legal
// leads out of an unknown step.
type GetStateInfoQueryResponse struct {
	OrderID       kernel.UUID
	Number        string
	CurrentStatus string
	CurrentStep   string
	StepNumber    int

	NextPossibleStatuses []string
	NextPossibleSteps    []string

	// IsFinal reports whether the coarse status is terminal
	// (completed or cancelled).
	IsFinal bool
}
