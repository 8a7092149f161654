package queries

import (
	"errors"
	"time"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/pkg/guard"
)

var ErrGetHistoryQueryIsNotConstructed = errors.New(
	"GetHistoryQuery must be created via NewGetHistoryQuery constructor",
)

// History entry sources, in fallback precedence order.
const (
	HistorySourceWorkflow  = "workflow"
	HistorySourceAudit     = "audit"
	HistorySourceSynthetic = "synthetic"
)

// GetHistoryQuery retrieves an order's state timeline. Three sources are
// consulted in order and the first non-empty one wins: the detailed
// transition history, the coarse audit entries reinterpreted as transitions,
// and finally a single synthetic entry reconstructed from the order's current
// status. The query therefore always returns at least one entry for an
// existing order.
type GetHistoryQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetHistoryQuery creates a history query for the given order.
func NewGetHistoryQuery(orderID kernel.UUID) (GetHistoryQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetHistoryQuery{}, err
	}

	return GetHistoryQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetHistoryQueryIsNotConstructed if validation fails.
func (q GetHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetHistoryQueryIsNotConstructed)
}

// OrderID returns the identifier of the order whose history is requested.
func (q GetHistoryQuery) OrderID() kernel.UUID {
	return q.orderID
}

// HistoryEntry is one element of the returned timeline, oldest first.
// Source tells which fallback level produced it. FromState is empty on the
// first entry of a timeline.
type HistoryEntry struct {
	FromState  string
	ToState    string
	ActorID    *kernel.UUID
	Notes      string
	Metadata   map[string]string
	Source     string
	OccurredAt time.Time
}
