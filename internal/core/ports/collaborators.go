package ports

import (
	"context"
	"time"

	"workorders/internal/core/domain/model/kernel"
)

// PlanningRepository covers the planning-record collaborator consulted and fed
// by the proposal-approved trigger.
type PlanningRepository interface {
	// ExistsForOrder reports whether a planning record exists for the order.
	ExistsForOrder(ctx context.Context, orderID kernel.UUID) (bool, error)

	// CreateDraft creates an empty draft planning record for the order.
	CreateDraft(ctx context.Context, orderID kernel.UUID) error
}

// Alert is an automatic alert raised by a trigger or a background job.
type Alert struct {
	OrderID   kernel.UUID
	AlertType string
	Priority  string
	Title     string
	Message   string
}

// AlertRepository stores automatic alerts. Upsert is keyed by
// (order id, alert type) so repeated trigger runs update instead of
// duplicating.
type AlertRepository interface {
	Upsert(ctx context.Context, alert Alert) error
}

// CostBreakdown carries the estimated and actual cost figures of an order.
type CostBreakdown struct {
	EstimatedTotal float64
	ActualTotal    float64
}

// CostBreakdownProvider is the read-only collaborator supplying cost figures
// for variance computation. ObjectNotFoundError means no proposal exists yet.
type CostBreakdownProvider interface {
	GetBreakdown(ctx context.Context, orderID kernel.UUID) (CostBreakdown, error)
}

// CostComparison is the single estimated-vs-actual record kept per order.
type CostComparison struct {
	OrderID         kernel.UUID
	EstimatedTotal  float64
	ActualTotal     float64
	VariancePercent float64
	RealizedMargin  float64
	UpdatedAt       time.Time
}

// CostComparisonRepository upserts the per-order cost comparison record.
type CostComparisonRepository interface {
	Upsert(ctx context.Context, comparison CostComparison) error
}
