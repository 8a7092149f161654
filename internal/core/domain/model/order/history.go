package order

import (
	"time"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/pkg/errs"
)

// TransitionRecord is one immutable entry of the detailed-step history.
// Exactly one record is appended per successful transition, in the same
// transaction as the order mutation; records are never updated or deleted.
type TransitionRecord struct {
	OrderID    kernel.UUID
	FromStep   string // empty when the order had not entered the flow
	ToStep     string
	ActorID    *kernel.UUID
	Notes      string
	Metadata   map[string]string
	OccurredAt time.Time
}

// NewTransitionRecord builds a history record for the edge fromStep -> toStep.
// The order id and target step are required; actor, notes and metadata are
// optional.
func NewTransitionRecord(
	orderID kernel.UUID,
	fromStep, toStep string,
	actorID *kernel.UUID,
	notes string,
	metadata map[string]string,
	occurredAt time.Time,
) (TransitionRecord, error) {
	if err := orderID.Validate(); err != nil {
		return TransitionRecord{}, err
	}
	if toStep == "" {
		return TransitionRecord{}, errs.NewValueIsRequiredError("toStep")
	}

	return TransitionRecord{
		OrderID:    orderID,
		FromStep:   fromStep,
		ToStep:     toStep,
		ActorID:    actorID,
		Notes:      notes,
		Metadata:   metadata,
		OccurredAt: occurredAt,
	}, nil
}

// AuditRecord is the parallel append-only record written by the coarse-status
// path. It snapshots the coarse status before and after the change.
type AuditRecord struct {
	OrderID      kernel.UUID
	Action       string
	ActorID      *kernel.UUID
	StatusBefore Status
	StatusAfter  Status
	Notes        string
	OccurredAt   time.Time
}

// NewAuditRecord builds an audit record for a coarse status change.
func NewAuditRecord(
	orderID kernel.UUID,
	action string,
	actorID *kernel.UUID,
	before, after Status,
	notes string,
	occurredAt time.Time,
) (AuditRecord, error) {
	if err := orderID.Validate(); err != nil {
		return AuditRecord{}, err
	}
	if action == "" {
		return AuditRecord{}, errs.NewValueIsRequiredError("action")
	}

	return AuditRecord{
		OrderID:      orderID,
		Action:       action,
		ActorID:      actorID,
		StatusBefore: before,
		StatusAfter:  after,
		Notes:        notes,
		OccurredAt:   occurredAt,
	}, nil
}
