package ports

import (
	"context"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/domain/model/order"
)

// HistoryRepository persists the append-only transition and audit records.
// Records are immutable: the contract offers append and ordered reads only.
type HistoryRepository interface {
	// AppendTransition inserts one detailed-step history record.
	AppendTransition(ctx context.Context, record order.TransitionRecord) error

	// GetTransitions returns an order's transition records, oldest first.
	GetTransitions(ctx context.Context, orderID kernel.UUID) ([]order.TransitionRecord, error)

	// AppendAudit inserts one coarse-path audit record.
	AppendAudit(ctx context.Context, record order.AuditRecord) error

	// GetAudits returns an order's audit records, oldest first.
	GetAudits(ctx context.Context, orderID kernel.UUID) ([]order.AuditRecord, error)
}
