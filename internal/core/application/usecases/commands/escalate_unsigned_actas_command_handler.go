package commands

import (
	"context"
	"time"

	"workorders/internal/core/application/triggers"
	"workorders/internal/core/domain/model/order"
	"workorders/internal/core/ports"
)

// unsignedActaAge is how long an order may sit with an elaborated but
// unsigned certificate before the scan raises the alert.
const unsignedActaAge = 7 * 24 * time.Hour

// EscalateUnsignedActasCommandHandler scans for orders stuck in
// acta_elaborada beyond the age threshold and upserts the pending-signature
// alert for each. The upsert key makes repeated scans refresh the same alert
// instead of stacking new ones.
type EscalateUnsignedActasCommandHandler struct {
	uowFactory EscalationUoWFactory
}

// NewEscalateUnsignedActasCommandHandler creates the escalation handler.
func NewEscalateUnsignedActasCommandHandler(uowFactory EscalationUoWFactory) EscalateUnsignedActasCommandHandler {
	return EscalateUnsignedActasCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle runs one scan and returns how many orders were escalated.
func (h EscalateUnsignedActasCommandHandler) Handle(
	ctx context.Context, cmd EscalateUnsignedActasCommand,
) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	alertRepo := uow.AlertRepository()

	cutoff := time.Now().Add(-unsignedActaAge)
	stale, err := orderRepo.GetAllInStepOlderThan(ctx, order.ActaElaborada, cutoff)
	if err != nil {
		return 0, err
	}

	for _, aggregate := range stale {
		alert := ports.Alert{
			OrderID:   aggregate.ID(),
			AlertType: triggers.PendingSignatureAlertType,
			Priority:  "warning",
			Title:     "Document pending signature",
			Message:   "The delivery certificate has been waiting for a signature for more than 7 days",
		}
		if err = alertRepo.Upsert(ctx, alert); err != nil {
			return 0, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return len(stale), nil
}
