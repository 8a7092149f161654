package commands

import (
	"context"
	"log/slog"
	"time"

	"workorders/internal/core/application/events"
	"workorders/internal/core/domain/model/order"
)

// auditActionStatusChange labels coarse-path audit records.
const auditActionStatusChange = "status_change"

// representativeStep maps a coarse status onto the detailed step written into
// the shared transition history by the coarse path. The mapping is lossy
// (paused collapses onto execution, cancelled onto the initial step); the
// audit record and the history metadata keep the real statuses.
func representativeStep(status order.Status) order.Step {
	switch status {
	case order.Planning:
		return order.PlaneacionIniciada
	case order.Execution, order.Paused:
		return order.EjecucionIniciada
	case order.Completed:
		return order.PagoRecibido
	default: // Pending, Cancelled
		return order.SolicitudRecibida
	}
}

// ChangeStatusCommandHandler is the coarse-status write path. The status
// mutation and the audit record commit in one transaction; a representative
// transition-history row is appended best-effort inside the same transaction,
// so readers of the shared history see coarse changes too. After the commit
// it publishes the state-change event and logs a warning when the written
// pair drifts from the step projection (the known cost of having two entry
// points over one entity).
type ChangeStatusCommandHandler struct {
	uowFactory LifecycleUoWFactory
	publisher  events.Publisher
	logger     *slog.Logger
}

// NewChangeStatusCommandHandler creates the handler for coarse status changes.
func NewChangeStatusCommandHandler(
	uowFactory LifecycleUoWFactory,
	publisher events.Publisher,
	logger *slog.Logger,
) ChangeStatusCommandHandler {
	return ChangeStatusCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With("component", "change_status_handler"),
	}
}

// Handle processes the coarse status change and returns the same result
// shape as the detailed path, with the coarse statuses as from/to states and
// the step number of the target's representative step.
//
// Failure modes: ObjectNotFoundError for a missing order;
// *order.InvalidTransitionError and *order.MissingReasonError from the coarse
// machine; ValueIsRequiredError / ValueIsInvalidError from the execution
// guards (no technician, no line items).
func (h ChangeStatusCommandHandler) Handle(
	ctx context.Context, cmd ChangeStatusCommand,
) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return TransitionResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	historyRepo := uow.HistoryRepository()

	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return TransitionResult{}, err
	}

	before := aggregate.Status()
	target := cmd.TargetStatus()
	now := time.Now()

	if err = aggregate.ChangeStatus(target, cmd.Reason(), now); err != nil {
		return TransitionResult{}, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return TransitionResult{}, err
	}

	// The audit note is the justification when one was given, otherwise the
	// caller's free text.
	auditNotes := cmd.Reason()
	if auditNotes == "" {
		auditNotes = cmd.Notes()
	}

	audit, err := order.NewAuditRecord(
		cmd.OrderID(), auditActionStatusChange, cmd.ActorID(),
		before, target, auditNotes, now,
	)
	if err != nil {
		return TransitionResult{}, err
	}

	if err = historyRepo.AppendAudit(ctx, audit); err != nil {
		return TransitionResult{}, err
	}

	metadata := map[string]string{
		"source":        auditActionStatusChange,
		"status_before": before.String(),
		"status_after":  target.String(),
	}
	if cmd.Reason() != "" {
		metadata["reason"] = cmd.Reason()
	}

	// Best effort: the representative history row enriches the shared
	// timeline but the status change does not fail without it.
	record, recordErr := order.NewTransitionRecord(
		cmd.OrderID(),
		representativeStep(before).String(),
		representativeStep(target).String(),
		cmd.ActorID(),
		cmd.Notes(),
		metadata,
		now,
	)
	if recordErr == nil {
		recordErr = historyRepo.AppendTransition(ctx, record)
	}
	if recordErr != nil {
		h.logger.WarnContext(ctx, "representative history row not written",
			"order_id", cmd.OrderID().String(),
			"error", recordErr,
		)
	}

	if err = uow.Commit(ctx); err != nil {
		return TransitionResult{}, err
	}

	if consistencyErr := aggregate.CheckStateConsistency(); consistencyErr != nil {
		h.logger.WarnContext(ctx, "coarse status drifted from detailed step",
			"order_id", cmd.OrderID().String(),
			"step", aggregate.Step().String(),
			"status", target.String(),
			"error", consistencyErr,
		)
	}

	h.publisher.Publish(ctx, events.OrderStateChanged{
		OrderID:    cmd.OrderID(),
		FromState:  before.String(),
		ToState:    target.String(),
		ActorID:    cmd.ActorID(),
		OccurredAt: now,
	})

	return TransitionResult{
		OrderID:    cmd.OrderID(),
		FromState:  before.String(),
		ToState:    target.String(),
		StepNumber: representativeStep(target).Number(),
		OccurredAt: now,
	}, nil
}
