package commands

import (
	"context"
	"time"

	"workorders/internal/core/application/events"
	"workorders/internal/core/application/triggers"
	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/domain/model/order"
)

// TransitionResult summarizes a committed detailed-step transition.
type TransitionResult struct {
	OrderID    kernel.UUID
	FromState  string // empty when the order had not entered the flow
	ToState    string
	StepNumber int
	OccurredAt time.Time
}

// TransitionOrderCommandHandler is the single write path of the detailed
// workflow. It loads the order, lets the aggregate validate and apply the
// transition, and commits the order mutation together with exactly one
// history record. Only after the commit does it publish the state-change
// event and fire the step's triggers; their failures are logged inside the
// bus and registry and never reach the caller, and nothing is rolled back
// for them.
type TransitionOrderCommandHandler struct {
	uowFactory LifecycleUoWFactory
	publisher  events.Publisher
	triggers   *triggers.Registry
}

// NewTransitionOrderCommandHandler creates the handler for detailed-step
// transitions. Requires a LifecycleUoWFactory plus the post-commit
// collaborators: the event publisher and the trigger registry.
func NewTransitionOrderCommandHandler(
	uowFactory LifecycleUoWFactory,
	publisher events.Publisher,
	registry *triggers.Registry,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		triggers:   registry,
	}
}

// Handle processes the transition command.
//
// Failure modes pass through from the aggregate: ObjectNotFoundError for a
// missing order, *order.InvalidTransitionError for an edge not in the matrix,
// ValueIsInvalidError when the stored step was unrecognized. Any error before
// Commit rolls back both writes.
func (h TransitionOrderCommandHandler) Handle(
	ctx context.Context, cmd TransitionOrderCommand,
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

	fromState := ""
	if aggregate.HasStep() {
		fromState = aggregate.Step().String()
	}

	now := time.Now()
	target := cmd.TargetStep()

	if err = aggregate.TransitionStep(target, now); err != nil {
		return TransitionResult{}, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return TransitionResult{}, err
	}

	record, err := order.NewTransitionRecord(
		cmd.OrderID(), fromState, target.String(),
		cmd.ActorID(), cmd.Notes(), cmd.Metadata(), now,
	)
	if err != nil {
		return TransitionResult{}, err
	}

	if err = historyRepo.AppendTransition(ctx, record); err != nil {
		return TransitionResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return TransitionResult{}, err
	}

	h.publisher.Publish(ctx, events.OrderStateChanged{
		OrderID:    cmd.OrderID(),
		FromState:  fromState,
		ToState:    target.String(),
		ActorID:    cmd.ActorID(),
		OccurredAt: now,
	})
	h.triggers.Run(ctx, target, cmd.OrderID())

	return TransitionResult{
		OrderID:    cmd.OrderID(),
		FromState:  fromState,
		ToState:    target.String(),
		StepNumber: target.Number(),
		OccurredAt: now,
	}, nil
}
