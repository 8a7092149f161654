package commands

import (
	"errors"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/domain/model/order"
	"workorders/internal/pkg/guard"
)

var (
	ErrTransitionOrderCommandIsNotConstructed = errors.New(
		"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
	)
	ErrTargetStepIsInvalid = errors.New("target step is not a recognized workflow step")
)

// TransitionOrderCommand represents a request to move a work order to the next
// detailed workflow step. Actor, notes and metadata are optional context that
// ends up in the history record.
//
// Example:
//
//	cmd, err := NewTransitionOrderCommand(orderID, order.VisitaProgramada, &actorID, "site visit booked", nil)
//	if err != nil {
//	    return err
//	}
//
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("order %s is now at %s (step %d)", result.OrderID, result.ToState, result.StepNumber)
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	targetStep order.Step
	actorID    *kernel.UUID
	notes      string
	metadata   map[string]string

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand creates a command to advance an order's detailed
// step. Validates that the order ID is constructed and the target is one of
// the 14 workflow steps (the pseudo-values are rejected here, before any
// matrix lookup).
func NewTransitionOrderCommand(
	orderID kernel.UUID,
	targetStep order.Step,
	actorID *kernel.UUID,
	notes string,
	metadata map[string]string,
) (TransitionOrderCommand, error) {
	command := TransitionOrderCommand{
		actorID:  actorID,
		notes:    notes,
		metadata: metadata,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setTargetStep(targetStep),
	); err != nil {
		return TransitionOrderCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrTransitionOrderCommandIsNotConstructed if validation fails.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to transition.
func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// TargetStep returns the step the order should move into.
func (c TransitionOrderCommand) TargetStep() order.Step {
	return c.targetStep
}

// ActorID returns the optional id of who requested the transition.
func (c TransitionOrderCommand) ActorID() *kernel.UUID {
	return c.actorID
}

// Notes returns the optional free-text note for the history record.
func (c TransitionOrderCommand) Notes() string {
	return c.notes
}

// Metadata returns the optional key-value context for the history record.
func (c TransitionOrderCommand) Metadata() map[string]string {
	return c.metadata
}

func (c *TransitionOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *TransitionOrderCommand) setTargetStep(targetStep order.Step) error {
	if targetStep.Number() == 0 {
		return ErrTargetStepIsInvalid
	}

	c.targetStep = targetStep
	return nil
}
