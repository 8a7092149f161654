package commands

import (
	"errors"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/domain/model/order"
	"workorders/internal/pkg/guard"
)

var (
	ErrChangeStatusCommandIsNotConstructed = errors.New(
		"ChangeStatusCommand must be created via NewChangeStatusCommand constructor",
	)
	ErrTargetStatusIsInvalid = errors.New("target status is not a recognized status")
)

// ChangeStatusCommand represents a request to change a work order's coarse
// status directly, without going through the detailed workflow. This is the
// legacy-compatible path; the reason is mandatory for the terminal targets,
// completed and cancelled (the coarse machine enforces that rule). Notes are
// optional free text recorded alongside the change, distinct from the reason.
type ChangeStatusCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	targetStatus order.Status
	reason       string
	actorID      *kernel.UUID
	notes        string

	guard guard.ConstructorGuard
}

// NewChangeStatusCommand creates a command to change an order's coarse status.
// Validates the order ID and that the target is one of the six statuses; the
// reason requirement itself is a state-machine rule, checked in the aggregate.
func NewChangeStatusCommand(
	orderID kernel.UUID,
	targetStatus order.Status,
	reason string,
	actorID *kernel.UUID,
	notes string,
) (ChangeStatusCommand, error) {
	command := ChangeStatusCommand{
		reason:  reason,
		actorID: actorID,
		notes:   notes,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setTargetStatus(targetStatus),
	); err != nil {
		return ChangeStatusCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrChangeStatusCommandIsNotConstructed if validation fails.
func (c ChangeStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeStatusCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to change.
func (c ChangeStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// TargetStatus returns the coarse status the order should move into.
func (c ChangeStatusCommand) TargetStatus() order.Status {
	return c.targetStatus
}

// Reason returns the free-text reason for the change.
func (c ChangeStatusCommand) Reason() string {
	return c.reason
}

// ActorID returns the optional id of who requested the change.
func (c ChangeStatusCommand) ActorID() *kernel.UUID {
	return c.actorID
}

// Notes returns the optional free-text annotation for the change.
func (c ChangeStatusCommand) Notes() string {
	return c.notes
}

func (c *ChangeStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ChangeStatusCommand) setTargetStatus(targetStatus order.Status) error {
	if err := targetStatus.Validate(); err != nil {
		return ErrTargetStatusIsInvalid
	}

	c.targetStatus = targetStatus
	return nil
}
