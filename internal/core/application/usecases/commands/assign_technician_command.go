package commands

import (
	"errors"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/pkg/guard"
)

var ErrAssignTechnicianCommandIsNotConstructed = errors.New(
	"AssignTechnicianCommand must be created via NewAssignTechnicianCommand constructor",
)

// AssignTechnicianCommand represents a request to assign a technician to a
// work order. The assignment is what the execution guard checks before the
// coarse path may move an order into execution.
type AssignTechnicianCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	technicianID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignTechnicianCommand creates a command to assign a technician.
// Both identifiers must be constructed UUIDs.
func NewAssignTechnicianCommand(orderID, technicianID kernel.UUID) (AssignTechnicianCommand, error) {
	command := AssignTechnicianCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setTechnicianID(technicianID),
	); err != nil {
		return AssignTechnicianCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAssignTechnicianCommandIsNotConstructed if validation fails.
func (c AssignTechnicianCommand) Validate() error {
	return c.guard.Validate(ErrAssignTechnicianCommandIsNotConstructed)
}

// OrderID returns the identifier of the order.
func (c AssignTechnicianCommand) OrderID() kernel.UUID {
	return c.orderID
}

// TechnicianID returns the identifier of the technician to assign.
func (c AssignTechnicianCommand) TechnicianID() kernel.UUID {
	return c.technicianID
}

func (c *AssignTechnicianCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AssignTechnicianCommand) setTechnicianID(technicianID kernel.UUID) error {
	if err := technicianID.Validate(); err != nil {
		return err
	}

	c.technicianID = technicianID
	return nil
}
