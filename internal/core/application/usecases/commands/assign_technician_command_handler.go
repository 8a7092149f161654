package commands

import (
	"context"
	"time"
)

// AssignTechnicianCommandHandler handles technician assignment on an order.
type AssignTechnicianCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewAssignTechnicianCommandHandler creates a handler for technician
// assignment. Requires an OrderUoWFactory for transactional persistence.
func NewAssignTechnicianCommandHandler(uowFactory OrderUoWFactory) AssignTechnicianCommandHandler {
	return AssignTechnicianCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the assignment command. Returns ObjectNotFoundError when
// the order does not exist.
func (h AssignTechnicianCommandHandler) Handle(ctx context.Context, cmd AssignTechnicianCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.AssignTechnician(cmd.TechnicianID(), time.Now()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
