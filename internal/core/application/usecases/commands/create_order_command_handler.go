package commands

import (
	"context"
	"fmt"
	"time"

	"workorders/internal/core/domain/model/order"
)

// CreateOrderCommandHandler handles the business logic for order registration.
// Allocates the next OT-<year>-<seq> number and creates the order in pending
// status with no detailed step.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCreateOrderCommandHandler creates a handler for order registration.
// Requires an OrderUoWFactory for transactional persistence.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the order creation command and returns the allocated order
// number. The number counter and the insert share one transaction, so two
// concurrent creations cannot both observe the same count and commit.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	now := time.Now()
	prefix := fmt.Sprintf("OT-%d-", now.Year())
	count, err := orderRepo.CountByNumberPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}
	number := fmt.Sprintf("%s%04d", prefix, count+1)

	aggregate, err := order.NewOrder(cmd.OrderID(), number, now)
	if err != nil {
		return "", err
	}

	if err = orderRepo.Add(ctx, aggregate); err != nil {
		return "", err
	}

	if err = uow.Commit(ctx); err != nil {
		return "", err
	}

	return number, nil
}
