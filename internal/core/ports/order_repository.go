package ports

import (
	"context"
	"time"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for the order aggregate's
// lifecycle fields.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns ObjectNotFoundError when the order does not exist.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllInStepOlderThan retrieves orders whose detailed step equals step
	// and whose last update is before cutoff. Used by the pending-signature
	// escalation job.
	GetAllInStepOlderThan(ctx context.Context, step order.Step, cutoff time.Time) ([]*order.Order, error)

	// CountByNumberPrefix counts orders whose number starts with the prefix.
	// Used to allocate the next per-year order number.
	CountByNumberPrefix(ctx context.Context, prefix string) (int64, error)
}
