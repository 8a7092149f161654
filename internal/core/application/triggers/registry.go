// Package triggers runs the best-effort side effects attached to detailed-step
// transitions. A trigger fires after its transition has committed, outside any
// transaction: a failure is logged and swallowed, never rolled back into the
// transition, and never blocks the remaining triggers for the same step.
//
// Handlers are idempotent: their side effects are keyed on the order (and, for
// alerts, the alert type), so re-entering a step through the rejection
// loop-back updates existing records instead of duplicating them.
package triggers

import (
	"context"
	"log/slog"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/domain/model/order"
)

// Handler is one side effect executed when an order enters a step.
type Handler interface {
	// Name identifies the handler in logs.
	Name() string

	// Execute performs the side effect for the order. Errors are reported to
	// the registry's logger and go no further.
	Execute(ctx context.Context, orderID kernel.UUID) error
}

// Registry maps a target detailed step to the handlers fired on entry,
// in registration order.
type Registry struct {
	handlers map[order.Step][]Handler
	logger   *slog.Logger
}

// NewRegistry creates an empty registry logging through logger.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		handlers: make(map[order.Step][]Handler),
		logger:   logger.With("component", "trigger_registry"),
	}
}

// Register appends a handler to the step's list. Registration order is
// execution order.
func (r *Registry) Register(step order.Step, handler Handler) {
	r.handlers[step] = append(r.handlers[step], handler)
}

// HandlersFor returns the handlers registered for a step, in execution order.
func (r *Registry) HandlersFor(step order.Step) []Handler {
	return r.handlers[step]
}

// Run executes every handler registered for the step. Each handler fails
// independently: an error is logged with the order id and target step and the
// next handler still runs. Run never returns an error to the caller.
func (r *Registry) Run(ctx context.Context, step order.Step, orderID kernel.UUID) {
	for _, handler := range r.handlers[step] {
		if err := handler.Execute(ctx, orderID); err != nil {
			r.logger.ErrorContext(ctx, "trigger failed",
				"trigger", handler.Name(),
				"order_id", orderID.String(),
				"step", step.String(),
				"error", err,
			)
		}
	}
}
