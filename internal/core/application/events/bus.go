// Package events carries the order.state.changed notification and the
// in-process bus that delivers it. Delivery is synchronous and at most once:
// subscribers run on the publisher's goroutine strictly after the state
// change committed, and a crash between commit and publish drops the event.
// There is no retry, outbox, or dead-letter handling.
package events

import (
	"context"
	"log/slog"
	"time"

	"workorders/internal/core/domain/model/kernel"
)

// OrderStateChangedName is the event name consumers subscribe to conceptually;
// it is carried in logs and outbound payloads.
const OrderStateChangedName = "order.state.changed"

// OrderStateChanged is published after every committed transition, from both
// the detailed and the coarse path.
type OrderStateChanged struct {
	OrderID    kernel.UUID
	FromState  string
	ToState    string
	ActorID    *kernel.UUID
	OccurredAt time.Time
}

// Publisher is the outbound port for state-change notifications.
type Publisher interface {
	Publish(ctx context.Context, event OrderStateChanged)
}

// Handler consumes a state-change event. Handler errors are logged and
// swallowed; they never affect the publisher.
type Handler func(ctx context.Context, event OrderStateChanged) error

// Bus is the in-process synchronous implementation of Publisher.
// Subscribers run in subscription order. Bus is not safe for concurrent
// subscription after publishing starts; subscribe during composition.
type Bus struct {
	handlers []Handler
	logger   *slog.Logger
}

// NewBus creates an empty bus logging handler failures through logger.
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		logger: logger.With("component", "event_bus"),
	}
}

// Subscribe registers a handler for every subsequent publication.
func (b *Bus) Subscribe(handler Handler) {
	b.handlers = append(b.handlers, handler)
}

// Publish delivers the event to all handlers synchronously. A failing handler
// is logged and does not block the remaining handlers.
func (b *Bus) Publish(ctx context.Context, event OrderStateChanged) {
	for _, handler := range b.handlers {
		if err := handler(ctx, event); err != nil {
			b.logger.ErrorContext(ctx, "event handler failed",
				"event", OrderStateChangedName,
				"order_id", event.OrderID.String(),
				"to_state", event.ToState,
				"error", err,
			)
		}
	}
}
