// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"workorders/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each command declares the narrowest unit of work it needs, so the handler's
// dependency states exactly which repositories participate in its transaction.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// HistoryRepoFactory provides access to the history repository within a transaction.
	HistoryRepoFactory interface {
		HistoryRepository() ports.HistoryRepository
	}

	// AlertRepoFactory provides access to the alert repository within a transaction.
	AlertRepoFactory interface {
		AlertRepository() ports.AlertRepository
	}

	// OrderUoW manages transactions for order-only operations
	// (creation, technician assignment).
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// LifecycleUoW manages transactions spanning the order row and the
	// append-only history. Both transition paths depend on this pairing:
	// the state mutation and its history record commit together or not at all.
	LifecycleUoW interface {
		TxManager
		OrderRepoFactory
		HistoryRepoFactory
	}

	// LifecycleUoWFactory creates new lifecycle unit of work instances.
	LifecycleUoWFactory interface {
		Create() LifecycleUoW
	}

	// EscalationUoW manages transactions for the scheduled escalation scan,
	// which reads stale orders and upserts alerts.
	EscalationUoW interface {
		TxManager
		OrderRepoFactory
		AlertRepoFactory
	}

	// EscalationUoWFactory creates new escalation unit of work instances.
	EscalationUoWFactory interface {
		Create() EscalationUoW
	}
)
