package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary. Client code manages
// the transaction lifecycle explicitly; repositories obtained from the unit
// of work are bound to the transaction started by Begin().
//
// The transition use cases rely on this boundary for their core guarantee:
// the order mutation and the history append commit together or not at all.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns an error if no transaction is active or the commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns an error if no transaction is active or the rollback fails.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current transaction.
	OrderRepository() OrderRepository

	// HistoryRepository returns a HistoryRepository bound to the current transaction.
	HistoryRepository() HistoryRepository

	// PlanningRepository returns a PlanningRepository bound to the current transaction.
	PlanningRepository() PlanningRepository

	// AlertRepository returns an AlertRepository bound to the current transaction.
	AlertRepository() AlertRepository

	// CostComparisonRepository returns a CostComparisonRepository bound to the
	// current transaction.
	CostComparisonRepository() CostComparisonRepository
}
