// Package postgres provides the GORM-based implementation of the Unit of Work
// pattern and the repositories behind the core ports. A unit of work is one
// business transaction: repositories obtained from it are bound to the
// transaction started by Begin, which is what lets a state mutation and its
// history record commit atomically.
package postgres

import (
	"context"

	"workorders/internal/adapters/out/postgres/alertrepo"
	"workorders/internal/adapters/out/postgres/costrepo"
	"workorders/internal/adapters/out/postgres/historyrepo"
	"workorders/internal/adapters/out/postgres/orderrepo"
	"workorders/internal/adapters/out/postgres/planningrepo"
	"workorders/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances over one GORM
// connection. Each business operation gets a fresh instance, isolated from
// concurrent operations.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work
// instances.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork with its own transaction state.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork coordinates one database transaction across the
// repositories. Repositories requested before Begin (or after
// Commit/Rollback) operate on the main connection without a transaction;
// that mode serves the post-commit triggers, which intentionally write
// outside the transition's transaction.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin initiates a new database transaction. Calling Begin again on an
// instance with an active transaction is a no-op, not a nested transaction.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes all changes made within the current transaction.
// Returns gorm.ErrInvalidTransaction if no transaction is active.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards all changes made within the current transaction.
// Returns gorm.ErrInvalidTransaction if no transaction is active.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// OrderRepository returns an order repository bound to the current
// transaction, if one is active.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn())
}

// HistoryRepository returns a history repository bound to the current
// transaction, if one is active.
func (uow *GormUnitOfWork) HistoryRepository() ports.HistoryRepository {
	return historyrepo.NewGormHistoryRepository(uow.conn())
}

// PlanningRepository returns a planning repository bound to the current
// transaction, if one is active.
func (uow *GormUnitOfWork) PlanningRepository() ports.PlanningRepository {
	return planningrepo.NewGormPlanningRepository(uow.conn())
}

// AlertRepository returns an alert repository bound to the current
// transaction, if one is active.
func (uow *GormUnitOfWork) AlertRepository() ports.AlertRepository {
	return alertrepo.NewGormAlertRepository(uow.conn())
}

// CostComparisonRepository returns a cost comparison repository bound to the
// current transaction, if one is active.
func (uow *GormUnitOfWork) CostComparisonRepository() ports.CostComparisonRepository {
	return costrepo.NewGormCostComparisonRepository(uow.conn())
}
