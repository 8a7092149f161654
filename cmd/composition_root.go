package cmd

import (
	"log/slog"

	"workorders/internal/adapters/out/postgres"
	"workorders/internal/adapters/out/postgres/alertrepo"
	"workorders/internal/adapters/out/postgres/costrepo"
	"workorders/internal/adapters/out/postgres/orderrepo"
	"workorders/internal/adapters/out/postgres/planningrepo"
	"workorders/internal/core/application/events"
	"workorders/internal/core/application/triggers"
	"workorders/internal/core/application/usecases/commands"
	"workorders/internal/core/application/usecases/queries"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	eventBus        *events.Bus
	triggerRegistry *triggers.Registry
}

func NewCompositionRoot(_ Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	// Triggers run after the transition's transaction committed, so their
	// repositories write on the main connection, outside any transaction.
	registry := triggers.NewDefaultRegistry(
		orderrepo.NewGormOrderRepository(gormDB),
		planningrepo.NewGormPlanningRepository(gormDB),
		alertrepo.NewGormAlertRepository(gormDB),
		costrepo.NewGormCostBreakdownProvider(gormDB),
		costrepo.NewGormCostComparisonRepository(gormDB),
		logger,
	)

	return CompositionRoot{
		gormDB:          gormDB,
		uowFactory:      *postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:          logger,
		eventBus:        events.NewBus(logger),
		triggerRegistry: registry,
	}
}

// EventBus exposes the shared bus so main can subscribe consumers before the
// server starts taking requests.
func (c *CompositionRoot) EventBus() *events.Bus {
	return c.eventBus
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	var f commands.LifecycleUoWFactory = FuncLifecycleUoWFactory(func() commands.LifecycleUoW {
		return c.uowFactory.Create()
	})
	return commands.NewTransitionOrderCommandHandler(f, c.eventBus, c.triggerRegistry)
}

func (c *CompositionRoot) CreateChangeStatusCommandHandler() commands.ChangeStatusCommandHandler {
	var f commands.LifecycleUoWFactory = FuncLifecycleUoWFactory(func() commands.LifecycleUoW {
		return c.uowFactory.Create()
	})
	return commands.NewChangeStatusCommandHandler(f, c.eventBus, c.logger)
}

func (c *CompositionRoot) CreateAssignTechnicianCommandHandler() commands.AssignTechnicianCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignTechnicianCommandHandler(f)
}

func (c *CompositionRoot) CreateEscalateUnsignedActasCommandHandler() commands.EscalateUnsignedActasCommandHandler {
	var f commands.EscalationUoWFactory = FuncEscalationUoWFactory(func() commands.EscalationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewEscalateUnsignedActasCommandHandler(f)
}

func (c *CompositionRoot) CreateGetStateInfoQueryHandler() queries.GetStateInfoQueryHandler {
	return queries.NewGetStateInfoQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetHistoryQueryHandler() queries.GetHistoryQueryHandler {
	return queries.NewGetHistoryQueryHandler(c.gormDB)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncLifecycleUoWFactory func() commands.LifecycleUoW

func (f FuncLifecycleUoWFactory) Create() commands.LifecycleUoW {
	return f()
}

type FuncEscalationUoWFactory func() commands.EscalationUoW

func (f FuncEscalationUoWFactory) Create() commands.EscalationUoW {
	return f()
}
