package postgres_test

import (
	"context"
	"testing"
	"time"

	"workorders/internal/adapters/out/postgres"
	"workorders/internal/adapters/out/postgres/alertrepo"
	"workorders/internal/adapters/out/postgres/costrepo"
	"workorders/internal/adapters/out/postgres/historyrepo"
	"workorders/internal/adapters/out/postgres/orderrepo"
	"workorders/internal/adapters/out/postgres/planningrepo"
	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/domain/model/order"
	"workorders/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite verifies transaction coordination against a
// real PostgreSQL instance, in particular that an order mutation and its
// history record commit or roll back together.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *pgcontainer.PostgresContainer
	db        *gorm.DB
	factory   *postgres.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := pgcontainer.Run(ctx,
		"postgres:15-alpine",
		pgcontainer.WithDatabase("testdb"),
		pgcontainer.WithUsername("testuser"),
		pgcontainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&historyrepo.TransitionDTO{},
		&historyrepo.AuditDTO{},
		&planningrepo.PlanningRecordDTO{},
		&alertrepo.AlertDTO{},
		&costrepo.ProposalDTO{},
		&costrepo.CostEntryDTO{},
		&costrepo.CostComparisonDTO{},
	))
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec(
		"TRUNCATE TABLE orders, order_transition_history, order_audit_entries, " +
			"planning_records, order_alerts, proposals, cost_entries, cost_comparisons",
	).Error)
	suite.factory = postgres.NewGormUnitOfWorkFactory(suite.db)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestFactory_Create_ReturnsIsolatedInstances() {
	first := suite.factory.Create()
	second := suite.factory.Create()

	suite.NotNil(first)
	suite.NotNil(second)
	suite.NotSame(first, second)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_ExposesAllRepositories() {
	uow := suite.factory.Create()

	suite.NotNil(uow.OrderRepository())
	suite.NotNil(uow.HistoryRepository())
	suite.NotNil(uow.PlanningRepository())
	suite.NotNil(uow.AlertRepository())
	suite.NotNil(uow.CostComparisonRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionLifecycle_BeginCommit() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))

	testOrder := suite.createTestOrder("OT-2026-0001")
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))

	suite.Require().NoError(uow.Commit(ctx))
	suite.assertOrderCount(1)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_WithoutTransaction_ReturnsError() {
	uow := suite.factory.Create()

	err := uow.Commit(context.Background())
	suite.Require().ErrorIs(err, gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_WithoutTransaction_ReturnsError() {
	uow := suite.factory.Create()

	err := uow.Rollback(context.Background())
	suite.Require().ErrorIs(err, gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestBegin_Twice_IsNoOp() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx))

	suite.Require().NoError(uow.Rollback(ctx))
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsOrderAndHistoryTogether() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := suite.createTestOrder("OT-2026-0002")
	now := time.Now().UTC().Truncate(time.Millisecond)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(testOrder.TransitionStep(order.SolicitudRecibida, now))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, testOrder))

	record, err := order.NewTransitionRecord(
		testOrder.ID(), "", order.SolicitudRecibida.String(), nil, "", nil, now,
	)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.HistoryRepository().AppendTransition(ctx, record))

	suite.Require().NoError(uow.Commit(ctx))

	suite.assertOrderCount(1)
	suite.assertTransitionCount(1)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsOrderAndHistoryTogether() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := suite.createTestOrder("OT-2026-0003")
	now := time.Now().UTC().Truncate(time.Millisecond)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))

	record, err := order.NewTransitionRecord(
		testOrder.ID(), "", order.SolicitudRecibida.String(), nil, "", nil, now,
	)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.HistoryRepository().AppendTransition(ctx, record))

	suite.Require().NoError(uow.Rollback(ctx))

	suite.assertOrderCount(0)
	suite.assertTransitionCount(0)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUncommittedChanges_InvisibleToOtherInstances() {
	ctx := context.Background()

	writer := suite.factory.Create()
	reader := suite.factory.Create()

	testOrder := suite.createTestOrder("OT-2026-0004")

	suite.Require().NoError(writer.Begin(ctx))
	suite.Require().NoError(writer.OrderRepository().Add(ctx, testOrder))

	_, err := reader.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().Error(err)

	suite.Require().NoError(writer.Commit(ctx))

	retrieved, err := reader.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrieved.ID())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRepositories_WithoutTransaction_WriteDirectly() {
	ctx := context.Background()
	uow := suite.factory.Create()

	// The post-commit triggers use repositories in exactly this mode.
	err := uow.AlertRepository().Upsert(ctx, ports.Alert{
		OrderID:   kernel.NewUUID(),
		AlertType: "acta_unsigned",
		Priority:  "warning",
		Title:     "Document pending signature",
		Message:   "The delivery certificate has not been signed yet",
	})
	suite.Require().NoError(err)

	var count int64
	suite.Require().NoError(suite.db.Model(&alertrepo.AlertDTO{}).Count(&count).Error)
	suite.Equal(int64(1), count)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRepositories_ReusableAfterCommit() {
	ctx := context.Background()
	uow := suite.factory.Create()

	first := suite.createTestOrder("OT-2026-0005")
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, first))
	suite.Require().NoError(uow.Commit(ctx))

	// After commit the same instance can start a fresh transaction.
	second := suite.createTestOrder("OT-2026-0006")
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, second))
	suite.Require().NoError(uow.Commit(ctx))

	suite.assertOrderCount(2)
}

func (suite *UnitOfWorkIntegrationTestSuite) createTestOrder(number string) *order.Order {
	testOrder, err := order.NewOrder(
		kernel.NewUUID(), number, time.Now().UTC().Truncate(time.Millisecond),
	)
	suite.Require().NoError(err)
	return testOrder
}

func (suite *UnitOfWorkIntegrationTestSuite) assertOrderCount(expected int) {
	var count int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error)
	suite.Equal(int64(expected), count)
}

func (suite *UnitOfWorkIntegrationTestSuite) assertTransitionCount(expected int) {
	var count int64
	suite.Require().NoError(suite.db.Model(&historyrepo.TransitionDTO{}).Count(&count).Error)
	suite.Equal(int64(expected), count)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
