package queries_test

import (
	"context"
	"testing"
	"time"

	"workorders/internal/adapters/out/postgres/historyrepo"
	"workorders/internal/adapters/out/postgres/orderrepo"
	"workorders/internal/core/application/usecases/queries"
	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/domain/model/order"
	"workorders/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// GetHistoryQueryIntegrationTestSuite verifies the three-source history
// fallback against a real PostgreSQL instance.
type GetHistoryQueryIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetHistoryQueryHandler
}

func (suite *GetHistoryQueryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
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
	))
}

func (suite *GetHistoryQueryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec(
		"TRUNCATE TABLE orders, order_transition_history, order_audit_entries",
	).Error)
	suite.handler = queries.NewGetHistoryQueryHandler(suite.db)
}

func (suite *GetHistoryQueryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *GetHistoryQueryIntegrationTestSuite) TestHandle_WorkflowHistoryWins() {
	ctx := context.Background()

	orderID := suite.seedOrder("OT-2026-0001", order.Planning, order.PropuestaAprobada.String())
	actorID := kernel.NewUUID()
	base := time.Now().UTC().Truncate(time.Millisecond).Add(-time.Hour)

	suite.appendTransition(orderID, "", order.SolicitudRecibida.String(), nil, "", nil, base)
	suite.appendTransition(
		orderID, order.SolicitudRecibida.String(), order.VisitaProgramada.String(),
		&actorID, "visit booked", map[string]string{"channel": "phone"},
		base.Add(time.Minute),
	)
	// An audit row also exists; the detailed history must still win.
	suite.appendAudit(orderID, order.Pending, order.Planning, base.Add(2*time.Minute))

	entries, err := suite.handler.Handle(ctx, suite.queryFor(orderID))
	suite.Require().NoError(err)
	suite.Require().Len(entries, 2)

	suite.Empty(entries[0].FromState)
	suite.Equal(order.SolicitudRecibida.String(), entries[0].ToState)
	suite.Equal(queries.HistorySourceWorkflow, entries[0].Source)

	suite.Equal(order.SolicitudRecibida.String(), entries[1].FromState)
	suite.Equal(order.VisitaProgramada.String(), entries[1].ToState)
	suite.Require().NotNil(entries[1].ActorID)
	suite.True(entries[1].ActorID.IsEqual(actorID))
	suite.Equal("visit booked", entries[1].Notes)
	suite.Equal(map[string]string{"channel": "phone"}, entries[1].Metadata)
	suite.Equal(queries.HistorySourceWorkflow, entries[1].Source)
}

func (suite *GetHistoryQueryIntegrationTestSuite) TestHandle_AuditFallback() {
	ctx := context.Background()

	orderID := suite.seedOrder("OT-2026-0002", order.Execution, "")
	base := time.Now().UTC().Truncate(time.Millisecond).Add(-time.Hour)

	suite.appendAudit(orderID, order.Pending, order.Planning, base)
	suite.appendAudit(orderID, order.Planning, order.Execution, base.Add(time.Minute))

	entries, err := suite.handler.Handle(ctx, suite.queryFor(orderID))
	suite.Require().NoError(err)
	suite.Require().Len(entries, 2)

	suite.Equal("pending", entries[0].FromState)
	suite.Equal("planning", entries[0].ToState)
	suite.Equal(queries.HistorySourceAudit, entries[0].Source)

	suite.Equal("planning", entries[1].FromState)
	suite.Equal("execution", entries[1].ToState)
	suite.Equal(queries.HistorySourceAudit, entries[1].Source)
}

func (suite *GetHistoryQueryIntegrationTestSuite) TestHandle_SyntheticFallback() {
	ctx := context.Background()

	orderID := suite.seedOrder("OT-2026-0003", order.Pending, "")

	entries, err := suite.handler.Handle(ctx, suite.queryFor(orderID))
	suite.Require().NoError(err)
	suite.Require().Len(entries, 1)

	suite.Empty(entries[0].FromState)
	suite.Equal("pending", entries[0].ToState)
	suite.Equal(queries.HistorySourceSynthetic, entries[0].Source)
	suite.Equal("reconstructed from current status", entries[0].Notes)
}

func (suite *GetHistoryQueryIntegrationTestSuite) TestHandle_NonExistentOrder_ReturnsNotFoundError() {
	ctx := context.Background()

	_, err := suite.handler.Handle(ctx, suite.queryFor(kernel.NewUUID()))
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *GetHistoryQueryIntegrationTestSuite) queryFor(orderID kernel.UUID) queries.GetHistoryQuery {
	query, err := queries.NewGetHistoryQuery(orderID)
	suite.Require().NoError(err)
	return query
}

func (suite *GetHistoryQueryIntegrationTestSuite) seedOrder(
	number string, status order.Status, storedStep string,
) kernel.UUID {
	id := kernel.NewUUID()
	now := time.Now().UTC().Truncate(time.Millisecond)
	testOrder, err := order.RestoreOrder(
		id, number, status, storedStep, nil, 0, now, now, nil, nil,
	)
	suite.Require().NoError(err)
	suite.Require().NoError(orderrepo.NewGormOrderRepository(suite.db).Add(context.Background(), testOrder))
	return id
}

func (suite *GetHistoryQueryIntegrationTestSuite) appendTransition(
	orderID kernel.UUID,
	fromStep, toStep string,
	actorID *kernel.UUID,
	notes string,
	metadata map[string]string,
	occurredAt time.Time,
) {
	record, err := order.NewTransitionRecord(orderID, fromStep, toStep, actorID, notes, metadata, occurredAt)
	suite.Require().NoError(err)
	suite.Require().NoError(
		historyrepo.NewGormHistoryRepository(suite.db).AppendTransition(context.Background(), record),
	)
}

func (suite *GetHistoryQueryIntegrationTestSuite) appendAudit(
	orderID kernel.UUID, before, after order.Status, occurredAt time.Time,
) {
	record, err := order.NewAuditRecord(orderID, "status_change", nil, before, after, "", occurredAt)
	suite.Require().NoError(err)
	suite.Require().NoError(
		historyrepo.NewGormHistoryRepository(suite.db).AppendAudit(context.Background(), record),
	)
}

func TestGetHistoryQueryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(GetHistoryQueryIntegrationTestSuite))
}
