package historyrepo_test

import (
	"context"
	"testing"
	"time"

	"workorders/internal/adapters/out/postgres/historyrepo"
	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/domain/model/order"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// HistoryRepositoryIntegrationTestSuite verifies the append-only history
// storage against a real PostgreSQL instance.
type HistoryRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *historyrepo.GormHistoryRepository
}

func (suite *HistoryRepositoryIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(&historyrepo.TransitionDTO{}, &historyrepo.AuditDTO{}))
}

func (suite *HistoryRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(
		suite.db.Exec("TRUNCATE TABLE order_transition_history, order_audit_entries").Error,
	)
	suite.repository = historyrepo.NewGormHistoryRepository(suite.db)
}

func (suite *HistoryRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *HistoryRepositoryIntegrationTestSuite) TestAppendTransition_RoundTrip() {
	ctx := context.Background()

	orderID := kernel.NewUUID()
	actorID := kernel.NewUUID()
	occurredAt := time.Now().UTC().Truncate(time.Millisecond)

	record, err := order.NewTransitionRecord(
		orderID,
		order.SolicitudRecibida.String(),
		order.VisitaProgramada.String(),
		&actorID,
		"visit scheduled with the client",
		map[string]string{"channel": "phone", "scheduled_for": "2026-09-01"},
		occurredAt,
	)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.AppendTransition(ctx, record))

	records, err := suite.repository.GetTransitions(ctx, orderID)
	suite.Require().NoError(err)
	suite.Require().Len(records, 1)

	retrieved := records[0]
	suite.Equal(orderID, retrieved.OrderID)
	suite.Equal(order.SolicitudRecibida.String(), retrieved.FromStep)
	suite.Equal(order.VisitaProgramada.String(), retrieved.ToStep)
	suite.Require().NotNil(retrieved.ActorID)
	suite.True(retrieved.ActorID.IsEqual(actorID))
	suite.Equal("visit scheduled with the client", retrieved.Notes)
	suite.Equal(map[string]string{"channel": "phone", "scheduled_for": "2026-09-01"}, retrieved.Metadata)
	suite.WithinDuration(occurredAt, retrieved.OccurredAt, time.Millisecond)
}

func (suite *HistoryRepositoryIntegrationTestSuite) TestAppendTransition_EntryEdge_EmptyFromStep() {
	ctx := context.Background()

	orderID := kernel.NewUUID()
	record, err := order.NewTransitionRecord(
		orderID, "", order.SolicitudRecibida.String(), nil, "", nil,
		time.Now().UTC().Truncate(time.Millisecond),
	)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.AppendTransition(ctx, record))

	// The entry edge is stored as NULL, not as an empty string.
	var nullCount int64
	err = suite.db.Model(&historyrepo.TransitionDTO{}).
		Where("from_step IS NULL").
		Count(&nullCount).Error
	suite.Require().NoError(err)
	suite.Equal(int64(1), nullCount)

	records, err := suite.repository.GetTransitions(ctx, orderID)
	suite.Require().NoError(err)
	suite.Require().Len(records, 1)
	suite.Empty(records[0].FromStep)
	suite.Nil(records[0].ActorID)
	suite.Nil(records[0].Metadata)
}

func (suite *HistoryRepositoryIntegrationTestSuite) TestGetTransitions_OrderedOldestFirst() {
	ctx := context.Background()

	orderID := kernel.NewUUID()
	base := time.Now().UTC().Truncate(time.Millisecond).Add(-time.Hour)

	steps := []order.Step{
		order.SolicitudRecibida, order.VisitaProgramada, order.PropuestaElaborada,
	}
	// Insert newest first to make sure ordering comes from the query.
	for i := len(steps) - 1; i >= 0; i-- {
		record, err := order.NewTransitionRecord(
			orderID, fromStepAt(steps, i), steps[i].String(), nil, "", nil,
			base.Add(time.Duration(i)*time.Minute),
		)
		suite.Require().NoError(err)
		suite.Require().NoError(suite.repository.AppendTransition(ctx, record))
	}

	records, err := suite.repository.GetTransitions(ctx, orderID)
	suite.Require().NoError(err)
	suite.Require().Len(records, 3)
	for i, step := range steps {
		suite.Equal(step.String(), records[i].ToStep)
	}
}

func (suite *HistoryRepositoryIntegrationTestSuite) TestGetTransitions_FiltersByOrder() {
	ctx := context.Background()

	first := kernel.NewUUID()
	second := kernel.NewUUID()
	occurredAt := time.Now().UTC().Truncate(time.Millisecond)

	for _, orderID := range []kernel.UUID{first, second} {
		record, err := order.NewTransitionRecord(
			orderID, "", order.SolicitudRecibida.String(), nil, "", nil, occurredAt,
		)
		suite.Require().NoError(err)
		suite.Require().NoError(suite.repository.AppendTransition(ctx, record))
	}

	records, err := suite.repository.GetTransitions(ctx, first)
	suite.Require().NoError(err)
	suite.Require().Len(records, 1)
	suite.Equal(first, records[0].OrderID)
}

func (suite *HistoryRepositoryIntegrationTestSuite) TestAppendAudit_RoundTrip() {
	ctx := context.Background()

	orderID := kernel.NewUUID()
	actorID := kernel.NewUUID()
	occurredAt := time.Now().UTC().Truncate(time.Millisecond)

	record, err := order.NewAuditRecord(
		orderID, "status_change", &actorID,
		order.Pending, order.Planning,
		"approved by operations", occurredAt,
	)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.AppendAudit(ctx, record))

	records, err := suite.repository.GetAudits(ctx, orderID)
	suite.Require().NoError(err)
	suite.Require().Len(records, 1)

	retrieved := records[0]
	suite.Equal(orderID, retrieved.OrderID)
	suite.Equal("status_change", retrieved.Action)
	suite.Require().NotNil(retrieved.ActorID)
	suite.True(retrieved.ActorID.IsEqual(actorID))
	suite.Equal(order.Pending, retrieved.StatusBefore)
	suite.Equal(order.Planning, retrieved.StatusAfter)
	suite.Equal("approved by operations", retrieved.Notes)
	suite.WithinDuration(occurredAt, retrieved.OccurredAt, time.Millisecond)
}

func (suite *HistoryRepositoryIntegrationTestSuite) TestGetAudits_OrderedOldestFirst() {
	ctx := context.Background()

	orderID := kernel.NewUUID()
	base := time.Now().UTC().Truncate(time.Millisecond).Add(-time.Hour)

	changes := []struct {
		before, after order.Status
	}{
		{order.Pending, order.Planning},
		{order.Planning, order.Execution},
		{order.Execution, order.Paused},
	}
	for i := len(changes) - 1; i >= 0; i-- {
		record, err := order.NewAuditRecord(
			orderID, "status_change", nil,
			changes[i].before, changes[i].after, "",
			base.Add(time.Duration(i)*time.Minute),
		)
		suite.Require().NoError(err)
		suite.Require().NoError(suite.repository.AppendAudit(ctx, record))
	}

	records, err := suite.repository.GetAudits(ctx, orderID)
	suite.Require().NoError(err)
	suite.Require().Len(records, 3)
	for i, change := range changes {
		suite.Equal(change.before, records[i].StatusBefore)
		suite.Equal(change.after, records[i].StatusAfter)
	}
}

func (suite *HistoryRepositoryIntegrationTestSuite) TestGetTransitions_EmptyForUnknownOrder() {
	records, err := suite.repository.GetTransitions(context.Background(), kernel.NewUUID())
	suite.Require().NoError(err)
	suite.Empty(records)
}

func fromStepAt(steps []order.Step, i int) string {
	if i == 0 {
		return ""
	}
	return steps[i-1].String()
}

func TestHistoryRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(HistoryRepositoryIntegrationTestSuite))
}
