package queries

import (
	"context"
	"database/sql"
	"errors"

	"workorders/internal/core/domain/model/order"
	"workorders/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetStateInfoQueryHandler reads an order's lifecycle position from the
// database and derives the reachable states from the two transition tables.
type GetStateInfoQueryHandler struct {
	db *gorm.DB
}

// NewGetStateInfoQueryHandler creates a handler for state-info queries.
// Requires a GORM database connection for query execution.
func NewGetStateInfoQueryHandler(db *gorm.DB) GetStateInfoQueryHandler {
	return GetStateInfoQueryHandler{db: db}
}

// Handle executes the query. Returns ObjectNotFoundError when the order does
// not exist.
func (h GetStateInfoQueryHandler) Handle(
	ctx context.Context,
	query GetStateInfoQuery,
) (GetStateInfoQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetStateInfoQueryResponse{}, err
	}

	var (
		number     string
		statusCode int
		storedStep sql.NullString
	)

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			number,
			status,
			step
		FROM orders
		WHERE id = ?
	`, query.OrderID().String()).Row()

	err := row.Scan(&number, &statusCode, &storedStep)
	if errors.Is(err, sql.ErrNoRows) {
		return GetStateInfoQueryResponse{}, errs.NewObjectNotFoundError("orderID", query.OrderID())
	}
	if err != nil {
		return GetStateInfoQueryResponse{}, err
	}

	status := order.Status(statusCode)
	response := GetStateInfoQueryResponse{
		OrderID:              query.OrderID(),
		Number:               number,
		CurrentStatus:        status.String(),
		NextPossibleStatuses: statusNames(status.AllowedTransitions()),
		IsFinal:              status.IsTerminal(),
	}

	if !storedStep.Valid || storedStep.String == "" {
		// Not in the detailed flow yet: the only step it can enter is the
		// flow's first one.
		response.NextPossibleSteps = stepNames(order.StepNone.NextPossibleSteps())
		return response, nil
	}

	step, ok := order.ParseStep(storedStep.String)
	if !ok {
		response.CurrentStep = storedStep.String
		return response, nil
	}

	response.CurrentStep = step.String()
	response.StepNumber = step.Number()
	response.NextPossibleSteps = stepNames(step.NextPossibleSteps())
	// In the detailed flow finality belongs to the step matrix: the status
	// projects to completed from ses_aprobada onward, but the workflow only
	// ends at pago_recibido.
	response.IsFinal = step.IsFinal()
	return response, nil
}

func statusNames(statuses []order.Status) []string {
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.String())
	}
	return names
}

func stepNames(steps []order.Step) []string {
	names := make([]string, 0, len(steps))
	for _, s := range steps {
		names = append(names, s.String())
	}
	return names
}
