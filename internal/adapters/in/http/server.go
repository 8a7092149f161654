// Package http exposes the lifecycle engine over a small JSON API. The
// adapter stays thin: it parses requests, delegates to command and query
// handlers, and maps domain errors onto HTTP status codes.
package http

import (
	"errors"
	"net/http"
	"time"

	"workorders/internal/core/application/usecases/commands"
	"workorders/internal/core/application/usecases/queries"
	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/domain/model/order"
	"workorders/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server implements the HTTP handlers for the order lifecycle API.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler      commands.CreateOrderCommandHandler
	transitionOrderHandler  commands.TransitionOrderCommandHandler
	changeStatusHandler     commands.ChangeStatusCommandHandler
	assignTechnicianHandler commands.AssignTechnicianCommandHandler

	// Query handlers
	getStateInfoHandler queries.GetStateInfoQueryHandler
	getHistoryHandler   queries.GetHistoryQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	transitionOrderHandler commands.TransitionOrderCommandHandler,
	changeStatusHandler commands.ChangeStatusCommandHandler,
	assignTechnicianHandler commands.AssignTechnicianCommandHandler,
	getStateInfoHandler queries.GetStateInfoQueryHandler,
	getHistoryHandler queries.GetHistoryQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:      createOrderHandler,
		transitionOrderHandler:  transitionOrderHandler,
		changeStatusHandler:     changeStatusHandler,
		assignTechnicianHandler: assignTechnicianHandler,
		getStateInfoHandler:     getStateInfoHandler,
		getHistoryHandler:       getHistoryHandler,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.POST("/orders/:id/transition", s.TransitionOrder)
	api.POST("/orders/:id/status", s.ChangeStatus)
	api.POST("/orders/:id/technician", s.AssignTechnician)
	api.GET("/orders/:id/state", s.GetStateInfo)
	api.GET("/orders/:id/history", s.GetHistory)
}

// Error is the JSON error body returned by every failing endpoint.
type Error struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Allowed []string `json:"allowed,omitempty"`
}

// CreatedOrder is the response body of POST /orders.
type CreatedOrder struct {
	ID     string `json:"id"`
	Number string `json:"number"`
}

// CreateOrder handles POST /api/v1/orders - registers a new work order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	orderID := kernel.NewUUID()

	cmd, err := commands.NewCreateOrderCommand(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	number, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedOrder{
		ID:     orderID.String(),
		Number: number,
	})
}

// TransitionRequest is the request body of POST /orders/:id/transition.
type TransitionRequest struct {
	TargetStep string            `json:"target_step"`
	ActorID    *string           `json:"actor_id,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// TransitionResponse is the response body of a successful transition.
type TransitionResponse struct {
	OrderID    string    `json:"order_id"`
	FromState  string    `json:"from_state,omitempty"`
	ToState    string    `json:"to_state"`
	StepNumber int       `json:"step_number"`
	OccurredAt time.Time `json:"occurred_at"`
}

// TransitionOrder handles POST /api/v1/orders/:id/transition - advances an
// order one step along the detailed workflow.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var request TransitionRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	targetStep, ok := order.ParseStep(request.TargetStep)
	if !ok {
		return badRequest(ctx, "Unknown target step: "+request.TargetStep)
	}

	actorID, err := parseOptionalActor(request.ActorID)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewTransitionOrderCommand(
		orderID, targetStep, actorID, request.Notes, request.Metadata,
	)
	if err != nil {
		return writeError(ctx, err)
	}

	result, err := s.transitionOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, TransitionResponse{
		OrderID:    result.OrderID.String(),
		FromState:  result.FromState,
		ToState:    result.ToState,
		StepNumber: result.StepNumber,
		OccurredAt: result.OccurredAt,
	})
}

// ChangeStatusRequest is the request body of POST /orders/:id/status.
type ChangeStatusRequest struct {
	TargetStatus string  `json:"target_status"`
	Reason       string  `json:"reason,omitempty"`
	ActorID      *string `json:"actor_id,omitempty"`
	Notes        string  `json:"notes,omitempty"`
}

// ChangeStatus handles POST /api/v1/orders/:id/status - moves an order on the
// coarse status machine.
func (s *Server) ChangeStatus(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var request ChangeStatusRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	targetStatus, ok := order.ParseStatus(request.TargetStatus)
	if !ok {
		return badRequest(ctx, "Unknown target status: "+request.TargetStatus)
	}

	actorID, err := parseOptionalActor(request.ActorID)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewChangeStatusCommand(
		orderID, targetStatus, request.Reason, actorID, request.Notes,
	)
	if err != nil {
		return writeError(ctx, err)
	}

	result, err := s.changeStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, TransitionResponse{
		OrderID:    result.OrderID.String(),
		FromState:  result.FromState,
		ToState:    result.ToState,
		StepNumber: result.StepNumber,
		OccurredAt: result.OccurredAt,
	})
}

// AssignTechnicianRequest is the request body of POST /orders/:id/technician.
type AssignTechnicianRequest struct {
	TechnicianID string `json:"technician_id"`
}

// AssignTechnician handles POST /api/v1/orders/:id/technician.
func (s *Server) AssignTechnician(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var request AssignTechnicianRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	technicianID, err := kernel.UUIDFromString(request.TechnicianID)
	if err != nil {
		return badRequest(ctx, "Invalid technician id")
	}

	cmd, err := commands.NewAssignTechnicianCommand(orderID, technicianID)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.assignTechnicianHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// StateInfo is the response body of GET /orders/:id/state.
type StateInfo struct {
	OrderID              string   `json:"order_id"`
	Number               string   `json:"number"`
	CurrentStatus        string   `json:"current_status"`
	CurrentStep          string   `json:"current_step,omitempty"`
	StepNumber           int      `json:"step_number"`
	NextPossibleStatuses []string `json:"next_possible_statuses"`
	NextPossibleSteps    []string `json:"next_possible_steps"`
	IsFinal              bool     `json:"is_final"`
}

// GetStateInfo handles GET /api/v1/orders/:id/state.
func (s *Server) GetStateInfo(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetStateInfoQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	info, err := s.getStateInfoHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, StateInfo{
		OrderID:              info.OrderID.String(),
		Number:               info.Number,
		CurrentStatus:        info.CurrentStatus,
		CurrentStep:          info.CurrentStep,
		StepNumber:           info.StepNumber,
		NextPossibleStatuses: info.NextPossibleStatuses,
		NextPossibleSteps:    info.NextPossibleSteps,
		IsFinal:              info.IsFinal,
	})
}

// HistoryEntry is one element of the GET /orders/:id/history response.
type HistoryEntry struct {
	FromState  string            `json:"from_state,omitempty"`
	ToState    string            `json:"to_state"`
	ActorID    *string           `json:"actor_id,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Source     string            `json:"source"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// GetHistory handles GET /api/v1/orders/:id/history.
func (s *Server) GetHistory(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetHistoryQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	entries, err := s.getHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]HistoryEntry, len(entries))
	for i, entry := range entries {
		var actorID *string
		if entry.ActorID != nil {
			value := entry.ActorID.String()
			actorID = &value
		}

		response[i] = HistoryEntry{
			FromState:  entry.FromState,
			ToState:    entry.ToState,
			ActorID:    actorID,
			Notes:      entry.Notes,
			Metadata:   entry.Metadata,
			Source:     entry.Source,
			OccurredAt: entry.OccurredAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

func parseOrderID(ctx echo.Context) (kernel.UUID, error) {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("order id", err)
	}
	return orderID, nil
}

func parseOptionalActor(raw *string) (*kernel.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}

	actorID, err := kernel.UUIDFromString(*raw)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("actor id", err)
	}
	return &actorID, nil
}

// writeError maps domain errors onto HTTP status codes: missing objects
// become 404, rejected transitions 409, validation failures 400, everything
// else 500.
func writeError(ctx echo.Context, err error) error {
	var invalidTransition *order.InvalidTransitionError
	if errors.As(err, &invalidTransition) {
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: invalidTransition.Error(),
			Allowed: invalidTransition.Allowed,
		})
	}

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, order.ErrMissingReason),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired):
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
		})
	}
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}
