package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/domain/model/order"
	"workorders/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetHistoryQueryHandler assembles an order's timeline from the three
// history sources.
type GetHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetHistoryQueryHandler creates a handler for history queries.
// Requires a GORM database connection for query execution.
func NewGetHistoryQueryHandler(db *gorm.DB) GetHistoryQueryHandler {
	return GetHistoryQueryHandler{db: db}
}

// Handle executes the query. Returns ObjectNotFoundError when the order does
// not exist; otherwise the result holds at least one entry.
func (h GetHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetHistoryQuery,
) ([]HistoryEntry, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	// The synthetic fallback needs the order row anyway, so existence is
	// checked up front.
	var (
		statusCode int
		createdAt  time.Time
	)
	row := h.db.WithContext(ctx).Raw(`
		SELECT
			status,
			created_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().String()).Row()

	err := row.Scan(&statusCode, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewObjectNotFoundError("orderID", query.OrderID())
	}
	if err != nil {
		return nil, err
	}

	entries, err := h.workflowEntries(ctx, query.OrderID())
	if err != nil {
		return nil, err
	}
	if len(entries) > 0 {
		return entries, nil
	}

	entries, err = h.auditEntries(ctx, query.OrderID())
	if err != nil {
		return nil, err
	}
	if len(entries) > 0 {
		return entries, nil
	}

	return []HistoryEntry{{
		ToState:    order.Status(statusCode).String(),
		Notes:      "reconstructed from current status",
		Source:     HistorySourceSynthetic,
		OccurredAt: createdAt,
	}}, nil
}

func (h GetHistoryQueryHandler) workflowEntries(
	ctx context.Context, orderID kernel.UUID,
) ([]HistoryEntry, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			from_step,
			to_step,
			actor_id,
			notes,
			metadata,
			occurred_at
		FROM order_transition_history
		WHERE order_id = ?
		ORDER BY occurred_at, id
	`, orderID.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0)
	for rows.Next() {
		var (
			fromStep   sql.NullString
			toStep     string
			actorID    *uuid.UUID
			notes      sql.NullString
			metadata   []byte
			occurredAt time.Time
		)
		if err = rows.Scan(&fromStep, &toStep, &actorID, &notes, &metadata, &occurredAt); err != nil {
			return nil, err
		}

		entry := HistoryEntry{
			FromState:  fromStep.String,
			ToState:    toStep,
			Notes:      notes.String,
			Source:     HistorySourceWorkflow,
			OccurredAt: occurredAt,
		}

		if actorID != nil {
			actor, idErr := kernel.UUIDFromBytes((*actorID)[:])
			if idErr != nil {
				return nil, idErr
			}
			entry.ActorID = &actor
		}

		if len(metadata) > 0 {
			if err = json.Unmarshal(metadata, &entry.Metadata); err != nil {
				return nil, err
			}
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (h GetHistoryQueryHandler) auditEntries(
	ctx context.Context, orderID kernel.UUID,
) ([]HistoryEntry, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			status_before,
			status_after,
			actor_id,
			notes,
			occurred_at
		FROM order_audit_entries
		WHERE order_id = ?
		ORDER BY occurred_at, id
	`, orderID.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0)
	for rows.Next() {
		var (
			before, after int
			actorID       *uuid.UUID
			notes         sql.NullString
			occurredAt    time.Time
		)
		if err = rows.Scan(&before, &after, &actorID, &notes, &occurredAt); err != nil {
			return nil, err
		}

		entry := HistoryEntry{
			FromState:  order.Status(before).String(),
			ToState:    order.Status(after).String(),
			Notes:      notes.String,
			Source:     HistorySourceAudit,
			OccurredAt: occurredAt,
		}

		if actorID != nil {
			actor, idErr := kernel.UUIDFromBytes((*actorID)[:])
			if idErr != nil {
				return nil, idErr
			}
			entry.ActorID = &actor
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
