// Package historyrepo persists the append-only transition and audit records.
// Rows are only ever inserted; there is no update or delete path.
package historyrepo

import (
	"encoding/json"
	"time"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// TransitionDTO represents one row of the detailed-step history.
type TransitionDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID  `gorm:"type:uuid;index:idx_transition_history_order_time,priority:1"`
	FromStep   *string    `gorm:"type:text"`
	ToStep     string     `gorm:"type:text"`
	ActorID    *uuid.UUID `gorm:"type:uuid"`
	Notes      string
	Metadata   []byte    `gorm:"type:jsonb"`
	OccurredAt time.Time `gorm:"index:idx_transition_history_order_time,priority:2"`
}

// TableName specifies the database table name for transition records.
func (TransitionDTO) TableName() string {
	return "order_transition_history"
}

// AuditDTO represents one row of the coarse-path audit trail.
type AuditDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID  `gorm:"type:uuid;index"`
	Action       string
	ActorID      *uuid.UUID `gorm:"type:uuid"`
	StatusBefore int
	StatusAfter  int
	Notes        string
	OccurredAt   time.Time
}

// TableName specifies the database table name for audit records.
func (AuditDTO) TableName() string {
	return "order_audit_entries"
}

func transitionFromDomain(record order.TransitionRecord) (TransitionDTO, error) {
	var fromStep *string
	if record.FromStep != "" {
		value := record.FromStep
		fromStep = &value
	}

	var metadata []byte
	if len(record.Metadata) > 0 {
		encoded, err := json.Marshal(record.Metadata)
		if err != nil {
			return TransitionDTO{}, err
		}
		metadata = encoded
	}

	return TransitionDTO{
		ID:         uuid.New(),
		OrderID:    record.OrderID.Bytes(),
		FromStep:   fromStep,
		ToStep:     record.ToStep,
		ActorID:    actorFromDomain(record.ActorID),
		Notes:      record.Notes,
		Metadata:   metadata,
		OccurredAt: record.OccurredAt,
	}, nil
}

func transitionToDomain(dto TransitionDTO) (order.TransitionRecord, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return order.TransitionRecord{}, err
	}

	actorID, err := actorToDomain(dto.ActorID)
	if err != nil {
		return order.TransitionRecord{}, err
	}

	fromStep := ""
	if dto.FromStep != nil {
		fromStep = *dto.FromStep
	}

	var metadata map[string]string
	if len(dto.Metadata) > 0 {
		if err = json.Unmarshal(dto.Metadata, &metadata); err != nil {
			return order.TransitionRecord{}, err
		}
	}

	return order.TransitionRecord{
		OrderID:    orderID,
		FromStep:   fromStep,
		ToStep:     dto.ToStep,
		ActorID:    actorID,
		Notes:      dto.Notes,
		Metadata:   metadata,
		OccurredAt: dto.OccurredAt,
	}, nil
}

func auditFromDomain(record order.AuditRecord) AuditDTO {
	return AuditDTO{
		ID:           uuid.New(),
		OrderID:      record.OrderID.Bytes(),
		Action:       record.Action,
		ActorID:      actorFromDomain(record.ActorID),
		StatusBefore: int(record.StatusBefore),
		StatusAfter:  int(record.StatusAfter),
		Notes:        record.Notes,
		OccurredAt:   record.OccurredAt,
	}
}

func auditToDomain(dto AuditDTO) (order.AuditRecord, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return order.AuditRecord{}, err
	}

	actorID, err := actorToDomain(dto.ActorID)
	if err != nil {
		return order.AuditRecord{}, err
	}

	return order.AuditRecord{
		OrderID:      orderID,
		Action:       dto.Action,
		ActorID:      actorID,
		StatusBefore: order.Status(dto.StatusBefore),
		StatusAfter:  order.Status(dto.StatusAfter),
		Notes:        dto.Notes,
		OccurredAt:   dto.OccurredAt,
	}, nil
}

func actorFromDomain(actorID *kernel.UUID) *uuid.UUID {
	if actorID == nil {
		return nil
	}
	raw := actorID.Bytes()
	return &raw
}

func actorToDomain(actorID *uuid.UUID) (*kernel.UUID, error) {
	if actorID == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes((*actorID)[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
