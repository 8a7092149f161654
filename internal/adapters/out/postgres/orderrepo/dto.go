// Package orderrepo provides the data transfer object and repository for
// order persistence, handling the conversion between the order aggregate and
// its relational representation.
package orderrepo

import (
	"time"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting the order
// aggregate's lifecycle fields. Step is the canonical step value; NULL means
// the order never entered the detailed flow, and an unrecognized value is
// preserved as-is so the aggregate can surface it as its unknown state
// instead of silently normalizing it away.
type OrderDTO struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number             string     `gorm:"uniqueIndex"`
	Status             int        `gorm:"index"`
	Step               *string    `gorm:"type:text;index"`
	TechnicianID       *uuid.UUID `gorm:"type:uuid"`
	LineItemCount      int
	CreatedAt          time.Time
	UpdatedAt          time.Time
	StartedExecutionAt *time.Time
	CompletedAt        *time.Time
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts the order aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var step *string
	switch {
	case aggregate.Step() == order.StepUnknown:
		raw := aggregate.RawStep()
		step = &raw
	case aggregate.HasStep():
		value := aggregate.Step().String()
		step = &value
	}

	var technicianID *uuid.UUID
	if id := aggregate.Technician(); id != nil {
		raw := id.Bytes()
		technicianID = &raw
	}

	return OrderDTO{
		ID:                 aggregate.ID().Bytes(),
		Number:             aggregate.Number(),
		Status:             int(aggregate.Status()),
		Step:               step,
		TechnicianID:       technicianID,
		LineItemCount:      aggregate.LineItemCount(),
		CreatedAt:          aggregate.CreatedAt(),
		UpdatedAt:          aggregate.UpdatedAt(),
		StartedExecutionAt: aggregate.StartedExecutionAt(),
		CompletedAt:        aggregate.CompletedAt(),
	}
}

// toDomain converts a database DTO back into the order aggregate using
// RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var technicianID *kernel.UUID
	if dto.TechnicianID != nil {
		tID, technicianErr := kernel.UUIDFromBytes((*dto.TechnicianID)[:])
		if technicianErr != nil {
			return nil, technicianErr
		}

		technicianID = &tID
	}

	storedStep := ""
	if dto.Step != nil {
		storedStep = *dto.Step
	}

	return order.RestoreOrder(
		id,
		dto.Number,
		order.Status(dto.Status),
		storedStep,
		technicianID,
		dto.LineItemCount,
		dto.CreatedAt,
		dto.UpdatedAt,
		dto.StartedExecutionAt,
		dto.CompletedAt,
	)
}
