// Package planningrepo persists the planning-record collaborator rows created
// by the proposal-approved trigger.
package planningrepo

import (
	"context"
	"time"

	"workorders/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// draftState is the state a trigger-created planning record starts in.
const draftState = "draft"

// PlanningRecordDTO represents the database structure for planning records.
// One record per order.
type PlanningRecordDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	State     string
	CreatedAt time.Time
}

// TableName specifies the database table name for planning records.
func (PlanningRecordDTO) TableName() string {
	return "planning_records"
}

// GormPlanningRepository implements ports.PlanningRepository using GORM.
type GormPlanningRepository struct {
	db *gorm.DB
}

// NewGormPlanningRepository creates a new GORM planning repository.
func NewGormPlanningRepository(db *gorm.DB) *GormPlanningRepository {
	return &GormPlanningRepository{db: db}
}

// ExistsForOrder reports whether a planning record exists for the order.
func (r *GormPlanningRepository) ExistsForOrder(ctx context.Context, orderID kernel.UUID) (bool, error) {
	if err := orderID.Validate(); err != nil {
		return false, err
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&PlanningRecordDTO{}).
		Where("order_id = ?", orderID.Bytes()).
		Count(&count).Error
	return count > 0, err
}

// CreateDraft creates an empty draft planning record for the order.
func (r *GormPlanningRepository) CreateDraft(ctx context.Context, orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	dto := PlanningRecordDTO{
		OrderID:   orderID.Bytes(),
		State:     draftState,
		CreatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}
