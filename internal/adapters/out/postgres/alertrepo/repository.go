// Package alertrepo persists automatic alerts. The single write operation is
// an upsert keyed by (order id, alert type): triggers and the escalation job
// may fire repeatedly for the same condition and must refresh the existing
// alert instead of stacking duplicates.
package alertrepo

import (
	"context"
	"time"

	"workorders/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AlertDTO represents the database structure for order alerts.
type AlertDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	AlertType string    `gorm:"primaryKey"`
	Priority  string
	Title     string
	Message   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for alerts.
func (AlertDTO) TableName() string {
	return "order_alerts"
}

// GormAlertRepository implements ports.AlertRepository using GORM.
type GormAlertRepository struct {
	db *gorm.DB
}

// NewGormAlertRepository creates a new GORM alert repository.
func NewGormAlertRepository(db *gorm.DB) *GormAlertRepository {
	return &GormAlertRepository{db: db}
}

// Upsert inserts the alert or refreshes the existing row with the same
// (order id, alert type) key.
func (r *GormAlertRepository) Upsert(ctx context.Context, alert ports.Alert) error {
	if err := alert.OrderID.Validate(); err != nil {
		return err
	}

	now := time.Now()
	dto := AlertDTO{
		OrderID:   alert.OrderID.Bytes(),
		AlertType: alert.AlertType,
		Priority:  alert.Priority,
		Title:     alert.Title,
		Message:   alert.Message,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "order_id"}, {Name: "alert_type"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"priority", "title", "message", "updated_at",
		}),
	}).Create(&dto).Error
}
