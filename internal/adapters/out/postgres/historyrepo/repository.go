package historyrepo

import (
	"context"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GormHistoryRepository implements ports.HistoryRepository using GORM.
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewGormHistoryRepository creates a new GORM history repository.
func NewGormHistoryRepository(db *gorm.DB) *GormHistoryRepository {
	return &GormHistoryRepository{db: db}
}

// AppendTransition inserts one detailed-step history record.
func (r *GormHistoryRepository) AppendTransition(ctx context.Context, record order.TransitionRecord) error {
	dto, err := transitionFromDomain(record)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetTransitions returns an order's transition records, oldest first.
func (r *GormHistoryRepository) GetTransitions(
	ctx context.Context, orderID kernel.UUID,
) ([]order.TransitionRecord, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []TransitionDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("occurred_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	records := make([]order.TransitionRecord, 0, len(dtos))
	for _, dto := range dtos {
		record, err := transitionToDomain(dto)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// AppendAudit inserts one coarse-path audit record.
func (r *GormHistoryRepository) AppendAudit(ctx context.Context, record order.AuditRecord) error {
	dto := auditFromDomain(record)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetAudits returns an order's audit records, oldest first.
func (r *GormHistoryRepository) GetAudits(
	ctx context.Context, orderID kernel.UUID,
) ([]order.AuditRecord, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []AuditDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("occurred_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	records := make([]order.AuditRecord, 0, len(dtos))
	for _, dto := range dtos {
		record, err := auditToDomain(dto)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}
