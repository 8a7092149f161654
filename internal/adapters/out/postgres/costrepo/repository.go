// Package costrepo covers the cost side of the workflow: the read-only
// proposal and cost-entry tables owned by a collaborator, and the per-order
// cost comparison record this service maintains.
package costrepo

import (
	"context"
	"errors"
	"time"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/ports"
	"workorders/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProposalDTO mirrors the collaborator-owned proposals table. Read-only here.
type ProposalDTO struct {
	OrderID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	MaterialsCost  float64
	LaborCost      float64
	EstimatedTotal float64
}

// TableName specifies the database table name for proposals.
func (ProposalDTO) TableName() string {
	return "proposals"
}

// CostEntryDTO mirrors the collaborator-owned cost entries table. Read-only
// here; the actual total is the sum of an order's entries.
type CostEntryDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID uuid.UUID `gorm:"type:uuid;index"`
	Amount  float64
}

// TableName specifies the database table name for cost entries.
func (CostEntryDTO) TableName() string {
	return "cost_entries"
}

// CostComparisonDTO represents the single estimated-vs-actual record kept per
// order.
type CostComparisonDTO struct {
	OrderID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EstimatedTotal  float64
	ActualTotal     float64
	VariancePercent float64
	RealizedMargin  float64
	UpdatedAt       time.Time
}

// TableName specifies the database table name for cost comparisons.
func (CostComparisonDTO) TableName() string {
	return "cost_comparisons"
}

// GormCostBreakdownProvider implements ports.CostBreakdownProvider by reading
// the proposal and summing the cost entries.
type GormCostBreakdownProvider struct {
	db *gorm.DB
}

// NewGormCostBreakdownProvider creates a new GORM cost breakdown provider.
func NewGormCostBreakdownProvider(db *gorm.DB) *GormCostBreakdownProvider {
	return &GormCostBreakdownProvider{db: db}
}

// GetBreakdown returns the order's estimated total (from its proposal) and
// actual total (sum of its cost entries). Returns ObjectNotFoundError when no
// proposal exists; missing cost entries simply sum to zero.
func (p *GormCostBreakdownProvider) GetBreakdown(
	ctx context.Context, orderID kernel.UUID,
) (ports.CostBreakdown, error) {
	if err := orderID.Validate(); err != nil {
		return ports.CostBreakdown{}, err
	}

	var proposal ProposalDTO
	err := p.db.WithContext(ctx).First(&proposal, "order_id = ?", orderID.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.CostBreakdown{}, errs.NewObjectNotFoundError("proposal", orderID.String())
	}
	if err != nil {
		return ports.CostBreakdown{}, err
	}

	var actualTotal float64
	err = p.db.WithContext(ctx).
		Model(&CostEntryDTO{}).
		Where("order_id = ?", orderID.Bytes()).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&actualTotal).Error
	if err != nil {
		return ports.CostBreakdown{}, err
	}

	return ports.CostBreakdown{
		EstimatedTotal: proposal.EstimatedTotal,
		ActualTotal:    actualTotal,
	}, nil
}

// GormCostComparisonRepository implements ports.CostComparisonRepository
// using GORM.
type GormCostComparisonRepository struct {
	db *gorm.DB
}

// NewGormCostComparisonRepository creates a new GORM cost comparison
// repository.
func NewGormCostComparisonRepository(db *gorm.DB) *GormCostComparisonRepository {
	return &GormCostComparisonRepository{db: db}
}

// Upsert inserts or replaces the order's cost comparison record.
func (r *GormCostComparisonRepository) Upsert(ctx context.Context, comparison ports.CostComparison) error {
	if err := comparison.OrderID.Validate(); err != nil {
		return err
	}

	dto := CostComparisonDTO{
		OrderID:         comparison.OrderID.Bytes(),
		EstimatedTotal:  comparison.EstimatedTotal,
		ActualTotal:     comparison.ActualTotal,
		VariancePercent: comparison.VariancePercent,
		RealizedMargin:  comparison.RealizedMargin,
		UpdatedAt:       comparison.UpdatedAt,
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"estimated_total", "actual_total", "variance_percent",
			"realized_margin", "updated_at",
		}),
	}).Create(&dto).Error
}
