package triggers

import (
	"context"
	"errors"
	"time"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/core/ports"
	"workorders/internal/pkg/errs"
)

// PendingSignatureAlertType keys the acta-unsigned alert per order.
const PendingSignatureAlertType = "acta_unsigned"

// PlanningDraftTrigger creates an empty draft planning record when a proposal
// is approved, unless one already exists.
type PlanningDraftTrigger struct {
	planning ports.PlanningRepository
}

// NewPlanningDraftTrigger creates the trigger for entering propuesta_aprobada.
func NewPlanningDraftTrigger(planning ports.PlanningRepository) *PlanningDraftTrigger {
	return &PlanningDraftTrigger{planning: planning}
}

func (t *PlanningDraftTrigger) Name() string {
	return "planning_draft"
}

func (t *PlanningDraftTrigger) Execute(ctx context.Context, orderID kernel.UUID) error {
	exists, err := t.planning.ExistsForOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return t.planning.CreateDraft(ctx, orderID)
}

// PendingSignatureAlertTrigger raises the warning-priority "document pending
// signature" alert when the acta is elaborated. The alert is upserted keyed by
// (order, alert type), so re-entry does not duplicate it.
type PendingSignatureAlertTrigger struct {
	alerts ports.AlertRepository
}

// NewPendingSignatureAlertTrigger creates the trigger for entering acta_elaborada.
func NewPendingSignatureAlertTrigger(alerts ports.AlertRepository) *PendingSignatureAlertTrigger {
	return &PendingSignatureAlertTrigger{alerts: alerts}
}

func (t *PendingSignatureAlertTrigger) Name() string {
	return "pending_signature_alert"
}

func (t *PendingSignatureAlertTrigger) Execute(ctx context.Context, orderID kernel.UUID) error {
	return t.alerts.Upsert(ctx, ports.Alert{
		OrderID:   orderID,
		AlertType: PendingSignatureAlertType,
		Priority:  "warning",
		Title:     "Document pending signature",
		Message:   "The delivery certificate has not been signed yet",
	})
}

// CostComparisonTrigger recomputes the estimated-vs-actual cost variance when
// the SES is approved and upserts the single comparison record per order.
type CostComparisonTrigger struct {
	provider    ports.CostBreakdownProvider
	comparisons ports.CostComparisonRepository
}

// NewCostComparisonTrigger creates the trigger for entering ses_aprobada.
func NewCostComparisonTrigger(
	provider ports.CostBreakdownProvider,
	comparisons ports.CostComparisonRepository,
) *CostComparisonTrigger {
	return &CostComparisonTrigger{provider: provider, comparisons: comparisons}
}

func (t *CostComparisonTrigger) Name() string {
	return "cost_comparison"
}

func (t *CostComparisonTrigger) Execute(ctx context.Context, orderID kernel.UUID) error {
	breakdown, err := t.provider.GetBreakdown(ctx, orderID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		// No proposal recorded; nothing to compare against.
		return nil
	}
	if err != nil {
		return err
	}

	variance := 0.0
	if breakdown.EstimatedTotal > 0 {
		variance = (breakdown.ActualTotal - breakdown.EstimatedTotal) / breakdown.EstimatedTotal * 100
	}

	return t.comparisons.Upsert(ctx, ports.CostComparison{
		OrderID:         orderID,
		EstimatedTotal:  breakdown.EstimatedTotal,
		ActualTotal:     breakdown.ActualTotal,
		VariancePercent: variance,
		RealizedMargin:  breakdown.EstimatedTotal - breakdown.ActualTotal,
		UpdatedAt:       time.Now(),
	})
}

// CompletionTrigger marks the order completed and stamps the completion
// timestamp when payment is received. This is a second write outside the
// transition's transaction; MarkCompleted is idempotent so a replay after a
// partial failure is harmless.
type CompletionTrigger struct {
	orders ports.OrderRepository
}

// NewCompletionTrigger creates the trigger for entering pago_recibido.
func NewCompletionTrigger(orders ports.OrderRepository) *CompletionTrigger {
	return &CompletionTrigger{orders: orders}
}

func (t *CompletionTrigger) Name() string {
	return "mark_completed"
}

func (t *CompletionTrigger) Execute(ctx context.Context, orderID kernel.UUID) error {
	o, err := t.orders.Get(ctx, orderID)
	if err != nil {
		return err
	}

	o.MarkCompleted(time.Now())
	return t.orders.Update(ctx, o)
}
