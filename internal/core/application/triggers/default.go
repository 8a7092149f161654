package triggers

import (
	"log/slog"

	"workorders/internal/core/domain/model/order"
	"workorders/internal/core/ports"
)

// NewDefaultRegistry wires the standard step triggers:
//
//	propuesta_aprobada -> create draft planning record
//	acta_elaborada     -> raise pending-signature alert
//	ses_aprobada       -> recompute cost comparison
//	pago_recibido      -> mark order completed
func NewDefaultRegistry(
	orders ports.OrderRepository,
	planning ports.PlanningRepository,
	alerts ports.AlertRepository,
	costProvider ports.CostBreakdownProvider,
	comparisons ports.CostComparisonRepository,
	logger *slog.Logger,
) *Registry {
	registry := NewRegistry(logger)
	registry.Register(order.PropuestaAprobada, NewPlanningDraftTrigger(planning))
	registry.Register(order.ActaElaborada, NewPendingSignatureAlertTrigger(alerts))
	registry.Register(order.SesAprobada, NewCostComparisonTrigger(costProvider, comparisons))
	registry.Register(order.PagoRecibido, NewCompletionTrigger(orders))
	return registry
}
