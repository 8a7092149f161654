package order

import (
	"errors"
	"fmt"
	"time"

	"workorders/internal/core/domain/model/kernel"
	"workorders/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrStateInconsistent is returned by CheckStateConsistency when the stored
	// (step, status) pair violates the projection table.
	ErrStateInconsistent = errors.New("detailed step and coarse status are inconsistent")
)

// Order is the aggregate root for a work order's lifecycle fields. It owns the
// coarse status and the detailed step and enforces both state machines: every
// mutation goes through TransitionStep (detailed path) or ChangeStatus (coarse
// path).
//
// Invariants:
//   - the detailed step, when written by TransitionStep, always projects to
//     the coarse status (the status is derived, never set independently)
//   - Completed/Cancelled and PagoRecibido are terminal
//   - an unrecognized stored step blocks all detailed transitions
type Order struct {
	id     kernel.UUID
	number string

	status  Status
	step    Step
	stepRaw string // original stored value when step == StepUnknown

	technicianID  *kernel.UUID
	lineItemCount int

	createdAt          time.Time
	updatedAt          time.Time
	startedExecutionAt *time.Time
	completedAt        *time.Time

	isConstructed bool
}

// NewOrder creates a fresh work order in Pending status with no detailed step.
func NewOrder(id kernel.UUID, number string, now time.Time) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if number == "" {
		return nil, errs.NewValueIsRequiredError("number")
	}

	return &Order{
		id:            id,
		number:        number,
		status:        Pending,
		step:          StepNone,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}, nil
}

// RestoreOrder reconstructs an order from persistence. storedStep is the raw
// stored value: empty means the order never entered the detailed flow, and an
// unrecognized value is kept as StepUnknown with the raw text preserved so
// transition attempts can fail loudly instead of silently passing it through
// the matrix.
func RestoreOrder(
	id kernel.UUID,
	number string,
	status Status,
	storedStep string,
	technicianID *kernel.UUID,
	lineItemCount int,
	createdAt, updatedAt time.Time,
	startedExecutionAt, completedAt *time.Time,
) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}

	step := StepNone
	stepRaw := ""
	if storedStep != "" {
		parsed, ok := ParseStep(storedStep)
		if ok {
			step = parsed
		} else {
			step = StepUnknown
			stepRaw = storedStep
		}
	}

	return &Order{
		id:                 id,
		number:             number,
		status:             status,
		step:               step,
		stepRaw:            stepRaw,
		technicianID:       technicianID,
		lineItemCount:      lineItemCount,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
		startedExecutionAt: startedExecutionAt,
		completedAt:        completedAt,
		isConstructed:      true,
	}, nil
}

// Validate ensures the Order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Number returns the human-facing order number (OT-<year>-<seq>).
func (o *Order) Number() string {
	return o.number
}

// Status returns the coarse lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Step returns the detailed workflow step. StepNone means the order has not
// entered the detailed flow; StepUnknown means the stored value was not
// recognized (see RawStep).
func (o *Order) Step() Step {
	return o.step
}

// HasStep reports whether the order carries a recognized detailed step.
func (o *Order) HasStep() bool {
	return o.step != StepNone && o.step != StepUnknown
}

// RawStep returns the unrecognized stored step value, or "" when the step is
// recognized or unset.
func (o *Order) RawStep() string {
	return o.stepRaw
}

// Technician returns the assigned technician's id, or nil when unassigned.
func (o *Order) Technician() *kernel.UUID {
	return o.technicianID
}

// LineItemCount returns the number of line items recorded for the order.
func (o *Order) LineItemCount() int {
	return o.lineItemCount
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the last mutation timestamp.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// StartedExecutionAt returns when execution began, or nil.
func (o *Order) StartedExecutionAt() *time.Time {
	return o.startedExecutionAt
}

// CompletedAt returns when the order completed, or nil.
func (o *Order) CompletedAt() *time.Time {
	return o.completedAt
}

// TransitionStep moves the order along the detailed matrix and derives the
// coarse status from the target's projection, so the written pair can never
// violate the projection table.
//
// Failure modes:
//   - ValueIsInvalidError when the stored step was unrecognized (no permissive
//     raw-value lookup; invalid data fails loudly)
//   - *InvalidTransitionError when the edge is not in the matrix, carrying
//     the allowed target set
func (o *Order) TransitionStep(target Step, now time.Time) error {
	if o.step == StepUnknown {
		return errs.NewValueIsInvalidErrorWithCause(
			"detailedStep",
			fmt.Errorf("stored step %q is not a recognized step", o.stepRaw),
		)
	}

	if err := o.step.ValidateTransition(target); err != nil {
		return err
	}

	o.step = target
	o.status = target.ProjectStatus()
	o.updatedAt = now

	if target == EjecucionIniciada && o.startedExecutionAt == nil {
		stamp := now
		o.startedExecutionAt = &stamp
	}

	return nil
}

// ChangeStatus mutates the coarse status directly (the legacy-compatible
// path). It validates the edge and the reason rule via the coarse machine,
// then applies the additional guard rules:
//   - cancellation is only permitted from Pending or Planning
//   - entering Execution requires an assigned technician and at least one
//     line item
//
// Entry into Execution stamps startedExecutionAt; entry into Completed stamps
// completedAt. The detailed step is left untouched: this is the documented
// drift risk of the dual-path design, surfaced by CheckStateConsistency.
func (o *Order) ChangeStatus(to Status, reason string, now time.Time) error {
	if err := o.status.ValidateTransition(to, reason); err != nil {
		return err
	}

	if to == Cancelled && o.status != Pending && o.status != Planning {
		allowed := make([]string, 0)
		for _, s := range o.status.AllowedTransitions() {
			if s != Cancelled {
				allowed = append(allowed, s.String())
			}
		}
		return NewInvalidTransitionError(o.status.String(), to.String(), allowed)
	}

	if to == Execution {
		if o.technicianID == nil {
			return errs.NewValueIsRequiredError("assignedTechnician")
		}
		if o.lineItemCount < 1 {
			return errs.NewValueIsInvalidErrorWithCause(
				"lineItems",
				fmt.Errorf("at least one line item is required to start execution"),
			)
		}
	}

	o.status = to
	o.updatedAt = now

	switch to {
	case Execution:
		if o.startedExecutionAt == nil {
			stamp := now
			o.startedExecutionAt = &stamp
		}
	case Completed:
		if o.completedAt == nil {
			stamp := now
			o.completedAt = &stamp
		}
	}

	return nil
}

// AssignTechnician sets the technician reference read by the execution guard.
func (o *Order) AssignTechnician(technicianID kernel.UUID, now time.Time) error {
	if err := technicianID.Validate(); err != nil {
		return err
	}

	o.technicianID = &technicianID
	o.updatedAt = now
	return nil
}

// SetLineItemCount records the line item count maintained by a collaborator.
func (o *Order) SetLineItemCount(count int, now time.Time) error {
	if count < 0 {
		return errs.NewValueIsInvalidErrorWithCause("lineItemCount",
			fmt.Errorf("%d is negative", count))
	}

	o.lineItemCount = count
	o.updatedAt = now
	return nil
}

// MarkCompleted forces the coarse status to Completed and stamps the
// completion timestamp if absent. Used by the payment-received trigger,
// which runs outside the transition's transaction; re-running it is
// harmless.
func (o *Order) MarkCompleted(now time.Time) {
	o.status = Completed
	if o.completedAt == nil {
		stamp := now
		o.completedAt = &stamp
	}
	o.updatedAt = now
}

// CheckStateConsistency verifies the shared invariant of the two machines:
// when a recognized step is present and the status is one a step can project
// to (Planning, Execution, Completed), the pair must satisfy the projection
// table. Pending, Paused and Cancelled are coarse-only statuses and exempt.
func (o *Order) CheckStateConsistency() error {
	if !o.HasStep() {
		return nil
	}
	if o.status != Planning && o.status != Execution && o.status != Completed {
		return nil
	}

	if projected := o.step.ProjectStatus(); projected != o.status {
		return fmt.Errorf("%w: step %s projects to %s but status is %s",
			ErrStateInconsistent, o.step, projected, o.status)
	}
	return nil
}
