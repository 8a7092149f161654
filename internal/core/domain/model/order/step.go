package order

import "strings"

// Step represents one of the 14 fine-grained workflow steps a work order
// moves through, from the initial service request to payment received.
//
// Two pseudo-values exist outside the workflow: StepNone (the order has not
// entered the detailed flow yet) and StepUnknown (the stored value could not
// be recognized; every transition from it is rejected).
type Step int

const (
	// StepUnknown holds the place of an unrecognized stored value.
	// It has no edges in the transition matrix.
	StepUnknown Step = -1

	// StepNone means the order has not entered the detailed flow.
	// Its only outgoing edge is into SolicitudRecibida.
	StepNone Step = iota - 1

	// Intake phase.
	SolicitudRecibida
	VisitaProgramada
	PropuestaElaborada
	PropuestaAprobada

	// Planning phase.
	PlaneacionIniciada
	PlaneacionAprobada

	// Execution phase.
	EjecucionIniciada
	EjecucionCompletada

	// Reporting phase.
	InformeGenerado

	// Technical closure phase.
	ActaElaborada
	ActaFirmada

	// Administrative closure phase.
	SesAprobada
	FacturaAprobada

	// Final step; terminal.
	PagoRecibido
)

// Phase groups the 14 steps for progress display and status projection.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseIntake
	PhasePlanning
	PhaseExecution
	PhaseReporting
	PhaseTechnicalClosure
	PhaseAdministrativeClosure
	PhaseFinal
)

func getStepStrings() map[Step]string {
	return map[Step]string{
		SolicitudRecibida:   "solicitud_recibida",
		VisitaProgramada:    "visita_programada",
		PropuestaElaborada:  "propuesta_elaborada",
		PropuestaAprobada:   "propuesta_aprobada",
		PlaneacionIniciada:  "planeacion_iniciada",
		PlaneacionAprobada:  "planeacion_aprobada",
		EjecucionIniciada:   "ejecucion_iniciada",
		EjecucionCompletada: "ejecucion_completada",
		InformeGenerado:     "informe_generado",
		ActaElaborada:       "acta_elaborada",
		ActaFirmada:         "acta_firmada",
		SesAprobada:         "ses_aprobada",
		FacturaAprobada:     "factura_aprobada",
		PagoRecibido:        "pago_recibido",
	}
}

// stepTransitions is the detailed transition matrix. Any pair not listed is
// illegal. The StepNone entry is the documented entry edge into the flow;
// the PropuestaElaborada -> SolicitudRecibida edge is the rejection loop-back.
func stepTransitions() map[Step][]Step {
	return map[Step][]Step{
		StepNone:            {SolicitudRecibida},
		SolicitudRecibida:   {VisitaProgramada, PropuestaElaborada},
		VisitaProgramada:    {PropuestaElaborada},
		PropuestaElaborada:  {PropuestaAprobada, SolicitudRecibida},
		PropuestaAprobada:   {PlaneacionIniciada},
		PlaneacionIniciada:  {PlaneacionAprobada},
		PlaneacionAprobada:  {EjecucionIniciada},
		EjecucionIniciada:   {EjecucionCompletada},
		EjecucionCompletada: {InformeGenerado},
		InformeGenerado:     {ActaElaborada},
		ActaElaborada:       {ActaFirmada},
		ActaFirmada:         {SesAprobada},
		SesAprobada:         {FacturaAprobada},
		FacturaAprobada:     {PagoRecibido},
		PagoRecibido:        {},
	}
}

// stepNumbers projects steps onto the 1-14 progress scale. Planning and
// execution steps share a number; 10 and 12 are intentional gaps reserved
// for phases not modeled as discrete steps.
func stepNumbers() map[Step]int {
	return map[Step]int{
		SolicitudRecibida:   1,
		VisitaProgramada:    2,
		PropuestaElaborada:  3,
		PropuestaAprobada:   4,
		PlaneacionIniciada:  5,
		PlaneacionAprobada:  5,
		EjecucionIniciada:   6,
		EjecucionCompletada: 6,
		InformeGenerado:     7,
		ActaElaborada:       8,
		ActaFirmada:         9,
		SesAprobada:         11,
		FacturaAprobada:     13,
		PagoRecibido:        14,
	}
}

// ParseStep resolves user or stored input to a Step. It accepts the canonical
// value ("acta_firmada") as well as the symbolic enum name ("ACTA_FIRMADA"),
// case-insensitively. It never fails hard for unknown strings; the boolean
// result lets callers decide between NotFound and ValidationError handling.
func ParseStep(input string) (Step, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	for step, value := range getStepStrings() {
		if value == normalized {
			return step, true
		}
	}
	return StepUnknown, false
}

// String returns the canonical lowercase value of the step, the empty string
// for StepNone, and "unknown" for StepUnknown.
func (s Step) String() string {
	if s == StepNone {
		return ""
	}
	if str, ok := getStepStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Number returns the 1-14 progress number of the step, or 0 for the
// pseudo-values.
func (s Step) Number() int {
	return stepNumbers()[s]
}

// Phase returns the workflow phase the step belongs to.
func (s Step) Phase() Phase {
	switch s {
	case SolicitudRecibida, VisitaProgramada, PropuestaElaborada, PropuestaAprobada:
		return PhaseIntake
	case PlaneacionIniciada, PlaneacionAprobada:
		return PhasePlanning
	case EjecucionIniciada, EjecucionCompletada:
		return PhaseExecution
	case InformeGenerado:
		return PhaseReporting
	case ActaElaborada, ActaFirmada:
		return PhaseTechnicalClosure
	case SesAprobada, FacturaAprobada:
		return PhaseAdministrativeClosure
	case PagoRecibido:
		return PhaseFinal
	default:
		return PhaseNone
	}
}

// ProjectStatus maps the step onto the coarse status. Intake and planning
// phases project to Planning; execution, reporting and technical closure to
// Execution; administrative closure and the final step to Completed.
// No step ever projects to Pending, Paused or Cancelled; those are reachable
// only through the coarse path.
func (s Step) ProjectStatus() Status {
	switch s.Phase() {
	case PhaseIntake, PhasePlanning:
		return Planning
	case PhaseExecution, PhaseReporting, PhaseTechnicalClosure:
		return Execution
	case PhaseAdministrativeClosure, PhaseFinal:
		return Completed
	default:
		return StatusUnknown
	}
}

// NextPossibleSteps returns the steps reachable from s per the matrix,
// in matrix order. StepUnknown yields an empty slice.
func (s Step) NextPossibleSteps() []Step {
	allowed, ok := stepTransitions()[s]
	if !ok {
		return nil
	}
	return allowed
}

// IsFinal reports whether the step has no outgoing edges in the matrix.
// Only PagoRecibido is final; the pseudo-values are not.
func (s Step) IsFinal() bool {
	allowed, ok := stepTransitions()[s]
	return ok && len(allowed) == 0
}

// ValidateTransition checks the edge s -> to against the matrix.
// Returns *InvalidTransitionError carrying the allowed set when the edge is
// absent. Pure function, no side effects.
func (s Step) ValidateTransition(to Step) error {
	allowed := s.NextPossibleSteps()
	if !containsStep(allowed, to) {
		return NewInvalidTransitionError(stepDisplay(s), stepDisplay(to), stepNames(allowed))
	}
	return nil
}

func containsStep(steps []Step, step Step) bool {
	for _, s := range steps {
		if s == step {
			return true
		}
	}
	return false
}

func stepNames(steps []Step) []string {
	names := make([]string, 0, len(steps))
	for _, s := range steps {
		names = append(names, s.String())
	}
	return names
}

// stepDisplay renders a step for error messages, making the pseudo-values
// readable.
func stepDisplay(s Step) string {
	if s == StepNone {
		return "(not started)"
	}
	return s.String()
}
