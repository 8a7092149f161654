// Package order contains the work order aggregate and its two coupled state
// machines: the six-state coarse status machine and the fourteen-step
// detailed workflow machine.
//
// The detailed machine is the source of truth when both are in play: a
// detailed transition derives the coarse status from the step's projection,
// so the pair written by that path always satisfies the projection table.
// The coarse path (ChangeStatus) mutates the status directly for callers
// that do not know about the detailed flow; CheckStateConsistency surfaces
// any drift between the two.
//
// The package also defines the immutable TransitionRecord and AuditRecord
// history entries and the transition error types.
package order
