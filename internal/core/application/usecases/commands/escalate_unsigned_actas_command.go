package commands

import (
	"errors"

	"workorders/internal/pkg/guard"
)

var ErrEscalateUnsignedActasCommandIsNotConstructed = errors.New(
	"EscalateUnsignedActasCommand must be created via NewEscalateUnsignedActasCommand constructor",
)

// EscalateUnsignedActasCommand triggers the scheduled scan for orders whose
// delivery certificate has been waiting for a signature too long.
type EscalateUnsignedActasCommand struct { //nolint:recvcheck //using for validation
	guard guard.ConstructorGuard
}

// NewEscalateUnsignedActasCommand creates the escalation command.
func NewEscalateUnsignedActasCommand() EscalateUnsignedActasCommand {
	return EscalateUnsignedActasCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c EscalateUnsignedActasCommand) Validate() error {
	return c.guard.Validate(ErrEscalateUnsignedActasCommandIsNotConstructed)
}
