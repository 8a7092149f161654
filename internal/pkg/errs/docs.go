// Package errs provides standardized error types for the work order service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// Each error type follows the same shape:
//   - A sentinel error variable (e.g., ErrObjectNotFound)
//   - A struct type carrying error details
//   - Constructor functions with and without an underlying cause
//   - Error() for formatting and Unwrap() for errors.Is classification
//
// Caller-facing failures map onto these types: malformed input is
// ValueIsInvalidError or ValueIsRequiredError, and a missing order is
// ObjectNotFoundError. Transition-specific errors (illegal edge, missing
// reason) live next to the state machines in the order package, following
// the same sentinel+struct pattern.
package errs
