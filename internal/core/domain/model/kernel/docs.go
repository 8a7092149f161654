// Package kernel provides core domain primitives shared across the work order
// domain model. Currently this is the UUID value object used to identify
// orders, technicians, and actors.
//
// Kernel types are immutable, validate themselves, and are safe for
// concurrent use.
package kernel
