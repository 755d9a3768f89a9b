// Package guard detects zero-value structs that bypassed their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in value objects, commands and queries. Only
// NewConstructorGuard yields a guard that validates, so a struct literal or a
// zero value is reported as not constructed.
//
// Example:
//
//	type AcceptBatchCommand struct {
//	    batchID  string
//	    driverID kernel.UUID
//	    guard    guard.ConstructorGuard
//	}
//
//	func (c AcceptBatchCommand) Validate() error {
//	    return c.guard.Validate(ErrAcceptBatchCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard was not produced by NewConstructorGuard.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
