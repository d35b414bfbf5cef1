// Package guard provides ConstructorGuard, a marker embedded into value objects,
// commands and queries so that zero values created by struct literals can be told
// apart from instances that went through their validating constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller passes a nil error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard records whether the owning value was built by its constructor.
//
// Example:
//
//	type Quantity struct {
//	    value int
//	    guard guard.ConstructorGuard
//	}
//
//	func NewQuantity(v int) (Quantity, error) {
//	    if v < 1 {
//	        return Quantity{}, errors.New("quantity must be positive")
//	    }
//	    return Quantity{value: v, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (q Quantity) Validate() error {
//	    return q.guard.Validate(ErrQuantityIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value, and nil otherwise.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
