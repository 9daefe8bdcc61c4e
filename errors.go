package locator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/junioryono/locator/internal/factory"
	"github.com/junioryono/locator/internal/inventory"
	"github.com/junioryono/locator/internal/reflection"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================
// Resolution failures are returned wrapped in ResolutionError or KeyError;
// match them with errors.Is.

var (
	// Contract resolution errors.
	ErrUnsatisfiedContract        = errors.New("no implementations exist")
	ErrAmbiguousContract          = errors.New("multiple implementations exist")
	ErrNoParameterlessConstructor = factory.ErrNoParameterlessConstructor
	ErrPredicateUnsatisfied       = errors.New("no implementations matched the predicate")
	ErrPredicateAmbiguous         = errors.New("multiple implementations matched the predicate")

	// Keyed resolution errors.
	ErrDuplicateKey = errors.New("multiple implementations report the same locator key")
	ErrUnknownKey   = errors.New("no implementation reports the locator key")

	// Usage errors.
	ErrNilLocator      = errors.New("locator cannot be nil")
	ErrNilPredicate    = errors.New("predicate cannot be nil")
	ErrContractNil     = errors.New("contract type cannot be nil")
	ErrModuleNil       = errors.New("module cannot be nil")
	ErrModuleNameEmpty = errors.New("module name cannot be empty")
	ErrInventorySealed = inventory.ErrSealed

	// Registration errors.
	ErrConstructorNil             = reflection.ErrConstructorNil
	ErrConstructorNotFunction     = reflection.ErrConstructorNotFunction
	ErrConstructorNoReturn        = reflection.ErrConstructorNoReturn
	ErrConstructorTooManyReturns  = reflection.ErrConstructorTooManyReturns
	ErrConstructorInvalidSecond   = reflection.ErrConstructorInvalidSecond
	ErrConstructorReturnsContract = reflection.ErrConstructorReturnsContract
	ErrTypeNotConcrete            = reflection.ErrTypeNotConcrete
)

// Errors raised while building or calling factories.
type (
	TypeMismatchError          = factory.TypeMismatchError
	ConstructorInvocationError = factory.ConstructorInvocationError
	ConstructorPanicError      = factory.ConstructorPanicError
)

var (
	_ error = ResolutionError{}
	_ error = KeyError{}
	_ error = RegistrationError{}
	_ error = ModuleError{}
)

// ========================================
// Typed Errors for Rich Context
// ========================================

// ResolutionError reports why a contract could not be resolved to an
// instance. Cause is one of the contract or predicate sentinels, or an
// error produced by the implementation's constructor.
type ResolutionError struct {
	Contract   reflect.Type
	Candidates []reflect.Type // implementations considered, if any
	Cause      error
}

func (e ResolutionError) Error() string {
	name := formatType(e.Contract)

	var b strings.Builder
	switch {
	case errors.Is(e.Cause, ErrUnsatisfiedContract):
		b.WriteString(fmt.Sprintf("no implementations of %s exist, cannot create an instance", name))
	case errors.Is(e.Cause, ErrAmbiguousContract):
		b.WriteString(fmt.Sprintf("multiple implementations of %s exist, cannot create a single instance", name))
	case errors.Is(e.Cause, ErrNoParameterlessConstructor):
		b.WriteString(fmt.Sprintf("the implementation of %s doesn't have a parameterless constructor", name))
	case errors.Is(e.Cause, ErrPredicateUnsatisfied):
		b.WriteString(fmt.Sprintf("no implementations of %s matched the given predicate", name))
	case errors.Is(e.Cause, ErrPredicateAmbiguous):
		b.WriteString(fmt.Sprintf("multiple implementations of %s matched the given predicate", name))
	default:
		b.WriteString(fmt.Sprintf("failed to resolve %s: %v", name, e.Cause))
	}

	if len(e.Candidates) > 0 {
		b.WriteString(" (")
		b.WriteString(formatTypes(e.Candidates))
		b.WriteString(")")
	}

	return b.String()
}

func (e ResolutionError) Unwrap() error {
	return e.Cause
}

// KeyError reports a keyed resolution failure.
type KeyError struct {
	Contract        reflect.Type
	Key             any
	Implementations []reflect.Type // the clashing implementations for ErrDuplicateKey
	Cause           error
}

func (e KeyError) Error() string {
	name := formatType(e.Contract)

	switch {
	case errors.Is(e.Cause, ErrDuplicateKey):
		return fmt.Sprintf("multiple implementations of %s are not allowed to return the same locator key %v (%s)",
			name, e.Key, formatTypes(e.Implementations))
	case errors.Is(e.Cause, ErrUnknownKey):
		return fmt.Sprintf("couldn't find any implementation of %s with the key %v", name, e.Key)
	default:
		return fmt.Sprintf("failed to resolve %s[%v]: %v", name, e.Key, e.Cause)
	}
}

func (e KeyError) Unwrap() error {
	return e.Cause
}

// RegistrationError wraps an invalid registration inside a module. The
// module name is kept for errors.As callers; failed-source entries already
// carry it as their prefix.
type RegistrationError struct {
	Module      string
	Constructor reflect.Type // nil for ProvideType registrations
	Cause       error
}

func (e RegistrationError) Error() string {
	if e.Constructor != nil {
		return fmt.Sprintf("invalid constructor %s: %v", formatType(e.Constructor), e.Cause)
	}
	return fmt.Sprintf("invalid registration: %v", e.Cause)
}

func (e RegistrationError) Unwrap() error {
	return e.Cause
}

// ModuleError wraps errors from loading a module.
type ModuleError struct {
	Module string
	Cause  error
}

func (e ModuleError) Error() string {
	return fmt.Sprintf("module %q: %v", e.Module, e.Cause)
}

func (e ModuleError) Unwrap() error {
	return e.Cause
}

// IsUnsatisfied reports whether err means no implementation was found,
// either for the contract or for the given predicate.
func IsUnsatisfied(err error) bool {
	return errors.Is(err, ErrUnsatisfiedContract) || errors.Is(err, ErrPredicateUnsatisfied)
}

// IsAmbiguous reports whether err means more than one implementation
// qualified where exactly one was required.
func IsAmbiguous(err error) bool {
	return errors.Is(err, ErrAmbiguousContract) || errors.Is(err, ErrPredicateAmbiguous)
}
