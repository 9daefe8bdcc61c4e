package reflection

import "errors"

// Constructor shape errors. Callers wrap these with the module and
// constructor that failed.
var (
	ErrConstructorNil             = errors.New("constructor cannot be nil")
	ErrConstructorNotFunction     = errors.New("constructor must be a function")
	ErrConstructorNoReturn        = errors.New("constructor must return at least one value")
	ErrConstructorTooManyReturns  = errors.New("constructor must return at most 2 values")
	ErrConstructorInvalidSecond   = errors.New("constructor's second return value must be error")
	ErrConstructorReturnsContract = errors.New("constructor must return a concrete type, not an interface")
	ErrTypeNil                    = errors.New("implementation type cannot be nil")
	ErrTypeNotConcrete            = errors.New("implementation type must be concrete")
)
