package factory

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/junioryono/locator/internal/reflection"
)

// ErrNoParameterlessConstructor is reported when a reference-allocated
// implementation has no constructor that can be called without arguments.
var ErrNoParameterlessConstructor = errors.New("implementation has no parameterless constructor")

var (
	_ error = TypeMismatchError{}
	_ error = ConstructorInvocationError{}
	_ error = ConstructorPanicError{}
)

// TypeMismatchError indicates an implementation cannot be used as the
// requested contract.
type TypeMismatchError struct {
	Expected reflect.Type
	Actual   reflect.Type
	Context  string // "factory", "bind", ...
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: %s does not implement %s",
		e.Context, reflection.ShortName(e.Actual), reflection.ShortName(e.Expected))
}

// ConstructorInvocationError wraps an error returned by a constructor.
type ConstructorInvocationError struct {
	Implementation reflect.Type
	Cause          error
}

func (e ConstructorInvocationError) Error() string {
	return fmt.Sprintf("constructor for %s failed: %v", reflection.ShortName(e.Implementation), e.Cause)
}

func (e ConstructorInvocationError) Unwrap() error {
	return e.Cause
}

// ConstructorPanicError indicates a constructor panicked. It carries the
// panic value and the stack at the point of recovery.
type ConstructorPanicError struct {
	Implementation reflect.Type
	Panic          any
	Stack          []byte
}

func (e ConstructorPanicError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("constructor for %s panicked: %v", reflection.ShortName(e.Implementation), e.Panic))
	if len(e.Stack) > 0 {
		b.WriteString("\n\nStack trace:\n")
		b.Write(e.Stack)
	}
	return b.String()
}
