// Package factory turns implementation descriptors into zero-argument
// construction functions.
package factory

import (
	"fmt"
	"reflect"
	"runtime/debug"

	"github.com/junioryono/locator/internal/reflection"
)

// Factory produces a new instance of one implementation per call. It is
// safe for concurrent use.
type Factory func() (any, error)

// Make builds the Factory for impl, checked against contract. A nil
// contract skips the assignability check.
//
// Selection order:
//   - a registered nullary constructor is invoked;
//   - a value-allocated type yields its zero value;
//   - a pointer type registered without a constructor yields a new(T);
//   - anything else fails with ErrNoParameterlessConstructor.
func Make(impl *reflection.Implementation, contract reflect.Type) (Factory, error) {
	if impl == nil || impl.Type == nil {
		return nil, reflection.ErrTypeNil
	}

	if contract != nil && !impl.AssignableTo(contract) {
		return nil, TypeMismatchError{
			Expected: contract,
			Actual:   impl.Type,
			Context:  "factory",
		}
	}

	switch {
	case impl.HasConstructor() && impl.Nullary:
		return invoke(impl), nil

	case impl.Category == reflection.Value:
		return zero(impl.Type), nil

	case !impl.HasConstructor() && impl.Type.Kind() == reflect.Pointer:
		return alloc(impl.Type), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrNoParameterlessConstructor, reflection.ShortName(impl.Type))
	}
}

func invoke(impl *reflection.Implementation) Factory {
	ctor := impl.Constructor
	typ := impl.Type
	hasErr := impl.HasErrorReturn

	return func() (instance any, err error) {
		defer func() {
			if r := recover(); r != nil {
				instance = nil
				err = ConstructorPanicError{
					Implementation: typ,
					Panic:          r,
					Stack:          debug.Stack(),
				}
			}
		}()

		out := ctor.Call(nil)
		if hasErr && !out[1].IsNil() {
			return nil, ConstructorInvocationError{
				Implementation: typ,
				Cause:          out[1].Interface().(error),
			}
		}
		return out[0].Interface(), nil
	}
}

func zero(t reflect.Type) Factory {
	return func() (any, error) {
		return reflect.Zero(t).Interface(), nil
	}
}

func alloc(t reflect.Type) Factory {
	elem := t.Elem()
	return func() (any, error) {
		return reflect.New(elem).Convert(t).Interface(), nil
	}
}
