package locator

import (
	"fmt"
	"iter"
	"reflect"
	"slices"
)

// Resolve returns a new instance of the single implementation of T.
//
// If T is bound with Bind, the bound implementation is used. Otherwise T
// must have exactly one implementation in the inventory; a concrete T
// resolves to itself. Failures are reported as ResolutionError wrapping
// ErrUnsatisfiedContract, ErrAmbiguousContract or
// ErrNoParameterlessConstructor.
//
// Example:
//
//	algo, err := locator.Resolve[HashingAlgorithm](l)
func Resolve[T any](l *Locator) (T, error) {
	var zero T
	if l == nil {
		return zero, ErrNilLocator
	}

	instance, err := l.resolveOne(typeOf[T]())
	if err != nil {
		return zero, err
	}
	return assertType[T](instance)
}

// MustResolve is like Resolve but panics on error.
// Use it during initialization, when a missing implementation is a bug.
func MustResolve[T any](l *Locator) T {
	instance, err := Resolve[T](l)
	if err != nil {
		panic(err)
	}
	return instance
}

// ResolveWhere returns the single implementation of T accepted by pred.
//
// One instance of every implementation is created and passed to pred; the
// instances pred rejects are discarded. Zero or several accepted instances
// fail with ErrPredicateUnsatisfied or ErrPredicateAmbiguous. pred is
// called without any locator lock held.
func ResolveWhere[T any](l *Locator, pred func(T) bool) (T, error) {
	var zero T
	if l == nil {
		return zero, ErrNilLocator
	}
	if pred == nil {
		return zero, ErrNilPredicate
	}

	contract := typeOf[T]()
	set := l.allMatches(contract)

	var (
		found   T
		matched []reflect.Type
	)
	for i, f := range set.factories {
		v, err := f()
		if err != nil {
			return zero, err
		}
		instance, err := assertType[T](v)
		if err != nil {
			return zero, err
		}
		if pred(instance) {
			found = instance
			matched = append(matched, set.types[i])
		}
	}

	switch len(matched) {
	case 0:
		return zero, ResolutionError{Contract: contract, Candidates: slices.Clone(set.types), Cause: ErrPredicateUnsatisfied}
	case 1:
		return found, nil
	default:
		return zero, ResolutionError{Contract: contract, Candidates: matched, Cause: ErrPredicateAmbiguous}
	}
}

// All returns a sequence producing a new instance of every implementation
// of T, in discovery order. Each iteration creates fresh instances. An
// implementation that cannot be created yields its error in place of an
// instance; iteration continues unless the caller stops. A contract with
// no implementations yields nothing.
//
// Example:
//
//	for algo, err := range locator.All[HashingAlgorithm](l) {
//	    if err != nil {
//	        return err
//	    }
//	    algo.Hash(data)
//	}
func All[T any](l *Locator) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		if l == nil {
			yield(zero, ErrNilLocator)
			return
		}

		set := l.allMatches(typeOf[T]())
		for _, f := range set.factories {
			v, err := f()
			if err != nil {
				if !yield(zero, err) {
					return
				}
				continue
			}

			instance, err := assertType[T](v)
			if !yield(instance, err) {
				return
			}
		}
	}
}

// ResolveAll collects All, stopping at the first error.
func ResolveAll[T any](l *Locator) ([]T, error) {
	var out []T
	for instance, err := range All[T](l) {
		if err != nil {
			return nil, err
		}
		out = append(out, instance)
	}
	return out, nil
}

// Implementations returns the concrete types implementing T, in discovery
// order. Bindings are not consulted.
func Implementations[T any](l *Locator) []reflect.Type {
	if l == nil {
		return nil
	}
	return slices.Clone(l.allMatches(typeOf[T]()).types)
}

// Bind makes Resolve[C] produce instances of I, overriding discovery. The
// last binding for C wins. I is checked when C is resolved: it resolves as
// its own contract, so an interface I still needs a unique implementation.
// Bind fails with TypeMismatchError if I cannot be used as C.
func Bind[C, I any](l *Locator) error {
	if l == nil {
		return ErrNilLocator
	}

	contract, impl := typeOf[C](), typeOf[I]()
	if !impl.AssignableTo(contract) {
		return TypeMismatchError{Expected: contract, Actual: impl, Context: "bind"}
	}

	l.bindings.Store(contract, impl)
	l.logger.Debug("bound contract", "contract", formatType(contract), "implementation", formatType(impl))
	return nil
}

// Unbind removes the binding for C. It is a no-op if C is not bound.
func Unbind[C any](l *Locator) {
	if l == nil {
		return
	}

	contract := typeOf[C]()
	if _, loaded := l.bindings.LoadAndDelete(contract); loaded {
		l.logger.Debug("unbound contract", "contract", formatType(contract))
	}
}

// assertType converts a resolved instance to T.
func assertType[T any](instance any) (T, error) {
	if typed, ok := instance.(T); ok {
		return typed, nil
	}

	var zero T
	if instance == nil {
		// A nil interface result from a constructor.
		return zero, nil
	}
	return zero, fmt.Errorf("type assertion failed: expected %v, got %T", typeOf[T](), instance)
}
