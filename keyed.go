package locator

import (
	"iter"
	"reflect"
	"slices"

	"github.com/junioryono/locator/internal/factory"
)

// Locatable is implemented by contracts resolved by key. LocatorKey must
// be computable on a freshly created instance.
type Locatable[K comparable] interface {
	LocatorKey() K
}

// Keyed resolves implementations of T by the key each one reports.
//
// The key table is built by the first NewKeyed call for a given K and T
// and shared by every later Keyed of the same specialization on the same
// locator. A Keyed not obtained from NewKeyed has no implementations.
type Keyed[K comparable, T Locatable[K]] struct {
	table *keyTable[K]
}

type keyTable[K comparable] struct {
	contract  reflect.Type
	keys      []K
	types     []reflect.Type
	factories []factory.Factory
	index     map[K]int
}

// NewKeyed returns the keyed resolver for T. The first call discovers the
// implementations of T, creates one instance of each to read its key and
// caches the table. It fails with ErrUnsatisfiedContract if T has no
// implementations and with a KeyError wrapping ErrDuplicateKey if two
// implementations report the same key.
//
// Constructors of T may build keyed resolvers for other contracts, but not
// for T itself.
//
// Example:
//
//	parsers, err := locator.NewKeyed[string, Parser](l)
//	if err != nil {
//	    return err
//	}
//	p, err := parsers.Resolve("json")
func NewKeyed[K comparable, T Locatable[K]](l *Locator) (*Keyed[K, T], error) {
	if l == nil {
		return nil, ErrNilLocator
	}

	identity := typeOf[*Keyed[K, T]]()
	v, err := l.keyed.GetOrCompute(identity, func() (any, error) {
		return buildKeyTable[K, T](l)
	})
	if err != nil {
		return nil, err
	}
	return &Keyed[K, T]{table: v.(*keyTable[K])}, nil
}

// Runs under the cache lock for this specialization only; constructors are
// invoked here to read keys.
func buildKeyTable[K comparable, T Locatable[K]](l *Locator) (*keyTable[K], error) {
	contract := typeOf[T]()
	matches := l.types.AssignableTo(contract)
	if len(matches) == 0 {
		return nil, ResolutionError{Contract: contract, Cause: ErrUnsatisfiedContract}
	}

	table := &keyTable[K]{
		contract: contract,
		index:    make(map[K]int, len(matches)),
	}

	for _, impl := range matches {
		f, err := factory.Make(impl, contract)
		if err != nil {
			return nil, ResolutionError{Contract: contract, Candidates: []reflect.Type{impl.Type}, Cause: err}
		}

		v, err := f()
		if err != nil {
			return nil, ResolutionError{Contract: contract, Candidates: []reflect.Type{impl.Type}, Cause: err}
		}
		instance, err := assertType[T](v)
		if err != nil {
			return nil, err
		}

		key := instance.LocatorKey()
		if prev, dup := table.index[key]; dup {
			return nil, KeyError{
				Contract:        contract,
				Key:             key,
				Implementations: []reflect.Type{table.types[prev], impl.Type},
				Cause:           ErrDuplicateKey,
			}
		}

		table.index[key] = len(table.keys)
		table.keys = append(table.keys, key)
		table.types = append(table.types, impl.Type)
		table.factories = append(table.factories, f)
	}

	l.logger.Debug("cached key table", "contract", formatType(contract), "keys", len(table.keys))
	return table, nil
}

// entries returns the key table, or an empty one for a zero Keyed.
func (k *Keyed[K, T]) entries() *keyTable[K] {
	if k == nil || k.table == nil {
		return &keyTable[K]{contract: typeOf[T]()}
	}
	return k.table
}

// Resolve returns a new instance of the implementation reporting key.
func (k *Keyed[K, T]) Resolve(key K) (T, error) {
	var zero T
	table := k.entries()

	i, ok := table.index[key]
	if !ok {
		return zero, KeyError{Contract: table.contract, Key: key, Cause: ErrUnknownKey}
	}

	v, err := table.factories[i]()
	if err != nil {
		return zero, KeyError{Contract: table.contract, Key: key, Cause: err}
	}
	return assertType[T](v)
}

// All returns a sequence producing a new instance of every implementation,
// in discovery order.
func (k *Keyed[K, T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		table := k.entries()
		for i, f := range table.factories {
			v, err := f()
			if err != nil {
				if !yield(zero, KeyError{Contract: table.contract, Key: table.keys[i], Cause: err}) {
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

// Keys returns the registered keys in discovery order.
func (k *Keyed[K, T]) Keys() []K {
	return slices.Clone(k.entries().keys)
}

// Has reports whether an implementation reports key.
func (k *Keyed[K, T]) Has(key K) bool {
	_, ok := k.entries().index[key]
	return ok
}

// Type returns the implementation registered for key.
func (k *Keyed[K, T]) Type(key K) (reflect.Type, bool) {
	table := k.entries()
	i, ok := table.index[key]
	if !ok {
		return nil, false
	}
	return table.types[i], true
}
