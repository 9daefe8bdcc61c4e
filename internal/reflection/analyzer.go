package reflection

import (
	"fmt"
	"reflect"
	"sync"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// Implementation describes one concrete type known to the inventory,
// together with the constructor it was registered with (if any).
type Implementation struct {
	// Type is the concrete type produced by the constructor.
	Type reflect.Type

	// Category tells whether the type is value- or reference-allocated.
	Category Category

	// Constructor is the registered constructor function. It is the zero
	// Value when the type was registered without one.
	Constructor reflect.Value

	// ConstructorType is the type of the constructor function, if any.
	ConstructorType reflect.Type

	// Nullary reports whether Constructor can be called with no arguments.
	// A variadic-only constructor counts as nullary.
	Nullary bool

	// HasErrorReturn reports whether the constructor returns (T, error).
	HasErrorReturn bool

	// Module is the name of the module that registered the type.
	Module string
}

// HasConstructor reports whether a constructor was registered.
func (i *Implementation) HasConstructor() bool {
	return i.Constructor.IsValid()
}

// AssignableTo reports whether instances of the implementation can be used
// as contract.
func (i *Implementation) AssignableTo(contract reflect.Type) bool {
	if i == nil || contract == nil {
		return false
	}
	return i.Type.AssignableTo(contract)
}

// Analyzer turns constructors and bare types into Implementation
// descriptors. Results for constructors are cached by function pointer.
type Analyzer struct {
	mu    sync.RWMutex
	cache map[uintptr]*Implementation
}

// New creates a new Analyzer.
func New() *Analyzer {
	return &Analyzer{
		cache: make(map[uintptr]*Implementation),
	}
}

// Analyze inspects a constructor function. Accepted shapes are
// func(...) T and func(...) (T, error) where T is not an interface.
// Every call returns a fresh copy; closures built from the same literal share
// a code pointer, so the cached entry never supplies the Constructor value.
func (a *Analyzer) Analyze(constructor any) (*Implementation, error) {
	if constructor == nil {
		return nil, ErrConstructorNil
	}

	val := reflect.ValueOf(constructor)
	typ := val.Type()

	if typ.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: got %v", ErrConstructorNotFunction, typ)
	}
	if val.IsNil() {
		return nil, ErrConstructorNil
	}

	key := val.Pointer()

	a.mu.RLock()
	if cached, ok := a.cache[key]; ok && cached.ConstructorType == typ {
		a.mu.RUnlock()
		c := *cached
		c.Constructor = val
		return &c, nil
	}
	a.mu.RUnlock()

	info, err := analyzeFunc(val, typ)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.cache[key] = info
	a.mu.Unlock()

	c := *info
	return &c, nil
}

// Describe builds a descriptor for a type registered without a constructor.
func (a *Analyzer) Describe(t reflect.Type) (*Implementation, error) {
	if t == nil {
		return nil, ErrTypeNil
	}

	category, ok := CategoryOf(t)
	if !ok {
		return nil, fmt.Errorf("%w: %v is an interface", ErrTypeNotConcrete, t)
	}

	return &Implementation{
		Type:     t,
		Category: category,
	}, nil
}

func analyzeFunc(val reflect.Value, typ reflect.Type) (*Implementation, error) {
	switch typ.NumOut() {
	case 0:
		return nil, ErrConstructorNoReturn
	case 1, 2:
	default:
		return nil, fmt.Errorf("%w: %v returns %d values", ErrConstructorTooManyReturns, typ, typ.NumOut())
	}

	hasErr := false
	if typ.NumOut() == 2 {
		if typ.Out(1) != errType {
			return nil, fmt.Errorf("%w: got %v", ErrConstructorInvalidSecond, typ.Out(1))
		}
		hasErr = true
	}

	result := typ.Out(0)
	category, ok := CategoryOf(result)
	if !ok {
		return nil, fmt.Errorf("%w: %v returns %v", ErrConstructorReturnsContract, typ, result)
	}

	return &Implementation{
		Type:            result,
		Category:        category,
		Constructor:     val,
		ConstructorType: typ,
		Nullary:         isNullary(typ),
		HasErrorReturn:  hasErr,
	}, nil
}

// isNullary reports whether fn can be called without arguments.
func isNullary(fn reflect.Type) bool {
	return fn.NumIn() == 0 || (fn.NumIn() == 1 && fn.IsVariadic())
}
