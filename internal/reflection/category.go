package reflection

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Category describes how values of a concrete type are allocated.
type Category int

const (
	// Value types are default-initializable: their zero value is a usable
	// instance and no constructor call is needed (structs, arrays, scalars).
	Value Category = iota

	// Reference types are handles to separately allocated storage (pointers,
	// maps, slices, channels, funcs). They need a constructor to produce a
	// meaningful instance.
	Reference
)

// String returns the string representation of the Category.
func (c Category) String() string {
	switch c {
	case Value:
		return "Value"
	case Reference:
		return "Reference"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// MarshalJSON implements json.Marshaler.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// CategoryOf classifies t. It reports false for interface types, which are
// never concrete.
func CategoryOf(t reflect.Type) (Category, bool) {
	if t == nil {
		return Value, false
	}

	switch t.Kind() {
	case reflect.Interface, reflect.Invalid:
		return Value, false
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return Reference, true
	default:
		return Value, true
	}
}
