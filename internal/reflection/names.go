package reflection

import (
	"reflect"

	"github.com/muir/reflectutils"
)

// TypeName returns the fully qualified name of t for diagnostics. Versioned
// package paths keep their version suffix.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return reflectutils.TypeName(t)
}

// ShortName returns a compact name for error messages: the bare type name
// for named types, with pointer and slice prefixes kept.
func ShortName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Pointer:
		return "*" + ShortName(t.Elem())
	case reflect.Slice:
		return "[]" + ShortName(t.Elem())
	}

	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
