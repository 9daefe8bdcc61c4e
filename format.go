package locator

import (
	"reflect"
	"strings"

	"github.com/junioryono/locator/internal/reflection"
)

// formatType formats a type for error messages.
func formatType(t reflect.Type) string {
	return reflection.ShortName(t)
}

func formatTypes(types []reflect.Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = formatType(t)
	}
	return strings.Join(names, ", ")
}

// typeOf returns the reflect.Type for T, including interface types.
func typeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}
