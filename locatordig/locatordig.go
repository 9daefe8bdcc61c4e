// Package locatordig exports located implementations into a dig container.
//
// Types that are discovered through a locator can then be injected into
// dig-constructed services like any other dependency:
//
//	c := dig.New()
//	if err := locatordig.Provide[HashingAlgorithm](c, l, dig.Name("default")); err != nil {
//	    return err
//	}
//	if err := locatordig.ProvideGroup[HashingAlgorithm](c, l, "hashing"); err != nil {
//	    return err
//	}
//
//	type Params struct {
//	    dig.In
//	    Algorithms []HashingAlgorithm `group:"hashing"`
//	}
//
// dig calls each provided constructor at most once per container, so every
// export is a singleton from dig's point of view even though the locator
// creates a new instance per resolution.
package locatordig

import (
	"errors"
	"fmt"

	"github.com/junioryono/locator"
	"go.uber.org/dig"
)

// ErrEmptyGroup is returned by ProvideGroup for an empty group name.
var ErrEmptyGroup = errors.New("group name cannot be empty")

// Provide registers a constructor for T backed by locator.Resolve. The
// resolution happens when dig first needs T; resolution errors surface
// from dig's Invoke.
func Provide[T any](c *dig.Container, l *locator.Locator, opts ...dig.ProvideOption) error {
	if l == nil {
		return locator.ErrNilLocator
	}

	return c.Provide(func() (T, error) {
		return locator.Resolve[T](l)
	}, opts...)
}

// ProvideWhere registers a constructor for T backed by locator.ResolveWhere.
func ProvideWhere[T any](c *dig.Container, l *locator.Locator, pred func(T) bool, opts ...dig.ProvideOption) error {
	if l == nil {
		return locator.ErrNilLocator
	}
	if pred == nil {
		return locator.ErrNilPredicate
	}

	return c.Provide(func() (T, error) {
		return locator.ResolveWhere(l, pred)
	}, opts...)
}

// ProvideGroup adds every implementation of T to the value group named
// group. Consumers receive them through a dig.In field tagged
// `group:"<group>"`.
func ProvideGroup[T any](c *dig.Container, l *locator.Locator, group string) error {
	if l == nil {
		return locator.ErrNilLocator
	}
	if group == "" {
		return ErrEmptyGroup
	}

	return c.Provide(func() ([]T, error) {
		return locator.ResolveAll[T](l)
	}, dig.Group(group+",flatten"))
}

// ProvideKeyed registers the keyed resolver for T and one named value per
// key, so that `name:"<key>"` fields receive the implementation reporting
// that key. Key names are formatted with fmt's %v verb. The key table is
// built immediately; a duplicate key is reported here rather than by dig.
func ProvideKeyed[K comparable, T locator.Locatable[K]](c *dig.Container, l *locator.Locator) error {
	keyed, err := locator.NewKeyed[K, T](l)
	if err != nil {
		return err
	}

	if err := c.Provide(func() *locator.Keyed[K, T] { return keyed }); err != nil {
		return err
	}

	for _, key := range keyed.Keys() {
		if err := c.Provide(func() (T, error) {
			return keyed.Resolve(key)
		}, dig.Name(fmt.Sprint(key))); err != nil {
			return fmt.Errorf("provide key %v: %w", key, err)
		}
	}
	return nil
}
