package testutil

import (
	"log/slog"
	"testing"

	"github.com/junioryono/locator"
	"github.com/stretchr/testify/require"
)

// LocatorBuilder provides a fluent interface for building test locators.
type LocatorBuilder struct {
	t       *testing.T
	modules []*locator.Module
	logger  *slog.Logger
}

// NewLocatorBuilder creates a new LocatorBuilder.
func NewLocatorBuilder(t *testing.T) *LocatorBuilder {
	return &LocatorBuilder{t: t}
}

// WithModules adds modules to the locator.
func (b *LocatorBuilder) WithModules(mods ...*locator.Module) *LocatorBuilder {
	b.modules = append(b.modules, mods...)
	return b
}

// WithModule adds a module built from opts.
func (b *LocatorBuilder) WithModule(name string, opts ...locator.ModuleOption) *LocatorBuilder {
	return b.WithModules(locator.NewModule(name, opts...))
}

// WithLogger sets the locator's logger.
func (b *LocatorBuilder) WithLogger(logger *slog.Logger) *LocatorBuilder {
	b.logger = logger
	return b
}

// Build creates the locator and fails the test on error.
func (b *LocatorBuilder) Build() *locator.Locator {
	b.t.Helper()

	l, err := locator.New(
		locator.WithLogger(b.logger),
		locator.WithModules(b.modules...),
	)
	require.NoError(b.t, err)
	require.NotNil(b.t, l)
	return l
}

// NewLocator is a shortcut for NewLocatorBuilder(t).WithModules(mods...).Build().
func NewLocator(t *testing.T, mods ...*locator.Module) *locator.Locator {
	t.Helper()
	return NewLocatorBuilder(t).WithModules(mods...).Build()
}
