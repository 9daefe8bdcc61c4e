package testutil

import (
	"errors"
	"reflect"
	"testing"

	"github.com/junioryono/locator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertResolvable checks that T resolves and returns the instance.
func AssertResolvable[T any](t *testing.T, l *locator.Locator) T {
	t.Helper()
	instance, err := locator.Resolve[T](l)
	require.NoError(t, err, "failed to resolve %v", reflect.TypeFor[T]())
	return instance
}

// AssertResolvesTo checks that T resolves to an instance of exactly Impl.
func AssertResolvesTo[T, Impl any](t *testing.T, l *locator.Locator) T {
	t.Helper()
	instance := AssertResolvable[T](t, l)
	assert.IsType(t, *new(Impl), instance)
	return instance
}

// AssertResolutionError checks that err is a ResolutionError for T caused
// by cause.
func AssertResolutionError[T any](t *testing.T, err error, cause error) locator.ResolutionError {
	t.Helper()
	require.Error(t, err)

	var re locator.ResolutionError
	require.True(t, errors.As(err, &re), "expected ResolutionError, got %T: %v", err, err)
	assert.Equal(t, reflect.TypeFor[T](), re.Contract)
	assert.ErrorIs(t, err, cause)
	return re
}

// AssertKeyError checks that err is a KeyError for key caused by cause.
func AssertKeyError(t *testing.T, err error, key any, cause error) locator.KeyError {
	t.Helper()
	require.Error(t, err)

	var ke locator.KeyError
	require.True(t, errors.As(err, &ke), "expected KeyError, got %T: %v", err, err)
	assert.Equal(t, key, ke.Key)
	assert.ErrorIs(t, err, cause)
	return ke
}
