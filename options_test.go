package locator_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/junioryono/locator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applyOptions(opts []locator.Option) locator.Options {
	var o locator.Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// unsetenv clears key for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestOptionsFromEnv(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")

	t.Run("nothing configured", func(t *testing.T) {
		unsetenv(t, locator.EnvLogLevel)
		unsetenv(t, locator.EnvLogFormat)

		opts, err := locator.OptionsFromEnv(missing)
		require.NoError(t, err)
		assert.Empty(t, opts)
	})

	t.Run("level from environment", func(t *testing.T) {
		t.Setenv(locator.EnvLogLevel, "debug")
		unsetenv(t, locator.EnvLogFormat)

		opts, err := locator.OptionsFromEnv(missing)
		require.NoError(t, err)

		o := applyOptions(opts)
		require.NotNil(t, o.Logger)
		assert.True(t, o.Logger.Enabled(context.Background(), slog.LevelDebug))
	})

	t.Run("defaults to warn", func(t *testing.T) {
		unsetenv(t, locator.EnvLogLevel)
		t.Setenv(locator.EnvLogFormat, "json")

		opts, err := locator.OptionsFromEnv(missing)
		require.NoError(t, err)

		o := applyOptions(opts)
		require.NotNil(t, o.Logger)
		assert.False(t, o.Logger.Enabled(context.Background(), slog.LevelInfo))
		assert.True(t, o.Logger.Enabled(context.Background(), slog.LevelWarn))
	})

	t.Run("values from .env file", func(t *testing.T) {
		unsetenv(t, locator.EnvLogLevel)
		unsetenv(t, locator.EnvLogFormat)

		file := filepath.Join(t.TempDir(), "locator.env")
		require.NoError(t, os.WriteFile(file, []byte("LOCATOR_LOG_LEVEL=error\nLOCATOR_LOG_FORMAT=text\n"), 0o600))

		opts, err := locator.OptionsFromEnv(file)
		require.NoError(t, err)

		o := applyOptions(opts)
		require.NotNil(t, o.Logger)
		assert.False(t, o.Logger.Enabled(context.Background(), slog.LevelWarn))
		assert.True(t, o.Logger.Enabled(context.Background(), slog.LevelError))
		assert.Equal(t, "error", os.Getenv(locator.EnvLogLevel))
	})

	t.Run("environment wins over file", func(t *testing.T) {
		t.Setenv(locator.EnvLogLevel, "info")
		unsetenv(t, locator.EnvLogFormat)

		file := filepath.Join(t.TempDir(), "locator.env")
		require.NoError(t, os.WriteFile(file, []byte("LOCATOR_LOG_LEVEL=error\n"), 0o600))

		opts, err := locator.OptionsFromEnv(file)
		require.NoError(t, err)

		o := applyOptions(opts)
		assert.True(t, o.Logger.Enabled(context.Background(), slog.LevelInfo))
	})

	t.Run("invalid level", func(t *testing.T) {
		t.Setenv(locator.EnvLogLevel, "loud")
		unsetenv(t, locator.EnvLogFormat)

		_, err := locator.OptionsFromEnv(missing)
		assert.ErrorContains(t, err, locator.EnvLogLevel)
	})

	t.Run("invalid format", func(t *testing.T) {
		unsetenv(t, locator.EnvLogLevel)
		t.Setenv(locator.EnvLogFormat, "xml")

		_, err := locator.OptionsFromEnv(missing)
		assert.ErrorContains(t, err, "want text or json")
	})
}

func TestWithModules_Accumulates(t *testing.T) {
	a := locator.NewModule("a")
	b := locator.NewModule("b")

	o := applyOptions([]locator.Option{
		locator.WithModules(a),
		locator.WithModules(b),
	})
	assert.Equal(t, []*locator.Module{a, b}, o.Modules)
}
