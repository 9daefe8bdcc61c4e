package locator

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by OptionsFromEnv.
const (
	EnvLogLevel  = "LOCATOR_LOG_LEVEL"
	EnvLogFormat = "LOCATOR_LOG_FORMAT"
)

// Options configures a Locator.
type Options struct {
	// Logger receives discovery and cache records. Nil discards them.
	Logger *slog.Logger

	// Modules are loaded into the locator's inventory at creation.
	Modules []*Module
}

// Option configures Options.
type Option func(*Options)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithModules adds modules to load at creation.
func WithModules(mods ...*Module) Option {
	return func(o *Options) {
		o.Modules = append(o.Modules, mods...)
	}
}

// OptionsFromEnv builds options from the environment. The given .env files
// (".env" when none are named) are loaded first if they exist; variables
// already set in the process environment take precedence.
//
// LOCATOR_LOG_LEVEL selects debug, info, warn or error. LOCATOR_LOG_FORMAT
// selects text (default) or json. With neither set, logging is discarded.
func OptionsFromEnv(files ...string) ([]Option, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	logger, err := loggerFromEnv(os.Stderr)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		return nil, nil
	}
	return []Option{WithLogger(logger)}, nil
}

func loggerFromEnv(w io.Writer) (*slog.Logger, error) {
	levelText := strings.TrimSpace(os.Getenv(EnvLogLevel))
	format := strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogFormat)))
	if levelText == "" && format == "" {
		return nil, nil
	}

	level := slog.LevelWarn
	if levelText != "" {
		if err := level.UnmarshalText([]byte(levelText)); err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvLogLevel, levelText, err)
		}
	}

	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid %s %q: want text or json", EnvLogFormat, format)
	}
}
