package locator

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

var (
	defaultLocator atomic.Pointer[Locator]
	defaultMu      sync.Mutex
)

// Default returns the process-wide locator, creating it from the
// environment (see OptionsFromEnv) on first use.
func Default() *Locator {
	if l := defaultLocator.Load(); l != nil {
		return l
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()

	if l := defaultLocator.Load(); l != nil {
		return l
	}

	opts, err := OptionsFromEnv()
	if err != nil {
		slog.Warn("locator: ignoring invalid environment configuration", "error", err)
		opts = nil
	}

	l, err := New(opts...)
	if err != nil {
		// Only module loading can fail and no modules are configured here.
		panic(err)
	}
	defaultLocator.Store(l)
	return l
}

// SetDefault replaces the process-wide locator. Passing nil makes the next
// Default call create a fresh one.
// This is similar to slog.SetDefault.
func SetDefault(l *Locator) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLocator.Store(l)
}

// Load adds modules to the default locator.
func Load(mods ...*Module) error {
	return Default().Load(mods...)
}

// MustLoad is like Load but panics on error. It is meant for package init
// functions of implementation packages:
//
//	func init() {
//	    locator.MustLoad(locator.NewModule("hashing",
//	        locator.Provide(NewMD5),
//	        locator.Provide(NewSHA1),
//	    ))
//	}
func MustLoad(mods ...*Module) {
	Default().MustLoad(mods...)
}

// FailedSources returns the default locator's failed modules.
func FailedSources() []string {
	return Default().FailedSources()
}
