// Package inventory holds the process's snapshot of concrete types.
//
// Types reach the inventory through sources (the locator's modules). Sources
// are enumerated exactly once, lazily, the first time the inventory is read.
// A source that fails to enumerate is recorded as "<name>: <error>" and
// contributes no types; it never fails discovery as a whole. Once discovery
// has run the inventory is sealed and immutable.
package inventory

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/junioryono/locator/internal/reflection"
)

var (
	// ErrSealed is returned when a source is added after discovery ran.
	ErrSealed = errors.New("inventory is sealed: discovery has already run")
	// ErrInvalidSource is returned for sources without a name or enumerator.
	ErrInvalidSource = errors.New("source must have a name and an enumerator")
)

// Source is one loadable unit of implementations.
type Source struct {
	// Name identifies the source in failure reports.
	Name string

	// Enumerate lists the implementations the source contributes.
	Enumerate func() ([]*reflection.Implementation, error)
}

// Inventory is a lazily discovered, then immutable, set of implementations.
type Inventory struct {
	mu      sync.Mutex
	sources []Source
	sealed  atomic.Bool

	once   sync.Once
	impls  []*reflection.Implementation
	byType map[reflect.Type]*reflection.Implementation
	failed []string

	discoveries atomic.Int32
	logger      *slog.Logger
}

// New creates an empty inventory. A nil logger discards records.
func New(logger *slog.Logger) *Inventory {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Inventory{logger: logger}
}

// Add queues sources for discovery. It fails with ErrSealed once the
// inventory has been read.
func (inv *Inventory) Add(sources ...Source) error {
	for _, s := range sources {
		if s.Name == "" || s.Enumerate == nil {
			return ErrInvalidSource
		}
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	if inv.sealed.Load() {
		return ErrSealed
	}
	inv.sources = append(inv.sources, sources...)
	return nil
}

// Sealed reports whether discovery has run.
func (inv *Inventory) Sealed() bool { return inv.sealed.Load() }

// Discover runs discovery if it has not run yet. Concurrent callers block
// until the first caller finishes.
func (inv *Inventory) Discover() {
	inv.once.Do(inv.discover)
}

func (inv *Inventory) discover() {
	inv.mu.Lock()
	inv.sealed.Store(true)
	sources := slices.Clone(inv.sources)
	inv.mu.Unlock()

	inv.discoveries.Add(1)
	inv.byType = make(map[reflect.Type]*reflection.Implementation)

	for _, src := range sources {
		impls, err := enumerate(src)
		if err != nil {
			inv.failed = append(inv.failed, fmt.Sprintf("%s: %v", src.Name, err))
			inv.logger.Warn("failed to enumerate module", "module", src.Name, "error", err)
			continue
		}

		for _, impl := range impls {
			if impl == nil || impl.Type == nil {
				continue
			}
			if _, ok := reflection.CategoryOf(impl.Type); !ok {
				continue
			}
			if prev, dup := inv.byType[impl.Type]; dup {
				inv.logger.Warn("duplicate registration ignored",
					"type", impl.Type.String(), "module", src.Name, "registered_by", prev.Module)
				continue
			}
			inv.byType[impl.Type] = impl
			inv.impls = append(inv.impls, impl)
		}
	}

	inv.logger.Debug("discovered implementations",
		"types", len(inv.impls), "modules", len(sources), "failed", len(inv.failed))
}

// enumerate calls the source, turning a panic into an error.
func enumerate(src Source) (impls []*reflection.Implementation, err error) {
	defer func() {
		if r := recover(); r != nil {
			impls = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return src.Enumerate()
}

// Implementations returns every discovered implementation in discovery order.
func (inv *Inventory) Implementations() []*reflection.Implementation {
	inv.Discover()
	return slices.Clone(inv.impls)
}

// Lookup returns the implementation registered for exactly t.
func (inv *Inventory) Lookup(t reflect.Type) (*reflection.Implementation, bool) {
	inv.Discover()
	impl, ok := inv.byType[t]
	return impl, ok
}

// AssignableTo returns the implementations usable as contract, in
// discovery order.
func (inv *Inventory) AssignableTo(contract reflect.Type) []*reflection.Implementation {
	inv.Discover()

	var out []*reflection.Implementation
	for _, impl := range inv.impls {
		if impl.AssignableTo(contract) {
			out = append(out, impl)
		}
	}
	return out
}

// Failed returns the "<source>: <error>" entries recorded during discovery.
func (inv *Inventory) Failed() []string {
	inv.Discover()
	return slices.Clone(inv.failed)
}

// Discoveries returns how many discovery passes have run (zero or one).
func (inv *Inventory) Discoveries() int {
	return int(inv.discoveries.Load())
}
