package locator

import (
	"errors"
	"log/slog"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/junioryono/locator/internal/cache"
	"github.com/junioryono/locator/internal/factory"
	"github.com/junioryono/locator/internal/inventory"
	"github.com/junioryono/locator/internal/reflection"
)

// Locator resolves contracts to instances of the concrete types loaded
// into its inventory. It is safe for concurrent use.
//
// The inventory is discovered on first use and sealed afterwards. Factories
// are built once per contract and kept for the locator's lifetime.
type Locator struct {
	id       string
	logger   *slog.Logger
	analyzer *reflection.Analyzer
	types    *inventory.Inventory

	single *cache.Cache[reflect.Type, factory.Factory]
	multi  *cache.Cache[reflect.Type, *matchSet]
	keyed  *cache.Cache[reflect.Type, any]

	bindings sync.Map // map[reflect.Type]reflect.Type
}

// matchSet is the cached result of resolving all implementations of a contract.
type matchSet struct {
	types     []reflect.Type
	factories []factory.Factory
}

// TypeInfo describes one inventoried concrete type.
type TypeInfo struct {
	Name           string `json:"name"`
	Category       string `json:"category"`
	Module         string `json:"module"`
	HasConstructor bool   `json:"hasConstructor"`
	Nullary        bool   `json:"nullary"`
}

// CacheStatistics reports the activity of one resolution cache.
type CacheStatistics = cache.Statistics

// Statistics is a point-in-time view of a locator.
type Statistics struct {
	Discoveries int             `json:"discoveries"`
	Types       int             `json:"types"`
	Failed      int             `json:"failed"`
	Bindings    int             `json:"bindings"`
	Single      CacheStatistics `json:"single"`
	Multi       CacheStatistics `json:"multi"`
	Keyed       CacheStatistics `json:"keyed"`
}

// New creates a locator and loads the configured modules.
func New(opts ...Option) (*Locator, error) {
	var o Options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	id := uuid.NewString()
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("locator", id)

	l := &Locator{
		id:       id,
		logger:   logger,
		analyzer: reflection.New(),
		types:    inventory.New(logger),
		single:   cache.New[reflect.Type, factory.Factory](),
		multi:    cache.New[reflect.Type, *matchSet](),
		keyed:    cache.New[reflect.Type, any](),
	}

	if err := l.Load(o.Modules...); err != nil {
		return nil, err
	}
	return l, nil
}

// ID returns the locator's unique identifier.
func (l *Locator) ID() string { return l.id }

// Load adds modules to the inventory. It fails with ErrInventorySealed once
// the locator has resolved anything.
func (l *Locator) Load(mods ...*Module) error {
	sources := make([]inventory.Source, 0, len(mods))
	for _, m := range mods {
		if m == nil {
			return ErrModuleNil
		}
		if m.name == "" {
			return ErrModuleNameEmpty
		}
		sources = append(sources, m.source(l.analyzer))
	}

	if err := l.types.Add(sources...); err != nil {
		return err
	}
	return nil
}

// MustLoad is like Load but panics on error.
func (l *Locator) MustLoad(mods ...*Module) {
	if err := l.Load(mods...); err != nil {
		panic(err)
	}
}

// FailedSources returns one "<module>: <error>" entry per module that could
// not be enumerated. Reading it triggers discovery.
func (l *Locator) FailedSources() []string {
	return l.types.Failed()
}

// Types returns the inventory in discovery order.
func (l *Locator) Types() []TypeInfo {
	impls := l.types.Implementations()
	out := make([]TypeInfo, len(impls))
	for i, impl := range impls {
		out[i] = TypeInfo{
			Name:           reflection.TypeName(impl.Type),
			Category:       impl.Category.String(),
			Module:         impl.Module,
			HasConstructor: impl.HasConstructor(),
			Nullary:        impl.Nullary,
		}
	}
	return out
}

// Stats returns the locator's counters. It does not trigger discovery.
func (l *Locator) Stats() Statistics {
	s := Statistics{
		Discoveries: l.types.Discoveries(),
		Single:      l.single.Stats(),
		Multi:       l.multi.Stats(),
		Keyed:       l.keyed.Stats(),
	}
	if l.types.Sealed() {
		s.Types = len(l.types.Implementations())
		s.Failed = len(l.types.Failed())
	}
	l.bindings.Range(func(_, _ any) bool {
		s.Bindings++
		return true
	})
	return s
}

// ResolveType returns a new instance for t. A concrete t is its own
// implementation; an interface t must have exactly one implementation
// unless it is bound.
func (l *Locator) ResolveType(t reflect.Type) (any, error) {
	if t == nil {
		return nil, ErrContractNil
	}
	return l.resolveOne(t)
}

func (l *Locator) resolveOne(contract reflect.Type) (any, error) {
	if bound, ok := l.bindings.Load(contract); ok {
		return l.resolveBound(contract, bound.(reflect.Type))
	}
	return l.resolveUnbound(contract)
}

func (l *Locator) resolveUnbound(contract reflect.Type) (any, error) {
	f, err := l.single.GetOrCompute(contract, func() (factory.Factory, error) {
		return l.singleFactory(contract)
	})
	if err != nil {
		return nil, err
	}
	return l.invoke(contract, f)
}

// resolveBound resolves the bound implementation as its own contract.
func (l *Locator) resolveBound(contract, impl reflect.Type) (any, error) {
	instance, err := l.resolveUnbound(impl)
	if err != nil {
		var re ResolutionError
		if errors.As(err, &re) && re.Contract == impl {
			re.Contract = contract
			if len(re.Candidates) == 0 {
				re.Candidates = []reflect.Type{impl}
			}
			return nil, re
		}
		return nil, err
	}
	return instance, nil
}

func (l *Locator) invoke(contract reflect.Type, f factory.Factory) (any, error) {
	instance, err := f()
	if err != nil {
		return nil, ResolutionError{Contract: contract, Cause: err}
	}
	return instance, nil
}

// singleFactory builds the factory for a contract that must have exactly
// one implementation.
func (l *Locator) singleFactory(contract reflect.Type) (factory.Factory, error) {
	var impl *reflection.Implementation

	if _, concrete := reflection.CategoryOf(contract); concrete {
		if found, ok := l.types.Lookup(contract); ok {
			impl = found
		} else {
			described, err := l.analyzer.Describe(contract)
			if err != nil {
				return nil, ResolutionError{Contract: contract, Cause: err}
			}
			impl = described
		}
	} else {
		matches := l.types.AssignableTo(contract)
		switch len(matches) {
		case 0:
			return nil, ResolutionError{Contract: contract, Cause: ErrUnsatisfiedContract}
		case 1:
			impl = matches[0]
		default:
			return nil, ResolutionError{
				Contract:   contract,
				Candidates: implTypes(matches),
				Cause:      ErrAmbiguousContract,
			}
		}
	}

	f, err := factory.Make(impl, contract)
	if err != nil {
		return nil, ResolutionError{
			Contract:   contract,
			Candidates: []reflect.Type{impl.Type},
			Cause:      err,
		}
	}

	l.logger.Debug("cached factory",
		"contract", formatType(contract), "implementation", formatType(impl.Type), "module", impl.Module)
	return f, nil
}

// allMatches returns the factories of every implementation of contract.
// An implementation that cannot be constructed gets a factory reporting
// why, so the remaining implementations stay reachable.
func (l *Locator) allMatches(contract reflect.Type) *matchSet {
	set, _ := l.multi.GetOrCompute(contract, func() (*matchSet, error) {
		matches := l.types.AssignableTo(contract)
		set := &matchSet{
			types:     implTypes(matches),
			factories: make([]factory.Factory, len(matches)),
		}

		for i, impl := range matches {
			f, err := factory.Make(impl, contract)
			if err != nil {
				rerr := ResolutionError{Contract: contract, Candidates: []reflect.Type{impl.Type}, Cause: err}
				f = func() (any, error) { return nil, rerr }
			}
			set.factories[i] = f
		}

		l.logger.Debug("cached factories", "contract", formatType(contract), "implementations", len(matches))
		return set, nil
	})
	return set
}

func implTypes(impls []*reflection.Implementation) []reflect.Type {
	out := make([]reflect.Type, len(impls))
	for i, impl := range impls {
		out[i] = impl.Type
	}
	return out
}
