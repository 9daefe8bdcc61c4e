package locator

import (
	"reflect"

	"github.com/junioryono/locator/internal/inventory"
	"github.com/junioryono/locator/internal/reflection"
)

// ModuleOption represents a registration action within a module.
type ModuleOption func(*moduleBuilder) error

// Module is a named group of concrete types. Modules are enumerated once,
// when the locator they were loaded into first resolves something. A module
// whose enumeration fails contributes no types and is reported by
// FailedSources.
type Module struct {
	name string
	opts []ModuleOption
}

type moduleBuilder struct {
	module   string
	analyzer *reflection.Analyzer
	impls    *[]*reflection.Implementation
}

// NewModule creates a new module with the given name and registrations.
//
// Example:
//
//	var Hashing = locator.NewModule("hashing",
//	    locator.Provide(NewMD5),
//	    locator.Provide(NewSHA1),
//	    locator.ProvideType[Checksum](),
//	)
//
//	var App = locator.NewModule("app",
//	    locator.Include(Hashing),
//	    locator.Provide(NewService),
//	)
func NewModule(name string, opts ...ModuleOption) *Module {
	return &Module{name: name, opts: opts}
}

// Name returns the module name.
func (m *Module) Name() string { return m.name }

// Provide registers the result type of constructor as a concrete type.
// Accepted shapes are func(...) T and func(...) (T, error) where T is not an
// interface. Constructors with parameters are registered but cannot be
// used to create reference types.
func Provide(constructor any) ModuleOption {
	return func(b *moduleBuilder) error {
		impl, err := b.analyzer.Analyze(constructor)
		if err != nil {
			return RegistrationError{
				Module:      b.module,
				Constructor: reflect.TypeOf(constructor),
				Cause:       err,
			}
		}
		b.add(impl)
		return nil
	}
}

// ProvideType registers T without a constructor. Value types resolve to
// their zero value and pointer types to a newly allocated element.
func ProvideType[T any]() ModuleOption {
	return func(b *moduleBuilder) error {
		impl, err := b.analyzer.Describe(typeOf[T]())
		if err != nil {
			return RegistrationError{Module: b.module, Cause: err}
		}
		b.add(impl)
		return nil
	}
}

// Include nests other modules. A failing nested module fails the
// including module.
func Include(mods ...*Module) ModuleOption {
	return func(b *moduleBuilder) error {
		for _, m := range mods {
			if m == nil {
				return ErrModuleNil
			}

			nested := &moduleBuilder{module: m.name, analyzer: b.analyzer, impls: b.impls}
			if err := nested.run(m.opts); err != nil {
				return ModuleError{Module: m.name, Cause: err}
			}
		}
		return nil
	}
}

func (b *moduleBuilder) add(impl *reflection.Implementation) {
	impl.Module = b.module
	*b.impls = append(*b.impls, impl)
}

func (b *moduleBuilder) run(opts []ModuleOption) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(b); err != nil {
			return err
		}
	}
	return nil
}

// source adapts the module to the inventory.
func (m *Module) source(analyzer *reflection.Analyzer) inventory.Source {
	return inventory.Source{
		Name: m.name,
		Enumerate: func() ([]*reflection.Implementation, error) {
			var impls []*reflection.Implementation
			b := &moduleBuilder{module: m.name, analyzer: analyzer, impls: &impls}
			if err := b.run(m.opts); err != nil {
				return nil, err
			}
			return impls, nil
		},
	}
}
