// Package locator finds and creates implementations of interfaces without
// the caller naming a concrete type.
//
// # Overview
//
// Implementation packages register their concrete types in modules. A
// Locator discovers the loaded modules once, on first use, and resolves
// contracts against the resulting inventory:
//   - Resolve returns the single implementation of a contract
//   - ResolveWhere picks the one implementation a predicate accepts
//   - All and ResolveAll return every implementation
//   - Bind overrides discovery for a contract
//   - Keyed resolves implementations by a key they report themselves
//
// Every call creates a new instance. Factories are built once per contract
// and cached for the lifetime of the locator.
//
// # Registration
//
//	var Hashing = locator.NewModule("hashing",
//	    locator.Provide(NewMD5),          // func() *MD5
//	    locator.Provide(NewSHA1),         // func() (*SHA1, error)
//	    locator.ProvideType[CRC32](),     // zero value of a struct
//	)
//
//	l, err := locator.New(locator.WithModules(Hashing))
//
// Packages may instead register into the process-wide locator from init
// with MustLoad and resolve through Default.
//
// # Construction
//
// Only constructors that take no arguments are invoked. Value types
// (structs, arrays and scalars) without such a constructor resolve to their
// zero value, and pointer types registered with ProvideType resolve to a
// newly allocated element. Any other type without a nullary constructor
// fails with ErrNoParameterlessConstructor.
//
// # Resolution
//
//	algo, err := locator.ResolveWhere(l, func(a HashingAlgorithm) bool {
//	    return a.IsThisAlgorithm(hash)
//	})
//
// Failures are ResolutionError or KeyError values wrapping one of the
// sentinel errors:
//
//	if errors.Is(err, locator.ErrAmbiguousContract) {
//	    locator.Bind[HashingAlgorithm, *SHA1](l)
//	}
//
// # Failed modules
//
// A module that cannot be enumerated does not prevent discovery. It is
// recorded and reported by FailedSources as "<module>: <error>".
package locator
