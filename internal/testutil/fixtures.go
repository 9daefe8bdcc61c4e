package testutil

import "github.com/junioryono/locator"

// HashingModule registers MD5 and SHA1.
func HashingModule() *locator.Module {
	return locator.NewModule("hashing",
		locator.Provide(NewMD5),
		locator.Provide(NewSHA1),
	)
}

// CommonModule registers one implementation of each single-implementation
// contract, including MapStore whose constructor takes arguments.
func CommonModule() *locator.Module {
	return locator.NewModule("common",
		locator.ProvideType[English](),
		locator.Provide(NewAtomicCounter),
		locator.Provide(NewMapStore),
	)
}

// CodecModule registers Upper, Lower and Reverse.
func CodecModule() *locator.Module {
	return locator.NewModule("codecs",
		locator.ProvideType[Upper](),
		locator.ProvideType[Lower](),
		locator.Provide(NewReverse),
	)
}

// StatusModule registers OK, AlsoOK and NotFound; OK and AlsoOK clash.
func StatusModule() *locator.Module {
	return locator.NewModule("status",
		locator.ProvideType[OK](),
		locator.ProvideType[AlsoOK](),
		locator.ProvideType[NotFound](),
	)
}

// BrokenModule fails to enumerate: its only registration is not a
// constructor.
func BrokenModule() *locator.Module {
	return locator.NewModule("broken",
		locator.Provide("not a function"),
	)
}
