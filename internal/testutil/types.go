package testutil

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"strings"
	"sync/atomic"
)

// ============================================================================
// Hashing contracts
// ============================================================================

// HashingAlgorithm is implemented by MD5 and SHA1.
type HashingAlgorithm interface {
	Name() string
	Hash(text string) string
	IsThisAlgorithm(hash string) bool
}

// MD5 formats hashes as "md5:<hex>".
type MD5 struct {
	prefix string
}

func NewMD5() *MD5 { return &MD5{prefix: "md5:"} }

func (*MD5) Name() string { return "md5" }

func (m *MD5) Hash(text string) string {
	sum := md5.Sum([]byte(text))
	return m.prefix + hex.EncodeToString(sum[:])
}

func (m *MD5) IsThisAlgorithm(hash string) bool { return strings.HasPrefix(hash, m.prefix) }

// SHA1 formats hashes as "sha1:<hex>".
type SHA1 struct {
	prefix string
}

func NewSHA1() *SHA1 { return &SHA1{prefix: "sha1:"} }

func (*SHA1) Name() string { return "sha1" }

func (s *SHA1) Hash(text string) string {
	sum := sha1.Sum([]byte(text))
	return s.prefix + hex.EncodeToString(sum[:])
}

func (s *SHA1) IsThisAlgorithm(hash string) bool { return strings.HasPrefix(hash, s.prefix) }

// ============================================================================
// Single-implementation contracts
// ============================================================================

// Greeter has exactly one implementation, English.
type Greeter interface {
	Greet(name string) string
}

// English is a value type; it resolves to its zero value.
type English struct {
	Greeting string
}

func (e English) Greet(name string) string {
	if e.Greeting == "" {
		return "Hello, " + name
	}
	return e.Greeting + ", " + name
}

// Counter is a reference type with a nullary constructor.
type Counter interface {
	Increment() int
}

type AtomicCounter struct {
	n atomic.Int64
}

func NewAtomicCounter() *AtomicCounter { return &AtomicCounter{} }

func (c *AtomicCounter) Increment() int { return int(c.n.Add(1)) }

// Store is implemented only by a type whose constructor takes arguments.
type Store interface {
	Get(key string) (string, bool)
}

type MapStore struct {
	data map[string]string
}

func NewMapStore(data map[string]string) *MapStore { return &MapStore{data: data} }

func (s *MapStore) Get(key string) (string, bool) {
	v, ok := s.data[key]
	return v, ok
}

// Unimplemented has no implementations in any fixture module.
type Unimplemented interface {
	Never()
}

// ============================================================================
// Failing constructors
// ============================================================================

// ErrBrokenConstructor is returned by NewBroken.
var ErrBrokenConstructor = errors.New("broken constructor")

// Notifier is implemented by Broken and Panicky.
type Notifier interface {
	Notify(msg string) error
}

type Broken struct{}

func NewBroken() (*Broken, error) { return nil, ErrBrokenConstructor }

func (*Broken) Notify(string) error { return nil }

type Panicky struct{}

func NewPanicky() *Panicky { panic("panicky constructor") }

func (*Panicky) Notify(string) error { return nil }

// ============================================================================
// Keyed contracts
// ============================================================================

// Codec is resolved by the name it reports.
type Codec interface {
	LocatorKey() string
	Encode(s string) string
}

// Upper is a value type.
type Upper struct{}

func (Upper) LocatorKey() string { return "upper" }
func (Upper) Encode(s string) string { return strings.ToUpper(s) }

// Lower is a value type.
type Lower struct{}

func (Lower) LocatorKey() string { return "lower" }
func (Lower) Encode(s string) string { return strings.ToLower(s) }

// Reverse is a reference type with a constructor.
type Reverse struct {
	created int
}

func NewReverse() *Reverse { return &Reverse{created: 1} }

func (*Reverse) LocatorKey() string { return "reverse" }

func (*Reverse) Encode(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

// Created reports whether the instance came from NewReverse.
func (r *Reverse) Created() bool { return r.created == 1 }

// Status is keyed by an integer. OK and AlsoOK report the same key.
type Status interface {
	LocatorKey() int
	Text() string
}

type OK struct{}

func (OK) LocatorKey() int { return 200 }
func (OK) Text() string { return "OK" }

type AlsoOK struct{}

func (AlsoOK) LocatorKey() int { return 200 }
func (AlsoOK) Text() string { return "Also OK" }

type NotFound struct{}

func (NotFound) LocatorKey() int { return 404 }
func (NotFound) Text() string { return "Not Found" }
