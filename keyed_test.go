package locator_test

import (
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/junioryono/locator"
	"github.com/junioryono/locator/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Widget interface {
	LocatorKey() string
	Render() string
}

type Plugin interface {
	LocatorKey() string
	Codecs() []string
}

type codecPlugin struct{ codecs []string }

func (p *codecPlugin) LocatorKey() string { return "codecs" }
func (p *codecPlugin) Codecs() []string   { return p.codecs }

func TestKeyed_Resolve(t *testing.T) {
	l := testutil.NewLocator(t, testutil.CodecModule(), testutil.HashingModule())

	codecs, err := locator.NewKeyed[string, testutil.Codec](l)
	require.NoError(t, err)

	t.Run("value type", func(t *testing.T) {
		codec, err := codecs.Resolve("upper")
		require.NoError(t, err)
		assert.IsType(t, testutil.Upper{}, codec)
		assert.Equal(t, "HELLO", codec.Encode("hello"))
	})

	t.Run("reference type uses its constructor", func(t *testing.T) {
		codec, err := codecs.Resolve("reverse")
		require.NoError(t, err)

		reverse, ok := codec.(*testutil.Reverse)
		require.True(t, ok)
		assert.True(t, reverse.Created())
		assert.Equal(t, "olleh", codec.Encode("hello"))

		again, err := codecs.Resolve("reverse")
		require.NoError(t, err)
		assert.NotSame(t, reverse, again)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := codecs.Resolve("base64")
		ke := testutil.AssertKeyError(t, err, "base64", locator.ErrUnknownKey)
		assert.Equal(t, reflect.TypeFor[testutil.Codec](), ke.Contract)
		assert.Equal(t, "couldn't find any implementation of Codec with the key base64", err.Error())
	})

	t.Run("keys in discovery order", func(t *testing.T) {
		assert.Equal(t, []string{"upper", "lower", "reverse"}, codecs.Keys())
		assert.True(t, codecs.Has("lower"))
		assert.False(t, codecs.Has("base64"))

		typ, ok := codecs.Type("reverse")
		require.True(t, ok)
		assert.Equal(t, reflect.TypeFor[*testutil.Reverse](), typ)

		_, ok = codecs.Type("base64")
		assert.False(t, ok)
	})

	t.Run("all", func(t *testing.T) {
		var encoded []string
		for codec, err := range codecs.All() {
			require.NoError(t, err)
			encoded = append(encoded, codec.Encode("Go"))
		}
		assert.Equal(t, []string{"GO", "go", "oG"}, encoded)
	})
}

func TestKeyed_DuplicateKey(t *testing.T) {
	l := testutil.NewLocator(t, testutil.StatusModule())

	_, err := locator.NewKeyed[int, testutil.Status](l)
	ke := testutil.AssertKeyError(t, err, 200, locator.ErrDuplicateKey)
	assert.Equal(t, []reflect.Type{
		reflect.TypeFor[testutil.OK](),
		reflect.TypeFor[testutil.AlsoOK](),
	}, ke.Implementations)
	assert.Contains(t, err.Error(), "not allowed to return the same locator key 200 (OK, AlsoOK)")

	// Failed construction is not cached.
	_, err = locator.NewKeyed[int, testutil.Status](l)
	assert.ErrorIs(t, err, locator.ErrDuplicateKey)
	assert.Equal(t, int64(2), l.Stats().Keyed.Computes)
	assert.Equal(t, int64(2), l.Stats().Keyed.Failures)
}

func TestKeyed_NoImplementations(t *testing.T) {
	l := testutil.NewLocator(t, testutil.CodecModule())

	_, err := locator.NewKeyed[string, Widget](l)
	testutil.AssertResolutionError[Widget](t, err, locator.ErrUnsatisfiedContract)
}

func TestKeyed_ConstructorBuildsAnotherKeyed(t *testing.T) {
	l := testutil.NewLocator(t, testutil.CodecModule())
	require.NoError(t, l.Load(locator.NewModule("plugins",
		locator.Provide(func() (*codecPlugin, error) {
			codecs, err := locator.NewKeyed[string, testutil.Codec](l)
			if err != nil {
				return nil, err
			}
			return &codecPlugin{codecs: codecs.Keys()}, nil
		}),
	)))

	type result struct {
		plugins *locator.Keyed[string, Plugin]
		err     error
	}
	done := make(chan result, 1)
	go func() {
		plugins, err := locator.NewKeyed[string, Plugin](l)
		done <- result{plugins, err}
	}()

	select {
	case r := <-done:
		require.NoError(t, r.err)
		plugin, err := r.plugins.Resolve("codecs")
		require.NoError(t, err)
		assert.Equal(t, []string{"upper", "lower", "reverse"}, plugin.Codecs())
	case <-time.After(5 * time.Second):
		t.Fatal("NewKeyed blocked while a constructor built another keyed resolver")
	}

	assert.Equal(t, int64(2), l.Stats().Keyed.Computes)
}

func TestKeyed_ZeroValue(t *testing.T) {
	var codecs locator.Keyed[string, testutil.Codec]

	_, err := codecs.Resolve("upper")
	ke := testutil.AssertKeyError(t, err, "upper", locator.ErrUnknownKey)
	assert.Equal(t, reflect.TypeFor[testutil.Codec](), ke.Contract)

	assert.Empty(t, codecs.Keys())
	assert.False(t, codecs.Has("upper"))
	_, ok := codecs.Type("upper")
	assert.False(t, ok)

	count := 0
	for range codecs.All() {
		count++
	}
	assert.Zero(t, count)
}

func TestKeyed_NilLocator(t *testing.T) {
	_, err := locator.NewKeyed[string, testutil.Codec](nil)
	assert.ErrorIs(t, err, locator.ErrNilLocator)
}

func TestKeyed_TableIsBuiltOnce(t *testing.T) {
	l := testutil.NewLocator(t, testutil.CodecModule())

	first, err := locator.NewKeyed[string, testutil.Codec](l)
	require.NoError(t, err)
	second, err := locator.NewKeyed[string, testutil.Codec](l)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, first.Keys(), second.Keys())

	stats := l.Stats()
	assert.Equal(t, int64(1), stats.Keyed.Computes)
	assert.Equal(t, int64(1), stats.Keyed.Hits)
	assert.Equal(t, 1, stats.Discoveries)
}

func TestKeyed_ConcurrentConstruction(t *testing.T) {
	l := testutil.NewLocator(t, testutil.CodecModule())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codecs, err := locator.NewKeyed[string, testutil.Codec](l)
			if !assert.NoError(t, err) {
				return
			}
			codec, err := codecs.Resolve("lower")
			assert.NoError(t, err)
			assert.Equal(t, "abc", codec.Encode("ABC"))
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), l.Stats().Keyed.Computes)
}

func BenchmarkKeyed_Resolve(b *testing.B) {
	l, err := locator.New(locator.WithModules(testutil.CodecModule()))
	if err != nil {
		b.Fatal(err)
	}
	codecs, err := locator.NewKeyed[string, testutil.Codec](l)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		codecs.Resolve("reverse")
	}
}
