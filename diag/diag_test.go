package diag_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/junioryono/locator"
	"github.com/junioryono/locator/diag"
	"github.com/junioryono/locator/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHandler(t *testing.T) {
	l := testutil.NewLocator(t, testutil.HashingModule(), testutil.CommonModule(), testutil.BrokenModule())
	h := diag.Handler(l)

	t.Run("stats before discovery", func(t *testing.T) {
		rec := get(t, h, "/stats")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		stats := decode[locator.Statistics](t, rec)
		assert.Equal(t, 0, stats.Discoveries)
	})

	t.Run("summary", func(t *testing.T) {
		rec := get(t, h, "/")
		require.Equal(t, http.StatusOK, rec.Code)

		summary := decode[diag.Summary](t, rec)
		assert.Equal(t, l.ID(), summary.ID)
		assert.Equal(t, 5, summary.Types)
		assert.Equal(t, 1, summary.Failed)
		assert.Equal(t, 1, summary.Discoveries)
	})

	t.Run("types", func(t *testing.T) {
		rec := get(t, h, "/types")
		require.Equal(t, http.StatusOK, rec.Code)

		types := decode[[]locator.TypeInfo](t, rec)
		require.Len(t, types, 5)
		assert.Equal(t, "hashing", types[0].Module)
		assert.Equal(t, "Reference", types[0].Category)
		assert.True(t, strings.HasSuffix(types[0].Name, "MD5"), types[0].Name)
	})

	t.Run("types by module", func(t *testing.T) {
		rec := get(t, h, "/types/common")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]locator.TypeInfo](t, rec), 3)

		rec = get(t, h, "/types/unknown")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "no types registered by module unknown")
	})

	t.Run("failed", func(t *testing.T) {
		rec := get(t, h, "/failed")
		require.Equal(t, http.StatusOK, rec.Code)

		failed := decode[[]string](t, rec)
		require.Len(t, failed, 1)
		assert.True(t, strings.HasPrefix(failed[0], "broken: "))
	})

	t.Run("stats after resolution", func(t *testing.T) {
		_, err := locator.Resolve[testutil.Counter](l)
		require.NoError(t, err)

		stats := decode[locator.Statistics](t, get(t, h, "/stats"))
		assert.Equal(t, 1, stats.Discoveries)
		assert.Equal(t, 5, stats.Types)
		assert.Equal(t, 1, stats.Failed)
		assert.Equal(t, int64(1), stats.Single.Computes)
	})

	t.Run("unknown route", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, get(t, h, "/nope").Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/types", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestHandler_EmptyLocator(t *testing.T) {
	h := diag.Handler(testutil.NewLocator(t))

	assert.JSONEq(t, "[]", get(t, h, "/types").Body.String())
	assert.JSONEq(t, "[]", get(t, h, "/failed").Body.String())
}

func TestHandler_Middleware(t *testing.T) {
	var calls []string
	h := diag.Handler(testutil.NewLocator(t),
		diag.WithMiddleware(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls = append(calls, r.URL.Path)
				next.ServeHTTP(w, r)
			})
		}),
	)

	get(t, h, "/stats")
	get(t, h, "/failed")
	assert.Equal(t, []string{"/stats", "/failed"}, calls)
}

func TestHandler_StripPrefix(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("/debug/locator/", http.StripPrefix("/debug/locator", diag.Handler(testutil.NewLocator(t, testutil.HashingModule()))))

	rec := get(t, mux, "/debug/locator/types/hashing")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]locator.TypeInfo](t, rec), 2)
}
