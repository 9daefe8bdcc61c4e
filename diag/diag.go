// Package diag serves a locator's inventory and cache counters over HTTP.
//
// The handler is read-only and meant for debugging "my implementation
// wasn't found" problems in a running process:
//
//	mux.Handle("/debug/locator/", http.StripPrefix("/debug/locator", diag.Handler(l)))
//
// Routes:
//
//	GET /                 summary: locator id, type and failure counts
//	GET /types            every inventoried type
//	GET /types/{module}   the types registered by one module
//	GET /failed           modules that could not be enumerated
//	GET /stats            discovery and cache counters
package diag

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/junioryono/locator"
)

// Config holds the configuration for the diagnostics handler.
type Config struct {
	// ErrorHandler is called when a response cannot be encoded.
	// If nil, errors are logged using Logger.
	ErrorHandler func(http.ResponseWriter, *http.Request, error)

	// Logger receives encoding failures. Defaults to slog.Default().
	Logger *slog.Logger

	// Middlewares run before every route, after panic recovery.
	Middlewares []func(http.Handler) http.Handler
}

// Option configures the diagnostics handler.
type Option func(*Config)

// WithErrorHandler sets the handler for encoding failures.
func WithErrorHandler(h func(http.ResponseWriter, *http.Request, error)) Option {
	return func(c *Config) {
		c.ErrorHandler = h
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithMiddleware adds a middleware. Multiple middlewares run in the order
// they are added.
func WithMiddleware(mw func(http.Handler) http.Handler) Option {
	return func(c *Config) {
		c.Middlewares = append(c.Middlewares, mw)
	}
}

// Summary is the response of GET /.
type Summary struct {
	ID          string `json:"id"`
	Types       int    `json:"types"`
	Failed      int    `json:"failed"`
	Discoveries int    `json:"discoveries"`
}

// Handler returns the diagnostics router for l. Serving any route except
// /stats triggers discovery.
func Handler(l *locator.Locator, opts ...Option) http.Handler {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ErrorHandler == nil {
		logger := cfg.Logger
		cfg.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("failed to write diagnostics", "path", r.URL.Path, "error", err)
		}
	}

	h := &handler{l: l, cfg: cfg}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cfg.Middlewares...)

	r.Get("/", h.summary)
	r.Get("/types", h.types)
	r.Get("/types/{module}", h.moduleTypes)
	r.Get("/failed", h.failed)
	r.Get("/stats", h.stats)
	return r
}

type handler struct {
	l   *locator.Locator
	cfg *Config
}

func (h *handler) summary(w http.ResponseWriter, r *http.Request) {
	types := h.l.Types()
	failed := h.l.FailedSources()

	h.write(w, r, http.StatusOK, Summary{
		ID:          h.l.ID(),
		Types:       len(types),
		Failed:      len(failed),
		Discoveries: h.l.Stats().Discoveries,
	})
}

func (h *handler) types(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, http.StatusOK, h.l.Types())
}

func (h *handler) moduleTypes(w http.ResponseWriter, r *http.Request) {
	module := chi.URLParam(r, "module")

	out := []locator.TypeInfo{}
	for _, info := range h.l.Types() {
		if info.Module == module {
			out = append(out, info)
		}
	}

	if len(out) == 0 {
		h.write(w, r, http.StatusNotFound, map[string]string{
			"error": "no types registered by module " + module,
		})
		return
	}
	h.write(w, r, http.StatusOK, out)
}

func (h *handler) failed(w http.ResponseWriter, r *http.Request) {
	failed := h.l.FailedSources()
	if failed == nil {
		failed = []string{}
	}
	h.write(w, r, http.StatusOK, failed)
}

func (h *handler) stats(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, http.StatusOK, h.l.Stats())
}

func (h *handler) write(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		h.cfg.ErrorHandler(w, r, err)
	}
}
