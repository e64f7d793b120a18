// Package gateway is the HTTP boundary translating transport requests into
// directory and catalog calls with a uniform error envelope.
package gateway

import (
	"log/slog"
	"net/http"

	validator "github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/giftgram/giftgram/internal/apperrors"
	"github.com/giftgram/giftgram/internal/catalog"
	"github.com/giftgram/giftgram/internal/directory"
	"github.com/giftgram/giftgram/internal/health"
	"github.com/giftgram/giftgram/pkg/logger"
)

// knownRoutes is returned by the not-found envelope so callers can discover
// the API without docs.
var knownRoutes = []string{
	"POST /api/user/findOrCreate",
	"PUT /api/user/{id}/language",
	"GET /api/translations",
	"GET /api/translations/{lang}",
	"GET /health",
	"GET /metrics",
}

// Router holds shared dependencies for the gateway's HTTP handlers.
type Router struct {
	mux        *http.ServeMux
	log        *slog.Logger
	users      *directory.Service
	bundles    *catalog.Catalog
	checker    *health.Checker
	errHandler *apperrors.Handler
	validate   *validator.Validate
	production bool
	corsOrigin string
}

// NewRouter wires handlers for every endpoint and returns the ready router.
func NewRouter(
	log *slog.Logger,
	users *directory.Service,
	bundles *catalog.Catalog,
	checker *health.Checker,
	errHandler *apperrors.Handler,
	production bool,
	corsOrigin string,
) *Router {
	rt := &Router{
		mux:        http.NewServeMux(),
		log:        log,
		users:      users,
		bundles:    bundles,
		checker:    checker,
		errHandler: errHandler,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		production: production,
		corsOrigin: corsOrigin,
	}

	rt.applyRoutes()

	return rt
}

func (rt *Router) applyRoutes() {
	rt.handle("POST /api/user/findOrCreate", "user_find_or_create", rt.handleFindOrCreate)
	rt.handle("PUT /api/user/{id}/language", "user_set_language", rt.handleSetLanguage)
	rt.handle("GET /api/translations", "translations_list", rt.handleListLanguages)
	rt.handle("GET /api/translations/{lang}", "translations_bundle", rt.handleGetBundle)
	rt.handle("GET /health", "health", rt.handleHealth)

	rt.mux.Handle("GET /metrics", promhttp.Handler())

	rt.handle("/", "not_found", rt.handleNotFound)
}

func (rt *Router) handle(pattern, route string, h http.HandlerFunc) {
	rt.mux.Handle(pattern, metricsMiddleware(route)(h))
}

// ServeHTTP applies the global middleware chain around the mux.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	chain(rt.mux,
		logger.Middleware,
		loggingMiddleware(rt.log),
		corsMiddleware(rt.corsOrigin),
	).ServeHTTP(w, r)
}
