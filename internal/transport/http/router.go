// Package http composes the gateway's chi router: shared middleware, CORS,
// module routes, and the metrics endpoint.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"applygate/internal/platform/metrics"
	"applygate/internal/platform/middleware"
)

// RouteRegistrar is implemented by module handlers.
type RouteRegistrar interface {
	Register(r chi.Router)
}

// RouterConfig carries what the router needs beyond the module handlers.
type RouterConfig struct {
	AllowedOrigins []string
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
}

// NewRouter builds the root handler. /metrics sits outside the CORS guard so
// scrapers without an allowed Origin can reach it.
func NewRouter(cfg RouterConfig, modules ...RouteRegistrar) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientInfo)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recover(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.CORS(cfg.AllowedOrigins, cfg.Logger))
		for _, m := range modules {
			m.Register(r)
		}
	})
	return r
}
