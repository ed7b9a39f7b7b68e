package middleware

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/cors"

	"applygate/pkg/platform/httputil"
	"applygate/pkg/requestcontext"
)

// CORS rejects requests from origins outside allowed with 403 and decorates the
// rest with CORS headers. Requests without an Origin header (curl, server to
// server) pass through untouched. Preflights are passed on to the router so
// routes can answer OPTIONS themselves.
func CORS(allowed []string, logger *slog.Logger) func(http.Handler) http.Handler {
	headers := cors.Handler(cors.Options{
		AllowedOrigins:     allowed,
		AllowedMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:     []string{"Content-Type", "Authorization", RequestIDHeader},
		ExposedHeaders:     []string{RequestIDHeader},
		AllowCredentials:   true,
		MaxAge:             300,
		OptionsPassthrough: true,
	})

	return func(next http.Handler) http.Handler {
		decorated := headers(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && !slices.Contains(allowed, origin) {
				ctx := r.Context()
				logger.WarnContext(ctx, "origin not allowed",
					"request_id", requestcontext.RequestID(ctx),
					"origin", origin,
					"path", r.URL.Path,
				)
				httputil.WriteError(w, http.StatusForbidden, "origin not allowed", nil)
				return
			}
			decorated.ServeHTTP(w, r)
		})
	}
}
