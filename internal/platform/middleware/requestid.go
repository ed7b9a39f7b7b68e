// Package middleware holds the HTTP middleware chain shared by every route.
package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"applygate/pkg/requestcontext"
)

// RequestIDHeader carries the request ID in and out of the gateway.
const RequestIDHeader = "X-Request-ID"

// RequestID stores an inbound X-Request-ID, or a fresh UUID, in the request
// context and echoes it on the response. The request start time is stored
// alongside it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		ctx = requestcontext.WithTime(ctx, time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
