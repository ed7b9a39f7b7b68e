package middleware

import (
	"net/http"

	"github.com/mssola/useragent"

	"applygate/pkg/requestcontext"
)

// ClientInfo parses the User-Agent header once per request and stores the
// result in the request context for the logger and audit events.
func ClientInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.UserAgent()
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		ctx := requestcontext.WithClient(r.Context(), parseUserAgent(raw))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func parseUserAgent(raw string) requestcontext.ClientInfo {
	ua := useragent.New(raw)
	name, version := ua.Browser()
	return requestcontext.ClientInfo{
		Browser:        name,
		BrowserVersion: version,
		Platform:       ua.Platform(),
		OS:             ua.OS(),
		Mobile:         ua.Mobile(),
		Bot:            ua.Bot(),
	}
}
