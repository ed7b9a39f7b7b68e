package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applygate/internal/applicant"
	"applygate/internal/evaluation"
	"applygate/internal/evaluation/handler"
	"applygate/internal/outcome"
	"applygate/internal/platform/metrics"
	"applygate/internal/platform/middleware"
	"applygate/pkg/testutil"
)

type fixedService struct{}

func (fixedService) Evaluate(context.Context, applicant.Record) (*evaluation.Result, error) {
	return &evaluation.Result{Outcome: outcome.Approved, Full: json.RawMessage(`{}`)}, nil
}

type panicRoute struct{}

func (panicRoute) Register(r chi.Router) {
	r.Get("/panic", func(http.ResponseWriter, *http.Request) { panic("boom") })
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger, _ := testutil.NewCaptureLogger()
	return NewRouter(RouterConfig{
		AllowedOrigins: []string{"http://localhost:3000"},
		Logger:         logger,
		Metrics:        metrics.New(),
	}, handler.New(fixedService{}, logger, 0), panicRoute{})
}

func TestRouterServesHealth(t *testing.T) {
	rr := testutil.DoRequest(newTestRouter(t), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Backend running", rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
}

func TestRouterApplyWithAllowedOrigin(t *testing.T) {
	req := testutil.NewRequestWithBody(t, http.MethodPost, "/apply", `{"firstName":"Jane"}`)
	req.Header.Set("Origin", "http://localhost:3000")

	rr := testutil.DoRequest(newTestRouter(t), req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
	testutil.AssertJSONContains(t, rr, "outcome", "Approved")
}

func TestRouterPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/apply", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rr := testutil.DoRequest(newTestRouter(t), req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterRejectsUnknownOrigin(t *testing.T) {
	req := testutil.NewRequestWithBody(t, http.MethodPost, "/apply", `{}`)
	req.Header.Set("Origin", "https://elsewhere.example")

	rr := testutil.DoRequest(newTestRouter(t), req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRouterRecoversFromPanics(t *testing.T) {
	router := newTestRouter(t)

	rr := testutil.DoRequest(router, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	rr = testutil.DoRequest(router, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code, "server keeps serving after a panic")
}

func TestRouterExposesMetrics(t *testing.T) {
	router := newTestRouter(t)
	testutil.DoRequest(router, httptest.NewRequest(http.MethodGet, "/", nil))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rr := testutil.DoRequest(router, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "applygate_http_request_duration_seconds")
}
