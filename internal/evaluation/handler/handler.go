package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"applygate/internal/applicant"
	"applygate/internal/evaluation"
	"applygate/internal/provider"
	"applygate/pkg/platform/httputil"
	"applygate/pkg/requestcontext"
)

const (
	healthMessage     = "Backend running"
	evaluationFailure = "Failed to evaluate applicant"
	invalidBody       = "Invalid request body"
)

// Service defines the interface for evaluation operations.
type Service interface {
	Evaluate(ctx context.Context, rec applicant.Record) (*evaluation.Result, error)
}

// Handler wires the intake endpoints to the evaluation service.
type Handler struct {
	service      Service
	logger       *slog.Logger
	maxBodyBytes int64
}

// New constructs an evaluation handler. maxBodyBytes <= 0 selects
// httputil.DefaultMaxBodyBytes.
func New(service Service, logger *slog.Logger, maxBodyBytes int64) *Handler {
	return &Handler{
		service:      service,
		logger:       logger,
		maxBodyBytes: maxBodyBytes,
	}
}

// Register mounts the health and apply endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.HandleHealth)
	r.Post("/apply", h.HandleApply)
	r.Options("/apply", h.HandlePreflight)
}

// HandleHealth handles GET /.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, healthMessage)
}

// HandlePreflight answers OPTIONS /apply. CORS headers are set by middleware.
func (h *Handler) HandlePreflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// HandleApply handles POST /apply.
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	var rec applicant.Record
	if err := httputil.DecodeJSON(w, r, h.maxBodyBytes, &rec); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, httputil.ErrBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		h.logger.WarnContext(ctx, "rejected apply request",
			"request_id", requestID,
			"status", status,
			"error", err,
		)
		httputil.WriteError(w, status, invalidBody, err.Error())
		return
	}

	result, err := h.service.Evaluate(ctx, rec)
	if err != nil {
		httputil.WriteError(w, provider.StatusCode(err), evaluationFailure, provider.Details(err))
		return
	}

	h.logger.InfoContext(ctx, "applicant evaluated",
		"request_id", requestID,
		"outcome", result.Outcome,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}
