// Package evaluation turns an applicant record into a provider evaluation and a
// normalized outcome.
package evaluation

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"applygate/internal/applicant"
	"applygate/internal/audit"
	"applygate/internal/evaluation/metrics"
	"applygate/internal/outcome"
	"applygate/internal/provider"
	"applygate/internal/transform"
	"applygate/pkg/platform/privacy"
	"applygate/pkg/requestcontext"
)

// DefaultAuditTimeout bounds a single audit emit.
const DefaultAuditTimeout = 5 * time.Second

// Provider submits a transformed payload to the evaluation provider.
type Provider interface {
	Evaluate(ctx context.Context, payload transform.Payload) (*provider.Response, error)
}

// Result is what the gateway returns for a successful evaluation.
type Result struct {
	Outcome outcome.Label
	Full    json.RawMessage
}

// Service runs one evaluation per call: transform, a single provider attempt,
// normalize.
type Service struct {
	adapter  transform.Adapter
	provider Provider
	logger   *slog.Logger
	metrics  *metrics.Metrics
	masker   privacy.Masker
	audit    *audit.Publisher
	tracer   trace.Tracer

	auditTimeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records outcomes, provider errors, and latency.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithMasker overrides privacy.DefaultMasker for log and audit output.
func WithMasker(m privacy.Masker) Option {
	return func(s *Service) {
		s.masker = m
	}
}

// WithAudit emits an audit event for every evaluation attempt.
func WithAudit(p *audit.Publisher) Option {
	return func(s *Service) {
		s.audit = p
	}
}

// WithAuditTimeout overrides DefaultAuditTimeout. A sink that has not
// accepted the event by then is abandoned and the evaluation proceeds.
func WithAuditTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.auditTimeout = d
		}
	}
}

// WithTracer overrides the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// NewService builds an evaluation service.
func NewService(adapter transform.Adapter, p Provider, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		adapter:  adapter,
		provider: p,
		logger:   logger,
		masker:   privacy.DefaultMasker(),
		tracer:   otel.Tracer("applygate/evaluation"),

		auditTimeout: DefaultAuditTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Evaluate submits rec to the provider once. The provider call is detached from
// ctx's cancellation so a client disconnect does not abort it; the provider
// client's own timeout bounds it instead. Failures are returned as
// *provider.Error where the provider was involved.
func (s *Service) Evaluate(ctx context.Context, rec applicant.Record) (*Result, error) {
	requestID := requestcontext.RequestID(ctx)
	firstName := applicant.Value(rec.FirstName)
	lastName := applicant.Value(rec.LastName)

	s.logger.InfoContext(ctx, "processing application",
		"request_id", requestID,
		"first_name", firstName,
		"last_name", lastName,
	)

	payload := s.adapter.Transform(rec)

	callCtx, span := s.tracer.Start(context.WithoutCancel(ctx), "provider.evaluate",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("request_id", requestID),
			attribute.String("schema_version", string(s.adapter.Version())),
		),
	)
	start := time.Now()
	resp, err := s.provider.Evaluate(callCtx, payload)
	elapsed := time.Since(start)
	s.metrics.ObserveProviderLatency(elapsed)

	if err != nil {
		status := provider.StatusCode(err)
		category := provider.CategoryOf(err)
		span.SetAttributes(
			attribute.Int("http.status_code", status),
			attribute.String("error.category", string(category)),
		)
		span.SetStatus(codes.Error, string(category))
		span.End()

		s.metrics.IncrementProviderError(string(category), status)
		s.logFailure(ctx, rec, err, status)
		s.emit(ctx, rec, audit.Event{
			Action:        audit.ActionEvaluationFailed,
			Status:        status,
			ErrorCategory: string(category),
			Duration:      elapsed,
		})
		return nil, err
	}

	summary := outcome.ParseSummary(resp.Body)
	label := outcome.Normalize(summary.Outcome)
	span.SetAttributes(
		attribute.Int("http.status_code", resp.Status),
		attribute.String("outcome", label.String()),
	)
	span.End()

	s.metrics.IncrementOutcome(label)
	s.logger.InfoContext(ctx, "evaluation complete",
		"request_id", requestID,
		"raw_outcome", summary.Outcome,
		"outcome", label,
		"score", summary.Score,
		"tags", summary.Tags,
		"duration_ms", elapsed.Milliseconds(),
	)
	s.emit(ctx, rec, audit.Event{
		Action:   audit.ActionEvaluationSucceeded,
		Outcome:  label.String(),
		Status:   resp.Status,
		Duration: elapsed,
	})

	return &Result{Outcome: label, Full: resp.Body}, nil
}

func (s *Service) logFailure(ctx context.Context, rec applicant.Record, err error, status int) {
	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"status", status,
		"message", err.Error(),
		"first_name", applicant.Value(rec.FirstName),
		"last_name", applicant.Value(rec.LastName),
		"email", s.masker.Email(applicant.Value(rec.Email)),
		"ssn", s.masker.SSN(applicant.Value(rec.SSN)),
	}
	if provider.HasBody(err) {
		attrs = append(attrs, "provider_error", "[redacted]")
	}
	s.logger.ErrorContext(ctx, "error evaluating applicant", attrs...)
}

// emit failures are logged and never change the evaluation result.
func (s *Service) emit(ctx context.Context, rec applicant.Record, event audit.Event) {
	if s.audit == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	event.Timestamp = requestcontext.Now(ctx)
	event.SchemaVersion = string(s.adapter.Version())
	event.Applicant = audit.MaskedApplicant{
		FirstName: applicant.Value(rec.FirstName),
		LastName:  applicant.Value(rec.LastName),
		Email:     s.masker.Email(applicant.Value(rec.Email)),
		SSN:       s.masker.SSN(applicant.Value(rec.SSN)),
	}
	if client, ok := requestcontext.Client(ctx); ok {
		event.Client = &audit.Client{
			Browser:  client.Browser,
			Platform: client.Platform,
			OS:       client.OS,
			Mobile:   client.Mobile,
			Bot:      client.Bot,
		}
	}

	emitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.auditTimeout)
	defer cancel()
	if err := s.audit.Emit(emitCtx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"request_id", event.RequestID,
			"action", event.Action,
			"error", err,
		)
	}
}
