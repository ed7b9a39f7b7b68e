// Package audit records evaluation attempts to a pluggable sink: structured
// logs by default, a Kafka topic when brokers are configured.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Sink persists or forwards audit events.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Publisher stamps events with an ID and timestamp and hands them to a sink.
type Publisher struct {
	sink Sink
	now  func() time.Time
}

// NewPublisher wraps sink.
func NewPublisher(sink Sink) *Publisher {
	return &Publisher{sink: sink, now: time.Now}
}

// Emit fills ID and Timestamp when unset and appends the event.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	return p.sink.Append(ctx, event)
}

// LogSink writes events as structured log records.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink returns a sink writing to logger.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Append logs the event at info level.
func (s *LogSink) Append(ctx context.Context, event Event) error {
	attrs := []any{
		"audit_id", event.ID,
		"action", event.Action,
		"request_id", event.RequestID,
		"schema_version", event.SchemaVersion,
		"outcome", event.Outcome,
		"status", event.Status,
		"error_category", event.ErrorCategory,
		"duration_ms", event.Duration.Milliseconds(),
		slog.Group("applicant",
			"first_name", event.Applicant.FirstName,
			"last_name", event.Applicant.LastName,
			"email", event.Applicant.Email,
			"ssn", event.Applicant.SSN,
		),
	}
	if event.Client != nil {
		attrs = append(attrs, slog.Group("client",
			"browser", event.Client.Browser,
			"platform", event.Client.Platform,
			"bot", event.Client.Bot,
		))
	}
	s.logger.InfoContext(ctx, "audit event", attrs...)
	return nil
}
