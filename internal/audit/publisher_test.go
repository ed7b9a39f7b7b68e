package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applygate/pkg/testutil"
)

type recordingSink struct {
	events []Event
	err    error
}

func (s *recordingSink) Append(_ context.Context, event Event) error {
	s.events = append(s.events, event)
	return s.err
}

func TestPublisherStampsEvents(t *testing.T) {
	sink := &recordingSink{}
	pub := NewPublisher(sink)
	fixed := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	pub.now = func() time.Time { return fixed }

	require.NoError(t, pub.Emit(context.Background(), Event{Action: ActionEvaluationSucceeded}))

	require.Len(t, sink.events, 1)
	assert.NotEmpty(t, sink.events[0].ID)
	assert.Equal(t, fixed, sink.events[0].Timestamp)
}

func TestPublisherKeepsProvidedIdentity(t *testing.T) {
	sink := &recordingSink{}
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, NewPublisher(sink).Emit(context.Background(), Event{ID: "evt-1", Timestamp: ts}))

	assert.Equal(t, "evt-1", sink.events[0].ID)
	assert.Equal(t, ts, sink.events[0].Timestamp)
}

func TestPublisherPropagatesSinkErrors(t *testing.T) {
	sink := &recordingSink{err: errors.New("sink down")}
	assert.EqualError(t, NewPublisher(sink).Emit(context.Background(), Event{}), "sink down")
}

func TestLogSinkWritesMaskedApplicant(t *testing.T) {
	logger, buf := testutil.NewCaptureLogger()

	err := NewLogSink(logger).Append(context.Background(), Event{
		ID:     "evt-1",
		Action: ActionEvaluationFailed,
		Status: 401,
		Applicant: MaskedApplicant{
			FirstName: "Jane",
			LastName:  "Approve",
			Email:     "jan*******",
			SSN:       "*********",
		},
	})

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, `"action":"evaluation_failed"`)
	assert.Contains(t, out, `"ssn":"*********"`)
	assert.Contains(t, out, `"status":401`)
}

func TestLogSinkWritesClient(t *testing.T) {
	logger, buf := testutil.NewCaptureLogger()

	err := NewLogSink(logger).Append(context.Background(), Event{
		ID:     "evt-2",
		Action: ActionEvaluationSucceeded,
		Client: &Client{Browser: "Chrome", Platform: "Windows", Bot: true},
	})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"client":{"browser":"Chrome","platform":"Windows","bot":true}`)
}

func TestNewKafkaSinkRequiresBrokers(t *testing.T) {
	_, err := NewKafkaSink(nil, "")
	assert.Error(t, err)
}
