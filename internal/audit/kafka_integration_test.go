//go:build integration

package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"applygate/pkg/testutil/containers"
)

func TestKafkaSinkProducesEvents(t *testing.T) {
	broker := containers.NewRedpandaContainer(t).Broker
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sink, err := NewKafkaSink([]string{broker}, "audit-test")
	require.NoError(t, err)
	defer sink.Close()

	require.NoError(t, sink.EnsureTopic(ctx))
	require.NoError(t, sink.EnsureTopic(ctx), "existing topic is not an error")

	pub := NewPublisher(sink)
	require.NoError(t, pub.Emit(ctx, Event{
		ID:            "evt-42",
		Action:        ActionEvaluationSucceeded,
		SchemaVersion: "v2",
		Outcome:       "Approved",
		Status:        200,
		Applicant:     MaskedApplicant{FirstName: "Jane", SSN: "*********"},
	}))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker),
		kgo.ConsumeTopics(sink.Topic()),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	var got Event
	for got.ID == "" {
		fetches := consumer.PollFetches(ctx)
		require.NoError(t, ctx.Err(), "timed out waiting for audit record")
		fetches.EachRecord(func(r *kgo.Record) {
			assert.Equal(t, "evt-42", string(r.Key))
			require.NoError(t, json.Unmarshal(r.Value, &got))
		})
	}

	assert.Equal(t, "Approved", got.Outcome)
	assert.Equal(t, "*********", got.Applicant.SSN)
}
