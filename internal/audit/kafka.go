package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// DefaultTopic receives evaluation audit events.
const DefaultTopic = "applicant-evaluations"

// DefaultDeliveryTimeout caps how long a record may wait for broker
// acknowledgement, including buffering while no broker is reachable.
const DefaultDeliveryTimeout = 5 * time.Second

// KafkaSink produces audit events as JSON records keyed by event ID.
type KafkaSink struct {
	client  *kgo.Client
	topic   string
	timeout time.Duration
}

// KafkaOption configures a KafkaSink.
type KafkaOption func(*KafkaSink)

// WithDeliveryTimeout overrides DefaultDeliveryTimeout.
func WithDeliveryTimeout(d time.Duration) KafkaOption {
	return func(s *KafkaSink) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewKafkaSink connects to brokers. The connection is lazy; call EnsureTopic
// at startup to fail fast on an unreachable cluster. Records that are not
// acknowledged within DefaultDeliveryTimeout fail with
// kgo.ErrRecordTimeout.
func NewKafkaSink(brokers []string, topic string, opts ...KafkaOption) (*KafkaSink, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka audit sink requires at least one broker")
	}
	if topic == "" {
		topic = DefaultTopic
	}
	s := &KafkaSink{topic: topic, timeout: DefaultDeliveryTimeout}
	for _, opt := range opts {
		opt(s)
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.RecordDeliveryTimeout(s.timeout),
		kgo.ProduceRequestTimeout(s.timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	s.client = client
	return s, nil
}

// EnsureTopic creates the audit topic if it does not exist yet.
func (s *KafkaSink) EnsureTopic(ctx context.Context) error {
	admin := kadm.NewClient(s.client)
	resp, err := admin.CreateTopic(ctx, 1, -1, nil, s.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", s.topic, err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", s.topic, resp.Err)
	}
	return nil
}

// Append produces the event synchronously, waiting at most the delivery
// timeout for an acknowledgement.
func (s *KafkaSink) Append(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	record := &kgo.Record{Key: []byte(event.ID), Value: value}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// Topic returns the topic events are produced to.
func (s *KafkaSink) Topic() string {
	return s.topic
}

// Close flushes and closes the underlying client.
func (s *KafkaSink) Close() {
	s.client.Close()
}
