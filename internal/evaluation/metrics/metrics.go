package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"applygate/internal/outcome"
)

// Metrics provides observability for applicant evaluations.
type Metrics struct {
	// Normalized outcomes; pass-through labels fold into "other"
	Outcomes *prometheus.CounterVec

	// Provider outcomes that matched no known label
	PassthroughOutcomes prometheus.Counter

	// Failed provider calls by category and HTTP status
	ProviderErrors *prometheus.CounterVec

	ProviderLatency prometheus.Histogram
}

// New registers the evaluation metrics with reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "applygate_evaluation_outcomes_total",
			Help: "Total evaluations by normalized outcome",
		}, []string{"outcome"}),

		PassthroughOutcomes: factory.NewCounter(prometheus.CounterOpts{
			Name: "applygate_evaluation_passthrough_outcomes_total",
			Help: "Evaluations whose provider outcome was not one of the known labels",
		}),

		ProviderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "applygate_provider_errors_total",
			Help: "Failed provider calls by error category and status code",
		}, []string{"category", "status"}),

		ProviderLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "applygate_provider_request_duration_seconds",
			Help:    "Duration of provider evaluation calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}),
	}
}

// IncrementOutcome records a normalized outcome. Pass-through labels are
// counted as "other" to keep cardinality bounded.
func (m *Metrics) IncrementOutcome(label outcome.Label) {
	if m == nil {
		return
	}
	if !label.IsCanonical() && label != outcome.Unknown {
		m.PassthroughOutcomes.Inc()
		m.Outcomes.WithLabelValues("other").Inc()
		return
	}
	m.Outcomes.WithLabelValues(label.String()).Inc()
}

// IncrementProviderError records a failed provider call.
func (m *Metrics) IncrementProviderError(category string, status int) {
	if m != nil {
		m.ProviderErrors.WithLabelValues(category, strconv.Itoa(status)).Inc()
	}
}

// ObserveProviderLatency records the duration of one provider call.
func (m *Metrics) ObserveProviderLatency(d time.Duration) {
	if m != nil {
		m.ProviderLatency.Observe(d.Seconds())
	}
}
