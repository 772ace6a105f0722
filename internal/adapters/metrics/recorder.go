// Package metrics records relayer activity as prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/trebuchet-org/treb-relay/internal/domain/models"
	"github.com/trebuchet-org/treb-relay/internal/usecase"
)

const namespace = "treb_relay"

// Recorder implements usecase.MetricsRecorder on a private registry
type Recorder struct {
	registry *prometheus.Registry

	submissions        *prometheus.CounterVec
	submissionDuration *prometheus.HistogramVec
	polls              *prometheus.CounterVec
	pollAttempts       *prometheus.HistogramVec
}

// NewRecorder creates a recorder with its own registry
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,

		submissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "submissions_total",
				Help:      "Total number of transactions submitted to the relayer",
			},
			[]string{"type", "result"},
		),

		submissionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "submission_duration_seconds",
				Help:      "Relayer submission round trip in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"type"},
		),

		polls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "polls_total",
				Help:      "Total number of completed polling loops by outcome",
			},
			[]string{"outcome"},
		),

		pollAttempts: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "poll_attempts",
				Help:      "Relayer lookups performed per polling loop",
				Buckets:   []float64{1, 2, 5, 10, 20, 30},
			},
			[]string{"outcome"},
		),
	}
}

// Registry exposes the underlying registry for exporting
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveSubmission implements usecase.MetricsRecorder
func (r *Recorder) ObserveSubmission(txType models.TransactionType, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	r.submissions.WithLabelValues(string(txType), result).Inc()
	r.submissionDuration.WithLabelValues(string(txType)).Observe(duration.Seconds())
}

// ObservePoll implements usecase.MetricsRecorder
func (r *Recorder) ObservePoll(outcome usecase.PollOutcome, attempts int) {
	r.polls.WithLabelValues(string(outcome)).Inc()
	r.pollAttempts.WithLabelValues(string(outcome)).Observe(float64(attempts))
}

// WriteTextfile dumps the current metrics in the text exposition format
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

var _ usecase.MetricsRecorder = (*Recorder)(nil)
