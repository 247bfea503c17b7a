package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Run outcomes used as the "outcome" label.
const (
	OutcomeSuccess      = "success"
	OutcomeInvalidInput = "invalid_input"
	OutcomeFailure      = "failure"
)

// Metrics holds the generation counters exposed on /metrics.
type Metrics struct {
	Runs     *prometheus.CounterVec
	Rows     prometheus.Counter
	Duration prometheus.Histogram
}

// New creates the collectors and registers them with reg. A nil reg skips registration.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seriesgen_runs_total",
			Help: "Generation runs by outcome.",
		}, []string{"outcome"}),
		Rows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seriesgen_rows_generated_total",
			Help: "Timestamp rows produced across all successful runs.",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "seriesgen_run_duration_seconds",
			Help:    "Wall time of a generation run, including parsing.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Runs, m.Rows, m.Duration)
	}
	return m
}

// Observe records one run. Rows are only counted for successful runs.
func (m *Metrics) Observe(outcome string, rows int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(outcome).Inc()
	m.Duration.Observe(elapsed.Seconds())
	if outcome == OutcomeSuccess {
		m.Rows.Add(float64(rows))
	}
}
