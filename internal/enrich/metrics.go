package enrich

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes recorded for each enrichment request.
const (
	OutcomeSuccess     = "success"
	OutcomeDegraded    = "degraded"
	OutcomeFetchError  = "fetch_error"
	OutcomeConfigError = "config_error"
	OutcomeInvalid     = "invalid"
	OutcomeError       = "error"
)

// Metrics tracks enrichment outcomes and stage latency. A nil *Metrics records nothing.
type Metrics struct {
	requests      *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	shared        prometheus.Counter
}

// NewMetrics registers enrichment collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vcscout",
			Subsystem: "enrich",
			Name:      "requests_total",
			Help:      "Enrichment requests by outcome.",
		}, []string{"outcome"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vcscout",
			Subsystem: "enrich",
			Name:      "stage_duration_seconds",
			Help:      "Time spent in the fetch and model stages.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"stage"}),
		shared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vcscout",
			Subsystem: "enrich",
			Name:      "shared_total",
			Help:      "Requests served by joining an identical in-flight enrichment.",
		}),
	}
	reg.MustRegister(m.requests, m.stageDuration, m.shared)
	return m
}

func (m *Metrics) observeOutcome(outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeStage(stage string, started time.Time) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(time.Since(started).Seconds())
}

func (m *Metrics) observeShared() {
	if m == nil {
		return
	}
	m.shared.Inc()
}
