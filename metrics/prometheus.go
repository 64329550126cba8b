package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is safe to use through a nil pointer; every method is then a no-op.
type Metrics struct {
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	activeSessions   prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_upstream_requests_total",
			Help: "Requests sent to the itinerary API by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "planner_upstream_request_duration_seconds",
			Help:    "Latency of itinerary API requests",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"endpoint"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "planner_active_sessions",
			Help: "Browser sessions currently holding screen state",
		}),
	}
	metrics.register(reg)
	return metrics
}

func (m *Metrics) register(reg prometheus.Registerer) {
	reg.MustRegister(m.upstreamRequests, m.upstreamLatency, m.activeSessions)
}

func (m *Metrics) ObserveUpstream(endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	m.upstreamLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func (m *Metrics) IncrementSessions() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

func (m *Metrics) DecrementSessions() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}
