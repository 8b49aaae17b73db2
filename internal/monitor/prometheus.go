package monitor

import (
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the Prometheus collectors updated by the Interceptor.
type Metrics struct {
	// RequestsTotal counts intercepted requests by operation and status code.
	RequestsTotal *prometheus.CounterVec
	// Duration tracks handler latency per operation.
	Duration *prometheus.HistogramVec
	// InFlight is the number of requests currently being handled.
	InFlight prometheus.Gauge
	// MemoryMB is the last sampled process RSS.
	MemoryMB prometheus.Gauge
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "translation_api_requests_total",
			Help: "Total API requests processed.",
		}, []string{"operation", "status"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "translation_api_request_duration_seconds",
			Help:    "Time spent handling API requests.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"operation"}),
		InFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "translation_api_in_flight_requests",
			Help: "Requests currently being handled.",
		}),
		MemoryMB: factory.NewGauge(prometheus.GaugeOpts{
			Name: "translation_api_memory_usage_mb",
			Help: "Resident memory of the process at the end of the last request.",
		}),
	}
}

func (m *Metrics) observe(operation string, status int, elapsed time.Duration, memMB float64) {
	m.RequestsTotal.WithLabelValues(operation, statusLabel(status)).Inc()
	m.Duration.WithLabelValues(operation).Observe(elapsed.Seconds())
	if !math.IsNaN(memMB) {
		m.MemoryMB.Set(memMB)
	}
}
