package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the labeling service
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Business Metrics
	ReviewDecisionsTotal   prometheus.CounterVec
	FilterQueriesTotal     prometheus.Counter
	PermissionDenialsTotal prometheus.CounterVec
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "labelboard_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "labelboard_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "labelboard_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		ReviewDecisionsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "labelboard_review_decisions_total",
				Help: "Review decisions recorded, by decision status",
			},
			[]string{"status"},
		),
		FilterQueriesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "labelboard_filter_queries_total",
				Help: "Analytics filter queries served",
			},
		),
		PermissionDenialsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "labelboard_permission_denials_total",
				Help: "Capability checks denied, by action",
			},
			[]string{"action"},
		),
	}
}
