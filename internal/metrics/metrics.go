// Package metrics defines Prometheus metrics for the practice API.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "practice_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "practice_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "practice_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		},
	)

	// ErrorsTotal counts failed entity operations by entity and error kind.
	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "practice_errors_total",
			Help: "Total failed entity operations by entity and kind",
		},
		[]string{"entity", "kind"},
	)
)

func init() {
	prometheus.MustRegister(RequestDuration, RequestsTotal, RequestsInFlight, ErrorsTotal)
}
