// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourguide_http_requests_total",
			Help: "Total number of HTTP requests by method, route pattern and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tourguide_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// outcome: success, empty, failure, rejected
	DirectionsRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourguide_directions_requests_total",
			Help: "Outbound directions lookups by outcome",
		},
		[]string{"profile", "outcome"},
	)

	DirectionsDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tourguide_directions_request_duration_seconds",
			Help:    "Latency of outbound directions lookups",
			Buckets: prometheus.DefBuckets,
		},
	)

	DirectionsBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tourguide_directions_breaker_state",
			Help: "Directions circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
	)
)

// RecordHTTPRequest records one finished request.
func RecordHTTPRequest(method, route, status string, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordDirections records one outbound directions lookup.
func RecordDirections(profile, outcome string, d time.Duration) {
	DirectionsRequests.WithLabelValues(profile, outcome).Inc()
	DirectionsDuration.Observe(d.Seconds())
}
