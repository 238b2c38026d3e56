// Package metrics declares the Prometheus collectors for the catalog
// service and exposes the /metrics handler.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts completed HTTP requests.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes per-request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// MoviesCreated counts successful movie creations.
	MoviesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_movies_created_total",
			Help: "Total number of movies created",
		},
	)

	// RatingsCreated counts successful rating submissions.
	RatingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_ratings_created_total",
			Help: "Total number of ratings created",
		},
	)
)

// RecordHTTPRequest records one completed request.
func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler serves the Prometheus exposition endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
