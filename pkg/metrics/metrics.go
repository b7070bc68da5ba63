// Package metrics registers the process Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_http_requests_total",
		Help: "Total HTTP requests by method, route pattern and status",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "campus_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route pattern",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	Uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_storage_uploads_total",
		Help: "File uploads by storage mode and result",
	}, []string{"mode", "result"})

	MappingFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_mapping_failures_total",
		Help: "Persisted documents that could not be projected to a response",
	}, []string{"resource"})
)

// ObserveRequest records one completed HTTP request.
func ObserveRequest(method, route string, status int, duration time.Duration) {
	route = strings.TrimSpace(route)
	if route == "" {
		route = "unmatched"
	}
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// IncUpload records an upload attempt.
func IncUpload(mode string, ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	Uploads.WithLabelValues(mode, result).Inc()
}

// IncMappingFailure records a mapping failure for resource.
func IncMappingFailure(resource string) {
	MappingFailures.WithLabelValues(resource).Inc()
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
