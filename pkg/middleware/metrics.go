package middleware

import (
	"net/http"
	"time"

	"github.com/JaimeStill/campus/pkg/metrics"
)

// Metrics returns middleware that records request counts and latency labelled
// by the matched route pattern, keeping label cardinality bounded.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := record(w)
			next.ServeHTTP(rec, r)
			metrics.ObserveRequest(r.Method, r.Pattern, rec.status, time.Since(start))
		})
	}
}
