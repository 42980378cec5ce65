// Package observability exposes Prometheus metrics for the service.
package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~20s
		},
		[]string{"method", "route", "status"},
	)

	cacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Query-cache hits per façade operation.",
		},
		[]string{"operation"},
	)

	cacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Query-cache misses per façade operation.",
		},
		[]string{"operation"},
	)

	cacheOpDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cache_op_duration_seconds",
			Help:    "Latency of cache store operations in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"op", "outcome"},
	)

	storeQueryDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_query_duration_seconds",
			Help:    "Latency of authoritative store queries in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		},
		[]string{"query", "outcome"},
	)
)

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func ObserveHTTPRequest(method, route string, status int, seconds float64) {
	s := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, route, s).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route, s).Observe(seconds)
}

func AddCacheHit(operation string)  { cacheHitsTotal.WithLabelValues(operation).Inc() }
func AddCacheMiss(operation string) { cacheMissesTotal.WithLabelValues(operation).Inc() }

func ObserveCacheOp(op string, err error, seconds float64) {
	cacheOpDurationSeconds.WithLabelValues(op, outcome(err)).Observe(seconds)
}

func ObserveStoreQuery(query string, err error, seconds float64) {
	storeQueryDurationSeconds.WithLabelValues(query, outcome(err)).Observe(seconds)
}
