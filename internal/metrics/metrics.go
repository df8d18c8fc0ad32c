package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Tracks HTTP requests served, by route and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradebook_http_requests_total",
			Help: "Total number of HTTP requests served (by route, method and status).",
		},
		[]string{"route", "method", "status"},
	)

	// Measures end-to-end HTTP handling time.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tradebook_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 15), // 100µs → ~1.6s
		},
		[]string{"route", "method"},
	)

	// Measures time spent in the query pipeline per operation.
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tradebook_query_duration_seconds",
			Help:    "Time taken by filter/sort/paginate per query operation.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 2, 15),
		},
		[]string{"operation"},
	)

	// Counts query outcomes; result = "ok" or the error kind.
	QueryResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradebook_query_results_total",
			Help: "Number of queries by operation and result.",
		},
		[]string{"operation", "result"},
	)

	// Tracks response cache hits and misses.
	CacheAccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradebook_cache_access_total",
			Help: "Number of response cache hits/misses/errors.",
		},
		[]string{"result"}, // hit | miss | error
	)

	// Counts NATS requests handled by subject and result.
	NATSRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradebook_nats_requests_total",
			Help: "Total number of NATS query requests handled.",
		},
		[]string{"subject", "result"}, // result = "ok" | "error"
	)

	// Requests rejected by the rate limiter.
	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tradebook_rate_limited_total",
			Help: "Number of requests rejected by the rate limiter.",
		},
	)

	// Size of the loaded trade snapshot.
	StoreTrades = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tradebook_store_trades",
			Help: "Number of trades in the loaded snapshot.",
		},
	)
)

// ObserveDuration records the time elapsed since start on the given histogram.
func ObserveDuration(v interface{}, start time.Time, labels ...string) {
	duration := time.Since(start).Seconds()

	switch metric := v.(type) {
	case *prometheus.HistogramVec:
		metric.WithLabelValues(labels...).Observe(duration)
	case *prometheus.SummaryVec:
		metric.WithLabelValues(labels...).Observe(duration)
	default:
		// counters are not meant for duration tracking
	}
}

func IncHTTPRequest(route, method, status string) {
	HTTPRequestsTotal.WithLabelValues(route, method, status).Inc()
}

func IncQueryResult(operation, result string) {
	QueryResults.WithLabelValues(operation, result).Inc()
}

func IncCache(result string) {
	CacheAccess.WithLabelValues(result).Inc()
}

func IncNATSRequest(subject, result string) {
	NATSRequests.WithLabelValues(subject, result).Inc()
}

func IncRateLimited() {
	RateLimited.Inc()
}

func SetStoreTrades(n int) {
	StoreTrades.Set(float64(n))
}
