package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Indicator query Prometheus metrics.
var (
	QueryRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "civix",
			Name:      "query_requests_total",
			Help:      "Total number of indicator queries",
		},
		[]string{"operation", "status"},
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "civix",
			Name:      "query_duration_seconds",
			Help:      "Indicator query duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation"},
	)

	QueryRecordsReturned = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "civix",
			Name:      "query_records_returned",
			Help:      "Records returned per indicator query",
			Buckets:   []float64{0, 1, 10, 50, 100, 250, 500, 1000, 2000},
		},
		[]string{"operation"},
	)

	QueryCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "civix",
			Name:      "query_cache_total",
			Help:      "Query cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	MetadataErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "civix",
			Name:      "metadata_parse_errors_total",
			Help:      "Records whose metadata payload could not be decoded",
		},
		[]string{"category"},
	)
)

var queryMetricsRegistered bool

// RegisterQueryMetrics registers Prometheus query metrics. Must be called once from main.
func RegisterQueryMetrics() {
	if queryMetricsRegistered {
		return
	}
	prometheus.MustRegister(QueryRequestsTotal)
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(QueryRecordsReturned)
	prometheus.MustRegister(QueryCacheTotal)
	prometheus.MustRegister(MetadataErrorsTotal)
	queryMetricsRegistered = true
}

// QueryObserver records indicator query measurements in the package metrics.
type QueryObserver struct{}

// ObserveQuery records one query outcome.
func (QueryObserver) ObserveQuery(operation string, duration time.Duration, records int, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	QueryRequestsTotal.WithLabelValues(operation, status).Inc()
	QueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err == nil {
		QueryRecordsReturned.WithLabelValues(operation).Observe(float64(records))
	}
}

// MetadataError counts one malformed metadata payload.
func (QueryObserver) MetadataError(category string) {
	MetadataErrorsTotal.WithLabelValues(category).Inc()
}
