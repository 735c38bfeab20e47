package civix

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	cache      *prometheus.CounterVec
	metadata   *prometheus.CounterVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "civix",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "Total SDK operations by type and status.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "civix",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "civix",
			Subsystem: "sdk",
			Name:      "query_cache_total",
			Help:      "Query cache hits and misses.",
		}, []string{"result"}),
		metadata: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "civix",
			Subsystem: "sdk",
			Name:      "metadata_parse_errors_total",
			Help:      "Records whose metadata payload could not be decoded.",
		}, []string{"category"}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.cache); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.metadata); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("civix: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("civix: register metric: %w", err)
	}
	return nil
}

// observer provides logging and metrics for SDK operations. It also receives
// per-query measurements from the query service.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

// cacheCounter returns the cache hit/miss counter, nil when metrics are off.
func (o *observer) cacheCounter() *prometheus.CounterVec {
	if o == nil || o.metrics == nil {
		return nil
	}
	return o.metrics.cache
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	o.record(op, time.Since(start), err)
}

// ObserveQuery records one query service call.
func (o *observer) ObserveQuery(op string, dur time.Duration, records int, err error) {
	if o == nil {
		return
	}
	o.record(op, dur, err, "records", records)
}

// MetadataError counts one malformed metadata payload.
func (o *observer) MetadataError(category string) {
	if o == nil {
		return
	}
	if o.metrics != nil {
		o.metrics.metadata.WithLabelValues(category).Inc()
	}
	if o.logger != nil {
		o.logger.Warn("malformed indicator metadata", "category", category)
	}
}

func (o *observer) record(op string, dur time.Duration, err error, attrs ...any) {
	if o.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger != nil {
		if err != nil {
			o.logger.Warn("operation failed",
				"op", op,
				"duration", dur,
				"error", err,
			)
		} else {
			o.logger.Debug("operation completed",
				append([]any{"op", op, "duration", dur}, attrs...)...,
			)
		}
	}
}
