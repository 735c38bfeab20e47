// Package querycache is a read-through cache of indicator reads in a
// key-value store.
package querycache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/civix/internal/db"
	"github.com/kailas-cloud/civix/internal/domain"
	"github.com/kailas-cloud/civix/internal/domain/indicator"
	"github.com/kailas-cloud/civix/internal/domain/indicator/query"
)

var cacheKeyPrefix = domain.KeyPrefix + "query:"

// finder is the decorated repository.
type finder interface {
	Find(ctx context.Context, q query.Query) ([]indicator.Record, error)
}

// store is the consumer interface for the query cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Repo caches Find results.
type Repo struct {
	inner      finder
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), may be nil.
func New(inner finder, s store, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Repo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repo{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Find returns cached records for q or reads through to the inner repository.
// Cache failures never fail the read.
func (r *Repo) Find(ctx context.Context, q query.Query) ([]indicator.Record, error) {
	key := cacheKey(q)

	if records, ok := r.getFromCache(ctx, key); ok {
		r.incCache("hit")
		return records, nil
	}

	r.incCache("miss")

	records, err := r.inner.Find(ctx, q)
	if err != nil {
		return nil, err
	}

	r.putToCache(ctx, key, records)
	return records, nil
}

func (r *Repo) incCache(result string) {
	if r.cacheTotal != nil {
		r.cacheTotal.WithLabelValues(result).Inc()
	}
}

func cacheKey(q query.Query) string {
	h := sha256.Sum256([]byte(q.Key()))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (r *Repo) getFromCache(ctx context.Context, key string) ([]indicator.Record, bool) {
	data, err := r.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			r.logger.Warn("Failed to get cached query", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	records, err := decode(data)
	if err != nil {
		r.logger.Warn("Failed to parse cached query", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return records, true
}

func (r *Repo) putToCache(ctx context.Context, key string, records []indicator.Record) {
	data, err := encode(records)
	if err != nil {
		r.logger.Warn("Failed to encode query result", zap.String("key", key), zap.Error(err))
		return
	}
	if err := r.store.SetWithTTL(ctx, key, data, r.ttl); err != nil {
		r.logger.Warn("Failed to cache query", zap.String("key", key), zap.Error(err))
	}
}

// entry is the JSON form of a cached record.
type entry struct {
	Category      string    `json:"c"`
	GeographyKind string    `json:"gk"`
	GeographyName string    `json:"g"`
	Name          string    `json:"n"`
	Value         *float64  `json:"v,omitempty"`
	Unit          *string   `json:"u,omitempty"`
	Period        string    `json:"p"`
	PeriodType    string    `json:"pt"`
	Source        string    `json:"s,omitempty"`
	Metadata      *string   `json:"m,omitempty"`
	LastUpdated   time.Time `json:"t"`
}

func encode(records []indicator.Record) ([]byte, error) {
	entries := make([]entry, len(records))
	for i, rec := range records {
		f := rec.Fields()
		entries[i] = entry{
			Category:      f.Category,
			GeographyKind: f.GeographyKind,
			GeographyName: f.GeographyName,
			Name:          f.Name,
			Value:         f.Value,
			Unit:          f.Unit,
			Period:        f.Period,
			PeriodType:    f.PeriodType,
			Source:        f.Source,
			Metadata:      f.Metadata,
			LastUpdated:   f.LastUpdated,
		}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("marshal records: %w", err)
	}
	return data, nil
}

func decode(data []byte) ([]indicator.Record, error) {
	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal records: %w", err)
	}
	records := make([]indicator.Record, len(entries))
	for i, e := range entries {
		records[i] = indicator.Reconstruct(indicator.Fields{
			Category:      e.Category,
			GeographyKind: e.GeographyKind,
			GeographyName: e.GeographyName,
			Name:          e.Name,
			Value:         e.Value,
			Unit:          e.Unit,
			Period:        e.Period,
			PeriodType:    e.PeriodType,
			Source:        e.Source,
			Metadata:      e.Metadata,
			LastUpdated:   e.LastUpdated,
		})
	}
	return records, nil
}
