package querycache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/civix/internal/domain/indicator"
	"github.com/kailas-cloud/civix/internal/domain/indicator/query"
)

func sampleRecords() []indicator.Record {
	v := 3.2
	unit := "percent"
	meta := `{"note":"provisional"}`
	return []indicator.Record{
		indicator.Reconstruct(indicator.Fields{
			Category: "economy", GeographyKind: "State", GeographyName: "Goa",
			Name: "Unemployment Rate", Value: &v, Unit: &unit, Period: "2023",
			PeriodType: "year", Metadata: &meta,
			LastUpdated: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}),
		indicator.Reconstruct(indicator.Fields{
			Category: "economy", GeographyKind: "State", GeographyName: "Goa",
			Name: "Tax Collection", Period: "2023", PeriodType: "year",
		}),
	}
}

func TestFind_CacheMiss(t *testing.T) {
	inner := &mockFinder{records: sampleRecords()}
	repo, ms := newTestRepo(t, inner)

	var (
		setKey string
		setTTL time.Duration
		stored []byte
	)
	ms.setFn = func(_ context.Context, key string, value []byte, ttl time.Duration) error {
		setKey, setTTL, stored = key, ttl, value
		return nil
	}

	got, err := repo.Find(context.Background(), testQuery(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if inner.calls != 1 {
		t.Fatalf("expected one inner call, got %d", inner.calls)
	}
	if !strings.HasPrefix(setKey, "civix:query:") {
		t.Errorf("unexpected cache key %q", setKey)
	}
	if setTTL != time.Minute {
		t.Errorf("expected ttl 1m, got %v", setTTL)
	}
	if len(stored) == 0 {
		t.Error("expected encoded records to be stored")
	}
}

func TestFind_CacheHit(t *testing.T) {
	data, err := encode(sampleRecords())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	inner := &mockFinder{}
	repo, ms := newTestRepo(t, inner)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return data, nil
	}

	got, err := repo.Find(context.Background(), testQuery(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 0 {
		t.Fatalf("expected no inner call on hit, got %d", inner.calls)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	first := got[0]
	if first.Name() != "Unemployment Rate" || first.Value() == nil || *first.Value() != 3.2 {
		t.Errorf("unexpected first record: %+v", first.Fields())
	}
	if first.Metadata() == nil || *first.Metadata() != `{"note":"provisional"}` {
		t.Errorf("metadata not preserved: %v", first.Metadata())
	}
	if !first.LastUpdated().Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("lastUpdated not preserved: %v", first.LastUpdated())
	}
	if got[1].Value() != nil || got[1].Unit() != nil {
		t.Errorf("expected absent value and unit, got %+v", got[1].Fields())
	}
}

func TestFind_StoreErrorsIgnored(t *testing.T) {
	inner := &mockFinder{records: sampleRecords()}
	repo, ms := newTestRepo(t, inner)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, errors.New("connection reset")
	}
	ms.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		return errors.New("connection reset")
	}

	got, err := repo.Find(context.Background(), testQuery(t))
	if err != nil {
		t.Fatalf("cache errors must not fail the read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
}

func TestFind_CorruptEntry(t *testing.T) {
	inner := &mockFinder{records: sampleRecords()}
	repo, ms := newTestRepo(t, inner)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte("not json"), nil
	}

	if _, err := repo.Find(context.Background(), testQuery(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected fallback to inner, got %d calls", inner.calls)
	}
}

func TestFind_InnerErrorNotCached(t *testing.T) {
	inner := &mockFinder{err: errors.New("store down")}
	repo, ms := newTestRepo(t, inner)
	var setCalled bool
	ms.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		setCalled = true
		return nil
	}

	if _, err := repo.Find(context.Background(), testQuery(t)); err == nil {
		t.Fatal("expected error")
	}
	if setCalled {
		t.Fatal("failed reads must not be cached")
	}
}

func TestFind_CountsHitsAndMisses(t *testing.T) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"result"})
	inner := &mockFinder{records: sampleRecords()}
	ms := &mockKVStore{}
	repo := New(inner, ms, time.Minute, counter, zap.NewNop())

	if _, err := repo.Find(context.Background(), testQuery(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("miss")); got != 1 {
		t.Errorf("expected 1 miss, got %v", got)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("hit")); got != 0 {
		t.Errorf("expected 0 hits, got %v", got)
	}
}

func TestCacheKey_DistinctQueries(t *testing.T) {
	a, _ := query.New(query.Params{Category: "economy", Limit: 10})
	b, _ := query.New(query.Params{Category: "economy", Limit: 20})
	if cacheKey(a) == cacheKey(b) {
		t.Fatal("queries differing in limit must not share a key")
	}
	again, _ := query.New(query.Params{Category: "economy", Limit: 10})
	if cacheKey(a) != cacheKey(again) {
		t.Fatal("equal queries must share a key")
	}
}
