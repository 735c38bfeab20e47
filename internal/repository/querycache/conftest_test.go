package querycache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/civix/internal/db"
	"github.com/kailas-cloud/civix/internal/domain/indicator"
	"github.com/kailas-cloud/civix/internal/domain/indicator/query"
)

type mockFinder struct {
	records []indicator.Record
	err     error
	calls   int
}

func (m *mockFinder) Find(_ context.Context, _ query.Query) ([]indicator.Record, error) {
	m.calls++
	return m.records, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestRepo(t *testing.T, inner *mockFinder) (*Repo, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	return New(inner, ms, time.Minute, nil, zap.NewNop()), ms
}

func testQuery(t *testing.T) query.Query {
	t.Helper()
	q, err := query.New(query.Params{Category: "economy", Period: "2023", Limit: 1000})
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return q
}
