package indicator

import (
	"context"

	"github.com/kailas-cloud/civix/internal/db"
	"github.com/kailas-cloud/civix/internal/domain/indicator/query"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	findFn func(ctx context.Context, q query.Query) ([]db.IndicatorRow, error)
	calls  int
}

func (m *mockStore) FindIndicators(ctx context.Context, q query.Query) ([]db.IndicatorRow, error) {
	m.calls++
	if m.findFn != nil {
		return m.findFn(ctx, q)
	}
	return nil, nil
}
