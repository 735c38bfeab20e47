package indicator

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/civix/internal/db"
	"github.com/kailas-cloud/civix/internal/domain"
	domind "github.com/kailas-cloud/civix/internal/domain/indicator"
	"github.com/kailas-cloud/civix/internal/domain/indicator/query"
)

// store is the consumer interface for indicator reads (ISP).
type store interface {
	FindIndicators(ctx context.Context, q query.Query) ([]db.IndicatorRow, error)
}

// Repo implements usecase/indicator.Repository.
type Repo struct {
	store store
}

// New creates an indicator repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Find runs q against the store and hydrates the rows.
// Any store failure is reported as domain.ErrStoreUnavailable.
func (r *Repo) Find(ctx context.Context, q query.Query) ([]domind.Record, error) {
	rows, err := r.store.FindIndicators(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	records := make([]domind.Record, len(rows))
	for i, row := range rows {
		records[i] = rowToRecord(row)
	}
	return records, nil
}
