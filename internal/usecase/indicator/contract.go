package indicator

import (
	"context"
	"time"

	domind "github.com/kailas-cloud/civix/internal/domain/indicator"
	"github.com/kailas-cloud/civix/internal/domain/indicator/query"
)

// Repository defines the storage contract for indicator reads.
type Repository interface {
	Find(ctx context.Context, q query.Query) ([]domind.Record, error)
}

// Operation names reported to an Observer.
const (
	OpFlat      = "flat"
	OpGeography = "geography"
)

// Observer receives per-query measurements.
type Observer interface {
	ObserveQuery(operation string, duration time.Duration, records int, err error)
	MetadataError(category string)
}
