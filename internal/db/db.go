package db

import (
	"context"
	"time"

	"github.com/kailas-cloud/civix/internal/domain/indicator/query"
)

// Store is the indicator store facade: one filtered, ordered, capped read
// plus lifecycle.
type Store interface {
	Pinger
	IndicatorReader
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IndicatorReader reads indicator rows matching a query, ordered and capped as
// the query asks.
type IndicatorReader interface {
	FindIndicators(ctx context.Context, q query.Query) ([]IndicatorRow, error)
}

// KVStore provides simple key-value operations (query cache backend).
type KVStore interface {
	Pinger
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// IndicatorRow is one row of the normalized_indicators table.
// Nullable columns are pointers.
type IndicatorRow struct {
	ID            int64
	Category      string
	Geography     string
	GeographyName string
	IndicatorName string
	Value         *float64
	Unit          *string
	Period        string
	PeriodType    string
	SourceDataset *string
	Metadata      *string
	LastUpdated   time.Time
}
