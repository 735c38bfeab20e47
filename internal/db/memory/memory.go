// Package memory is an in-process indicator store for tests, the SDK and
// local demos. Filtering, ordering and capping follow the SQL stores.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kailas-cloud/civix/internal/db"
	"github.com/kailas-cloud/civix/internal/domain/indicator"
	"github.com/kailas-cloud/civix/internal/domain/indicator/query"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store keeps rows in insertion order.
type Store struct {
	mu     sync.RWMutex
	rows   []db.IndicatorRow
	nextID int64
	closed bool
}

// New creates a store seeded with rows.
func New(rows ...db.IndicatorRow) *Store {
	s := &Store{}
	s.Insert(rows...)
	return s
}

// Insert appends rows, assigning ids to rows that have none.
func (s *Store) Insert(rows ...db.IndicatorRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		s.nextID++
		if r.ID == 0 {
			r.ID = s.nextID
		} else if r.ID > s.nextID {
			s.nextID = r.ID
		}
		s.rows = append(s.rows, r)
	}
}

// Len returns the number of stored rows.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// Ping fails once the store is closed.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return &db.Error{Op: db.OpPing, Err: db.ErrClosed}
	}
	return nil
}

// Close marks the store closed.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// WaitForReady returns immediately.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

// FindIndicators filters, orders and caps the stored rows.
func (s *Store) FindIndicators(ctx context.Context, q query.Query) ([]db.IndicatorRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, &db.Error{Op: db.OpSelect, Err: db.ErrClosed}
	}

	type match struct {
		row db.IndicatorRow
		rec indicator.Record
	}
	var matched []match
	for _, row := range s.rows {
		rec := toRecord(row)
		if q.Matches(rec) {
			matched = append(matched, match{row: row, rec: rec})
		}
	}

	order := q.Order()
	sort.SliceStable(matched, func(i, j int) bool {
		return order.Less(matched[i].rec, matched[j].rec)
	})

	if len(matched) > q.Limit() {
		matched = matched[:q.Limit()]
	}

	out := make([]db.IndicatorRow, len(matched))
	for i, m := range matched {
		out[i] = m.row
	}
	return out, nil
}

func toRecord(row db.IndicatorRow) indicator.Record {
	return indicator.Reconstruct(indicator.Fields{
		Category:      row.Category,
		GeographyKind: row.Geography,
		GeographyName: row.GeographyName,
		Name:          row.IndicatorName,
		Period:        row.Period,
	})
}
