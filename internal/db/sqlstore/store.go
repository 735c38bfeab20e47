// Package sqlstore implements the indicator store over database/sql.
// The postgres and sqlite packages open connections and pick a Dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kailas-cloud/civix/internal/db"
	"github.com/kailas-cloud/civix/internal/domain/indicator/query"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// PoolConfig tunes the database/sql connection pool.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Apply sets non-zero pool settings on conn.
func (p PoolConfig) Apply(conn *sql.DB) {
	if p.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(p.MaxOpenConns)
	}
	if p.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(p.MaxIdleConns)
	}
	if p.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(p.ConnMaxLifetime)
	}
	if p.ConnMaxIdleTime > 0 {
		conn.SetConnMaxIdleTime(p.ConnMaxIdleTime)
	}
}

// Store implements db.Store on a *sql.DB.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// New wraps an open connection pool.
func New(conn *sql.DB, d Dialect) *Store {
	return &Store{db: conn, dialect: d}
}

// DB exposes the underlying pool.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the store's SQL dialect.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() {
	_ = s.db.Close()
}

// WaitForReady polls Ping until the database responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.Ping(ctx); err == nil {
		return nil
	}

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// FindIndicators runs one SELECT for q.
func (s *Store) FindIndicators(ctx context.Context, q query.Query) ([]db.IndicatorRow, error) {
	stmt, args := buildFindQuery(s.dialect, q)

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	out := make([]db.IndicatorRow, 0, min(q.Limit(), 64))
	for rows.Next() {
		row, err := scanIndicator(rows)
		if err != nil {
			return nil, &db.Error{Op: db.OpScan, Err: err}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return out, nil
}
