// Package postgres opens the indicator store on PostgreSQL through pgx.
package postgres

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kailas-cloud/civix/internal/db/sqlstore"
)

// Config holds connection settings.
type Config struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// NewStore opens a pool. Connectivity is checked by the caller via WaitForReady.
func NewStore(cfg Config) (*sqlstore.Store, error) {
	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	pool := sqlstore.PoolConfig{
		MaxOpenConns:    20,
		MaxIdleConns:    10,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
	}
	if cfg.MaxOpenConns > 0 {
		pool.MaxOpenConns = cfg.MaxOpenConns
	}
	if cfg.MaxIdleConns > 0 {
		pool.MaxIdleConns = cfg.MaxIdleConns
	}
	pool.Apply(conn)

	return sqlstore.New(conn, sqlstore.Postgres), nil
}
