// Package sqlite opens the indicator store on a local SQLite file (pure Go driver).
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/kailas-cloud/civix/internal/db/sqlstore"
)

// NewStore opens path. The connection pool is limited to one writer-friendly
// connection; SQLite serializes access anyway.
func NewStore(path string) (*sqlstore.Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	conn, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlstore.PoolConfig{MaxOpenConns: 1}.Apply(conn)
	return sqlstore.New(conn, sqlstore.SQLite), nil
}

// DSN appends the pragmas civix relies on to path.
func DSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)&_time_format=sqlite"
}
