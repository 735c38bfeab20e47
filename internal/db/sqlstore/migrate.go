package sqlstore

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/kailas-cloud/civix/internal/db"
)

//go:embed migrations
var migrationsFS embed.FS

// ApplyMigrations runs every embedded *.up.sql for the store's dialect that
// has not been recorded in schema_migrations. Each file runs in its own
// transaction. Returns the versions applied by this call.
func (s *Store) ApplyMigrations(ctx context.Context) ([]string, error) {
	if err := s.ensureMigrationsTable(ctx); err != nil {
		return nil, err
	}

	files, err := s.migrationFiles(".up.sql")
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, file := range files {
		version := path.Base(file)
		migrated, err := s.isMigrated(ctx, version)
		if err != nil {
			return applied, err
		}
		if migrated {
			continue
		}

		contents, err := fs.ReadFile(migrationsFS, file)
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", version, err)
		}

		if err := s.runMigration(ctx, version, string(contents)); err != nil {
			return applied, err
		}
		applied = append(applied, version)
	}

	return applied, nil
}

func (s *Store) runMigration(ctx context.Context, version, contents string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &db.Error{Op: db.OpMigrate, Err: fmt.Errorf("begin %s: %w", version, err)}
	}

	if _, err := tx.ExecContext(ctx, contents); err != nil {
		_ = tx.Rollback()
		return &db.Error{Op: db.OpMigrate, Err: fmt.Errorf("execute %s: %w", version, err)}
	}

	record := `INSERT INTO schema_migrations(version) VALUES(` + s.dialect.placeholder(1) + `)`
	if _, err := tx.ExecContext(ctx, record, version); err != nil {
		_ = tx.Rollback()
		return &db.Error{Op: db.OpMigrate, Err: fmt.Errorf("record %s: %w", version, err)}
	}

	if err := tx.Commit(); err != nil {
		return &db.Error{Op: db.OpMigrate, Err: fmt.Errorf("commit %s: %w", version, err)}
	}
	return nil
}

func (s *Store) migrationFiles(suffix string) ([]string, error) {
	dir := path.Join("migrations", s.dialect.Name)
	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}
		files = append(files, path.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func (s *Store) ensureMigrationsTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return &db.Error{Op: db.OpMigrate, Err: fmt.Errorf("ensure schema_migrations: %w", err)}
	}
	return nil
}

func (s *Store) isMigrated(ctx context.Context, version string) (bool, error) {
	var n int
	stmt := `SELECT COUNT(*) FROM schema_migrations WHERE version=` + s.dialect.placeholder(1)
	if err := s.db.QueryRowContext(ctx, stmt, version).Scan(&n); err != nil {
		return false, &db.Error{Op: db.OpMigrate, Err: fmt.Errorf("check %s: %w", version, err)}
	}
	return n > 0, nil
}
