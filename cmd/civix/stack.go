package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/civix/internal/config"
	"github.com/kailas-cloud/civix/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/civix/internal/db/redis"
	"github.com/kailas-cloud/civix/internal/db/sqlite"
	"github.com/kailas-cloud/civix/internal/db/sqlstore"
	"github.com/kailas-cloud/civix/internal/domain/indicator/alias"
	"github.com/kailas-cloud/civix/internal/metrics"
	indicatorrepo "github.com/kailas-cloud/civix/internal/repository/indicator"
	"github.com/kailas-cloud/civix/internal/repository/querycache"
	healthuc "github.com/kailas-cloud/civix/internal/usecase/health"
	indicatoruc "github.com/kailas-cloud/civix/internal/usecase/indicator"
)

// stack is the composition root shared by every subcommand.
type stack struct {
	store      *sqlstore.Store
	cache      *dbRedis.Store
	indicators *indicatoruc.Service
	health     *healthuc.Service
}

func (s *stack) Close() {
	if s.cache != nil {
		s.cache.Close()
	}
	s.store.Close()
}

// openStore creates the SQL store for the configured driver and waits for it.
func openStore(ctx context.Context, c config.DatabaseConfig) (*sqlstore.Store, error) {
	var (
		store *sqlstore.Store
		err   error
	)
	switch c.Driver {
	case config.DriverSQLite:
		store, err = sqlite.NewStore(c.DSN)
	case config.DriverPostgres:
		store, err = postgres.NewStore(postgres.Config{
			DSN:          c.DSN,
			MaxOpenConns: c.MaxOpenConns,
			MaxIdleConns: c.MaxIdleConns,
		})
	default:
		return nil, fmt.Errorf("unknown database driver %q", c.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s store: %w", c.Driver, err)
	}

	if err := store.WaitForReady(ctx, time.Duration(c.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	return store, nil
}

// buildStack wires store, optional cache, repository and services.
func buildStack(ctx context.Context, cfg config.Config, logger *zap.Logger) (*stack, error) {
	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	logger.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

	if cfg.Database.MigrateOnStart {
		applied, err := store.ApplyMigrations(ctx)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		if len(applied) > 0 {
			logger.Info("Applied migrations", zap.Strings("versions", applied))
		}
	}

	st := &stack{store: store}

	var repo indicatoruc.Repository = indicatorrepo.New(store)

	// Pass nil interface (not typed nil pointer) when the cache is disabled.
	var cachePinger healthuc.Pinger
	if cfg.Cache.Enabled {
		kv, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.Cache.Addrs,
			Username:   cfg.Cache.Username,
			Password:   cfg.Cache.Password,
			DB:         cfg.Cache.DB,
			Standalone: cfg.Cache.Standalone,
		})
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("create cache store: %w", err)
		}
		st.cache = kv
		cachePinger = kv
		repo = querycache.New(repo, kv, time.Duration(cfg.Cache.TTLSec)*time.Second, metrics.QueryCacheTotal, logger)
		logger.Info("Query cache enabled",
			zap.Strings("addrs", cfg.Cache.Addrs),
			zap.Int("ttl_sec", cfg.Cache.TTLSec),
		)
	}

	st.indicators = indicatoruc.New(repo, alias.Default()).
		WithConfig(cfg.QueryLimits()).
		WithObserver(metrics.QueryObserver{})
	st.health = healthuc.New(store, cachePinger)
	return st, nil
}
