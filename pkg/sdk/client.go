package civix

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/civix/internal/db"
	"github.com/kailas-cloud/civix/internal/db/memory"
	"github.com/kailas-cloud/civix/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/civix/internal/db/redis"
	"github.com/kailas-cloud/civix/internal/db/sqlite"
	"github.com/kailas-cloud/civix/internal/db/sqlstore"
	"github.com/kailas-cloud/civix/internal/domain"
	domind "github.com/kailas-cloud/civix/internal/domain/indicator"
	"github.com/kailas-cloud/civix/internal/domain/indicator/alias"
	indicatorrepo "github.com/kailas-cloud/civix/internal/repository/indicator"
	"github.com/kailas-cloud/civix/internal/repository/querycache"
	healthuc "github.com/kailas-cloud/civix/internal/usecase/health"
	indicatoruc "github.com/kailas-cloud/civix/internal/usecase/indicator"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, replaceable in tests.
type indicatorUseCase interface {
	QueryIndicators(ctx context.Context, category string, f indicatoruc.Filters) (indicatoruc.Envelope, error)
	QueryIndicatorsForGeography(ctx context.Context, name, category string) (indicatoruc.GeographyEnvelope, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the civix SDK entry point.
type Client struct {
	store     db.Store
	cache     db.KVStore
	svc       indicatorUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a civix Client and connects to the indicator store.
// The provided context is used for the readiness check and migrations.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("civix: indicator store required (use WithPostgres, WithSQLite or WithRecords)")
	}
	if cfg.freshness != "" && !domain.Freshness(cfg.freshness).Valid() {
		return nil, fmt.Errorf("civix: unknown freshness policy %q", cfg.freshness)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("civix: database not ready: %w", err)
	}

	if ss, ok := store.(*sqlstore.Store); ok && cfg.migrate {
		if _, err := ss.ApplyMigrations(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("civix: migrate: %w", err)
		}
	}

	var cache db.KVStore
	if len(cfg.cacheAddrs) > 0 {
		kv, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.cacheAddrs,
			Password:   cfg.cachePassword,
			Standalone: cfg.cacheStandalone,
		})
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("civix: create cache: %w", err)
		}
		cache = kv
	}

	return wireClient(store, cache, cfg, obs), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case driverPostgres:
		s, err := postgres.NewStore(postgres.Config{DSN: cfg.dsn})
		if err != nil {
			return nil, fmt.Errorf("civix: create postgres store: %w", err)
		}
		return s, nil
	case driverSQLite:
		s, err := sqlite.NewStore(cfg.dsn)
		if err != nil {
			return nil, fmt.Errorf("civix: create sqlite store: %w", err)
		}
		return s, nil
	case driverMemory:
		rows, err := toRows(cfg.rows)
		if err != nil {
			return nil, err
		}
		return memory.New(rows...), nil
	default:
		return nil, fmt.Errorf("civix: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cache db.KVStore, cfg *clientConfig, obs *observer) *Client {
	var repo indicatoruc.Repository = indicatorrepo.New(store)
	// Pass nil interface (not typed nil pointer) when the cache is disabled.
	var cachePinger healthuc.Pinger
	if cache != nil {
		repo = querycache.New(repo, cache, cfg.cacheTTL, obs.cacheCounter(), nil)
		cachePinger = cache
	}

	aliases := alias.Default()
	if cfg.aliases != nil {
		aliases = make(alias.Tables, len(cfg.aliases))
		for category, tbl := range cfg.aliases {
			t := make(alias.Table, len(tbl))
			for token, name := range tbl {
				t[strings.ToLower(token)] = name
			}
			aliases[category] = t
		}
	}

	svc := indicatoruc.New(repo, aliases).
		WithConfig(domain.QueryConfig{
			MaxRecords:          cfg.maxRecords,
			MaxGeographyRecords: cfg.maxGeographyRecords,
			Freshness:           domain.Freshness(cfg.freshness),
		}).
		WithObserver(obs)

	return &Client{
		store:     store,
		cache:     cache,
		svc:       svc,
		healthSvc: healthuc.New(store, cachePinger),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Indicators returns the records of one category that match f, ordered by
// location, newest period first, then indicator name.
func (c *Client) Indicators(ctx context.Context, category string, f Filters) (Result, error) {
	env, err := c.svc.QueryIndicators(ctx, category, indicatoruc.Filters{
		GeographyName:  f.State,
		Period:         f.Year,
		IndicatorAlias: f.Indicator,
		City:           f.City,
	})
	if err != nil {
		return Result{}, fmt.Errorf("query %s: %w", category, err)
	}

	return Result{
		Category:    env.Category,
		Records:     toRecords(env.Records),
		Count:       env.Count,
		LastUpdated: env.LastUpdated,
		Filters: Filters{
			State:     env.Filters.GeographyName,
			Year:      env.Filters.Period,
			Indicator: env.Filters.IndicatorAlias,
			City:      env.Filters.City,
		},
	}, nil
}

// Place returns every record of one state or district, grouped by category.
// slugOrName may be a hyphenated slug ("uttar-pradesh"); the match is
// case-insensitive. An empty category returns all categories.
func (c *Client) Place(ctx context.Context, slugOrName, category string) (PlaceResult, error) {
	env, err := c.svc.QueryIndicatorsForGeography(ctx, domind.FromSlug(slugOrName), category)
	if err != nil {
		return PlaceResult{}, fmt.Errorf("query place %s: %w", slugOrName, err)
	}

	groups := make(map[string][]Record, len(env.Groups))
	for k, views := range env.Groups {
		groups[k] = toRecords(views)
	}
	return PlaceResult{
		Name:        env.GeographyName,
		Groups:      groups,
		Categories:  env.Categories,
		Count:       env.Count,
		LastUpdated: env.LastUpdated,
		Message:     env.Message,
	}, nil
}

func toRecords(views []domind.View) []Record {
	out := make([]Record, len(views))
	for i, v := range views {
		out[i] = Record{
			Indicator:   v.Indicator,
			Value:       v.Value,
			Unit:        v.Unit,
			Geography:   v.Geography,
			Location:    v.Location,
			Period:      v.Period,
			PeriodType:  v.PeriodType,
			Category:    v.Category,
			Source:      v.Source,
			Metadata:    v.Metadata,
			LastUpdated: v.LastUpdated,
		}
	}
	return out
}

// toRows rejects rows a query could never address: those without a
// category, geography name or indicator name.
func toRows(rows []Row) ([]db.IndicatorRow, error) {
	out := make([]db.IndicatorRow, len(rows))
	for i, r := range rows {
		if _, err := domind.New(domind.Fields{
			Category:      r.Category,
			GeographyKind: r.Geography,
			GeographyName: r.GeographyName,
			Name:          r.IndicatorName,
		}); err != nil {
			return nil, fmt.Errorf("civix: record %d: %w", i, err)
		}
		out[i] = db.IndicatorRow{
			Category:      r.Category,
			Geography:     r.Geography,
			GeographyName: r.GeographyName,
			IndicatorName: r.IndicatorName,
			Value:         r.Value,
			Unit:          r.Unit,
			Period:        r.Period,
			PeriodType:    r.PeriodType,
			SourceDataset: r.Source,
			Metadata:      r.Metadata,
			LastUpdated:   r.LastUpdated,
		}
	}
	return out, nil
}
