package civix

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

const (
	driverPostgres = "postgres"
	driverSQLite   = "sqlite"
	driverMemory   = "memory"
)

type clientConfig struct {
	driver  string // "postgres", "sqlite" or "memory"
	dsn     string
	rows    []Row
	migrate bool

	cacheAddrs      []string
	cachePassword   string
	cacheTTL        time.Duration
	cacheStandalone bool

	aliases             map[string]map[string]string
	maxRecords          int
	maxGeographyRecords int
	freshness           Freshness

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithPostgres reads indicators from a Postgres database.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverPostgres
		c.dsn = dsn
	})
}

// WithSQLite reads indicators from a SQLite file.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverSQLite
		c.dsn = path
	})
}

// WithRecords serves queries from the given rows held in memory.
// Useful for tests and demos; no database is opened. New fails if a row lacks
// a category, geography name or indicator name.
func WithRecords(rows ...Row) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverMemory
		c.rows = append(c.rows, rows...)
	})
}

// WithMigrate applies the embedded schema migrations on connect.
// Ignored by the in-memory backend.
func WithMigrate() Option {
	return optionFunc(func(c *clientConfig) {
		c.migrate = true
	})
}

// WithCache caches query results in Redis for ttl.
func WithCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithStandalone disables cluster topology discovery for the cache.
func WithStandalone() Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheStandalone = true
	})
}

// WithAliases replaces the indicator alias vocabulary
// (category -> token -> indicator name fragment).
func WithAliases(tables map[string]map[string]string) Option {
	return optionFunc(func(c *clientConfig) {
		c.aliases = tables
	})
}

// WithLimits caps category and place results. Zero keeps the default
// (1000 and 2000).
func WithLimits(maxRecords, maxGeographyRecords int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxRecords = maxRecords
		c.maxGeographyRecords = maxGeographyRecords
	})
}

// WithFreshness selects the LastUpdated policy. Default: FreshnessFirst.
func WithFreshness(f Freshness) Option {
	return optionFunc(func(c *clientConfig) {
		c.freshness = f
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts, durations, cache
// hits and metadata parse failures) on the given registerer.
// Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
