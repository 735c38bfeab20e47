package indicator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/civix/internal/domain"
	domind "github.com/kailas-cloud/civix/internal/domain/indicator"
	"github.com/kailas-cloud/civix/internal/domain/indicator/alias"
	"github.com/kailas-cloud/civix/internal/domain/indicator/query"
	"github.com/kailas-cloud/civix/internal/logger"
)

// Service answers indicator queries: one store read, then ordering, capping
// and shaping.
type Service struct {
	repo     Repository
	aliases  alias.Tables
	cfg      domain.QueryConfig
	now      func() time.Time
	observer Observer
}

// New creates an indicator query service.
func New(repo Repository, aliases alias.Tables) *Service {
	if aliases == nil {
		aliases = alias.Tables{}
	}
	return &Service{
		repo:    repo,
		aliases: aliases,
		cfg:     domain.DefaultQueryConfig(),
		now:     time.Now,
	}
}

// WithConfig overrides limits and freshness policy. Zero fields keep defaults.
func (s *Service) WithConfig(cfg domain.QueryConfig) *Service {
	if cfg.MaxRecords > 0 {
		s.cfg.MaxRecords = cfg.MaxRecords
	}
	if cfg.MaxGeographyRecords > 0 {
		s.cfg.MaxGeographyRecords = cfg.MaxGeographyRecords
	}
	if cfg.Freshness != "" {
		s.cfg.Freshness = cfg.Freshness
	}
	return s
}

// WithClock sets the time source used for empty flat results.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// WithObserver sets the sink for query measurements.
func (s *Service) WithObserver(o Observer) *Service {
	s.observer = o
	return s
}

// Aliases returns the alias vocabulary in use.
func (s *Service) Aliases() alias.Tables {
	return s.aliases.Clone()
}

// QueryIndicators returns records of one category matching filters, ordered by
// geography ASC, period DESC, indicator ASC and capped at MaxRecords.
// A blank category is ErrInvalidQuery; an unknown one is not an error and
// matches nothing.
func (s *Service) QueryIndicators(ctx context.Context, category string, f Filters) (env Envelope, err error) {
	defer s.observe(OpFlat, time.Now(), &env.Count, &err)
	ctx = logger.WithFields(ctx, zap.String("query", OpFlat))

	if strings.TrimSpace(category) == "" {
		return Envelope{}, fmt.Errorf("%w: category is required", domain.ErrInvalidQuery)
	}

	geoName, geoKind := f.GeographyName, f.GeographyKind
	if f.City != "" {
		geoName, geoKind = f.City, domind.KindDistrict
	}

	q, err := query.New(query.Params{
		Category:      category,
		GeographyName: geoName,
		GeographyKind: geoKind,
		Period:        f.Period,
		NameContains:  s.aliases.Resolve(category, f.IndicatorAlias),
		Order:         domind.ByGeography,
		Limit:         s.cfg.MaxRecords,
	})
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}

	records, err := s.read(ctx, q)
	if err != nil {
		return Envelope{}, err
	}

	lastUpdated := s.now()
	if ts, ok := s.freshness(records); ok {
		lastUpdated = ts
	}

	return Envelope{
		Records:     s.shape(ctx, records),
		Category:    category,
		LastUpdated: lastUpdated,
		Count:       len(records),
		Filters:     echo(f),
	}, nil
}

// QueryIndicatorsForGeography returns every record for one geography (matched
// case-insensitively), optionally restricted to a category, ordered by
// category ASC, indicator ASC, period DESC and grouped by category.
func (s *Service) QueryIndicatorsForGeography(
	ctx context.Context, geographyName, category string,
) (env GeographyEnvelope, err error) {
	defer s.observe(OpGeography, time.Now(), &env.Count, &err)
	ctx = logger.WithFields(ctx, zap.String("query", OpGeography))

	if strings.TrimSpace(geographyName) == "" {
		return GeographyEnvelope{}, fmt.Errorf("%w: geography name is required", domain.ErrInvalidQuery)
	}

	q, err := query.New(query.Params{
		Category:      category,
		GeographyName: geographyName,
		GeographyFold: true,
		Order:         domind.ByCategory,
		Limit:         s.cfg.MaxGeographyRecords,
	})
	if err != nil {
		return GeographyEnvelope{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}

	records, err := s.read(ctx, q)
	if err != nil {
		return GeographyEnvelope{}, err
	}

	env = GeographyEnvelope{
		GeographyName: geographyName,
		Groups:        map[string][]domind.View{},
		Categories:    []string{},
		Count:         len(records),
	}
	if len(records) == 0 {
		env.Message = "No data found for " + geographyName
		return env, nil
	}

	if ts, ok := s.freshness(records); ok {
		env.LastUpdated = &ts
	}
	for _, v := range s.shape(ctx, records) {
		if _, seen := env.Groups[v.Category]; !seen {
			env.Categories = append(env.Categories, v.Category)
		}
		env.Groups[v.Category] = append(env.Groups[v.Category], v)
	}
	return env, nil
}

func (s *Service) observe(op string, start time.Time, count *int, err *error) {
	if s.observer != nil {
		s.observer.ObserveQuery(op, time.Since(start), *count, *err)
	}
}

// read performs the single store read and enforces ordering and cap on the
// result regardless of what the store returned.
func (s *Service) read(ctx context.Context, q query.Query) ([]domind.Record, error) {
	records, err := s.repo.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find indicators: %w", err)
	}
	q.Order().Sort(records)
	if len(records) > q.Limit() {
		records = records[:q.Limit()]
	}
	return records, nil
}

func (s *Service) freshness(records []domind.Record) (time.Time, bool) {
	if len(records) == 0 {
		return time.Time{}, false
	}
	if s.cfg.Freshness != domain.FreshnessLatest {
		return records[0].LastUpdated(), true
	}
	latest := records[0].LastUpdated()
	for _, r := range records[1:] {
		if r.LastUpdated().After(latest) {
			latest = r.LastUpdated()
		}
	}
	return latest, true
}

// shape projects records into views. A malformed metadata payload clears that
// record's metadata only.
func (s *Service) shape(ctx context.Context, records []domind.Record) []domind.View {
	views := make([]domind.View, len(records))
	for i, r := range records {
		v, err := domind.Shape(r)
		if err != nil {
			logger.FromContext(ctx).Warn("Malformed indicator metadata",
				zap.String("category", r.Category()),
				zap.String("geography", r.GeographyName()),
				zap.String("indicator", r.Name()),
				zap.String("period", r.Period()),
				zap.Error(err),
			)
			if s.observer != nil {
				s.observer.MetadataError(r.Category())
			}
		}
		views[i] = v
	}
	return views
}
