package indicator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/kailas-cloud/civix/internal/db"
	"github.com/kailas-cloud/civix/internal/db/memory"
	"github.com/kailas-cloud/civix/internal/domain"
	domind "github.com/kailas-cloud/civix/internal/domain/indicator"
	"github.com/kailas-cloud/civix/internal/domain/indicator/alias"
	"github.com/kailas-cloud/civix/internal/domain/indicator/query"
	repoind "github.com/kailas-cloud/civix/internal/repository/indicator"
)

func TestQueryIndicators_Ordering(t *testing.T) {
	repo := returning(recordsOf(
		rec{category: "economy", geo: "Kerala", name: "GDP", period: "2021"},
		rec{category: "economy", geo: "Assam", name: "Tax", period: "2023"},
		rec{category: "economy", geo: "Kerala", name: "Budget", period: "2023"},
		rec{category: "economy", geo: "Kerala", name: "GDP", period: "2023"},
		rec{category: "economy", geo: "Assam", name: "GDP", period: "2019"},
	)...)
	svc := New(repo, alias.Default())

	env, err := svc.QueryIndicators(context.Background(), "economy", Filters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []string
	for _, v := range env.Records {
		got = append(got, v.Location+"|"+v.Period+"|"+v.Indicator)
	}
	want := []string{
		"Assam|2023|Tax",
		"Assam|2019|GDP",
		"Kerala|2023|Budget",
		"Kerala|2023|GDP",
		"Kerala|2021|GDP",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order mismatch:\n got %v\nwant %v", got, want)
	}

	for i := 1; i < len(env.Records); i++ {
		a, b := env.Records[i-1], env.Records[i]
		switch {
		case a.Location < b.Location:
		case a.Location > b.Location:
			t.Fatalf("geography out of order at %d", i)
		case a.Period < b.Period:
			t.Fatalf("period out of order at %d", i)
		case a.Period == b.Period && a.Indicator > b.Indicator:
			t.Fatalf("indicator out of order at %d", i)
		}
	}
}

func TestQueryIndicators_BuildsQuery(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, alias.Default())

	_, err := svc.QueryIndicators(context.Background(), "environment", Filters{
		GeographyName:  "Pune",
		GeographyKind:  domind.KindDistrict,
		Period:         "2023",
		IndicatorAlias: "AQI",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.calls != 1 {
		t.Fatalf("expected exactly one store read, got %d", repo.calls)
	}

	q := repo.lastQ
	if q.Category() != "environment" || q.GeographyName() != "Pune" || q.GeographyKind() != domind.KindDistrict {
		t.Errorf("unexpected predicate: %s", q.Key())
	}
	if q.GeographyFold() {
		t.Error("flat query must match geography case-sensitively")
	}
	if q.Period() != "2023" {
		t.Errorf("expected period 2023, got %q", q.Period())
	}
	if q.NameContains() != "Air Quality Index" {
		t.Errorf("expected resolved alias, got %q", q.NameContains())
	}
	if q.Order() != domind.ByGeography {
		t.Errorf("expected geography order, got %s", q.Order())
	}
	if q.Limit() != 1000 {
		t.Errorf("expected limit 1000, got %d", q.Limit())
	}
}

func TestQueryIndicators_BlankCategory(t *testing.T) {
	for _, category := range []string{"", "   "} {
		repo := returning(recordsOf(
			rec{category: "economy", geo: "Kerala", name: "GDP", period: "2023"},
			rec{category: "population", geo: "Kerala", name: "Census", period: "2011"},
		)...)
		obs := &mockObserver{}

		env, err := New(repo, nil).WithObserver(obs).QueryIndicators(context.Background(), category, Filters{})
		if !errors.Is(err, domain.ErrInvalidQuery) {
			t.Fatalf("category %q: expected ErrInvalidQuery, got %v", category, err)
		}
		if repo.calls != 0 {
			t.Fatalf("category %q: store must not be read", category)
		}
		if env.Count != 0 || env.Records != nil {
			t.Errorf("category %q: expected zero envelope, got %+v", category, env)
		}
		if len(obs.queries) != 1 || !errors.Is(obs.queries[0].err, domain.ErrInvalidQuery) {
			t.Errorf("category %q: expected one failed observation, got %+v", category, obs.queries)
		}
	}
}

func TestQueryIndicators_CityOverridesState(t *testing.T) {
	repo := &mockRepo{}

	env, err := New(repo, nil).QueryIndicators(context.Background(), "environment", Filters{
		GeographyName: "Maharashtra",
		GeographyKind: domind.KindState,
		City:          "Pune",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q := repo.lastQ
	if q.GeographyName() != "Pune" || q.GeographyKind() != domind.KindDistrict {
		t.Errorf("expected Pune District predicate, got %s", q.Key())
	}
	want := FiltersEcho{
		GeographyName:  "Maharashtra",
		GeographyKind:  domind.KindState,
		Period:         All,
		IndicatorAlias: All,
		City:           "Pune",
	}
	if env.Filters != want {
		t.Errorf("echo = %+v, want %+v", env.Filters, want)
	}
}

func TestQueryIndicators_AliasResolution(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"gdp", "Gross Domestic Product"},
		{"GDP", "Gross Domestic Product"},
		{"xyz123", "xyz123"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			repo := &mockRepo{}
			env, err := New(repo, alias.Default()).
				QueryIndicators(context.Background(), "economy", Filters{IndicatorAlias: tt.token})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if repo.lastQ.NameContains() != tt.want {
				t.Errorf("NameContains = %q, want %q", repo.lastQ.NameContains(), tt.want)
			}
			wantEcho := tt.token
			if wantEcho == "" {
				wantEcho = All
			}
			if env.Filters.IndicatorAlias != wantEcho {
				t.Errorf("echo = %q, want %q", env.Filters.IndicatorAlias, wantEcho)
			}
		})
	}
}

func TestQueryIndicators_Cap(t *testing.T) {
	var many []domind.Record
	for i := range 1500 {
		many = append(many, rec{category: "economy", geo: fmt.Sprintf("G%04d", i), name: "GDP", period: "2023"}.build())
	}
	svc := New(returning(many...), nil)

	env, err := svc.QueryIndicators(context.Background(), "economy", Filters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(env.Records) != 1000 || env.Count != 1000 {
		t.Fatalf("expected 1000 records, got %d (count %d)", len(env.Records), env.Count)
	}
	if env.Records[999].Location != "G0999" {
		t.Errorf("expected truncation after sort, last = %s", env.Records[999].Location)
	}
}

func TestQueryIndicators_ConfiguredLimit(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, nil).WithConfig(domain.QueryConfig{MaxRecords: 25})

	if _, err := svc.QueryIndicators(context.Background(), "economy", Filters{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastQ.Limit() != 25 {
		t.Errorf("expected limit 25, got %d", repo.lastQ.Limit())
	}
}

func TestQueryIndicators_InvalidLimit(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, nil).WithConfig(domain.QueryConfig{MaxRecords: query.MaxLimit + 1})

	_, err := svc.QueryIndicators(context.Background(), "economy", Filters{})
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatal("store must not be read for an invalid query")
	}
}

func TestQueryIndicators_FreshnessFirst(t *testing.T) {
	repo := returning(recordsOf(
		rec{category: "economy", geo: "Bihar", name: "GDP", period: "2023", updated: baseTime.Add(48 * time.Hour)},
		rec{category: "economy", geo: "Assam", name: "GDP", period: "2023", updated: baseTime},
	)...)

	env, err := New(repo, nil).QueryIndicators(context.Background(), "economy", Filters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Assam sorts first; its timestamp wins even though Bihar is fresher.
	if !env.LastUpdated.Equal(baseTime) {
		t.Errorf("expected first record's lastUpdated %v, got %v", baseTime, env.LastUpdated)
	}
}

func TestQueryIndicators_FreshnessLatest(t *testing.T) {
	fresher := baseTime.Add(48 * time.Hour)
	repo := returning(recordsOf(
		rec{category: "economy", geo: "Bihar", name: "GDP", period: "2023", updated: fresher},
		rec{category: "economy", geo: "Assam", name: "GDP", period: "2023", updated: baseTime},
	)...)
	svc := New(repo, nil).WithConfig(domain.QueryConfig{Freshness: domain.FreshnessLatest})

	env, err := svc.QueryIndicators(context.Background(), "economy", Filters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !env.LastUpdated.Equal(fresher) {
		t.Errorf("expected max lastUpdated %v, got %v", fresher, env.LastUpdated)
	}
}

func TestQueryIndicators_EmptyUsesClock(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := New(&mockRepo{}, nil).WithClock(func() time.Time { return now })

	env, err := svc.QueryIndicators(context.Background(), "no-such-category", Filters{})
	if err != nil {
		t.Fatalf("unknown category must not be an error: %v", err)
	}
	if env.Count != 0 || len(env.Records) != 0 || env.Records == nil {
		t.Errorf("expected empty non-nil records, got %+v", env)
	}
	if !env.LastUpdated.Equal(now) {
		t.Errorf("expected clock time, got %v", env.LastUpdated)
	}
	want := FiltersEcho{GeographyName: All, GeographyKind: All, Period: All, IndicatorAlias: All, City: All}
	if env.Filters != want {
		t.Errorf("echo = %+v, want %+v", env.Filters, want)
	}
}

func TestQueryIndicators_MetadataIsolation(t *testing.T) {
	repo := returning(recordsOf(
		rec{category: "economy", geo: "Assam", name: "GDP", period: "2023", meta: strPtr(`{"source":"rbi"}`)},
		rec{category: "economy", geo: "Bihar", name: "GDP", period: "2023", meta: strPtr(`{broken`)},
		rec{category: "economy", geo: "Goa", name: "GDP", period: "2023"},
	)...)
	obs := &mockObserver{}
	svc := New(repo, nil).WithObserver(obs)

	env, err := svc.QueryIndicators(context.Background(), "economy", Filters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.Count != 3 {
		t.Fatalf("expected all 3 records, got %d", env.Count)
	}
	meta, ok := env.Records[0].Metadata.(map[string]any)
	if !ok || meta["source"] != "rbi" {
		t.Errorf("expected decoded metadata, got %#v", env.Records[0].Metadata)
	}
	if env.Records[1].Metadata != nil {
		t.Errorf("expected nil metadata for malformed payload, got %#v", env.Records[1].Metadata)
	}
	if env.Records[1].Indicator != "GDP" || env.Records[1].Location != "Bihar" {
		t.Errorf("malformed record must keep its other fields: %+v", env.Records[1])
	}
	if env.Records[2].Metadata != nil {
		t.Errorf("expected nil metadata when absent, got %#v", env.Records[2].Metadata)
	}
	if !reflect.DeepEqual(obs.metadata, []string{"economy"}) {
		t.Errorf("expected one metadata error for economy, got %v", obs.metadata)
	}
}

func TestQueryIndicators_StoreUnavailable(t *testing.T) {
	obs := &mockObserver{}
	repo := &mockRepo{findFn: func(_ context.Context, _ query.Query) ([]domind.Record, error) {
		return nil, fmt.Errorf("%w: connection refused", domain.ErrStoreUnavailable)
	}}

	_, err := New(repo, nil).WithObserver(obs).QueryIndicators(context.Background(), "economy", Filters{})
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if repo.calls != 1 {
		t.Fatalf("expected no retry, got %d calls", repo.calls)
	}
	if len(obs.queries) != 1 || obs.queries[0].op != OpFlat || obs.queries[0].err == nil {
		t.Errorf("expected failed flat observation, got %+v", obs.queries)
	}
}

func TestQueryIndicatorsForGeography_GroupsInOrder(t *testing.T) {
	repo := returning(recordsOf(
		rec{category: "population", geo: "Goa", name: "Population", period: "2011"},
		rec{category: "economy", geo: "Goa", name: "GDP", period: "2022"},
		rec{category: "economy", geo: "Goa", name: "Budget", period: "2023"},
		rec{category: "economy", geo: "Goa", name: "GDP", period: "2023"},
	)...)
	obs := &mockObserver{}

	env, err := New(repo, nil).WithObserver(obs).QueryIndicatorsForGeography(context.Background(), "Goa", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(env.Categories, []string{"economy", "population"}) {
		t.Errorf("unexpected categories: %v", env.Categories)
	}
	var econ []string
	for _, v := range env.Groups["economy"] {
		econ = append(econ, v.Indicator+"|"+v.Period)
	}
	if !reflect.DeepEqual(econ, []string{"Budget|2023", "GDP|2023", "GDP|2022"}) {
		t.Errorf("unexpected economy group: %v", econ)
	}
	if env.Count != 4 {
		t.Errorf("expected count 4, got %d", env.Count)
	}
	if env.LastUpdated == nil || !env.LastUpdated.Equal(baseTime) {
		t.Errorf("expected lastUpdated %v, got %v", baseTime, env.LastUpdated)
	}
	if env.Message != "" {
		t.Errorf("unexpected message %q", env.Message)
	}

	q := repo.lastQ
	if !q.GeographyFold() || q.Order() != domind.ByCategory || q.Limit() != 2000 {
		t.Errorf("unexpected query: %s", q.Key())
	}
	if len(obs.queries) != 1 || obs.queries[0].op != OpGeography || obs.queries[0].records != 4 {
		t.Errorf("unexpected observation: %+v", obs.queries)
	}
}

func TestQueryIndicatorsForGeography_CategoryFilter(t *testing.T) {
	repo := &mockRepo{}
	if _, err := New(repo, nil).QueryIndicatorsForGeography(context.Background(), "Goa", "economy"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastQ.Category() != "economy" {
		t.Errorf("expected category restriction, got %q", repo.lastQ.Category())
	}
}

func TestQueryIndicatorsForGeography_Cap(t *testing.T) {
	var many []domind.Record
	for i := range 2500 {
		many = append(many, rec{category: "economy", geo: "Goa", name: fmt.Sprintf("I%04d", i), period: "2023"}.build())
	}

	env, err := New(returning(many...), nil).QueryIndicatorsForGeography(context.Background(), "Goa", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.Count != 2000 || len(env.Groups["economy"]) != 2000 {
		t.Fatalf("expected 2000 records, got %d", env.Count)
	}
}

func TestQueryIndicatorsForGeography_Empty(t *testing.T) {
	env, err := New(&mockRepo{}, nil).QueryIndicatorsForGeography(context.Background(), "Atlantis", "")
	if err != nil {
		t.Fatalf("no match must not be an error: %v", err)
	}
	if env.Count != 0 || len(env.Groups) != 0 || len(env.Categories) != 0 {
		t.Errorf("expected empty grouping, got %+v", env)
	}
	if env.Categories == nil || env.Groups == nil {
		t.Error("expected non-nil empty collections")
	}
	if env.LastUpdated != nil {
		t.Errorf("expected nil lastUpdated, got %v", env.LastUpdated)
	}
	if env.Message != "No data found for Atlantis" {
		t.Errorf("unexpected message %q", env.Message)
	}
}

func TestQueryIndicatorsForGeography_BlankName(t *testing.T) {
	repo := &mockRepo{}
	_, err := New(repo, nil).QueryIndicatorsForGeography(context.Background(), "  ", "")
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatal("store must not be read")
	}
}

// End-to-end over the in-memory store: the geography query ignores case, the
// flat query does not.
func TestCaseSensitivityAsymmetry(t *testing.T) {
	store := memory.New(
		db.IndicatorRow{Category: "economy", Geography: "State", GeographyName: "Rajasthan",
			IndicatorName: "Gross Domestic Product", Period: "2023", LastUpdated: baseTime},
		db.IndicatorRow{Category: "population", Geography: "State", GeographyName: "Rajasthan",
			IndicatorName: "Population", Period: "2011", LastUpdated: baseTime},
	)
	svc := New(repoind.New(store), alias.Default())
	ctx := context.Background()

	upper, err := svc.QueryIndicatorsForGeography(ctx, "RAJASTHAN", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	title, err := svc.QueryIndicatorsForGeography(ctx, "Rajasthan", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upper.Count != 2 || !reflect.DeepEqual(upper.Groups, title.Groups) {
		t.Errorf("geography query should ignore case: %+v vs %+v", upper.Groups, title.Groups)
	}

	flatUpper, err := svc.QueryIndicators(ctx, "economy", Filters{GeographyName: "RAJASTHAN"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flatUpper.Count != 0 {
		t.Errorf("flat query must be case-sensitive, got %d records", flatUpper.Count)
	}

	flatTitle, err := svc.QueryIndicators(ctx, "economy", Filters{GeographyName: "Rajasthan", IndicatorAlias: "gdp"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flatTitle.Count != 1 {
		t.Errorf("expected 1 record, got %d", flatTitle.Count)
	}
}

func TestAliases_ReturnsCopy(t *testing.T) {
	svc := New(&mockRepo{}, alias.Default())
	tables := svc.Aliases()
	tables["economy"]["gdp"] = "changed"

	if got := svc.Aliases().Resolve("economy", "gdp"); got != "Gross Domestic Product" {
		t.Errorf("service vocabulary mutated: %q", got)
	}
}
