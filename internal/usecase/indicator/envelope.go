package indicator

import (
	"time"

	domind "github.com/kailas-cloud/civix/internal/domain/indicator"
)

// All stands in for an unset filter in FiltersEcho.
const All = "all"

// Filters are the optional restrictions of a flat category query.
// Zero values impose no restriction. A non-empty City matches a District
// of that name and takes precedence over GeographyName and GeographyKind.
type Filters struct {
	GeographyName  string
	GeographyKind  string
	Period         string
	IndicatorAlias string
	City           string
}

// FiltersEcho restates the filters a query applied, with All for unset ones.
// Every field is the value as given, not what it resolved to: IndicatorAlias
// is the token rather than its substring, and GeographyName is kept even when
// City overrides it.
type FiltersEcho struct {
	GeographyName  string
	GeographyKind  string
	Period         string
	IndicatorAlias string
	City           string
}

func echo(f Filters) FiltersEcho {
	return FiltersEcho{
		GeographyName:  orAll(f.GeographyName),
		GeographyKind:  orAll(f.GeographyKind),
		Period:         orAll(f.Period),
		IndicatorAlias: orAll(f.IndicatorAlias),
		City:           orAll(f.City),
	}
}

func orAll(s string) string {
	if s == "" {
		return All
	}
	return s
}

// Envelope is the result of a flat category query.
type Envelope struct {
	Records     []domind.View
	Category    string
	LastUpdated time.Time
	Count       int
	Filters     FiltersEcho
}

// GeographyEnvelope is the result of a per-geography query, grouped by category.
type GeographyEnvelope struct {
	GeographyName string
	Groups        map[string][]domind.View
	// Categories lists the keys of Groups in result order.
	Categories []string
	// LastUpdated is nil when nothing matched.
	LastUpdated *time.Time
	Count       int
	// Message explains an empty result.
	Message string
}
