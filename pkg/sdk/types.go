package civix

import (
	"time"

	"github.com/kailas-cloud/civix/internal/domain"
)

// Freshness selects how LastUpdated is derived from the returned records.
type Freshness string

// Freshness policies.
const (
	// FreshnessFirst reports the first record's timestamp (default).
	FreshnessFirst Freshness = Freshness(domain.FreshnessFirst)
	// FreshnessLatest reports the newest timestamp among the records.
	FreshnessLatest Freshness = Freshness(domain.FreshnessLatest)
)

// All stands in for an unset filter in Result.Filters.
const All = "all"

// Filters restrict a category query. Empty fields impose no restriction.
type Filters struct {
	State     string // geography name, exact and case-sensitive
	Year      string // period, exact
	Indicator string // alias token or indicator name fragment
	City      string // district name; replaces State
}

// Record is one indicator observation.
type Record struct {
	Indicator   string
	Value       *float64
	Unit        *string
	Geography   string // "National", "State", "District"
	Location    string
	Period      string
	PeriodType  string
	Category    string
	Source      string
	Metadata    any // decoded JSON, nil when absent or malformed
	LastUpdated time.Time
}

// Result is the answer to a category query.
type Result struct {
	Category    string
	Records     []Record
	Count       int
	LastUpdated time.Time
	Filters     Filters // applied filters, All for unset ones
}

// PlaceResult is the answer to a place query.
type PlaceResult struct {
	Name        string
	Groups      map[string][]Record
	Categories  []string // keys of Groups in first-appearance order
	Count       int
	LastUpdated *time.Time // nil when no records matched
	Message     string     // set when no records matched
}

// Row seeds the in-memory backend (see WithRecords).
type Row struct {
	Category      string
	Geography     string
	GeographyName string
	IndicatorName string
	Value         *float64
	Unit          *string
	Period        string
	PeriodType    string
	Source        *string
	Metadata      *string // serialized JSON
	LastUpdated   time.Time
}
