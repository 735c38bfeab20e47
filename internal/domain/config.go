package domain

// KeyPrefix namespaces every key civix writes to a shared key-value store.
const KeyPrefix = "civix:"

// Source is the upstream publisher reported in response envelopes.
const Source = "data.gov.in"

// QueryConfig holds result-size and freshness settings for indicator queries.
type QueryConfig struct {
	MaxRecords          int
	MaxGeographyRecords int
	Freshness           Freshness
}

// Freshness selects how an envelope's lastUpdated is derived from its records.
type Freshness string

const (
	// FreshnessFirst reports the lastUpdated of the first record in the ordered result.
	FreshnessFirst Freshness = "first"
	// FreshnessLatest reports the maximum lastUpdated across the returned records.
	FreshnessLatest Freshness = "latest"
)

// Valid reports whether f is a known policy.
func (f Freshness) Valid() bool {
	return f == FreshnessFirst || f == FreshnessLatest
}

// DefaultQueryConfig returns the limits used by the dashboard routes.
func DefaultQueryConfig() QueryConfig {
	return QueryConfig{
		MaxRecords:          1000,
		MaxGeographyRecords: 2000,
		Freshness:           FreshnessFirst,
	}
}
