package indicator

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// View is the caller-facing projection of a Record.
type View struct {
	Indicator   string
	Value       *float64
	Unit        *string
	Geography   string // geography kind
	Location    string // geography name
	Period      string
	PeriodType  string
	Category    string
	Source      string
	Metadata    any
	LastUpdated time.Time
}

// Shape projects r into a View, decoding its metadata payload.
// A malformed payload yields a View with nil Metadata together with the parse
// error, so callers can keep the record and report the failure.
func Shape(r Record) (View, error) {
	v := View{
		Indicator:   r.name,
		Value:       cloneFloat(r.value),
		Unit:        cloneString(r.unit),
		Geography:   r.geographyKind,
		Location:    r.geographyName,
		Period:      r.period,
		PeriodType:  r.periodType,
		Category:    r.category,
		Source:      r.source,
		LastUpdated: r.lastUpdated,
	}
	meta, err := ParseMetadata(r.metadata)
	if err != nil {
		return v, err
	}
	v.Metadata = meta
	return v, nil
}

// ParseMetadata decodes a serialized metadata payload.
// Absent or blank payloads decode to nil.
func ParseMetadata(raw *string) (any, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	var out any
	if err := json.Unmarshal([]byte(*raw), &out); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	return out, nil
}
