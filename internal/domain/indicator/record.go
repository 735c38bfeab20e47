package indicator

import (
	"fmt"
	"time"
)

// Record is one normalized indicator row (immutable value object).
// Value, unit and metadata may be absent at the source and are kept absent.
type Record struct {
	category      string
	geographyKind string
	geographyName string
	name          string
	value         *float64
	unit          *string
	period        string
	periodType    string
	source        string
	metadata      *string
	lastUpdated   time.Time
}

// Fields carries the raw column values used to build a Record.
type Fields struct {
	Category      string
	GeographyKind string
	GeographyName string
	Name          string
	Value         *float64
	Unit          *string
	Period        string
	PeriodType    string
	Source        string
	Metadata      *string
	LastUpdated   time.Time
}

// New validates and creates a Record.
// Category, geography name and indicator name are required.
func New(f Fields) (Record, error) {
	if f.Category == "" {
		return Record{}, fmt.Errorf("category is required")
	}
	if f.GeographyName == "" {
		return Record{}, fmt.Errorf("geography name is required")
	}
	if f.Name == "" {
		return Record{}, fmt.Errorf("indicator name is required")
	}
	return Reconstruct(f), nil
}

// Reconstruct creates a Record without validation (storage hydration).
func Reconstruct(f Fields) Record {
	return Record{
		category:      f.Category,
		geographyKind: f.GeographyKind,
		geographyName: f.GeographyName,
		name:          f.Name,
		value:         cloneFloat(f.Value),
		unit:          cloneString(f.Unit),
		period:        f.Period,
		periodType:    f.PeriodType,
		source:        f.Source,
		metadata:      cloneString(f.Metadata),
		lastUpdated:   f.LastUpdated,
	}
}

// Category returns the domain partition.
func (r Record) Category() string { return r.category }

// GeographyKind returns the location granularity (State, District, ...).
func (r Record) GeographyKind() string { return r.geographyKind }

// GeographyName returns the location label.
func (r Record) GeographyName() string { return r.geographyName }

// Name returns the indicator name.
func (r Record) Name() string { return r.name }

// Value returns the magnitude, nil when absent.
func (r Record) Value() *float64 { return cloneFloat(r.value) }

// Unit returns the unit label, nil when absent.
func (r Record) Unit() *string { return cloneString(r.unit) }

// Period returns the reporting period label.
func (r Record) Period() string { return r.period }

// PeriodType returns the period classification.
func (r Record) PeriodType() string { return r.periodType }

// Source returns the source dataset identifier, empty when unknown.
func (r Record) Source() string { return r.source }

// Metadata returns the serialized metadata payload, nil when absent.
func (r Record) Metadata() *string { return cloneString(r.metadata) }

// LastUpdated returns when the record was last refreshed upstream.
func (r Record) LastUpdated() time.Time { return r.lastUpdated }

// Fields returns a copy of the record's column values.
func (r Record) Fields() Fields {
	return Fields{
		Category:      r.category,
		GeographyKind: r.geographyKind,
		GeographyName: r.geographyName,
		Name:          r.name,
		Value:         cloneFloat(r.value),
		Unit:          cloneString(r.unit),
		Period:        r.period,
		PeriodType:    r.periodType,
		Source:        r.source,
		Metadata:      cloneString(r.metadata),
		LastUpdated:   r.lastUpdated,
	}
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
