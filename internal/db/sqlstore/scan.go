package sqlstore

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/civix/internal/db"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIndicator(rs rowScanner) (db.IndicatorRow, error) {
	var (
		row      db.IndicatorRow
		value    sql.NullFloat64
		unit     sql.NullString
		source   sql.NullString
		metadata sql.NullString
		updated  timestamp
	)
	if err := rs.Scan(
		&row.ID, &row.Category, &row.Geography, &row.GeographyName, &row.IndicatorName,
		&value, &unit, &row.Period, &row.PeriodType, &source, &metadata, &updated,
	); err != nil {
		return db.IndicatorRow{}, err
	}
	if value.Valid {
		v := value.Float64
		row.Value = &v
	}
	row.Unit = nullString(unit)
	row.SourceDataset = nullString(source)
	row.Metadata = nullString(metadata)
	row.LastUpdated = updated.Time
	return row, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// timestamp scans TIMESTAMPTZ values from pgx as well as the text forms
// SQLite drivers hand back.
type timestamp struct {
	Time time.Time
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// Scan implements sql.Scanner.
func (t *timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v
		return nil
	case int64:
		t.Time = time.Unix(v, 0).UTC()
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (t *timestamp) parse(s string) error {
	// time.Time.String appends a monotonic clock reading.
	if i := strings.Index(s, " m="); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			t.Time = ts
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}
