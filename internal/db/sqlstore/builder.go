package sqlstore

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/civix/internal/domain/indicator"
	"github.com/kailas-cloud/civix/internal/domain/indicator/query"
)

const indicatorColumns = `id, category, geography, geography_name, indicator_name, value, unit,
	period, period_type, source_dataset, metadata, last_updated`

// selectBuilder is a fluent builder for the indicator SELECT statement.
type selectBuilder struct {
	d       Dialect
	where   []string
	orderBy []string
	args    []any
	limit   int
}

func newSelect(d Dialect) *selectBuilder {
	return &selectBuilder{d: d}
}

// bind registers an argument and returns its placeholder.
func (b *selectBuilder) bind(v any) string {
	b.args = append(b.args, v)
	return b.d.placeholder(len(b.args))
}

// Eq adds column = value.
func (b *selectBuilder) Eq(column, value string) *selectBuilder {
	b.where = append(b.where, column+" = "+b.bind(value))
	return b
}

// EqFold adds a case-insensitive equality.
func (b *selectBuilder) EqFold(column, value string) *selectBuilder {
	b.where = append(b.where, "LOWER("+column+") = LOWER("+b.bind(value)+")")
	return b
}

// ContainsFold adds a case-insensitive substring match. LIKE wildcards in
// value are matched literally. Both sides fold in SQL so they agree on what
// LOWER covers: all of Unicode on Postgres, ASCII only on SQLite.
func (b *selectBuilder) ContainsFold(column, value string) *selectBuilder {
	pattern := "%" + escapeLike(value) + "%"
	b.where = append(b.where, "LOWER("+column+") LIKE LOWER("+b.bind(pattern)+`) ESCAPE '\'`)
	return b
}

// Asc adds an ascending text sort key.
func (b *selectBuilder) Asc(column string) *selectBuilder {
	b.orderBy = append(b.orderBy, column+b.d.Collate+" ASC")
	return b
}

// Desc adds a descending text sort key.
func (b *selectBuilder) Desc(column string) *selectBuilder {
	b.orderBy = append(b.orderBy, column+b.d.Collate+" DESC")
	return b
}

// Limit caps the result.
func (b *selectBuilder) Limit(n int) *selectBuilder {
	b.limit = n
	return b
}

// Build renders the statement and its arguments.
func (b *selectBuilder) Build() (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(indicatorColumns)
	sb.WriteString("\nFROM normalized_indicators")
	if len(b.where) > 0 {
		sb.WriteString("\nWHERE ")
		sb.WriteString(strings.Join(b.where, " AND "))
	}
	if len(b.orderBy) > 0 {
		sb.WriteString("\nORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
		// Row id breaks ties so duplicate keys come back in insertion order.
		sb.WriteString(", id ASC")
	}
	if b.limit > 0 {
		sb.WriteString("\nLIMIT ")
		sb.WriteString(strconv.Itoa(b.limit))
	}
	return sb.String(), b.args
}

// buildFindQuery translates a domain query into SQL.
func buildFindQuery(d Dialect, q query.Query) (string, []any) {
	b := newSelect(d)
	if q.Category() != "" {
		b.Eq("category", q.Category())
	}
	if q.GeographyName() != "" {
		if q.GeographyFold() {
			b.EqFold("geography_name", q.GeographyName())
		} else {
			b.Eq("geography_name", q.GeographyName())
		}
	}
	if q.GeographyKind() != "" {
		b.Eq("geography", q.GeographyKind())
	}
	if q.Period() != "" {
		b.Eq("period", q.Period())
	}
	if q.NameContains() != "" {
		b.ContainsFold("indicator_name", q.NameContains())
	}

	switch q.Order() {
	case indicator.ByCategory:
		b.Asc("category").Asc("indicator_name").Desc("period")
	default:
		b.Asc("geography_name").Desc("period").Asc("indicator_name")
	}

	return b.Limit(q.Limit()).Build()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
