// Package query describes a filtered, ordered, capped read over indicator records.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/civix/internal/domain/indicator"
)

// MaxLimit bounds any single read regardless of configuration.
const MaxLimit = 10000

// Params carries the predicate, ordering and cap of a read.
// Zero-valued string fields impose no restriction.
type Params struct {
	Category      string
	GeographyName string
	// GeographyFold matches GeographyName case-insensitively.
	GeographyFold bool
	GeographyKind string
	Period        string
	// NameContains matches indicator names containing the substring, ignoring case.
	NameContains string
	Order        indicator.Order
	Limit        int
}

// Query is a validated read request (immutable value object).
type Query struct {
	p Params
}

// New validates and creates a Query.
func New(p Params) (Query, error) {
	if p.Limit <= 0 {
		return Query{}, fmt.Errorf("limit must be positive, got %d", p.Limit)
	}
	if p.Limit > MaxLimit {
		return Query{}, fmt.Errorf("limit too large (max %d), got %d", MaxLimit, p.Limit)
	}
	if p.Order != indicator.ByGeography && p.Order != indicator.ByCategory {
		return Query{}, fmt.Errorf("unsupported order %d", p.Order)
	}
	return Query{p: p}, nil
}

// Category returns the exact category to match, empty for any.
func (q Query) Category() string { return q.p.Category }

// GeographyName returns the geography to match, empty for any.
func (q Query) GeographyName() string { return q.p.GeographyName }

// GeographyFold reports whether GeographyName is matched case-insensitively.
func (q Query) GeographyFold() bool { return q.p.GeographyFold }

// GeographyKind returns the exact geography kind to match, empty for any.
func (q Query) GeographyKind() string { return q.p.GeographyKind }

// Period returns the exact period to match, empty for any.
func (q Query) Period() string { return q.p.Period }

// NameContains returns the indicator-name substring, empty for any.
func (q Query) NameContains() string { return q.p.NameContains }

// Order returns the result ordering.
func (q Query) Order() indicator.Order { return q.p.Order }

// Limit returns the result cap.
func (q Query) Limit() int { return q.p.Limit }

// Key returns a canonical string identifying the query, used for cache keys.
func (q Query) Key() string {
	var b strings.Builder
	field := func(name, v string) {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(strconv.Quote(v))
		b.WriteByte(';')
	}
	field("category", q.p.Category)
	field("geo", q.p.GeographyName)
	field("geofold", strconv.FormatBool(q.p.GeographyFold))
	field("kind", q.p.GeographyKind)
	field("period", q.p.Period)
	field("name", q.p.NameContains)
	field("order", q.p.Order.String())
	field("limit", strconv.Itoa(q.p.Limit))
	return b.String()
}

// Matches evaluates the predicate against r in memory, with the same
// semantics the store applies.
func (q Query) Matches(r indicator.Record) bool {
	if q.p.Category != "" && r.Category() != q.p.Category {
		return false
	}
	if q.p.GeographyName != "" {
		if q.p.GeographyFold {
			if !strings.EqualFold(r.GeographyName(), q.p.GeographyName) {
				return false
			}
		} else if r.GeographyName() != q.p.GeographyName {
			return false
		}
	}
	if q.p.GeographyKind != "" && r.GeographyKind() != q.p.GeographyKind {
		return false
	}
	if q.p.Period != "" && r.Period() != q.p.Period {
		return false
	}
	if q.p.NameContains != "" &&
		!strings.Contains(strings.ToLower(r.Name()), strings.ToLower(q.p.NameContains)) {
		return false
	}
	return true
}
