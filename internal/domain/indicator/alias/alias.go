// Package alias maps short, user-friendly indicator tokens to the canonical
// substrings expected in indicator names.
package alias

import (
	"sort"
	"strings"
)

// Table maps lower-case tokens to indicator-name substrings for one category.
type Table map[string]string

// Tables holds one Table per category.
type Tables map[string]Table

// Default returns the vocabulary used by the dashboard routes.
func Default() Tables {
	return Tables{
		"economy": {
			"gdp":          "Gross Domestic Product",
			"unemployment": "Unemployment Rate",
			"income":       "Per Capita Income",
			"employment":   "Employment Rate",
			"growth":       "GDP Growth Rate",
		},
		"environment": {
			"aqi":   "Air Quality Index",
			"water": "Water Scarcity Index",
			"waste": "Municipal Solid Waste",
		},
		"government": {
			"budget":      "Budget Allocation",
			"revenue":     "Government Revenue",
			"expenditure": "Government Expenditure",
			"tax":         "Tax Collection",
		},
	}
}

// Resolve returns the substring to search for. Tokens are looked up
// case-insensitively; a token with no entry is returned verbatim.
func (t Tables) Resolve(category, token string) string {
	if token == "" {
		return ""
	}
	if s, ok := t[category][strings.ToLower(token)]; ok {
		return s
	}
	return token
}

// Categories returns the categories that have a table, sorted.
func (t Tables) Categories() []string {
	out := make([]string, 0, len(t))
	for c := range t {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Tokens returns the tokens of one category, sorted.
func (t Tables) Tokens(category string) []string {
	tbl := t[category]
	out := make([]string, 0, len(tbl))
	for k := range tbl {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Clone returns a deep copy, so callers can extend the vocabulary without
// touching a shared instance.
func (t Tables) Clone() Tables {
	out := make(Tables, len(t))
	for c, tbl := range t {
		cp := make(Table, len(tbl))
		for k, v := range tbl {
			cp[strings.ToLower(k)] = v
		}
		out[c] = cp
	}
	return out
}
