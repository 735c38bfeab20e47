package sqlstore

import "strconv"

// Dialect captures the SQL differences between supported backends.
type Dialect struct {
	// Name selects the embedded migration set.
	Name string
	// Collate is appended to ORDER BY text columns so ordering is bytewise.
	Collate string
	// Numbered reports whether placeholders are $1, $2, ... rather than ?.
	Numbered bool
}

// Postgres is the dialect for PostgreSQL through pgx.
var Postgres = Dialect{Name: "postgres", Collate: ` COLLATE "C"`, Numbered: true}

// SQLite is the dialect for SQLite; its default BINARY collation is already bytewise.
var SQLite = Dialect{Name: "sqlite"}

// placeholder returns the n-th (1-based) bind marker.
func (d Dialect) placeholder(n int) string {
	if d.Numbered {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}
