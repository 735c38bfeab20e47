package indicator

import "sort"

// Order names one of the result orderings the store supports.
type Order int

const (
	// ByGeography orders geographyName ASC, period DESC, indicatorName ASC.
	ByGeography Order = iota
	// ByCategory orders category ASC, indicatorName ASC, period DESC.
	ByCategory
)

func (o Order) String() string {
	switch o {
	case ByGeography:
		return "geography"
	case ByCategory:
		return "category"
	default:
		return "unknown"
	}
}

// Less reports whether a sorts before b under o. Strings compare bytewise,
// matching the store's binary collation.
func (o Order) Less(a, b Record) bool {
	switch o {
	case ByCategory:
		if a.category != b.category {
			return a.category < b.category
		}
		if a.name != b.name {
			return a.name < b.name
		}
		return a.period > b.period
	default:
		if a.geographyName != b.geographyName {
			return a.geographyName < b.geographyName
		}
		if a.period != b.period {
			return a.period > b.period
		}
		return a.name < b.name
	}
}

// Sort orders records in place. The sort is stable so rows that tie on every
// key keep the order the store returned them in.
func (o Order) Sort(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return o.Less(records[i], records[j])
	})
}
