package indicator

// Category partitions the indicator table by domain.
type Category = string

// Categories published by the ingestion pipeline. Queries accept any string;
// an unknown category simply matches nothing.
const (
	Economy     Category = "economy"
	Environment Category = "environment"
	Government  Category = "government"
	Population  Category = "population"
)

// KnownCategories lists the categories the dashboard routes expose.
func KnownCategories() []Category {
	return []Category{Economy, Environment, Government, Population}
}

// IsKnownCategory reports whether c is one of KnownCategories.
func IsKnownCategory(c string) bool {
	for _, k := range KnownCategories() {
		if k == c {
			return true
		}
	}
	return false
}
