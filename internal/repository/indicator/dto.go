package indicator

import (
	"github.com/kailas-cloud/civix/internal/db"
	domind "github.com/kailas-cloud/civix/internal/domain/indicator"
)

// rowToRecord hydrates a domain Record from a table row.
func rowToRecord(row db.IndicatorRow) domind.Record {
	var source string
	if row.SourceDataset != nil {
		source = *row.SourceDataset
	}
	return domind.Reconstruct(domind.Fields{
		Category:      row.Category,
		GeographyKind: row.Geography,
		GeographyName: row.GeographyName,
		Name:          row.IndicatorName,
		Value:         row.Value,
		Unit:          row.Unit,
		Period:        row.Period,
		PeriodType:    row.PeriodType,
		Source:        source,
		Metadata:      row.Metadata,
		LastUpdated:   row.LastUpdated,
	})
}
