// Package civix provides an in-process Go client for civic indicator queries
// over a normalized indicator store (Postgres, SQLite or in-memory).
//
// The client runs the same query service as the civix HTTP API: a flat,
// filtered read of one category, and a per-place read grouped by category.
//
//	client, _ := civix.New(ctx, civix.WithSQLite("civix.db"), civix.WithMigrate())
//	defer client.Close()
//
//	res, _ := client.Indicators(ctx, "economy", civix.Filters{
//	    State:     "Uttar Pradesh",
//	    Indicator: "gdp",
//	})
//	place, _ := client.Place(ctx, "uttar-pradesh", "")
//
// Results are ordered and capped in the store; see WithLimits.
package civix
