package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component (the query cache) is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates the indicator store is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names reported in Report.Checks.
const (
	ComponentDatabase = "database"
	ComponentCache    = "cache"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db    Pinger
	cache Pinger
}

// New creates a Service. cache can be nil when caching is disabled.
func New(db, cache Pinger) *Service {
	return &Service{db: db, cache: cache}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{
		ComponentDatabase: probe(ctx, s.db),
	}
	if s.cache != nil {
		checks[ComponentCache] = probe(ctx, s.cache)
	}

	status := Healthy
	switch {
	case checks[ComponentDatabase] == CheckError:
		status = Unhealthy
	case checks[ComponentCache] == CheckError:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}

func probe(ctx context.Context, p Pinger) CheckResult {
	if err := p.Ping(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
