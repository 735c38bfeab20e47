package civix

import (
	"context"

	healthuc "github.com/kailas-cloud/civix/internal/usecase/health"
	indicatoruc "github.com/kailas-cloud/civix/internal/usecase/indicator"
)

// --- indicatorUseCase mock ---

type mockIndicatorUC struct {
	queryFn func(ctx context.Context, category string, f indicatoruc.Filters) (indicatoruc.Envelope, error)
	placeFn func(ctx context.Context, name, category string) (indicatoruc.GeographyEnvelope, error)
}

func (m *mockIndicatorUC) QueryIndicators(
	ctx context.Context, category string, f indicatoruc.Filters,
) (indicatoruc.Envelope, error) {
	return m.queryFn(ctx, category, f)
}

func (m *mockIndicatorUC) QueryIndicatorsForGeography(
	ctx context.Context, name, category string,
) (indicatoruc.GeographyEnvelope, error) {
	return m.placeFn(ctx, name, category)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	checkFn func(ctx context.Context) healthuc.Report
}

func (m *mockHealthUC) Check(ctx context.Context) healthuc.Report {
	return m.checkFn(ctx)
}
