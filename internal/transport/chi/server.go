package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/civix/internal/domain"
	domind "github.com/kailas-cloud/civix/internal/domain/indicator"
	"github.com/kailas-cloud/civix/internal/version"
	healthuc "github.com/kailas-cloud/civix/internal/usecase/health"
	indicatoruc "github.com/kailas-cloud/civix/internal/usecase/indicator"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, title, msg string) bool

// Server implements ServerInterface.
type Server struct {
	indicators    *indicatoruc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(
	indicators *indicatoruc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		indicators: indicators,
		health:     health,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrStoreUnavailable,
			http.StatusInternalServerError, ErrorResponseCodeStoreUnavailable),
	}
	return s
}

// QueryCategory handles GET /api/v1/data/{category}.
func (s *Server) QueryCategory(w http.ResponseWriter, r *http.Request, category string, params QueryCategoryParams) {
	filters := CategoryFilters(params)

	env, err := s.indicators.QueryIndicators(r.Context(), category, filters)
	if err != nil {
		s.handleDomainError(w, err, "Failed to fetch "+category+" data")
		return
	}

	writeJSON(w, http.StatusOK, NewCategoryResponse(env))
}

// QueryState handles GET /api/v1/data/state/{state}.
func (s *Server) QueryState(w http.ResponseWriter, r *http.Request, state string, params QueryStateParams) {
	name := domind.FromSlug(state)

	env, err := s.indicators.QueryIndicatorsForGeography(r.Context(), name, deref(params.Category))
	if err != nil {
		s.handleDomainError(w, err, "Failed to fetch state data")
		return
	}

	writeJSON(w, http.StatusOK, NewStateResponse(env))
}

// ListAliases handles GET /api/v1/aliases.
func (s *Server) ListAliases(w http.ResponseWriter, _ *http.Request) {
	tables := s.indicators.Aliases()

	data := make(map[string]map[string]string, len(tables))
	for category, tbl := range tables {
		data[category] = tbl
	}
	writeJSON(w, http.StatusOK, AliasesResponse{
		Success:    true,
		Data:       data,
		Categories: tables.Categories(),
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:  string(report.Status),
		Version: version.Version,
		Checks:  checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// CategoryFilters converts query parameters into service filters.
func CategoryFilters(params QueryCategoryParams) indicatoruc.Filters {
	return indicatoruc.Filters{
		GeographyName:  deref(params.State),
		Period:         deref(params.Year),
		IndicatorAlias: deref(params.Indicator),
		City:           deref(params.City),
	}
}

// NewCategoryResponse renders a flat query envelope.
func NewCategoryResponse(env indicatoruc.Envelope) CategoryResponse {
	items := make([]IndicatorItem, len(env.Records))
	for i, v := range env.Records {
		items[i] = indicatorItem(v)
	}
	return CategoryResponse{
		Success:     true,
		Data:        items,
		Source:      domain.Source,
		Category:    env.Category,
		LastUpdated: env.LastUpdated,
		Count:       env.Count,
		Filters:     filtersEcho(env.Filters),
	}
}

// NewStateResponse renders a geography envelope.
func NewStateResponse(env indicatoruc.GeographyEnvelope) StateResponse {
	data := make(map[string][]GroupedIndicatorItem, len(env.Groups))
	for category, views := range env.Groups {
		items := make([]GroupedIndicatorItem, len(views))
		for i, v := range views {
			items[i] = groupedItem(v)
		}
		data[category] = items
	}
	return StateResponse{
		Success:     true,
		State:       env.GeographyName,
		Data:        data,
		Source:      domain.Source,
		LastUpdated: env.LastUpdated,
		Count:       env.Count,
		Categories:  env.Categories,
		Message:     env.Message,
	}
}

// filtersEcho renders the applied filters with the query parameter names
// callers used. Every category echoes all four; state is kept as given even
// when city overrides it.
func filtersEcho(f indicatoruc.FiltersEcho) map[string]string {
	return map[string]string{
		"state":     f.GeographyName,
		"year":      f.Period,
		"indicator": f.IndicatorAlias,
		"city":      f.City,
	}
}

func indicatorItem(v domind.View) IndicatorItem {
	return IndicatorItem{
		Indicator:  v.Indicator,
		Value:      v.Value,
		Unit:       v.Unit,
		Geography:  v.Geography,
		Location:   v.Location,
		Period:     v.Period,
		PeriodType: v.PeriodType,
		Source:     v.Source,
		Metadata:   v.Metadata,
	}
}

func groupedItem(v domind.View) GroupedIndicatorItem {
	return GroupedIndicatorItem{
		Indicator:  v.Indicator,
		Value:      v.Value,
		Unit:       v.Unit,
		Period:     v.Period,
		PeriodType: v.PeriodType,
		Source:     v.Source,
		Metadata:   v.Metadata,
	}
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, title, message string) {
	writeJSON(w, status, ErrorResponse{
		Success: false,
		Code:    code,
		Error:   title,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrStoreUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, title, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, title, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error, title string) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, title, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, title, "internal error")
}
