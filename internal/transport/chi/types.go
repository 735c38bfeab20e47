package chi

import "time"

// ErrorResponseCode classifies an error response.
type ErrorResponseCode string

// Error codes.
const (
	ErrorResponseCodeBadRequest       ErrorResponseCode = "bad_request"
	ErrorResponseCodeUnauthorized     ErrorResponseCode = "unauthorized"
	ErrorResponseCodeValidationFailed ErrorResponseCode = "validation_failed"
	ErrorResponseCodeStoreUnavailable ErrorResponseCode = "store_unavailable"
	ErrorResponseCodeInternalError    ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Success bool              `json:"success"`
	Code    ErrorResponseCode `json:"code"`
	Error   string            `json:"error"`
	Message string            `json:"message"`
}

// IndicatorItem is one record in a flat category response.
type IndicatorItem struct {
	Indicator  string   `json:"indicator"`
	Value      *float64 `json:"value"`
	Unit       *string  `json:"unit"`
	Geography  string   `json:"geography"`
	Location   string   `json:"location"`
	Period     string   `json:"period"`
	PeriodType string   `json:"periodType"`
	Source     string   `json:"source,omitempty"`
	Metadata   any      `json:"metadata"`
}

// GroupedIndicatorItem is one record inside a category group.
type GroupedIndicatorItem struct {
	Indicator  string   `json:"indicator"`
	Value      *float64 `json:"value"`
	Unit       *string  `json:"unit"`
	Period     string   `json:"period"`
	PeriodType string   `json:"periodType"`
	Source     string   `json:"source,omitempty"`
	Metadata   any      `json:"metadata"`
}

// CategoryResponse is the body of GET /api/v1/data/{category}.
type CategoryResponse struct {
	Success     bool              `json:"success"`
	Data        []IndicatorItem   `json:"data"`
	Source      string            `json:"source"`
	Category    string            `json:"category"`
	LastUpdated time.Time         `json:"lastUpdated"`
	Count       int               `json:"count"`
	Filters     map[string]string `json:"filters"`
}

// StateResponse is the body of GET /api/v1/data/state/{state}.
type StateResponse struct {
	Success     bool                              `json:"success"`
	State       string                            `json:"state"`
	Data        map[string][]GroupedIndicatorItem `json:"data"`
	Source      string                            `json:"source"`
	LastUpdated *time.Time                        `json:"lastUpdated"`
	Count       int                               `json:"count"`
	Categories  []string                          `json:"categories"`
	Message     string                            `json:"message,omitempty"`
}

// AliasesResponse is the body of GET /api/v1/aliases.
type AliasesResponse struct {
	Success    bool                         `json:"success"`
	Data       map[string]map[string]string `json:"data"`
	Categories []string                     `json:"categories"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}
