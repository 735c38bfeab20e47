package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// QueryCategoryParams defines parameters for QueryCategory.
type QueryCategoryParams struct {
	// State restricts results to one geography (case-sensitive).
	State *string `form:"state,omitempty" json:"state,omitempty"`
	// Year restricts results to one period.
	Year *string `form:"year,omitempty" json:"year,omitempty"`
	// Indicator is an alias token or an indicator-name substring.
	Indicator *string `form:"indicator,omitempty" json:"indicator,omitempty"`
	// City restricts results to one district and takes precedence over State.
	City *string `form:"city,omitempty" json:"city,omitempty"`
}

// QueryStateParams defines parameters for QueryState.
type QueryStateParams struct {
	Category *string `form:"category,omitempty" json:"category,omitempty"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Indicators of one category.
	// (GET /api/v1/data/{category})
	QueryCategory(w http.ResponseWriter, r *http.Request, category string, params QueryCategoryParams)
	// Indicators of one state, grouped by category.
	// (GET /api/v1/data/state/{state})
	QueryState(w http.ResponseWriter, r *http.Request, state string, params QueryStateParams)
	// Alias vocabulary.
	// (GET /api/v1/aliases)
	ListAliases(w http.ResponseWriter, r *http.Request)
	// (GET /health)
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// (GET /metrics)
	Metrics(w http.ResponseWriter, r *http.Request)
}

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// InvalidParamFormatError reports a parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// HandlerWithOptions mounts si on the base router.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := serverInterfaceWrapper{
		handler:          si,
		errorHandlerFunc: options.ErrorHandlerFunc,
	}

	r.Get(options.BaseURL+"/api/v1/data/state/{state}", wrapper.QueryState)
	r.Get(options.BaseURL+"/api/v1/data/{category}", wrapper.QueryCategory)
	r.Get(options.BaseURL+"/api/v1/aliases", wrapper.ListAliases)
	r.Get(options.BaseURL+"/health", wrapper.HealthCheck)
	r.Get(options.BaseURL+"/metrics", wrapper.Metrics)

	return r
}

// serverInterfaceWrapper binds parameters before calling the handler.
type serverInterfaceWrapper struct {
	handler          ServerInterface
	errorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *serverInterfaceWrapper) QueryCategory(w http.ResponseWriter, r *http.Request) {
	var category string
	err := runtime.BindStyledParameterWithOptions("simple", "category", chi.URLParam(r, "category"), &category,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "category", Err: err})
		return
	}

	var params QueryCategoryParams
	query := r.URL.Query()
	for name, dest := range map[string]**string{
		"state":     &params.State,
		"year":      &params.Year,
		"indicator": &params.Indicator,
		"city":      &params.City,
	} {
		if err := runtime.BindQueryParameter("form", true, false, name, query, dest); err != nil {
			siw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
			return
		}
	}

	siw.handler.QueryCategory(w, r, category, params)
}

func (siw *serverInterfaceWrapper) QueryState(w http.ResponseWriter, r *http.Request) {
	var state string
	err := runtime.BindStyledParameterWithOptions("simple", "state", chi.URLParam(r, "state"), &state,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "state", Err: err})
		return
	}

	var params QueryStateParams
	if err := runtime.BindQueryParameter("form", true, false, "category", r.URL.Query(), &params.Category); err != nil {
		siw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "category", Err: err})
		return
	}

	siw.handler.QueryState(w, r, state, params)
}

func (siw *serverInterfaceWrapper) ListAliases(w http.ResponseWriter, r *http.Request) {
	siw.handler.ListAliases(w, r)
}

func (siw *serverInterfaceWrapper) HealthCheck(w http.ResponseWriter, r *http.Request) {
	siw.handler.HealthCheck(w, r)
}

func (siw *serverInterfaceWrapper) Metrics(w http.ResponseWriter, r *http.Request) {
	siw.handler.Metrics(w, r)
}
