package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"

	"github.com/frahmantamala/onboarding-tracker/internal"
)

// RequestValidator checks JSON request bodies, path and query parameters against
// the OpenAPI document. Paths are matched after stripping basePath.
type RequestValidator struct {
	router   routers.Router
	basePath string
	logger   *slog.Logger
}

// LoadOpenAPI reads and validates the OpenAPI document at path.
func LoadOpenAPI(path string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return doc, nil
}

func NewRequestValidator(doc *openapi3.T, basePath string, logger *slog.Logger) (*RequestValidator, error) {
	// routes are matched against the path relative to basePath
	doc.Servers = nil
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}
	return &RequestValidator{
		router:   router,
		basePath: strings.TrimSuffix(basePath, "/"),
		logger:   logger,
	}, nil
}

// Middleware passes through requests the document does not describe and
// non-JSON bodies such as multipart uploads. Authentication is left to the
// auth middleware.
func (v *RequestValidator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength != 0 && r.Header.Get("Content-Type") != "" && !isJSON(r.Header.Get("Content-Type")) {
			next.ServeHTTP(w, r)
			return
		}

		probe := r.Clone(r.Context())
		probe.URL = &url.URL{Path: strings.TrimPrefix(r.URL.Path, v.basePath), RawQuery: r.URL.RawQuery}
		route, params, err := v.router.FindRoute(probe)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: params,
			Route:      route,
			Options: &openapi3filter.Options{
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		}
		if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
			v.logger.Debug("request rejected by openapi validation", "path", r.URL.Path, "error", err)
			writeValidationError(w, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeValidationError(w http.ResponseWriter, err error) {
	field := ""
	message := err.Error()

	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Parameter != nil {
			field = reqErr.Parameter.Name
		}
		if reqErr.Reason != "" {
			message = reqErr.Reason
		}
		var schemaErr *openapi3.SchemaError
		if errors.As(reqErr.Err, &schemaErr) {
			if ptr := schemaErr.JSONPointer(); len(ptr) > 0 {
				field = strings.Join(ptr, ".")
			}
			message = schemaErr.Reason
		}
	}

	var appErr *internal.AppError
	if field != "" {
		appErr = internal.NewValidationFieldError(field, message, internal.ErrCodeValidationFailed)
	} else {
		appErr = internal.NewValidationError(message, internal.ErrCodeValidationFailed)
	}

	status, body := appErr.ToHTTPResponse()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
