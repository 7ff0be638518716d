package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ErrorResponseCode is a machine-readable error code.
type ErrorResponseCode string

// Error codes.
const (
	ErrorResponseCodeBadRequest         ErrorResponseCode = "bad_request"
	ErrorResponseCodeValidationFailed   ErrorResponseCode = "validation_failed"
	ErrorResponseCodeUnauthorized       ErrorResponseCode = "unauthorized"
	ErrorResponseCodeCandidateNotFound  ErrorResponseCode = "candidate_not_found"
	ErrorResponseCodeAlreadyExists      ErrorResponseCode = "already_exists"
	ErrorResponseCodeRateLimited        ErrorResponseCode = "rate_limited"
	ErrorResponseCodeServiceUnavailable ErrorResponseCode = "service_unavailable"
	ErrorResponseCodeInternalError      ErrorResponseCode = "internal_error"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// CandidateID is the {id} path parameter.
type CandidateID = int64

// KeywordList accepts either a JSON array of strings or one comma-separated string.
type KeywordList []string

// UnmarshalJSON implements json.Unmarshaler.
func (k *KeywordList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*k = list
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.New("keywords must be a string or an array of strings")
	}
	*k = strings.Split(s, ",")
	return nil
}

// SearchRequest is the POST /search body.
type SearchRequest struct {
	Keywords  KeywordList `json:"keywords"`
	Algorithm *string     `json:"algorithm,omitempty"`
	Fuzzy     *bool       `json:"fuzzy,omitempty"`
	Limit     *int        `json:"limit,omitempty"`
}

// SearchResultItem is one ranked candidate.
type SearchResultItem struct {
	CandidateID int64          `json:"candidate_id"`
	Kind        string         `json:"kind"`
	Score       int            `json:"score"`
	Matches     map[string]int `json:"matches"`
}

// SearchStats reports the scan that produced a response.
type SearchStats struct {
	ElapsedMs float64 `json:"elapsed_ms"`
	Documents int     `json:"documents"`
	Failed    int     `json:"failed"`
}

// SearchResponse is the POST /search response.
type SearchResponse struct {
	Algorithm string             `json:"algorithm"`
	Results   []SearchResultItem `json:"results"`
	Stats     SearchStats        `json:"stats"`
}

// CandidateRequest is the POST /candidates and PUT /candidates/{id} body.
type CandidateRequest struct {
	ApplicantID *int64 `json:"applicant_id,omitempty"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Address     string `json:"address,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Role        string `json:"role"`
	CVPath      string `json:"cv_path,omitempty"`
	CVText      string `json:"cv_text"`
}

// CandidateResponse is the candidate representation.
type CandidateResponse struct {
	ID          int64  `json:"id"`
	ApplicantID int64  `json:"applicant_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Address     string `json:"address,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Role        string `json:"role"`
	CVPath      string `json:"cv_path,omitempty"`
	CVText      string `json:"cv_text,omitempty"`
}

// CandidateListResponse is a page of candidates.
type CandidateListResponse struct {
	Items  []CandidateResponse `json:"items"`
	Total  int                 `json:"total"`
	Offset int                 `json:"offset"`
	Limit  int                 `json:"limit"`
}

// ListCandidatesParams are the GET /candidates query parameters.
type ListCandidatesParams struct {
	Limit         *int  `form:"limit,omitempty" json:"limit,omitempty"`
	Offset        *int  `form:"offset,omitempty" json:"offset,omitempty"`
	IncludeCVText *bool `form:"include_text,omitempty" json:"include_text,omitempty"`
}

// GetCandidateParams are the GET /candidates/{id} query parameters.
type GetCandidateParams struct {
	IncludeCVText *bool `form:"include_text,omitempty" json:"include_text,omitempty"`
}

// BatchCandidate is one item of POST /candidates/batch.
type BatchCandidate struct {
	ID int64 `json:"id"`
	CandidateRequest
}

// BatchUpsertRequest is the POST /candidates/batch body.
type BatchUpsertRequest struct {
	Candidates []BatchCandidate `json:"candidates"`
}

// BatchDeleteRequest is the POST /candidates/batch-delete body.
type BatchDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

// BatchResultItemStatus is the per-item outcome of a batch call.
type BatchResultItemStatus string

// Batch item statuses.
const (
	BatchResultItemStatusOk    BatchResultItemStatus = "ok"
	BatchResultItemStatusError BatchResultItemStatus = "error"
)

// BatchResultItem reports one item of a batch call.
type BatchResultItem struct {
	ID     int64                 `json:"id"`
	Status BatchResultItemStatus `json:"status"`
	Error  *ErrorResponse        `json:"error,omitempty"`
}

// BatchResponse is the response of both batch operations.
type BatchResponse struct {
	Items     []BatchResultItem `json:"items"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

// HealthResponse is the GET /health response.
type HealthResponse struct {
	Status     string            `json:"status"`
	Checks     map[string]string `json:"checks"`
	Candidates *int              `json:"candidates,omitempty"`
}

// ServerInterface lists the API operations.
type ServerInterface interface {
	// (POST /search)
	Search(w http.ResponseWriter, r *http.Request)
	// (GET /candidates)
	ListCandidates(w http.ResponseWriter, r *http.Request, params ListCandidatesParams)
	// (POST /candidates)
	CreateCandidate(w http.ResponseWriter, r *http.Request)
	// (POST /candidates/batch)
	BatchUpsertCandidates(w http.ResponseWriter, r *http.Request)
	// (POST /candidates/batch-delete)
	BatchDeleteCandidates(w http.ResponseWriter, r *http.Request)
	// (GET /candidates/{id})
	GetCandidate(w http.ResponseWriter, r *http.Request, id CandidateID, params GetCandidateParams)
	// (PUT /candidates/{id})
	UpsertCandidate(w http.ResponseWriter, r *http.Request, id CandidateID)
	// (DELETE /candidates/{id})
	DeleteCandidate(w http.ResponseWriter, r *http.Request, id CandidateID)
	// (GET /health)
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// (GET /metrics)
	Metrics(w http.ResponseWriter, r *http.Request)
}

// InvalidParamFormatError reports a path or query parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// MiddlewareFunc wraps a single operation handler.
type MiddlewareFunc func(http.Handler) http.Handler

// ServerInterfaceWrapper binds parameters and dispatches to a ServerInterface.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *ServerInterfaceWrapper) serve(w http.ResponseWriter, r *http.Request, h http.HandlerFunc) {
	var handler http.Handler = h
	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}
	handler.ServeHTTP(w, r)
}

func (siw *ServerInterfaceWrapper) bindID(w http.ResponseWriter, r *http.Request) (CandidateID, bool) {
	var id CandidateID
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "id", Err: err})
		return 0, false
	}
	return id, true
}

func (siw *ServerInterfaceWrapper) bindIncludeText(w http.ResponseWriter, r *http.Request, dest **bool) bool {
	err := runtime.BindQueryParameter("form", true, false, "include_text", r.URL.Query(), dest)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "include_text", Err: err})
		return false
	}
	return true
}

// Search operation middleware.
func (siw *ServerInterfaceWrapper) Search(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.Search)
}

// ListCandidates operation middleware.
func (siw *ServerInterfaceWrapper) ListCandidates(w http.ResponseWriter, r *http.Request) {
	var params ListCandidatesParams

	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &params.Limit); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "limit", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "offset", r.URL.Query(), &params.Offset); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "offset", Err: err})
		return
	}
	if !siw.bindIncludeText(w, r, &params.IncludeCVText) {
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ListCandidates(w, r, params)
	})
}

// CreateCandidate operation middleware.
func (siw *ServerInterfaceWrapper) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.CreateCandidate)
}

// BatchUpsertCandidates operation middleware.
func (siw *ServerInterfaceWrapper) BatchUpsertCandidates(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.BatchUpsertCandidates)
}

// BatchDeleteCandidates operation middleware.
func (siw *ServerInterfaceWrapper) BatchDeleteCandidates(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.BatchDeleteCandidates)
}

// GetCandidate operation middleware.
func (siw *ServerInterfaceWrapper) GetCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.bindID(w, r)
	if !ok {
		return
	}
	var params GetCandidateParams
	if !siw.bindIncludeText(w, r, &params.IncludeCVText) {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetCandidate(w, r, id, params)
	})
}

// UpsertCandidate operation middleware.
func (siw *ServerInterfaceWrapper) UpsertCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.bindID(w, r)
	if !ok {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.UpsertCandidate(w, r, id)
	})
}

// DeleteCandidate operation middleware.
func (siw *ServerInterfaceWrapper) DeleteCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.bindID(w, r)
	if !ok {
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.DeleteCandidate(w, r, id)
	})
}

// HealthCheck operation middleware.
func (siw *ServerInterfaceWrapper) HealthCheck(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.HealthCheck)
}

// Metrics operation middleware.
func (siw *ServerInterfaceWrapper) Metrics(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.Metrics)
}

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerWithOptions mounts every operation of si on a chi router.
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
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/search", wrapper.Search)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/candidates", wrapper.ListCandidates)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/candidates", wrapper.CreateCandidate)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/candidates/batch", wrapper.BatchUpsertCandidates)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/candidates/batch-delete", wrapper.BatchDeleteCandidates)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/candidates/{id}", wrapper.GetCandidate)
	})
	r.Group(func(r chi.Router) {
		r.Put(options.BaseURL+"/candidates/{id}", wrapper.UpsertCandidate)
	})
	r.Group(func(r chi.Router) {
		r.Delete(options.BaseURL+"/candidates/{id}", wrapper.DeleteCandidate)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/health", wrapper.HealthCheck)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/metrics", wrapper.Metrics)
	})

	return r
}
