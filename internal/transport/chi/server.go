package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain"
	dombatch "github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/batch"
	domcand "github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/candidate"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/search/algorithm"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/search/keyword"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/search/request"
	"github.com/adli-arindra/Tubes3-kerjalembut/internal/domain/search/result"
	batchuc "github.com/adli-arindra/Tubes3-kerjalembut/internal/usecase/batch"
	candidateuc "github.com/adli-arindra/Tubes3-kerjalembut/internal/usecase/candidate"
	healthuc "github.com/adli-arindra/Tubes3-kerjalembut/internal/usecase/health"
	searchuc "github.com/adli-arindra/Tubes3-kerjalembut/internal/usecase/search"
)

// Candidate list paging bounds.
const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// SearchDefaults are the request-level search settings applied by the API.
type SearchDefaults struct {
	Algorithm    algorithm.Algorithm
	DefaultLimit int
	MaxLimit     int
}

// Server implements ServerInterface for the chi router.
type Server struct {
	candidates    *candidateuc.Service
	batch         *batchuc.Service
	search        *searchuc.Service
	health        *healthuc.Service
	defaults      SearchDefaults
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(
	candidates *candidateuc.Service,
	batch *batchuc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	defaults SearchDefaults,
	logger *zap.Logger,
) *Server {
	if defaults.Algorithm == "" {
		defaults.Algorithm = algorithm.KMP
	}
	if defaults.MaxLimit <= 0 {
		defaults.MaxLimit = maxListLimit
	}
	if defaults.DefaultLimit <= 0 || defaults.DefaultLimit > defaults.MaxLimit {
		defaults.DefaultLimit = defaults.MaxLimit
	}

	s := &Server{
		candidates: candidates,
		batch:      batch,
		search:     search,
		health:     health,
		defaults:   defaults,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		invalidRequestHandler,
		sentinelHandler(domain.ErrCandidateNotFound, http.StatusNotFound, ErrorResponseCodeCandidateNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, ErrorResponseCodeAlreadyExists),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, ErrorResponseCodeRateLimited),
	}
	return s
}

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	searchReq, err := s.searchRequestFromAPI(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, err.Error())
		return
	}

	out, err := s.search.Search(r.Context(), &searchReq)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]SearchResultItem, len(out.Results))
	for i := range out.Results {
		items[i] = searchResultToAPI(&out.Results[i])
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Algorithm: string(searchReq.Algorithm()),
		Results:   items,
		Stats: SearchStats{
			ElapsedMs: float64(out.Stats.Elapsed.Microseconds()) / 1000,
			Documents: out.Stats.Documents,
			Failed:    out.Stats.Failed,
		},
	})
}

// ListCandidates handles GET /candidates.
func (s *Server) ListCandidates(w http.ResponseWriter, r *http.Request, params ListCandidatesParams) {
	limit := defaultListLimit
	if params.Limit != nil {
		limit = *params.Limit
	}
	if limit <= 0 || limit > maxListLimit {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed,
			fmt.Sprintf("limit must be between 1 and %d", maxListLimit))
		return
	}
	offset := derefInt(params.Offset)
	if offset < 0 {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, "offset must not be negative")
		return
	}

	page, err := s.candidates.List(r.Context(), offset, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	withText := derefBool(params.IncludeCVText)
	items := make([]CandidateResponse, len(page.Items))
	for i := range page.Items {
		items[i] = candidateToAPI(&page.Items[i], withText)
	}

	writeJSON(w, http.StatusOK, CandidateListResponse{
		Items:  items,
		Total:  page.Total,
		Offset: page.Offset,
		Limit:  page.Limit,
	})
}

// CreateCandidate handles POST /candidates.
func (s *Server) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req CandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	c, err := s.candidates.Create(r.Context(), candidateInputFromAPI(req))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/candidates/%d", c.ID()))
	writeJSON(w, http.StatusCreated, candidateToAPI(&c, true))
}

// BatchUpsertCandidates handles POST /candidates/batch.
func (s *Server) BatchUpsertCandidates(w http.ResponseWriter, r *http.Request) {
	var req BatchUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if n := len(req.Candidates); n == 0 || n > s.batch.MaxSize() {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed,
			fmt.Sprintf("candidates count must be between 1 and %d", s.batch.MaxSize()))
		return
	}

	items := make([]batchuc.Item, len(req.Candidates))
	for i, c := range req.Candidates {
		items[i] = batchuc.Item{ID: c.ID, Input: candidateInputFromAPI(c.CandidateRequest)}
	}

	s.writeBatch(w, r, s.batch.Upsert(r.Context(), items))
}

// BatchDeleteCandidates handles POST /candidates/batch-delete.
func (s *Server) BatchDeleteCandidates(w http.ResponseWriter, r *http.Request) {
	var req BatchDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if n := len(req.IDs); n == 0 || n > s.batch.MaxSize() {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed,
			fmt.Sprintf("ids count must be between 1 and %d", s.batch.MaxSize()))
		return
	}

	s.writeBatch(w, r, s.batch.Delete(r.Context(), req.IDs))
}

func (s *Server) writeBatch(w http.ResponseWriter, r *http.Request, results []dombatch.Result) {
	succeeded, failed := 0, 0
	items := make([]BatchResultItem, len(results))
	for i, res := range results {
		items[i] = batchResultToAPI(res)
		if res.Status() == dombatch.StatusOK {
			succeeded++
			continue
		}
		failed++
		if batchErrorCode(res.Err()) == ErrorResponseCodeInternalError {
			s.logger.Error("batch item failed",
				zap.String("request_id", chiMiddleware.GetReqID(r.Context())),
				zap.Int64("candidate_id", res.ID()),
				zap.Error(res.Err()))
		}
	}

	writeJSON(w, http.StatusOK, BatchResponse{
		Items:     items,
		Succeeded: succeeded,
		Failed:    failed,
	})
}

// GetCandidate handles GET /candidates/{id}.
func (s *Server) GetCandidate(w http.ResponseWriter, r *http.Request, id CandidateID, params GetCandidateParams) {
	c, err := s.candidates.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	withText := true
	if params.IncludeCVText != nil {
		withText = *params.IncludeCVText
	}
	writeJSON(w, http.StatusOK, candidateToAPI(&c, withText))
}

// UpsertCandidate handles PUT /candidates/{id}.
func (s *Server) UpsertCandidate(w http.ResponseWriter, r *http.Request, id CandidateID) {
	var req CandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	c, created, err := s.candidates.Upsert(r.Context(), id, candidateInputFromAPI(req))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		w.Header().Set("Location", fmt.Sprintf("/candidates/%d", c.ID()))
	}
	writeJSON(w, status, candidateToAPI(&c, true))
}

// DeleteCandidate handles DELETE /candidates/{id}.
func (s *Server) DeleteCandidate(w http.ResponseWriter, r *http.Request, id CandidateID) {
	if err := s.candidates.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
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

	resp := HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	}
	if report.Candidates >= 0 {
		n := report.Candidates
		resp.Candidates = &n
	}
	writeJSON(w, httpStatus, resp)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// ErrorHandler maps parameter binding failures to the JSON error envelope.
func ErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	var pe *InvalidParamFormatError
	if errors.As(err, &pe) {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest,
			fmt.Sprintf("invalid parameter %q", pe.ParamName))
		return
	}
	writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrCandidateNotFound,
		domain.ErrAlreadyExists,
		domain.ErrInvalidRequest,
		domain.ErrRateLimited,
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
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// invalidRequestHandler reports validation failures with the validator's own
// message; those never carry storage details.
func invalidRequestHandler(w http.ResponseWriter, err error, _ string) bool {
	if !errors.Is(err, domain.ErrInvalidRequest) {
		return false
	}
	writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, err.Error())
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.logger.With(zap.String("request_id", chiMiddleware.GetReqID(r.Context())))
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}

func (s *Server) searchRequestFromAPI(req SearchRequest) (request.Request, error) {
	algo := s.defaults.Algorithm
	if req.Algorithm != nil && *req.Algorithm != "" {
		parsed, err := algorithm.Parse(*req.Algorithm)
		if err != nil {
			return request.Request{}, err
		}
		algo = parsed
	}

	limit := s.defaults.DefaultLimit
	if req.Limit != nil {
		if *req.Limit < 0 {
			return request.Request{}, errors.New("limit must not be negative")
		}
		limit = min(*req.Limit, s.defaults.MaxLimit)
	}

	r, err := request.New(keyword.New(req.Keywords), algo, derefBool(req.Fuzzy), limit)
	if err != nil {
		return request.Request{}, fmt.Errorf("build search request: %w", err)
	}
	return r, nil
}

func searchResultToAPI(r *result.Result) SearchResultItem {
	rec := r.Record()
	return SearchResultItem{
		CandidateID: r.DocumentID(),
		Kind:        string(r.Kind()),
		Score:       r.Score(),
		Matches:     rec.Entries(),
	}
}

func batchResultToAPI(r dombatch.Result) BatchResultItem {
	item := BatchResultItem{
		ID:     r.ID(),
		Status: BatchResultItemStatus(r.Status()),
	}
	if r.Err() != nil {
		msg := safeDomainMessage(r.Err())
		if errors.Is(r.Err(), domain.ErrInvalidRequest) {
			msg = r.Err().Error()
		}
		item.Error = &ErrorResponse{
			Code:    batchErrorCode(r.Err()),
			Message: msg,
		}
	}
	return item
}

func batchErrorCode(err error) ErrorResponseCode {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return ErrorResponseCodeValidationFailed
	case errors.Is(err, domain.ErrCandidateNotFound):
		return ErrorResponseCodeCandidateNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		return ErrorResponseCodeAlreadyExists
	default:
		return ErrorResponseCodeInternalError
	}
}

func candidateInputFromAPI(req CandidateRequest) candidateuc.Input {
	return candidateuc.Input{
		ApplicantID: derefInt64(req.ApplicantID),
		Profile: domcand.Profile{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			DateOfBirth: req.DateOfBirth,
			Address:     req.Address,
			PhoneNumber: req.PhoneNumber,
		},
		Role:   req.Role,
		CVPath: req.CVPath,
		CVText: req.CVText,
	}
}

func candidateToAPI(c *domcand.Candidate, withText bool) CandidateResponse {
	p := c.Profile()
	resp := CandidateResponse{
		ID:          c.ID(),
		ApplicantID: c.ApplicantID(),
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		DateOfBirth: p.DateOfBirth,
		Address:     p.Address,
		PhoneNumber: p.PhoneNumber,
		Role:        c.Role(),
		CVPath:      c.CVPath(),
	}
	if withText {
		resp.CVText = c.CVText()
	}
	return resp
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefInt64(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

func derefBool(p *bool) bool {
	if p == nil {
		return false
	}
	return *p
}
