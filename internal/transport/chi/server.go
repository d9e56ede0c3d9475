package chi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/esengine/internal/domain"
	"github.com/kailas-cloud/esengine/internal/domain/document"
	"github.com/kailas-cloud/esengine/internal/domain/search/filter"
	"github.com/kailas-cloud/esengine/internal/domain/search/result"
	engineuc "github.com/kailas-cloud/esengine/internal/usecase/engine"
	healthuc "github.com/kailas-cloud/esengine/internal/usecase/health"
)

const (
	maxBatchSize = 500
	maxBodyBytes = 16 << 20
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the engine over HTTP for hosts that cannot link the Go library.
type Server struct {
	engine        engineuc.Backend
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(engine engineuc.Backend, health *healthuc.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		engine: engine,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		serviceErrorHandler,
		sentinelHandler(domain.ErrNoResponse, http.StatusServiceUnavailable, ErrorResponseCodeServiceUnavailable),
		sentinelHandler(domain.ErrInvalidFilters, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrUnsupported, http.StatusNotImplemented, ErrorResponseCodeNotImplemented),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorResponseCodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorResponseCodeMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Post("/documents", s.IndexDocuments)
	r.Post("/search", s.Search)
	r.Post("/search/similar", s.SearchSimilar)
	r.Get("/count", s.CountAll)
	r.Post("/count", s.CountQuery)
	r.Delete("/index", s.DeleteIndex)
	r.Delete("/index/{module}", s.DeleteModule)
}

// IndexDocuments handles POST /documents. The body is one document or an array.
func (s *Server) IndexDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := decodeDocuments(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(docs) == 0 {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, "at least one document is required")
		return
	}
	if len(docs) > maxBatchSize {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed,
			fmt.Sprintf("batch size %d exceeds maximum of %d", len(docs), maxBatchSize))
		return
	}

	indexed := s.engine.AddDocuments(r.Context(), docs)
	writeJSON(w, http.StatusOK, IndexDocumentsResponse{Indexed: indexed, Failed: len(docs) - indexed})
}

// Search handles POST /search?limit=N.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	limit, ok := bindLimit(w, r)
	if !ok {
		return
	}

	var req SearchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	f, err := filter.New(req.Q, req.Title, req.TimeStart, req.TimeEnd, req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, err.Error())
		return
	}

	results, err := s.engine.ExecuteQuery(r.Context(), f, req.Contexts.Contexts, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse(results))
}

// SearchSimilar handles POST /search/similar?limit=N.
func (s *Server) SearchSimilar(w http.ResponseWriter, r *http.Request) {
	limit, ok := bindLimit(w, r)
	if !ok {
		return
	}

	var req SimilarRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx := domain.ContextWithUser(r.Context(), req.UserID)
	results, err := s.engine.GetMoreLikeThisText(ctx, req.Text, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse(results))
}

// CountAll handles GET /count.
func (s *Server) CountAll(w http.ResponseWriter, r *http.Request) {
	n, err := s.engine.GetQueryTotalCount(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CountResponse{Count: n})
}

// CountQuery handles POST /count with a search body.
func (s *Server) CountQuery(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	f, err := filter.New(req.Q, req.Title, req.TimeStart, req.TimeEnd, req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, err.Error())
		return
	}

	n, err := s.engine.CountQuery(r.Context(), f, req.Contexts.Contexts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CountResponse{Count: n})
}

// DeleteIndex handles DELETE /index.
func (s *Server) DeleteIndex(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.engine.Delete(r.Context(), "")
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteIndexResponse{Deleted: deleted})
}

// DeleteModule handles DELETE /index/{module}.
func (s *Server) DeleteModule(w http.ResponseWriter, r *http.Request) {
	var module string
	err := runtime.BindStyledParameterWithOptions("simple", "module", chi.URLParam(r, "module"), &module,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false})
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid format for parameter module")
		return
	}

	deleted, err := s.engine.Delete(r.Context(), module)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteIndexResponse{Deleted: deleted})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// bindLimit reads the optional limit query parameter. Zero means the engine default.
func bindLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid format for parameter limit")
		return 0, false
	}
	if limit == nil {
		return 0, true
	}
	if *limit < 0 {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, "limit must not be negative")
		return 0, false
	}
	return *limit, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// decodeDocuments accepts a single JSON object or an array of objects.
// Numbers are kept as json.Number so large ids survive.
func decodeDocuments(r io.Reader) ([]document.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty body")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if data[0] == '[' {
		var docs []document.Document
		if err := dec.Decode(&docs); err != nil {
			return nil, fmt.Errorf("decode documents: %w", err)
		}
		return docs, nil
	}

	var doc document.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return []document.Document{doc}, nil
}

func searchResponse(results []result.Result) SearchResponse {
	items := make([]SearchResultItem, len(results))
	for i := range results {
		items[i] = SearchResultItem{
			AreaID:   results[i].AreaID(),
			ItemID:   results[i].ItemID(),
			Score:    results[i].Score(),
			Document: results[i].Document(),
		}
	}
	return SearchResponse{Results: items}
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
		domain.ErrNoResponse,
		domain.ErrInvalidFilters,
		domain.ErrUnsupported,
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

// serviceErrorHandler passes the index service's own message through unchanged.
func serviceErrorHandler(w http.ResponseWriter, err error, _ string) bool {
	var svcErr *domain.ServiceError
	if !errors.As(err, &svcErr) {
		return false
	}
	writeError(w, http.StatusBadGateway, ErrorResponseCodeServiceError, svcErr.Message())
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}
