package chi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/esengine/internal/domain/search/usercontext"
)

// ErrorResponseCode is a machine-readable error code.
type ErrorResponseCode string

// Error codes returned in ErrorResponse.
const (
	ErrorResponseCodeBadRequest         ErrorResponseCode = "bad_request"
	ErrorResponseCodeUnauthorized       ErrorResponseCode = "unauthorized"
	ErrorResponseCodeValidationFailed   ErrorResponseCode = "validation_failed"
	ErrorResponseCodeNotFound           ErrorResponseCode = "not_found"
	ErrorResponseCodeMethodNotAllowed   ErrorResponseCode = "method_not_allowed"
	ErrorResponseCodeNotImplemented     ErrorResponseCode = "not_implemented"
	ErrorResponseCodeServiceError       ErrorResponseCode = "index_service_error"
	ErrorResponseCodeServiceUnavailable ErrorResponseCode = "index_service_unavailable"
	ErrorResponseCodeInternalError      ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// IndexDocumentsResponse is the body of POST /documents.
type IndexDocumentsResponse struct {
	Indexed int `json:"indexed"`
	Failed  int `json:"failed"`
}

// SearchRequest is the body of POST /search and POST /count.
type SearchRequest struct {
	Q         string        `json:"q"`
	Title     string        `json:"title,omitempty"`
	TimeStart *int64        `json:"timestart,omitempty"`
	TimeEnd   *int64        `json:"timeend,omitempty"`
	UserID    int64         `json:"userid"`
	Contexts  ContextsParam `json:"contexts"`
}

// SimilarRequest is the body of POST /search/similar.
type SimilarRequest struct {
	Text   string `json:"text"`
	UserID int64  `json:"userid"`
}

// SearchResultItem is one authorized hit.
type SearchResultItem struct {
	AreaID   string         `json:"areaid"`
	ItemID   int64          `json:"itemid"`
	Score    float64        `json:"score"`
	Document map[string]any `json:"document"`
}

// SearchResponse is the body of a successful search.
type SearchResponse struct {
	Results []SearchResultItem `json:"results"`
}

// CountResponse is the body of GET and POST /count.
type CountResponse struct {
	Count int `json:"count"`
}

// DeleteIndexResponse is the body of DELETE /index.
type DeleteIndexResponse struct {
	Deleted bool `json:"deleted"`
}

// ContextsParam accepts either `true` (see everything) or an object mapping
// area id to visible context ids. Absent or null means nothing is visible.
type ContextsParam struct {
	usercontext.Contexts
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *ContextsParam) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")), bytes.Equal(trimmed, []byte("false")):
		p.Contexts = usercontext.Restricted(nil)
		return nil
	case bytes.Equal(trimmed, []byte("true")):
		p.Contexts = usercontext.All()
		return nil
	}

	var byArea map[string][]int64
	if err := json.Unmarshal(trimmed, &byArea); err != nil {
		return fmt.Errorf("contexts must be true or an object of area id to context ids: %w", err)
	}
	p.Contexts = usercontext.Restricted(byArea)
	return nil
}
