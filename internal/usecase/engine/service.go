package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/esengine/internal/domain"
	"github.com/kailas-cloud/esengine/internal/domain/document"
	"github.com/kailas-cloud/esengine/internal/domain/search/filter"
	"github.com/kailas-cloud/esengine/internal/domain/search/query"
	"github.com/kailas-cloud/esengine/internal/domain/search/result"
	"github.com/kailas-cloud/esengine/internal/domain/search/usercontext"
	logpkg "github.com/kailas-cloud/esengine/internal/logger"
	"github.com/kailas-cloud/esengine/internal/metrics"
)

// DefaultMaxResults caps a result list when the caller passes no limit.
const DefaultMaxResults = 100

// Engine delegates indexing and search to the index service and re-checks
// access for every hit. It holds no per-request state.
type Engine struct {
	transport  Transport
	areas      AreaRegistry
	maxResults int
	logger     *zap.Logger
}

var _ Backend = (*Engine)(nil)

// New creates an Engine. logger can be nil.
func New(transport Transport, areas AreaRegistry, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		transport:  transport,
		areas:      areas,
		maxResults: DefaultMaxResults,
		logger:     logger,
	}
}

// WithMaxResults sets the cap applied when ExecuteQuery gets no limit.
func (e *Engine) WithMaxResults(n int) *Engine {
	if n > 0 {
		e.maxResults = n
	}
	return e
}

// IsInstalled reports whether the backend can be used. Only an HTTP client is required.
func (e *Engine) IsInstalled() bool { return true }

// IsServerReady GETs the server root and reports whether it answered with
// non-empty JSON. Failures are absorbed.
func (e *Engine) IsServerReady(ctx context.Context) bool {
	resp, err := e.transport.Ping(ctx)
	if err != nil {
		e.log(ctx).Debug("index service not reachable", zap.Error(err))
		return false
	}
	if !resp.OK() {
		return false
	}
	var v any
	if err := json.Unmarshal(resp.Body, &v); err != nil {
		return false
	}
	return nonEmpty(v)
}

// AddDocument upserts one document. Failures are logged and reported as false;
// callers are not expected to retry.
func (e *Engine) AddDocument(ctx context.Context, doc document.Document) bool {
	log := e.log(ctx)

	if err := doc.Validate(); err != nil {
		metrics.DocumentsIndexedTotal.WithLabelValues("invalid").Inc()
		log.Warn("skipping invalid document", zap.Error(err))
		return false
	}

	body, err := json.Marshal(doc)
	if err != nil {
		metrics.DocumentsIndexedTotal.WithLabelValues("invalid").Inc()
		log.Warn("encode document", zap.String("id", doc.ID()), zap.Error(err))
		return false
	}

	resp, err := e.transport.IndexDocument(ctx, doc.ID(), body)
	if err != nil {
		metrics.DocumentsIndexedTotal.WithLabelValues("failed").Inc()
		log.Warn("index document", zap.String("id", doc.ID()), zap.Error(err))
		return false
	}
	if !resp.OK() {
		metrics.DocumentsIndexedTotal.WithLabelValues("failed").Inc()
		log.Warn("index document rejected",
			zap.String("id", doc.ID()),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncate(resp.Body, 512)),
		)
		return false
	}

	metrics.DocumentsIndexedTotal.WithLabelValues("ok").Inc()
	return true
}

// AddDocuments indexes docs one by one, continuing past failures.
// Returns how many were accepted.
func (e *Engine) AddDocuments(ctx context.Context, docs []document.Document) int {
	indexed := 0
	for _, d := range docs {
		if ctx.Err() != nil {
			break
		}
		if e.AddDocument(ctx, d) {
			indexed++
		}
	}
	return indexed
}

// Commit is a no-op: the index service has no staged commit.
func (e *Engine) Commit(_ context.Context) {}

// Optimize is a no-op: the index service manages its own segments.
func (e *Engine) Optimize(_ context.Context) {}

// PostFile is a no-op: raw file bytes are not indexed separately.
func (e *Engine) PostFile(_ context.Context) {}

// ExecuteQuery runs a filtered search and returns the authorized hits in
// relevance order, at most limit of them (maxResults when limit <= 0).
//
// Errors: domain.ErrNoResponse when the service is unreachable or replied with
// garbage, *domain.ServiceError when it reported an error.
func (e *Engine) ExecuteQuery(
	ctx context.Context, f filter.Filters, ctxs usercontext.Contexts, limit int,
) ([]result.Result, error) {
	q, err := query.Build(f, ctxs)
	if errors.Is(err, query.ErrNoVisibleContexts) {
		return []result.Result{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	limit = e.effectiveLimit(limit)
	ctx = domain.ContextWithUser(ctx, f.UserID())
	return e.search(ctx, query.Request{Query: q, Size: limit}, limit)
}

// GetMoreLikeThisText returns authorized documents similar to text.
func (e *Engine) GetMoreLikeThisText(ctx context.Context, text string, limit int) ([]result.Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", domain.ErrInvalidFilters)
	}
	limit = e.effectiveLimit(limit)
	return e.search(ctx, query.Request{Query: query.BuildMoreLikeThis(text), Size: limit}, limit)
}

// GetQueryTotalCount returns the number of documents in the index.
func (e *Engine) GetQueryTotalCount(ctx context.Context) (int, error) {
	return e.count(ctx, nil)
}

// CountQuery returns how many documents match the filters, before access checks.
func (e *Engine) CountQuery(ctx context.Context, f filter.Filters, ctxs usercontext.Contexts) (int, error) {
	q, err := query.Build(f, ctxs)
	if errors.Is(err, query.ErrNoVisibleContexts) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	body, err := json.Marshal(query.Request{Query: q})
	if err != nil {
		return 0, fmt.Errorf("encode count query: %w", err)
	}
	return e.count(ctx, body)
}

// Delete removes the whole index when module is empty. It reports true when
// the service acknowledged the deletion or the index did not exist.
// Deleting a single module is not supported.
func (e *Engine) Delete(ctx context.Context, module string) (bool, error) {
	if module != "" {
		return false, fmt.Errorf("delete module %q: %w", module, domain.ErrUnsupported)
	}

	resp, err := e.transport.DeleteIndex(ctx)
	if err != nil {
		e.log(ctx).Warn("delete index", zap.Error(err))
		return false, nil
	}

	var body struct {
		Acknowledged *bool `json:"acknowledged"`
		Status       *int  `json:"status"`
	}
	if len(resp.Body) == 0 || json.Unmarshal(resp.Body, &body) != nil {
		return false, nil
	}
	if body.Acknowledged != nil && *body.Acknowledged {
		return true, nil
	}
	// Already gone counts as deleted.
	if body.Status != nil && *body.Status == 404 {
		return true, nil
	}
	return false, nil
}

func (e *Engine) search(ctx context.Context, req query.Request, limit int) ([]result.Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode search query: %w", err)
	}

	resp, err := e.transport.Search(ctx, body)
	if err != nil {
		e.log(ctx).Warn("search request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrNoResponse, err)
	}

	return e.reconcile(ctx, resp.Body, limit)
}

func (e *Engine) count(ctx context.Context, body []byte) (int, error) {
	resp, err := e.transport.Count(ctx, body)
	if err != nil {
		e.log(ctx).Warn("count request failed", zap.Error(err))
		return 0, fmt.Errorf("%w: %w", domain.ErrNoResponse, err)
	}

	var parsed struct {
		Count *int `json:"count"`
		serviceFailure
	}
	if len(resp.Body) == 0 || json.Unmarshal(resp.Body, &parsed) != nil {
		return 0, domain.ErrNoResponse
	}
	if parsed.Count != nil {
		return *parsed.Count, nil
	}
	return 0, parsed.err()
}

func (e *Engine) effectiveLimit(limit int) int {
	if limit <= 0 || limit > e.maxResults {
		return e.maxResults
	}
	return limit
}

func (e *Engine) log(ctx context.Context) *zap.Logger {
	if l, ok := logpkg.Lookup(ctx); ok {
		return l
	}
	return e.logger
}

// nonEmpty mirrors a truthiness check on decoded JSON: null, false, 0, "",
// empty arrays and empty objects are all empty.
func nonEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != "" && t != "0"
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
