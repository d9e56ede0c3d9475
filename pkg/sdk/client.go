package esengine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/esengine/internal/domain"
	"github.com/kailas-cloud/esengine/internal/domain/document"
	"github.com/kailas-cloud/esengine/internal/domain/search/filter"
	"github.com/kailas-cloud/esengine/internal/domain/search/result"
	"github.com/kailas-cloud/esengine/internal/domain/search/usercontext"
	"github.com/kailas-cloud/esengine/internal/transport/elastic"
	engineuc "github.com/kailas-cloud/esengine/internal/usecase/engine"
	healthuc "github.com/kailas-cloud/esengine/internal/usecase/health"
)

const (
	defaultServer = "localhost:9200"
	defaultIndex  = "moodle"
	readyPoll     = 250 * time.Millisecond
)

// Internal interface for substitution in tests.
type engineUseCase interface {
	IsServerReady(ctx context.Context) bool
	AddDocument(ctx context.Context, doc document.Document) bool
	AddDocuments(ctx context.Context, docs []document.Document) int
	ExecuteQuery(
		ctx context.Context, f filter.Filters, ctxs usercontext.Contexts, limit int,
	) ([]result.Result, error)
	GetMoreLikeThisText(ctx context.Context, text string, limit int) ([]result.Result, error)
	GetQueryTotalCount(ctx context.Context) (int, error)
	CountQuery(ctx context.Context, f filter.Filters, ctxs usercontext.Contexts) (int, error)
	Delete(ctx context.Context, module string) (bool, error)
}

var _ engineUseCase = (*engineuc.Engine)(nil)

// Client is the esengine SDK entry point.
type Client struct {
	engine    engineUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client. No request is made unless WithWaitForReady is set,
// in which case ctx bounds the wait as well.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		server: defaultServer,
		index:  defaultIndex,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.areas) == 0 {
		return nil, errors.New("esengine: at least one search area required (use WithArea)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	transport := elastic.NewClient(elastic.Config{
		ServerHostname: cfg.server,
		IndexName:      cfg.index,
		DocumentType:   cfg.documentType,
		Timeout:        cfg.timeout,
		HTTPClient:     cfg.httpClient,
		Logger:         zap.NewNop(),
	})
	eng := engineuc.New(transport, cfg.areas, zap.NewNop()).WithMaxResults(cfg.maxResults)

	c := &Client{
		engine:    eng,
		healthSvc: healthuc.New(eng, nil),
		obs:       obs,
	}

	if cfg.readyTimeout > 0 {
		if err := c.waitForReady(ctx, cfg.readyTimeout); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Client) waitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(readyPoll)
	defer ticker.Stop()

	for {
		if c.engine.IsServerReady(ctx) {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("esengine: index service not ready: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// Ready reports whether the index service answers with a non-empty reply.
func (c *Client) Ready(ctx context.Context) bool {
	return c.engine.IsServerReady(ctx)
}

// Index upserts one document. Failures are reported as false, never as an error.
func (c *Client) Index(ctx context.Context, doc Document) bool {
	start := time.Now()
	ok := c.engine.AddDocument(ctx, document.Document(doc))
	var err error
	if !ok {
		err = errIndexRejected
	}
	c.obs.observe("index", start, err)
	return ok
}

// IndexBatch upserts docs one by one, continuing past failures.
// Returns how many were accepted.
func (c *Client) IndexBatch(ctx context.Context, docs []Document) int {
	start := time.Now()
	n := c.engine.AddDocuments(ctx, toDocuments(docs))
	var err error
	if n < len(docs) {
		err = fmt.Errorf("%w: %d of %d", errIndexRejected, len(docs)-n, len(docs))
	}
	c.obs.observe("index_batch", start, err)
	return n
}

// Search starts a filtered search.
func (c *Client) Search() *SearchBuilder {
	return &SearchBuilder{client: c}
}

// Similar returns authorized documents similar to text. userID is passed to
// each Area's access check.
func (c *Client) Similar(ctx context.Context, text string, userID int64, limit int) (hits []SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observeResults("similar", start, len(hits), err) }()

	rs, err := c.engine.GetMoreLikeThisText(domain.ContextWithUser(ctx, userID), text, limit)
	if err != nil {
		return nil, fmt.Errorf("similar: %w", err)
	}
	return fromResults(rs), nil
}

// Count returns the number of documents in the index.
func (c *Client) Count(ctx context.Context) (n int, err error) {
	start := time.Now()
	defer func() { c.obs.observe("count", start, err) }()

	n, err = c.engine.GetQueryTotalCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// DeleteIndex removes the whole index. A missing index counts as deleted.
func (c *Client) DeleteIndex(ctx context.Context) (deleted bool, err error) {
	start := time.Now()
	defer func() { c.obs.observe("delete_index", start, err) }()

	deleted, err = c.engine.Delete(ctx, "")
	if err != nil {
		return false, fmt.Errorf("delete index: %w", err)
	}
	return deleted, nil
}

var errIndexRejected = errors.New("esengine: document not indexed")
