package elastic

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/esengine/internal/domain"
	"github.com/kailas-cloud/esengine/internal/metrics"
)

// Operation names used for logs and metric labels.
const (
	OpPing        = "ping"
	OpIndex       = "index"
	OpSearch      = "search"
	OpCount       = "count"
	OpDeleteIndex = "delete_index"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 32 << 20

// Config holds the index service connection settings.
type Config struct {
	ServerHostname string // host:port or full URL
	IndexName      string
	DocumentType   string // optional path segment between index and id
	Timeout        time.Duration
	HTTPClient     *http.Client
	Logger         *zap.Logger
}

// Client issues HTTP requests to an Elasticsearch-compatible index service.
type Client struct {
	baseURL string
	index   string
	docType string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates an index service client.
func NewClient(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: NormalizeServerURL(cfg.ServerHostname),
		index:   url.PathEscape(cfg.IndexName),
		docType: url.PathEscape(cfg.DocumentType),
		http:    hc,
		logger:  logger,
	}
}

// NormalizeServerURL prepends http:// when the hostname has no scheme and
// trims trailing slashes.
func NormalizeServerURL(hostname string) string {
	hostname = strings.TrimSpace(hostname)
	if !strings.Contains(hostname, "://") {
		hostname = "http://" + hostname
	}
	return strings.TrimRight(hostname, "/")
}

// Ping issues a GET against the server root.
func (c *Client) Ping(ctx context.Context) (domain.ServiceResponse, error) {
	return c.do(ctx, OpPing, http.MethodGet, c.baseURL, nil)
}

// IndexDocument upserts one document under id.
func (c *Client) IndexDocument(ctx context.Context, id string, body []byte) (domain.ServiceResponse, error) {
	return c.do(ctx, OpIndex, http.MethodPost, c.documentURL(id), body)
}

// Search posts a query to the _search endpoint.
func (c *Client) Search(ctx context.Context, body []byte) (domain.ServiceResponse, error) {
	return c.do(ctx, OpSearch, http.MethodPost, c.baseURL+"/"+c.index+"/_search", body)
}

// Count posts a query to the _count endpoint. A nil body counts everything.
func (c *Client) Count(ctx context.Context, body []byte) (domain.ServiceResponse, error) {
	return c.do(ctx, OpCount, http.MethodPost, c.baseURL+"/"+c.index+"/_count", body)
}

// DeleteIndex deletes the whole index.
func (c *Client) DeleteIndex(ctx context.Context) (domain.ServiceResponse, error) {
	return c.do(ctx, OpDeleteIndex, http.MethodDelete, c.baseURL+"/"+c.index+"/", nil)
}

func (c *Client) documentURL(id string) string {
	u := c.baseURL + "/" + c.index
	if c.docType != "" {
		u += "/" + c.docType
	}
	return u + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, op, method, target string, body []byte) (domain.ServiceResponse, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return domain.ServiceResponse{}, fmt.Errorf("%s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.IndexRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.IndexRequestsTotal.WithLabelValues(op, "error").Inc()
		return domain.ServiceResponse{}, fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		metrics.IndexRequestsTotal.WithLabelValues(op, "error").Inc()
		return domain.ServiceResponse{}, fmt.Errorf("%s %s: read body: %w", method, target, err)
	}

	metrics.IndexRequestsTotal.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()
	c.logger.Debug("index service request",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	return domain.ServiceResponse{StatusCode: resp.StatusCode, Body: data}, nil
}
