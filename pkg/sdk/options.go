package esengine

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	server       string
	index        string
	documentType string
	areas        areaRegistry

	maxResults   int
	timeout      time.Duration
	httpClient   *http.Client
	readyTimeout time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithServer sets the index service address, as host:port or a full URL.
// Defaults to localhost:9200.
func WithServer(hostname string) Option {
	return optionFunc(func(c *clientConfig) {
		c.server = hostname
	})
}

// WithIndex sets the index name. Defaults to "moodle".
func WithIndex(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.index = name
	})
}

// WithDocumentType inserts a type segment between index and id on writes,
// e.g. "_doc" for newer servers.
func WithDocumentType(t string) Option {
	return optionFunc(func(c *clientConfig) {
		c.documentType = t
	})
}

// WithArea registers a search area. Hits from unregistered areas are dropped.
func WithArea(areaID string, a Area) Option {
	return optionFunc(func(c *clientConfig) {
		if c.areas == nil {
			c.areas = make(areaRegistry)
		}
		c.areas[areaID] = a
	})
}

// WithMaxResults caps search results when no limit is given. Default: 100.
func WithMaxResults(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxResults = n
	})
}

// WithTimeout sets the per-request timeout. Ignored with WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithHTTPClient replaces the HTTP client used for the index service.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithWaitForReady makes New poll the index service until it answers or d elapses.
func WithWaitForReady(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readyTimeout = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
