// Package host talks to the host platform's access-check endpoint.
package host

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/esengine/internal/domain"
	"github.com/kailas-cloud/esengine/internal/domain/access"
	"github.com/kailas-cloud/esengine/internal/usecase/engine"
)

// Config holds the host callback settings.
type Config struct {
	AccessURL  string
	HealthURL  string
	Token      string
	Areas      []string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client resolves the configured search areas and asks the host for a
// decision on every hit. Any failure is treated as denied.
type Client struct {
	accessURL string
	healthURL string
	token     string
	areas     map[string]struct{}
	http      *http.Client
	logger    *zap.Logger
}

var _ engine.AreaRegistry = (*Client)(nil)

// NewClient creates a host client.
func NewClient(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	areas := make(map[string]struct{}, len(cfg.Areas))
	for _, a := range cfg.Areas {
		if a != "" {
			areas[a] = struct{}{}
		}
	}
	return &Client{
		accessURL: cfg.AccessURL,
		healthURL: cfg.HealthURL,
		token:     cfg.Token,
		areas:     areas,
		http:      hc,
		logger:    logger,
	}
}

// Area implements engine.AreaRegistry.
func (c *Client) Area(areaID string) (engine.Area, bool) {
	if _, ok := c.areas[areaID]; !ok {
		return nil, false
	}
	return &area{client: c, id: areaID}, true
}

// HealthCheck verifies the host health endpoint answers 2xx.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.healthURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("host health: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("host health: status %d", resp.StatusCode)
	}
	return nil
}

type accessRequest struct {
	AreaID string `json:"areaid"`
	ItemID int64  `json:"itemid"`
	UserID *int64 `json:"userid,omitempty"`
}

type accessResponse struct {
	Access string `json:"access"`
}

func (c *Client) check(ctx context.Context, areaID string, itemID int64) (access.Outcome, error) {
	payload := accessRequest{AreaID: areaID, ItemID: itemID}
	if uid, ok := domain.UserFromContext(ctx); ok {
		payload.UserID = &uid
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return access.Denied, fmt.Errorf("encode access request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.accessURL, bytes.NewReader(body))
	if err != nil {
		return access.Denied, fmt.Errorf("build access request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return access.Denied, fmt.Errorf("access request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return access.Denied, fmt.Errorf("access request: status %d", resp.StatusCode)
	}

	var decoded accessResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return access.Denied, fmt.Errorf("decode access response: %w", err)
	}
	return access.Parse(decoded.Access), nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

type area struct {
	client *Client
	id     string
}

// CheckAccess implements engine.Area.
func (a *area) CheckAccess(ctx context.Context, itemID int64) access.Outcome {
	outcome, err := a.client.check(ctx, a.id, itemID)
	if err != nil {
		a.client.logger.Warn("access check failed, denying",
			zap.String("areaid", a.id),
			zap.Int64("itemid", itemID),
			zap.Error(err),
		)
		return access.Denied
	}
	return outcome
}
