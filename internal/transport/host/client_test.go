package host

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/esengine/internal/domain"
	"github.com/kailas-cloud/esengine/internal/domain/access"
)

func newHost(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		AccessURL: srv.URL + "/access",
		HealthURL: srv.URL + "/health",
		Token:     "secret",
		Areas:     []string{"mod_forum-post", ""},
		Logger:    zap.NewNop(),
	})
}

func TestClient_AreaLookup(t *testing.T) {
	c := NewClient(Config{Areas: []string{"mod_forum-post"}})
	if _, ok := c.Area("mod_forum-post"); !ok {
		t.Error("configured area must resolve")
	}
	if _, ok := c.Area("mod_unknown-a"); ok {
		t.Error("unconfigured area must not resolve")
	}
	if _, ok := c.Area(""); ok {
		t.Error("empty area id must not resolve")
	}
}

func TestArea_CheckAccess(t *testing.T) {
	var got accessRequest
	var auth string
	c := newHost(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access":"granted"}`))
	})

	a, _ := c.Area("mod_forum-post")
	ctx := domain.ContextWithUser(context.Background(), 12)
	if o := a.CheckAccess(ctx, 7); o != access.Granted {
		t.Errorf("outcome = %q, want granted", o)
	}
	if got.AreaID != "mod_forum-post" || got.ItemID != 7 {
		t.Errorf("request = %+v", got)
	}
	if got.UserID == nil || *got.UserID != 12 {
		t.Errorf("userid = %v, want 12", got.UserID)
	}
	if auth != "Bearer secret" {
		t.Errorf("authorization = %q", auth)
	}
}

func TestArea_CheckAccess_Outcomes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   access.Outcome
	}{
		{"deleted", http.StatusOK, `{"access":"deleted"}`, access.Deleted},
		{"denied", http.StatusOK, `{"access":"denied"}`, access.Denied},
		{"unknown value", http.StatusOK, `{"access":"maybe"}`, access.Denied},
		{"garbage", http.StatusOK, `nope`, access.Denied},
		{"host error", http.StatusInternalServerError, `{"access":"granted"}`, access.Denied},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newHost(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			a, _ := c.Area("mod_forum-post")
			if o := a.CheckAccess(context.Background(), 1); o != tc.want {
				t.Errorf("outcome = %q, want %q", o, tc.want)
			}
		})
	}
}

func TestArea_CheckAccess_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(Config{AccessURL: url, Areas: []string{"a"}})
	a, _ := c.Area("a")
	if o := a.CheckAccess(context.Background(), 1); o != access.Denied {
		t.Errorf("outcome = %q, want denied", o)
	}
}

func TestClient_HealthCheck(t *testing.T) {
	c := newHost(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	if err := c.HealthCheck(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	down := newHost(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	if err := down.HealthCheck(context.Background()); err == nil {
		t.Error("expected error for 502")
	}
}
