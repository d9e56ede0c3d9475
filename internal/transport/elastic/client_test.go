package elastic

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/esengine/internal/metrics"
)

type recorded struct {
	method      string
	path        string
	body        string
	contentType string
}

func newTestServer(t *testing.T, status int, reply string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.body = string(data)
		rec.contentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func newTestClient(srv *httptest.Server, docType string) *Client {
	return NewClient(Config{
		ServerHostname: srv.URL,
		IndexName:      "moodle",
		DocumentType:   docType,
		Logger:         zap.NewNop(),
	})
}

func TestNormalizeServerURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"localhost:9200", "http://localhost:9200"},
		{"http://es:9200/", "http://es:9200"},
		{"https://es.example.com", "https://es.example.com"},
		{"  localhost:9200  ", "http://localhost:9200"},
	}
	for _, tc := range tests {
		if got := NormalizeServerURL(tc.in); got != tc.want {
			t.Errorf("NormalizeServerURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestClient_Ping(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK, `{"name":"node-1"}`)
	c := newTestClient(srv, "")

	resp, err := c.Ping(context.Background())
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if rec.method != http.MethodGet || rec.path != "/" {
		t.Errorf("request = %s %s, want GET /", rec.method, rec.path)
	}
	if string(resp.Body) != `{"name":"node-1"}` {
		t.Errorf("body = %s", resp.Body)
	}
}

func TestClient_IndexDocument(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusCreated, `{"result":"created"}`)
	c := newTestClient(srv, "")

	resp, err := c.IndexDocument(context.Background(), "mod_x-a-7", []byte(`{"itemid":7}`))
	if err != nil {
		t.Fatalf("IndexDocument: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want 201", resp.StatusCode)
	}
	if rec.method != http.MethodPost || rec.path != "/moodle/mod_x-a-7" {
		t.Errorf("request = %s %s, want POST /moodle/mod_x-a-7", rec.method, rec.path)
	}
	if rec.body != `{"itemid":7}` {
		t.Errorf("body = %s", rec.body)
	}
	if rec.contentType != "application/json" {
		t.Errorf("content-type = %q", rec.contentType)
	}
}

func TestClient_IndexDocumentWithType(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK, `{}`)
	c := newTestClient(srv, "_doc")

	if _, err := c.IndexDocument(context.Background(), "7", []byte(`{}`)); err != nil {
		t.Fatalf("IndexDocument: %v", err)
	}
	if rec.path != "/moodle/_doc/7" {
		t.Errorf("path = %s, want /moodle/_doc/7", rec.path)
	}
}

func TestClient_SearchAndCount(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK, `{"hits":{"hits":[]}}`)
	c := newTestClient(srv, "")

	if _, err := c.Search(context.Background(), []byte(`{"query":{}}`)); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if rec.method != http.MethodPost || rec.path != "/moodle/_search" {
		t.Errorf("search request = %s %s", rec.method, rec.path)
	}

	if _, err := c.Count(context.Background(), nil); err != nil {
		t.Fatalf("Count: %v", err)
	}
	if rec.method != http.MethodPost || rec.path != "/moodle/_count" {
		t.Errorf("count request = %s %s", rec.method, rec.path)
	}
	if rec.body != "" {
		t.Errorf("count without query must send no body, got %q", rec.body)
	}
}

func TestClient_DeleteIndex(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK, `{"acknowledged":true}`)
	c := newTestClient(srv, "")

	if _, err := c.DeleteIndex(context.Background()); err != nil {
		t.Fatalf("DeleteIndex: %v", err)
	}
	if rec.method != http.MethodDelete || rec.path != "/moodle/" {
		t.Errorf("request = %s %s, want DELETE /moodle/", rec.method, rec.path)
	}
}

func TestClient_Non2xxIsResponse(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusNotFound, `{"error":"index_not_found_exception","status":404}`)
	c := newTestClient(srv, "")

	resp, err := c.DeleteIndex(context.Background())
	if err != nil {
		t.Fatalf("non-2xx must not be a transport error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if len(resp.Body) == 0 {
		t.Error("body must be preserved for non-2xx replies")
	}
}

func TestClient_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	c := NewClient(Config{ServerHostname: addr, IndexName: "moodle", Timeout: time.Second})
	before := testutil.ToFloat64(metrics.IndexRequestsTotal.WithLabelValues(OpSearch, "error"))

	if _, err := c.Search(context.Background(), []byte(`{}`)); err == nil {
		t.Fatal("expected transport error")
	}

	after := testutil.ToFloat64(metrics.IndexRequestsTotal.WithLabelValues(OpSearch, "error"))
	if after != before+1 {
		t.Errorf("error counter = %f, want %f", after, before+1)
	}
}
