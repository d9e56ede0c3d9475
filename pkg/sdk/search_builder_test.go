package esengine

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/esengine/internal/domain"
	"github.com/kailas-cloud/esengine/internal/domain/search/filter"
	"github.com/kailas-cloud/esengine/internal/domain/search/result"
	"github.com/kailas-cloud/esengine/internal/domain/search/usercontext"
)

func TestSearchBuilder_Do(t *testing.T) {
	var (
		gotF     filter.Filters
		gotCtxs  usercontext.Contexts
		gotLimit int
	)
	c := &Client{engine: &mockEngine{
		queryFn: func(_ context.Context, f filter.Filters, ctxs usercontext.Contexts, limit int) ([]result.Result, error) {
			gotF, gotCtxs, gotLimit = f, ctxs, limit
			return nil, nil
		},
	}}

	since := time.Unix(1000, 0)
	until := time.Unix(2000, 0)
	_, err := c.Search().
		Query("algebra").
		Title("Intro").
		Since(since).
		Until(until).
		ForUser(42).
		InContexts("a", 3, 1).
		InContexts("b", 2).
		Limit(7).
		Do(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotF.Query() != "algebra" || gotF.Title() != "Intro" || gotF.UserID() != 42 {
		t.Errorf("filters = %q/%q/%d", gotF.Query(), gotF.Title(), gotF.UserID())
	}
	if *gotF.TimeStart() != 1000 || *gotF.TimeEnd() != 2000 {
		t.Errorf("time range = %d..%d", *gotF.TimeStart(), *gotF.TimeEnd())
	}
	if ids := gotCtxs.IDs(); len(ids) != 3 || ids[0] != 1 || ids[2] != 3 {
		t.Errorf("context ids = %v, want [1 2 3]", ids)
	}
	if gotLimit != 7 {
		t.Errorf("limit = %d, want 7", gotLimit)
	}
}

func TestSearchBuilder_SeeAll(t *testing.T) {
	var gotCtxs usercontext.Contexts
	c := &Client{engine: &mockEngine{
		queryFn: func(_ context.Context, _ filter.Filters, ctxs usercontext.Contexts, _ int) ([]result.Result, error) {
			gotCtxs = ctxs
			return nil, nil
		},
	}}
	if _, err := c.Search().Query("x").SeeAll().Do(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !gotCtxs.SeeAll() {
		t.Error("expected see-all contexts")
	}
}

func TestSearchBuilder_NoContextsMeansEmpty(t *testing.T) {
	var gotCtxs usercontext.Contexts
	c := &Client{engine: &mockEngine{
		queryFn: func(_ context.Context, _ filter.Filters, ctxs usercontext.Contexts, _ int) ([]result.Result, error) {
			gotCtxs = ctxs
			return []result.Result{}, nil
		},
	}}
	if _, err := c.Search().Query("x").Do(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !gotCtxs.IsEmpty() || gotCtxs.SeeAll() {
		t.Error("builder without contexts must restrict to nothing")
	}
}

func TestSearchBuilder_InvalidFilters(t *testing.T) {
	called := false
	c := &Client{engine: &mockEngine{
		queryFn: func(context.Context, filter.Filters, usercontext.Contexts, int) ([]result.Result, error) {
			called = true
			return nil, nil
		},
	}}

	_, err := c.Search().Query("   ").SeeAll().Do(context.Background())
	if !errors.Is(err, ErrInvalidFilters) {
		t.Errorf("err = %v, want ErrInvalidFilters", err)
	}

	_, err = c.Search().Query("x").Since(time.Unix(50, 0)).Until(time.Unix(10, 0)).SeeAll().Do(context.Background())
	if !errors.Is(err, ErrInvalidFilters) {
		t.Errorf("inverted range: err = %v, want ErrInvalidFilters", err)
	}
	if called {
		t.Error("engine must not be called with invalid filters")
	}
}

func TestSearchBuilder_ServiceError(t *testing.T) {
	c := &Client{engine: &mockEngine{
		queryFn: func(context.Context, filter.Filters, usercontext.Contexts, int) ([]result.Result, error) {
			return nil, domain.NewServiceError(json.RawMessage(`"parse_exception"`))
		},
	}}
	_, err := c.Search().Query("x").SeeAll().Do(context.Background())

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("err = %v, want *ServiceError", err)
	}
	if svcErr.Message() != "parse_exception" {
		t.Errorf("message = %q", svcErr.Message())
	}
	if !errors.Is(err, ErrServiceReported) {
		t.Error("service error must match ErrServiceReported")
	}
}

func TestSearchBuilder_Count(t *testing.T) {
	c := &Client{engine: &mockEngine{
		countFn: func(_ context.Context, f filter.Filters, _ usercontext.Contexts) (int, error) {
			if f.Query() != "x" {
				t.Errorf("query = %q", f.Query())
			}
			return 11, nil
		},
	}}
	n, err := c.Search().Query("x").SeeAll().Count(context.Background())
	if err != nil || n != 11 {
		t.Errorf("Count = %d, %v", n, err)
	}
}
