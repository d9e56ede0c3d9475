package esengine

import (
	"context"

	"github.com/kailas-cloud/esengine/internal/domain/document"
	"github.com/kailas-cloud/esengine/internal/domain/search/filter"
	"github.com/kailas-cloud/esengine/internal/domain/search/result"
	"github.com/kailas-cloud/esengine/internal/domain/search/usercontext"
	healthuc "github.com/kailas-cloud/esengine/internal/usecase/health"
)

// --- engineUseCase mock ---

type mockEngine struct {
	readyFn   func(ctx context.Context) bool
	addFn     func(ctx context.Context, doc document.Document) bool
	addManyFn func(ctx context.Context, docs []document.Document) int
	queryFn   func(ctx context.Context, f filter.Filters, ctxs usercontext.Contexts, limit int) ([]result.Result, error)
	similarFn func(ctx context.Context, text string, limit int) ([]result.Result, error)
	totalFn   func(ctx context.Context) (int, error)
	countFn   func(ctx context.Context, f filter.Filters, ctxs usercontext.Contexts) (int, error)
	deleteFn  func(ctx context.Context, module string) (bool, error)
}

func (m *mockEngine) IsServerReady(ctx context.Context) bool { return m.readyFn(ctx) }

func (m *mockEngine) AddDocument(ctx context.Context, doc document.Document) bool {
	return m.addFn(ctx, doc)
}

func (m *mockEngine) AddDocuments(ctx context.Context, docs []document.Document) int {
	return m.addManyFn(ctx, docs)
}

func (m *mockEngine) ExecuteQuery(
	ctx context.Context, f filter.Filters, ctxs usercontext.Contexts, limit int,
) ([]result.Result, error) {
	return m.queryFn(ctx, f, ctxs, limit)
}

func (m *mockEngine) GetMoreLikeThisText(ctx context.Context, text string, limit int) ([]result.Result, error) {
	return m.similarFn(ctx, text, limit)
}

func (m *mockEngine) GetQueryTotalCount(ctx context.Context) (int, error) {
	return m.totalFn(ctx)
}

func (m *mockEngine) CountQuery(ctx context.Context, f filter.Filters, ctxs usercontext.Contexts) (int, error) {
	return m.countFn(ctx, f, ctxs)
}

func (m *mockEngine) Delete(ctx context.Context, module string) (bool, error) {
	return m.deleteFn(ctx, module)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

// --- Area mocks ---

type mockArea struct {
	fn func(ctx context.Context, userID, itemID int64) Access
}

func (a *mockArea) CheckAccess(ctx context.Context, userID, itemID int64) Access {
	return a.fn(ctx, userID, itemID)
}

type mappingMockArea struct {
	mockArea
}

func (a *mappingMockArea) ToDocument(source Document) Document {
	return Document{"title": "mapped:" + source["title"].(string)}
}
