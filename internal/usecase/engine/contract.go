package engine

import (
	"context"

	"github.com/kailas-cloud/esengine/internal/domain"
	"github.com/kailas-cloud/esengine/internal/domain/access"
	"github.com/kailas-cloud/esengine/internal/domain/document"
	"github.com/kailas-cloud/esengine/internal/domain/search/filter"
	"github.com/kailas-cloud/esengine/internal/domain/search/result"
	"github.com/kailas-cloud/esengine/internal/domain/search/usercontext"
)

// Transport sends requests to the index service.
type Transport interface {
	Ping(ctx context.Context) (domain.ServiceResponse, error)
	IndexDocument(ctx context.Context, id string, body []byte) (domain.ServiceResponse, error)
	Search(ctx context.Context, body []byte) (domain.ServiceResponse, error)
	Count(ctx context.Context, body []byte) (domain.ServiceResponse, error)
	DeleteIndex(ctx context.Context) (domain.ServiceResponse, error)
}

// AreaRegistry resolves search area identifiers to host areas.
type AreaRegistry interface {
	Area(areaID string) (Area, bool)
}

// Area is a host search area with its own access rules.
// The requesting user is available via domain.UserFromContext.
type Area interface {
	CheckAccess(ctx context.Context, itemID int64) access.Outcome
}

// DocumentMapper is implemented by areas that shape their own results.
// Areas without it get document.RenderFields copied from the stored source.
type DocumentMapper interface {
	ToDocument(source document.Document) document.Document
}

// Backend is the operation set a host expects from any search engine backend.
type Backend interface {
	IsInstalled() bool
	IsServerReady(ctx context.Context) bool
	AddDocument(ctx context.Context, doc document.Document) bool
	AddDocuments(ctx context.Context, docs []document.Document) int
	Commit(ctx context.Context)
	Optimize(ctx context.Context)
	PostFile(ctx context.Context)
	ExecuteQuery(
		ctx context.Context, f filter.Filters, ctxs usercontext.Contexts, limit int,
	) ([]result.Result, error)
	GetMoreLikeThisText(ctx context.Context, text string, limit int) ([]result.Result, error)
	GetQueryTotalCount(ctx context.Context) (int, error)
	CountQuery(ctx context.Context, f filter.Filters, ctxs usercontext.Contexts) (int, error)
	Delete(ctx context.Context, module string) (bool, error)
}
