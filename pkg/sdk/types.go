package esengine

import (
	"context"

	"github.com/kailas-cloud/esengine/internal/domain"
	"github.com/kailas-cloud/esengine/internal/domain/access"
	"github.com/kailas-cloud/esengine/internal/domain/document"
	"github.com/kailas-cloud/esengine/internal/domain/search/result"
	engineuc "github.com/kailas-cloud/esengine/internal/usecase/engine"
)

// Document is a flat map of indexed fields.
type Document map[string]any

// Standard document fields.
const (
	FieldID          = document.FieldID
	FieldItemID      = document.FieldItemID
	FieldAreaID      = document.FieldAreaID
	FieldOwnerUserID = document.FieldOwnerUserID
	FieldContextID   = document.FieldContextID
	FieldCourseID    = document.FieldCourseID
	FieldTitle       = document.FieldTitle
	FieldContent     = document.FieldContent
	FieldModified    = document.FieldModified
)

// Access is the outcome of a per-hit access check.
type Access string

// Access outcomes.
const (
	AccessGranted Access = Access(access.Granted)
	AccessDenied  Access = Access(access.Denied)
	AccessDeleted Access = Access(access.Deleted)
)

// Area decides whether a user may see an item of one search area.
// It is called once per hit; results must not be cached across searches.
type Area interface {
	CheckAccess(ctx context.Context, userID, itemID int64) Access
}

// ResultMapper is optionally implemented by an Area to shape its results.
// Without it, a fixed set of display fields is copied from the stored document.
type ResultMapper interface {
	ToDocument(source Document) Document
}

// SearchResult is one authorized hit.
type SearchResult struct {
	AreaID   string
	ItemID   int64
	Score    float64
	Document Document
}

// areaRegistry adapts the public Area map to the engine's registry.
type areaRegistry map[string]Area

func (r areaRegistry) Area(areaID string) (engineuc.Area, bool) {
	a, ok := r[areaID]
	if !ok {
		return nil, false
	}
	if m, ok := a.(ResultMapper); ok {
		return mappingArea{areaAdapter: areaAdapter{inner: a}, mapper: m}, true
	}
	return areaAdapter{inner: a}, true
}

type areaAdapter struct {
	inner Area
}

func (a areaAdapter) CheckAccess(ctx context.Context, itemID int64) access.Outcome {
	userID, _ := domain.UserFromContext(ctx)
	return access.Parse(string(a.inner.CheckAccess(ctx, userID, itemID)))
}

type mappingArea struct {
	areaAdapter
	mapper ResultMapper
}

func (m mappingArea) ToDocument(source document.Document) document.Document {
	return document.Document(m.mapper.ToDocument(Document(source)))
}

func fromResults(rs []result.Result) []SearchResult {
	out := make([]SearchResult, len(rs))
	for i := range rs {
		out[i] = SearchResult{
			AreaID:   rs[i].AreaID(),
			ItemID:   rs[i].ItemID(),
			Score:    rs[i].Score(),
			Document: Document(rs[i].Document()),
		}
	}
	return out
}

func toDocuments(docs []Document) []document.Document {
	out := make([]document.Document, len(docs))
	for i, d := range docs {
		out[i] = document.Document(d)
	}
	return out
}
