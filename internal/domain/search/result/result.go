package result

import "github.com/kailas-cloud/esengine/internal/domain/document"

// Result is a single authorized search hit mapped into the host document shape.
type Result struct {
	doc   document.Document
	score float64
}

// New creates a search result.
func New(doc document.Document, score float64) Result {
	return Result{doc: doc, score: score}
}

// Document returns the mapped document.
func (r *Result) Document() document.Document { return r.doc }

// Score returns the service relevance score.
func (r *Result) Score() float64 { return r.score }

// AreaID returns the search area of the hit.
func (r *Result) AreaID() string { return r.doc.AreaID() }

// ItemID returns the host item id, or 0 when the mapped document dropped it.
func (r *Result) ItemID() int64 {
	id, err := r.doc.ItemID()
	if err != nil {
		return 0
	}
	return id
}
