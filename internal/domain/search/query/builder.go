package query

import (
	"errors"

	"github.com/kailas-cloud/esengine/internal/domain/document"
	"github.com/kailas-cloud/esengine/internal/domain/search/filter"
	"github.com/kailas-cloud/esengine/internal/domain/search/usercontext"
)

// NoOwnerID marks documents that are not owned by a specific user.
const NoOwnerID int64 = 0

// More-like-this tuning.
const (
	MoreLikeThisMinTermFreq   = 1
	MoreLikeThisMaxQueryTerms = 12
)

// ErrNoVisibleContexts is returned when the requester cannot see any context.
// Callers answer with an empty result set without contacting the service.
var ErrNoVisibleContexts = errors.New("no visible contexts")

// Build turns filters and visible contexts into a bool query.
//
// The owner clause is a should: it ranks unowned and own documents higher but
// does not exclude anything. Authorization happens per hit after the search.
func Build(f filter.Filters, ctxs usercontext.Contexts) (Query, error) {
	if ctxs.IsEmpty() {
		return Query{}, ErrNoVisibleContexts
	}

	b := &Bool{
		Must: []Query{MatchQuery(document.FieldContent, f.Query())},
		Should: []Query{
			TermQuery(document.FieldOwnerUserID, NoOwnerID),
			TermQuery(document.FieldOwnerUserID, f.UserID()),
		},
	}

	if f.Title() != "" {
		b.Must = append(b.Must, MatchQuery(document.FieldTitle, f.Title()))
	}

	if !ctxs.SeeAll() {
		b.Filter = append(b.Filter, TermsQuery(document.FieldContextID, ctxs.IDs()))
	}

	if f.TimeStart() != nil {
		b.Filter = append(b.Filter, RangeQuery(document.FieldModified, f.TimeStart(), nil))
	}
	if f.TimeEnd() != nil {
		b.Filter = append(b.Filter, RangeQuery(document.FieldModified, nil, f.TimeEnd()))
	}

	return Query{Bool: b}, nil
}

// BuildMoreLikeThis returns a similarity query against the content field.
func BuildMoreLikeThis(text string) Query {
	return Query{MoreLikeThis: &MoreLikeThis{
		Fields:        []string{document.FieldContent},
		Like:          text,
		MinTermFreq:   MoreLikeThisMinTermFreq,
		MaxQueryTerms: MoreLikeThisMaxQueryTerms,
	}}
}
