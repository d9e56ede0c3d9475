package esengine

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/esengine/internal/domain/search/filter"
	"github.com/kailas-cloud/esengine/internal/domain/search/usercontext"
)

// SearchBuilder is a fluent builder for filtered searches.
// Without SeeAll or InContexts the requester sees nothing and Do returns no hits.
type SearchBuilder struct {
	client *Client

	query     string
	title     string
	timeStart *int64
	timeEnd   *int64
	userID    int64

	seeAll   bool
	contexts map[string][]int64

	limit int
}

// Query sets the free-text query. Required.
func (b *SearchBuilder) Query(q string) *SearchBuilder {
	b.query = q
	return b
}

// Title additionally requires a title match.
func (b *SearchBuilder) Title(t string) *SearchBuilder {
	b.title = t
	return b
}

// Since keeps documents modified at or after t.
func (b *SearchBuilder) Since(t time.Time) *SearchBuilder {
	s := t.Unix()
	b.timeStart = &s
	return b
}

// Until keeps documents modified at or before t.
func (b *SearchBuilder) Until(t time.Time) *SearchBuilder {
	e := t.Unix()
	b.timeEnd = &e
	return b
}

// ForUser sets the requesting user. Their own documents rank higher and the
// id is passed to every access check.
func (b *SearchBuilder) ForUser(userID int64) *SearchBuilder {
	b.userID = userID
	return b
}

// SeeAll lifts the context restriction.
func (b *SearchBuilder) SeeAll() *SearchBuilder {
	b.seeAll = true
	return b
}

// InContexts adds context ids visible to the requester within an area.
func (b *SearchBuilder) InContexts(areaID string, contextIDs ...int64) *SearchBuilder {
	if b.contexts == nil {
		b.contexts = make(map[string][]int64)
	}
	b.contexts[areaID] = append(b.contexts[areaID], contextIDs...)
	return b
}

// Limit sets the maximum number of results. Zero uses the client's cap.
func (b *SearchBuilder) Limit(n int) *SearchBuilder {
	b.limit = n
	return b
}

// Do executes the search and returns authorized hits in relevance order.
func (b *SearchBuilder) Do(ctx context.Context) (hits []SearchResult, err error) {
	start := time.Now()
	defer func() { b.client.obs.observeResults("search", start, len(hits), err) }()

	f, ctxs, err := b.build()
	if err != nil {
		return nil, err
	}
	rs, err := b.client.engine.ExecuteQuery(ctx, f, ctxs, b.limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return fromResults(rs), nil
}

// Count returns how many indexed documents match, before access checks.
func (b *SearchBuilder) Count(ctx context.Context) (n int, err error) {
	start := time.Now()
	defer func() { b.client.obs.observe("search_count", start, err) }()

	f, ctxs, err := b.build()
	if err != nil {
		return 0, err
	}
	n, err = b.client.engine.CountQuery(ctx, f, ctxs)
	if err != nil {
		return 0, fmt.Errorf("search count: %w", err)
	}
	return n, nil
}

func (b *SearchBuilder) build() (filter.Filters, usercontext.Contexts, error) {
	f, err := filter.New(b.query, b.title, b.timeStart, b.timeEnd, b.userID)
	if err != nil {
		return filter.Filters{}, usercontext.Contexts{}, fmt.Errorf("%w: %w", ErrInvalidFilters, err)
	}
	if b.seeAll {
		return f, usercontext.All(), nil
	}
	return f, usercontext.Restricted(b.contexts), nil
}
