package query

// Request is the body POSTed to the _search and _count endpoints.
type Request struct {
	Query Query `json:"query"`
	Size  int   `json:"size,omitempty"`
}

// Query is one clause of the index service query DSL. Exactly one field is set.
type Query struct {
	Bool         *Bool                  `json:"bool,omitempty"`
	Match        map[string]string      `json:"match,omitempty"`
	Term         map[string]any         `json:"term,omitempty"`
	Terms        map[string][]int64     `json:"terms,omitempty"`
	Range        map[string]RangeBounds `json:"range,omitempty"`
	MoreLikeThis *MoreLikeThis          `json:"more_like_this,omitempty"`
	MatchAll     *struct{}              `json:"match_all,omitempty"`
}

// Bool combines clauses. Must and Should contribute to the score,
// Filter restricts without scoring.
type Bool struct {
	Must   []Query `json:"must,omitempty"`
	Should []Query `json:"should,omitempty"`
	Filter []Query `json:"filter,omitempty"`
}

// RangeBounds is an inclusive numeric range.
type RangeBounds struct {
	GTE *int64 `json:"gte,omitempty"`
	LTE *int64 `json:"lte,omitempty"`
}

// MoreLikeThis finds documents similar to a piece of text.
type MoreLikeThis struct {
	Fields        []string `json:"fields"`
	Like          string   `json:"like"`
	MinTermFreq   int      `json:"min_term_freq"`
	MaxQueryTerms int      `json:"max_query_terms"`
}

// MatchQuery returns a full-text match clause.
func MatchQuery(field, text string) Query {
	return Query{Match: map[string]string{field: text}}
}

// TermQuery returns an exact value clause.
func TermQuery(field string, value any) Query {
	return Query{Term: map[string]any{field: value}}
}

// TermsQuery returns a "field is one of values" clause.
func TermsQuery(field string, values []int64) Query {
	return Query{Terms: map[string][]int64{field: values}}
}

// RangeQuery returns a range clause. Nil bounds are omitted.
func RangeQuery(field string, gte, lte *int64) Query {
	return Query{Range: map[string]RangeBounds{field: {GTE: gte, LTE: lte}}}
}

// MatchAllQuery matches every document.
func MatchAllQuery() Query {
	return Query{MatchAll: &struct{}{}}
}
