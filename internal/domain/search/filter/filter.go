package filter

import (
	"fmt"
	"strings"
)

// MaxQueryLength is the maximum allowed free-text query length.
const MaxQueryLength = 4096

// Filters holds the user-supplied search fields for one query.
type Filters struct {
	query     string
	title     string
	timeStart *int64
	timeEnd   *int64
	userID    int64
}

// New validates and creates Filters. timeStart and timeEnd are optional
// unix-second bounds on the modified field.
func New(query, title string, timeStart, timeEnd *int64, userID int64) (Filters, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Filters{}, fmt.Errorf("query is required")
	}
	if len(query) > MaxQueryLength {
		return Filters{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if timeStart != nil && timeEnd != nil && *timeStart > *timeEnd {
		return Filters{}, fmt.Errorf("timestart %d is after timeend %d", *timeStart, *timeEnd)
	}
	return Filters{
		query:     query,
		title:     strings.TrimSpace(title),
		timeStart: timeStart,
		timeEnd:   timeEnd,
		userID:    userID,
	}, nil
}

// Query returns the free-text query.
func (f Filters) Query() string { return f.query }

// Title returns the optional title filter.
func (f Filters) Title() string { return f.title }

// TimeStart returns the lower modified bound, nil when unset.
func (f Filters) TimeStart() *int64 { return f.timeStart }

// TimeEnd returns the upper modified bound, nil when unset.
func (f Filters) TimeEnd() *int64 { return f.timeEnd }

// UserID returns the requesting user.
func (f Filters) UserID() int64 { return f.userID }
