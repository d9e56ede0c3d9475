// Package usercontext describes which host contexts a requester may see.
package usercontext

import "sort"

// Contexts is either "see everything" or a mapping from search area id to the
// context ids visible within that area.
type Contexts struct {
	all    bool
	byArea map[string][]int64
}

// All returns Contexts that impose no restriction.
func All() Contexts { return Contexts{all: true} }

// Restricted returns Contexts limited to the given area → context ids.
// A nil or empty map means the requester can see nothing.
func Restricted(byArea map[string][]int64) Contexts {
	return Contexts{byArea: byArea}
}

// SeeAll reports whether the requester can see every context.
func (c Contexts) SeeAll() bool { return c.all }

// Areas returns the per-area mapping. Nil for SeeAll.
func (c Contexts) Areas() map[string][]int64 { return c.byArea }

// IDs returns the sorted, distinct union of visible context ids across areas.
func (c Contexts) IDs() []int64 {
	seen := make(map[int64]struct{})
	for _, ids := range c.byArea {
		for _, id := range ids {
			seen[id] = struct{}{}
		}
	}
	out := make([]int64, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsEmpty reports whether no context at all is visible.
func (c Contexts) IsEmpty() bool {
	return !c.all && len(c.IDs()) == 0
}
