package engine

import (
	"cmp"
	"context"
	"slices"

	"serveon_backend/platform/kvstore"
)

// VisitsKey holds the visit count per destination path.
const VisitsKey = "serveon-page-visits"

// Popularity counts visits per destination.
type Popularity struct {
	kv *kvstore.Safe
}

func NewPopularity(kv *kvstore.Safe) *Popularity {
	return &Popularity{kv: kv}
}

// Counts returns path -> visits. Unreadable data counts as no visits.
func (p *Popularity) Counts(ctx context.Context) map[string]int {
	counts := map[string]int{}
	if !p.kv.GetJSON(ctx, VisitsKey, &counts) || counts == nil {
		return map[string]int{}
	}
	return counts
}

// Increment records one visit to path and returns the new count.
func (p *Popularity) Increment(ctx context.Context, path string) int {
	counts := p.Counts(ctx)
	counts[path]++
	p.kv.SetJSON(ctx, VisitsKey, counts)
	return counts[path]
}

// Visited is a destination with its visit count.
type Visited struct {
	Item   Item `json:"item"`
	Visits int  `json:"visits"`
}

// Top returns up to n catalog destinations ordered by visits, then by
// authored priority. Destinations never visited still appear so a new
// user gets suggestions.
func Top(catalog []Item, counts map[string]int, n int) []Visited {
	out := make([]Visited, 0, len(catalog))
	for _, item := range catalog {
		out = append(out, Visited{Item: item, Visits: counts[item.Path]})
	}
	slices.SortStableFunc(out, func(a, b Visited) int {
		if c := cmp.Compare(b.Visits, a.Visits); c != 0 {
			return c
		}
		return cmp.Compare(b.Item.Priority, a.Item.Priority)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// RecordCommit applies the side effects of navigating to path after
// searching for query: the query joins the history when it is long
// enough and the destination gains a visit.
func RecordCommit(ctx context.Context, history *History, visits *Popularity, query, path string) {
	if len([]rune(Normalize(query))) >= MinHistoryQueryLen {
		history.Push(ctx, query)
	}
	visits.Increment(ctx, path)
}
