package engine

import (
	"context"
	"slices"
	"strings"

	"serveon_backend/platform/kvstore"
)

const (
	// HistoryKey holds the recent queries, most recent first.
	HistoryKey = "serveon-search-history"
	// DefaultHistoryLimit caps the stored queries.
	DefaultHistoryLimit = 10
	// MinHistoryQueryLen is the shortest query worth remembering.
	MinHistoryQueryLen = 2
)

// History is the list of recently committed queries.
type History struct {
	kv    *kvstore.Safe
	limit int
}

// NewHistory stores up to limit queries in kv. limit outside
// 1..DefaultHistoryLimit uses the default.
func NewHistory(kv *kvstore.Safe, limit int) *History {
	if limit <= 0 || limit > DefaultHistoryLimit {
		limit = DefaultHistoryLimit
	}
	return &History{kv: kv, limit: limit}
}

// List returns the stored queries, most recent first.
func (h *History) List(ctx context.Context) []string {
	var terms []string
	if !h.kv.GetJSON(ctx, HistoryKey, &terms) {
		return []string{}
	}
	terms = slices.DeleteFunc(terms, func(s string) bool { return strings.TrimSpace(s) == "" })
	if len(terms) > h.limit {
		terms = terms[:h.limit]
	}
	return terms
}

// Push moves term to the front, dropping any earlier copy that normalizes
// the same and the oldest entries beyond the limit. Blank terms are ignored.
func (h *History) Push(ctx context.Context, term string) []string {
	term = strings.TrimSpace(term)
	terms := h.List(ctx)
	if term == "" {
		return terms
	}

	key := Normalize(term)
	next := make([]string, 0, len(terms)+1)
	next = append(next, term)
	for _, existing := range terms {
		if Normalize(existing) != key {
			next = append(next, existing)
		}
	}
	if len(next) > h.limit {
		next = next[:h.limit]
	}

	h.kv.SetJSON(ctx, HistoryKey, next)
	return next
}

// Clear forgets every query.
func (h *History) Clear(ctx context.Context) {
	h.kv.Remove(ctx, HistoryKey)
}
