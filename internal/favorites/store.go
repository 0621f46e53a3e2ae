// Package favorites persists the per-entity favorite IDs of a user.
package favorites

import (
	"context"
	"slices"
	"sort"

	"serveon_backend/platform/kvstore"
)

const keyPrefix = "favorites-"

// Key returns the storage key for entityType's favorites.
func Key(entityType string) string {
	return keyPrefix + entityType
}

// Set is the favorite IDs of one entity type.
type Set map[string]struct{}

// Has reports whether id is a favorite.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members sorted, for stable output.
func (s Set) IDs() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Store reads and writes favorites. Storage failures degrade to "no
// favorites" and never surface as errors.
type Store struct {
	kv *kvstore.Safe
}

// NewStore wraps kv, which should already be scoped to the user.
func NewStore(kv *kvstore.Safe) *Store {
	return &Store{kv: kv}
}

// Load returns the favorites of entityType. Missing or unreadable data is
// an empty set.
func (s *Store) Load(ctx context.Context, entityType string) Set {
	var ids []string
	if !s.kv.GetJSON(ctx, Key(entityType), &ids) {
		return Set{}
	}
	set := make(Set, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

// IDs returns the stored favorite IDs in their persisted order, each once.
func (s *Store) IDs(ctx context.Context, entityType string) []string {
	var ids []string
	if !s.kv.GetJSON(ctx, Key(entityType), &ids) {
		return []string{}
	}
	seen := make(map[string]bool, len(ids))
	return slices.DeleteFunc(ids, func(id string) bool {
		if id == "" || seen[id] {
			return true
		}
		seen[id] = true
		return false
	})
}

// IsFavorite reports whether id is a favorite of entityType.
func (s *Store) IsFavorite(ctx context.Context, entityType, id string) bool {
	return s.Load(ctx, entityType).Has(id)
}

// Toggle flips id and persists the result. It returns whether id is a
// favorite afterwards.
func (s *Store) Toggle(ctx context.Context, entityType, id string) bool {
	ids := s.IDs(ctx, entityType)

	now := true
	if i := slices.Index(ids, id); i >= 0 {
		ids = slices.Delete(ids, i, i+1)
		now = false
	} else {
		ids = append(ids, id)
	}

	s.kv.SetJSON(ctx, Key(entityType), ids)
	return now
}
