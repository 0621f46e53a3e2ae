package kvstore

import (
	"context"
	"encoding/json"

	"serveon_backend/platform/logger"
)

// Safe is the only place key-value failures are handled. Reads that fail,
// miss, or find corrupt JSON all look like "no data"; failed writes are
// logged and dropped. Callers never see an error.
type Safe struct {
	store Store
	log   *logger.Logger
}

// NewSafe wraps store. A nil log discards the warnings.
func NewSafe(store Store, log *logger.Logger) *Safe {
	if log == nil {
		log = logger.Discard()
	}
	return &Safe{store: store, log: log}
}

// Scope returns a Safe whose keys live under prefix.
func (s *Safe) Scope(prefix string) *Safe {
	return &Safe{store: NewScoped(s.store, prefix), log: s.log}
}

// GetJSON decodes the value at key into dst and reports whether it did.
// dst may be partially written when false is returned; callers discard it.
func (s *Safe) GetJSON(ctx context.Context, key string, dst any) bool {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.log.WithContext(ctx).StorageDegraded("get", key, err)
		return false
	}
	if !ok || raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.log.WithContext(ctx).StorageDegraded("decode", key, err)
		return false
	}
	return true
}

// SetJSON encodes v and stores it at key.
func (s *Safe) SetJSON(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.log.WithContext(ctx).StorageDegraded("encode", key, err)
		return
	}
	if err := s.store.Set(ctx, key, string(raw)); err != nil {
		s.log.WithContext(ctx).StorageDegraded("set", key, err)
	}
}

// Remove deletes key.
func (s *Safe) Remove(ctx context.Context, key string) {
	if err := s.store.Remove(ctx, key); err != nil {
		s.log.WithContext(ctx).StorageDegraded("remove", key, err)
	}
}
