// Package storage is the string-keyed persistence used for shopper state: cart
// items, the active discount, the failed order queue and cached counters.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("key not found")

// Store persists opaque JSON values by key. Writes replace the whole value.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// LoadJSON decodes the value stored under key into v. Missing keys and values
// that do not decode are reported as (false, nil) so callers fall back to their
// zero state; only backend failures are returned as errors.
func LoadJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, nil
	}
	return true, nil
}

// SaveJSON encodes v and stores it under key in a single write.
func SaveJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Scoped prefixes every key so several owners can share one backend without
// their keys colliding.
type Scoped struct {
	inner  Store
	prefix string
}

func NewScoped(inner Store, prefix string) *Scoped {
	return &Scoped{inner: inner, prefix: strings.TrimSuffix(prefix, "/") + "/"}
}

func (s *Scoped) Get(ctx context.Context, key string) ([]byte, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *Scoped) Set(ctx context.Context, key string, value []byte) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s *Scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}
