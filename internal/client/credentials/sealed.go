package credentials

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/console/internal/cryptox"
)

// SealedStore encrypts the values of selected keys before handing them to
// the inner store. Other keys pass through untouched.
type SealedStore struct {
	inner Store
	key   []byte
	keys  map[string]struct{}
}

// NewSealedStore derives the encryption key from secret and seals the given
// keys (typically common.LoginInfoKey).
func NewSealedStore(inner Store, secret []byte, keys ...string) *SealedStore {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return &SealedStore{inner: inner, key: cryptox.DeriveSealKey(secret), keys: set}
}

func (s *SealedStore) sealed(key string) bool {
	_, ok := s.keys[key]
	return ok
}

func (s *SealedStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok || !s.sealed(key) {
		return v, ok, err
	}

	plain, err := cryptox.Open(v, s.key)
	if err != nil {
		return "", false, fmt.Errorf("failed to open sealed credential[%s]: %w", key, err)
	}
	return string(plain), true, nil
}

func (s *SealedStore) Set(ctx context.Context, key, value string, opts SetOptions) error {
	if s.sealed(key) {
		v, err := cryptox.Seal([]byte(value), s.key)
		if err != nil {
			return fmt.Errorf("failed to seal credential[%s]: %w", key, err)
		}
		value = v
	}
	return s.inner.Set(ctx, key, value, opts)
}

func (s *SealedStore) Remove(ctx context.Context, key string, opts RemoveOptions) error {
	return s.inner.Remove(ctx, key, opts)
}

func (s *SealedStore) Batch(ctx context.Context, fn func(ctx context.Context, s Store) error) error {
	return batch(ctx, s.inner, func(ctx context.Context, inner Store) error {
		return fn(ctx, &SealedStore{inner: inner, key: s.key, keys: s.keys})
	})
}
