package credentials

import "context"

// ScopedStore gives a durable store browser cookie semantics: values set
// without an expiry are session values kept in process memory, so they
// survive a reload but not a restart. Values with an expiry go to the
// durable store.
type ScopedStore struct {
	session Store
	durable Store
}

func NewScopedStore(durable Store) *ScopedStore {
	return &ScopedStore{session: NewMemoryStore(), durable: durable}
}

func (s *ScopedStore) Get(ctx context.Context, key string) (string, bool, error) {
	if v, ok, _ := s.session.Get(ctx, key); ok {
		return v, true, nil
	}
	return s.durable.Get(ctx, key)
}

// Set writes to exactly one scope and removes the key from the other.
func (s *ScopedStore) Set(ctx context.Context, key, value string, opts SetOptions) error {
	if opts.ExpiresInDays <= 0 {
		if err := s.durable.Remove(ctx, key, RemoveOptions{Path: opts.Path}); err != nil {
			return err
		}
		return s.session.Set(ctx, key, value, opts)
	}

	_ = s.session.Remove(ctx, key, RemoveOptions{Path: opts.Path})
	return s.durable.Set(ctx, key, value, opts)
}

func (s *ScopedStore) Remove(ctx context.Context, key string, opts RemoveOptions) error {
	_ = s.session.Remove(ctx, key, opts)
	return s.durable.Remove(ctx, key, opts)
}

// Batch makes the durable writes atomic. Session writes are queued and
// applied only after the durable batch commits, so a failed batch leaves
// both scopes untouched.
func (s *ScopedStore) Batch(ctx context.Context, fn func(ctx context.Context, s Store) error) error {
	return batch(ctx, s.session, func(ctx context.Context, sess Store) error {
		return batch(ctx, s.durable, func(ctx context.Context, tx Store) error {
			return fn(ctx, &ScopedStore{session: sess, durable: tx})
		})
	})
}
