package credentials

import (
	"context"
	"time"
)

// DefaultPath is the cookie path used when none is given.
const DefaultPath = "/"

// SetOptions mirrors the attributes of a persisted cookie.
// ExpiresInDays <= 0 stores the value without an expiry.
type SetOptions struct {
	ExpiresInDays float64
	Path          string
}

type RemoveOptions struct {
	Path string
}

// Store is a small persisted key/value store with per-key expiry.
// Get reports ok=false for absent and expired keys. Remove of an absent key
// is not an error. A Remove whose path differs from the stored one leaves
// the value in place, like a browser cookie.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, opts SetOptions) error
	Remove(ctx context.Context, key string, opts RemoveOptions) error
}

// Batcher is implemented by stores that can apply several writes atomically.
// fn receives a Store bound to the batch; it must only write through it.
type Batcher interface {
	Batch(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}

// batch runs fn atomically when s supports it and sequentially otherwise.
func batch(ctx context.Context, s Store, fn func(ctx context.Context, s Store) error) error {
	if b, ok := s.(Batcher); ok {
		return b.Batch(ctx, fn)
	}
	return fn(ctx, s)
}

// ExpiryTime converts an expiry in days into an absolute deadline. The zero
// time means no expiry.
func ExpiryTime(now time.Time, days float64) time.Time {
	if days <= 0 {
		return time.Time{}
	}
	return now.Add(expiryDuration(days))
}

func expiryDuration(days float64) time.Duration {
	return time.Duration(days * float64(24*time.Hour))
}

func normPath(p string) string {
	if p == "" {
		return DefaultPath
	}
	return p
}
