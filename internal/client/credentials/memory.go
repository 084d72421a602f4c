package credentials

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value   string
	path    string
	expires time.Time
}

// MemoryStore keeps entries in a map guarded by a mutex. Nothing survives
// the process.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getLocked(key)
}

func (m *MemoryStore) getLocked(key string) (string, bool, error) {
	e, ok := m.entries[key]
	if !ok {
		return "", false, nil
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries, key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string, opts SetOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setLocked(key, value, opts)
	return nil
}

func (m *MemoryStore) setLocked(key, value string, opts SetOptions) {
	m.entries[key] = memoryEntry{
		value:   value,
		path:    normPath(opts.Path),
		expires: ExpiryTime(m.now(), opts.ExpiresInDays),
	}
}

func (m *MemoryStore) Remove(_ context.Context, key string, opts RemoveOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeLocked(key, opts)
	return nil
}

func (m *MemoryStore) removeLocked(key string, opts RemoveOptions) {
	if e, ok := m.entries[key]; ok && e.path == normPath(opts.Path) {
		delete(m.entries, key)
	}
}

// Batch collects the writes made by fn and applies them under one lock, so
// readers never observe a half-applied record. Nothing is applied if fn fails.
func (m *MemoryStore) Batch(ctx context.Context, fn func(ctx context.Context, s Store) error) error {
	tx := &memoryBatch{base: m}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, apply := range tx.ops {
		apply()
	}
	return nil
}

type memoryBatch struct {
	base *MemoryStore
	ops  []func()
}

// Get reads the committed state; writes queued in the batch are not visible.
func (b *memoryBatch) Get(ctx context.Context, key string) (string, bool, error) {
	return b.base.Get(ctx, key)
}

func (b *memoryBatch) Set(_ context.Context, key, value string, opts SetOptions) error {
	b.ops = append(b.ops, func() { b.base.setLocked(key, value, opts) })
	return nil
}

func (b *memoryBatch) Remove(_ context.Context, key string, opts RemoveOptions) error {
	b.ops = append(b.ops, func() { b.base.removeLocked(key, opts) })
	return nil
}
