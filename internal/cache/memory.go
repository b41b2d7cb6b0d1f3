package cache

import (
	"context"
	"sync"
	"time"
)

// Entry is single cached value.
type Entry[T any] struct {
	Value    T
	StoredAt time.Time
	TTL      time.Duration
}

// Valid reports whether entry is still valid at now.
func (e Entry[T]) Valid(now time.Time) bool {
	return now.Sub(e.StoredAt) < e.TTL
}

// MemoryOption is custom configuration of Memory cache.
type MemoryOption func(c *memoryConfig)

type memoryConfig struct {
	clock Clock
}

// Memory is process-local cache. Expired entries are kept for stale reads until overwritten or removed.
type Memory[T any] struct {
	mu      sync.Mutex
	entries map[string]Entry[T]
	clock   Clock
}

// NewMemory returns new Memory cache.
func NewMemory[T any](ops ...MemoryOption) *Memory[T] {
	cfg := memoryConfig{clock: systemClock{}}
	for _, op := range ops {
		op(&cfg)
	}

	return &Memory[T]{
		entries: make(map[string]Entry[T]),
		clock:   cfg.clock,
	}
}

// Get returns valid value stored under key.
func (m *Memory[T]) Get(_ context.Context, key string) (T, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T
	entry, ok := m.entries[key]
	if !ok {
		return zero, false, nil
	}

	if !entry.Valid(m.clock.Now()) {
		return zero, false, nil
	}

	return entry.Value, true, nil
}

// GetStale returns value stored under key, expired or not.
func (m *Memory[T]) GetStale(_ context.Context, key string) (T, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		var zero T
		return zero, false, nil
	}

	return entry.Value, true, nil
}

// Set stores value under key for ttl.
func (m *Memory[T]) Set(_ context.Context, key string, value T, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = Entry[T]{
		Value:    value,
		StoredAt: m.clock.Now(),
		TTL:      ttl,
	}

	return nil
}

// Delete removes value stored under key.
func (m *Memory[T]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)

	return nil
}

// Clear removes all values.
func (m *Memory[T]) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]Entry[T])

	return nil
}

// Len returns number of stored entries, including expired ones.
func (m *Memory[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}

// WithClock sets Memory's custom Clock.
func WithClock(c Clock) MemoryOption {
	return func(cfg *memoryConfig) {
		cfg.clock = c
	}
}
