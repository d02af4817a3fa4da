// Package cache provides the time-boxed store that memoizes fetched sheet
// rows between requests.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is how long fetched rows stay fresh.
const DefaultTTL = 30 * time.Minute

// Cache memoizes values by key. Implementations must be safe for concurrent
// use.
type Cache interface {
	// Get returns the value for key, or false when absent or expired.
	Get(key string) (any, bool)
	// Set stores value under key, resetting its age.
	Set(key string, value any)
	// Invalidate drops one key. Missing keys are ignored.
	Invalidate(key string)
	// InvalidateAll drops every key.
	InvalidateAll()
}

// GetAs fetches key and asserts it to T. A value of another type is
// reported as a miss.
func GetAs[T any](c Cache, key string) (T, bool) {
	var zero T
	v, ok := c.Get(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

type entry struct {
	value    any
	storedAt time.Time
}

// Memory is an in-process Cache with a single TTL for every key.
type Memory struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]entry
}

// Option configures a Memory cache.
type Option func(*Memory)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Memory) {
		m.now = now
	}
}

// NewMemory creates a Memory cache. A non-positive ttl uses DefaultTTL.
func NewMemory(ttl time.Duration, opts ...Option) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Memory{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]entry),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Get returns the value for key. Entries older than the TTL are evicted on
// read.
func (m *Memory) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[key]
	if !ok {
		return nil, false
	}
	if m.now().Sub(e.storedAt) > m.ttl {
		delete(m.items, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key.
func (m *Memory) Set(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = entry{value: value, storedAt: m.now()}
}

// Invalidate drops key.
func (m *Memory) Invalidate(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
}

// InvalidateAll drops every entry.
func (m *Memory) InvalidateAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string]entry)
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Nop is a Cache that never stores anything.
type Nop struct{}

func (Nop) Get(string) (any, bool) { return nil, false }
func (Nop) Set(string, any)        {}
func (Nop) Invalidate(string)      {}
func (Nop) InvalidateAll()         {}
