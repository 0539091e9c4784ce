// Package freshcache provides the in-process freshness cache fronting every
// upstream fetch: a keyed store of last-computed values with TTL expiry and a
// forced-refresh bypass.
package freshcache

import (
	"sync"
	"time"
)

// Entry pairs a cached value with the time it was fetched.
type Entry[V any] struct {
	Value     V
	FetchedAt time.Time
}

// Store is a keyed TTL cache. Entries are only ever replaced whole, never
// mutated, so concurrent readers either see the old entry or the new one.
// Concurrent misses on the same key are not deduplicated; each triggers its
// own fetch and the last store wins.
type Store[V any] struct {
	mu      sync.RWMutex
	entries map[string]Entry[V]
	now     func() time.Time
}

// Option configures a Store.
type Option[V any] func(*Store[V])

// WithClock injects a clock, used by tests to control freshness.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(s *Store[V]) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs an empty store.
func New[V any](opts ...Option[V]) *Store[V] {
	s := &Store[V]{
		entries: make(map[string]Entry[V]),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrFetch returns the live entry for key when one exists and force is
// unset; otherwise it calls fetch, stores the result with the current time,
// and returns it. Fetch failures leave any prior entry untouched.
func (s *Store[V]) GetOrFetch(key string, ttl time.Duration, force bool, fetch func() (V, error)) (V, time.Time, error) {
	if !force {
		if entry, ok := s.lookup(key, ttl); ok {
			return entry.Value, entry.FetchedAt, nil
		}
	}

	value, err := fetch()
	if err != nil {
		var zero V
		return zero, time.Time{}, err
	}

	fetchedAt := s.now()
	s.mu.Lock()
	s.entries[key] = Entry[V]{Value: value, FetchedAt: fetchedAt}
	s.mu.Unlock()
	return value, fetchedAt, nil
}

// Peek returns the entry for key regardless of freshness.
func (s *Store[V]) Peek(key string) (Entry[V], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	return entry, ok
}

// Len reports the number of stored entries.
func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store[V]) lookup(key string, ttl time.Duration) (Entry[V], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	if !ok {
		return Entry[V]{}, false
	}
	if s.now().Sub(entry.FetchedAt) >= ttl {
		return Entry[V]{}, false
	}
	return entry, true
}
