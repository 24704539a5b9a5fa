// Package cache provides the TTL key-value stores consulted by the
// score aggregation pipeline: one for finished ScoreRecords and one for
// pooled intermediate results. Expiration is TTL-based; there is no
// explicit invalidation surface.
package cache

import (
	"context"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/vizor-ai/vizor/pkg/metrics"
)

// Store is the thin KV abstraction the aggregator depends on. A store
// carries one TTL for all entries, fixed at construction.
type Store[V any] interface {
	// Get returns the value for key, or false if absent or expired.
	Get(ctx context.Context, key string) (V, bool)

	// Set stores value under key with the store's TTL.
	Set(ctx context.Context, key string, value V)

	// Len returns the number of live entries.
	Len(ctx context.Context) int

	// Purge drops every entry.
	Purge(ctx context.Context)
}

// LRUStore implements Store on an expiring LRU. Reads and writes are
// safe for concurrent use.
type LRUStore[V any] struct {
	lru  *expirable.LRU[string, V]
	name string
}

// NewLRUStore creates a store with the configured capacity and TTL.
func NewLRUStore[V any](opts ...Option) *LRUStore[V] {
	s := settings{
		capacity: defaultCapacity,
		ttl:      defaultTTL,
		name:     "cache",
	}
	for _, opt := range opts {
		opt(&s)
	}
	return &LRUStore[V]{
		lru:  expirable.NewLRU[string, V](s.capacity, nil, s.ttl),
		name: s.name,
	}
}

// Get returns the cached value for key if it has not expired.
func (s *LRUStore[V]) Get(_ context.Context, key string) (V, bool) {
	v, ok := s.lru.Get(key)
	if ok {
		metrics.RecordCacheHit(s.name)
	} else {
		metrics.RecordCacheMiss(s.name)
	}
	return v, ok
}

// Set stores value under key with the store's TTL.
func (s *LRUStore[V]) Set(_ context.Context, key string, value V) {
	s.lru.Add(key, value)
}

// Len returns the number of live entries.
func (s *LRUStore[V]) Len(_ context.Context) int { return s.lru.Len() }

// Purge drops every entry.
func (s *LRUStore[V]) Purge(_ context.Context) { s.lru.Purge() }
