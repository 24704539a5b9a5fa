package cache

import "time"

// Default store configuration constants.
const (
	defaultCapacity = 10_000
	defaultTTL      = 24 * time.Hour
)

type settings struct {
	capacity int
	ttl      time.Duration
	name     string
}

// Option applies a configuration option to a store.
type Option func(*settings)

// WithCapacity bounds the number of live entries; the least recently
// used entry is evicted first.
func WithCapacity(capacity int) Option {
	return func(s *settings) {
		if capacity > 0 {
			s.capacity = capacity
		}
	}
}

// WithTTL sets the time-to-live applied to every entry.
func WithTTL(ttl time.Duration) Option {
	return func(s *settings) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithName labels the store in cache metrics.
func WithName(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.name = name
		}
	}
}
