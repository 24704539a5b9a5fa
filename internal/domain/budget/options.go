package budget

import "time"

// Default governor configuration constants.
const (
	defaultCeiling   = 50
	defaultRetention = 36 * time.Hour
)

// Option applies a configuration option to the DailyGovernor.
type Option func(*DailyGovernor)

// WithCeiling sets the daily maximum of expensive queries.
func WithCeiling(ceiling int) Option {
	return func(g *DailyGovernor) {
		if ceiling > 0 {
			g.ceiling = ceiling
		}
	}
}

// WithRetention sets how long spent-day entries are kept before aging out.
func WithRetention(retention time.Duration) Option {
	return func(g *DailyGovernor) {
		if retention > 0 {
			g.retention = retention
		}
	}
}

// WithClock injects the time source, for tests exercising day rollover.
func WithClock(now func() time.Time) Option {
	return func(g *DailyGovernor) {
		if now != nil {
			g.now = now
		}
	}
}
