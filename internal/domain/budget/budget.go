// Package budget enforces the rolling daily ceiling on expensive
// AI-assistant queries. Exhaustion is a control-flow outcome for the
// aggregation pipeline, never an error.
package budget

import (
	"context"
	"sync"
	"time"

	"github.com/vizor-ai/vizor/pkg/metrics"
)

// dayKey layout for the per-UTC-day ledger.
const dayKeyLayout = "2006-01-02"

// Governor decides whether a request may spend one expensive query.
type Governor interface {
	// TryReserve atomically checks today's counter against the ceiling
	// and claims one slot if available. Two concurrent calls never both
	// succeed when a single slot remains.
	TryReserve(ctx context.Context) bool

	// UsedToday returns the number of slots spent against today's ceiling.
	UsedToday(ctx context.Context) int
}

// DailyGovernor implements Governor with a mutex-guarded ledger keyed by
// UTC calendar date. An absent key counts as zero, so day rollover needs
// no reset job; stale keys age out past the retention window.
type DailyGovernor struct {
	mu        sync.Mutex
	counts    map[string]int
	ceiling   int
	retention time.Duration
	now       func() time.Time
}

// NewDailyGovernor creates a governor with the configured ceiling.
func NewDailyGovernor(opts ...Option) *DailyGovernor {
	g := &DailyGovernor{
		counts:    make(map[string]int),
		ceiling:   defaultCeiling,
		retention: defaultRetention,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// TryReserve claims one expensive-query slot for today if the ceiling
// allows. The check and the increment happen under one lock.
func (g *DailyGovernor) TryReserve(_ context.Context) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now().UTC()
	day := now.Format(dayKeyLayout)
	g.pruneLocked(now)

	if g.counts[day] >= g.ceiling {
		metrics.RecordBudgetDenial()
		return false
	}
	g.counts[day]++
	metrics.RecordBudgetReservation()
	metrics.UpdateBudgetUsed(g.counts[day])
	return true
}

// UsedToday returns the slots spent against today's ceiling.
func (g *DailyGovernor) UsedToday(_ context.Context) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.counts[g.now().UTC().Format(dayKeyLayout)]
}

// Ceiling returns the configured daily maximum.
func (g *DailyGovernor) Ceiling() int { return g.ceiling }

// Prune drops ledger entries older than the retention window. It also
// runs opportunistically on every reservation; this method exists for
// maintenance jobs that want an explicit sweep.
func (g *DailyGovernor) Prune(_ context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pruneLocked(g.now().UTC())
}

func (g *DailyGovernor) pruneLocked(now time.Time) {
	for day := range g.counts {
		t, err := time.Parse(dayKeyLayout, day)
		if err != nil {
			delete(g.counts, day)
			continue
		}
		if now.Sub(t) > g.retention {
			delete(g.counts, day)
		}
	}
}
