package budget_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	budget "github.com/vizor-ai/vizor/internal/domain/budget"
	. "github.com/smartystreets/goconvey/convey"
)

// movableClock lets tests step through days without sleeping.
type movableClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *movableClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *movableClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func TestDailyGovernor_TryReserve(t *testing.T) {
	Convey("Given a governor with a small ceiling", t, func() {
		ctx := context.Background()
		g := budget.NewDailyGovernor(budget.WithCeiling(3))

		Convey("When reserving within the ceiling", func() {
			So(g.TryReserve(ctx), ShouldBeTrue)
			So(g.TryReserve(ctx), ShouldBeTrue)
			So(g.TryReserve(ctx), ShouldBeTrue)

			Convey("Then the next reservation is denied", func() {
				So(g.TryReserve(ctx), ShouldBeFalse)
				So(g.UsedToday(ctx), ShouldEqual, 3)
			})

			Convey("And a denial does not consume a slot", func() {
				So(g.TryReserve(ctx), ShouldBeFalse)
				So(g.TryReserve(ctx), ShouldBeFalse)
				So(g.UsedToday(ctx), ShouldEqual, 3)
			})
		})

		Convey("When many goroutines race for the remaining slots", func() {
			racers := 50
			var granted atomic.Int64
			var wg sync.WaitGroup
			wg.Add(racers)
			for i := 0; i < racers; i++ {
				go func() {
					defer wg.Done()
					if g.TryReserve(ctx) {
						granted.Add(1)
					}
				}()
			}
			wg.Wait()

			Convey("Then exactly the ceiling is granted", func() {
				So(granted.Load(), ShouldEqual, 3)
				So(g.UsedToday(ctx), ShouldEqual, 3)
			})
		})
	})
}

func TestDailyGovernor_DayRollover(t *testing.T) {
	Convey("Given an exhausted governor with an injected clock", t, func() {
		ctx := context.Background()
		clock := &movableClock{t: time.Date(2026, 3, 10, 23, 50, 0, 0, time.UTC)}
		g := budget.NewDailyGovernor(
			budget.WithCeiling(2),
			budget.WithClock(clock.Now),
		)
		So(g.TryReserve(ctx), ShouldBeTrue)
		So(g.TryReserve(ctx), ShouldBeTrue)
		So(g.TryReserve(ctx), ShouldBeFalse)

		Convey("When the UTC date rolls over", func() {
			clock.Advance(20 * time.Minute)

			Convey("Then a fresh ceiling applies", func() {
				So(g.UsedToday(ctx), ShouldEqual, 0)
				So(g.TryReserve(ctx), ShouldBeTrue)
				So(g.UsedToday(ctx), ShouldEqual, 1)
			})
		})

		Convey("When well past the retention window", func() {
			clock.Advance(72 * time.Hour)
			g.Prune(ctx)

			Convey("Then old ledger entries are dropped and today is fresh", func() {
				So(g.UsedToday(ctx), ShouldEqual, 0)
				So(g.TryReserve(ctx), ShouldBeTrue)
			})
		})
	})
}

func TestDailyGovernor_Defaults(t *testing.T) {
	Convey("Given a governor with defaults", t, func() {
		g := budget.NewDailyGovernor()

		Convey("Then the reference ceiling applies", func() {
			So(g.Ceiling(), ShouldEqual, 50)
		})
	})
}
