package cache_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	cache "github.com/vizor-ai/vizor/internal/adapters/cache"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLRUStore(t *testing.T) {
	Convey("Given a store with a short TTL", t, func() {
		ctx := context.Background()
		store := cache.NewLRUStore[string](
			cache.WithName("test"),
			cache.WithCapacity(10),
			cache.WithTTL(50*time.Millisecond),
		)

		Convey("When setting and getting a value", func() {
			store.Set(ctx, "k", "v")
			got, ok := store.Get(ctx, "k")

			Convey("Then the value is returned", func() {
				So(ok, ShouldBeTrue)
				So(got, ShouldEqual, "v")
				So(store.Len(ctx), ShouldEqual, 1)
			})
		})

		Convey("When the TTL elapses", func() {
			store.Set(ctx, "k", "v")
			time.Sleep(80 * time.Millisecond)
			_, ok := store.Get(ctx, "k")

			Convey("Then the entry is gone", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a missing key is requested", func() {
			_, ok := store.Get(ctx, "absent")

			Convey("Then the lookup misses", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When purging", func() {
			store.Set(ctx, "a", "1")
			store.Set(ctx, "b", "2")
			store.Purge(ctx)

			Convey("Then the store is empty", func() {
				So(store.Len(ctx), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a store with a tight capacity", t, func() {
		ctx := context.Background()
		store := cache.NewLRUStore[int](
			cache.WithName("test"),
			cache.WithCapacity(3),
			cache.WithTTL(time.Minute),
		)

		Convey("When writing past capacity", func() {
			for i := 0; i < 5; i++ {
				store.Set(ctx, fmt.Sprintf("k%d", i), i)
			}

			Convey("Then the oldest entries are evicted", func() {
				So(store.Len(ctx), ShouldEqual, 3)
				_, ok := store.Get(ctx, "k0")
				So(ok, ShouldBeFalse)
				got, ok := store.Get(ctx, "k4")
				So(ok, ShouldBeTrue)
				So(got, ShouldEqual, 4)
			})
		})
	})
}
