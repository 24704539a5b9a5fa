package config_test

import (
	"context"
	"errors"
	"testing"

	config "github.com/vizor-ai/vizor/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewDefaults(t *testing.T) {
	Convey("Given a default config", t, func() {
		cfg := config.New()

		Convey("Then it validates", func() {
			So(cfg.Validate(), ShouldBeNil)
		})

		Convey("Then the reference values are set", func() {
			So(cfg.Addr, ShouldEqual, ":9090")
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.BudgetCeiling, ShouldEqual, 50)
			So(cfg.ResultTTLHours, ShouldEqual, 24)
			So(cfg.PoolTTLHours, ShouldEqual, 168)
			So(cfg.MaxRetries, ShouldEqual, 3)
		})

		Convey("Then the weight table covers all five sources", func() {
			So(len(cfg.Weights), ShouldEqual, 5)
			sum := 0.0
			for _, w := range cfg.Weights {
				sum += w
			}
			So(sum, ShouldAlmostEqual, 1.0, 1e-9)
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given a default config", t, func() {
		cfg := config.New()

		Convey("When the address is cleared", func() {
			cfg.Addr = ""

			Convey("Then validation fails", func() {
				So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When the budget ceiling is zero", func() {
			cfg.BudgetCeiling = 0

			Convey("Then validation fails", func() {
				So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When a TTL is negative", func() {
			cfg.PoolTTLHours = -1

			Convey("Then validation fails", func() {
				So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When the worker count is zero", func() {
			cfg.WorkerCount = 0

			Convey("Then validation fails", func() {
				So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a clean environment", t, func() {
		ctx := context.Background()

		Convey("When loading without overrides", func() {
			cfg, err := config.Load(ctx)

			Convey("Then defaults are returned", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9090")
			})
		})

		Convey("When env vars override fields", func() {
			t.Setenv("VIZOR_ADDR", ":7070")
			t.Setenv("VIZOR_BUDGET_CEILING", "5")
			t.Setenv("VIZOR_LOG_LEVEL", "debug")
			cfg, err := config.Load(ctx)

			Convey("Then the overrides win", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.BudgetCeiling, ShouldEqual, 5)
				So(cfg.LogLevel, ShouldEqual, "debug")
			})
		})

		Convey("When an env override is invalid", func() {
			t.Setenv("VIZOR_BUDGET_CEILING", "-3")
			_, err := config.Load(ctx)

			Convey("Then loading fails validation", func() {
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}
