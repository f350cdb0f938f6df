package config_test

import (
	"errors"
	"testing"

	"github.com/okian/tagtrend/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":3000")
			convey.So(cfg.DataPath, convey.ShouldEqual, "new.csv")
			convey.So(cfg.TopN, convey.ShouldEqual, 10)
			convey.So(cfg.AnchorYear, convey.ShouldEqual, 2023)
			convey.So(cfg.YearSpan, convey.ShouldEqual, 3)
			convey.So(cfg.BatchSize, convey.ShouldEqual, 1000)
			convey.So(cfg.DefaultGrowth, convey.ShouldEqual, 0.15)
			convey.So(cfg.Seed, convey.ShouldEqual, 0)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("And the year window should start at the anchor year", func() {
			convey.So(cfg.Years(), convey.ShouldResemble, []int{2023, 2024, 2025})
		})
	})

	convey.Convey("Given a config with a non-positive year span", t, func() {
		cfg := config.New()
		cfg.YearSpan = 0

		convey.Convey("Then the window should be empty and validation should fail", func() {
			convey.So(cfg.Years(), convey.ShouldBeNil)
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one invalid field each", t, func() {
		cases := map[string]func(c *config.Config){
			"addr must not be empty":              func(c *config.Config) { c.Addr = " " },
			"data_path must not be empty":         func(c *config.Config) { c.DataPath = "" },
			"top_n must be positive":              func(c *config.Config) { c.TopN = 0 },
			"max_tags_limit must be positive":     func(c *config.Config) { c.MaxTagsLimit = -1 },
			"batch_size must be positive":         func(c *config.Config) { c.BatchSize = 0 },
			"progress_every must not be negative": func(c *config.Config) { c.ProgressEvery = -5 },
		}

		for msg, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()

			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, msg)
		}
	})
}
