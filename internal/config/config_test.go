package config_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/okian/peloton/internal/config"
	"github.com/okian/peloton/internal/domain/archetype"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.DataDir, convey.ShouldEqual, "./data")
			convey.So(cfg.DBPath, convey.ShouldEqual, "./pcm.db")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 100_000)
			convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 100)
			convey.So(cfg.SeasonYear, convey.ShouldEqual, 1992)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a config", t, func() {
		cfg := config.New()

		convey.Convey("An empty data dir is rejected", func() {
			cfg.DataDir = " "
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("A zero leaderboard limit is rejected", func() {
			cfg.MaxLeaderboardLimit = 0
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("Archetype overrides are parsed case-insensitively", func() {
			cfg.ArchetypeOverrides = map[string]string{"r1": "northern classics", "r2": "Climber"}
			got, err := cfg.Overrides()
			convey.So(err, convey.ShouldBeNil)
			convey.So(got["r1"], convey.ShouldEqual, archetype.NorthernClassics)
			convey.So(got["r2"], convey.ShouldEqual, archetype.Climber)
		})

		convey.Convey("An unknown archetype label is rejected", func() {
			cfg.ArchetypeOverrides = map[string]string{"r1": "Rouleur"}
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(errors.Is(err, archetype.ErrUnknown), convey.ShouldBeTrue)
		})
	})
}
