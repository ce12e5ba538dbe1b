package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"swimrace/internal/config"
	"swimrace/internal/game"
)

var configEnvVars = []string{
	"SWIMRACE_CONFIG",
	"SWIMRACE_LANE_COUNT",
	"SWIMRACE_PLAYER_LANE",
	"SWIMRACE_SECOND_PLAYER_LANE",
	"SWIMRACE_STROKE_BOOST",
	"SWIMRACE_DEBUG_ADDR",
	"SWIMRACE_AUDIO_ENABLED",
	"SWIMRACE_ZOOM_MIN",
	"SWIMRACE_ZOOM_MAX",
	"SWIMRACE_SEED",
}

func clearConfigEnvVars() {
	for _, v := range configEnvVars {
		_ = os.Unsetenv(v)
	}
}

func createTempConfigFile(content string) string {
	f, err := os.CreateTemp("", "swimrace-*.yaml")
	if err != nil {
		panic(err)
	}
	defer func() { _ = f.Close() }()
	if _, err := f.WriteString(content); err != nil {
		panic(err)
	}
	return f.Name()
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then the venue constants are reproduced", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LaneCount, convey.ShouldEqual, 5)
				convey.So(cfg.PlayerLane, convey.ShouldEqual, 2)
				convey.So(cfg.SecondPlayerLane, convey.ShouldEqual, 1)
				convey.So(cfg.PoolLength, convey.ShouldEqual, 300)
				convey.So(cfg.StrokeBoost, convey.ShouldEqual, 2.5)
				convey.So(cfg.ZoomMin, convey.ShouldEqual, 3)
				convey.So(cfg.ZoomMax, convey.ShouldEqual, 60)
				convey.So(cfg.Pool(), convey.ShouldResemble, game.DefaultPool())
				convey.So(cfg.Race(), convey.ShouldResemble, game.DefaultRace())
			})
		})

		convey.Convey("When environment variables are set", func() {
			_ = os.Setenv("SWIMRACE_STROKE_BOOST", "3.5")
			_ = os.Setenv("SWIMRACE_DEBUG_ADDR", "")
			_ = os.Setenv("SWIMRACE_AUDIO_ENABLED", "false")
			_ = os.Setenv("SWIMRACE_SEED", "42")

			cfg, err := config.Load(ctx)

			convey.Convey("Then they override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.StrokeBoost, convey.ShouldEqual, 3.5)
				convey.So(cfg.DebugAddr, convey.ShouldEqual, "")
				convey.So(cfg.AudioEnabled, convey.ShouldBeFalse)
				convey.So(cfg.Race().Seed, convey.ShouldEqual, 42)
			})
		})

		convey.Convey("When a YAML file and env are both present", func() {
			tmp := createTempConfigFile(`
lane_count: 6
player_lane: 4
second_player_lane: 0
pool_width: 180
`)
			defer func() { _ = os.Remove(tmp) }()
			_ = os.Setenv("SWIMRACE_CONFIG", tmp)
			_ = os.Setenv("SWIMRACE_PLAYER_LANE", "5")

			cfg, err := config.Load(ctx)

			convey.Convey("Then env wins over the file and the file over defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LaneCount, convey.ShouldEqual, 6)
				convey.So(cfg.PlayerLane, convey.ShouldEqual, 5)
				convey.So(cfg.SecondPlayerLane, convey.ShouldEqual, 0)
				convey.So(cfg.PoolWidth, convey.ShouldEqual, 180)
				convey.So(cfg.PoolLength, convey.ShouldEqual, 300)
			})
		})

		convey.Convey("When the file is malformed", func() {
			tmp := createTempConfigFile(`lane_count: [`)
			defer func() { _ = os.Remove(tmp) }()
			_ = os.Setenv("SWIMRACE_CONFIG", tmp)

			cfg, err := config.Load(ctx)

			convey.Convey("Then loading fails with ErrLoadConfig", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the file does not exist", func() {
			_ = os.Setenv("SWIMRACE_CONFIG", "/non/existent/swimrace.yaml")

			_, err := config.Load(ctx)

			convey.Convey("Then loading fails with ErrLoadConfig", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When both players share a lane", func() {
			_ = os.Setenv("SWIMRACE_PLAYER_LANE", "1")

			_, err := config.Load(ctx)

			convey.Convey("Then validation fails with ErrInvalidConfig", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the zoom range is inverted", func() {
			_ = os.Setenv("SWIMRACE_ZOOM_MIN", "80")
			_ = os.Setenv("SWIMRACE_ZOOM_MAX", "10")

			_, err := config.Load(ctx)

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "zoom_min")
			})
		})

		convey.Convey("When there is a single lane", func() {
			_ = os.Setenv("SWIMRACE_LANE_COUNT", "1")

			_, err := config.Load(ctx)

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestConfigBuilders(t *testing.T) {
	convey.Convey("Given default config", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Camera carries the configured limits", func() {
			cfg.ZoomMin, cfg.ZoomMax, cfg.PitchLimit = 5, 40, 45
			cam := cfg.Camera()
			convey.So(cam.MinDistance, convey.ShouldEqual, 5)
			convey.So(cam.MaxDistance, convey.ShouldEqual, 40)
			convey.So(cam.PitchLimit, convey.ShouldEqual, 45)
		})

		convey.Convey("A simulation can be built from it", func() {
			sim, err := game.NewSimulation(
				game.WithPool(cfg.Pool()),
				game.WithRace(cfg.Race()),
				game.WithCamera(cfg.Camera()),
			)
			convey.So(err, convey.ShouldBeNil)
			convey.So(sim.State(), convey.ShouldEqual, game.StateIdle)
		})
	})
}
