package logger_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"swimrace/pkg/logger"
)

func TestLogger(t *testing.T) {
	convey.Convey("Given a logger writing to a buffer", t, func() {
		ctx := context.Background()
		_ = logger.Init()
		var buf bytes.Buffer
		log := logger.New(&buf)

		convey.Convey("When logging at info with fields", func() {
			log.Info(ctx, "race started", logger.String("race_id", "abc"), logger.Int("lane", 2))

			convey.Convey("Then the record carries message, fields and source", func() {
				out := buf.String()
				convey.So(out, convey.ShouldContainSubstring, "race started")
				convey.So(out, convey.ShouldContainSubstring, "race_id=abc")
				convey.So(out, convey.ShouldContainSubstring, "lane=2")
				convey.So(out, convey.ShouldContainSubstring, "logger_test.go")
			})
		})

		convey.Convey("When the level is raised to warn", func() {
			logger.SetLevel(slog.LevelWarn)
			defer logger.SetLevel(slog.LevelInfo)
			log.Info(ctx, "hidden")
			log.Warn(ctx, "shown", logger.Error(errors.New("boom")))

			convey.Convey("Then only the warning is written", func() {
				convey.So(buf.String(), convey.ShouldNotContainSubstring, "hidden")
				convey.So(buf.String(), convey.ShouldContainSubstring, "error=boom")
			})
		})

		convey.Convey("When using a named logger", func() {
			log.Named("sim").Info(ctx, "tick", logger.Float64("dt", 0.016))

			convey.Convey("Then fields are grouped under the name", func() {
				convey.So(buf.String(), convey.ShouldContainSubstring, "sim.dt=0.016")
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	convey.Convey("Given level names", t, func() {
		defer logger.SetLevel(slog.LevelInfo)

		convey.Convey("Known names are accepted in any case", func() {
			for _, lvl := range []string{"debug", "INFO", " warn ", "warning", "Error", ""} {
				convey.So(logger.SetLevelString(lvl), convey.ShouldBeNil)
			}
		})

		convey.Convey("Unknown names are rejected", func() {
			convey.So(logger.SetLevelString("loud"), convey.ShouldNotBeNil)
		})
	})
}

func TestGet(t *testing.T) {
	convey.Convey("Given an initialized global logger", t, func() {
		convey.So(logger.Init(), convey.ShouldBeNil)

		convey.Convey("Get and Named return usable loggers", func() {
			convey.So(logger.Get(), convey.ShouldNotBeNil)
			convey.So(logger.Named("test"), convey.ShouldNotBeNil)
			convey.So(logger.Sync(), convey.ShouldBeNil)
		})

		convey.Convey("Nop swallows fatal without exiting", func() {
			convey.So(func() { logger.Nop().Fatal(context.Background(), "ignored") }, convey.ShouldNotPanic)
		})
	})
}
