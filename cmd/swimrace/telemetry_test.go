package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"

	"swimrace/internal/game"
	"swimrace/pkg/logger"
	"swimrace/pkg/metrics"
)

func counterSum(reg *prometheus.Registry, name string) float64 {
	mfs, err := reg.Gather()
	convey.So(err, convey.ShouldBeNil)
	total := 0.0
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if m.GetCounter() != nil {
				total += m.GetCounter().GetValue()
			}
			if m.GetHistogram() != nil {
				total += float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return total
}

func TestSubscribeTelemetry(t *testing.T) {
	convey.Convey("Given a simulation with telemetry subscribed", t, func() {
		var logs bytes.Buffer
		reg := prometheus.NewRegistry()
		m := metrics.NewManager(metrics.WithPrometheusRegistry(reg))
		bus := game.NewEventBus()
		subscribeTelemetry(context.Background(), bus, logger.New(&logs), m)

		sim, err := game.NewSimulation(game.WithEventBus(bus))
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When a race is started, stroked and won by the player", func() {
			sim.RequestStart()
			sim.Tick(0.016)
			convey.So(sim.State(), convey.ShouldEqual, game.StateRacing)
			for i := 0; i < 10; i++ {
				sim.Stroke(game.FirstPlayer)
			}
			for i := 0; i < 400 && sim.State() == game.StateRacing; i++ {
				sim.Tick(0.1)
			}

			convey.Convey("Then announcements are logged with the race id", func() {
				out := logs.String()
				convey.So(out, convey.ShouldContainSubstring, game.StatusStarted)
				convey.So(out, convey.ShouldContainSubstring, "race_id="+sim.RaceID().String())
				convey.So(out, convey.ShouldContainSubstring, "race finished")
			})

			convey.Convey("Then the race metrics are recorded", func() {
				convey.So(counterSum(reg, "swimrace_race_started_total"), convey.ShouldEqual, 1)
				convey.So(counterSum(reg, "swimrace_strokes_total"), convey.ShouldEqual, 10)
				convey.So(counterSum(reg, "swimrace_race_finished_total"), convey.ShouldEqual, 1)
				convey.So(counterSum(reg, "swimrace_race_duration_seconds"), convey.ShouldEqual, 1)
			})
		})
	})
}
