package main

import (
	"context"
	"strconv"

	"swimrace/internal/game"
	"swimrace/pkg/logger"
	"swimrace/pkg/metrics"
)

// subscribeTelemetry logs race announcements and records race metrics.
func subscribeTelemetry(ctx context.Context, bus *game.EventBus, log logger.Logger, m *metrics.Manager) {
	bus.Subscribe(game.EventStatus, func(e game.Event) {
		log.Info(ctx, e.Message, logger.String("race_id", e.RaceID.String()))
	})
	bus.Subscribe(game.EventRaceStarted, func(e game.Event) {
		log.Debug(ctx, "race started", logger.String("race_id", e.RaceID.String()))
		m.RaceStarted()
	})
	bus.Subscribe(game.EventRaceFinished, func(e game.Event) {
		log.Info(ctx, "race finished",
			logger.String("race_id", e.RaceID.String()),
			logger.Int("lane", e.Lane),
			logger.Float64("elapsed", e.Elapsed),
		)
		m.RaceFinished(e.Message, e.Elapsed)
	})
	bus.Subscribe(game.EventRaceReset, func(game.Event) {
		log.Debug(ctx, "race reset")
	})
	bus.Subscribe(game.EventStroke, func(e game.Event) {
		m.Stroke(strconv.Itoa(e.Lane))
	})
}
