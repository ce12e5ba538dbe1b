package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"swimrace/internal/assets"
	"swimrace/internal/audio"
	"swimrace/internal/config"
	"swimrace/internal/debugsrv"
	"swimrace/internal/desktop"
	"swimrace/internal/game"
	"swimrace/pkg/logger"
	"swimrace/pkg/metrics"
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	m := metrics.Get()
	bus := game.NewEventBus()
	subscribeTelemetry(ctx, bus, log.Named("race"), m)

	sim, err := game.NewSimulation(
		game.WithEventBus(bus),
		game.WithPool(cfg.Pool()),
		game.WithRace(cfg.Race()),
		game.WithCamera(cfg.Camera()),
	)
	if err != nil {
		log.Fatal(ctx, "failed to create simulation", logger.Error(err))
	}

	snapshots := &game.SnapshotBuffer{}
	snapshots.Publish(sim.Snapshot())
	if cfg.DebugAddr != "" {
		srv := debugsrv.New(snapshots, metrics.GetRegistry(), log.Named("debugsrv"))
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.DebugAddr); err != nil && !errors.Is(err, context.Canceled) {
				log.Warn(ctx, "debug server stopped (continuing without it)", logger.Error(err))
			}
		}()
	}

	if cfg.AudioEnabled {
		snd, err := audio.New(0)
		if err != nil {
			log.Warn(ctx, "audio init failed (continuing without sound)", logger.Error(err))
		}
		snd.Attach(bus)
	}

	var textures *assets.Loader
	if cfg.TexturesEnabled {
		textures = assets.NewLoader(cfg.AssetDir, log.Named("assets"),
			assets.WithFailureHook(func(string, error) { m.TextureFailure() }))
	}

	err = desktop.Run(ctx, desktop.Options{
		Sim:       sim,
		Width:     cfg.WindowWidth,
		Height:    cfg.WindowHeight,
		Textures:  textures,
		Snapshots: snapshots,
		Metrics:   m,
		Log:       log.Named("desktop"),
	})
	if err != nil {
		log.Fatal(ctx, "desktop loop failed", logger.Error(err))
	}
	_ = logger.Sync()
}
