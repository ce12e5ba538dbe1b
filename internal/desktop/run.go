// Package desktop hosts the race in a GLFW window: it maps input to game
// commands, steps the simulation and draws each frame.
package desktop

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"swimrace/internal/assets"
	"swimrace/internal/game"
	"swimrace/internal/render"
	"swimrace/pkg/logger"
	"swimrace/pkg/metrics"
)

// maxFrameStep caps dt so a stalled frame cannot teleport swimmers.
const maxFrameStep = 0.1

type Options struct {
	Sim    *game.Simulation
	Width  int
	Height int
	// Textures is nil when textures are disabled.
	Textures  *assets.Loader
	Snapshots *game.SnapshotBuffer
	Metrics   *metrics.Manager
	Log       logger.Logger
}

// Run opens the window and blocks until it closes, Escape is pressed or
// ctx is cancelled. It must be called from the main goroutine.
func Run(ctx context.Context, opts Options) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	sim := opts.Sim

	window, err := initWindow(opts.Width, opts.Height)
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	log.Info(ctx, "OpenGL ready", logger.String("version", gl.GoStr(gl.GetString(gl.VERSION))))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Disable(gl.CULL_FACE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.ClearColor(0.55, 0.75, 0.95, 1.0)

	rend, err := render.NewRenderer()
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer rend.Destroy()

	if opts.Textures != nil {
		rend.UploadTextures(opts.Textures.LoadAll(ctx, game.TextureKeys))
	}

	window.SetTitle(titleFor(sim.Status()))
	sim.Bus().Subscribe(game.EventStatus, func(e game.Event) {
		window.SetTitle(titleFor(e.Message))
	})
	fmt.Fprint(os.Stdout, helpText)

	input := NewInput()
	input.Attach(window)
	frames := game.NewFrameBuilder(sim)

	start := glfw.GetTime()
	last := start
	for !window.ShouldClose() {
		if ctx.Err() != nil {
			break
		}
		now := glfw.GetTime()
		dt := now - last
		last = now
		if dt > maxFrameStep {
			dt = maxFrameStep
		}

		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
			continue
		}

		for _, cmd := range input.Poll(window) {
			if err := sim.Apply(cmd); err != nil {
				log.Warn(ctx, "Command rejected", logger.Int("kind", int(cmd.Kind)), logger.Error(err))
			}
		}

		tickStart := time.Now()
		sim.Tick(dt)
		if opts.Metrics != nil {
			opts.Metrics.Tick(time.Since(tickStart).Seconds())
		}
		if opts.Snapshots != nil {
			opts.Snapshots.Publish(sim.Snapshot())
		}

		fbW, fbH := window.GetFramebufferSize()
		if fbW <= 0 || fbH <= 0 {
			continue
		}

		view := sim.Camera().View(sim.Pool())
		rend.BeginFrame(view, sim.Light(), fbW, fbH)
		if err := frames.Build(view, now-start, rend); err != nil {
			return fmt.Errorf("build frame: %w", err)
		}
		if opts.Metrics != nil {
			opts.Metrics.DrawCalls(rend.DrawCount())
		}

		window.SwapBuffers()
	}
	return nil
}
