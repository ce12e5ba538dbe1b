// Package config defines process configuration and its koanf loader.
//
// Defaults reproduce the venue's fixed constants; every field can be
// overridden from a YAML file or SWIMRACE_* environment variables.
package config

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"swimrace/internal/game"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	WindowWidth  int `koanf:"window_width"`
	WindowHeight int `koanf:"window_height"`

	// AssetDir holds <key>.jpg textures.
	AssetDir        string `koanf:"asset_dir"`
	TexturesEnabled bool   `koanf:"textures_enabled"`
	AudioEnabled    bool   `koanf:"audio_enabled"`

	// DebugAddr serves /status, /healthz and /metrics; empty disables it.
	DebugAddr string `koanf:"debug_addr"`

	// Seed salts AI swimmer and crowd hashes; 0 gives the stock venue.
	Seed uint32 `koanf:"seed"`

	PoolLength      float32 `koanf:"pool_length"`
	PoolWidth       float32 `koanf:"pool_width"`
	PoolDepth       float32 `koanf:"pool_depth"`
	WallThickness   float32 `koanf:"wall_thickness"`
	DeckBorder      float32 `koanf:"deck_border"`
	LaneCount       int     `koanf:"lane_count"`
	PoolX           float32 `koanf:"pool_x"`
	PoolY           float32 `koanf:"pool_y"`
	PoolZ           float32 `koanf:"pool_z"`
	StartInset      float32 `koanf:"start_inset"`
	CollisionRadius float32 `koanf:"collision_radius"`

	PlayerLane       int     `koanf:"player_lane"`
	SecondPlayerLane int     `koanf:"second_player_lane"`
	StrokeBoost      float32 `koanf:"stroke_boost"`
	SpeedDecay       float32 `koanf:"speed_decay"`
	MaxSpeed         float32 `koanf:"max_speed"`
	AIMinSpeed       float32 `koanf:"ai_min_speed"`
	AIMaxSpeed       float32 `koanf:"ai_max_speed"`
	Gravity          float32 `koanf:"gravity"`
	YawStep          float32 `koanf:"yaw_step"`
	ScaleBonus       float32 `koanf:"scale_bonus"`

	MouseSensitivity float32 `koanf:"mouse_sensitivity"`
	ZoomMin          float32 `koanf:"zoom_min"`
	ZoomMax          float32 `koanf:"zoom_max"`
	PitchLimit       float32 `koanf:"pitch_limit"`
}

// New returns a Config holding defaults. ctx is accepted first to keep
// the package convention; it is currently unused.
func New(_ context.Context) *Config {
	pool := game.DefaultPool()
	race := game.DefaultRace()
	return &Config{
		LogLevel:        "info",
		WindowWidth:     game.WindowWidth,
		WindowHeight:    game.WindowHeight,
		AssetDir:        "assets",
		TexturesEnabled: true,
		AudioEnabled:    true,
		DebugAddr:       "127.0.0.1:9464",

		PoolLength:      pool.Length,
		PoolWidth:       pool.Width,
		PoolDepth:       pool.Depth,
		WallThickness:   pool.WallThickness,
		DeckBorder:      pool.DeckBorder,
		LaneCount:       pool.LaneCount,
		PoolX:           pool.Anchor.X(),
		PoolY:           pool.Anchor.Y(),
		PoolZ:           pool.Anchor.Z(),
		StartInset:      pool.StartInset,
		CollisionRadius: pool.CollisionRadius,

		PlayerLane:       race.PlayerLane,
		SecondPlayerLane: race.SecondPlayerLane,
		StrokeBoost:      race.StrokeBoost,
		SpeedDecay:       race.SpeedDecay,
		MaxSpeed:         race.MaxSpeed,
		AIMinSpeed:       race.AIMinSpeed,
		AIMaxSpeed:       race.AIMaxSpeed,
		Gravity:          race.Gravity,
		YawStep:          race.YawStep,
		ScaleBonus:       race.ScaleBonus,

		MouseSensitivity: game.MouseSensitivity,
		ZoomMin:          game.MinDistance,
		ZoomMax:          game.MaxDistance,
		PitchLimit:       game.PitchLimit,
	}
}

// Validate reports the first inconsistent setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}
	switch {
	case c.WindowWidth <= 0 || c.WindowHeight <= 0:
		return invalid("window %dx%d", c.WindowWidth, c.WindowHeight)
	case c.LaneCount < 2:
		return invalid("lane_count %d must be at least 2", c.LaneCount)
	case c.PoolLength <= 0 || c.PoolWidth <= 0 || c.PoolDepth <= 0:
		return invalid("pool size %.1fx%.1fx%.1f must be positive", c.PoolLength, c.PoolWidth, c.PoolDepth)
	case c.CollisionRadius <= 0 || c.CollisionRadius >= c.PoolWidth/2:
		return invalid("collision_radius %.2f outside (0, %.2f)", c.CollisionRadius, c.PoolWidth/2)
	case c.PlayerLane < 0 || c.PlayerLane >= c.LaneCount:
		return invalid("player_lane %d outside [0, %d)", c.PlayerLane, c.LaneCount)
	case c.SecondPlayerLane < 0 || c.SecondPlayerLane >= c.LaneCount:
		return invalid("second_player_lane %d outside [0, %d)", c.SecondPlayerLane, c.LaneCount)
	case c.PlayerLane == c.SecondPlayerLane:
		return invalid("player lanes must differ, both %d", c.PlayerLane)
	case c.AIMinSpeed > c.AIMaxSpeed:
		return invalid("ai_min_speed %.1f > ai_max_speed %.1f", c.AIMinSpeed, c.AIMaxSpeed)
	case c.ZoomMin > c.ZoomMax:
		return invalid("zoom_min %.1f > zoom_max %.1f", c.ZoomMin, c.ZoomMax)
	case c.MaxSpeed <= 0 || c.StrokeBoost <= 0:
		return invalid("max_speed and stroke_boost must be positive")
	}
	if err := c.Pool().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Pool builds the pool geometry from the configured values.
func (c *Config) Pool() game.PoolGeometry {
	p := game.DefaultPool()
	p.Anchor = mgl32.Vec3{c.PoolX, c.PoolY, c.PoolZ}
	p.Length = c.PoolLength
	p.Width = c.PoolWidth
	p.Depth = c.PoolDepth
	p.WallThickness = c.WallThickness
	p.DeckBorder = c.DeckBorder
	p.LaneCount = c.LaneCount
	p.StartInset = c.StartInset
	p.CollisionRadius = c.CollisionRadius
	return p
}

// Race builds the race tunables.
func (c *Config) Race() game.RaceParams {
	r := game.DefaultRace()
	r.PlayerLane = c.PlayerLane
	r.SecondPlayerLane = c.SecondPlayerLane
	r.StrokeBoost = c.StrokeBoost
	r.SpeedDecay = c.SpeedDecay
	r.MaxSpeed = c.MaxSpeed
	r.AIMinSpeed = c.AIMinSpeed
	r.AIMaxSpeed = c.AIMaxSpeed
	r.Gravity = c.Gravity
	r.YawStep = c.YawStep
	r.ScaleBonus = c.ScaleBonus
	r.Seed = c.Seed
	return r
}

// Camera builds the orbit camera.
func (c *Config) Camera() game.OrbitCamera {
	cam := game.NewOrbitCamera()
	cam.Sensitivity = c.MouseSensitivity
	cam.MinDistance = c.ZoomMin
	cam.MaxDistance = c.ZoomMax
	cam.PitchLimit = c.PitchLimit
	return cam
}
