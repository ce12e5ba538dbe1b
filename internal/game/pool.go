package game

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidLane is returned for lane indices outside the pool.
var ErrInvalidLane = errors.New("invalid lane")

// PoolGeometry describes the basin and answers the spatial queries the
// race relies on. Start and finish lines share CollisionRadius so the
// start trigger and finish check agree on the water's edge.
type PoolGeometry struct {
	Anchor          mgl32.Vec3
	Length          float32 // along x, the racing direction
	Width           float32 // along z
	Depth           float32
	WallThickness   float32
	DeckBorder      float32
	DeckThickness   float32
	WaterThickness  float32
	WaterAlpha      float32
	GroundDrop      float32
	LaneCount       int
	CollisionRadius float32
	StartInset      float32
}

func DefaultPool() PoolGeometry {
	return PoolGeometry{
		Anchor:          PoolAnchor,
		Length:          PoolLength,
		Width:           PoolWidth,
		Depth:           PoolDepth,
		WallThickness:   PoolWallThickness,
		DeckBorder:      PoolDeckBorder,
		DeckThickness:   PoolDeckThickness,
		WaterThickness:  PoolWaterThickness,
		WaterAlpha:      PoolWaterAlpha,
		GroundDrop:      PoolGroundDrop,
		LaneCount:       PoolLaneCount,
		CollisionRadius: CollisionRadius,
		StartInset:      StartInset,
	}
}

func (p PoolGeometry) Validate() error {
	switch {
	case p.Length <= 0 || p.Width <= 0:
		return fmt.Errorf("pool size %.1fx%.1f must be positive", p.Length, p.Width)
	case p.LaneCount <= 0:
		return fmt.Errorf("pool lane count %d must be positive", p.LaneCount)
	case p.CollisionRadius*2 >= p.Length || p.CollisionRadius*2 >= p.Width:
		return fmt.Errorf("collision radius %.2f does not fit the pool", p.CollisionRadius)
	case p.StartInset < p.CollisionRadius:
		return fmt.Errorf("start inset %.2f is outside the water", p.StartInset)
	}
	return nil
}

func (p PoolGeometry) HalfLength() float32 { return p.Length / 2 }
func (p PoolGeometry) HalfWidth() float32  { return p.Width / 2 }

// Local converts a world point into pool-local coordinates.
func (p PoolGeometry) Local(world mgl32.Vec3) mgl32.Vec3 { return world.Sub(p.Anchor) }

// IsInPool reports whether a world point is inside the water footprint,
// inset by the collision radius.
func (p PoolGeometry) IsInPool(world mgl32.Vec3) bool {
	l := p.Local(world)
	return float32(math.Abs(float64(l.X()))) <= p.HalfLength()-p.CollisionRadius &&
		float32(math.Abs(float64(l.Z()))) <= p.HalfWidth()-p.CollisionRadius
}

func (p PoolGeometry) LaneWidth() float32 { return p.Width / float32(p.LaneCount) }

func (p PoolGeometry) ValidLane(lane int) bool { return lane >= 0 && lane < p.LaneCount }

// LaneCenterZ returns the world z of a lane's centre line. Lanes are
// numbered from the pool's -z edge.
func (p PoolGeometry) LaneCenterZ(lane int) (float32, error) {
	if !p.ValidLane(lane) {
		return 0, fmt.Errorf("lane %d of %d: %w", lane, p.LaneCount, ErrInvalidLane)
	}
	return p.laneZ(lane), nil
}

func (p PoolGeometry) laneZ(lane int) float32 {
	return p.Anchor.Z() - p.HalfWidth() + p.LaneWidth()*(float32(lane)+0.5)
}

// StartX is the world x where swimmers line up.
func (p PoolGeometry) StartX() float32 { return p.Anchor.X() - p.HalfLength() + p.StartInset }

// FinishX is the world x of the finish line.
func (p PoolGeometry) FinishX() float32 {
	return p.Anchor.X() + p.HalfLength() - p.CollisionRadius
}

// MinX is the lowest x a swimmer may reach.
func (p PoolGeometry) MinX() float32 {
	return p.Anchor.X() - p.HalfLength() + p.CollisionRadius
}

// GroundTopY is the world height of the surrounding floor and the shadow plane.
func (p PoolGeometry) GroundTopY() float32 { return -p.GroundDrop }

// WaterSurfaceY is the world height of the water's top face.
func (p PoolGeometry) WaterSurfaceY() float32 {
	return p.Anchor.Y() + p.waterCenterY() + p.WaterThickness/2
}

func (p PoolGeometry) waterCenterY() float32 { return -p.WaterThickness/2 - 0.05 }
