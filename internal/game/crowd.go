package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CrowdLayout places spectators on tiered stands along both long sides
// of the pool. Nothing is stored: every slot is a pure function of its
// indices, so the crowd is identical from frame to frame.
type CrowdLayout struct {
	Steps      int
	Columns    int
	StepHeight float32
	StepDepth  float32
	Span       float32 // fraction of the pool length covered by columns
	Scale      float32
	StandExtra float32 // stand length beyond the pool length
	AisleGap   float32 // clearance between pool wall and first step
	Salt       uint32  // added to every seat seed
}

func DefaultCrowd() CrowdLayout {
	return CrowdLayout{
		Steps:      CrowdSteps,
		Columns:    CrowdColumns,
		StepHeight: CrowdStepHeight,
		StepDepth:  CrowdStepDepth,
		Span:       CrowdSpan,
		Scale:      CrowdScale,
		StandExtra: CrowdStandExtra,
		AisleGap:   CrowdAisleGap,
	}
}

// Spectator is one evaluated crowd slot.
type Spectator struct {
	Side, Step, Column int
	Seed               uint32
	Position           mgl32.Vec3 // world
	Tint               mgl32.Vec3
	Yaw                float32
	Phase              float64
}

// Size is the number of spectators the layout produces.
func (c CrowdLayout) Size() int { return 2 * c.Steps * c.Columns }

func sideSign(side int) float32 {
	if side == 0 {
		return 1
	}
	return -1
}

func (c CrowdLayout) baseOffsetZ(pool PoolGeometry) float32 {
	return pool.HalfWidth() + pool.WallThickness + c.AisleGap
}

// StepBox returns the pool-local centre and size of one stand step.
func (c CrowdLayout) StepBox(pool PoolGeometry, side, step int) (center, size mgl32.Vec3) {
	ground := pool.GroundTopY()
	centerZ := c.baseOffsetZ(pool) + c.StepDepth*(float32(step)+0.5)
	center = mgl32.Vec3{0, ground + c.StepHeight*0.5 + c.StepHeight*float32(step), sideSign(side) * centerZ}
	size = mgl32.Vec3{pool.Length + c.StandExtra, c.StepHeight, c.StepDepth}
	return center, size
}

// Slot computes the fixed part of a spectator: seat, tint and cheer phase.
// Yaw is left zero; see Each.
func (c CrowdLayout) Slot(pool PoolGeometry, side, step, col int) Spectator {
	seed := uint32(side*100000+step*1000+col) + c.Salt

	spanX := pool.Length * c.Span
	startX := -spanX * 0.5
	colStep := float32(0)
	if c.Columns > 1 {
		colStep = spanX / float32(c.Columns-1)
	}
	stepCenterZ := c.baseOffsetZ(pool) + c.StepDepth*(float32(step)+0.5)
	stepTopY := pool.GroundTopY() + c.StepHeight*float32(step+1)
	rowZ := stepCenterZ - c.StepDepth*CrowdRowPullback

	jitterX := (Hash01(seed+5) - 0.5) * 0.6
	jitterZ := (Hash01(seed+11) - 0.5) * 0.4
	staggerX := float32(0.2)
	if col%2 == 0 {
		staggerX = -0.2
	}
	staggerZ := float32(0.15)
	if step%2 == 0 {
		staggerZ = -0.15
	}

	local := mgl32.Vec3{
		startX + float32(col)*colStep + jitterX + staggerX,
		stepTopY + CrowdFootLift,
		sideSign(side) * (rowZ + jitterZ + staggerZ),
	}
	return Spectator{
		Side:     side,
		Step:     step,
		Column:   col,
		Seed:     seed,
		Position: pool.Anchor.Add(local),
		Tint:     hashTint(seed, 17, 23, 31),
		Phase:    float64(Hash01(seed+41)) * twoPi,
	}
}

// FaceToward returns the yaw in degrees that turns a rig at from toward
// the nearest target on the horizontal plane, or 0 when none is distinct.
func FaceToward(from mgl32.Vec3, targets ...mgl32.Vec3) float32 {
	best := float32(math.MaxFloat32)
	var dx, dz float32
	found := false
	for _, t := range targets {
		x, z := t.X()-from.X(), t.Z()-from.Z()
		d := x*x + z*z
		if d < best {
			best, dx, dz, found = d, x, z, true
		}
	}
	if !found || best <= 1e-6 {
		return 0
	}
	return mgl32.RadToDeg(float32(math.Atan2(float64(dx), float64(-dz))))
}

// Each visits every spectator in side, step, column order with yaw
// pointed at the nearest of targets.
func (c CrowdLayout) Each(pool PoolGeometry, targets []mgl32.Vec3, fn func(Spectator)) {
	for side := 0; side < 2; side++ {
		for step := 0; step < c.Steps; step++ {
			for col := 0; col < c.Columns; col++ {
				sp := c.Slot(pool, side, step, col)
				sp.Yaw = FaceToward(sp.Position, targets...)
				fn(sp)
			}
		}
	}
}
