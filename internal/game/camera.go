package game

import "github.com/go-gl/mathgl/mgl32"

// OrbitCamera circles the pool centre. Yaw and pitch are user offsets
// in degrees on top of a fixed elevated view.
type OrbitCamera struct {
	Yaw      float32
	Pitch    float32
	Distance float32

	Sensitivity float32
	PitchLimit  float32
	MinDistance float32
	MaxDistance float32
	ZoomStep    float32

	dragging    bool
	firstSample bool
	lastX       float64
	lastY       float64
}

func NewOrbitCamera() OrbitCamera {
	return OrbitCamera{
		Distance:    InitialDistance,
		Sensitivity: MouseSensitivity,
		PitchLimit:  PitchLimit,
		MinDistance: MinDistance,
		MaxDistance: MaxDistance,
		ZoomStep:    ZoomStep,
		firstSample: true,
	}
}

// BeginDrag starts rotating; the next cursor sample only seeds the position.
func (c *OrbitCamera) BeginDrag() {
	c.dragging = true
	c.firstSample = true
}

func (c *OrbitCamera) EndDrag() { c.dragging = false }

func (c *OrbitCamera) Dragging() bool { return c.dragging }

// Move feeds an absolute cursor position.
func (c *OrbitCamera) Move(x, y float64) {
	if !c.dragging {
		return
	}
	if c.firstSample {
		c.lastX, c.lastY = x, y
		c.firstSample = false
		return
	}
	dx := float32(x-c.lastX) * c.Sensitivity
	dy := float32(c.lastY-y) * c.Sensitivity
	c.lastX, c.lastY = x, y

	c.Yaw = wrapDegrees(c.Yaw + dx)
	c.Pitch = clampF(c.Pitch+dy, -c.PitchLimit, c.PitchLimit)
}

// Zoom applies a scroll delta. Distance is clamped on every change, so
// the out-of-range initial value snaps in on first scroll.
func (c *OrbitCamera) Zoom(dy float64) {
	c.Distance = clampF(c.Distance-float32(dy)*c.ZoomStep, c.MinDistance, c.MaxDistance)
}

// Recenter drops the user's orbit offsets.
func (c *OrbitCamera) Recenter() {
	c.Yaw, c.Pitch = 0, 0
	c.firstSample = true
}

// View is what the renderer needs to build its view matrix.
type View struct {
	Eye    mgl32.Vec3
	Center mgl32.Vec3
	Up     mgl32.Vec3
}

// View frames the pool from above one end, then applies the orbit offsets.
// Zooming shrinks the offset proportionally to Distance.
func (c *OrbitCamera) View(pool PoolGeometry) View {
	h := maxF(pool.Length, pool.Width) * c.Distance / InitialDistance
	base := mgl32.Vec4{0, h / 3, 0.3 * h, 1}
	rot := mgl32.HomogRotate3DY(mgl32.DegToRad(c.Yaw)).Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(c.Pitch)))
	offset := rot.Mul4x1(base).Vec3()
	focus := pool.Anchor
	return View{Eye: focus.Add(offset), Center: focus, Up: axisY}
}

// Matrix is the look-at view matrix for v.
func (v View) Matrix() mgl32.Mat4 {
	return mgl32.LookAtV(v.Eye, v.Center, v.Up)
}
