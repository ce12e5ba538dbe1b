package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Layer tells the renderer how to treat a draw call.
type Layer int

const (
	LayerWorld   Layer = iota // lit, depth tested
	LayerSky                  // unlit, no depth test or write
	LayerOverlay              // unlit, untextured markers
)

// Texture keys, resolved by the renderer to files named <key>.jpg.
const (
	TexSkyFront  = "skybox_front"
	TexSkyBack   = "skybox_back"
	TexSkyLeft   = "skybox_left"
	TexSkyRight  = "skybox_right"
	TexSkyTop    = "skybox_top"
	TexSkyBottom = "skybox_bottom"
	TexTile      = "pool_ground"
	TexWater     = "water"
)

// TextureKeys lists every texture a frame may reference.
var TextureKeys = []string{
	TexSkyFront, TexSkyBack, TexSkyLeft, TexSkyRight, TexSkyTop, TexSkyBottom,
	TexTile, TexWater,
}

type TextureRef struct {
	Key    string // empty means untextured
	Scale  mgl32.Vec2
	Offset mgl32.Vec2
}

// DrawCall is one mesh submission.
type DrawCall struct {
	Mesh        MeshID
	Layer       Layer
	World       mgl32.Mat4
	Tint        mgl32.Vec3
	Alpha       float32
	Texture     TextureRef
	CastsShadow bool
	// Shadow marks the projected copy of a shadow-casting call.
	Shadow bool
}

// Submitter consumes draw calls in order.
type Submitter interface {
	Submit(DrawCall)
}

// Recorder is a Submitter that keeps every call.
type Recorder struct {
	Calls []DrawCall
}

func (r *Recorder) Submit(dc DrawCall) { r.Calls = append(r.Calls, dc) }

func (r *Recorder) Reset() { r.Calls = r.Calls[:0] }

// Count returns how many calls match the predicate.
func (r *Recorder) Count(match func(DrawCall) bool) int {
	n := 0
	for _, dc := range r.Calls {
		if match(dc) {
			n++
		}
	}
	return n
}

// Ladder and label dimensions.
const (
	ladderHeight        = 2.6
	ladderWidth         = 1.2
	ladderRailThickness = 0.15
	ladderRungThickness = 0.12
	ladderRungDepth     = 0.5
	ladderRungStart     = 0.4
	ladderRungSpacing   = 0.55
	laneFloatThickness  = 0.3
	laneFloatLift       = 0.06
	swimRingRadius      = 1.0
	swimRingTube        = 0.25
	swimRingDrop        = 0.2
	skyboxSize          = 1.0
	digitWidth          = 0.8
	digitHeight         = 1.2
	digitThickness      = 0.12
)

var (
	white         = mgl32.Vec3{1, 1, 1}
	firstLabel    = mgl32.Vec3{1, 0.9, 0.2}
	secondLabel   = mgl32.Vec3{0.2, 0.9, 1.0}
	tileWallScale = mgl32.Vec2{4, 2}
	tileDeckScale = mgl32.Vec2{12, 12}
	waterTexScale = mgl32.Vec2{3, 3}
)

// sevenSegments lists lit segments per digit: top, upper-left,
// upper-right, middle, lower-left, lower-right, bottom.
var sevenSegments = [10][7]bool{
	{true, true, true, false, true, true, true},
	{false, false, true, false, false, true, false},
	{true, false, true, true, true, false, true},
	{true, false, true, true, false, true, true},
	{false, true, true, true, false, true, false},
	{true, true, false, true, false, true, true},
	{true, true, false, true, true, true, true},
	{true, false, true, false, false, true, false},
	{true, true, true, true, true, true, true},
	{true, true, true, true, false, true, true},
}

// FrameBuilder turns simulation state into an ordered draw-call stream.
// It reads the simulation and never mutates it.
type FrameBuilder struct {
	sim    *Simulation
	eval   *Evaluator
	crowd  CrowdLayout
	sink   Submitter
	shadow mgl32.Mat4
}

func NewFrameBuilder(sim *Simulation) *FrameBuilder {
	crowd := DefaultCrowd()
	crowd.Salt = sim.Race().Seed
	return &FrameBuilder{
		sim:   sim,
		eval:  NewEvaluator(sim.Skeleton()),
		crowd: crowd,
	}
}

// BuildFrame assembles one frame with a throwaway builder.
func BuildFrame(sim *Simulation, view View, clock float64, sink Submitter) error {
	return NewFrameBuilder(sim).Build(view, clock, sink)
}

// Build emits: sky, player, second player, labels, AI swimmers, basin,
// water, lane floats, decks, stands and crowd, ladder.
func (b *FrameBuilder) Build(view View, clock float64, sink Submitter) error {
	pool := b.sim.Pool()
	shadow, err := ShadowMatrix(pool.GroundTopY(), b.sim.Light())
	if err != nil {
		return err
	}
	b.shadow = shadow
	b.sink = sink
	defer func() { b.sink = nil }()

	b.sky(view)
	b.humans(view, clock)
	b.aiSwimmers(clock)
	b.basin(clock)
	b.decks()
	b.stands(clock)
	b.ladder()
	return nil
}

// emit submits dc and, if it casts a shadow, its projection right after.
func (b *FrameBuilder) emit(dc DrawCall) {
	if dc.Alpha == 0 {
		dc.Alpha = 1
	}
	b.sink.Submit(dc)
	if !dc.CastsShadow {
		return
	}
	b.sink.Submit(DrawCall{
		Mesh:   dc.Mesh,
		Layer:  dc.Layer,
		World:  b.shadow.Mul4(dc.World),
		Alpha:  ShadowAlpha,
		Shadow: true,
	})
}

func (b *FrameBuilder) box(base mgl32.Mat4, mesh MeshID, at, size mgl32.Vec3, tex TextureRef) {
	m := scale(translate(base, at), size)
	b.emit(DrawCall{Mesh: mesh, World: m, Tint: white, Texture: tex})
}

func (b *FrameBuilder) sky(view View) {
	base := mgl32.Translate3D(view.Eye[0], view.Eye[1], view.Eye[2])
	h := float32(0.5 * skyboxSize)
	faces := []struct {
		at    mgl32.Vec3
		axis  mgl32.Vec3
		angle float32
		tex   string
	}{
		{mgl32.Vec3{0, 0, -h}, axisY, 0, TexSkyFront},
		{mgl32.Vec3{0, 0, h}, axisY, 180, TexSkyBack},
		{mgl32.Vec3{h, 0, 0}, axisY, -90, TexSkyRight},
		{mgl32.Vec3{-h, 0, 0}, axisY, 90, TexSkyLeft},
		{mgl32.Vec3{0, h, 0}, axisX, -90, TexSkyTop},
		{mgl32.Vec3{0, -h, 0}, axisX, 90, TexSkyBottom},
	}
	for _, f := range faces {
		m := scale(rotate(translate(base, f.at), f.angle, f.axis), uniform(skyboxSize))
		b.emit(DrawCall{
			Mesh: MeshSkyFace, Layer: LayerSky, World: m, Tint: white,
			Texture: TextureRef{Key: f.tex, Scale: mgl32.Vec2{1, 1}},
		})
	}
}

// rig emits the ten parts of an evaluated rig, each followed by its shadow.
func (b *FrameBuilder) rig(r *Rig, tint mgl32.Vec3) {
	for j := Joint(0); int(j) < JointCount; j++ {
		b.emit(DrawCall{
			Mesh:        b.eval.Skeleton().Desc(j).Mesh,
			World:       b.eval.Part(r, j),
			Tint:        tint,
			CastsShadow: true,
		})
	}
}

func (b *FrameBuilder) swimRing(hand mgl32.Mat4) {
	lowerArm := b.sim.Skeleton().Dimensions().LowerArmHeight
	ring := rotate(translate(hand, mgl32.Vec3{0, -lowerArm - swimRingDrop, 0}), 90, axisX)
	for i := 0; i < SwimRingSegments; i++ {
		angle := 360 * float32(i) / SwimRingSegments
		m := rotate(ring, angle, axisY)
		m = translate(m, mgl32.Vec3{swimRingRadius, 0, 0})
		m = scale(m, mgl32.Vec3{swimRingTube, swimRingTube, swimRingTube * 2.5})
		b.emit(DrawCall{Mesh: MeshSwimRing, World: m, Tint: white, CastsShadow: true})
	}
}

func (b *FrameBuilder) humans(view View, clock float64) {
	pool := b.sim.Pool()
	skel := b.sim.Skeleton()

	p := b.sim.Player()
	pose := b.sim.Pose()
	pose[Torso] = p.Yaw
	off := skel.Offsets(SwimOffsets(clock, p.Phase, pool.IsInPool(p.Position)))
	base := scale(translate(mgl32.Ident4(), p.Position), uniform(p.Scale))
	r := b.eval.Evaluate(base, &pose, &off)
	b.rig(&r, p.Tint)
	b.swimRing(r[RightLowerArm])

	q := b.sim.SecondPlayer()
	var qpose Pose
	qpose[Torso] = q.Yaw
	qoff := skel.Offsets(SwimOffsets(clock, q.Phase, pool.IsInPool(q.Position)))
	qbase := scale(translate(mgl32.Ident4(), q.Position), uniform(q.Scale))
	qr := b.eval.Evaluate(qbase, &qpose, &qoff)
	b.rig(&qr, q.Tint)

	lift := mgl32.Vec3{0, skel.Dimensions().LabelHeight(), 0}
	b.digit(view, p.Position.Add(lift.Mul(p.Scale)), 1, firstLabel)
	b.digit(view, q.Position.Add(lift.Mul(q.Scale)), 2, secondLabel)
}

func (b *FrameBuilder) aiSwimmers(clock float64) {
	skel := b.sim.Skeleton()
	for _, a := range b.sim.AISwimmers() {
		var pose Pose
		pose[Torso] = a.Yaw
		off := skel.Offsets(SwimCycle.Sample(clock, a.Phase))
		base := translate(mgl32.Ident4(), a.Position)
		r := b.eval.Evaluate(base, &pose, &off)
		b.rig(&r, a.Tint)
	}
}

// Billboard orients a marker at pos to face the camera.
func Billboard(view View, pos mgl32.Vec3) mgl32.Mat4 {
	forward := view.Center.Sub(view.Eye)
	if forward.Len() < 0.001 {
		forward = mgl32.Vec3{0, 0, -1}
	}
	z := forward.Normalize().Mul(-1)
	up := view.Up.Normalize()
	if math.Abs(float64(up.Dot(z))) > 0.99 {
		up = axisZ
	}
	right := up.Cross(z).Normalize()
	bup := z.Cross(right).Normalize()
	rot := mgl32.Mat4FromCols(right.Vec4(0), bup.Vec4(0), z.Vec4(0), mgl32.Vec4{0, 0, 0, 1})
	return mgl32.Translate3D(pos[0], pos[1], pos[2]).Mul4(rot)
}

// digit draws a seven-segment numeral; values outside 0..9 draw nothing.
func (b *FrameBuilder) digit(view View, pos mgl32.Vec3, n int, tint mgl32.Vec3) {
	if n < 0 || n > 9 {
		return
	}
	base := Billboard(view, pos)
	hw, hh := float32(digitWidth/2), float32(digitHeight/2)
	vert := hh - digitThickness/2
	horiz := mgl32.Vec3{digitWidth, digitThickness, DigitSegmentDepth}
	upright := mgl32.Vec3{digitThickness, vert, DigitSegmentDepth}
	segs := [7]struct{ at, size mgl32.Vec3 }{
		{mgl32.Vec3{0, hh, 0}, horiz},
		{mgl32.Vec3{-hw, hh / 2, 0}, upright},
		{mgl32.Vec3{hw, hh / 2, 0}, upright},
		{mgl32.Vec3{0, 0, 0}, horiz},
		{mgl32.Vec3{-hw, -hh / 2, 0}, upright},
		{mgl32.Vec3{hw, -hh / 2, 0}, upright},
		{mgl32.Vec3{0, -hh, 0}, horiz},
	}
	for i, on := range sevenSegments[n] {
		if !on {
			continue
		}
		m := scale(translate(base, segs[i].at), segs[i].size)
		b.emit(DrawCall{Mesh: MeshDigit, Layer: LayerOverlay, World: m, Tint: tint})
	}
}

func (b *FrameBuilder) basin(clock float64) {
	pool := b.sim.Pool()
	base := translate(mgl32.Ident4(), pool.Anchor)
	wall := pool.WallThickness
	wallY := -pool.Depth / 2
	longLen := pool.Length + 2*wall
	shortW := pool.Width + 2*wall
	wallZ := pool.HalfWidth() + wall/2
	wallX := pool.HalfLength() + wall/2
	tile := TextureRef{Key: TexTile, Scale: tileWallScale}

	b.box(base, MeshPoolWall, mgl32.Vec3{0, wallY, wallZ}, mgl32.Vec3{longLen, pool.Depth, wall}, tile)
	b.box(base, MeshPoolWall, mgl32.Vec3{0, wallY, -wallZ}, mgl32.Vec3{longLen, pool.Depth, wall}, tile)
	b.box(base, MeshPoolWall, mgl32.Vec3{wallX, wallY, 0}, mgl32.Vec3{wall, pool.Depth, shortW}, tile)
	b.box(base, MeshPoolWall, mgl32.Vec3{-wallX, wallY, 0}, mgl32.Vec3{wall, pool.Depth, shortW}, tile)

	water := scale(translate(base, mgl32.Vec3{0, pool.waterCenterY(), 0}),
		mgl32.Vec3{pool.Length, pool.WaterThickness, pool.Width})
	b.emit(DrawCall{
		Mesh: MeshWater, World: water, Tint: white, Alpha: pool.WaterAlpha,
		Texture: TextureRef{
			Key:    TexWater,
			Scale:  waterTexScale,
			Offset: mgl32.Vec2{float32(math.Mod(clock*WaterScrollRate, 1)), 0},
		},
	})

	spacing := pool.Width / (LaneFloatCount + 1)
	surfaceY := pool.waterCenterY() + pool.WaterThickness/2 + laneFloatLift
	for i := 0; i < LaneFloatCount; i++ {
		z := -pool.HalfWidth() + spacing*float32(i+1)
		b.box(base, MeshLaneFloat, mgl32.Vec3{0, surfaceY, z},
			mgl32.Vec3{pool.Length, laneFloatThickness, laneFloatThickness}, TextureRef{})
	}
}

func (b *FrameBuilder) decks() {
	pool := b.sim.Pool()
	base := translate(mgl32.Ident4(), pool.Anchor)
	innerLen := pool.Length + 2*pool.WallThickness
	innerW := pool.Width + 2*pool.WallThickness
	deckX := innerLen/2 + pool.DeckBorder/2
	deckY := -pool.DeckThickness/2 + 0.01
	size := mgl32.Vec3{pool.DeckBorder, pool.DeckThickness, innerW}
	tile := TextureRef{Key: TexTile, Scale: tileDeckScale}
	b.box(base, MeshDeck, mgl32.Vec3{deckX, deckY, 0}, size, tile)
	b.box(base, MeshDeck, mgl32.Vec3{-deckX, deckY, 0}, size, tile)
}

func (b *FrameBuilder) stands(clock float64) {
	pool := b.sim.Pool()
	base := translate(mgl32.Ident4(), pool.Anchor)
	for side := 0; side < 2; side++ {
		for step := 0; step < b.crowd.Steps; step++ {
			at, size := b.crowd.StepBox(pool, side, step)
			b.box(base, MeshStand, at, size, TextureRef{})
		}
	}

	skel := b.sim.Skeleton()
	targets := []mgl32.Vec3{b.sim.Player().Position, b.sim.SecondPlayer().Position}
	var pose Pose
	b.crowd.Each(pool, targets, func(sp Spectator) {
		off := skel.Offsets(CheerOffsets(clock, sp.Phase))
		m := rotate(translate(mgl32.Ident4(), sp.Position), sp.Yaw, axisY)
		m = scale(m, uniform(b.crowd.Scale))
		r := b.eval.Evaluate(m, &pose, &off)
		b.rig(&r, sp.Tint)
	})
}

func (b *FrameBuilder) ladder() {
	pool := b.sim.Pool()
	at := pool.Anchor.Add(mgl32.Vec3{pool.HalfLength() - pool.WallThickness/2, 0, -pool.Width / 4})
	base := translate(mgl32.Ident4(), at)

	rail := mgl32.Vec3{ladderRailThickness, ladderHeight, ladderRailThickness}
	for _, z := range []float32{-ladderWidth / 2, ladderWidth / 2} {
		b.box(translate(base, mgl32.Vec3{0, 0, z}), MeshLadder, mgl32.Vec3{0, -ladderHeight / 2, 0}, rail, TextureRef{})
	}
	rung := mgl32.Vec3{ladderRungDepth, ladderRungThickness, ladderWidth - ladderRailThickness}
	for i := 0; i < LadderRungs; i++ {
		y := -ladderRungStart - float32(i)*ladderRungSpacing
		b.box(base, MeshLadder, mgl32.Vec3{-ladderRungDepth / 2, y, 0}, rung, TextureRef{})
	}
	b.sink.Submit(DrawCall{Mesh: MeshLadder, World: b.shadow.Mul4(base), Alpha: ShadowAlpha, Shadow: true})
}
