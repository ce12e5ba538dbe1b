package game

import "github.com/go-gl/mathgl/mgl32"

// Rig part dimensions (height, width) in model units.
const (
	TorsoHeight    = 4.0
	TorsoWidth     = 2.5
	HeadHeight     = 1.8
	HeadWidth      = 1.5
	UpperArmHeight = 2.5
	UpperArmWidth  = 0.8
	LowerArmHeight = 1.8
	LowerArmWidth  = 0.5
	UpperLegHeight = 2.8
	UpperLegWidth  = 1.0
	LowerLegHeight = 2.2
	LowerLegWidth  = 0.5
)

// Pool geometry. The anchor is the pool centre at the rim.
const (
	PoolLength         = 300.0
	PoolWidth          = 150.0
	PoolDepth          = 20.0
	PoolWallThickness  = 0.4
	PoolDeckBorder     = 15.0
	PoolDeckThickness  = 2.0
	PoolWaterThickness = 20.0
	PoolWaterAlpha     = 0.6
	PoolGroundDrop     = 0.4
	PoolLaneCount      = 5
)

// PoolAnchor places the pool in the world.
var PoolAnchor = mgl32.Vec3{5.0, 0.4, -6.0}

// Race tuning.
const (
	Gravity          = 25.0
	YawStep          = 30.0
	ScaleBonus       = 1.5
	StrokeBoost      = 2.5
	SpeedDecay       = 6.0
	MaxSpeed         = 16.0
	CollisionRadius  = 1.2
	StartInset       = 6.0
	FacingYaw        = -90.0
	AIMinSpeed       = 8.0
	AISpeedRange     = 4.0
	PlayerLane       = 2
	SecondPlayerLane = 1
)

// Swim animation phase offsets per swimmer.
const (
	PlayerSwimPhase = 0.0
	SecondSwimPhase = 1.4
)

// SecondPlayerTint distinguishes the second human swimmer.
var SecondPlayerTint = mgl32.Vec3{0.2, 0.8, 0.9}

// Lighting and shadows.
const (
	AmbientStrength  = 0.5
	SpecularStrength = 0.4
	Shininess        = 32.0
	ShadowAlpha      = 0.45
)

// LightPosition is the single point light used for shading and shadows.
var LightPosition = mgl32.Vec3{0, 110, 10}

// Camera orbit.
const (
	MouseSensitivity = 0.1
	PitchLimit       = 60.0
	MinDistance      = 3.0
	MaxDistance      = 60.0
	InitialDistance  = 100.0
	ZoomStep         = 2.0
	JointStep        = 5.0
)

// Crowd stands, mirrored on both long sides of the pool.
const (
	CrowdSteps        = 5
	CrowdColumns      = 12
	CrowdStepHeight   = 10.0
	CrowdStepDepth    = 30.0
	CrowdSpan         = 0.85
	CrowdScale        = 2.5
	CrowdStandExtra   = 20.0
	CrowdAisleGap     = 2.0
	CrowdCheerRate    = 4.0
	CrowdRowPullback  = 0.35
	CrowdFootLift     = 0.02
	SwimRingSegments  = 16
	LaneFloatCount    = 4
	LadderRungs       = 4
	WaterScrollRate   = 0.05
	DigitLabelHeight  = 0.8
	DigitSegmentDepth = 0.1
)

// Window defaults.
const (
	WindowWidth  = 1280
	WindowHeight = 900
	FieldOfView  = 45.0
	NearPlane    = 0.1
	FarPlane     = 1000.0
)
