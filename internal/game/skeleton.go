package game

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidJoint is returned when a joint index is outside the rig.
var ErrInvalidJoint = errors.New("invalid joint")

// Joint identifies one rigid part of the humanoid rig.
type Joint int

const (
	Torso Joint = iota
	Head
	RightUpperArm
	RightLowerArm
	LeftUpperArm
	LeftLowerArm
	RightUpperLeg
	RightLowerLeg
	LeftUpperLeg
	LeftLowerLeg
	JointCount int = iota
)

// NoParent marks the root joint.
const NoParent Joint = -1

var jointNames = [JointCount]string{
	"torso", "head",
	"right_upper_arm", "right_lower_arm",
	"left_upper_arm", "left_lower_arm",
	"right_upper_leg", "right_lower_leg",
	"left_upper_leg", "left_lower_leg",
}

func (j Joint) Valid() bool { return j >= 0 && int(j) < JointCount }

func (j Joint) String() string {
	if !j.Valid() {
		return fmt.Sprintf("joint(%d)", int(j))
	}
	return jointNames[j]
}

// ParseJoint validates a raw joint index.
func ParseJoint(i int) (Joint, error) {
	j := Joint(i)
	if !j.Valid() {
		return 0, fmt.Errorf("joint %d: %w", i, ErrInvalidJoint)
	}
	return j, nil
}

// Limb groups joints that share one procedural animation channel.
type Limb int

const (
	LimbNone Limb = iota
	LimbUpperArm
	LimbLowerArm
	LimbUpperLeg
	LimbLowerLeg
)

// MeshID names a mesh the renderer knows how to draw.
type MeshID int

const (
	MeshTorso MeshID = iota
	MeshHead
	MeshUpperArm
	MeshLowerArm
	MeshUpperLeg
	MeshLowerLeg
	MeshPoolWall
	MeshWater
	MeshLaneFloat
	MeshDeck
	MeshLadder
	MeshStand
	MeshSwimRing
	MeshDigit
	MeshSkyFace
	MeshCount int = iota
)

// JointDesc is one row of the rig table.
type JointDesc struct {
	Parent Joint
	// Offset is the attachment point in the parent's frame.
	Offset mgl32.Vec3
	Axis   mgl32.Vec3
	// HalfExtent and MeshOffset place the unit cube; rendering only.
	HalfExtent mgl32.Vec3
	MeshOffset mgl32.Vec3
	Mesh       MeshID
	Limb       Limb
	// Mirror is +1 on the left side and -1 on the right so a single
	// limb offset swings both sides symmetrically.
	Mirror float32
}

// RigDimensions holds the part sizes the table is derived from.
type RigDimensions struct {
	TorsoHeight, TorsoWidth       float32
	HeadHeight, HeadWidth         float32
	UpperArmHeight, UpperArmWidth float32
	LowerArmHeight, LowerArmWidth float32
	UpperLegHeight, UpperLegWidth float32
	LowerLegHeight, LowerLegWidth float32
}

func DefaultRig() RigDimensions {
	return RigDimensions{
		TorsoHeight: TorsoHeight, TorsoWidth: TorsoWidth,
		HeadHeight: HeadHeight, HeadWidth: HeadWidth,
		UpperArmHeight: UpperArmHeight, UpperArmWidth: UpperArmWidth,
		LowerArmHeight: LowerArmHeight, LowerArmWidth: LowerArmWidth,
		UpperLegHeight: UpperLegHeight, UpperLegWidth: UpperLegWidth,
		LowerLegHeight: LowerLegHeight, LowerLegWidth: LowerLegWidth,
	}
}

// LegLength is the hip-to-sole distance of a standing rig.
func (d RigDimensions) LegLength() float32 { return d.UpperLegHeight + d.LowerLegHeight }

// LabelHeight is where a number label floats above the torso origin.
func (d RigDimensions) LabelHeight() float32 {
	return d.TorsoHeight + d.HeadHeight + DigitLabelHeight
}

// Skeleton is the fixed joint hierarchy built once from RigDimensions.
type Skeleton struct {
	dims     RigDimensions
	joints   [JointCount]JointDesc
	children [JointCount][]Joint
}

func NewSkeleton(d RigDimensions) *Skeleton {
	s := &Skeleton{dims: d}

	up := func(w, h float32) (mgl32.Vec3, mgl32.Vec3) {
		return mgl32.Vec3{w / 2, h / 2, w / 2}, mgl32.Vec3{0, h / 2, 0}
	}
	down := func(w, h float32) (mgl32.Vec3, mgl32.Vec3) {
		return mgl32.Vec3{w / 2, h / 2, w / 2}, mgl32.Vec3{0, -h / 2, 0}
	}

	he, mo := up(d.TorsoWidth, d.TorsoHeight)
	s.joints[Torso] = JointDesc{Parent: NoParent, Axis: axisY, HalfExtent: he, MeshOffset: mo, Mesh: MeshTorso}

	he, mo = up(d.HeadWidth, d.HeadHeight)
	s.joints[Head] = JointDesc{
		Parent: Torso, Offset: mgl32.Vec3{0, d.TorsoHeight, 0}, Axis: axisY,
		HalfExtent: he, MeshOffset: mo, Mesh: MeshHead,
	}

	shoulderX := 0.5*d.TorsoWidth + 0.5*d.UpperArmWidth
	hipX := 0.5*d.TorsoWidth - 0.5*d.UpperLegWidth

	arms := []struct {
		upper, lower Joint
		side         float32
		mirror       float32
	}{
		{RightUpperArm, RightLowerArm, 1, -1},
		{LeftUpperArm, LeftLowerArm, -1, 1},
	}
	for _, a := range arms {
		he, mo = down(d.UpperArmWidth, d.UpperArmHeight)
		s.joints[a.upper] = JointDesc{
			Parent: Torso, Offset: mgl32.Vec3{a.side * shoulderX, d.TorsoHeight, 0}, Axis: axisZ,
			HalfExtent: he, MeshOffset: mo, Mesh: MeshUpperArm, Limb: LimbUpperArm, Mirror: a.mirror,
		}
		he, mo = down(d.LowerArmWidth, d.LowerArmHeight)
		s.joints[a.lower] = JointDesc{
			Parent: a.upper, Offset: mgl32.Vec3{0, -d.UpperArmHeight, 0}, Axis: axisZ,
			HalfExtent: he, MeshOffset: mo, Mesh: MeshLowerArm, Limb: LimbLowerArm, Mirror: a.mirror,
		}
	}

	legs := []struct {
		upper, lower Joint
		side         float32
		mirror       float32
	}{
		{RightUpperLeg, RightLowerLeg, 1, -1},
		{LeftUpperLeg, LeftLowerLeg, -1, 1},
	}
	for _, l := range legs {
		he, mo = down(d.UpperLegWidth, d.UpperLegHeight)
		s.joints[l.upper] = JointDesc{
			Parent: Torso, Offset: mgl32.Vec3{l.side * hipX, 0, 0}, Axis: axisX,
			HalfExtent: he, MeshOffset: mo, Mesh: MeshUpperLeg, Limb: LimbUpperLeg, Mirror: l.mirror,
		}
		he, mo = down(d.LowerLegWidth, d.LowerLegHeight)
		s.joints[l.lower] = JointDesc{
			Parent: l.upper, Offset: mgl32.Vec3{0, -d.UpperLegHeight, 0}, Axis: axisX,
			HalfExtent: he, MeshOffset: mo, Mesh: MeshLowerLeg, Limb: LimbLowerLeg, Mirror: l.mirror,
		}
	}

	for j := Joint(1); int(j) < JointCount; j++ {
		p := s.joints[j].Parent
		s.children[p] = append(s.children[p], j)
	}
	return s
}

func DefaultSkeleton() *Skeleton { return NewSkeleton(DefaultRig()) }

func (s *Skeleton) Dimensions() RigDimensions { return s.dims }

func (s *Skeleton) Desc(j Joint) JointDesc { return s.joints[j] }

// Children lists direct children in table order.
func (s *Skeleton) Children(j Joint) []Joint { return s.children[j] }

// Local is translate(attachment) * rotate(angle, axis) for a non-root joint.
func (s *Skeleton) Local(j Joint, degrees float32) mgl32.Mat4 {
	d := &s.joints[j]
	return rotate(mgl32.Translate3D(d.Offset[0], d.Offset[1], d.Offset[2]), degrees, d.Axis)
}

// Instance maps the unit cube onto the part's box in its own frame.
func (s *Skeleton) Instance(j Joint) mgl32.Mat4 {
	d := &s.joints[j]
	m := mgl32.Translate3D(d.MeshOffset[0], d.MeshOffset[1], d.MeshOffset[2])
	return scale(m, d.HalfExtent.Mul(2))
}

// Offsets expands per-limb animation channels into per-joint offsets,
// applying each joint's mirror sign.
func (s *Skeleton) Offsets(l LimbOffsets) Offsets {
	var o Offsets
	for j := range s.joints {
		d := &s.joints[j]
		var v float32
		switch d.Limb {
		case LimbUpperArm:
			v = l.UpperArm
		case LimbLowerArm:
			v = l.LowerArm
		case LimbUpperLeg:
			v = l.UpperLeg
		case LimbLowerLeg:
			v = l.LowerLeg
		default:
			continue
		}
		o.Joint[j] = d.Mirror * v
	}
	o.BodyPitch = l.BodyPitch
	return o
}
