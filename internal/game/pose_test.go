package game

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	. "github.com/smartystreets/goconvey/convey"
)

func origin(m mgl32.Mat4) mgl32.Vec3 { return m.Col(3).Vec3() }

func shouldBeNear(actual any, expected ...any) string {
	a, b := actual.(mgl32.Vec3), expected[0].(mgl32.Vec3)
	if a.ApproxEqualThreshold(b, 1e-4) {
		return ""
	}
	return fmt.Sprintf("expected %v, got %v", b, a)
}

func TestHash01(t *testing.T) {
	Convey("Given the seeded hash", t, func() {
		Convey("It is reproducible and in [0, 1)", func() {
			for seed := uint32(0); seed < 5000; seed += 7 {
				h := Hash01(seed)
				So(h, ShouldEqual, Hash01(seed))
				So(h, ShouldBeGreaterThanOrEqualTo, 0)
				So(h, ShouldBeLessThan, 1)
			}
		})

		Convey("It matches known values", func() {
			So(Hash01(0), ShouldEqual, 0)
			So(Hash01(1), ShouldEqual, 0.1255035400390625)
			So(Hash01(17), ShouldEqual, 0.133056640625)
		})
	})
}

func TestSkeleton(t *testing.T) {
	Convey("Given the default skeleton", t, func() {
		s := DefaultSkeleton()

		Convey("Every joint except the torso has a parent earlier in the table", func() {
			So(s.Desc(Torso).Parent, ShouldEqual, NoParent)
			for j := Joint(1); int(j) < JointCount; j++ {
				p := s.Desc(j).Parent
				So(p, ShouldBeGreaterThanOrEqualTo, Torso)
				So(p, ShouldBeLessThan, j)
			}
		})

		Convey("Lower limbs hang from their upper limbs", func() {
			So(s.Desc(RightLowerArm).Parent, ShouldEqual, RightUpperArm)
			So(s.Desc(LeftLowerLeg).Parent, ShouldEqual, LeftUpperLeg)
			So(s.Children(Torso), ShouldResemble, []Joint{Head, RightUpperArm, LeftUpperArm, RightUpperLeg, LeftUpperLeg})
		})

		Convey("Left and right limbs mirror each other", func() {
			So(s.Desc(LeftUpperArm).Mirror, ShouldEqual, 1)
			So(s.Desc(RightUpperArm).Mirror, ShouldEqual, -1)
			So(s.Desc(LeftUpperArm).Offset.X(), ShouldEqual, -s.Desc(RightUpperArm).Offset.X())
		})

		Convey("Offsets apply the mirror sign per limb", func() {
			o := s.Offsets(LimbOffsets{UpperArm: 30, LowerArm: 10, UpperLeg: -20, LowerLeg: 5, BodyPitch: -90})
			So(o.Joint[LeftUpperArm], ShouldEqual, 30)
			So(o.Joint[RightUpperArm], ShouldEqual, -30)
			So(o.Joint[RightLowerArm], ShouldEqual, -10)
			So(o.Joint[LeftUpperLeg], ShouldEqual, -20)
			So(o.Joint[RightLowerLeg], ShouldEqual, -5)
			So(o.Joint[Torso], ShouldEqual, 0)
			So(o.Joint[Head], ShouldEqual, 0)
			So(o.BodyPitch, ShouldEqual, -90)
		})

		Convey("Joint indices are validated", func() {
			j, err := ParseJoint(3)
			So(err, ShouldBeNil)
			So(j, ShouldEqual, RightLowerArm)
			_, err = ParseJoint(JointCount)
			So(errors.Is(err, ErrInvalidJoint), ShouldBeTrue)
			_, err = ParseJoint(-1)
			So(errors.Is(err, ErrInvalidJoint), ShouldBeTrue)
			So(Joint(42).String(), ShouldEqual, "joint(42)")
			So(Head.String(), ShouldEqual, "head")
		})

		Convey("Stand height is the leg length", func() {
			So(s.Dimensions().LegLength(), ShouldAlmostEqual, 5.0, 1e-6)
		})
	})
}

func TestMatrixStack(t *testing.T) {
	Convey("Given an empty matrix stack", t, func() {
		var st MatrixStack

		Convey("Popping panics", func() {
			So(func() { st.Pop() }, ShouldPanic)
		})

		Convey("Push and pop are LIFO and counted", func() {
			a, b := mgl32.Ident4(), mgl32.Translate3D(1, 2, 3)
			st.Push(a)
			st.Push(b)
			So(st.Depth(), ShouldEqual, 2)
			So(st.Pop(), ShouldResemble, b)
			So(st.Pop(), ShouldResemble, a)
			pushes, pops := st.Counts()
			So(pushes, ShouldEqual, 2)
			So(pops, ShouldEqual, 2)
		})
	})
}

func TestEvaluator(t *testing.T) {
	Convey("Given an evaluator over the default skeleton", t, func() {
		s := DefaultSkeleton()
		e := NewEvaluator(s)
		var pose Pose
		var off Offsets

		Convey("With a zero pose at the origin", func() {
			r := e.Evaluate(mgl32.Ident4(), &pose, &off)

			Convey("Joints sit at their attachment points", func() {
				So(origin(r[Torso]), shouldBeNear, mgl32.Vec3{0, 0, 0})
				So(origin(r[Head]), shouldBeNear, mgl32.Vec3{0, 4, 0})
				So(origin(r[RightUpperArm]), shouldBeNear, mgl32.Vec3{1.65, 4, 0})
				So(origin(r[LeftUpperArm]), shouldBeNear, mgl32.Vec3{-1.65, 4, 0})
				So(origin(r[RightLowerArm]), shouldBeNear, mgl32.Vec3{1.65, 1.5, 0})
				So(origin(r[RightUpperLeg]), shouldBeNear, mgl32.Vec3{0.75, 0, 0})
				So(origin(r[LeftLowerLeg]), shouldBeNear, mgl32.Vec3{-0.75, -2.8, 0})
			})

			Convey("The traversal is balanced", func() {
				pushes, pops := e.Stack().Counts()
				So(pushes, ShouldEqual, JointCount-1)
				So(pops, ShouldEqual, pushes)
				So(e.Stack().Depth(), ShouldEqual, 0)
			})

			Convey("Part boxes hang below limb joints", func() {
				So(origin(e.Part(&r, Torso)), shouldBeNear, mgl32.Vec3{0, 2, 0})
				So(origin(e.Part(&r, RightUpperLeg)), shouldBeNear, mgl32.Vec3{0.75, -1.4, 0})
			})
		})

		Convey("With an arbitrary pose and offsets", func() {
			for j := range pose {
				pose[j] = float32(j*17 + 5)
			}
			off = s.Offsets(LimbOffsets{UpperArm: 12, LowerArm: -7, UpperLeg: 9, LowerLeg: 3, BodyPitch: -30})
			base := mgl32.Translate3D(3, 1, -2).Mul4(mgl32.Scale3D(2, 2, 2))
			r := e.Evaluate(base, &pose, &off)

			Convey("Every joint composes onto its parent", func() {
				for j := Joint(1); int(j) < JointCount; j++ {
					want := r[s.Desc(j).Parent].Mul4(s.Local(j, pose[j]+off.Joint[j]))
					So(r[j].ApproxEqualThreshold(want, 1e-4), ShouldBeTrue)
				}
			})

			Convey("The root applies yaw then pitch", func() {
				want := base.Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(pose[Torso]))).
					Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(-30)))
				So(r[Torso].ApproxEqualThreshold(want, 1e-4), ShouldBeTrue)
			})
		})

		Convey("A torso yaw of 90 swings the shoulders around the vertical axis", func() {
			pose[Torso] = 90
			r := e.Evaluate(mgl32.Ident4(), &pose, &off)
			So(origin(r[Head]), shouldBeNear, mgl32.Vec3{0, 4, 0})
			So(origin(r[RightUpperArm]), shouldBeNear, mgl32.Vec3{0, 4, -1.65})
		})

		Convey("A swimmer facing the race direction lies head first along +x", func() {
			pose[Torso] = FacingYaw
			off.BodyPitch = -90
			r := e.Evaluate(mgl32.Ident4(), &pose, &off)
			So(origin(r[Head]), shouldBeNear, mgl32.Vec3{4, 0, 0})
		})
	})
}

func TestPoseAdjust(t *testing.T) {
	Convey("Given a pose", t, func() {
		var p Pose

		Convey("Stepping below zero wraps up", func() {
			p.Adjust(Head, -5)
			So(p[Head], ShouldEqual, 355)
		})

		Convey("Exactly 360 is kept and past it wraps down", func() {
			p[Head] = 355
			p.Adjust(Head, 5)
			So(p[Head], ShouldEqual, 360)
			p.Adjust(Head, 5)
			So(p[Head], ShouldEqual, 5)
		})
	})
}

func TestAnimation(t *testing.T) {
	Convey("Given the animation presets", t, func() {
		Convey("Swimmers out of the water hold still", func() {
			So(SwimOffsets(12.3, 1.4, false), ShouldResemble, LimbOffsets{})
		})

		Convey("Swimmers in the water lie prone and stroke", func() {
			o := SwimOffsets(0, 0, true)
			So(o.BodyPitch, ShouldEqual, -90)
			So(o.UpperArm, ShouldAlmostEqual, 0, 1e-5)
			So(o.LowerArm, ShouldAlmostEqual, 20*0.7173561, 1e-4)
		})

		Convey("Swim angles stay within their amplitudes", func() {
			for t := 0.0; t < 10; t += 0.37 {
				o := SwimOffsets(t, 2.1, true)
				So(o.UpperArm, ShouldBeBetweenOrEqual, -35, 35)
				So(o.LowerLeg, ShouldBeBetweenOrEqual, -15, 15)
			}
		})

		Convey("Cheering raises the arms and leaves the legs", func() {
			o := CheerOffsets(0, 0)
			So(o.UpperArm, ShouldAlmostEqual, -60, 1e-5)
			So(o.LowerArm, ShouldAlmostEqual, -20, 1e-5)
			So(o.UpperLeg, ShouldEqual, 0)
			So(o.BodyPitch, ShouldEqual, 0)
		})
	})
}
