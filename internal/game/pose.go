package game

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Pose holds the manually set angle of every joint in degrees.
// Torso is rotation about the vertical axis.
type Pose [JointCount]float32

// Adjust nudges one joint by delta degrees, keeping it within [0, 360].
func (p *Pose) Adjust(j Joint, delta float32) {
	a := p[j] + delta
	if a < 0 {
		a += 360
	}
	if a > 360 {
		a -= 360
	}
	p[j] = a
}

// Offsets are additive procedural angles layered over a Pose.
// A zero value leaves the pose untouched.
type Offsets struct {
	Joint     [JointCount]float32
	BodyPitch float32
}

// MatrixStack saves and restores the accumulated transform during traversal.
type MatrixStack struct {
	items  []mgl32.Mat4
	pushes int
	pops   int
}

func (s *MatrixStack) Push(m mgl32.Mat4) {
	s.items = append(s.items, m)
	s.pushes++
}

// Pop panics on underflow; an unbalanced traversal is a programming error.
func (s *MatrixStack) Pop() mgl32.Mat4 {
	n := len(s.items)
	if n == 0 {
		panic("matrix stack underflow")
	}
	m := s.items[n-1]
	s.items = s.items[:n-1]
	s.pops++
	return m
}

func (s *MatrixStack) Depth() int { return len(s.items) }

// Counts reports pushes and pops since the last Reset.
func (s *MatrixStack) Counts() (pushes, pops int) { return s.pushes, s.pops }

func (s *MatrixStack) Reset() {
	s.items = s.items[:0]
	s.pushes, s.pops = 0, 0
}

// Rig is the evaluated world transform of every joint.
type Rig [JointCount]mgl32.Mat4

// Evaluator walks a Skeleton depth-first and produces world transforms.
// It reuses its stack between calls and is not safe for concurrent use.
type Evaluator struct {
	skel  *Skeleton
	stack MatrixStack
	cur   mgl32.Mat4
}

func NewEvaluator(s *Skeleton) *Evaluator {
	return &Evaluator{skel: s}
}

func (e *Evaluator) Skeleton() *Skeleton { return e.skel }

// Stack exposes the traversal stack for balance checks.
func (e *Evaluator) Stack() *MatrixStack { return &e.stack }

// Evaluate computes world(J) = world(parent) * translate(attach) * rotate(angle, axis)
// for every joint, where angle is pose plus offset. The root is
// base * rotateY(torso) * rotateX(bodyPitch).
func (e *Evaluator) Evaluate(base mgl32.Mat4, pose *Pose, off *Offsets) Rig {
	var out Rig
	e.stack.Reset()

	root := rotate(base, pose[Torso]+off.Joint[Torso], axisY)
	root = rotate(root, off.BodyPitch, axisX)
	e.cur = root
	out[Torso] = root

	e.walk(Torso, pose, off, &out)

	if e.stack.Depth() != 0 || e.cur != root {
		panic(fmt.Sprintf("unbalanced rig traversal: depth %d", e.stack.Depth()))
	}
	return out
}

func (e *Evaluator) walk(parent Joint, pose *Pose, off *Offsets, out *Rig) {
	for _, j := range e.skel.Children(parent) {
		e.stack.Push(e.cur)
		e.cur = e.cur.Mul4(e.skel.Local(j, pose[j]+off.Joint[j]))
		out[j] = e.cur
		e.walk(j, pose, off, out)
		e.cur = e.stack.Pop()
	}
}

// Part returns the draw matrix for joint j's box.
func (e *Evaluator) Part(r *Rig, j Joint) mgl32.Mat4 {
	return r[j].Mul4(e.skel.Instance(j))
}
