package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Hash01 maps a seed to a reproducible value in [0, 1).
// xorshift32 (13, 17, 5) followed by a 16-bit mask.
func Hash01(seed uint32) float32 {
	seed ^= seed << 13
	seed ^= seed >> 17
	seed ^= seed << 5
	return float32(seed&0xFFFF) / 65536.0
}

// hashTint derives a pastel-to-saturated colour from three consecutive hash draws.
func hashTint(seed, dr, dg, db uint32) mgl32.Vec3 {
	return mgl32.Vec3{
		0.3 + 0.7*Hash01(seed+dr),
		0.3 + 0.7*Hash01(seed+dg),
		0.3 + 0.7*Hash01(seed+db),
	}
}

func clampF(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxF(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minF(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

// wrapDegrees folds an angle into [0, 360).
func wrapDegrees(a float32) float32 {
	a = float32(math.Mod(float64(a), 360))
	if a < 0 {
		a += 360
	}
	return a
}

func sinF(x float64) float32 { return float32(math.Sin(x)) }

// translate, rotate and scale mirror the fixed-function style used by the rig code:
// each returns m post-multiplied by the new transform.
func translate(m mgl32.Mat4, v mgl32.Vec3) mgl32.Mat4 {
	return m.Mul4(mgl32.Translate3D(v[0], v[1], v[2]))
}

func rotate(m mgl32.Mat4, degrees float32, axis mgl32.Vec3) mgl32.Mat4 {
	if degrees == 0 {
		return m
	}
	return m.Mul4(mgl32.HomogRotate3D(mgl32.DegToRad(degrees), axis))
}

func scale(m mgl32.Mat4, v mgl32.Vec3) mgl32.Mat4 {
	return m.Mul4(mgl32.Scale3D(v[0], v[1], v[2]))
}

func uniform(s float32) mgl32.Vec3 { return mgl32.Vec3{s, s, s} }

var (
	axisX = mgl32.Vec3{1, 0, 0}
	axisY = mgl32.Vec3{0, 1, 0}
	axisZ = mgl32.Vec3{0, 0, 1}
)
