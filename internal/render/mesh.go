package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"swimrace/internal/game"
)

// floatsPerVertex is position(3) + normal(3) + uv(2).
const floatsPerVertex = 8

// cubeFaces lists outward normals with the two in-plane axes used to
// span each face of the unit cube.
var cubeFaces = [6]struct{ n, u, v mgl32.Vec3 }{
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
	{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
}

// quadCorners are the two triangles of a face in (u, v) units.
var quadCorners = [6][2]float32{
	{0, 0}, {1, 0}, {1, 1},
	{0, 0}, {1, 1}, {0, 1},
}

func appendQuad(dst []float32, centre, n, u, v mgl32.Vec3) []float32 {
	for _, c := range quadCorners {
		p := centre.Add(u.Mul(c[0] - 0.5)).Add(v.Mul(c[1] - 0.5))
		dst = append(dst, p[0], p[1], p[2], n[0], n[1], n[2], c[0], c[1])
	}
	return dst
}

// cubeVertices builds a unit cube centred on the origin, 36 vertices.
func cubeVertices() []float32 {
	out := make([]float32, 0, 36*floatsPerVertex)
	for _, f := range cubeFaces {
		out = appendQuad(out, f.n.Mul(0.5), f.n, f.u, f.v)
	}
	return out
}

// quadVertices builds a unit quad in the XY plane facing +Z, 6 vertices.
func quadVertices() []float32 {
	return appendQuad(make([]float32, 0, 6*floatsPerVertex),
		mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0})
}

// baseColors is the untinted material colour per mesh. Textured meshes
// stay white so the texture shows through; they fall back to these when
// the texture is missing.
var baseColors = [game.MeshCount]mgl32.Vec3{
	game.MeshTorso:     {0.85, 0.35, 0.25},
	game.MeshHead:      {0.95, 0.78, 0.62},
	game.MeshUpperArm:  {0.95, 0.78, 0.62},
	game.MeshLowerArm:  {0.92, 0.74, 0.58},
	game.MeshUpperLeg:  {0.2, 0.3, 0.7},
	game.MeshLowerLeg:  {0.95, 0.78, 0.62},
	game.MeshPoolWall:  {0.82, 0.86, 0.9},
	game.MeshWater:     {0.25, 0.55, 0.85},
	game.MeshLaneFloat: {0.95, 0.2, 0.2},
	game.MeshDeck:      {0.78, 0.76, 0.7},
	game.MeshLadder:    {0.75, 0.75, 0.78},
	game.MeshStand:     {0.55, 0.55, 0.6},
	game.MeshSwimRing:  {1.0, 0.55, 0.1},
	game.MeshDigit:     {1, 1, 1},
	game.MeshSkyFace:   {0.55, 0.75, 0.95},
}

// materialColor resolves the colour uniform for a call.
func materialColor(dc game.DrawCall, textured bool) mgl32.Vec3 {
	base := baseColors[dc.Mesh]
	if textured {
		base = mgl32.Vec3{1, 1, 1}
	}
	return mgl32.Vec3{base[0] * dc.Tint[0], base[1] * dc.Tint[1], base[2] * dc.Tint[2]}
}
