package game

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrLightOnPlane is returned when the light sits on the shadow plane,
// where the projection degenerates.
var ErrLightOnPlane = errors.New("light lies on shadow plane")

const shadowEpsilon = 1e-4

// ShadowMatrix projects geometry from a point light onto the horizontal
// plane y = planeY. Apply it after the model matrix: shadow * model.
func ShadowMatrix(planeY float32, light mgl32.Vec3) (mgl32.Mat4, error) {
	lx, ly, lz := light.X(), light.Y()-planeY, light.Z()
	if math.Abs(float64(ly)) < shadowEpsilon {
		return mgl32.Mat4{}, fmt.Errorf("plane y=%.3f light %v: %w", planeY, light, ErrLightOnPlane)
	}
	// Column-major: each group of four is one column.
	project := mgl32.Mat4{
		-ly, 0, 0, 0,
		lx, 0, lz, 1,
		0, 0, -ly, 0,
		0, 0, 0, -ly,
	}
	to := mgl32.Translate3D(0, -planeY, 0)
	back := mgl32.Translate3D(0, planeY, 0)
	return back.Mul4(project).Mul4(to), nil
}
