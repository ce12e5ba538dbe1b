// Package render draws the game's DrawCall stream with OpenGL 4.1.
package render

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"swimrace/internal/assets"
	"swimrace/internal/game"
)

// glOffset converts a byte offset to unsafe.Pointer for OpenGL VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

type meshBuffer struct {
	vao, vbo uint32
	count    int32
}

// Renderer implements game.Submitter. Calls are drawn immediately, so
// the submission order is the draw order.
type Renderer struct {
	prog uint32
	cube meshBuffer
	quad meshBuffer

	uModel     int32
	uView      int32
	uProj      int32
	uNormalMat int32
	uTexScale  int32
	uTexOffset int32
	uLightPos  int32
	uViewPos   int32
	uAmbient   int32
	uSpecular  int32
	uShininess int32
	uColor     int32
	uAlpha     int32
	uTex       int32
	uUseTex    int32
	uUnlit     int32
	uShadow    int32

	textures map[string]uint32
	calls    int
}

func NewRenderer() (*Renderer, error) {
	prog, err := linkProgram(meshVertSrc, meshFragSrc)
	if err != nil {
		return nil, fmt.Errorf("mesh program: %w", err)
	}
	r := &Renderer{prog: prog, textures: make(map[string]uint32)}
	r.cube = uploadMesh(cubeVertices())
	r.quad = uploadMesh(quadVertices())

	gl.UseProgram(prog)
	loc := func(name string) int32 { return gl.GetUniformLocation(prog, gl.Str(name+"\x00")) }
	r.uModel = loc("uModel")
	r.uView = loc("uView")
	r.uProj = loc("uProj")
	r.uNormalMat = loc("uNormalMat")
	r.uTexScale = loc("uTexScale")
	r.uTexOffset = loc("uTexOffset")
	r.uLightPos = loc("uLightPos")
	r.uViewPos = loc("uViewPos")
	r.uAmbient = loc("uAmbient")
	r.uSpecular = loc("uSpecular")
	r.uShininess = loc("uShininess")
	r.uColor = loc("uColor")
	r.uAlpha = loc("uAlpha")
	r.uTex = loc("uTex")
	r.uUseTex = loc("uUseTex")
	r.uUnlit = loc("uUnlit")
	r.uShadow = loc("uShadow")

	gl.Uniform1i(r.uTex, 0)
	gl.Uniform1f(r.uAmbient, game.AmbientStrength)
	gl.Uniform1f(r.uSpecular, game.SpecularStrength)
	gl.Uniform1f(r.uShininess, game.Shininess)

	gl.BindVertexArray(0)
	return r, nil
}

func uploadMesh(verts []float32) meshBuffer {
	var m meshBuffer
	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)
	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STATIC_DRAW)

	stride := int32(floatsPerVertex * 4)
	// aPos (vec3)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, glOffset(0))
	// aNormal (vec3)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, glOffset(3*4))
	// aUV (vec2)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, glOffset(6*4))

	m.count = int32(len(verts) / floatsPerVertex)
	return m
}

// UploadTextures creates a GL texture per decoded image. Keys that are
// absent draw untextured.
func (r *Renderer) UploadTextures(images map[string]*assets.Image) {
	for key, img := range images {
		var tex uint32
		gl.GenTextures(1, &tex)
		gl.BindTexture(gl.TEXTURE_2D, tex)
		wrap := int32(gl.REPEAT)
		if strings.HasPrefix(key, "skybox") {
			wrap = gl.CLAMP_TO_EDGE
		}
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(img.Width), int32(img.Height), 0,
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
		gl.GenerateMipmap(gl.TEXTURE_2D)
		r.textures[key] = tex
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (r *Renderer) Destroy() {
	for _, m := range []*meshBuffer{&r.cube, &r.quad} {
		if m.vbo != 0 {
			gl.DeleteBuffers(1, &m.vbo)
		}
		if m.vao != 0 {
			gl.DeleteVertexArrays(1, &m.vao)
		}
	}
	for _, tex := range r.textures {
		gl.DeleteTextures(1, &tex)
	}
	r.textures = nil
	if r.prog != 0 {
		gl.DeleteProgram(r.prog)
	}
}

// BeginFrame clears the target and sets the per-frame uniforms.
func (r *Renderer) BeginFrame(view game.View, light mgl32.Vec3, fbW, fbH int) {
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	r.calls = 0

	aspect := float32(1)
	if fbH > 0 {
		aspect = float32(fbW) / float32(fbH)
	}
	proj := mgl32.Perspective(mgl32.DegToRad(game.FieldOfView), aspect, game.NearPlane, game.FarPlane)
	viewMat := view.Matrix()

	gl.UseProgram(r.prog)
	gl.UniformMatrix4fv(r.uProj, 1, false, &proj[0])
	gl.UniformMatrix4fv(r.uView, 1, false, &viewMat[0])
	gl.Uniform3f(r.uLightPos, light[0], light[1], light[2])
	gl.Uniform3f(r.uViewPos, view.Eye[0], view.Eye[1], view.Eye[2])
	gl.ActiveTexture(gl.TEXTURE0)
}

// Submit draws one call with the state its layer needs.
func (r *Renderer) Submit(dc game.DrawCall) {
	r.calls++
	mesh := &r.cube
	if dc.Mesh == game.MeshSkyFace {
		mesh = &r.quad
	}

	switch {
	case dc.Layer == game.LayerSky:
		gl.Disable(gl.DEPTH_TEST)
		gl.DepthMask(false)
	case dc.Shadow:
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthMask(false)
		gl.Enable(gl.POLYGON_OFFSET_FILL)
		gl.PolygonOffset(-1, -1)
	case dc.Alpha < 1:
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthMask(false)
	default:
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthMask(true)
	}
	blend := dc.Shadow || dc.Alpha < 1
	if blend {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}

	tex, textured := r.textures[dc.Texture.Key]
	textured = textured && dc.Texture.Key != "" && !dc.Shadow
	if textured {
		gl.BindTexture(gl.TEXTURE_2D, tex)
		gl.Uniform2f(r.uTexScale, dc.Texture.Scale[0], dc.Texture.Scale[1])
		gl.Uniform2f(r.uTexOffset, dc.Texture.Offset[0], dc.Texture.Offset[1])
	}

	// Projected shadows are singular; they are never lit, so skip the inverse.
	normal := mgl32.Ident3()
	if !dc.Shadow {
		normal = dc.World.Mat3().Inv().Transpose()
	}
	color := materialColor(dc, textured)

	gl.UniformMatrix4fv(r.uModel, 1, false, &dc.World[0])
	gl.UniformMatrix3fv(r.uNormalMat, 1, false, &normal[0])
	gl.Uniform3f(r.uColor, color[0], color[1], color[2])
	gl.Uniform1f(r.uAlpha, dc.Alpha)
	gl.Uniform1i(r.uUseTex, boolInt(textured))
	gl.Uniform1i(r.uUnlit, boolInt(dc.Layer != game.LayerWorld))
	gl.Uniform1i(r.uShadow, boolInt(dc.Shadow))

	gl.BindVertexArray(mesh.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, mesh.count)

	if blend {
		gl.Disable(gl.BLEND)
	}
	if dc.Shadow {
		gl.Disable(gl.POLYGON_OFFSET_FILL)
	}
	gl.DepthMask(true)
}

// DrawCount is the number of calls submitted since BeginFrame.
func (r *Renderer) DrawCount() int { return r.calls }

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
