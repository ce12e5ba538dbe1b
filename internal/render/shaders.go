package render

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Mesh vertex shader: unit geometry placed by a per-call model matrix.
const meshVertSrc = `#version 410 core

layout(location = 0) in vec3 aPos;
layout(location = 1) in vec3 aNormal;
layout(location = 2) in vec2 aUV;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProj;
uniform mat3 uNormalMat;
uniform vec2 uTexScale;
uniform vec2 uTexOffset;

out vec3 vWorldPos;
out vec3 vNormal;
out vec2 vUV;

void main() {
    vec4 world = uModel * vec4(aPos, 1.0);
    vWorldPos = world.xyz;
    vNormal = uNormalMat * aNormal;
    vUV = aUV * uTexScale + uTexOffset;
    gl_Position = uProj * uView * world;
}
` + "\x00"

// Mesh fragment shader: Phong with a single point light. Unlit calls
// skip lighting; shadow calls draw a flat translucent black.
const meshFragSrc = `#version 410 core

uniform vec3 uLightPos;
uniform vec3 uViewPos;
uniform float uAmbient;
uniform float uSpecular;
uniform float uShininess;
uniform vec3 uColor;
uniform float uAlpha;
uniform sampler2D uTex;
uniform bool uUseTex;
uniform bool uUnlit;
uniform bool uShadow;

in vec3 vWorldPos;
in vec3 vNormal;
in vec2 vUV;
out vec4 FragColor;

void main() {
    if (uShadow) {
        FragColor = vec4(0.0, 0.0, 0.0, uAlpha);
        return;
    }
    vec3 base = uColor;
    if (uUseTex) {
        base *= texture(uTex, vUV).rgb;
    }
    if (uUnlit) {
        FragColor = vec4(base, uAlpha);
        return;
    }
    vec3 n = normalize(vNormal);
    vec3 l = normalize(uLightPos - vWorldPos);
    float diff = max(dot(n, l), 0.0);
    vec3 v = normalize(uViewPos - vWorldPos);
    vec3 r = reflect(-l, n);
    float spec = pow(max(dot(v, r), 0.0), uShininess) * uSpecular;
    FragColor = vec4(base * (uAmbient + diff) + vec3(spec), uAlpha);
}
` + "\x00"

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(buf))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile shader: %s", strings.TrimRight(buf, "\x00"))
	}
	return shader, nil
}

func linkProgram(vertSrc, fragSrc string) (uint32, error) {
	vs, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	gl.DetachShader(program, vs)
	gl.DetachShader(program, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(buf))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link program: %s", strings.TrimRight(buf, "\x00"))
	}
	return program, nil
}
