package desktop

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
)

const windowTitle = "Swim Race"

func initWindow(width, height int) (*glfw.Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Decorated, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)

	window, err := glfw.CreateWindow(width, height, windowTitle, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	return window, nil
}

// titleFor puts the race status next to the program name.
func titleFor(status string) string {
	if status == "" {
		return windowTitle
	}
	return windowTitle + " - " + status
}
