// Package core owns the GLFW window and the OpenGL context it carries.
package core

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"glexercises/input"
	"glexercises/internal/logger"
)

func init() {
	// GLFW and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string

	onResize func(width, height int)
}

type WindowConfig struct {
	Width     int
	Height    int
	Title     string
	Resizable bool
	VSync     bool
	// CaptureCursor hides the cursor and reports unbounded movement, for
	// mouse look.
	CaptureCursor bool
	// Hidden creates an invisible window, for offscreen rendering.
	Hidden bool
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:     1600,
		Height:    900,
		Title:     "glexercises",
		Resizable: true,
		VSync:     true,
	}
}

// NewWindow initialises GLFW, opens a window with an OpenGL 4.1 core
// context and makes that context current.
func NewWindow(config WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))
	glfw.WindowHint(glfw.Visible, boolToInt(!config.Hidden))

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	handle.MakeContextCurrent()
	glfw.SwapInterval(boolToInt(config.VSync))

	if config.CaptureCursor {
		handle.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	}

	fbw, fbh := handle.GetFramebufferSize()
	window := &Window{
		Handle: handle,
		Width:  fbw,
		Height: fbh,
		Title:  config.Title,
	}

	handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		window.Width = width
		window.Height = height
		if window.onResize != nil {
			window.onResize(width, height)
		}
	})

	logger.Log.Info("opened window",
		zap.String("title", config.Title),
		zap.Int("width", fbw),
		zap.Int("height", fbh),
		zap.Bool("vsync", config.VSync),
	)
	return window, nil
}

// OnResize registers fn to run with the new framebuffer size whenever it
// changes.
func (w *Window) OnResize(fn func(width, height int)) {
	w.onResize = fn
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) SetShouldClose(v bool) {
	w.Handle.SetShouldClose(v)
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

// WaitEvents blocks until at least one event arrives. Render loops use it
// while the framebuffer has zero size.
func (w *Window) WaitEvents() {
	glfw.WaitEvents()
}

func (w *Window) SwapBuffers() {
	w.Handle.SwapBuffers()
}

// Time is seconds since GLFW was initialised.
func (w *Window) Time() float64 {
	return glfw.GetTime()
}

// Aspect is the framebuffer width over height.
func (w *Window) Aspect() float32 {
	if w.Height == 0 {
		return 1
	}
	return float32(w.Width) / float32(w.Height)
}

// KeyDown implements input.Source.
func (w *Window) KeyDown(k input.Key) bool {
	return w.Handle.GetKey(glfw.Key(k)) == glfw.Press
}

// CursorPos implements input.Source.
func (w *Window) CursorPos() (float64, float64) {
	return w.Handle.GetCursorPos()
}

func (w *Window) SetTitle(title string) {
	w.Handle.SetTitle(title)
	w.Title = title
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ input.Source = (*Window)(nil)
