// Package input turns polled key and cursor state into per-frame queries:
// held keys, press edges and mouse deltas.
package input

import "glexercises/scene"

// Key is a GLFW key code.
type Key int

// GLFW key codes used by the exercises.
const (
	KeySpace  Key = 32
	KeyA      Key = 65
	KeyC      Key = 67
	KeyD      Key = 68
	KeyE      Key = 69
	KeyF      Key = 70
	KeyG      Key = 71
	KeyQ      Key = 81
	KeyS      Key = 83
	KeyT      Key = 84
	KeyW      Key = 87
	KeyEscape Key = 256

	maxKey = 512
)

// Source is polled once per frame. *core.Window implements it.
type Source interface {
	KeyDown(k Key) bool
	CursorPos() (x, y float64)
}

// DefaultKeys is what Manager polls when none are given.
var DefaultKeys = []Key{
	KeyW, KeyA, KeyS, KeyD, KeyQ, KeyE, KeySpace, KeyC,
	KeyG, KeyT, KeyF, KeyEscape,
}

// Manager tracks key and cursor state across frames.
type Manager struct {
	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	lastMouseX, lastMouseY   float64

	keys     [maxKey]bool
	keysPrev [maxKey]bool
	watched  []Key

	firstFrame bool
}

// NewManager polls the given keys, or DefaultKeys.
func NewManager(keys ...Key) *Manager {
	if len(keys) == 0 {
		keys = DefaultKeys
	}
	return &Manager{watched: keys, firstFrame: true}
}

// Update should be called once per frame after polling events.
func (m *Manager) Update(src Source) {
	x, y := src.CursorPos()
	if m.firstFrame {
		m.lastMouseX, m.lastMouseY = x, y
		m.firstFrame = false
	}
	m.MouseDeltaX = x - m.lastMouseX
	m.MouseDeltaY = y - m.lastMouseY
	m.lastMouseX, m.lastMouseY = x, y
	m.MouseX, m.MouseY = x, y

	m.keysPrev = m.keys
	for _, k := range m.watched {
		if k >= 0 && k < maxKey {
			m.keys[k] = src.KeyDown(k)
		}
	}
}

// Down reports whether k is held.
func (m *Manager) Down(k Key) bool {
	if k < 0 || k >= maxKey {
		return false
	}
	return m.keys[k]
}

// Pressed reports whether k went down this frame.
func (m *Manager) Pressed(k Key) bool {
	if k < 0 || k >= maxKey {
		return false
	}
	return m.keys[k] && !m.keysPrev[k]
}

// Released reports whether k went up this frame.
func (m *Manager) Released(k Key) bool {
	if k < 0 || k >= maxKey {
		return false
	}
	return !m.keys[k] && m.keysPrev[k]
}

// Controls maps WASD, Space/C and Q/E to camera movement.
func (m *Manager) Controls() scene.Controls {
	return scene.Controls{
		Forward:  m.Down(KeyW),
		Back:     m.Down(KeyS),
		Left:     m.Down(KeyA),
		Right:    m.Down(KeyD),
		Up:       m.Down(KeySpace),
		Down:     m.Down(KeyC),
		YawLeft:  m.Down(KeyQ),
		YawRight: m.Down(KeyE),
	}
}

// Look returns the cursor movement as camera rotation offsets. Screen y
// grows downwards, so it is inverted for pitch.
func (m *Manager) Look() (yaw, pitch float32) {
	return float32(m.MouseDeltaX), float32(-m.MouseDeltaY)
}
