package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// WorldUp is the fixed up axis the camera basis is built against.
var WorldUp = mgl32.Vec3{0, 1, 0}

const (
	DefaultSpeed       = 2.5
	DefaultSensitivity = 0.01
	// keyYawStep is the mouse offset the Q and E keys feed into Rotate.
	keyYawStep = 5.0
	maxPitch   = 89.0
)

// Controls is the per-frame movement intent, decoupled from any key map.
type Controls struct {
	Forward, Back     bool
	Left, Right       bool
	Up, Down          bool
	YawLeft, YawRight bool
}

// Camera is a yaw/pitch fly camera.
type Camera struct {
	Position mgl32.Vec3
	Front    mgl32.Vec3
	Right    mgl32.Vec3
	Up       mgl32.Vec3

	Yaw   float32 // degrees
	Pitch float32 // degrees

	FOV  float32 // vertical, degrees
	Near float32
	Far  float32

	Speed       float32
	Sensitivity float32
	// FPS pins the camera to the y=0 plane after every move.
	FPS bool
}

// NewCamera looks down -Z from position.
func NewCamera(position mgl32.Vec3) *Camera {
	c := &Camera{
		Position:    position,
		Yaw:         -90,
		FOV:         45,
		Near:        0.1,
		Far:         100,
		Speed:       DefaultSpeed,
		Sensitivity: DefaultSensitivity,
	}
	c.updateVectors()
	return c
}

func (c *Camera) updateVectors() {
	yaw := mgl32.DegToRad(c.Yaw)
	pitch := mgl32.DegToRad(c.Pitch)
	c.Front = mgl32.Vec3{
		math32.Cos(yaw) * math32.Cos(pitch),
		math32.Sin(pitch),
		math32.Sin(yaw) * math32.Cos(pitch),
	}.Normalize()
	c.rebase()
}

func (c *Camera) rebase() {
	c.Right = c.Front.Cross(WorldUp).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
}

// Move applies one frame of keyboard movement scaled by dt seconds.
func (c *Camera) Move(in Controls, dt float32) {
	step := c.Speed * dt
	if in.Forward {
		c.Position = c.Position.Add(c.Front.Mul(step))
	}
	if in.Back {
		c.Position = c.Position.Sub(c.Front.Mul(step))
	}
	if in.Left {
		c.Position = c.Position.Sub(c.Right.Mul(step))
	}
	if in.Right {
		c.Position = c.Position.Add(c.Right.Mul(step))
	}
	if in.YawLeft {
		c.Rotate(-keyYawStep, 0)
	}
	if in.YawRight {
		c.Rotate(keyYawStep, 0)
	}
	if in.Up {
		c.Position = c.Position.Add(c.Up.Mul(step))
	}
	if in.Down {
		c.Position = c.Position.Sub(c.Up.Mul(step))
	}
	if c.FPS {
		c.Position[1] = 0
	}
}

// Rotate turns the camera by a mouse offset. Pitch is clamped to ±89°.
func (c *Camera) Rotate(xoffset, yoffset float32) {
	c.Yaw += xoffset * c.Sensitivity
	c.Pitch += yoffset * c.Sensitivity
	c.Pitch = mgl32.Clamp(c.Pitch, -maxPitch, maxPitch)
	c.updateVectors()
}

// LookAt points the camera at target and returns the view matrix. Yaw and
// pitch follow the new direction so later mouse input continues from it.
func (c *Camera) LookAt(target mgl32.Vec3) mgl32.Mat4 {
	dir := target.Sub(c.Position)
	if dir.Len() == 0 {
		return c.View()
	}
	c.Front = dir.Normalize()
	c.rebase()
	c.Pitch = mgl32.RadToDeg(math32.Asin(mgl32.Clamp(c.Front[1], -1, 1)))
	c.Yaw = mgl32.RadToDeg(math32.Atan2(c.Front[2], c.Front[0]))
	return c.View()
}

// View is the look-at matrix along Front.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

// Projection is a perspective matrix for the given aspect ratio.
func (c *Camera) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}
