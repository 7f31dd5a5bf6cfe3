// Package normalmap renders a model with forward tangent-space lighting: a
// directional sun, one orbiting point light and an optional torch carried by
// the camera.
package normalmap

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"glexercises/gfx"
	"glexercises/internal/logger"
	"glexercises/lights"
	"glexercises/scene"
)

const (
	Shininess = 64
	// MarkerScale is the size of the cube drawn at the point light.
	MarkerScale = 0.2

	OrbitRadius       = 3
	CameraOrbitRadius = 10

	// Torch cone half-angles in degrees.
	TorchInner = 6.5
	TorchOuter = 8.5
)

var (
	SunColor     = mgl32.Vec3{0.15, 0.15, 0.3}
	SunDirection = mgl32.Vec3{-10, -10, -10}.Normalize()

	LightColor       = mgl32.Vec3{1, 0.3, 0.3}
	LightAttenuation = lights.Attenuation{Constant: 1, Linear: 0.01, Quadratic: 0.032}

	TorchColor = mgl32.Vec3{0.3, 1, 3}
)

// OrbitLight is the point light position at time t: a circle of
// OrbitRadius in the x=0 plane.
func OrbitLight(t float32) mgl32.Vec3 {
	return mgl32.Vec3{0, math32.Cos(t) * OrbitRadius, math32.Sin(t) * OrbitRadius}
}

// OrbitCamera is a position on a circle of the given radius in the y=0
// plane, for an unattended fly-around.
func OrbitCamera(t, radius float32) mgl32.Vec3 {
	return mgl32.Vec3{math32.Sin(t) * radius, 0, math32.Cos(t) * radius}
}

// Frame is everything one call to Draw needs.
type Frame struct {
	View         mgl32.Mat4
	Projection   mgl32.Mat4
	ViewPosition mgl32.Vec3
	// Light is the point light's world position.
	Light mgl32.Vec3

	Drawable gfx.Drawable
	Model    mgl32.Mat4
}

// Renderer owns the lit program and the point light marker.
type Renderer struct {
	Lit    *gfx.Program
	Marker *gfx.Program

	// Torch enables the camera spotlight.
	Torch bool

	cube *gfx.Buffer
	d    gfx.Driver
}

// New compiles both programs and sets the constant lighting uniforms.
func New(d gfx.Driver) (_ *Renderer, err error) {
	r := &Renderer{d: d, Torch: true}
	defer func() {
		if err != nil {
			r.Destroy()
		}
	}()

	if r.Lit, err = gfx.NewProgram(d, litVert, litFrag); err != nil {
		return nil, fmt.Errorf("lit program: %w", err)
	}
	if r.Marker, err = gfx.NewProgram(d, markerVert, markerFrag); err != nil {
		return nil, fmt.Errorf("marker program: %w", err)
	}
	if r.cube, err = gfx.NewBuffer(d, scene.Cube().Positions(), nil, gfx.PositionOnly); err != nil {
		return nil, fmt.Errorf("marker cube: %w", err)
	}

	r.Lit.SetInt("material.diffuse", int32(scene.UnitDiffuse))
	r.Lit.SetInt("material.specular", int32(scene.UnitSpecular))
	r.Lit.SetInt("material.normal", int32(scene.UnitNormal))
	r.Lit.SetFloat("material.shininess", Shininess)

	r.Lit.SetVec3("sun_direction", SunDirection)
	r.Lit.SetVec3("sun_color", SunColor)
	r.Lit.SetVec3("light_color", LightColor)
	r.Lit.SetVec3("light_attenuation", LightAttenuation.Vec3())
	r.Lit.SetVec3("torch_color", TorchColor)
	r.Lit.SetFloat("torch_inner", TorchInner)
	r.Lit.SetFloat("torch_outer", TorchOuter)

	logger.Log.Debug("created normal map renderer")
	return r, nil
}

// ToggleTorch flips the camera spotlight and returns its new state.
func (r *Renderer) ToggleTorch() bool {
	r.Torch = !r.Torch
	logger.Log.Debug("torch", zap.Bool("on", r.Torch))
	return r.Torch
}

// Draw clears the bound framebuffer, draws the model lit by all three
// lights and then the point light marker.
func (r *Renderer) Draw(f Frame) {
	r.d.Enable(gfx.DepthTest)
	r.d.ClearColor(0, 0, 0, 1)
	r.d.Clear(gfx.ColorBufferBit | gfx.DepthBufferBit)

	r.Lit.SetMat4("view", f.View)
	r.Lit.SetMat4("projection", f.Projection)
	r.Lit.SetMat4("model", f.Model)
	r.Lit.SetVec3("view_position", f.ViewPosition)
	r.Lit.SetVec3("light_position", f.Light)
	r.Lit.SetBool("torch", r.Torch)
	if f.Drawable != nil {
		f.Drawable.Draw(r.d, r.Lit)
	}

	r.Marker.SetMat4("view", f.View)
	r.Marker.SetMat4("projection", f.Projection)
	r.Marker.SetMat4("model", mgl32.Translate3D(f.Light[0], f.Light[1], f.Light[2]).
		Mul4(mgl32.Scale3D(MarkerScale, MarkerScale, MarkerScale)))
	gfx.Draw(r.d, r.cube, r.Marker)
}

func (r *Renderer) Destroy() {
	for _, p := range []*gfx.Program{r.Lit, r.Marker} {
		if p != nil {
			p.Destroy()
		}
	}
	if r.cube != nil {
		r.cube.Destroy()
	}
	r.Lit, r.Marker, r.cube = nil, nil, nil
}
