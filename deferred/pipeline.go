// Package deferred renders scenes with deferred shading: a geometry pass
// fills a G-buffer and a full-screen lighting pass shades it with up to
// lights.MaxLights point lights.
package deferred

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"glexercises/gbuffer"
	"glexercises/gfx"
	"glexercises/internal/logger"
	"glexercises/lights"
	"glexercises/scene"
)

// MarkerScale is the size of the cube drawn at each light position.
const MarkerScale = 0.2

// Instance places a Drawable in the world. The geometry pass expects its
// material maps on scene.UnitDiffuse, scene.UnitSpecular and
// scene.UnitNormal, as *scene.Model binds them.
type Instance struct {
	Drawable gfx.Drawable
	Model    mgl32.Mat4
}

// Frame is everything one call to Render needs.
type Frame struct {
	View         mgl32.Mat4
	Projection   mgl32.Mat4
	ViewPosition mgl32.Vec3

	Instances []Instance
	Lights    []lights.PointLight

	// Width and Height size the default framebuffer.
	Width, Height int32
}

// Pipeline owns the G-buffer, the three programs and the two meshes the
// passes draw.
type Pipeline struct {
	GBuffer  *gbuffer.GBuffer
	Geometry *gfx.Program
	Lighting *gfx.Program
	Marker   *gfx.Program

	Options Options

	screen *gfx.Buffer
	cube   *gfx.Buffer
	d      gfx.Driver
}

// New compiles the programs and allocates a width x height G-buffer. Any
// failure releases what was created before it.
func New(d gfx.Driver, width, height int, opts Options) (_ *Pipeline, err error) {
	p := &Pipeline{Options: opts.withDefaults(), d: d}
	defer func() {
		if err != nil {
			p.Destroy()
		}
	}()

	if p.GBuffer, err = gbuffer.New(d, width, height); err != nil {
		return nil, err
	}
	if p.Geometry, err = gfx.NewProgram(d, geometryVert, geometryFrag); err != nil {
		return nil, fmt.Errorf("geometry program: %w", err)
	}
	if p.Lighting, err = gfx.NewProgram(d, lightingVert, lightingFrag); err != nil {
		return nil, fmt.Errorf("lighting program: %w", err)
	}
	if p.Marker, err = gfx.NewProgram(d, markerVert, markerFrag); err != nil {
		return nil, fmt.Errorf("marker program: %w", err)
	}
	if p.screen, err = gfx.NewBuffer(d, scene.ScreenQuad(), nil, gfx.PositionUV); err != nil {
		return nil, fmt.Errorf("screen quad: %w", err)
	}
	if p.cube, err = gfx.NewBuffer(d, scene.Cube().Positions(), nil, gfx.PositionOnly); err != nil {
		return nil, fmt.Errorf("marker cube: %w", err)
	}

	p.Geometry.SetInt("material.diffuse", int32(scene.UnitDiffuse))
	p.Geometry.SetInt("material.specular", int32(scene.UnitSpecular))
	p.Geometry.SetInt("material.normal", int32(scene.UnitNormal))

	p.Lighting.SetInt("gbuffer.position", int32(gbuffer.UnitPosition))
	p.Lighting.SetInt("gbuffer.normal", int32(gbuffer.UnitNormal))
	p.Lighting.SetInt("gbuffer.color_spec", int32(gbuffer.UnitColorSpec))

	logger.Log.Debug("created deferred pipeline",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Bool("specular", p.Options.Specular),
		zap.Stringer("debug", p.Options.Debug),
		zap.Bool("cull", p.Options.Cull),
	)
	return p, nil
}

// Resize replaces the G-buffer with one of the new size.
func (p *Pipeline) Resize(width, height int) error {
	g, err := gbuffer.New(p.d, width, height)
	if err != nil {
		return err
	}
	p.GBuffer.Destroy()
	p.GBuffer = g
	return nil
}

// GeometryPass draws every instance into the G-buffer.
func (p *Pipeline) GeometryPass(f Frame) {
	release := p.GBuffer.Bind()
	defer release()

	p.d.Enable(gfx.DepthTest)
	p.d.ClearColor(0, 0, 0, 1)
	p.d.Clear(gfx.ColorBufferBit | gfx.DepthBufferBit)

	p.Geometry.SetMat4("view", f.View)
	p.Geometry.SetMat4("projection", f.Projection)
	p.Geometry.SetInt("debug_component", int32(p.Options.Debug))

	var frustum scene.Frustum
	if p.Options.Cull {
		frustum = scene.FrustumFromMatrix(f.Projection.Mul4(f.View))
	}
	for _, inst := range f.Instances {
		if p.Options.Cull && !visible(inst, &frustum) {
			continue
		}
		p.Geometry.SetMat4("model", inst.Model)
		inst.Drawable.Draw(p.d, p.Geometry)
	}
}

// Bounded is a Drawable that knows its model-space extent.
type Bounded interface {
	Bounds() scene.AABB
}

func visible(inst Instance, f *scene.Frustum) bool {
	b, ok := inst.Drawable.(Bounded)
	if !ok {
		return true
	}
	return b.Bounds().Transform(inst.Model).Intersects(f)
}

// LightingPass shades the G-buffer into the default framebuffer.
func (p *Pipeline) LightingPass(f Frame) {
	p.d.BindFramebuffer(gfx.Framebuffer, 0)
	p.d.Viewport(0, 0, f.Width, f.Height)
	p.d.Clear(gfx.ColorBufferBit | gfx.DepthBufferBit)

	release := p.GBuffer.BindTextures()
	defer release()

	count := min(len(f.Lights), lights.MaxLights)
	att := p.Options.Attenuation.Vec3()
	for i, l := range f.Lights[:count] {
		p.Lighting.SetVec3(fmt.Sprintf("lights[%d].position", i), l.Position)
		p.Lighting.SetVec3(fmt.Sprintf("lights[%d].color", i), l.Color)
		p.Lighting.SetVec3(fmt.Sprintf("lights[%d].attenuation", i), att)
	}
	p.Lighting.SetInt("light_count", int32(count))
	p.Lighting.SetVec3("view_position", f.ViewPosition)
	p.Lighting.SetBool("enable_specular", p.Options.Specular)

	gfx.Render(p.d, p.screen, p.Lighting, gfx.TriangleStrip)
}

// DrawMarkers draws a small cube in each light's color at its position. It
// is meant to follow a depth blit so the markers are hidden behind geometry.
func (p *Pipeline) DrawMarkers(f Frame) {
	p.Marker.SetMat4("view", f.View)
	p.Marker.SetMat4("projection", f.Projection)

	for _, l := range f.Lights {
		model := mgl32.Translate3D(l.Position[0], l.Position[1], l.Position[2]).
			Mul4(mgl32.Scale3D(MarkerScale, MarkerScale, MarkerScale))
		p.Marker.SetMat4("model", model)
		p.Marker.SetVec3("color", l.Color)
		gfx.Draw(p.d, p.cube, p.Marker)
	}
}

// Render runs one frame: geometry, lighting, then the configured blit. A
// depth blit is followed by the light markers. Presenting is left to the
// caller.
func (p *Pipeline) Render(f Frame) {
	p.GeometryPass(f)
	p.LightingPass(f)

	if p.Options.Blit == gbuffer.SourceNone {
		return
	}
	p.GBuffer.Blit(p.Options.Blit, f.Width, f.Height)
	if p.Options.Blit == gbuffer.SourceDepth {
		p.DrawMarkers(f)
	}
}

// Destroy frees every GPU object the pipeline owns.
func (p *Pipeline) Destroy() {
	for _, prog := range []*gfx.Program{p.Geometry, p.Lighting, p.Marker} {
		if prog != nil {
			prog.Destroy()
		}
	}
	for _, b := range []*gfx.Buffer{p.screen, p.cube} {
		if b != nil {
			b.Destroy()
		}
	}
	if p.GBuffer != nil {
		p.GBuffer.Destroy()
	}
	p.Geometry, p.Lighting, p.Marker = nil, nil, nil
	p.screen, p.cube, p.GBuffer = nil, nil, nil
}
