package normalmap_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glexercises/gfx"
	"glexercises/gfx/gfxtest"
	"glexercises/normalmap"
	"glexercises/scene"
)

func uniform(t *testing.T, d *gfxtest.Driver, p *gfx.Program, name string) []float32 {
	t.Helper()
	v, ok := d.Uniform(p.ID, name)
	require.True(t, ok, "uniform %s was never set", name)
	return v
}

func assertVec3(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], 1e-5, "want %v, got %v", want, got)
}

func newRenderer(t *testing.T) (*gfxtest.Driver, *normalmap.Renderer, *scene.Model) {
	t.Helper()
	d := gfxtest.New(800, 600)
	r, err := normalmap.New(d)
	require.NoError(t, err)
	cube, err := scene.Upload(d, []*scene.Mesh{scene.Cube()}, scene.NewTextureCache(d))
	require.NoError(t, err)
	return d, r, cube
}

func TestOrbitLight(t *testing.T) {
	tests := []struct {
		t    float32
		want mgl32.Vec3
	}{
		{0, mgl32.Vec3{0, 3, 0}},
		{mgl32.DegToRad(90), mgl32.Vec3{0, 0, 3}},
		{mgl32.DegToRad(180), mgl32.Vec3{0, -3, 0}},
	}
	for _, tt := range tests {
		got := normalmap.OrbitLight(tt.t)
		assertVec3(t, tt.want, got)
		assert.InDelta(t, normalmap.OrbitRadius, got.Len(), 1e-5)
	}
}

func TestOrbitCamera(t *testing.T) {
	assertVec3(t, mgl32.Vec3{0, 0, 10}, normalmap.OrbitCamera(0, 10))
	assertVec3(t, mgl32.Vec3{10, 0, 0}, normalmap.OrbitCamera(mgl32.DegToRad(90), 10))
}

func TestNewSetsConstantUniforms(t *testing.T) {
	d, r, _ := newRenderer(t)

	assert.Equal(t, []float32{0}, uniform(t, d, r.Lit, "material.diffuse"))
	assert.Equal(t, []float32{1}, uniform(t, d, r.Lit, "material.specular"))
	assert.Equal(t, []float32{2}, uniform(t, d, r.Lit, "material.normal"))
	assert.Equal(t, []float32{64}, uniform(t, d, r.Lit, "material.shininess"))
	assert.Equal(t, []float32{1, 0.01, 0.032}, uniform(t, d, r.Lit, "light_attenuation"))
	assert.Equal(t, []float32{6.5}, uniform(t, d, r.Lit, "torch_inner"))
	assert.Equal(t, []float32{8.5}, uniform(t, d, r.Lit, "torch_outer"))

	sun := uniform(t, d, r.Lit, "sun_direction")
	assert.InDelta(t, -0.57735, sun[0], 1e-4)
	assert.InDelta(t, sun[0], sun[1], 1e-6)
	assert.InDelta(t, sun[0], sun[2], 1e-6)
	assert.True(t, r.Torch)
	assert.Empty(t, d.Violations)
}

func TestDraw(t *testing.T) {
	d, r, cube := newRenderer(t)
	cam := scene.NewCamera(mgl32.Vec3{0, 0, 10})
	light := normalmap.OrbitLight(0)

	r.Draw(normalmap.Frame{
		View:         cam.LookAt(mgl32.Vec3{}),
		Projection:   cam.Projection(800.0 / 600),
		ViewPosition: cam.Position,
		Light:        light,
		Drawable:     cube,
		Model:        mgl32.Ident4(),
	})

	require.Len(t, d.Draws, 2)
	lit, marker := d.Draws[0], d.Draws[1]
	assert.Equal(t, r.Lit.ID, lit.Program)
	assert.Equal(t, int32(36), lit.Count)
	assert.Len(t, lit.Textures, 3)
	assert.Equal(t, r.Marker.ID, marker.Program)
	assert.Equal(t, int32(36), marker.Count)
	assert.Equal(t, uint32(0), marker.Framebuffer)

	assert.Equal(t, []float32{0, 0, 10}, uniform(t, d, r.Lit, "view_position"))
	assert.Equal(t, []float32{light[0], light[1], light[2]}, uniform(t, d, r.Lit, "light_position"))
	assert.Equal(t, []float32{1}, uniform(t, d, r.Lit, "torch"))

	m := uniform(t, d, r.Marker, "model")
	assert.InDelta(t, normalmap.MarkerScale, m[0], 1e-6)
	assert.InDelta(t, light[1], m[13], 1e-6)
	assert.Equal(t, []gfx.Enum{gfx.ColorBufferBit | gfx.DepthBufferBit}, d.Clears)
	assert.Empty(t, d.Violations)
}

func TestToggleTorch(t *testing.T) {
	d, r, cube := newRenderer(t)

	assert.False(t, r.ToggleTorch())
	r.Draw(normalmap.Frame{Drawable: cube, Model: mgl32.Ident4()})
	assert.Equal(t, []float32{0}, uniform(t, d, r.Lit, "torch"))

	assert.True(t, r.ToggleTorch())
	r.Draw(normalmap.Frame{Drawable: cube, Model: mgl32.Ident4()})
	assert.Equal(t, []float32{1}, uniform(t, d, r.Lit, "torch"))
}

func TestDrawWithoutModelDrawsMarkerOnly(t *testing.T) {
	d, r, _ := newRenderer(t)

	r.Draw(normalmap.Frame{Model: mgl32.Ident4()})
	require.Len(t, d.Draws, 1)
	assert.Equal(t, r.Marker.ID, d.Draws[0].Program)
}

func TestDestroy(t *testing.T) {
	d := gfxtest.New(800, 600)
	r, err := normalmap.New(d)
	require.NoError(t, err)

	r.Destroy()
	assert.Zero(t, d.Live())
	r.Destroy()
}
