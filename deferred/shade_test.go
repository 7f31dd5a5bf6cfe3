package deferred_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glexercises/deferred"
	"glexercises/gfx"
	"glexercises/gfx/gfxtest"
	"glexercises/lights"
	"glexercises/scene"
)

func assertVec3(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], delta, "want %v, got %v", want, got)
}

func TestShadeAmbientOnly(t *testing.T) {
	f := deferred.Fragment{Normal: mgl32.Vec3{0, 0, 1}, Albedo: mgl32.Vec3{1, 0.5, 0}}

	got := deferred.Shade(f, nil, mgl32.Vec3{0, 0, 5}, deferred.Options{})
	assertVec3(t, mgl32.Vec3{0.1, 0.05, 0}, got, 1e-6)
}

func TestShadeDiffuseAndSpecular(t *testing.T) {
	f := deferred.Fragment{Normal: mgl32.Vec3{0, 0, 1}, Albedo: mgl32.Vec3{1, 1, 1}, Specular: 1}
	ls := []lights.PointLight{{Position: mgl32.Vec3{0, 0, 2}, Color: mgl32.Vec3{1, 1, 1}}}
	kA := lights.DefaultAttenuation.Factor(2)

	diffuse := deferred.Shade(f, ls, mgl32.Vec3{0, 0, 5}, deferred.Options{})
	assert.InDelta(t, 0.1+kA, diffuse[0], 1e-5)

	// The highlight is off by default and only added on request.
	lit := deferred.Shade(f, ls, mgl32.Vec3{0, 0, 5}, deferred.Options{Specular: true})
	assert.InDelta(t, 0.1+2*kA, lit[0], 1e-5)
}

func TestShadeBackfacingLight(t *testing.T) {
	f := deferred.Fragment{Normal: mgl32.Vec3{0, 0, 1}, Albedo: mgl32.Vec3{1, 1, 1}}
	ls := []lights.PointLight{{Position: mgl32.Vec3{0, 0, -2}, Color: mgl32.Vec3{1, 1, 1}}}

	got := deferred.Shade(f, ls, mgl32.Vec3{0, 0, 5}, deferred.Options{})
	assert.InDelta(t, 0.1, got[0], 1e-6)
}

func TestShadeIgnoresLightsPastCapacity(t *testing.T) {
	f := deferred.Fragment{Normal: mgl32.Vec3{0, 0, 1}, Albedo: mgl32.Vec3{1, 1, 1}}
	ls := make([]lights.PointLight, lights.MaxLights+1)
	for i := range lights.MaxLights {
		ls[i] = lights.PointLight{Position: mgl32.Vec3{0, 0, -2}}
	}
	ls[lights.MaxLights] = lights.PointLight{Position: mgl32.Vec3{0, 0, 1}, Color: mgl32.Vec3{1, 1, 1}}

	got := deferred.Shade(f, ls, mgl32.Vec3{0, 0, 5}, deferred.Options{})
	assert.InDelta(t, 0.1, got[0], 1e-6)
}

func TestShadeSkipsLightAtFragment(t *testing.T) {
	f := deferred.Fragment{Normal: mgl32.Vec3{0, 0, 1}, Albedo: mgl32.Vec3{1, 1, 1}}
	ls := []lights.PointLight{{Color: mgl32.Vec3{1, 1, 1}}}

	got := deferred.Shade(f, ls, mgl32.Vec3{0, 0, 5}, deferred.Options{Specular: true})
	for i := range 3 {
		assert.False(t, math.IsNaN(float64(got[i])), "component %d is NaN", i)
	}
	assertVec3(t, mgl32.Vec3{0.1, 0.1, 0.1}, got, 1e-6)
}

func TestShadeCustomAttenuation(t *testing.T) {
	f := deferred.Fragment{Normal: mgl32.Vec3{0, 0, 1}, Albedo: mgl32.Vec3{1, 1, 1}}
	ls := []lights.PointLight{{Position: mgl32.Vec3{0, 0, 1}, Color: mgl32.Vec3{1, 1, 1}}}

	got := deferred.Shade(f, ls, mgl32.Vec3{0, 0, 5}, deferred.Options{
		Attenuation: lights.Attenuation{Constant: 1},
	})
	assert.InDelta(t, 1.1, got[0], 1e-6)
}

// centreFragment rebuilds the G-buffer texel under the centre pixel from
// the matrices and textures the geometry pass actually submitted.
func centreFragment(t *testing.T, d *gfxtest.Driver, p *deferred.Pipeline, mesh *scene.Mesh) (deferred.Fragment, bool) {
	t.Helper()
	mat := func(name string) mgl32.Mat4 {
		var m mgl32.Mat4
		copy(m[:], uniform(t, d, p.Geometry, name))
		return m
	}
	ray, err := scene.ScreenRay(width/2, height/2, width, height, mat("view"), mat("projection"))
	require.NoError(t, err)
	hit, ok := ray.Mesh(mesh, mat("model"))
	if !ok {
		return deferred.Fragment{}, false
	}

	geometry := d.Draws[0]
	diffuse, ok := d.Texture(geometry.Textures[scene.UnitDiffuse])
	require.True(t, ok)
	specular, ok := d.Texture(geometry.Textures[scene.UnitSpecular])
	require.True(t, ok)
	return deferred.Fragment{
		Position: hit.Point,
		Normal:   hit.Normal,
		Albedo: mgl32.Vec3{
			float32(diffuse.Pixels[0]) / 255,
			float32(diffuse.Pixels[1]) / 255,
			float32(diffuse.Pixels[2]) / 255,
		},
		Specular: float32(specular.Pixels[0]) / 255,
	}, true
}

func renderCube(t *testing.T, light lights.PointLight) (deferred.Fragment, mgl32.Vec3) {
	t.Helper()
	fx := newFixture(t, deferred.Options{})
	frame := fx.frame(light)
	fx.p.Render(frame)
	require.Empty(t, fx.d.Violations)

	frag, hit := centreFragment(t, fx.d, fx.p, scene.Cube())
	require.True(t, hit, "centre ray misses the cube")
	return frag, deferred.Shade(frag, frame.Lights, frame.ViewPosition, fx.p.Options)
}

func TestCentrePixelIsLit(t *testing.T) {
	frag, color := renderCube(t, lights.PointLight{Position: mgl32.Vec3{0, 3, 0}, Color: mgl32.Vec3{1, 1, 1}})

	assertVec3(t, mgl32.Vec3{0, 0, 0.5}, frag.Position, 1e-3)
	assertVec3(t, mgl32.Vec3{0, 0, 1}, frag.Normal, 1e-4)
	for i := 0; i < 3; i++ {
		assert.Greater(t, color[i], float32(0), "channel %d is black", i)
	}
}

func TestCentrePixelFacingLight(t *testing.T) {
	_, color := renderCube(t, lights.PointLight{Position: mgl32.Vec3{0, 0, 3}, Color: mgl32.Vec3{1, 1, 1}})

	assert.InDelta(t, 0.1+lights.DefaultAttenuation.Factor(2.5), color[0], 1e-3)
}

func TestCentrePixelUsesSubmittedModel(t *testing.T) {
	fx := newFixture(t, deferred.Options{})
	frame := fx.frame()
	frame.Instances[0].Model = mgl32.Translate3D(0, 0, -1)
	fx.p.Render(frame)

	frag, hit := centreFragment(t, fx.d, fx.p, scene.Cube())
	require.True(t, hit)
	assert.InDelta(t, -0.5, frag.Position.Z(), 1e-3)
	assert.Equal(t, gfx.Triangles, fx.d.Draws[0].Mode)
}
