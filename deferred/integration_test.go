//go:build glintegration

package deferred_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glexercises/core"
	"glexercises/deferred"
	"glexercises/gfx"
	"glexercises/internal/opengl"
	"glexercises/lights"
	"glexercises/scene"
)

// Needs a display and a GL 4.1 driver: go test -tags glintegration ./deferred
func TestCentrePixelOnGPU(t *testing.T) {
	wc := core.DefaultWindowConfig()
	wc.Hidden = true
	win, err := core.NewWindow(wc)
	if err != nil {
		t.Skipf("no window: %v", err)
	}
	defer win.Destroy()

	d, err := opengl.Init()
	require.NoError(t, err)

	p, err := deferred.New(d, wc.Width, wc.Height, deferred.Options{})
	require.NoError(t, err)
	defer p.Destroy()

	cache := scene.NewTextureCache(d)
	defer cache.Destroy()
	cube, err := scene.Upload(d, []*scene.Mesh{scene.Cube()}, cache)
	require.NoError(t, err)
	defer cube.Destroy()
	require.NoError(t, opengl.CheckError("setup"))

	cam := scene.NewCamera(mgl32.Vec3{0, 0, 3})
	p.Render(deferred.Frame{
		View:         cam.LookAt(mgl32.Vec3{}),
		Projection:   cam.Projection(float32(wc.Width) / float32(wc.Height)),
		ViewPosition: cam.Position,
		Instances:    []deferred.Instance{{Drawable: cube, Model: mgl32.Ident4()}},
		Lights:       []lights.PointLight{{Position: mgl32.Vec3{0, 3, 0}, Color: mgl32.Vec3{1, 1, 1}}},
		Width:        int32(wc.Width),
		Height:       int32(wc.Height),
	})

	d.BindFramebuffer(gfx.Framebuffer, 0)
	px := d.ReadPixels(int32(wc.Width)/2, int32(wc.Height)/2, 1, 1)
	require.Len(t, px, 4)
	require.NoError(t, opengl.CheckError("render"))
	assert.NotZero(t, int(px[0])+int(px[1])+int(px[2]), "centre pixel is black")
}
