package gfx_test

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glexercises/gfx"
	"glexercises/gfx/gfxtest"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "tex.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestLoadTextureMissingFile(t *testing.T) {
	d := gfxtest.New(800, 600)

	tex, err := gfx.LoadTexture(d, filepath.Join(t.TempDir(), "nope.png"), gfx.ChannelsRGB, gfx.WrapRepeat)
	assert.Nil(t, tex)

	var de *gfx.DecodeError
	require.True(t, errors.As(err, &de))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Zero(t, d.Live())
}

func TestLoadTextureUndecodable(t *testing.T) {
	d := gfxtest.New(800, 600)
	path := filepath.Join(t.TempDir(), "junk.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	_, err := gfx.LoadTexture(d, path, gfx.ChannelsRGBA, gfx.WrapRepeat)
	var de *gfx.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, path, de.Path)
}

func TestLoadTextureStoresRGB8ByDefault(t *testing.T) {
	d := gfxtest.New(800, 600)
	path := writePNG(t, 5, 3)

	tex, err := gfx.LoadTexture(d, path, gfx.ChannelsRGBA, gfx.WrapClampToEdge)
	require.NoError(t, err)
	assert.Equal(t, 5, tex.Width)
	assert.Equal(t, 3, tex.Height)

	rec, ok := d.Texture(tex.ID)
	require.True(t, ok)
	// The requested channel format only describes the upload; storage
	// stays RGB8 unless overridden.
	assert.Equal(t, gfx.RGB8, rec.InternalFormat)
	assert.Equal(t, gfx.RGBA, rec.Format)
	assert.Len(t, rec.Pixels, 5*3*4)
	assert.True(t, rec.Mipmapped)
	assert.EqualValues(t, gfx.LinearMipmapLinear, rec.Params[gfx.TextureMinFilter])
	assert.EqualValues(t, gfx.Linear, rec.Params[gfx.TextureMagFilter])
	assert.EqualValues(t, gfx.ClampToEdge, rec.Params[gfx.TextureWrapS])
	assert.EqualValues(t, gfx.ClampToEdge, rec.Params[gfx.TextureWrapT])
	assert.Zero(t, d.BoundTexture(0))
	assert.Empty(t, d.Violations)
}

func TestLoadTextureInternalFormatOverride(t *testing.T) {
	d := gfxtest.New(800, 600)
	path := writePNG(t, 2, 2)

	tex, err := gfx.LoadTexture(d, path, gfx.ChannelsRGBA, gfx.WrapRepeat, gfx.WithInternalFormat(gfx.RGBA8))
	require.NoError(t, err)
	rec, _ := d.Texture(tex.ID)
	assert.Equal(t, gfx.RGBA8, rec.InternalFormat)
	assert.Equal(t, gfx.RGBA8, tex.InternalFormat)
}

func TestPixelsPacking(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{1, 2, 3, 4})
	img.Set(1, 0, color.RGBA{5, 6, 7, 8})
	img.Set(0, 1, color.RGBA{9, 10, 11, 12})
	img.Set(1, 1, color.RGBA{13, 14, 15, 16})

	assert.Equal(t, []byte{1, 2, 3, 5, 6, 7, 9, 10, 11, 13, 14, 15}, gfx.Pixels(img, gfx.ChannelsRGB, false))
	assert.Equal(t, []byte{9, 10, 11, 12, 13, 14, 15, 16, 1, 2, 3, 4, 5, 6, 7, 8}, gfx.Pixels(img, gfx.ChannelsRGBA, true))
}

func TestTextureBind(t *testing.T) {
	d := gfxtest.New(800, 600)
	tex := gfx.SolidTexture(d, 255, 0, 0, 255)

	release := tex.Bind(2)
	assert.Equal(t, tex.ID, d.BoundTexture(2))
	release()
	assert.Zero(t, d.BoundTexture(2))

	tex.Destroy()
	assert.Zero(t, d.Live())
}
