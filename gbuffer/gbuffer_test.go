package gbuffer_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glexercises/gbuffer"
	"glexercises/gfx"
	"glexercises/gfx/gfxtest"
)

func TestNewIsComplete(t *testing.T) {
	sizes := [][2]int{{1600, 900}, {1, 1}, {640, 480}, {4096, 16}}
	for _, s := range sizes {
		d := gfxtest.New(int32(s[0]), int32(s[1]))
		g, err := gbuffer.New(d, s[0], s[1])
		require.NoError(t, err, "%dx%d", s[0], s[1])
		assert.NotZero(t, g.FBO)
		assert.Empty(t, d.Violations)

		_, _, fbo := d.Bound()
		assert.Zero(t, fbo, "creation must leave the default framebuffer bound")
	}
}

func TestNewRejectsDegenerateSize(t *testing.T) {
	for _, s := range [][2]int{{0, 0}, {0, 900}, {1600, 0}, {-1, 5}} {
		d := gfxtest.New(1600, 900)
		g, err := gbuffer.New(d, s[0], s[1])
		assert.ErrorIs(t, err, gbuffer.ErrInvalidSize)
		assert.Nil(t, g)
		assert.Zero(t, d.Live())
	}
}

func TestAttachmentLayout(t *testing.T) {
	d := gfxtest.New(1600, 900)
	g, err := gbuffer.New(d, 1600, 900)
	require.NoError(t, err)

	want := []struct {
		slot     gfx.Enum
		tex      uint32
		internal gfx.Enum
		xtype    gfx.Enum
	}{
		{gfx.ColorAttachment(0), g.Position, gfx.RGBA16F, gfx.Float},
		{gfx.ColorAttachment(1), g.Normal, gfx.RGBA16F, gfx.Float},
		{gfx.ColorAttachment(2), g.ColorSpec, gfx.RGBA, gfx.UnsignedByte},
	}
	for _, w := range want {
		tex, _, ok := d.Attachment(g.FBO, w.slot)
		require.True(t, ok)
		assert.Equal(t, w.tex, tex)

		rec, ok := d.Texture(tex)
		require.True(t, ok)
		assert.Equal(t, w.internal, rec.InternalFormat)
		assert.Equal(t, w.xtype, rec.Type)
		assert.EqualValues(t, 1600, rec.Width)
		assert.EqualValues(t, 900, rec.Height)
		assert.EqualValues(t, gfx.Nearest, rec.Params[gfx.TextureMinFilter])
	}

	_, rb, ok := d.Attachment(g.FBO, gfx.DepthAttachment)
	require.True(t, ok)
	assert.Equal(t, g.Depth, rb)
	format, w, h := d.RenderbufferFormat(rb)
	assert.Equal(t, gfx.DepthComponent, format)
	assert.EqualValues(t, 1600, w)
	assert.EqualValues(t, 900, h)

	assert.Equal(t, []gfx.Enum{
		gfx.ColorAttachment(0),
		gfx.ColorAttachment(1),
		gfx.ColorAttachment(2),
	}, d.DrawBufferList(g.FBO))
}

type incompleteDriver struct {
	*gfxtest.Driver
}

func (incompleteDriver) CheckFramebufferStatus(gfx.Enum) gfx.Enum {
	return gfx.FramebufferUnsupported
}

func TestNewIncompleteCleansUp(t *testing.T) {
	fake := gfxtest.New(1600, 900)
	g, err := gbuffer.New(incompleteDriver{fake}, 1600, 900)
	assert.Nil(t, g)

	var ie *gbuffer.IncompleteError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, gfx.FramebufferUnsupported, ie.Status)
	assert.Contains(t, err.Error(), "0x8CDD")
	assert.Zero(t, fake.Live())
}

func TestBindScopes(t *testing.T) {
	d := gfxtest.New(1600, 900)
	g, err := gbuffer.New(d, 800, 450)
	require.NoError(t, err)

	release := g.Bind()
	_, _, fbo := d.Bound()
	assert.Equal(t, g.FBO, fbo)
	assert.Equal(t, [4]int32{0, 0, 800, 450}, d.ViewportRect())
	release()
	_, _, fbo = d.Bound()
	assert.Zero(t, fbo)

	releaseTex := g.BindTextures()
	assert.Equal(t, g.Position, d.BoundTexture(gbuffer.UnitPosition))
	assert.Equal(t, g.Normal, d.BoundTexture(gbuffer.UnitNormal))
	assert.Equal(t, g.ColorSpec, d.BoundTexture(gbuffer.UnitColorSpec))
	releaseTex()
	assert.Zero(t, d.BoundTexture(0))
	assert.Zero(t, d.BoundTexture(1))
	assert.Zero(t, d.BoundTexture(2))
}

func TestBlit(t *testing.T) {
	d := gfxtest.New(1600, 900)
	g, err := gbuffer.New(d, 1600, 900)
	require.NoError(t, err)

	g.Blit(gbuffer.SourceDepth, 1600, 900)
	g.Blit(gbuffer.SourceColorSpec, 1600, 900)
	g.Blit(gbuffer.SourceNone, 1600, 900)
	require.Len(t, d.Blits, 2)

	assert.Equal(t, gfx.DepthBufferBit, d.Blits[0].Mask)
	assert.Equal(t, g.FBO, d.Blits[0].ReadFBO)
	assert.Zero(t, d.Blits[0].DrawFBO)

	assert.Equal(t, gfx.ColorBufferBit, d.Blits[1].Mask)
	assert.Equal(t, gfx.ColorAttachment(2), d.Blits[1].ReadBuffer)
	assert.EqualValues(t, 1600, d.Blits[1].DstW)
	assert.Empty(t, d.Violations)

	_, _, fbo := d.Bound()
	assert.Zero(t, fbo)
}

func TestParseSource(t *testing.T) {
	for in, want := range map[string]gbuffer.Source{
		"none":     gbuffer.SourceNone,
		"depth":    gbuffer.SourceDepth,
		"position": gbuffer.SourcePosition,
		"normal":   gbuffer.SourceNormal,
		"color":    gbuffer.SourceColorSpec,
	} {
		got, err := gbuffer.ParseSource(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := gbuffer.ParseSource("stencil")
	assert.Error(t, err)
}

func TestDestroy(t *testing.T) {
	d := gfxtest.New(1600, 900)
	g, err := gbuffer.New(d, 1600, 900)
	require.NoError(t, err)
	require.Equal(t, 5, d.Live())

	g.Destroy()
	assert.Zero(t, d.Live())
}
