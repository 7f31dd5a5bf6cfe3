// Package gbuffer implements the multi-target framebuffer used by deferred
// shading: world position, world normal, and diffuse color with a specular
// mask, plus a depth renderbuffer.
package gbuffer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"glexercises/gfx"
	"glexercises/internal/logger"
)

// Texture units the lighting pass samples the attachments from.
const (
	UnitPosition  uint32 = 0
	UnitNormal    uint32 = 1
	UnitColorSpec uint32 = 2
)

// ErrInvalidSize is returned by New for a non-positive width or height.
var ErrInvalidSize = errors.New("gbuffer: width and height must be positive")

// IncompleteError reports the framebuffer status returned by the driver.
type IncompleteError struct {
	Status gfx.Enum
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("gbuffer: framebuffer is not complete: status=0x%X", uint32(e.Status))
}

// Source selects what Blit copies to the default framebuffer.
type Source int

const (
	SourceNone Source = iota
	SourceDepth
	SourcePosition
	SourceNormal
	SourceColorSpec
)

// ParseSource maps "none", "depth", "position", "normal" and "color" to a
// Source.
func ParseSource(s string) (Source, error) {
	switch s {
	case "none", "":
		return SourceNone, nil
	case "depth":
		return SourceDepth, nil
	case "position":
		return SourcePosition, nil
	case "normal":
		return SourceNormal, nil
	case "color", "color_spec":
		return SourceColorSpec, nil
	}
	return 0, fmt.Errorf("gbuffer: unknown blit source %q", s)
}

// GBuffer is a fixed-size framebuffer with three color attachments, bound
// as draw buffers 0, 1 and 2 in the order position, normal, color+spec.
type GBuffer struct {
	FBO       uint32
	Position  uint32
	Normal    uint32
	ColorSpec uint32
	Depth     uint32

	Width  int32
	Height int32

	d gfx.Driver
}

// New allocates the attachments and checks completeness. On failure every
// object it created is deleted again.
func New(d gfx.Driver, width, height int) (*GBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	g := &GBuffer{Width: int32(width), Height: int32(height), d: d}

	g.FBO = d.GenFramebuffer()
	d.BindFramebuffer(gfx.Framebuffer, g.FBO)

	g.Position = g.colorTarget(0, gfx.RGBA16F, gfx.Float)
	g.Normal = g.colorTarget(1, gfx.RGBA16F, gfx.Float)
	g.ColorSpec = g.colorTarget(2, gfx.RGBA, gfx.UnsignedByte)
	d.BindTexture(gfx.Texture2D, 0)

	d.DrawBuffers([]gfx.Enum{
		gfx.ColorAttachment(0),
		gfx.ColorAttachment(1),
		gfx.ColorAttachment(2),
	})

	g.Depth = d.GenRenderbuffer()
	d.BindRenderbuffer(g.Depth)
	d.RenderbufferStorage(gfx.DepthComponent, g.Width, g.Height)
	d.FramebufferRenderbuffer(gfx.Framebuffer, gfx.DepthAttachment, g.Depth)
	d.BindRenderbuffer(0)

	status := d.CheckFramebufferStatus(gfx.Framebuffer)
	d.BindFramebuffer(gfx.Framebuffer, 0)

	if status != gfx.FramebufferComplete {
		g.Destroy()
		return nil, &IncompleteError{Status: status}
	}

	logger.Log.Debug("created gbuffer",
		zap.Uint32("fbo", g.FBO),
		zap.Int("width", width),
		zap.Int("height", height),
	)
	return g, nil
}

func (g *GBuffer) colorTarget(slot int, internal, xtype gfx.Enum) uint32 {
	id := g.d.GenTexture()
	g.d.BindTexture(gfx.Texture2D, id)
	g.d.TexImage2D(gfx.Texture2D, internal, g.Width, g.Height, gfx.RGBA, xtype, nil)
	g.d.TexParameteri(gfx.Texture2D, gfx.TextureMinFilter, int32(gfx.Nearest))
	g.d.TexParameteri(gfx.Texture2D, gfx.TextureMagFilter, int32(gfx.Nearest))
	g.d.FramebufferTexture2D(gfx.Framebuffer, gfx.ColorAttachment(slot), id)
	return id
}

// Bind redirects drawing into the G-buffer and sets the viewport to its
// size. release binds the default framebuffer again.
func (g *GBuffer) Bind() (release func()) {
	g.d.BindFramebuffer(gfx.Framebuffer, g.FBO)
	g.d.Viewport(0, 0, g.Width, g.Height)
	return func() { g.d.BindFramebuffer(gfx.Framebuffer, 0) }
}

// BindTextures binds the attachments to UnitPosition, UnitNormal and
// UnitColorSpec.
func (g *GBuffer) BindTextures() (release func()) {
	units := [...]struct {
		unit uint32
		tex  uint32
	}{
		{UnitPosition, g.Position},
		{UnitNormal, g.Normal},
		{UnitColorSpec, g.ColorSpec},
	}
	for _, u := range units {
		g.d.ActiveTexture(u.unit)
		g.d.BindTexture(gfx.Texture2D, u.tex)
	}
	return func() {
		for i := len(units) - 1; i >= 0; i-- {
			g.d.ActiveTexture(units[i].unit)
			g.d.BindTexture(gfx.Texture2D, 0)
		}
	}
}

// Blit copies one attachment, or the depth buffer, into the default
// framebuffer of size dstW x dstH. SourceNone does nothing.
func (g *GBuffer) Blit(src Source, dstW, dstH int32) {
	if src == SourceNone {
		return
	}
	g.d.BindFramebuffer(gfx.ReadFramebuffer, g.FBO)
	g.d.BindFramebuffer(gfx.DrawFramebuffer, 0)

	mask := gfx.ColorBufferBit
	switch src {
	case SourceDepth:
		mask = gfx.DepthBufferBit
	case SourcePosition:
		g.d.ReadBuffer(gfx.ColorAttachment(0))
	case SourceNormal:
		g.d.ReadBuffer(gfx.ColorAttachment(1))
	case SourceColorSpec:
		g.d.ReadBuffer(gfx.ColorAttachment(2))
	}
	g.d.BlitFramebuffer(0, 0, g.Width, g.Height, 0, 0, dstW, dstH, mask, gfx.Nearest)

	if mask == gfx.ColorBufferBit {
		g.d.ReadBuffer(gfx.ColorAttachment(0))
	}
	g.d.BindFramebuffer(gfx.Framebuffer, 0)
}

// Destroy frees the framebuffer and its attachments.
func (g *GBuffer) Destroy() {
	for _, tex := range []*uint32{&g.Position, &g.Normal, &g.ColorSpec} {
		if *tex != 0 {
			g.d.DeleteTexture(*tex)
			*tex = 0
		}
	}
	if g.Depth != 0 {
		g.d.DeleteRenderbuffer(g.Depth)
		g.Depth = 0
	}
	if g.FBO != 0 {
		g.d.DeleteFramebuffer(g.FBO)
		g.FBO = 0
	}
}
