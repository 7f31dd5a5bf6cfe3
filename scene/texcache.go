package scene

import (
	"bytes"
	"image"

	"go.uber.org/zap"

	"glexercises/gfx"
	"glexercises/internal/logger"
)

// Fallback textures bound for maps a material does not provide.
type Fallback int

const (
	FallbackDiffuse  Fallback = iota // white
	FallbackSpecular                 // black, no highlight
	FallbackNormal                   // +Z in tangent space
)

// TextureCache uploads each distinct texture once. It is owned by whoever
// loads models and passed to every upload that should share textures.
type TextureCache struct {
	Format gfx.ChannelFormat
	Wrap   gfx.WrapMode
	Opts   []gfx.TextureOption

	d         gfx.Driver
	textures  map[string]*gfx.Texture
	fallbacks map[Fallback]*gfx.Texture
}

// NewTextureCache uploads RGB textures with repeat wrapping.
func NewTextureCache(d gfx.Driver) *TextureCache {
	return &TextureCache{
		Format:    gfx.ChannelsRGB,
		Wrap:      gfx.WrapRepeat,
		d:         d,
		textures:  map[string]*gfx.Texture{},
		fallbacks: map[Fallback]*gfx.Texture{},
	}
}

// Load returns the cached texture for ref, decoding and uploading it on the
// first request.
func (c *TextureCache) Load(ref TextureRef) (*gfx.Texture, error) {
	if t, ok := c.textures[ref.Key()]; ok {
		return t, nil
	}

	var (
		t   *gfx.Texture
		err error
	)
	if ref.Data != nil {
		t, err = c.decode(ref)
	} else {
		t, err = gfx.LoadTexture(c.d, ref.Path, c.Format, c.Wrap, c.Opts...)
	}
	if err != nil {
		return nil, err
	}
	c.textures[ref.Key()] = t
	return t, nil
}

func (c *TextureCache) decode(ref TextureRef) (*gfx.Texture, error) {
	img, _, err := image.Decode(bytes.NewReader(ref.Data))
	if err != nil {
		return nil, &gfx.DecodeError{Path: ref.Path, Err: err}
	}
	t := gfx.NewTexture(c.d, img, c.Format, c.Wrap, c.Opts...)
	t.Path = ref.Path
	logger.Log.Debug("loaded embedded texture", zap.String("key", ref.Path), zap.Uint32("id", t.ID))
	return t, nil
}

// Fallback returns a 1x1 texture standing in for a missing map.
func (c *TextureCache) Fallback(kind Fallback) *gfx.Texture {
	if t, ok := c.fallbacks[kind]; ok {
		return t
	}
	var t *gfx.Texture
	switch kind {
	case FallbackSpecular:
		t = gfx.SolidTexture(c.d, 0, 0, 0, 255)
	case FallbackNormal:
		t = gfx.SolidTexture(c.d, 128, 128, 255, 255)
	default:
		t = gfx.SolidTexture(c.d, 255, 255, 255, 255)
	}
	c.fallbacks[kind] = t
	return t
}

// Resolve loads ref, or returns the fallback when ref is empty.
func (c *TextureCache) Resolve(ref TextureRef, kind Fallback) (*gfx.Texture, error) {
	if ref.IsZero() {
		return c.Fallback(kind), nil
	}
	return c.Load(ref)
}

// Len is the number of distinct textures loaded, fallbacks excluded.
func (c *TextureCache) Len() int { return len(c.textures) }

// Destroy deletes every texture the cache owns.
func (c *TextureCache) Destroy() {
	for k, t := range c.textures {
		t.Destroy()
		delete(c.textures, k)
	}
	for k, t := range c.fallbacks {
		t.Destroy()
		delete(c.fallbacks, k)
	}
}
