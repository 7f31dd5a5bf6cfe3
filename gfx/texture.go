package gfx

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"glexercises/internal/logger"
)

// ChannelFormat selects how decoded pixels are laid out for upload.
type ChannelFormat Enum

const (
	ChannelsRGB  = ChannelFormat(RGB)
	ChannelsRGBA = ChannelFormat(RGBA)
)

func (f ChannelFormat) components() int {
	if f == ChannelsRGBA {
		return 4
	}
	return 3
}

// WrapMode is applied to both S and T.
type WrapMode Enum

const (
	WrapRepeat         = WrapMode(Repeat)
	WrapClampToEdge    = WrapMode(ClampToEdge)
	WrapMirroredRepeat = WrapMode(MirroredRepeat)
)

// Texture is a mipmapped 2D texture.
type Texture struct {
	ID             uint32
	Width          int
	Height         int
	Format         ChannelFormat
	InternalFormat Enum
	Path           string

	d Driver
}

type textureOptions struct {
	internal Enum
}

// TextureOption customises LoadTexture and NewTexture.
type TextureOption func(*textureOptions)

// WithInternalFormat overrides the GPU storage format. Without it textures
// are stored as RGB8 whatever the channel format, so the alpha channel of an
// RGBA source is dropped on upload.
func WithInternalFormat(f Enum) TextureOption {
	return func(o *textureOptions) { o.internal = f }
}

// LoadTexture decodes an image file (png, jpeg, bmp, tiff, webp) and uploads
// it with mipmapped linear filtering. Open and decode failures return a
// *DecodeError.
func LoadTexture(d Driver, path string, format ChannelFormat, wrap WrapMode, opts ...TextureOption) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	t := NewTexture(d, img, format, wrap, opts...)
	t.Path = path
	logger.Log.Debug("loaded texture",
		zap.String("path", path),
		zap.Uint32("id", t.ID),
		zap.Int("width", t.Width),
		zap.Int("height", t.Height),
	)
	return t, nil
}

// NewTexture uploads an already decoded image.
func NewTexture(d Driver, img image.Image, format ChannelFormat, wrap WrapMode, opts ...TextureOption) *Texture {
	o := textureOptions{internal: RGB8}
	for _, opt := range opts {
		opt(&o)
	}

	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	pixels := Pixels(rgba, format, false)
	return upload(d, b.Dx(), b.Dy(), pixels, format, wrap, o.internal)
}

// SolidTexture creates a 1x1 RGBA8 texture of one color.
func SolidTexture(d Driver, r, g, b, a uint8) *Texture {
	return upload(d, 1, 1, []byte{r, g, b, a}, ChannelsRGBA, WrapRepeat, RGBA8)
}

func upload(d Driver, w, h int, pixels []byte, format ChannelFormat, wrap WrapMode, internal Enum) *Texture {
	t := &Texture{
		Width:          w,
		Height:         h,
		Format:         format,
		InternalFormat: internal,
		d:              d,
	}

	t.ID = d.GenTexture()
	d.BindTexture(Texture2D, t.ID)

	d.TexParameteri(Texture2D, TextureWrapS, int32(wrap))
	d.TexParameteri(Texture2D, TextureWrapT, int32(wrap))
	d.TexParameteri(Texture2D, TextureMinFilter, int32(LinearMipmapLinear))
	d.TexParameteri(Texture2D, TextureMagFilter, int32(Linear))

	d.TexImage2D(Texture2D, internal, int32(w), int32(h), Enum(format), UnsignedByte, pixels)
	d.GenerateMipmap(Texture2D)

	d.BindTexture(Texture2D, 0)
	return t
}

// Pixels packs an RGBA image into tightly packed rows of the given channel
// format, optionally bottom row first.
func Pixels(img *image.RGBA, format ChannelFormat, flipY bool) []byte {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	n := format.components()
	out := make([]byte, 0, w*h*n)
	for row := 0; row < h; row++ {
		y := row
		if flipY {
			y = h - 1 - row
		}
		line := img.Pix[y*img.Stride : y*img.Stride+w*4]
		if n == 4 {
			out = append(out, line...)
			continue
		}
		for x := 0; x < w; x++ {
			out = append(out, line[x*4], line[x*4+1], line[x*4+2])
		}
	}
	return out
}

// Bind activates the texture unit and binds the texture to it.
func (t *Texture) Bind(unit uint32) (release func()) {
	t.d.ActiveTexture(unit)
	t.d.BindTexture(Texture2D, t.ID)
	return func() {
		t.d.ActiveTexture(unit)
		t.d.BindTexture(Texture2D, 0)
	}
}

func (t *Texture) String() string {
	if t.Path != "" {
		return fmt.Sprintf("texture %d (%s)", t.ID, t.Path)
	}
	return fmt.Sprintf("texture %d", t.ID)
}

// Destroy deletes the texture.
func (t *Texture) Destroy() {
	if t.ID != 0 {
		t.d.DeleteTexture(t.ID)
		t.ID = 0
	}
}
