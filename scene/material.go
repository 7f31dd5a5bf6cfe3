package scene

import "fmt"

// TextureRef names a texture either by file path or, for images embedded in
// a binary glTF, by a synthetic key plus the encoded bytes.
type TextureRef struct {
	Path string
	Data []byte
}

// IsZero reports an absent texture.
func (r TextureRef) IsZero() bool { return r.Path == "" }

// Key identifies the texture in a TextureCache.
func (r TextureRef) Key() string { return r.Path }

func embeddedRef(file string, image int, data []byte) TextureRef {
	return TextureRef{Path: fmt.Sprintf("%s#image%d", file, image), Data: data}
}

// Material lists the textures the geometry pass samples. Absent maps are
// replaced by neutral fallbacks at upload time.
type Material struct {
	Name     string
	Diffuse  TextureRef
	Specular TextureRef
	Normal   TextureRef
}
