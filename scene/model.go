package scene

import (
	"fmt"

	"go.uber.org/zap"

	"glexercises/gfx"
	"glexercises/internal/logger"
)

// Texture units a material's maps are bound to while drawing.
const (
	UnitDiffuse  uint32 = 0
	UnitSpecular uint32 = 1
	UnitNormal   uint32 = 2
)

// GPUMesh is an uploaded mesh with its resolved material textures.
type GPUMesh struct {
	Name     string
	Buffer   *gfx.Buffer
	Diffuse  *gfx.Texture
	Specular *gfx.Texture
	Normal   *gfx.Texture
}

// Model is a set of uploaded meshes drawn together.
type Model struct {
	Meshes []*GPUMesh

	bounds AABB
	d      gfx.Driver
}

// Upload creates GPU buffers for every mesh and resolves material textures
// through cache, so a texture shared by several meshes is loaded once.
func Upload(d gfx.Driver, meshes []*Mesh, cache *TextureCache) (*Model, error) {
	m := &Model{d: d, bounds: emptyAABB()}
	for _, mesh := range meshes {
		m.bounds = m.bounds.Union(mesh.Bounds())
		g, err := uploadMesh(d, mesh, cache)
		if err != nil {
			m.Destroy()
			return nil, fmt.Errorf("mesh %q: %w", mesh.Name, err)
		}
		m.Meshes = append(m.Meshes, g)
	}
	logger.Log.Debug("uploaded model",
		zap.Int("meshes", len(m.Meshes)),
		zap.Int("textures", cache.Len()),
	)
	return m, nil
}

func uploadMesh(d gfx.Driver, mesh *Mesh, cache *TextureCache) (*GPUMesh, error) {
	buf, err := gfx.NewBuffer(d, mesh.Interleave(), mesh.Indices, VertexLayout)
	if err != nil {
		return nil, err
	}
	g := &GPUMesh{Name: mesh.Name, Buffer: buf}

	maps := []struct {
		ref  TextureRef
		kind Fallback
		dst  **gfx.Texture
	}{
		{mesh.Material.Diffuse, FallbackDiffuse, &g.Diffuse},
		{mesh.Material.Specular, FallbackSpecular, &g.Specular},
		{mesh.Material.Normal, FallbackNormal, &g.Normal},
	}
	for _, mp := range maps {
		t, err := cache.Resolve(mp.ref, mp.kind)
		if err != nil {
			buf.Destroy()
			return nil, err
		}
		*mp.dst = t
	}
	return g, nil
}

// Draw binds each mesh's textures to UnitDiffuse, UnitSpecular and
// UnitNormal and renders it with p.
func (m *Model) Draw(d gfx.Driver, p *gfx.Program) {
	for _, mesh := range m.Meshes {
		releaseDiffuse := mesh.Diffuse.Bind(UnitDiffuse)
		releaseSpecular := mesh.Specular.Bind(UnitSpecular)
		releaseNormal := mesh.Normal.Bind(UnitNormal)

		gfx.Draw(d, mesh.Buffer, p)

		releaseNormal()
		releaseSpecular()
		releaseDiffuse()
	}
}

// Bounds is the model-space box around every mesh.
func (m *Model) Bounds() AABB { return m.bounds }

// Destroy deletes the buffers. Textures belong to the cache.
func (m *Model) Destroy() {
	for _, mesh := range m.Meshes {
		mesh.Buffer.Destroy()
	}
	m.Meshes = nil
}

var _ gfx.Drawable = (*Model)(nil)
