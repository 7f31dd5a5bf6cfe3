package scene_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glexercises/scene"
)

const quadOBJ = `# unit quad
mtllib quad.mtl
o quad
v -1 -1 0
v 1 -1 0
v 1 1 0
v -1 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
usemtl painted
f 1/1 2/2 3/3 4/4
`

const quadMTL = `newmtl painted
Kd 1 1 1
map_Kd diffuse.png
map_Ks textures/spec.png
map_Bump -bm 1.0 normal.png
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadOBJ(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "quad.obj", quadOBJ)
	writeFile(t, dir, "quad.mtl", quadMTL)

	meshes, err := scene.Load(path)
	require.NoError(t, err)
	require.Len(t, meshes, 1)

	m := meshes[0]
	assert.Equal(t, "quad", m.Name)
	assert.Len(t, m.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, m.Indices)

	// V is flipped and missing normals are generated.
	assert.Equal(t, mgl32.Vec2{0, 1}, m.Vertices[0].UV)
	for _, v := range m.Vertices {
		assertVec3(t, mgl32.Vec3{0, 0, 1}, v.Normal)
		assertVec3(t, mgl32.Vec3{1, 0, 0}, v.Tangent)
	}

	assert.Equal(t, "painted", m.Material.Name)
	assert.Equal(t, filepath.Join(dir, "diffuse.png"), m.Material.Diffuse.Path)
	assert.Equal(t, filepath.Join(dir, "textures", "spec.png"), m.Material.Specular.Path)
	assert.Equal(t, filepath.Join(dir, "normal.png"), m.Material.Normal.Path)
}

func TestLoadOBJSplitsOnMaterial(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "two.obj", `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
g body
usemtl a
f 1//1 2//1 3//1
usemtl b
f -4//-1 -2//-1 -1//-1
`)

	meshes, err := scene.LoadOBJ(path)
	require.NoError(t, err)
	require.Len(t, meshes, 2)
	assert.Equal(t, "a", meshes[0].Material.Name)
	assert.Equal(t, "b", meshes[1].Material.Name)
	assert.Equal(t, "body", meshes[1].Name)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, meshes[1].Vertices[2].Position)
}

func TestLoadOBJMissingMaterialLibrary(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "quad.obj", quadOBJ)

	meshes, err := scene.LoadOBJ(path)
	require.NoError(t, err)
	require.Len(t, meshes, 1)
	assert.True(t, meshes[0].Material.Diffuse.IsZero())
}

func TestLoadOBJErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := scene.LoadOBJ(filepath.Join(dir, "missing.obj"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = scene.LoadOBJ(writeFile(t, dir, "empty.obj", "# nothing\nv 0 0 0\n"))
	assert.ErrorContains(t, err, "no geometry")
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := scene.Load("model.fbx")
	assert.ErrorIs(t, err, scene.ErrUnsupportedFormat)
}
