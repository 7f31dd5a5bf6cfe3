package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"glexercises/gfx"
)

// Vertex is one vertex of a loaded or generated mesh.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Tangent  mgl32.Vec3
	UV       mgl32.Vec2
}

// VertexLayout is the attribute layout Interleave produces: location 0
// position, 1 normal, 2 tangent, 3 uv.
var VertexLayout = gfx.PositionNormalTangentUV

// Mesh holds CPU-side geometry and the texture references of its material.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	Material Material
}

// Interleave flattens the vertices in VertexLayout order.
func (m *Mesh) Interleave() []float32 {
	out := make([]float32, 0, len(m.Vertices)*VertexLayout.Stride())
	for _, v := range m.Vertices {
		out = append(out,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.Tangent[0], v.Tangent[1], v.Tangent[2],
			v.UV[0], v.UV[1],
		)
	}
	return out
}

// Positions flattens only the vertex positions, for gfx.PositionOnly.
func (m *Mesh) Positions() []float32 {
	out := make([]float32, 0, len(m.Vertices)*3)
	for _, v := range m.Vertices {
		out = append(out, v.Position[0], v.Position[1], v.Position[2])
	}
	return out
}

// Triangle returns the vertex indices of triangle i, indexed or not.
func (m *Mesh) Triangle(i int) (a, b, c uint32) {
	if len(m.Indices) > 0 {
		return m.Indices[3*i], m.Indices[3*i+1], m.Indices[3*i+2]
	}
	return uint32(3 * i), uint32(3*i + 1), uint32(3*i + 2)
}

// TriangleCount is the number of complete triangles.
func (m *Mesh) TriangleCount() int {
	if len(m.Indices) > 0 {
		return len(m.Indices) / 3
	}
	return len(m.Vertices) / 3
}

// FlipV replaces every v texture coordinate with 1-v.
func (m *Mesh) FlipV() {
	for i := range m.Vertices {
		m.Vertices[i].UV[1] = 1 - m.Vertices[i].UV[1]
	}
}
