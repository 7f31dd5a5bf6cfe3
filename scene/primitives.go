package scene

import "github.com/go-gl/mathgl/mgl32"

// cubeFaces lists the six faces of a unit cube as (normal, u axis, v axis).
var cubeFaces = [6][3]mgl32.Vec3{
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
}

// Cube returns a unit cube centred on the origin as 36 unindexed vertices
// with outward normals, tangents and per-face UVs.
func Cube() *Mesh {
	m := &Mesh{Name: "cube", Vertices: make([]Vertex, 0, 36)}
	corners := [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for _, f := range cubeFaces {
		n, u, v := f[0], f[1], f[2]
		var quad [4]Vertex
		for i, uv := range corners {
			p := n.Mul(0.5).Add(u.Mul(uv[0] - 0.5)).Add(v.Mul(uv[1] - 0.5))
			quad[i] = Vertex{Position: p, Normal: n, Tangent: u, UV: uv}
		}
		m.Vertices = append(m.Vertices, quad[0], quad[1], quad[2], quad[2], quad[3], quad[0])
	}
	return m
}

// ScreenQuad returns a full-screen quad in normalized device coordinates
// laid out as gfx.PositionUV, ordered for a triangle strip.
func ScreenQuad() []float32 {
	return []float32{
		-1, 1, 0, 0, 1,
		-1, -1, 0, 0, 0,
		1, 1, 0, 1, 1,
		1, -1, 0, 1, 0,
	}
}

// ColoredTriangle returns one triangle laid out as gfx.PositionColor.
func ColoredTriangle() []float32 {
	return []float32{
		-0.5, -0.5, 0, 1, 0, 0,
		0.5, -0.5, 0, 0, 1, 0,
		0, 0.5, 0, 0, 0, 1,
	}
}

// Quad returns an indexed unit quad in the XY plane facing +Z.
func Quad() *Mesh {
	n := mgl32.Vec3{0, 0, 1}
	t := mgl32.Vec3{1, 0, 0}
	return &Mesh{
		Name: "quad",
		Vertices: []Vertex{
			{Position: mgl32.Vec3{-0.5, -0.5, 0}, Normal: n, Tangent: t, UV: mgl32.Vec2{0, 0}},
			{Position: mgl32.Vec3{0.5, -0.5, 0}, Normal: n, Tangent: t, UV: mgl32.Vec2{1, 0}},
			{Position: mgl32.Vec3{0.5, 0.5, 0}, Normal: n, Tangent: t, UV: mgl32.Vec2{1, 1}},
			{Position: mgl32.Vec3{-0.5, 0.5, 0}, Normal: n, Tangent: t, UV: mgl32.Vec2{0, 1}},
		},
		Indices: []uint32{0, 1, 2, 2, 3, 0},
	}
}
