package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Plane is the half-space n·p + d >= 0. Normal points inside.
type Plane struct {
	Normal mgl32.Vec3
	D      float32
}

// Distance is the signed distance from p to the plane, positive inside.
func (pl Plane) Distance(p mgl32.Vec3) float32 {
	return pl.Normal.Dot(p) + pl.D
}

// Frustum holds the six clip planes of a view volume: left, right, bottom,
// top, near and far.
type Frustum struct {
	Planes [6]Plane
}

// FrustumFromMatrix extracts normalized planes from projection * view
// (Gribb and Hartmann).
func FrustumFromMatrix(vp mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := vp.Row(0), vp.Row(1), vp.Row(2), vp.Row(3)
	return Frustum{Planes: [6]Plane{
		plane(r3.Add(r0)),
		plane(r3.Sub(r0)),
		plane(r3.Add(r1)),
		plane(r3.Sub(r1)),
		plane(r3.Add(r2)),
		plane(r3.Sub(r2)),
	}}
}

func plane(v mgl32.Vec4) Plane {
	n := v.Vec3()
	l := n.Len()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: n.Mul(1 / l), D: v[3] / l}
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max mgl32.Vec3
}

// Empty reports whether the box has never been extended.
func (b AABB) Empty() bool {
	return b.Min[0] > b.Max[0]
}

func emptyAABB() AABB {
	inf := mgl32.Vec3{math32.Inf(1), math32.Inf(1), math32.Inf(1)}
	return AABB{Min: inf, Max: inf.Mul(-1)}
}

func (b *AABB) extend(p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
}

// Union is the smallest box containing both.
func (b AABB) Union(o AABB) AABB {
	if o.Empty() {
		return b
	}
	if b.Empty() {
		return o
	}
	b.extend(o.Min)
	b.extend(o.Max)
	return b
}

// Transform returns the box around all eight corners moved by m.
func (b AABB) Transform(m mgl32.Mat4) AABB {
	if b.Empty() {
		return b
	}
	out := emptyAABB()
	for i := 0; i < 8; i++ {
		c := b.Min
		if i&1 != 0 {
			c[0] = b.Max[0]
		}
		if i&2 != 0 {
			c[1] = b.Max[1]
		}
		if i&4 != 0 {
			c[2] = b.Max[2]
		}
		out.extend(m.Mul4x1(c.Vec4(1)).Vec3())
	}
	return out
}

// Intersects is false only when the box lies entirely outside one plane.
// Boxes near a frustum corner may be reported visible when they are not.
func (b AABB) Intersects(f *Frustum) bool {
	if b.Empty() {
		return false
	}
	for _, pl := range f.Planes {
		// Corner furthest along the plane normal.
		var p mgl32.Vec3
		for i := 0; i < 3; i++ {
			if pl.Normal[i] >= 0 {
				p[i] = b.Max[i]
			} else {
				p[i] = b.Min[i]
			}
		}
		if pl.Distance(p) < 0 {
			return false
		}
	}
	return true
}

// Bounds is the mesh's box in model space.
func (m *Mesh) Bounds() AABB {
	b := emptyAABB()
	for _, v := range m.Vertices {
		b.extend(v.Position)
	}
	return b
}
