package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a half-line from Origin along a unit Direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// Hit is the nearest intersection of a ray with a mesh.
type Hit struct {
	Distance float32
	Point    mgl32.Vec3
	// Normal is the world-space vertex normal of the triangle's first
	// corner.
	Normal   mgl32.Vec3
	Triangle int
}

// ScreenRay casts a ray through window pixel (x, y), measured from the
// top-left corner, from the near plane towards the far plane.
func ScreenRay(x, y float32, width, height int, view, projection mgl32.Mat4) (Ray, error) {
	win := mgl32.Vec3{x, float32(height) - y, 0}
	near, err := mgl32.UnProject(win, view, projection, 0, 0, width, height)
	if err != nil {
		return Ray{}, err
	}
	win[2] = 1
	far, err := mgl32.UnProject(win, view, projection, 0, 0, width, height)
	if err != nil {
		return Ray{}, err
	}
	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}, nil
}

// At is the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// AABB is the slab test. It returns the entry distance, which is negative
// when the origin is inside the box.
func (r Ray) AABB(b AABB) (float32, bool) {
	tmin, tmax := math32.Inf(-1), math32.Inf(1)
	for i := 0; i < 3; i++ {
		inv := 1 / r.Direction[i]
		t1 := (b.Min[i] - r.Origin[i]) * inv
		t2 := (b.Max[i] - r.Origin[i]) * inv
		tmin = max(tmin, min(t1, t2))
		tmax = min(tmax, max(t1, t2))
	}
	if tmax < 0 || tmin > tmax {
		return 0, false
	}
	return tmin, true
}

// Triangle is the Möller-Trumbore test. Points on an edge count as hits.
func (r Ray) Triangle(a, b, c mgl32.Vec3) (float32, bool) {
	const eps = 1e-5
	e1, e2 := b.Sub(a), c.Sub(a)
	h := r.Direction.Cross(e2)
	det := e1.Dot(h)
	if math32.Abs(det) < 1e-8 {
		return 0, false
	}
	f := 1 / det
	s := r.Origin.Sub(a)
	u := f * s.Dot(h)
	if u < -eps || u > 1+eps {
		return 0, false
	}
	q := s.Cross(e1)
	v := f * r.Direction.Dot(q)
	if v < -eps || u+v > 1+eps {
		return 0, false
	}
	t := f * e2.Dot(q)
	return t, t > 0
}

// Mesh returns the nearest hit on m placed in the world by world.
func (r Ray) Mesh(m *Mesh, world mgl32.Mat4) (Hit, bool) {
	if _, ok := r.AABB(m.Bounds().Transform(world)); !ok {
		return Hit{}, false
	}

	normal := world.Mat3().Inv().Transpose()
	best := Hit{Distance: math32.Inf(1)}
	found := false
	for tri := 0; tri < m.TriangleCount(); tri++ {
		ia, ib, ic := m.Triangle(tri)
		a := world.Mul4x1(m.Vertices[ia].Position.Vec4(1)).Vec3()
		b := world.Mul4x1(m.Vertices[ib].Position.Vec4(1)).Vec3()
		c := world.Mul4x1(m.Vertices[ic].Position.Vec4(1)).Vec3()
		t, ok := r.Triangle(a, b, c)
		if !ok || t >= best.Distance {
			continue
		}
		found = true
		best = Hit{
			Distance: t,
			Point:    r.At(t),
			Normal:   normal.Mul3x1(m.Vertices[ia].Normal).Normalize(),
			Triangle: tri,
		}
	}
	return best, found
}
