package deferred

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"glexercises/lights"
)

const (
	ambient   = 0.1
	shininess = 64
)

// Fragment is one G-buffer texel: what the geometry pass writes for a pixel.
type Fragment struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Albedo   mgl32.Vec3
	Specular float32
}

// Shade evaluates the lighting shader for one fragment on the CPU. It
// follows shaders/lighting.frag term for term and is used to check what a
// frame produces without reading back from a GPU.
func Shade(f Fragment, ls []lights.PointLight, viewPos mgl32.Vec3, opts Options) mgl32.Vec3 {
	opts = opts.withDefaults()

	v := viewPos.Sub(f.Position).Normalize()
	result := f.Albedo.Mul(ambient)

	for _, l := range ls[:min(len(ls), lights.MaxLights)] {
		toLight := l.Position.Sub(f.Position)
		dist := toLight.Len()
		if dist == 0 {
			continue
		}
		ld := toLight.Normalize()
		r := reflect(ld.Mul(-1), f.Normal)

		kD := math32.Max(ld.Dot(f.Normal), 0)
		kA := opts.Attenuation.Factor(dist)

		result = result.Add(mulElem(f.Albedo, l.Color).Mul(kD * kA))
		if opts.Specular {
			kS := math32.Pow(math32.Max(r.Dot(v), 0), shininess)
			result = result.Add(l.Color.Mul(f.Specular * kS * kA))
		}
	}
	return result
}

// reflect mirrors the incident vector i about the normal n, like GLSL
// reflect.
func reflect(i, n mgl32.Vec3) mgl32.Vec3 {
	return i.Sub(n.Mul(2 * n.Dot(i)))
}

func mulElem(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
