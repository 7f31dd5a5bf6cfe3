// Package lights generates the randomized point-light lists the deferred
// lighting pass consumes.
package lights

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxLights is the size of the light array the lighting shader declares.
const MaxLights = 128

// PointLight is a colored point light. Attenuation is shared by every light
// in a draw call.
type PointLight struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
}

// Attenuation holds the constant, linear and quadratic falloff terms of
// 1 / (c + l*d + q*d*d).
type Attenuation struct {
	Constant  float32 `yaml:"constant"`
	Linear    float32 `yaml:"linear"`
	Quadratic float32 `yaml:"quadratic"`
}

// DefaultAttenuation is the falloff used by the deferred exercise.
var DefaultAttenuation = Attenuation{Constant: 1, Linear: 0.7, Quadratic: 1.8}

// Vec3 packs the terms for a vec3 uniform.
func (a Attenuation) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{a.Constant, a.Linear, a.Quadratic}
}

// Factor returns the attenuation at distance d.
func (a Attenuation) Factor(d float32) float32 {
	return 1 / (a.Constant + a.Linear*d + a.Quadratic*d*d)
}

// Bounds is an axis-aligned box lights are placed in.
type Bounds struct {
	Min, Max mgl32.Vec3
}

// DefaultBounds spans x,z in [-3,3] and y in [-4,2].
var DefaultBounds = Bounds{
	Min: mgl32.Vec3{-3, -4, -3},
	Max: mgl32.Vec3{3, 2, 3},
}

// Contains reports whether p lies inside the closed box.
func (b Bounds) Contains(p mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Color channels are drawn from [MinChannel, 1].
const MinChannel = 0.5

// Generator produces light lists from a seeded source. It is not safe for
// concurrent use.
type Generator struct {
	Bounds Bounds

	rng *rand.Rand
}

// NewGenerator returns a generator seeded with seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		Bounds: DefaultBounds,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Generate replaces the contents of dst with count new lights and returns
// the resliced list. count is clamped to [0, MaxLights]. The backing array
// is reused when it is large enough, so callers should hold on to the
// returned slice only.
func (g *Generator) Generate(dst []PointLight, count int) []PointLight {
	count = max(0, min(count, MaxLights))
	dst = dst[:0]
	for i := 0; i < count; i++ {
		dst = append(dst, PointLight{
			Position: mgl32.Vec3{
				g.between(g.Bounds.Min[0], g.Bounds.Max[0]),
				g.between(g.Bounds.Min[1], g.Bounds.Max[1]),
				g.between(g.Bounds.Min[2], g.Bounds.Max[2]),
			},
			Color: mgl32.Vec3{
				g.between(MinChannel, 1),
				g.between(MinChannel, 1),
				g.between(MinChannel, 1),
			},
		})
	}
	return dst
}

func (g *Generator) between(lo, hi float32) float32 {
	return lo + g.rng.Float32()*(hi-lo)
}
