package gfx_test

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glexercises/gfx"
	"glexercises/gfx/gfxtest"
)

func TestNewProgramCompileError(t *testing.T) {
	d := gfxtest.New(800, 600)

	p, err := gfx.NewProgram(d, passVert, "#version 410 core\nvoid main() {")
	require.Error(t, err)
	assert.Nil(t, p)

	var ce *gfx.CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "fragment", ce.Stage)
	assert.Contains(t, ce.Log, "unbalanced")
	assert.Contains(t, err.Error(), "fragment shader compile failed")
	assert.Zero(t, d.Live())
}

func TestNewProgramVertexCompileError(t *testing.T) {
	d := gfxtest.New(800, 600)

	_, err := gfx.NewProgram(d, "void main() {}", passFrag)
	var ce *gfx.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "vertex", ce.Stage)
	assert.Contains(t, ce.Log, "#version")
}

func TestUniformRoundTrip(t *testing.T) {
	d := gfxtest.New(800, 600)
	p := newProgram(t, d)

	p.SetVec3("color", mgl32.Vec3{0.25, 0.5, 1})
	model := mgl32.Translate3D(1, 2, 3)
	p.SetMat4("model", model)

	got := make([]float32, 3)
	require.True(t, p.Uniform("color", got))
	assert.Equal(t, []float32{0.25, 0.5, 1}, got)

	m := make([]float32, 16)
	require.True(t, p.Uniform("model", m))
	assert.Equal(t, model[:], m)

	p.SetVec3("color", mgl32.Vec3{1, 0, 0})
	require.True(t, p.Uniform("color", got))
	assert.Equal(t, []float32{1, 0, 0}, got)

	prog, _, _ := d.Bound()
	assert.Zero(t, prog, "setters must release the program")
	assert.Empty(t, d.Violations)
}

func TestUnknownUniformIsNoop(t *testing.T) {
	d := gfxtest.New(800, 600)
	p := newProgram(t, d)

	p.SetVec3("color", mgl32.Vec3{0.1, 0.2, 0.3})

	assert.NotPanics(t, func() {
		p.SetFloat("missing", 4)
		p.SetInt("colour", 1)
		p.SetVec3("color.x", mgl32.Vec3{9, 9, 9})
		p.SetMat4("view", mgl32.Ident4())
		p.SetBool("enabled", true)
	})

	got := make([]float32, 3)
	require.True(t, p.Uniform("color", got))
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, got)
	assert.False(t, p.Uniform("missing", got))
	assert.Equal(t, int32(-1), p.Location("view"))
	assert.Empty(t, d.Violations)
}

func TestUniformStructArrays(t *testing.T) {
	const frag = `#version 410 core
#define LIGHT_COUNT 4
struct Light {
	vec3 position;
	vec3 color;
};
uniform Light lights[LIGHT_COUNT];
out vec4 frag_color;
void main() {
	frag_color = vec4(lights[0].color, 1.0);
}
`
	d := gfxtest.New(800, 600)
	p, err := gfx.NewProgram(d, passVert, frag)
	require.NoError(t, err)

	assert.NotEqual(t, int32(-1), p.Location("lights[3].position"))
	assert.Equal(t, int32(-1), p.Location("lights[4].position"))
	assert.Equal(t, int32(-1), p.Location("lights[0].radius"))
	assert.Equal(t, int32(-1), p.Location("lights"))

	p.SetVec3("lights[2].color", mgl32.Vec3{1, 1, 1})
	p.SetVec3("lights[9].color", mgl32.Vec3{5, 5, 5})
	got := make([]float32, 3)
	require.True(t, p.Uniform("lights[2].color", got))
	assert.Equal(t, []float32{1, 1, 1}, got)
}

func TestProgramDestroy(t *testing.T) {
	d := gfxtest.New(800, 600)
	p := newProgram(t, d)
	require.Equal(t, 1, d.Live())

	p.Destroy()
	assert.Zero(t, d.Live())
	assert.Zero(t, p.ID)
}
