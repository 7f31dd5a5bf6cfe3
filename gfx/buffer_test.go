package gfx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glexercises/gfx"
	"glexercises/gfx/gfxtest"
)

const passVert = `#version 410 core
layout (location = 0) in vec3 a_position;
uniform mat4 model;
void main() {
	gl_Position = model * vec4(a_position, 1.0);
}
`

const passFrag = `#version 410 core
out vec4 frag_color;
uniform vec3 color;
void main() {
	frag_color = vec4(color, 1.0);
}
`

func newProgram(t *testing.T, d gfx.Driver) *gfx.Program {
	t.Helper()
	p, err := gfx.NewProgram(d, passVert, passFrag)
	require.NoError(t, err)
	return p
}

func TestNewBufferRejectsEmptyVertices(t *testing.T) {
	d := gfxtest.New(800, 600)

	b, err := gfx.NewBuffer(d, nil, nil, gfx.PositionOnly)
	assert.ErrorIs(t, err, gfx.ErrNoVertexData)
	assert.Nil(t, b)
	assert.Zero(t, d.Live())
}

func TestNewBufferRejectsStrideMismatch(t *testing.T) {
	d := gfxtest.New(800, 600)

	_, err := gfx.NewBuffer(d, make([]float32, 10), nil, gfx.PositionColor)
	assert.ErrorIs(t, err, gfx.ErrLayoutMismatch)
}

func TestNewBufferDefaultsToPositionLayout(t *testing.T) {
	d := gfxtest.New(800, 600)

	b, err := gfx.NewBuffer(d, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, nil, gfx.Layout{})
	require.NoError(t, err)
	assert.Equal(t, "position", b.Layout.Name)
	assert.EqualValues(t, 3, b.VertexCount)
	assert.Equal(t, map[uint32]int32{0: 3}, d.Attribs(b.VAO))
}

func TestNewBufferReleasesBindings(t *testing.T) {
	d := gfxtest.New(800, 600)

	b, err := gfx.NewBuffer(d, make([]float32, 4*8), []uint32{0, 1, 2, 2, 3, 0}, gfx.PositionNormalUV)
	require.NoError(t, err)

	_, vao, _ := d.Bound()
	assert.Zero(t, vao)
	assert.Empty(t, d.Violations)
	assert.Equal(t, b.EBO, d.ElementBuffer(b.VAO))
	assert.Equal(t, 32, d.BufferLen(b.VBO))
	assert.Equal(t, 6, d.BufferLen(b.EBO))
}

func TestRenderIssuesOneDrawPerLayout(t *testing.T) {
	layouts := []gfx.Layout{
		gfx.PositionOnly,
		gfx.PositionColor,
		gfx.PositionColorUV,
		gfx.PositionUV,
		gfx.PositionNormal,
		gfx.PositionNormalUV,
		gfx.PositionNormalTangentUV,
		gfx.NewLayout("custom", 2, 4),
	}

	for _, layout := range layouts {
		t.Run(layout.Name, func(t *testing.T) {
			d := gfxtest.New(800, 600)
			p := newProgram(t, d)

			const vertices = 5
			data := make([]float32, vertices*layout.Stride())
			plain, err := gfx.NewBuffer(d, data, nil, layout)
			require.NoError(t, err)
			indexed, err := gfx.NewBuffer(d, data, []uint32{0, 1, 2, 2, 3, 4, 4, 0, 1}, layout)
			require.NoError(t, err)

			gfx.Draw(d, plain, p)
			require.Len(t, d.Draws, 1)
			assert.False(t, d.Draws[0].Indexed)
			assert.EqualValues(t, vertices, d.Draws[0].Count)
			assert.Equal(t, gfx.Triangles, d.Draws[0].Mode)

			gfx.Render(d, indexed, p, gfx.TriangleStrip)
			require.Len(t, d.Draws, 2)
			assert.True(t, d.Draws[1].Indexed)
			assert.EqualValues(t, 9, d.Draws[1].Count)
			assert.Equal(t, gfx.TriangleStrip, d.Draws[1].Mode)
			assert.Equal(t, indexed.VAO, d.Draws[1].VAO)
			assert.Equal(t, p.ID, d.Draws[1].Program)

			prog, vao, _ := d.Bound()
			assert.Zero(t, prog)
			assert.Zero(t, vao)
			assert.Empty(t, d.Violations)
		})
	}
}

func TestBufferDestroy(t *testing.T) {
	d := gfxtest.New(800, 600)

	b, err := gfx.NewBuffer(d, make([]float32, 9), []uint32{0, 1, 2}, gfx.PositionOnly)
	require.NoError(t, err)
	require.Equal(t, 3, d.Live())

	b.Destroy()
	assert.Zero(t, d.Live())
	assert.False(t, b.Indexed())
}
