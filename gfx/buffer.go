package gfx

import (
	"fmt"

	"go.uber.org/zap"

	"glexercises/internal/logger"
)

// Buffer holds the vertex array, vertex buffer and optional index buffer
// for one mesh.
type Buffer struct {
	VAO uint32
	VBO uint32
	EBO uint32 // 0 when the mesh is not indexed

	VertexCount int32
	IndexCount  int32
	Layout      Layout

	d Driver
}

// NewBuffer uploads interleaved vertex data, and indices when given, and
// declares the attribute layout. A zero layout falls back to PositionOnly.
func NewBuffer(d Driver, vertices []float32, indices []uint32, layout Layout) (*Buffer, error) {
	if len(vertices) == 0 {
		return nil, ErrNoVertexData
	}
	if layout.IsZero() {
		layout = PositionOnly
	}
	stride := layout.Stride()
	if len(vertices)%stride != 0 {
		return nil, fmt.Errorf("%w: %d floats with %s stride %d", ErrLayoutMismatch, len(vertices), layout.Name, stride)
	}

	b := &Buffer{
		VertexCount: int32(len(vertices) / stride),
		IndexCount:  int32(len(indices)),
		Layout:      layout,
		d:           d,
	}

	b.VAO = d.GenVertexArray()
	d.BindVertexArray(b.VAO)

	b.VBO = d.GenBuffer()
	d.BindBuffer(ArrayBuffer, b.VBO)
	d.BufferFloats(ArrayBuffer, vertices)

	if len(indices) > 0 {
		b.EBO = d.GenBuffer()
		d.BindBuffer(ElementArrayBuffer, b.EBO)
		d.BufferIndices(ElementArrayBuffer, indices)
	}

	layout.apply(d)

	// The element binding is VAO state, so only the VAO and the array
	// buffer are released.
	d.BindVertexArray(0)
	d.BindBuffer(ArrayBuffer, 0)

	logger.Log.Debug("created buffer",
		zap.Uint32("vao", b.VAO),
		zap.Uint32("vbo", b.VBO),
		zap.Uint32("ebo", b.EBO),
		zap.Int32("vertices", b.VertexCount),
		zap.Int32("indices", b.IndexCount),
		zap.String("layout", layout.Name),
	)
	return b, nil
}

// Indexed reports whether Render issues an indexed draw.
func (b *Buffer) Indexed() bool { return b.EBO != 0 }

// Bind binds the vertex array and returns the matching release.
// Guards do not nest: release always restores the unbound state.
func (b *Buffer) Bind() (release func()) {
	b.d.BindVertexArray(b.VAO)
	return func() { b.d.BindVertexArray(0) }
}

// Destroy deletes the GPU objects. The buffer must not be used afterwards.
func (b *Buffer) Destroy() {
	if b.EBO != 0 {
		b.d.DeleteBuffer(b.EBO)
		b.EBO = 0
	}
	if b.VBO != 0 {
		b.d.DeleteBuffer(b.VBO)
		b.VBO = 0
	}
	if b.VAO != 0 {
		b.d.DeleteVertexArray(b.VAO)
		b.VAO = 0
	}
}
