package gfx

// Render binds p then b, issues one draw sized by the buffer's stored
// counts, and releases both in reverse order.
func Render(d Driver, b *Buffer, p *Program, prim Enum) {
	releaseProgram := p.Bind()
	defer releaseProgram()
	releaseBuffer := b.Bind()
	defer releaseBuffer()

	if b.Indexed() {
		d.DrawElements(prim, b.IndexCount)
		return
	}
	d.DrawArrays(prim, 0, b.VertexCount)
}

// Draw renders triangles.
func Draw(d Driver, b *Buffer, p *Program) {
	Render(d, b, p, Triangles)
}

// Drawable is geometry that binds its own textures and draws itself with p.
type Drawable interface {
	Draw(d Driver, p *Program)
}
