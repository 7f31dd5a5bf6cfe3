package gfx

// Attrib is one float vertex attribute: its shader location and component
// count.
type Attrib struct {
	Location uint32
	Size     int32
}

// Layout describes how interleaved float32 vertex data maps onto shader
// attribute locations. The zero Layout means PositionOnly.
type Layout struct {
	Name    string
	Attribs []Attrib
}

// Preset layouts. Locations are assigned in order starting at 0.
var (
	PositionOnly            = NewLayout("position", 3)
	PositionColor           = NewLayout("position+color", 3, 3)
	PositionColorUV         = NewLayout("position+color+uv", 3, 3, 2)
	PositionUV              = NewLayout("position+uv", 3, 2)
	PositionNormal          = NewLayout("position+normal", 3, 3)
	PositionNormalUV        = NewLayout("position+normal+uv", 3, 3, 2)
	PositionNormalTangentUV = NewLayout("position+normal+tangent+uv", 3, 3, 3, 2)
)

// NewLayout builds a layout whose attributes occupy consecutive locations.
func NewLayout(name string, sizes ...int32) Layout {
	l := Layout{Name: name, Attribs: make([]Attrib, len(sizes))}
	for i, s := range sizes {
		l.Attribs[i] = Attrib{Location: uint32(i), Size: s}
	}
	return l
}

// IsZero reports whether no attributes are declared.
func (l Layout) IsZero() bool { return len(l.Attribs) == 0 }

// Stride is the number of floats per vertex.
func (l Layout) Stride() int {
	n := 0
	for _, a := range l.Attribs {
		n += int(a.Size)
	}
	return n
}

// apply declares the attribute pointers on the bound VAO and VBO.
func (l Layout) apply(d Driver) {
	stride := int32(l.Stride() * 4)
	offset := 0
	for _, a := range l.Attribs {
		d.VertexAttribPointer(a.Location, a.Size, stride, offset)
		d.EnableVertexAttribArray(a.Location)
		offset += int(a.Size) * 4
	}
}
