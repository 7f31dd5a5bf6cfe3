// Package gfxtest provides a recording gfx.Driver for tests. It keeps
// enough GL state to check bind discipline, framebuffer completeness and
// uniform round trips without a GPU.
package gfxtest

import (
	"fmt"

	"glexercises/gfx"
)

// Draw is one recorded draw call.
type Draw struct {
	Mode        gfx.Enum
	Count       int32
	Indexed     bool
	Program     uint32
	VAO         uint32
	Framebuffer uint32
	Textures    map[uint32]uint32 // unit -> texture
}

// Blit is one recorded framebuffer blit.
type Blit struct {
	ReadFBO    uint32
	DrawFBO    uint32
	SrcW, SrcH int32
	DstW, DstH int32
	Mask       gfx.Enum
	ReadBuffer gfx.Enum
}

type vertexArray struct {
	element uint32
	attribs map[uint32]int32
	enabled map[uint32]bool
}

type shader struct {
	stage    gfx.Enum
	src      string
	compiled bool
	log      string
	parsed   *source
}

type program struct {
	shaders []uint32
	linked  bool
	log     string
	srcs    []*source
	locs    map[string]int32
	names   map[int32]string
	values  map[int32][]float32
}

// Texture is the recorded state of one texture object.
type Texture struct {
	InternalFormat gfx.Enum
	Format         gfx.Enum
	Type           gfx.Enum
	Width, Height  int32
	Params         map[gfx.Enum]int32
	Mipmapped      bool
	Pixels         []byte
}

type attachment struct {
	texture      uint32
	renderbuffer uint32
}

type framebuffer struct {
	attachments map[gfx.Enum]attachment
	drawBuffers []gfx.Enum
	readBuffer  gfx.Enum
}

type renderbuffer struct {
	format        gfx.Enum
	width, height int32
}

// Driver is a recording fake. The zero value is not usable; call New.
type Driver struct {
	// Width and Height size the default framebuffer.
	Width, Height int32

	Draws      []Draw
	Blits      []Blit
	Clears     []gfx.Enum
	Violations []string

	nextID uint32

	vaos          map[uint32]*vertexArray
	buffers       map[uint32]int
	shaders       map[uint32]*shader
	programs      map[uint32]*program
	textures      map[uint32]*Texture
	framebuffers  map[uint32]*framebuffer
	renderbuffers map[uint32]*renderbuffer

	boundVAO          uint32
	boundArray        uint32
	boundProgram      uint32
	activeUnit        uint32
	units             map[uint32]uint32
	readFBO, drawFBO  uint32
	boundRenderbuffer uint32
	enabled           map[gfx.Enum]bool
	viewport          [4]int32
	clearColor        [4]float32

	deleted int
}

var _ gfx.Driver = (*Driver)(nil)

// New returns a fake whose default framebuffer is width x height.
func New(width, height int32) *Driver {
	return &Driver{
		Width:         width,
		Height:        height,
		vaos:          map[uint32]*vertexArray{},
		buffers:       map[uint32]int{},
		shaders:       map[uint32]*shader{},
		programs:      map[uint32]*program{},
		textures:      map[uint32]*Texture{},
		framebuffers:  map[uint32]*framebuffer{},
		renderbuffers: map[uint32]*renderbuffer{},
		units:         map[uint32]uint32{},
		enabled:       map[gfx.Enum]bool{},
		viewport:      [4]int32{0, 0, width, height},
	}
}

func (d *Driver) id() uint32 {
	d.nextID++
	return d.nextID
}

func (d *Driver) violate(format string, args ...any) {
	d.Violations = append(d.Violations, fmt.Sprintf(format, args...))
}

// ── Vertex arrays and buffers ────────────────────────────────────────────────

func (d *Driver) GenVertexArray() uint32 {
	id := d.id()
	d.vaos[id] = &vertexArray{attribs: map[uint32]int32{}, enabled: map[uint32]bool{}}
	return id
}

func (d *Driver) BindVertexArray(vao uint32) {
	if vao != 0 && d.vaos[vao] == nil {
		d.violate("bind of unknown vertex array %d", vao)
	}
	d.boundVAO = vao
}

func (d *Driver) DeleteVertexArray(vao uint32) {
	delete(d.vaos, vao)
	d.deleted++
}

func (d *Driver) GenBuffer() uint32 {
	id := d.id()
	d.buffers[id] = 0
	return id
}

func (d *Driver) BindBuffer(target gfx.Enum, id uint32) {
	switch target {
	case gfx.ArrayBuffer:
		d.boundArray = id
	case gfx.ElementArrayBuffer:
		if d.boundVAO == 0 {
			if id != 0 {
				d.violate("element buffer %d bound without a vertex array", id)
			}
			return
		}
		d.vaos[d.boundVAO].element = id
	}
}

func (d *Driver) bufferFor(target gfx.Enum) uint32 {
	if target == gfx.ElementArrayBuffer {
		if va := d.vaos[d.boundVAO]; va != nil {
			return va.element
		}
		return 0
	}
	return d.boundArray
}

func (d *Driver) BufferFloats(target gfx.Enum, data []float32) {
	id := d.bufferFor(target)
	if id == 0 {
		d.violate("buffer data with nothing bound to 0x%X", uint32(target))
		return
	}
	d.buffers[id] = len(data)
}

func (d *Driver) BufferIndices(target gfx.Enum, data []uint32) {
	id := d.bufferFor(target)
	if id == 0 {
		d.violate("index data with nothing bound to 0x%X", uint32(target))
		return
	}
	d.buffers[id] = len(data)
}

func (d *Driver) DeleteBuffer(id uint32) {
	delete(d.buffers, id)
	d.deleted++
}

func (d *Driver) VertexAttribPointer(index uint32, size, stride int32, offset int) {
	va := d.vaos[d.boundVAO]
	if va == nil || d.boundArray == 0 {
		d.violate("attribute %d declared without a bound vertex array and buffer", index)
		return
	}
	va.attribs[index] = size
}

func (d *Driver) EnableVertexAttribArray(index uint32) {
	if va := d.vaos[d.boundVAO]; va != nil {
		va.enabled[index] = true
	}
}

// ── Draws ────────────────────────────────────────────────────────────────────

func (d *Driver) draw(mode gfx.Enum, count int32, indexed bool) {
	if d.boundProgram == 0 {
		d.violate("draw without a program")
	}
	va := d.vaos[d.boundVAO]
	if va == nil {
		d.violate("draw without a vertex array")
	} else if indexed && va.element == 0 {
		d.violate("indexed draw without an element buffer")
	}
	units := make(map[uint32]uint32, len(d.units))
	for u, t := range d.units {
		if t != 0 {
			units[u] = t
		}
	}
	d.Draws = append(d.Draws, Draw{
		Mode:        mode,
		Count:       count,
		Indexed:     indexed,
		Program:     d.boundProgram,
		VAO:         d.boundVAO,
		Framebuffer: d.drawFBO,
		Textures:    units,
	})
}

func (d *Driver) DrawArrays(mode gfx.Enum, first, count int32) { d.draw(mode, count, false) }
func (d *Driver) DrawElements(mode gfx.Enum, count int32)       { d.draw(mode, count, true) }

// ── Shaders and programs ─────────────────────────────────────────────────────

func (d *Driver) CreateShader(stage gfx.Enum) uint32 {
	id := d.id()
	d.shaders[id] = &shader{stage: stage}
	return id
}

func (d *Driver) ShaderSource(id uint32, src string) { d.shaders[id].src = src }

func (d *Driver) CompileShader(id uint32) {
	s := d.shaders[id]
	s.parsed, s.log = compile(s.src)
	s.compiled = s.parsed != nil
}

func (d *Driver) ShaderCompiled(id uint32) bool  { return d.shaders[id].compiled }
func (d *Driver) ShaderInfoLog(id uint32) string { return d.shaders[id].log }

func (d *Driver) DeleteShader(id uint32) {
	delete(d.shaders, id)
	d.deleted++
}

func (d *Driver) CreateProgram() uint32 {
	id := d.id()
	d.programs[id] = &program{
		locs:   map[string]int32{},
		names:  map[int32]string{},
		values: map[int32][]float32{},
	}
	return id
}

func (d *Driver) AttachShader(p, s uint32) {
	d.programs[p].shaders = append(d.programs[p].shaders, s)
}

func (d *Driver) LinkProgram(id uint32) {
	p := d.programs[id]
	var vert, frag bool
	for _, sid := range p.shaders {
		s := d.shaders[sid]
		if s == nil || !s.compiled {
			p.log = "link error: attached shader is not compiled"
			return
		}
		vert = vert || s.stage == gfx.VertexShader
		frag = frag || s.stage == gfx.FragmentShader
		p.srcs = append(p.srcs, s.parsed)
	}
	if !vert || !frag {
		p.log = "link error: program needs a vertex and a fragment shader"
		return
	}
	p.linked = true
}

func (d *Driver) ProgramLinked(id uint32) bool    { return d.programs[id].linked }
func (d *Driver) ProgramInfoLog(id uint32) string { return d.programs[id].log }

func (d *Driver) UseProgram(id uint32) {
	if id != 0 {
		p := d.programs[id]
		if p == nil || !p.linked {
			d.violate("use of unlinked program %d", id)
		}
	}
	d.boundProgram = id
}

func (d *Driver) DeleteProgram(id uint32) {
	delete(d.programs, id)
	d.deleted++
}

func (d *Driver) GetUniformLocation(id uint32, name string) int32 {
	p := d.programs[id]
	if p == nil || !p.linked {
		return -1
	}
	if loc, ok := p.locs[name]; ok {
		return loc
	}
	if !resolves(p.srcs, name) {
		return -1
	}
	loc := int32(len(p.locs))
	p.locs[name] = loc
	p.names[loc] = name
	return loc
}

func (d *Driver) setUniform(loc int32, v ...float32) {
	p := d.programs[d.boundProgram]
	if p == nil {
		d.violate("uniform write at location %d without a program", loc)
		return
	}
	if _, ok := p.names[loc]; !ok {
		d.violate("uniform write at unknown location %d", loc)
		return
	}
	p.values[loc] = append([]float32(nil), v...)
}

func (d *Driver) Uniform1i(loc int32, v int32)         { d.setUniform(loc, float32(v)) }
func (d *Driver) Uniform1f(loc int32, v float32)       { d.setUniform(loc, v) }
func (d *Driver) Uniform3f(loc int32, x, y, z float32) { d.setUniform(loc, x, y, z) }
func (d *Driver) UniformMatrix4fv(loc int32, m [16]float32) {
	d.setUniform(loc, m[:]...)
}

func (d *Driver) GetUniformfv(id uint32, loc int32, out []float32) {
	p := d.programs[id]
	if p == nil {
		return
	}
	copy(out, p.values[loc])
}

// Uniform returns the last value written to a named uniform of a program.
func (d *Driver) Uniform(programID uint32, name string) ([]float32, bool) {
	p := d.programs[programID]
	if p == nil {
		return nil, false
	}
	loc, ok := p.locs[name]
	if !ok {
		return nil, false
	}
	v, ok := p.values[loc]
	return v, ok
}

// ── Textures ─────────────────────────────────────────────────────────────────

func (d *Driver) GenTexture() uint32 {
	id := d.id()
	d.textures[id] = &Texture{Params: map[gfx.Enum]int32{}}
	return id
}

func (d *Driver) ActiveTexture(unit uint32) { d.activeUnit = unit }

func (d *Driver) BindTexture(target gfx.Enum, id uint32) {
	if id != 0 && d.textures[id] == nil {
		d.violate("bind of unknown texture %d", id)
	}
	d.units[d.activeUnit] = id
}

func (d *Driver) boundTexture() *Texture {
	t := d.textures[d.units[d.activeUnit]]
	if t == nil {
		d.violate("texture call with no texture bound on unit %d", d.activeUnit)
	}
	return t
}

func (d *Driver) TexParameteri(target, pname gfx.Enum, param int32) {
	if t := d.boundTexture(); t != nil {
		t.Params[pname] = param
	}
}

func (d *Driver) TexImage2D(target, internalFormat gfx.Enum, width, height int32, format, xtype gfx.Enum, pixels []byte) {
	t := d.boundTexture()
	if t == nil {
		return
	}
	if pixels != nil {
		want := int(width * height * components(format) * typeSize(xtype))
		if len(pixels) != want {
			d.violate("texture upload of %d bytes, want %d", len(pixels), want)
		}
	}
	t.InternalFormat = internalFormat
	t.Format = format
	t.Type = xtype
	t.Width, t.Height = width, height
	t.Pixels = pixels
}

func components(format gfx.Enum) int32 {
	switch format {
	case gfx.RGBA:
		return 4
	case gfx.RGB:
		return 3
	}
	return 1
}

func typeSize(xtype gfx.Enum) int32 {
	if xtype == gfx.Float {
		return 4
	}
	return 1
}

func (d *Driver) GenerateMipmap(target gfx.Enum) {
	if t := d.boundTexture(); t != nil {
		t.Mipmapped = true
	}
}

func (d *Driver) DeleteTexture(id uint32) {
	delete(d.textures, id)
	d.deleted++
}

// Texture returns the recorded state of a texture object.
func (d *Driver) Texture(id uint32) (*Texture, bool) {
	t, ok := d.textures[id]
	return t, ok
}

// ── Framebuffers ─────────────────────────────────────────────────────────────

func (d *Driver) GenFramebuffer() uint32 {
	id := d.id()
	d.framebuffers[id] = &framebuffer{attachments: map[gfx.Enum]attachment{}, readBuffer: gfx.ColorAttachment0}
	return id
}

func (d *Driver) BindFramebuffer(target gfx.Enum, id uint32) {
	if id != 0 && d.framebuffers[id] == nil {
		d.violate("bind of unknown framebuffer %d", id)
	}
	switch target {
	case gfx.ReadFramebuffer:
		d.readFBO = id
	case gfx.DrawFramebuffer:
		d.drawFBO = id
	default:
		d.readFBO, d.drawFBO = id, id
	}
}

func (d *Driver) target(t gfx.Enum) *framebuffer {
	id := d.drawFBO
	if t == gfx.ReadFramebuffer {
		id = d.readFBO
	}
	fb := d.framebuffers[id]
	if fb == nil {
		d.violate("framebuffer call on the default framebuffer")
	}
	return fb
}

func (d *Driver) FramebufferTexture2D(target, attach gfx.Enum, texture uint32) {
	if fb := d.target(target); fb != nil {
		fb.attachments[attach] = attachment{texture: texture}
	}
}

func (d *Driver) GenRenderbuffer() uint32 {
	id := d.id()
	d.renderbuffers[id] = &renderbuffer{}
	return id
}

func (d *Driver) BindRenderbuffer(id uint32) { d.boundRenderbuffer = id }

func (d *Driver) RenderbufferStorage(internalFormat gfx.Enum, width, height int32) {
	rb := d.renderbuffers[d.boundRenderbuffer]
	if rb == nil {
		d.violate("renderbuffer storage with nothing bound")
		return
	}
	rb.format, rb.width, rb.height = internalFormat, width, height
}

func (d *Driver) FramebufferRenderbuffer(target, attach gfx.Enum, rb uint32) {
	if fb := d.target(target); fb != nil {
		fb.attachments[attach] = attachment{renderbuffer: rb}
	}
}

func (d *Driver) DrawBuffers(attachments []gfx.Enum) {
	if fb := d.target(gfx.DrawFramebuffer); fb != nil {
		fb.drawBuffers = append([]gfx.Enum(nil), attachments...)
	}
}

func (d *Driver) ReadBuffer(src gfx.Enum) {
	if fb := d.framebuffers[d.readFBO]; fb != nil {
		fb.readBuffer = src
	}
}

func (d *Driver) size(a attachment) (int32, int32, bool) {
	if a.texture != 0 {
		t := d.textures[a.texture]
		if t == nil {
			return 0, 0, false
		}
		return t.Width, t.Height, true
	}
	rb := d.renderbuffers[a.renderbuffer]
	if rb == nil {
		return 0, 0, false
	}
	return rb.width, rb.height, true
}

func (d *Driver) CheckFramebufferStatus(target gfx.Enum) gfx.Enum {
	id := d.drawFBO
	if target == gfx.ReadFramebuffer {
		id = d.readFBO
	}
	if id == 0 {
		return gfx.FramebufferComplete
	}
	fb := d.framebuffers[id]
	if len(fb.attachments) == 0 {
		return gfx.FramebufferIncompleteMissingAttachment
	}
	var w, h int32 = -1, -1
	for _, a := range fb.attachments {
		aw, ah, ok := d.size(a)
		if !ok || aw <= 0 || ah <= 0 {
			return gfx.FramebufferIncompleteAttachment
		}
		if w == -1 {
			w, h = aw, ah
		} else if aw != w || ah != h {
			// Mixed sizes are legal since GL 4.3 but rejected here to keep
			// every target aligned.
			return gfx.FramebufferUnsupported
		}
	}
	for _, db := range fb.drawBuffers {
		if _, ok := fb.attachments[db]; !ok {
			return gfx.FramebufferIncompleteDrawBuffer
		}
	}
	return gfx.FramebufferComplete
}

// Attachment returns the texture attached at slot of framebuffer fbo.
func (d *Driver) Attachment(fbo uint32, slot gfx.Enum) (texture, renderbuffer uint32, ok bool) {
	fb := d.framebuffers[fbo]
	if fb == nil {
		return 0, 0, false
	}
	a, ok := fb.attachments[slot]
	return a.texture, a.renderbuffer, ok
}

// DrawBufferList returns the draw buffers declared on framebuffer fbo.
func (d *Driver) DrawBufferList(fbo uint32) []gfx.Enum {
	if fb := d.framebuffers[fbo]; fb != nil {
		return fb.drawBuffers
	}
	return nil
}

// RenderbufferFormat returns the storage of a renderbuffer.
func (d *Driver) RenderbufferFormat(id uint32) (format gfx.Enum, w, h int32) {
	if rb := d.renderbuffers[id]; rb != nil {
		return rb.format, rb.width, rb.height
	}
	return 0, 0, 0
}

func (d *Driver) BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int32, mask, filter gfx.Enum) {
	if d.readFBO == d.drawFBO {
		d.violate("blit with the same read and draw framebuffer")
	}
	if mask&gfx.DepthBufferBit != 0 && filter != gfx.Nearest {
		d.violate("depth blit must use nearest filtering")
	}
	rb := gfx.Enum(0)
	if fb := d.framebuffers[d.readFBO]; fb != nil {
		rb = fb.readBuffer
	}
	d.Blits = append(d.Blits, Blit{
		ReadFBO:    d.readFBO,
		DrawFBO:    d.drawFBO,
		SrcW:       srcX1 - srcX0,
		SrcH:       srcY1 - srcY0,
		DstW:       dstX1 - dstX0,
		DstH:       dstY1 - dstY0,
		Mask:       mask,
		ReadBuffer: rb,
	})
}

func (d *Driver) DeleteFramebuffer(id uint32) {
	delete(d.framebuffers, id)
	d.deleted++
}

func (d *Driver) DeleteRenderbuffer(id uint32) {
	delete(d.renderbuffers, id)
	d.deleted++
}

// ── Fixed-function state ─────────────────────────────────────────────────────

func (d *Driver) Viewport(x, y, w, h int32)      { d.viewport = [4]int32{x, y, w, h} }
func (d *Driver) ClearColor(r, g, b, a float32) { d.clearColor = [4]float32{r, g, b, a} }
func (d *Driver) Clear(mask gfx.Enum)           { d.Clears = append(d.Clears, mask) }
func (d *Driver) Enable(c gfx.Enum)             { d.enabled[c] = true }
func (d *Driver) Disable(c gfx.Enum)            { d.enabled[c] = false }

// ReadPixels returns the clear color for every pixel; the fake does not
// rasterize.
func (d *Driver) ReadPixels(x, y, w, h int32) []byte {
	px := make([]byte, 0, w*h*4)
	for i := int32(0); i < w*h; i++ {
		for _, c := range d.clearColor {
			px = append(px, byte(c*255))
		}
	}
	return px
}

// ── Inspection ───────────────────────────────────────────────────────────────

// Enabled reports whether a capability is on.
func (d *Driver) Enabled(c gfx.Enum) bool { return d.enabled[c] }

// ViewportRect returns the last viewport rectangle.
func (d *Driver) ViewportRect() [4]int32 { return d.viewport }

// Bound reports the current program, vertex array and draw framebuffer.
// All three are zero after well-scoped code returns.
func (d *Driver) Bound() (program, vao, fbo uint32) {
	return d.boundProgram, d.boundVAO, d.drawFBO
}

// BoundTexture returns the texture on a unit.
func (d *Driver) BoundTexture(unit uint32) uint32 { return d.units[unit] }

// Live counts GPU objects that have not been deleted.
func (d *Driver) Live() int {
	return len(d.vaos) + len(d.buffers) + len(d.programs) + len(d.textures) +
		len(d.framebuffers) + len(d.renderbuffers)
}

// Deleted counts delete calls of any object kind.
func (d *Driver) Deleted() int { return d.deleted }

// BufferLen returns the element count uploaded to a buffer.
func (d *Driver) BufferLen(id uint32) int { return d.buffers[id] }

// Attribs returns the attribute sizes declared on a vertex array.
func (d *Driver) Attribs(vao uint32) map[uint32]int32 {
	if va := d.vaos[vao]; va != nil {
		return va.attribs
	}
	return nil
}

// ElementBuffer returns the element buffer recorded in a vertex array.
func (d *Driver) ElementBuffer(vao uint32) uint32 {
	if va := d.vaos[vao]; va != nil {
		return va.element
	}
	return 0
}

// Reset drops recorded draws, blits and clears but keeps GPU objects.
func (d *Driver) Reset() {
	d.Draws = nil
	d.Blits = nil
	d.Clears = nil
}
