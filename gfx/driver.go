// Package gfx wraps the GPU resources every exercise shares: vertex buffers
// with attribute layouts, shader programs with by-name uniforms, and 2D
// textures. All GPU access goes through a Driver so the resource code can
// run against the real OpenGL backend or the recording fake in gfxtest.
package gfx

// Enum mirrors a GLenum. The constant values below are the literal OpenGL
// values so a driver can pass them through unchanged.
type Enum uint32

// Primitive kinds.
const (
	Points        Enum = 0x0000
	Lines         Enum = 0x0001
	Triangles     Enum = 0x0004
	TriangleStrip Enum = 0x0005
)

// Buffer targets.
const (
	ArrayBuffer        Enum = 0x8892
	ElementArrayBuffer Enum = 0x8893
)

// Shader stages.
const (
	VertexShader   Enum = 0x8B31
	FragmentShader Enum = 0x8B30
)

// Texture targets, formats and parameters.
const (
	Texture2D Enum = 0x0DE1

	Red             Enum = 0x1903
	RGB             Enum = 0x1907
	RGBA            Enum = 0x1908
	RGB8            Enum = 0x8051
	RGBA8           Enum = 0x8058
	RGBA16F         Enum = 0x881A
	RGB16F          Enum = 0x881B
	DepthComponent  Enum = 0x1902
	Depth24Stencil8 Enum = 0x88F0

	UnsignedByte Enum = 0x1401
	UnsignedInt  Enum = 0x1405
	Float        Enum = 0x1406

	TextureMagFilter Enum = 0x2800
	TextureMinFilter Enum = 0x2801
	TextureWrapS     Enum = 0x2802
	TextureWrapT     Enum = 0x2803

	Nearest            Enum = 0x2600
	Linear             Enum = 0x2601
	LinearMipmapLinear Enum = 0x2703
	Repeat             Enum = 0x2901
	ClampToEdge        Enum = 0x812F
	MirroredRepeat     Enum = 0x8370
)

// Framebuffer objects.
const (
	Framebuffer     Enum = 0x8D40
	ReadFramebuffer Enum = 0x8CA8
	DrawFramebuffer Enum = 0x8CA9
	Renderbuffer    Enum = 0x8D41

	ColorAttachment0 Enum = 0x8CE0
	DepthAttachment  Enum = 0x8D00

	FramebufferComplete                    Enum = 0x8CD5
	FramebufferIncompleteAttachment        Enum = 0x8CD6
	FramebufferIncompleteMissingAttachment Enum = 0x8CD7
	FramebufferIncompleteDrawBuffer        Enum = 0x8CDB
	FramebufferUnsupported                 Enum = 0x8CDD
)

// Clear masks and capabilities.
const (
	DepthBufferBit Enum = 0x00000100
	ColorBufferBit Enum = 0x00004000

	DepthTest Enum = 0x0B71
	CullFace  Enum = 0x0B44
)

// ColorAttachment returns COLOR_ATTACHMENTi.
func ColorAttachment(i int) Enum { return ColorAttachment0 + Enum(i) }

// Driver is the subset of OpenGL the resource layer and the render passes
// use. Implementations must be called from the goroutine that owns the GL
// context.
type Driver interface {
	GenVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)

	GenBuffer() uint32
	BindBuffer(target Enum, id uint32)
	BufferFloats(target Enum, data []float32)
	BufferIndices(target Enum, data []uint32)
	DeleteBuffer(id uint32)

	VertexAttribPointer(index uint32, size, stride int32, offset int)
	EnableVertexAttribArray(index uint32)

	DrawArrays(mode Enum, first, count int32)
	DrawElements(mode Enum, count int32)

	CreateShader(stage Enum) uint32
	ShaderSource(shader uint32, src string)
	CompileShader(shader uint32)
	ShaderCompiled(shader uint32) bool
	ShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	ProgramLinked(program uint32) bool
	ProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	// GetUniformLocation returns -1 when the program has no active uniform
	// with that name.
	GetUniformLocation(program uint32, name string) int32
	Uniform1i(loc int32, v int32)
	Uniform1f(loc int32, v float32)
	Uniform3f(loc int32, x, y, z float32)
	UniformMatrix4fv(loc int32, m [16]float32)
	GetUniformfv(program uint32, loc int32, out []float32)

	GenTexture() uint32
	ActiveTexture(unit uint32)
	BindTexture(target Enum, id uint32)
	TexParameteri(target, pname Enum, param int32)
	// TexImage2D uploads level 0. pixels may be nil to only allocate storage.
	TexImage2D(target, internalFormat Enum, width, height int32, format, xtype Enum, pixels []byte)
	GenerateMipmap(target Enum)
	DeleteTexture(id uint32)

	GenFramebuffer() uint32
	BindFramebuffer(target Enum, id uint32)
	FramebufferTexture2D(target, attachment Enum, texture uint32)
	GenRenderbuffer() uint32
	BindRenderbuffer(id uint32)
	RenderbufferStorage(internalFormat Enum, width, height int32)
	FramebufferRenderbuffer(target, attachment Enum, renderbuffer uint32)
	DrawBuffers(attachments []Enum)
	ReadBuffer(src Enum)
	CheckFramebufferStatus(target Enum) Enum
	BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int32, mask, filter Enum)
	DeleteFramebuffer(id uint32)
	DeleteRenderbuffer(id uint32)

	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(mask Enum)
	Enable(capability Enum)
	Disable(capability Enum)
	// ReadPixels reads an RGBA8 rectangle from the bound read framebuffer.
	ReadPixels(x, y, width, height int32) []byte
}
