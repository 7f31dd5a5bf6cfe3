// Package opengl implements gfx.Driver on top of go-gl's 4.1 core bindings.
package opengl

import (
	"fmt"
	"strings"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"glexercises/gfx"
	"glexercises/internal/logger"
)

// Driver forwards gfx calls to the current OpenGL context.
type Driver struct{}

var _ gfx.Driver = Driver{}

// Init loads the GL function pointers. The context must be current.
func Init() (Driver, error) {
	if err := gl.Init(); err != nil {
		return Driver{}, fmt.Errorf("gl init: %w", err)
	}
	logger.Log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)
	return Driver{}, nil
}

func (Driver) GenVertexArray() uint32 {
	var id uint32
	gl.GenVertexArrays(1, &id)
	return id
}

func (Driver) BindVertexArray(vao uint32)    { gl.BindVertexArray(vao) }
func (Driver) DeleteVertexArray(vao uint32) { gl.DeleteVertexArrays(1, &vao) }

func (Driver) GenBuffer() uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	return id
}

func (Driver) BindBuffer(target gfx.Enum, id uint32) { gl.BindBuffer(uint32(target), id) }

func (Driver) BufferFloats(target gfx.Enum, data []float32) {
	gl.BufferData(uint32(target), len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (Driver) BufferIndices(target gfx.Enum, data []uint32) {
	gl.BufferData(uint32(target), len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (Driver) DeleteBuffer(id uint32) { gl.DeleteBuffers(1, &id) }

func (Driver) VertexAttribPointer(index uint32, size, stride int32, offset int) {
	gl.VertexAttribPointerWithOffset(index, size, gl.FLOAT, false, stride, uintptr(offset))
}

func (Driver) EnableVertexAttribArray(index uint32) { gl.EnableVertexAttribArray(index) }

func (Driver) DrawArrays(mode gfx.Enum, first, count int32) {
	gl.DrawArrays(uint32(mode), first, count)
}

func (Driver) DrawElements(mode gfx.Enum, count int32) {
	gl.DrawElements(uint32(mode), count, gl.UNSIGNED_INT, nil)
}

func (Driver) CreateShader(stage gfx.Enum) uint32 { return gl.CreateShader(uint32(stage)) }

func (Driver) ShaderSource(shader uint32, src string) {
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
}

func (Driver) CompileShader(shader uint32) { gl.CompileShader(shader) }

func (Driver) ShaderCompiled(shader uint32) bool {
	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	return status != gl.FALSE
}

func (Driver) ShaderInfoLog(shader uint32) string {
	var logLen int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
	log := strings.Repeat("\x00", int(logLen+1))
	gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
	return log
}

func (Driver) DeleteShader(shader uint32) { gl.DeleteShader(shader) }

func (Driver) CreateProgram() uint32                { return gl.CreateProgram() }
func (Driver) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }
func (Driver) LinkProgram(program uint32)          { gl.LinkProgram(program) }

func (Driver) ProgramLinked(program uint32) bool {
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	return status != gl.FALSE
}

func (Driver) ProgramInfoLog(program uint32) string {
	var logLen int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
	log := strings.Repeat("\x00", int(logLen+1))
	gl.GetProgramInfoLog(program, logLen, nil, gl.Str(log))
	return log
}

func (Driver) UseProgram(program uint32)    { gl.UseProgram(program) }
func (Driver) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (Driver) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (Driver) Uniform1i(loc int32, v int32)         { gl.Uniform1i(loc, v) }
func (Driver) Uniform1f(loc int32, v float32)       { gl.Uniform1f(loc, v) }
func (Driver) Uniform3f(loc int32, x, y, z float32) { gl.Uniform3f(loc, x, y, z) }

func (Driver) UniformMatrix4fv(loc int32, m [16]float32) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

func (Driver) GetUniformfv(program uint32, loc int32, out []float32) {
	if len(out) == 0 {
		return
	}
	// glGetUniformfv writes the whole uniform, so read into a buffer large
	// enough for a mat4 and copy what the caller asked for.
	var buf [16]float32
	gl.GetUniformfv(program, loc, &buf[0])
	copy(out, buf[:])
}

func (Driver) GenTexture() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	return id
}

func (Driver) ActiveTexture(unit uint32)             { gl.ActiveTexture(gl.TEXTURE0 + unit) }
func (Driver) BindTexture(target gfx.Enum, id uint32) { gl.BindTexture(uint32(target), id) }

func (Driver) TexParameteri(target, pname gfx.Enum, param int32) {
	gl.TexParameteri(uint32(target), uint32(pname), param)
}

func (Driver) TexImage2D(target, internalFormat gfx.Enum, width, height int32, format, xtype gfx.Enum, pixels []byte) {
	var ptr unsafe.Pointer
	if len(pixels) > 0 {
		ptr = gl.Ptr(pixels)
	}
	// Rows are tightly packed; RGB rows are not 4-byte aligned in general.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(uint32(target), 0, int32(internalFormat), width, height, 0, uint32(format), uint32(xtype), ptr)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
}

func (Driver) GenerateMipmap(target gfx.Enum) { gl.GenerateMipmap(uint32(target)) }
func (Driver) DeleteTexture(id uint32)        { gl.DeleteTextures(1, &id) }

func (Driver) GenFramebuffer() uint32 {
	var id uint32
	gl.GenFramebuffers(1, &id)
	return id
}

func (Driver) BindFramebuffer(target gfx.Enum, id uint32) {
	gl.BindFramebuffer(uint32(target), id)
}

func (Driver) FramebufferTexture2D(target, attachment gfx.Enum, texture uint32) {
	gl.FramebufferTexture2D(uint32(target), uint32(attachment), gl.TEXTURE_2D, texture, 0)
}

func (Driver) GenRenderbuffer() uint32 {
	var id uint32
	gl.GenRenderbuffers(1, &id)
	return id
}

func (Driver) BindRenderbuffer(id uint32) { gl.BindRenderbuffer(gl.RENDERBUFFER, id) }

func (Driver) RenderbufferStorage(internalFormat gfx.Enum, width, height int32) {
	gl.RenderbufferStorage(gl.RENDERBUFFER, uint32(internalFormat), width, height)
}

func (Driver) FramebufferRenderbuffer(target, attachment gfx.Enum, renderbuffer uint32) {
	gl.FramebufferRenderbuffer(uint32(target), uint32(attachment), gl.RENDERBUFFER, renderbuffer)
}

func (Driver) DrawBuffers(attachments []gfx.Enum) {
	if len(attachments) == 0 {
		gl.DrawBuffer(gl.NONE)
		return
	}
	bufs := make([]uint32, len(attachments))
	for i, a := range attachments {
		bufs[i] = uint32(a)
	}
	gl.DrawBuffers(int32(len(bufs)), &bufs[0])
}

func (Driver) ReadBuffer(src gfx.Enum) { gl.ReadBuffer(uint32(src)) }

func (Driver) CheckFramebufferStatus(target gfx.Enum) gfx.Enum {
	return gfx.Enum(gl.CheckFramebufferStatus(uint32(target)))
}

func (Driver) BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int32, mask, filter gfx.Enum) {
	gl.BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1, uint32(mask), uint32(filter))
}

func (Driver) DeleteFramebuffer(id uint32)  { gl.DeleteFramebuffers(1, &id) }
func (Driver) DeleteRenderbuffer(id uint32) { gl.DeleteRenderbuffers(1, &id) }

func (Driver) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }
func (Driver) ClearColor(r, g, b, a float32)      { gl.ClearColor(r, g, b, a) }
func (Driver) Clear(mask gfx.Enum)                { gl.Clear(uint32(mask)) }
func (Driver) Enable(capability gfx.Enum)         { gl.Enable(uint32(capability)) }
func (Driver) Disable(capability gfx.Enum)        { gl.Disable(uint32(capability)) }

func (Driver) ReadPixels(x, y, width, height int32) []byte {
	px := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(x, y, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(px))
	return px
}

// CheckError logs and returns the first pending GL error, if any.
func CheckError(where string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		err := fmt.Errorf("%s: gl error 0x%X", where, code)
		logger.Log.Error("OpenGL error", zap.String("where", where), zap.Uint32("code", code))
		return err
	}
	return nil
}
