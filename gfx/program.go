package gfx

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"glexercises/internal/logger"
)

// Program is a linked vertex+fragment shader program. Uniforms are written
// by name; the location is looked up on every write and names the program
// does not know are ignored.
type Program struct {
	ID uint32

	d Driver
}

// NewProgram compiles both stages and links them. A failed stage returns a
// *CompileError, a failed link a *LinkError; both carry the driver's log.
func NewProgram(d Driver, vertexSrc, fragmentSrc string) (*Program, error) {
	vert, err := compileShader(d, VertexShader, vertexSrc)
	if err != nil {
		return nil, err
	}
	defer d.DeleteShader(vert)

	frag, err := compileShader(d, FragmentShader, fragmentSrc)
	if err != nil {
		return nil, err
	}
	defer d.DeleteShader(frag)

	id := d.CreateProgram()
	d.AttachShader(id, vert)
	d.AttachShader(id, frag)
	d.LinkProgram(id)
	if !d.ProgramLinked(id) {
		log := d.ProgramInfoLog(id)
		d.DeleteProgram(id)
		return nil, &LinkError{Log: log}
	}

	logger.Log.Debug("created program", zap.Uint32("id", id))
	return &Program{ID: id, d: d}, nil
}

func compileShader(d Driver, stage Enum, src string) (uint32, error) {
	shader := d.CreateShader(stage)
	d.ShaderSource(shader, src)
	d.CompileShader(shader)
	if !d.ShaderCompiled(shader) {
		log := d.ShaderInfoLog(shader)
		d.DeleteShader(shader)
		return 0, &CompileError{Stage: stageName(stage), Log: log}
	}
	return shader, nil
}

func stageName(stage Enum) string {
	switch stage {
	case VertexShader:
		return "vertex"
	case FragmentShader:
		return "fragment"
	}
	return "unknown"
}

// Bind makes the program current and returns the matching release.
// Guards do not nest: release always restores program 0.
func (p *Program) Bind() (release func()) {
	p.d.UseProgram(p.ID)
	return func() { p.d.UseProgram(0) }
}

// Location returns the uniform location for name, or -1.
func (p *Program) Location(name string) int32 {
	return p.d.GetUniformLocation(p.ID, name)
}

func (p *Program) set(name string, write func(loc int32)) {
	release := p.Bind()
	defer release()

	loc := p.Location(name)
	if loc == -1 {
		return
	}
	write(loc)
}

func (p *Program) SetInt(name string, v int32) {
	p.set(name, func(loc int32) { p.d.Uniform1i(loc, v) })
}

func (p *Program) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	p.SetInt(name, i)
}

func (p *Program) SetFloat(name string, v float32) {
	p.set(name, func(loc int32) { p.d.Uniform1f(loc, v) })
}

func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	p.set(name, func(loc int32) { p.d.Uniform3f(loc, v[0], v[1], v[2]) })
}

func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	p.set(name, func(loc int32) { p.d.UniformMatrix4fv(loc, m) })
}

// Uniform reads back up to len(out) floats of a uniform. It reports false
// when the name is unknown.
func (p *Program) Uniform(name string, out []float32) bool {
	loc := p.Location(name)
	if loc == -1 {
		return false
	}
	p.d.GetUniformfv(p.ID, loc, out)
	return true
}

// Destroy deletes the program.
func (p *Program) Destroy() {
	if p.ID != 0 {
		p.d.DeleteProgram(p.ID)
		p.ID = 0
	}
}
