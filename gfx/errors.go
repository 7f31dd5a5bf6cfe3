package gfx

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoVertexData is returned by NewBuffer when the vertex slice is empty.
	ErrNoVertexData = errors.New("gfx: no vertex data")
	// ErrLayoutMismatch is returned when the vertex slice length is not a
	// multiple of the layout stride.
	ErrLayoutMismatch = errors.New("gfx: vertex data does not match layout stride")
)

// CompileError carries the driver's info log for a shader that failed to
// compile.
type CompileError struct {
	Stage string // "vertex" or "fragment"
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader compile failed: %s", e.Stage, trimLog(e.Log))
}

// LinkError carries the driver's info log for a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return "program link failed: " + trimLog(e.Log)
}

// DecodeError is returned when a texture file cannot be opened or decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode texture %q: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func trimLog(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}
