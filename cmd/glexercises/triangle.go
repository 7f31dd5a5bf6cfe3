package main

import (
	"github.com/urfave/cli/v2"

	"glexercises/gfx"
	"glexercises/input"
	"glexercises/internal/opengl"
	"glexercises/scene"
)

const triangleVert = `#version 410 core
layout (location = 0) in vec3 a_position;
layout (location = 1) in vec3 a_color;
out vec3 color;
void main() {
	gl_Position = vec4(a_position, 1.0);
	color = a_color;
}
`

const triangleFrag = `#version 410 core
in vec3 color;
out vec4 frag_color;
void main() {
	frag_color = vec4(color, 1.0);
}
`

var triangleCommand = &cli.Command{
	Name:   "triangle",
	Usage:  "draw one vertex-colored triangle",
	Action: runTriangle,
}

func runTriangle(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	win, d, err := openWindow(cfg, false)
	if err != nil {
		return err
	}
	defer win.Destroy()
	win.OnResize(func(w, h int) { d.Viewport(0, 0, int32(w), int32(h)) })

	prog, err := gfx.NewProgram(d, triangleVert, triangleFrag)
	if err != nil {
		return err
	}
	defer prog.Destroy()
	buf, err := gfx.NewBuffer(d, scene.ColoredTriangle(), nil, gfx.PositionColor)
	if err != nil {
		return err
	}
	defer buf.Destroy()
	if err := opengl.CheckError("triangle setup"); err != nil {
		return err
	}

	in := input.NewManager(input.KeyEscape)
	for !win.ShouldClose() {
		win.PollEvents()
		in.Update(win)
		if in.Pressed(input.KeyEscape) {
			win.SetShouldClose(true)
		}
		d.ClearColor(0.2, 0.3, 0.3, 1)
		d.Clear(gfx.ColorBufferBit)
		gfx.Draw(d, buf, prog)
		win.SwapBuffers()
	}
	return nil
}
