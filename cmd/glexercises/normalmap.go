package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/urfave/cli/v2"

	"glexercises/input"
	"glexercises/internal/opengl"
	"glexercises/normalmap"
	"glexercises/scene"
)

var normalmapCommand = &cli.Command{
	Name:  "normalmap",
	Usage: "forward tangent-space lighting with a sun, an orbiting light and a torch",
	Description: `T toggles the torch, WASD/Space/C move, the mouse looks around and
Escape quits. With --orbit the camera circles the model instead.`,
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "orbit", Usage: "circle the camera around the origin"},
	},
	Action: runNormalMap,
}

func runNormalMap(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	orbit := ctx.Bool("orbit")

	meshes, err := scene.Load(cfg.Model.Path)
	if err != nil {
		return err
	}
	win, d, err := openWindow(cfg, !orbit)
	if err != nil {
		return err
	}
	defer win.Destroy()
	win.OnResize(func(w, h int) { d.Viewport(0, 0, int32(w), int32(h)) })

	cache := scene.NewTextureCache(d)
	defer cache.Destroy()
	model, err := scene.Upload(d, meshes, cache)
	if err != nil {
		return fmt.Errorf("upload %q: %w", cfg.Model.Path, err)
	}
	defer model.Destroy()

	r, err := normalmap.New(d)
	if err != nil {
		return err
	}
	defer r.Destroy()
	if err := opengl.CheckError("normalmap setup"); err != nil {
		return err
	}

	in := input.NewManager()
	cam := newCamera(cfg.Camera)
	var clock frameClock
	for !win.ShouldClose() {
		win.PollEvents()
		in.Update(win)
		now := win.Time()
		dt, fps, report := clock.tick(now)
		if report {
			win.SetTitle(fmt.Sprintf("%s - %d fps", cfg.Window.Title, fps))
		}

		if in.Pressed(input.KeyEscape) {
			win.SetShouldClose(true)
		}
		if in.Pressed(input.KeyT) {
			r.ToggleTorch()
		}

		if win.Width == 0 || win.Height == 0 {
			win.WaitEvents()
			continue
		}

		var view mgl32.Mat4
		if orbit {
			cam.Position = normalmap.OrbitCamera(float32(now), normalmap.CameraOrbitRadius)
			view = cam.LookAt(mgl32.Vec3{})
		} else {
			cam.Move(in.Controls(), dt)
			cam.Rotate(in.Look())
			view = cam.View()
		}

		r.Draw(normalmap.Frame{
			View:         view,
			Projection:   cam.Projection(win.Aspect()),
			ViewPosition: cam.Position,
			Light:        normalmap.OrbitLight(float32(now)),
			Drawable:     model,
			Model:        mgl32.Ident4(),
		})
		win.SwapBuffers()
	}
	return nil
}
