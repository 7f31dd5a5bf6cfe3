package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"glexercises/config"
	"glexercises/core"
	"glexercises/deferred"
	"glexercises/gfx"
	"glexercises/input"
	"glexercises/internal/logger"
	"glexercises/internal/opengl"
	"glexercises/lights"
	"glexercises/scene"
)

var gbufferCommand = &cli.Command{
	Name:  "gbuffer",
	Usage: "deferred shading of a model grid under up to 128 point lights",
	Description: `Draws the model into a G-buffer and shades it in one full-screen pass.
G regenerates the lights, WASD/Space/C move, Q/E turn and Escape quits.`,
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "blit", Usage: "none, depth, position, normal or color"},
		&cli.StringFlag{Name: "debug", Usage: "first attachment: position, normal, diffuse or specular"},
		&cli.BoolFlag{Name: "specular", Usage: "add the specular term"},
		&cli.BoolFlag{Name: "cull", Usage: "skip instances outside the view frustum"},
	},
	Action: runGBuffer,
}

type gbufferApp struct {
	cfg      *config.Config
	win      *core.Window
	d        gfx.Driver
	in       *input.Manager
	cam      *scene.Camera
	cache    *scene.TextureCache
	model    *scene.Model
	pipeline *deferred.Pipeline

	gen       *lights.Generator
	lights    []lights.PointLight
	instances []deferred.Instance
}

func runGBuffer(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if ctx.IsSet("blit") {
		cfg.GBuffer.Blit = ctx.String("blit")
	}
	if ctx.IsSet("debug") {
		cfg.GBuffer.Debug = ctx.String("debug")
	}
	if ctx.IsSet("specular") {
		cfg.Lights.Specular = ctx.Bool("specular")
	}
	if ctx.IsSet("cull") {
		cfg.Model.Cull = ctx.Bool("cull")
	}
	opts, err := cfg.Pipeline()
	if err != nil {
		return err
	}

	a, err := newGBufferApp(cfg, opts)
	if err != nil {
		return err
	}
	defer a.destroy()
	a.run()
	return nil
}

func newGBufferApp(cfg *config.Config, opts deferred.Options) (_ *gbufferApp, err error) {
	meshes, err := scene.Load(cfg.Model.Path)
	if err != nil {
		return nil, err
	}

	win, d, err := openWindow(cfg, true)
	if err != nil {
		return nil, err
	}
	a := &gbufferApp{
		cfg: cfg,
		win: win,
		d:   d,
		in:  input.NewManager(),
		cam: newCamera(cfg.Camera),
		gen: lights.NewGenerator(seedOrClock(cfg.Lights.Seed)),
	}
	defer func() {
		if err != nil {
			a.destroy()
		}
	}()

	a.cache = scene.NewTextureCache(d)
	if a.model, err = scene.Upload(d, meshes, a.cache); err != nil {
		return nil, fmt.Errorf("upload %q: %w", cfg.Model.Path, err)
	}
	if a.pipeline, err = deferred.New(d, win.Width, win.Height, opts); err != nil {
		return nil, err
	}
	if err = opengl.CheckError("gbuffer setup"); err != nil {
		return nil, err
	}

	for _, p := range cfg.Model.Positions() {
		a.instances = append(a.instances, deferred.Instance{
			Drawable: a.model,
			Model:    mgl32.Translate3D(p[0], p[1], p[2]),
		})
	}
	a.regenerate()

	win.OnResize(a.resize)
	return a, nil
}

func (a *gbufferApp) regenerate() {
	a.lights = a.gen.Generate(a.lights, a.cfg.Lights.Count)
	logger.Log.Info("generated lights", zap.Int("count", len(a.lights)))
}

func (a *gbufferApp) resize(width, height int) {
	a.d.Viewport(0, 0, int32(width), int32(height))
	if width == 0 || height == 0 {
		return
	}
	if err := a.pipeline.Resize(width, height); err != nil {
		logger.Log.Warn("resize G-buffer", zap.Int("width", width), zap.Int("height", height), zap.Error(err))
	}
}

func (a *gbufferApp) run() {
	var clock frameClock
	for !a.win.ShouldClose() {
		a.win.PollEvents()
		a.in.Update(a.win)
		dt, fps, report := clock.tick(a.win.Time())
		if report {
			a.win.SetTitle(fmt.Sprintf("%s - %d fps", a.cfg.Window.Title, fps))
		}

		if a.in.Pressed(input.KeyEscape) {
			a.win.SetShouldClose(true)
		}
		if a.in.Pressed(input.KeyG) {
			a.regenerate()
		}
		a.cam.Move(a.in.Controls(), dt)

		if a.win.Width == 0 || a.win.Height == 0 {
			a.win.WaitEvents()
			continue
		}
		a.pipeline.Render(deferred.Frame{
			View:         a.cam.LookAt(mgl32.Vec3{}),
			Projection:   a.cam.Projection(a.win.Aspect()),
			ViewPosition: a.cam.Position,
			Instances:    a.instances,
			Lights:       a.lights,
			Width:        int32(a.win.Width),
			Height:       int32(a.win.Height),
		})
		a.win.SwapBuffers()
	}
}

func (a *gbufferApp) destroy() {
	if a.pipeline != nil {
		a.pipeline.Destroy()
	}
	if a.model != nil {
		a.model.Destroy()
	}
	if a.cache != nil {
		a.cache.Destroy()
	}
	a.win.Destroy()
}
