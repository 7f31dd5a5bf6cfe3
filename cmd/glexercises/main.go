// Command glexercises runs the OpenGL exercises: the deferred G-buffer
// scene, the forward normal-mapping scene and a plain colored triangle.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"glexercises/config"
	"glexercises/core"
	"glexercises/internal/logger"
	"glexercises/internal/opengl"
	"glexercises/scene"
)

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "YAML settings file",
		EnvVars: []string{"GLEXERCISES_CONFIG"},
	}
	widthFlag = &cli.IntFlag{
		Name:  "width",
		Usage: "window width in pixels",
	}
	heightFlag = &cli.IntFlag{
		Name:  "height",
		Usage: "window height in pixels",
	}
	lightsFlag = &cli.IntFlag{
		Name:  "lights",
		Usage: "number of point lights (at most 128)",
	}
	seedFlag = &cli.Uint64Flag{
		Name:  "seed",
		Usage: "light generator seed, 0 for the clock",
	}
	modelFlag = &cli.StringFlag{
		Name:  "model",
		Usage: "model file (.obj, .gltf or .glb)",
	}
	logLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Usage:   "debug, info, warn or error",
		EnvVars: []string{"GLEXERCISES_LOG_LEVEL"},
	}
)

var app = &cli.App{
	Name:  "glexercises",
	Usage: "OpenGL rendering exercises",
	Flags: []cli.Flag{
		configFlag, widthFlag, heightFlag, lightsFlag, seedFlag, modelFlag, logLevelFlag,
	},
	Commands: []*cli.Command{
		gbufferCommand,
		normalmapCommand,
		triangleCommand,
	},
	After: func(*cli.Context) error {
		logger.Sync()
		return nil
	},
}

func main() {
	if err := app.Run(os.Args); err != nil {
		logger.Log.Error("exiting", zap.Error(err))
		logger.Sync()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads --config, applies the flag overrides, validates the
// result and starts the logger.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx.String(configFlag.Name))
	if err != nil {
		return nil, err
	}
	if ctx.IsSet(widthFlag.Name) {
		cfg.Window.Width = ctx.Int(widthFlag.Name)
	}
	if ctx.IsSet(heightFlag.Name) {
		cfg.Window.Height = ctx.Int(heightFlag.Name)
	}
	if ctx.IsSet(lightsFlag.Name) {
		cfg.Lights.Count = ctx.Int(lightsFlag.Name)
	}
	if ctx.IsSet(seedFlag.Name) {
		cfg.Lights.Seed = ctx.Uint64(seedFlag.Name)
	}
	if ctx.IsSet(modelFlag.Name) {
		cfg.Model.Path = ctx.String(modelFlag.Name)
	}
	if ctx.IsSet(logLevelFlag.Name) {
		cfg.Log.Level = ctx.String(logLevelFlag.Name)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Dev); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openWindow creates the window and loads GL into its context.
func openWindow(cfg *config.Config, captureCursor bool) (*core.Window, opengl.Driver, error) {
	wc := core.DefaultWindowConfig()
	wc.Width = cfg.Window.Width
	wc.Height = cfg.Window.Height
	wc.Title = cfg.Window.Title
	wc.VSync = cfg.Window.VSync
	wc.CaptureCursor = captureCursor

	win, err := core.NewWindow(wc)
	if err != nil {
		return nil, opengl.Driver{}, err
	}
	d, err := opengl.Init()
	if err != nil {
		win.Destroy()
		return nil, opengl.Driver{}, err
	}
	d.Viewport(0, 0, int32(win.Width), int32(win.Height))
	return win, d, nil
}

func newCamera(c config.Camera) *scene.Camera {
	cam := scene.NewCamera(c.Position)
	cam.FOV = c.FOV
	cam.Near = c.Near
	cam.Far = c.Far
	cam.Speed = c.Speed
	cam.Sensitivity = c.Sensitivity
	cam.FPS = c.FPS
	return cam
}

// frameClock measures frame times and reports the frame rate once a
// second.
type frameClock struct {
	last, since float64
	frames      int
}

func (c *frameClock) tick(now float64) (dt float32, fps int, report bool) {
	if c.last == 0 {
		c.last, c.since = now, now
	}
	dt = float32(now - c.last)
	c.last = now
	c.frames++
	if now-c.since >= 1 {
		fps = int(float64(c.frames) / (now - c.since))
		c.frames, c.since = 0, now
		return dt, fps, true
	}
	return dt, 0, false
}

// seedOrClock returns seed, or the current time when seed is 0.
func seedOrClock(seed uint64) uint64 {
	if seed == 0 {
		return uint64(time.Now().UnixNano())
	}
	return seed
}
