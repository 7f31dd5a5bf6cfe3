// Package config loads the YAML settings shared by the exercise commands.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"glexercises/deferred"
	"glexercises/gbuffer"
	"glexercises/lights"
)

type Config struct {
	Window  Window  `yaml:"window"`
	Camera  Camera  `yaml:"camera"`
	Lights  Lights  `yaml:"lights"`
	GBuffer GBuffer `yaml:"gbuffer"`
	Model   Model   `yaml:"model"`
	Log     Log     `yaml:"log"`
}

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

type Camera struct {
	Position    mgl32.Vec3 `yaml:"position"`
	FOV         float32    `yaml:"fov"`
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	Speed       float32    `yaml:"speed"`
	Sensitivity float32    `yaml:"sensitivity"`
	FPS         bool       `yaml:"fps"`
}

type Lights struct {
	Count int `yaml:"count"`
	// Seed 0 seeds from the clock.
	Seed        uint64             `yaml:"seed"`
	Attenuation lights.Attenuation `yaml:"attenuation"`
	Specular    bool               `yaml:"specular"`
}

type GBuffer struct {
	// Blit is none, depth, position, normal or color.
	Blit string `yaml:"blit"`
	// Debug is the component written to the first attachment: position,
	// normal, diffuse or specular.
	Debug string `yaml:"debug"`
}

type Model struct {
	Path string `yaml:"path"`
	// Grid draws a 3x3 grid of the model instead of a single copy.
	Grid    bool    `yaml:"grid"`
	Spacing float32 `yaml:"spacing"`
	Height  float32 `yaml:"height"`
	// Cull skips instances outside the view frustum.
	Cull bool `yaml:"cull"`
}

type Log struct {
	Level string `yaml:"level"`
	Dev   bool   `yaml:"dev"`
}

// Default returns the settings of the deferred shading exercise.
func Default() *Config {
	return &Config{
		Window: Window{Width: 1600, Height: 900, Title: "glexercises", VSync: true},
		Camera: Camera{
			Position:    mgl32.Vec3{0, 0, 3},
			FOV:         45,
			Near:        0.1,
			Far:         100,
			Speed:       2.5,
			Sensitivity: 0.01,
		},
		Lights: Lights{
			Count:       lights.MaxLights,
			Attenuation: lights.DefaultAttenuation,
		},
		GBuffer: GBuffer{Blit: "none", Debug: "position"},
		Model: Model{
			Path:    "data/models/backpack/backpack.obj",
			Grid:    true,
			Spacing: 3,
			Height:  -0.5,
		},
		Log: Log{Level: "info"},
	}
}

// Load reads path over Default and validates the result. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Lights.Count < 0 || c.Lights.Count > lights.MaxLights {
		errs = append(errs, fmt.Errorf("light count %d outside [0, %d]", c.Lights.Count, lights.MaxLights))
	}
	if a := c.Lights.Attenuation; a.Constant <= 0 || a.Linear < 0 || a.Quadratic < 0 {
		errs = append(errs, fmt.Errorf("light attenuation %+v needs a positive constant and non-negative terms", a))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera fov %v outside (0, 180)", c.Camera.FOV))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera clip planes near=%v far=%v", c.Camera.Near, c.Camera.Far))
	}
	if _, err := gbuffer.ParseSource(c.GBuffer.Blit); err != nil {
		errs = append(errs, err)
	}
	if _, err := deferred.ParseComponent(c.GBuffer.Debug); err != nil {
		errs = append(errs, err)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Pipeline converts the lighting and G-buffer settings into pipeline
// options. Call it on a validated config.
func (c *Config) Pipeline() (deferred.Options, error) {
	blit, err := gbuffer.ParseSource(c.GBuffer.Blit)
	if err != nil {
		return deferred.Options{}, err
	}
	debug, err := deferred.ParseComponent(c.GBuffer.Debug)
	if err != nil {
		return deferred.Options{}, err
	}
	return deferred.Options{
		Attenuation: c.Lights.Attenuation,
		Specular:    c.Lights.Specular,
		Debug:       debug,
		Blit:        blit,
		Cull:        c.Model.Cull,
	}, nil
}

// Positions returns where the model instances are placed: a 3x3 grid on
// the x/z plane, or the origin alone.
func (m Model) Positions() []mgl32.Vec3 {
	if !m.Grid {
		return []mgl32.Vec3{{0, m.Height, 0}}
	}
	out := make([]mgl32.Vec3, 0, 9)
	for _, z := range []float32{-1, 0, 1} {
		for _, x := range []float32{-1, 0, 1} {
			out = append(out, mgl32.Vec3{x * m.Spacing, m.Height, z * m.Spacing})
		}
	}
	return out
}
