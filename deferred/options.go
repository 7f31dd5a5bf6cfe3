package deferred

import (
	"fmt"

	"glexercises/gbuffer"
	"glexercises/lights"
)

// Component selects what the geometry pass writes into the first color
// attachment. Only ComponentPosition produces a lit image; the others exist
// to inspect the G-buffer with a color blit.
type Component int32

const (
	ComponentPosition Component = iota
	ComponentNormal
	ComponentDiffuse
	ComponentSpecular
)

var componentNames = map[string]Component{
	"position": ComponentPosition,
	"normal":   ComponentNormal,
	"diffuse":  ComponentDiffuse,
	"specular": ComponentSpecular,
}

// ParseComponent maps a component name to a Component. The empty string is
// ComponentPosition.
func ParseComponent(s string) (Component, error) {
	if s == "" {
		return ComponentPosition, nil
	}
	c, ok := componentNames[s]
	if !ok {
		return 0, fmt.Errorf("deferred: unknown debug component %q", s)
	}
	return c, nil
}

func (c Component) String() string {
	for name, v := range componentNames {
		if v == c {
			return name
		}
	}
	return fmt.Sprintf("Component(%d)", int32(c))
}

// Options tunes the pipeline. The zero value renders diffuse-only lighting
// with DefaultAttenuation and no blit.
type Options struct {
	Attenuation lights.Attenuation
	// Specular adds the Phong highlight term the lighting shader computes.
	Specular bool
	Debug    Component
	// Blit copies a G-buffer source to the screen after lighting. With
	// gbuffer.SourceDepth the light markers are drawn on top.
	Blit gbuffer.Source
	// Cull skips instances whose Drawable reports Bounds outside the view
	// frustum.
	Cull bool
}

func (o Options) withDefaults() Options {
	if o.Attenuation == (lights.Attenuation{}) {
		o.Attenuation = lights.DefaultAttenuation
	}
	return o
}
