package deferred

import _ "embed"

var (
	//go:embed shaders/geometry.vert
	geometryVert string
	//go:embed shaders/geometry.frag
	geometryFrag string

	//go:embed shaders/lighting.vert
	lightingVert string
	//go:embed shaders/lighting.frag
	lightingFrag string

	//go:embed shaders/marker.vert
	markerVert string
	//go:embed shaders/marker.frag
	markerFrag string
)
