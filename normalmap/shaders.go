package normalmap

import _ "embed"

var (
	//go:embed shaders/lit.vert
	litVert string
	//go:embed shaders/lit.frag
	litFrag string
	//go:embed shaders/marker.vert
	markerVert string
	//go:embed shaders/marker.frag
	markerFrag string
)
