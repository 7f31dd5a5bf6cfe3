package scene

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"glexercises/internal/logger"
)

// ErrUnsupportedFormat is returned by Load for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported model format")

// Load reads a model file, choosing the parser from its extension.
func Load(path string) ([]*Mesh, error) {
	var (
		meshes []*Mesh
		err    error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		meshes, err = LoadOBJ(path)
	case ".gltf", ".glb":
		meshes, err = LoadGLTF(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	var verts, tris int
	for _, m := range meshes {
		verts += len(m.Vertices)
		tris += m.TriangleCount()
	}
	logger.Log.Info("loaded model",
		zap.String("path", path),
		zap.Int("meshes", len(meshes)),
		zap.Int("vertices", verts),
		zap.Int("triangles", tris),
	)
	return meshes, nil
}
