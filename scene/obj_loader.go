package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"glexercises/internal/logger"
)

// objFace is an already-triangulated face (three vertex references).
type objFace struct {
	vIdx, vtIdx, vnIdx [3]int // 0-based position / UV / normal indices (-1 = absent)
}

type objGroup struct {
	name    string
	matName string
	faces   []objFace
}

// LoadOBJ parses a Wavefront .obj file and returns one Mesh per object or
// group. Polygons are fan-triangulated, V is flipped, missing normals are
// generated and tangents are computed. Texture paths from a referenced .mtl
// are resolved against the .obj's directory.
func LoadOBJ(path string) ([]*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	dir := filepath.Dir(path)

	var positions []mgl32.Vec3
	var normals []mgl32.Vec3
	var uvs []mgl32.Vec2
	materials := map[string]Material{}

	var groups []objGroup
	cur := &objGroup{name: "default"}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				continue
			}
			positions = append(positions, parseVec3(fields[1:4]))

		case "vn":
			if len(fields) < 4 {
				continue
			}
			normals = append(normals, parseVec3(fields[1:4]))

		case "vt":
			if len(fields) < 3 {
				continue
			}
			u, _ := strconv.ParseFloat(fields[1], 32)
			v, _ := strconv.ParseFloat(fields[2], 32)
			uvs = append(uvs, mgl32.Vec2{float32(u), float32(v)})

		case "o", "g":
			if len(cur.faces) > 0 {
				groups = append(groups, *cur)
			}
			name := "default"
			if len(fields) > 1 {
				name = fields[1]
			}
			cur = &objGroup{name: name, matName: cur.matName}

		case "usemtl":
			if len(fields) > 1 {
				// A material switch inside a group starts a new mesh so
				// each mesh has exactly one material.
				if len(cur.faces) > 0 && cur.matName != fields[1] {
					groups = append(groups, *cur)
					cur = &objGroup{name: cur.name}
				}
				cur.matName = fields[1]
			}

		case "mtllib":
			if len(fields) > 1 {
				loaded, err := loadMTL(filepath.Join(dir, fields[1]), dir)
				if err != nil {
					logger.Log.Warn("skipping material library", zap.String("path", fields[1]), zap.Error(err))
					continue
				}
				for k, v := range loaded {
					materials[k] = v
				}
			}

		case "f":
			if len(fields) < 4 {
				continue
			}
			corners := make([]faceVertex, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				corners = append(corners, parseFaceVertex(tok, len(positions), len(uvs), len(normals)))
			}
			// Polygons become a triangle fan around the first corner.
			for i := 1; i+1 < len(corners); i++ {
				f0, f1, f2 := corners[0], corners[i], corners[i+1]
				cur.faces = append(cur.faces, objFace{
					vIdx:  [3]int{f0.v, f1.v, f2.v},
					vtIdx: [3]int{f0.vt, f1.vt, f2.vt},
					vnIdx: [3]int{f0.vn, f1.vn, f2.vn},
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan obj: %w", err)
	}

	if len(cur.faces) > 0 {
		groups = append(groups, *cur)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("no geometry found in %q", path)
	}

	meshes := make([]*Mesh, 0, len(groups))
	for _, obj := range groups {
		mesh := objMesh(obj.name, obj.faces, positions, normals, uvs)
		if mat, ok := materials[obj.matName]; ok {
			mesh.Material = mat
		} else {
			mesh.Material = Material{Name: obj.matName}
		}
		mesh.FlipV()
		ComputeTangents(mesh)
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

func parseVec3(f []string) mgl32.Vec3 {
	x, _ := strconv.ParseFloat(f[0], 32)
	y, _ := strconv.ParseFloat(f[1], 32)
	z, _ := strconv.ParseFloat(f[2], 32)
	return mgl32.Vec3{float32(x), float32(y), float32(z)}
}

type faceVertex struct{ v, vt, vn int }

// parseFaceVertex parses one face vertex token: "v", "v/vt", "v//vn" or
// "v/vt/vn". OBJ indices are 1-based; negative indices count back from the
// number of elements read so far. Absent components are -1.
func parseFaceVertex(tok string, nv, nvt, nvn int) faceVertex {
	parseIdx := func(s string, n int) int {
		if s == "" {
			return -1
		}
		i, err := strconv.Atoi(s)
		switch {
		case err != nil:
			return -1
		case i > 0:
			return i - 1
		case i < 0:
			return n + i
		}
		return -1
	}
	parts := strings.Split(tok, "/")
	res := faceVertex{v: -1, vt: -1, vn: -1}
	if len(parts) > 0 {
		res.v = parseIdx(parts[0], nv)
	}
	if len(parts) > 1 {
		res.vt = parseIdx(parts[1], nvt)
	}
	if len(parts) > 2 {
		res.vn = parseIdx(parts[2], nvn)
	}
	return res
}

// objMesh builds a group's mesh, sharing one vertex per distinct
// position/uv/normal triple.
func objMesh(name string, faces []objFace, positions, normals []mgl32.Vec3, uvs []mgl32.Vec2) *Mesh {
	type key struct{ v, vt, vn int }
	seen := map[key]uint32{}
	m := &Mesh{Name: name}

	at := func(s []mgl32.Vec3, i int, def mgl32.Vec3) mgl32.Vec3 {
		if i >= 0 && i < len(s) {
			return s[i]
		}
		return def
	}
	missingNormals := false

	for _, face := range faces {
		for c := 0; c < 3; c++ {
			k := key{face.vIdx[c], face.vtIdx[c], face.vnIdx[c]}
			if idx, ok := seen[k]; ok {
				m.Indices = append(m.Indices, idx)
				continue
			}
			v := Vertex{
				Position: at(positions, k.v, mgl32.Vec3{}),
				Normal:   at(normals, k.vn, mgl32.Vec3{}),
			}
			if k.vn < 0 || k.vn >= len(normals) {
				missingNormals = true
			}
			if k.vt >= 0 && k.vt < len(uvs) {
				v.UV = uvs[k.vt]
			}
			idx := uint32(len(m.Vertices))
			m.Vertices = append(m.Vertices, v)
			seen[k] = idx
			m.Indices = append(m.Indices, idx)
		}
	}

	if missingNormals {
		generateNormals(m)
	}
	return m
}

// generateNormals writes area-weighted smooth normals into vertices that
// have none.
func generateNormals(m *Mesh) {
	accum := make([]mgl32.Vec3, len(m.Vertices))
	for tri := 0; tri < m.TriangleCount(); tri++ {
		i0, i1, i2 := m.Triangle(tri)
		p0 := m.Vertices[i0].Position
		n := m.Vertices[i1].Position.Sub(p0).Cross(m.Vertices[i2].Position.Sub(p0))
		accum[i0] = accum[i0].Add(n)
		accum[i1] = accum[i1].Add(n)
		accum[i2] = accum[i2].Add(n)
	}
	for i := range m.Vertices {
		if m.Vertices[i].Normal.LenSqr() > 0 {
			continue
		}
		if accum[i].LenSqr() > 0 {
			m.Vertices[i].Normal = accum[i].Normalize()
		} else {
			m.Vertices[i].Normal = WorldUp
		}
	}
}

// ── MTL loader ───────────────────────────────────────────────────────────────

func loadMTL(path, dir string) (map[string]Material, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mats := map[string]Material{}
	var cur *Material
	flush := func() {
		if cur != nil {
			mats[cur.Name] = *cur
		}
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		// Texture statements may carry options; the file name is last.
		file := TextureRef{Path: filepath.Join(dir, filepath.FromSlash(fields[len(fields)-1]))}

		switch fields[0] {
		case "newmtl":
			flush()
			cur = &Material{Name: fields[1]}
		case "map_Kd":
			if cur != nil {
				cur.Diffuse = file
			}
		case "map_Ks":
			if cur != nil {
				cur.Specular = file
			}
		case "map_Bump", "map_bump", "bump", "norm", "map_Kn":
			if cur != nil {
				cur.Normal = file
			}
		}
	}
	flush()
	return mats, scanner.Err()
}
