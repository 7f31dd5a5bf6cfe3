package scene

import (
	"fmt"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"glexercises/internal/logger"
)

// LoadGLTF opens a .glb or .gltf file and flattens its node hierarchy into a
// list of meshes, one per triangle primitive, with node transforms baked into
// the vertices. Base colour maps to Diffuse, the metallic-roughness texture to
// Specular and the normal texture to Normal.
func LoadGLTF(path string) ([]*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	dir := filepath.Dir(path)

	// ── 1. Images ────────────────────────────────────────────────────────────
	refs := make([]TextureRef, len(doc.Textures))
	for i, gt := range doc.Textures {
		if gt.Source == nil || *gt.Source >= len(doc.Images) {
			continue
		}
		src := *gt.Source
		img := doc.Images[src]

		switch {
		case img.BufferView != nil:
			if *img.BufferView >= len(doc.BufferViews) {
				logger.Log.Warn("gltf image buffer view out of range", zap.Int("image", src))
				continue
			}
			raw, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
			if err != nil {
				logger.Log.Warn("gltf image buffer view", zap.Int("image", src), zap.Error(err))
				continue
			}
			refs[i] = embeddedRef(path, src, raw)
		case img.IsEmbeddedResource():
			raw, err := img.MarshalData()
			if err != nil {
				logger.Log.Warn("gltf image data uri", zap.Int("image", src), zap.Error(err))
				continue
			}
			refs[i] = embeddedRef(path, src, raw)
		case img.URI != "":
			refs[i] = TextureRef{Path: filepath.Join(dir, filepath.FromSlash(img.URI))}
		}
	}
	texture := func(idx int) TextureRef {
		if idx >= 0 && idx < len(refs) {
			return refs[idx]
		}
		return TextureRef{}
	}

	// ── 2. Materials ─────────────────────────────────────────────────────────
	mats := make([]Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		mat := Material{Name: gm.Name}
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			if pbr.BaseColorTexture != nil {
				mat.Diffuse = texture(pbr.BaseColorTexture.Index)
			}
			if pbr.MetallicRoughnessTexture != nil {
				mat.Specular = texture(pbr.MetallicRoughnessTexture.Index)
			}
		}
		if gm.NormalTexture != nil && gm.NormalTexture.Index != nil {
			mat.Normal = texture(*gm.NormalTexture.Index)
		}
		mats[i] = mat
	}

	// ── 3. Nodes ─────────────────────────────────────────────────────────────
	type item struct {
		node   int
		parent mgl32.Mat4
	}
	var stack []item
	for _, root := range gltfRoots(doc) {
		stack = append(stack, item{root, mgl32.Ident4()})
	}

	var meshes []*Mesh
	visited := make([]bool, len(doc.Nodes))
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if it.node < 0 || it.node >= len(doc.Nodes) || visited[it.node] {
			continue
		}
		visited[it.node] = true

		gn := doc.Nodes[it.node]
		world := it.parent.Mul4(nodeMatrix(gn))

		if gn.Mesh != nil && *gn.Mesh < len(doc.Meshes) {
			gm := doc.Meshes[*gn.Mesh]
			for pi, prim := range gm.Primitives {
				if prim.Mode != gltf.PrimitiveTriangles {
					continue
				}
				m, err := loadGLTFPrimitive(doc, gm.Name, pi, prim)
				if err != nil {
					logger.Log.Warn("skipping gltf primitive",
						zap.String("mesh", gm.Name), zap.Int("primitive", pi), zap.Error(err))
					continue
				}
				m.transform(world)
				ComputeTangents(m)
				if prim.Material != nil && *prim.Material < len(mats) {
					m.Material = mats[*prim.Material]
				}
				meshes = append(meshes, m)
			}
		}
		// Reverse so children pop in document order.
		for i := len(gn.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{gn.Children[i], world})
		}
	}

	if len(meshes) == 0 {
		return nil, fmt.Errorf("no geometry found in %q", path)
	}
	return meshes, nil
}

// gltfRoots returns the default scene's root nodes, or every parentless node
// when the document names no scene.
func gltfRoots(doc *gltf.Document) []int {
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	hasParent := make([]bool, len(doc.Nodes))
	for _, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// nodeMatrix is the node's local transform: its matrix when one is given,
// otherwise translation * rotation * scale.
func nodeMatrix(gn *gltf.Node) mgl32.Mat4 {
	var m mgl32.Mat4
	for i, v := range gn.MatrixOrDefault() {
		m[i] = float32(v)
	}
	if m != mgl32.Ident4() {
		return m
	}
	t := gn.TranslationOrDefault()
	r := gn.RotationOrDefault() // x, y, z, w
	s := gn.ScaleOrDefault()
	q := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	return mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2])).
		Mul4(q.Mat4()).
		Mul4(mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2])))
}

// transform moves positions by world and normals by its inverse transpose.
func (m *Mesh) transform(world mgl32.Mat4) {
	if world == mgl32.Ident4() {
		return
	}
	normal := world.Mat3().Inv().Transpose()
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Position = world.Mul4x1(v.Position.Vec4(1)).Vec3()
		if n := normal.Mul3x1(v.Normal); n.LenSqr() > 0 {
			v.Normal = n.Normalize()
		}
	}
}

// loadGLTFPrimitive converts one glTF mesh primitive into a Mesh.
func loadGLTFPrimitive(doc *gltf.Document, meshName string, primIdx int, prim *gltf.Primitive) (*Mesh, error) {
	name := fmt.Sprintf("%s_p%d", meshName, primIdx)
	if meshName == "" {
		name = fmt.Sprintf("prim_%d", primIdx)
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	posAcc, err := accessor(doc, posIdx)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	positions, err := modeler.ReadPosition(doc, posAcc, nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if acc, err := accessor(doc, idx); err == nil {
			normals, _ = modeler.ReadNormal(doc, acc, nil)
		}
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if acc, err := accessor(doc, idx); err == nil {
			uvs, _ = modeler.ReadTextureCoord(doc, acc, nil)
		}
	}

	m := &Mesh{Name: name, Vertices: make([]Vertex, len(positions))}
	for i, p := range positions {
		v := Vertex{Position: p}
		if i < len(normals) {
			v.Normal = normals[i]
		}
		if i < len(uvs) {
			v.UV = uvs[i]
		}
		m.Vertices[i] = v
	}

	if prim.Indices != nil {
		acc, err := accessor(doc, *prim.Indices)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
		m.Indices, err = modeler.ReadIndices(doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
		for _, idx := range m.Indices {
			if int(idx) >= len(positions) {
				return nil, fmt.Errorf("index %d out of range for %d vertices", idx, len(positions))
			}
		}
	}
	if len(normals) < len(positions) {
		generateNormals(m)
	}
	return m, nil
}

func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	return doc.Accessors[idx], nil
}
