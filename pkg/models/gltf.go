package models

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/render"
)

// LoadGLB loads a glTF file (binary .glb or .gltf with its buffers).
// Every triangle primitive of every mesh is merged into one Mesh. A
// primitive's material base color becomes its triangles' flat color;
// COLOR_0 becomes the vertex colors.
func LoadGLB(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	var triangles []render.Triangle
	for _, m := range doc.Meshes {
		tris, err := processMesh(doc, m)
		if err != nil {
			return nil, fmt.Errorf("%w: process mesh %q: %v", ErrMalformed, m.Name, err)
		}
		triangles = append(triangles, tris...)
	}

	return NewMesh(filepath.Base(path), triangles), nil
}

// processMesh extracts the triangles of a glTF mesh.
func processMesh(doc *gltf.Document, m *gltf.Mesh) ([]render.Triangle, error) {
	var triangles []render.Triangle

	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		// Get position accessor
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return nil, fmt.Errorf("read positions: %w", err)
		}

		// Get normals if available
		var normals []math3d.Vec3
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = readVec3Accessor(doc, normIdx)
			if err != nil {
				return nil, fmt.Errorf("read normals: %w", err)
			}
		}

		// Get UVs if available
		var uvs []math3d.Vec2
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = readVec2Accessor(doc, uvIdx)
			if err != nil {
				return nil, fmt.Errorf("read uvs: %w", err)
			}
		}

		var colors []render.Color
		if colIdx, ok := prim.Attributes[gltf.COLOR_0]; ok {
			colors, err = readColorAccessor(doc, colIdx)
			if err != nil {
				return nil, fmt.Errorf("read colors: %w", err)
			}
		}

		vertex := func(i int) (render.Vertex, error) {
			if i < 0 || i >= len(positions) {
				return render.Vertex{}, fmt.Errorf("index %d out of range (%d vertices)", i, len(positions))
			}
			v := render.Vertex{Position: positions[i]}
			if i < len(normals) {
				v.Normal = normals[i]
				v.HasNormal = true
			}
			if i < len(uvs) {
				v.UV = uvs[i]
				v.HasUV = true
			}
			if i < len(colors) {
				v.Color = colors[i]
				v.HasColor = true
			}
			return v, nil
		}

		indices := make([]int, 0, len(positions))
		if prim.Indices != nil {
			indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return nil, fmt.Errorf("read indices: %w", err)
			}
		} else {
			// No indices, assume sequential triangles
			for i := range positions {
				indices = append(indices, i)
			}
		}

		base := materialColor(doc, prim.Material)
		for i := 0; i+2 < len(indices); i += 3 {
			var verts [3]render.Vertex
			for j := range 3 {
				v, err := vertex(indices[i+j])
				if err != nil {
					return nil, err
				}
				verts[j] = v
			}
			triangles = append(triangles, render.Triangle{A: verts[0], B: verts[1], C: verts[2], Color: base})
		}
	}

	return triangles, nil
}

// materialColor returns the base color factor of a material, or white.
func materialColor(doc *gltf.Document, idx *int) render.Color {
	if idx == nil || *idx < 0 || *idx >= len(doc.Materials) {
		return render.ColorWhite
	}
	pbr := doc.Materials[*idx].PBRMetallicRoughness
	if pbr == nil || pbr.BaseColorFactor == nil {
		return render.ColorWhite
	}
	f := pbr.BaseColorFactor
	return render.RGBA(unitToByte(f[0]), unitToByte(f[1]), unitToByte(f[2]), unitToByte(f[3]))
}

// readVec3Accessor reads positions or normals.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor, err := accessorAt(doc, accessorIdx)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadPosition(doc, accessor, nil)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec3, len(data))
	for i, v := range data {
		result[i] = math3d.V3(float64(v[0]), float64(v[1]), float64(v[2]))
	}
	return result, nil
}

// readVec2Accessor reads texture coordinates; normalized integer components
// are mapped to [0, 1].
func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec2, error) {
	accessor, err := accessorAt(doc, accessorIdx)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadTextureCoord(doc, accessor, nil)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec2, len(data))
	for i, v := range data {
		result[i] = math3d.V2(float64(v[0]), float64(v[1]))
	}
	return result, nil
}

// readColorAccessor reads VEC3 or VEC4 vertex colors of any component type.
// VEC3 colors are opaque.
func readColorAccessor(doc *gltf.Document, accessorIdx int) ([]render.Color, error) {
	accessor, err := accessorAt(doc, accessorIdx)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadColor(doc, accessor, nil)
	if err != nil {
		return nil, err
	}

	result := make([]render.Color, len(data))
	for i, c := range data {
		result[i] = render.RGBA(c[0], c[1], c[2], c[3])
	}
	return result, nil
}

// readIndices reads index data from a glTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor, err := accessorAt(doc, accessorIdx)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadIndices(doc, accessor, nil)
	if err != nil {
		return nil, err
	}

	result := make([]int, len(data))
	for i, idx := range data {
		result[i] = int(idx)
	}
	return result, nil
}

func accessorAt(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	return doc.Accessors[idx], nil
}
