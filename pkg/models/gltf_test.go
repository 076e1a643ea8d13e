package models

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/render"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

// writeTestGLB writes a mesh with an indexed red triangle and two
// non-indexed uncolored triangles.
func writeTestGLB(t *testing.T) string {
	t.Helper()
	doc := gltf.NewDocument()

	indexedPos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	indices := modeler.WriteIndices(doc, []uint16{0, 2, 1})
	plainPos := modeler.WritePosition(doc, [][3]float32{
		{0, 0, 1}, {1, 0, 1}, {0, 1, 1},
		{0, 0, 2}, {1, 0, 2}, {0, 1, 2},
	})

	doc.Materials = []*gltf.Material{{
		Name: "red",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{1, 0, 0, 1},
		},
	}}
	doc.Meshes = []*gltf.Mesh{{
		Name: "test",
		Primitives: []*gltf.Primitive{
			{
				Attributes: map[string]int{gltf.POSITION: indexedPos},
				Indices:    gltf.Index(indices),
				Material:   gltf.Index(0),
			},
			{
				Attributes: map[string]int{gltf.POSITION: plainPos},
			},
		},
	}}
	doc.Nodes = []*gltf.Node{{Name: "root", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	path := filepath.Join(t.TempDir(), "test.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary() error: %v", err)
	}
	return path
}

func TestLoadGLB(t *testing.T) {
	m, err := LoadGLB(writeTestGLB(t))
	if err != nil {
		t.Fatalf("LoadGLB() error: %v", err)
	}
	if m.Name != "test.glb" {
		t.Errorf("Name = %q", m.Name)
	}
	if m.TriangleCount() != 3 {
		t.Fatalf("TriangleCount() = %d, want 3", m.TriangleCount())
	}

	tris := m.Triangles()
	first := tris[0]
	if first.A.Position != math3d.V3(0, 0, 0) || first.B.Position != math3d.V3(0, 1, 0) || first.C.Position != math3d.V3(1, 0, 0) {
		t.Errorf("indexed triangle = %v %v %v", first.A.Position, first.B.Position, first.C.Position)
	}
	if first.Color != render.ColorRed {
		t.Errorf("material color = %v, want red", first.Color)
	}

	for i, tri := range tris[1:] {
		z := float64(i + 1)
		if tri.A.Position.Z != z || tri.C.Position != math3d.V3(0, 1, z) {
			t.Errorf("sequential triangle %d = %v %v %v", i, tri.A.Position, tri.B.Position, tri.C.Position)
		}
		if tri.Color != render.ColorWhite {
			t.Errorf("sequential triangle %d color = %v, want white", i, tri.Color)
		}
	}
}

func TestLoadGLBBadIndex(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	indices := modeler.WriteIndices(doc, []uint16{0, 1, 7})
	doc.Meshes = []*gltf.Mesh{{
		Name: "broken",
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]int{gltf.POSITION: pos},
			Indices:    gltf.Index(indices),
		}},
	}}

	path := filepath.Join(t.TempDir(), "broken.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadGLB(path); !errors.Is(err, ErrMalformed) {
		t.Errorf("LoadGLB() error = %v, want ErrMalformed", err)
	}
}

func TestLoadGLBNormalizedAttributes(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	colors := modeler.WriteColor(doc, [][4]uint8{{255, 0, 0, 255}, {0, 255, 0, 128}, {0, 0, 255, 0}})
	uvs := modeler.WriteTextureCoord(doc, [][2]uint8{{0, 0}, {255, 0}, {0, 255}})
	doc.Meshes = []*gltf.Mesh{{
		Name: "c",
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]int{
				gltf.POSITION:   pos,
				gltf.COLOR_0:    colors,
				gltf.TEXCOORD_0: uvs,
			},
		}},
	}}

	path := filepath.Join(t.TempDir(), "colors.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatal(err)
	}

	m, err := LoadGLB(path)
	if err != nil {
		t.Fatalf("LoadGLB() error: %v", err)
	}
	if m.TriangleCount() != 1 {
		t.Fatalf("TriangleCount() = %d, want 1", m.TriangleCount())
	}

	tri := m.Triangles()[0]
	wantColors := []render.Color{render.RGBA(255, 0, 0, 255), render.RGBA(0, 255, 0, 128), render.RGBA(0, 0, 255, 0)}
	wantUVs := []math3d.Vec2{math3d.V2(0, 0), math3d.V2(1, 0), math3d.V2(0, 1)}
	for i, v := range tri.Vertices() {
		if !v.HasColor || v.Color != wantColors[i] {
			t.Errorf("vertex %d color = %v (has %v), want %v", i, v.Color, v.HasColor, wantColors[i])
		}
		if !v.HasUV || v.UV != wantUVs[i] {
			t.Errorf("vertex %d uv = %v (has %v), want %v", i, v.UV, v.HasUV, wantUVs[i])
		}
	}
}
