package models

import (
	"fmt"
	"path/filepath"

	"github.com/fogleman/fauxgl"
	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/render"
)

// LoadSTL loads an ASCII or binary STL file. STL carries no color, so every
// triangle is white. Stored facet normals are ignored; the renderer derives
// face normals from the winding.
func LoadSTL(path string) (*Mesh, error) {
	src, err := fauxgl.LoadSTL(path)
	if err != nil {
		return nil, fmt.Errorf("load stl: %w", err)
	}

	triangles := make([]render.Triangle, 0, len(src.Triangles))
	for _, t := range src.Triangles {
		triangles = append(triangles, render.Triangle{
			A:     stlVertex(t.V1),
			B:     stlVertex(t.V2),
			C:     stlVertex(t.V3),
			Color: render.ColorWhite,
		})
	}
	return NewMesh(filepath.Base(path), triangles), nil
}

func stlVertex(v fauxgl.Vertex) render.Vertex {
	return render.Vertex{Position: math3d.V3(v.Position.X, v.Position.Y, v.Position.Z)}
}
