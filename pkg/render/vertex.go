package render

import "github.com/taigrr/softrast/pkg/math3d"

// Vertex represents a vertex with all attributes needed for rasterization.
// Only Position is required; the Has* flags mark which optional attributes
// are present.
type Vertex struct {
	Position math3d.Vec3 // World (or model) position
	Normal   math3d.Vec3 // Normal vector
	UV       math3d.Vec2 // Texture coordinates
	Color    Color       // Vertex color

	HasNormal bool
	HasUV     bool
	HasColor  bool
}

// V creates a vertex with only a position.
func V(x, y, z float64) Vertex {
	return Vertex{Position: math3d.V3(x, y, z)}
}

// Transform returns the vertex with its position transformed by m and its
// normal (if any) by the linear part of m. Absent attributes stay absent.
func (v Vertex) Transform(m math3d.Mat4) Vertex {
	out := v
	out.Position = m.MulVec3(v.Position)
	if v.HasNormal {
		out.Normal = m.MulVec3Dir(v.Normal).Normalize()
	}
	return out
}

// Triangle represents a triangle to be rasterized: three vertices and the
// flat shading color.
type Triangle struct {
	A, B, C Vertex
	Color   Color
}

// Vertices returns the three vertices in winding order.
func (t Triangle) Vertices() [3]Vertex {
	return [3]Vertex{t.A, t.B, t.C}
}

// Transform returns the triangle with every vertex transformed by m.
func (t Triangle) Transform(m math3d.Mat4) Triangle {
	return Triangle{
		A:     t.A.Transform(m),
		B:     t.B.Transform(m),
		C:     t.C.Transform(m),
		Color: t.Color,
	}
}

// Normal returns the unit face normal (C−A)×(B−A). The winding a→b→c decides
// its sign, which both backface culling and lighting depend on. A degenerate
// triangle returns the zero vector.
func (t Triangle) Normal() math3d.Vec3 {
	return t.C.Position.Sub(t.A.Position).
		Cross(t.B.Position.Sub(t.A.Position)).
		Normalize()
}

// BaseColor returns the mean of the vertex colors, where each vertex without
// a color contributes the triangle color.
func (t Triangle) BaseColor() Color {
	if !t.A.HasColor && !t.B.HasColor && !t.C.HasColor {
		return t.Color
	}
	var r, g, b, a int
	for _, v := range t.Vertices() {
		c := t.Color
		if v.HasColor {
			c = v.Color
		}
		r += int(c.R)
		g += int(c.G)
		b += int(c.B)
		a += int(c.A)
	}
	return Color{R: uint8(r / 3), G: uint8(g / 3), B: uint8(b / 3), A: uint8(a / 3)}
}
