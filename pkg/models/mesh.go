// Package models provides triangle meshes for softrast: loading them from
// OBJ, glTF binary and STL files, and drawing them through a render.Target.
package models

import (
	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/render"
)

// Mesh is a list of model-space triangles plus a model transform. The
// transform accumulates every Translate, Rotate and Scale call until
// ResetTransform.
type Mesh struct {
	Name string

	triangles []render.Triangle
	transform math3d.Transform

	// Bounding box in model space (calculated on load)
	boundsMin math3d.Vec3
	boundsMax math3d.Vec3
}

// NewMesh creates a mesh that owns triangles.
func NewMesh(name string, triangles []render.Triangle) *Mesh {
	m := &Mesh{
		Name:      name,
		triangles: triangles,
	}
	m.calculateBounds()
	return m
}

// calculateBounds computes the model-space axis-aligned bounding box.
func (m *Mesh) calculateBounds() {
	if len(m.triangles) == 0 {
		m.boundsMin, m.boundsMax = math3d.Zero3(), math3d.Zero3()
		return
	}

	m.boundsMin = m.triangles[0].A.Position
	m.boundsMax = m.triangles[0].A.Position

	for _, tri := range m.triangles {
		for _, v := range tri.Vertices() {
			m.boundsMin = m.boundsMin.Min(v.Position)
			m.boundsMax = m.boundsMax.Max(v.Position)
		}
	}
}

// Triangles returns the model-space triangles. The slice is shared with the
// mesh.
func (m *Mesh) Triangles() []render.Triangle {
	return m.triangles
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.triangles)
}

// Center returns the center of the model-space bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.boundsMin.Add(m.boundsMax).Scale(0.5)
}

// Size returns the dimensions of the model-space bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.boundsMax.Sub(m.boundsMin)
}

// Transform returns the current model transform.
func (m *Mesh) Transform() math3d.Transform {
	return m.transform
}

// SetTransform replaces the model transform.
func (m *Mesh) SetTransform(t math3d.Transform) {
	m.transform = t
}

// Translate appends a translation to the model transform.
func (m *Mesh) Translate(delta math3d.Vec3) {
	m.transform = m.transform.Translate(delta)
}

// Rotate appends a rotation to the model transform. The angles combine into
// one rotation vector, see math3d.EulerRotation.
func (m *Mesh) Rotate(x, y, z float64) {
	m.transform = m.transform.Rotate(x, y, z)
}

// Scale appends a uniform scale to the model transform.
func (m *Mesh) Scale(factor float64) {
	m.transform = m.transform.Scale(factor)
}

// ResetTransform restores the identity model transform.
func (m *Mesh) ResetTransform() {
	m.transform = math3d.IdentityTransform()
}

// Normalize bakes a recentering and uniform scale into the triangles so the
// mesh fits a 2-unit cube centered at the origin. The model transform is
// left alone.
func (m *Mesh) Normalize() {
	size := m.Size()
	extent := max(size.X, size.Y, size.Z)
	if extent == 0 {
		return
	}
	bake := math3d.ScaleUniform(2 / extent).Mul(math3d.Translate(m.Center().Negate()))
	for i := range m.triangles {
		m.triangles[i] = m.triangles[i].Transform(bake)
	}
	m.calculateBounds()
}

// Paint sets the flat color of every triangle to colorAt(i).
func (m *Mesh) Paint(colorAt func(i int) render.Color) {
	for i := range m.triangles {
		m.triangles[i].Color = colorAt(i)
	}
}

// Bounds returns the world-space bounding box under the model transform.
func (m *Mesh) Bounds() render.AABB {
	return render.NewAABB(m.boundsMin, m.boundsMax).Transform(m.transform.Matrix())
}

// Draw submits every triangle, transformed to world space.
func (m *Mesh) Draw(t render.Target) {
	mat := m.transform.Matrix()
	for _, tri := range m.triangles {
		t.Triangle(tri.Transform(mat))
	}
}

// DrawWireframe submits the edges a→b, b→c and c→a of every transformed
// triangle in its base color.
func (m *Mesh) DrawWireframe(t render.Target) {
	mat := m.transform.Matrix()
	for _, tri := range m.triangles {
		a := mat.MulVec3(tri.A.Position)
		b := mat.MulVec3(tri.B.Position)
		c := mat.MulVec3(tri.C.Position)
		col := tri.BaseColor()

		t.Line(a, b, col)
		t.Line(b, c, col)
		t.Line(c, a, col)
	}
}
