package render

import "github.com/taigrr/softrast/pkg/math3d"

// Axes draws the world coordinate axes at the origin: X red, Y green, Z blue.
// It renders as lines in both filled and wireframe mode.
type Axes struct {
	Length float64
}

// Draw draws the axes.
func (a Axes) Draw(t Target) {
	a.DrawWireframe(t)
}

// DrawWireframe draws the axes.
func (a Axes) DrawWireframe(t Target) {
	origin := math3d.Zero3()
	t.Line(origin, math3d.V3(a.Length, 0, 0), ColorRed)   // X axis
	t.Line(origin, math3d.V3(0, a.Length, 0), ColorGreen) // Y axis
	t.Line(origin, math3d.V3(0, 0, a.Length), ColorBlue)  // Z axis
}
