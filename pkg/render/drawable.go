package render

import "github.com/taigrr/softrast/pkg/math3d"

// Target receives geometry from a Drawable during one draw call. Positions
// are in world space; the target owns projection and rasterization.
type Target interface {
	Triangle(tri Triangle)
	Line(a, b math3d.Vec3, c Color)
}

// Drawable is anything the renderer can draw either filled or as wireframe.
// Which method is called is decided by the renderer's configuration.
type Drawable interface {
	Draw(t Target)
	DrawWireframe(t Target)
}

// Bounded is implemented by drawables that can report world-space bounds.
// The renderer skips a Bounded drawable whose bounds miss the view frustum.
type Bounded interface {
	Bounds() AABB
}

// View is the transform context for a single draw call: a snapshot of the
// camera state the rasterizer needs. It is passed explicitly rather than
// read from the renderer, so nothing pushed or mutated during a draw can
// change how that draw is projected.
type View struct {
	ViewProj math3d.Mat4 // World to clip space
	Position math3d.Vec3 // Camera position in world space
	Near     float64     // Clip w below this is discarded
}

// ViewOf snapshots the camera.
func ViewOf(c *Camera) View {
	return View{
		ViewProj: c.ViewProjectionMatrix(),
		Position: c.Position(),
		Near:     c.Near(),
	}
}

// pass binds a renderer to the view of one draw call.
type pass struct {
	r    *Renderer
	view View
}

func (p pass) Triangle(tri Triangle) {
	p.r.rasterize(p.view, tri)
}

func (p pass) Line(a, b math3d.Vec3, c Color) {
	p.r.line3D(p.view, a, b, c)
}
