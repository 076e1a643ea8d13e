package render

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/taigrr/softrast/pkg/math3d"
)

// ErrInvalidSize is returned for a framebuffer with a non-positive dimension.
var ErrInvalidSize = errors.New("invalid framebuffer size")

// farDepth is the cleared depth value. Nearer surfaces store larger depths,
// so every finite depth beats it.
var farDepth = float32(math.Inf(-1))

// Stats counts what happened to submitted geometry. Useful for debugging and
// benchmarking; reset with ResetStats.
type Stats struct {
	Triangles       int // Triangles submitted
	BackfaceCulled  int // Facing away from the camera
	NearDiscarded   int // A vertex behind the near plane
	Degenerate      int // Zero normal or empty screen bounding box
	Rasterized      int // Reached the per-pixel loop
	PixelsWritten   int // Passed the depth test
	Lines           int // Lines drawn
	DrawablesCulled int // Bounded drawables outside the frustum
}

// Renderer owns the color buffer, the depth buffer and the camera.
// It is not safe for concurrent use.
type Renderer struct {
	cfg    Config
	fb     *Framebuffer
	depth  []float32 // Row-major, same layout as fb
	camera *Camera
	light  math3d.Vec3 // Normalized cfg.LightDirection
	stats  Stats
}

// New creates a renderer with a width×height framebuffer. The camera is built
// from the config's field of view and clip planes and the framebuffer aspect
// ratio. Both buffers start cleared.
func New(width, height int, cfg Config) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	camera, err := NewCamera(float64(width)/float64(height), cfg.FieldOfView, cfg.ZNear, cfg.ZFar)
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		cfg:    cfg,
		fb:     NewFramebuffer(width, height),
		depth:  make([]float32, width*height),
		camera: camera,
		light:  cfg.LightDirection.Normalize(),
	}
	r.Clear()
	return r, nil
}

// Resize reallocates both buffers and updates the camera aspect ratio.
func (r *Renderer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if err := r.camera.SetAspectRatio(float64(width) / float64(height)); err != nil {
		return err
	}
	r.fb = NewFramebuffer(width, height)
	r.depth = make([]float32, width*height)
	r.Clear()
	return nil
}

// Width returns the framebuffer width.
func (r *Renderer) Width() int { return r.fb.Width }

// Height returns the framebuffer height.
func (r *Renderer) Height() int { return r.fb.Height }

// Camera returns the renderer's camera. Configure it before drawing.
func (r *Renderer) Camera() *Camera { return r.camera }

// Config returns the active configuration.
func (r *Renderer) Config() Config { return r.cfg }

// SetWireframe switches every following Draw between filled and wireframe.
func (r *Renderer) SetWireframe(on bool) { r.cfg.Wireframe = on }

// Stats returns the counters accumulated since the last ResetStats.
func (r *Renderer) Stats() Stats { return r.stats }

// ResetStats zeroes the counters (call once per frame).
func (r *Renderer) ResetStats() { r.stats = Stats{} }

// Clear fills the color buffer with the clear color and resets the depth
// buffer to the far sentinel.
func (r *Renderer) Clear() {
	r.fb.Clear(r.cfg.ClearColour)

	// Use copy-doubling for faster clearing
	n := len(r.depth)
	if n == 0 {
		return
	}
	r.depth[0] = farDepth
	for i := 1; i < n; i *= 2 {
		copy(r.depth[i:], r.depth[:i])
	}
}

// Draw draws d with the renderer's camera.
func (r *Renderer) Draw(d Drawable) {
	r.DrawFrom(r.camera, d)
}

// DrawFrom draws d as seen from cam. The renderer's wireframe setting picks
// d.Draw or d.DrawWireframe; individual draws cannot override it.
func (r *Renderer) DrawFrom(cam *Camera, d Drawable) {
	view := ViewOf(cam)

	if b, ok := d.(Bounded); ok {
		if !boundsVisible(NewFrustumFromMatrix(view.ViewProj), b.Bounds()) {
			r.stats.DrawablesCulled++
			return
		}
	}

	t := pass{r: r, view: view}
	if r.cfg.Wireframe {
		d.DrawWireframe(t)
	} else {
		d.Draw(t)
	}
}

// boundsVisible reports whether any part of box may lie inside f. The
// bounding sphere rejects distant boxes before the per-plane corner test.
func boundsVisible(f Frustum, box AABB) bool {
	if !f.IntersectsSphere(box.Center(), box.HalfSize().Len()) {
		return false
	}
	return f.IntersectAABB(box)
}

// DrawTriangle rasterizes a single world-space triangle with the renderer's
// camera, regardless of the wireframe setting.
func (r *Renderer) DrawTriangle(tri Triangle) {
	r.rasterize(ViewOf(r.camera), tri)
}

// ColourBufferRaw returns the color buffer as width×height RGBA8 bytes,
// row-major from the top row. The slice aliases the renderer's buffer and is
// overwritten by the next Clear or draw.
func (r *Renderer) ColourBufferRaw() []byte { return r.fb.Raw() }

// Framebuffer returns the color buffer.
func (r *Renderer) Framebuffer() *Framebuffer { return r.fb }

// Pixel returns the color at (x, y); transparent black out of bounds.
func (r *Renderer) Pixel(x, y int) Color { return r.fb.GetPixel(x, y) }

// Depth returns the stored depth at (x, y); the far sentinel out of bounds.
func (r *Renderer) Depth(x, y int) float32 {
	if x < 0 || x >= r.fb.Width || y < 0 || y >= r.fb.Height {
		return farDepth
	}
	return r.depth[y*r.fb.Width+x]
}

// Image returns a copy of the color buffer as an image.RGBA.
func (r *Renderer) Image() *image.RGBA { return r.fb.ToImage() }

// Save encodes the color buffer to a PNG file.
func (r *Renderer) Save(path string) error {
	if err := r.fb.SavePNG(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Line draws a screen-space line with Bresenham's algorithm. The loop runs
// along the axis of greatest extent; pixels outside the framebuffer are
// skipped, so partially off-screen lines are partially drawn.
func (r *Renderer) Line(p0, p1 image.Point, c Color) {
	x0, y0, x1, y1 := p0.X, p0.Y, p1.X, p1.Y

	steep := abs(x0-x1) < abs(y0-y1)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx := x1 - x0
	derr := 2 * abs(y1-y0)
	ystep := 1
	if y1 < y0 {
		ystep = -1
	}

	err := 0
	y := y0
	for x := x0; x <= x1; x++ {
		if steep {
			r.fb.SetPixel(y, x, c)
		} else {
			r.fb.SetPixel(x, y, c)
		}
		err += derr
		if err > dx {
			y += ystep
			err -= 2 * dx
		}
	}
	r.stats.Lines++
}

// line3D projects a world-space segment and draws it without depth testing.
// Segments with an endpoint behind the near plane are dropped; the rest are
// trimmed to the viewport before the integer loop.
func (r *Renderer) line3D(view View, a, b math3d.Vec3, c Color) {
	clipA := view.ViewProj.MulVec4(math3d.V4FromV3(a, 1))
	clipB := view.ViewProj.MulVec4(math3d.V4FromV3(b, 1))
	if clipA.W < view.Near || clipB.W < view.Near {
		r.stats.NearDiscarded++
		return
	}

	w, h := r.fb.Width, r.fb.Height
	x0, y0 := ndcToScreen(clipA.PerspectiveDivide(), w, h)
	x1, y1 := ndcToScreen(clipB.PerspectiveDivide(), w, h)

	x0, y0, x1, y1, ok := clipSegment(x0, y0, x1, y1, 0, 0, float64(w), float64(h))
	if !ok {
		return
	}
	r.Line(
		image.Pt(int(math.Floor(x0)), int(math.Floor(y0))),
		image.Pt(int(math.Floor(x1)), int(math.Floor(y1))),
		c,
	)
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	Pos  math3d.Vec2 // Pixel coordinates
	Z    float64     // NDC depth in [0, 1]
	InvW float64     // 1 / clip w
}

// rasterize runs the full triangle pipeline: face normal, backface cull,
// projection, flat lighting and the depth-tested fill.
func (r *Renderer) rasterize(view View, tri Triangle) {
	r.stats.Triangles++

	normal := tri.Normal()
	if normal == (math3d.Vec3{}) {
		r.stats.Degenerate++
		return
	}

	positions := [3]math3d.Vec3{tri.A.Position, tri.B.Position, tri.C.Position}

	// The (c−a)×(b−a) normal of a front face points away from the viewer.
	if !r.cfg.DisableCulling && !facesCamera(normal, positions, view.Position) {
		r.stats.BackfaceCulled++
		return
	}

	var sv [3]screenVertex
	for i, p := range positions {
		clip := view.ViewProj.MulVec4(math3d.V4FromV3(p, 1))
		if clip.W < view.Near {
			r.stats.NearDiscarded++
			return
		}
		ndc := clip.PerspectiveDivide()
		x, y := ndcToScreen(ndc, r.fb.Width, r.fb.Height)
		sv[i] = screenVertex{
			Pos:  math3d.V2(x, y),
			Z:    ndc.Z,
			InvW: 1.0 / clip.W,
		}
	}

	// Non-positive intensity shades towards black rather than discarding:
	// culling has already removed the faces pointing away.
	intensity := normal.Dot(r.light)
	r.fill(sv, Shade(tri.BaseColor(), intensity))
}

// facesCamera reports whether the face is seen from its front side at any
// vertex.
func facesCamera(normal math3d.Vec3, positions [3]math3d.Vec3, eye math3d.Vec3) bool {
	for _, p := range positions {
		if normal.Dot(p.Sub(eye)) > 0 {
			return true
		}
	}
	return false
}

// fill writes every pixel whose center lies strictly inside the screen
// triangle and passes the depth test.
func (r *Renderer) fill(sv [3]screenVertex, c Color) {
	w, h := r.fb.Width, r.fb.Height

	// Bounding box (clamped to screen)
	minX := int(math3d.Clamp(math.Floor(min3(sv[0].Pos.X, sv[1].Pos.X, sv[2].Pos.X)), 0, float64(w-1)))
	maxX := int(math3d.Clamp(math.Ceil(max3(sv[0].Pos.X, sv[1].Pos.X, sv[2].Pos.X)), 0, float64(w-1)))
	minY := int(math3d.Clamp(math.Floor(min3(sv[0].Pos.Y, sv[1].Pos.Y, sv[2].Pos.Y)), 0, float64(h-1)))
	maxY := int(math3d.Clamp(math.Ceil(max3(sv[0].Pos.Y, sv[1].Pos.Y, sv[2].Pos.Y)), 0, float64(h-1)))

	if maxX <= minX || maxY <= minY {
		r.stats.Degenerate++
		return
	}
	r.stats.Rasterized++

	bc := math3d.NewBarycentric(sv[0].Pos, sv[1].Pos, sv[2].Pos)
	sigmoid := r.cfg.DepthMode == DepthSigmoid

	for y := minY; y <= maxY; y++ {
		rowOffset := y * w
		py := float64(y) + 0.5

		for x := minX; x <= maxX; x++ {
			b := bc.At(math3d.V2(float64(x)+0.5, py))
			if !math3d.Inside(b) {
				continue
			}

			var z float32
			if sigmoid {
				z = float32(1 - math3d.Sigmoid(b.X*sv[0].Z+b.Y*sv[1].Z+b.Z*sv[2].Z))
			} else {
				z = float32(b.X*sv[0].InvW + b.Y*sv[1].InvW + b.Z*sv[2].InvW)
			}

			idx := rowOffset + x
			if !(z > r.depth[idx]) {
				continue
			}

			r.depth[idx] = z
			i := 4 * idx
			r.fb.Pix[i], r.fb.Pix[i+1], r.fb.Pix[i+2], r.fb.Pix[i+3] = c.R, c.G, c.B, c.A
			r.stats.PixelsWritten++
		}
	}
}

// clipSegment trims a segment to the rectangle [minX, maxX) × [minY, maxY)
// (Liang–Barsky). ok is false when nothing of the segment remains.
func clipSegment(x0, y0, x1, y1, minX, minY, maxX, maxY float64) (cx0, cy0, cx1, cy1 float64, ok bool) {
	// Keep endpoints inside the last pixel row/column after flooring.
	const inset = 1e-9
	maxX -= inset
	maxY -= inset

	t0, t1 := 0.0, 1.0
	dx, dy := x1-x0, y1-y0
	edges := [4][2]float64{
		{-dx, x0 - minX},
		{dx, maxX - x0},
		{-dy, y0 - minY},
		{dy, maxY - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, t)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
