package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/softrast/pkg/math3d"
)

// ErrDegenerateProjection is returned when the projection parameters cannot
// describe a usable view volume.
var ErrDegenerateProjection = errors.New("degenerate projection")

// Camera owns the view and projection matrices. Position and facing are
// derived from the inverse view matrix after every change, so they always
// describe the transform that actually drives rendering.
type Camera struct {
	// Projection parameters
	fov    float64 // Vertical field of view in radians
	aspect float64 // Width / Height
	near   float64
	far    float64

	// up is the reference up vector used by LookAtTarget.
	up math3d.Vec3

	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4

	// Derived from viewMatrix
	position math3d.Vec3
	forward  math3d.Vec3
}

// NewCamera creates a camera at the origin facing +Z with an identity view
// matrix and a left-handed perspective projection.
func NewCamera(aspectRatio, fieldOfView, zNear, zFar float64) (*Camera, error) {
	if err := validateProjection(aspectRatio, fieldOfView, zNear, zFar); err != nil {
		return nil, err
	}
	c := &Camera{
		fov:        fieldOfView,
		aspect:     aspectRatio,
		near:       zNear,
		far:        zFar,
		up:         math3d.Up(),
		viewMatrix: math3d.Identity(),
		projMatrix: math3d.PerspectiveLH(fieldOfView, aspectRatio, zNear, zFar),
	}
	c.update()
	return c, nil
}

func validateProjection(aspect, fov, near, far float64) error {
	switch {
	case !(aspect > 0) || math.IsInf(aspect, 0):
		return fmt.Errorf("%w: aspect ratio %v must be positive", ErrDegenerateProjection, aspect)
	case !(fov > 0 && fov < math.Pi):
		return fmt.Errorf("%w: field of view %v must be in (0, π)", ErrDegenerateProjection, fov)
	case !(near > 0) || !(far > 0):
		return fmt.Errorf("%w: clip planes (%v, %v) must be positive", ErrDegenerateProjection, near, far)
	case near == far:
		return fmt.Errorf("%w: near and far planes are both %v", ErrDegenerateProjection, near)
	}
	return nil
}

// update recomputes every cached value that depends on the matrices.
func (c *Camera) update() {
	c.viewProjMatrix = c.projMatrix.Mul(c.viewMatrix)

	inv := c.viewMatrix.Inverse()
	c.forward = inv.MulVec3Dir(math3d.Forward()).Normalize()
	c.position = inv.MulVec3(math3d.Zero3())
}

// LookAt points the camera from eye towards target.
func (c *Camera) LookAt(eye, target, up math3d.Vec3) {
	c.up = up
	c.viewMatrix = math3d.LookAtLH(eye, target, up)
	c.update()
}

// LookAtTarget keeps the current position and turns the camera towards
// target. If the view direction is parallel to the up vector, +Z (or +Y)
// is used as the reference instead.
func (c *Camera) LookAtTarget(target math3d.Vec3) {
	eye := c.position
	dir := target.Sub(eye)
	if dir.LenSq() == 0 {
		return
	}
	up := c.up
	if dir.Cross(up).LenSq() < 1e-12 {
		up = math3d.V3(0, 0, 1)
		if dir.Cross(up).LenSq() < 1e-12 {
			up = math3d.Up()
		}
	}
	c.viewMatrix = math3d.LookAtLH(eye, target, up)
	c.update()
}

// Translate moves the camera by delta in world space.
func (c *Camera) Translate(delta math3d.Vec3) {
	c.viewMatrix = c.viewMatrix.Mul(math3d.Translate(delta.Negate()))
	c.update()
}

// Rotate applies the combined X, Y, Z rotation to the world under the camera
// (post-multiplied onto the view), which orbits the camera about the origin.
func (c *Camera) Rotate(x, y, z float64) {
	c.viewMatrix = c.viewMatrix.Mul(math3d.EulerRotation(x, y, z))
	c.update()
}

// Scale is a no-op: scaling a camera has no meaning for a perspective view.
func (c *Camera) Scale(float64) {}

// SetAspectRatio rebuilds the projection for a new viewport shape.
func (c *Camera) SetAspectRatio(aspect float64) error {
	if err := validateProjection(aspect, c.fov, c.near, c.far); err != nil {
		return err
	}
	c.aspect = aspect
	c.projMatrix = math3d.PerspectiveLH(c.fov, c.aspect, c.near, c.far)
	c.update()
	return nil
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 { return c.viewMatrix }

// ProjectionMatrix returns the projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 { return c.projMatrix }

// ViewProjectionMatrix returns projection × view, the world-to-clip transform.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 { return c.viewProjMatrix }

// Position returns the camera position in world space.
func (c *Camera) Position() math3d.Vec3 { return c.position }

// Forward returns the unit vector the camera looks along, in world space.
func (c *Camera) Forward() math3d.Vec3 { return c.forward }

// Direction returns the negated forward vector: the view-space +Z axis taken
// to world space and flipped, pointing from the scene back at the viewer.
func (c *Camera) Direction() math3d.Vec3 { return c.forward.Negate() }

// FOV returns the vertical field of view in radians.
func (c *Camera) FOV() float64 { return c.fov }

// AspectRatio returns width / height.
func (c *Camera) AspectRatio() float64 { return c.aspect }

// Near returns the near clip distance.
func (c *Camera) Near() float64 { return c.near }

// Far returns the far clip distance.
func (c *Camera) Far() float64 { return c.far }

// Frustum returns the view frustum of the current view-projection.
func (c *Camera) Frustum() Frustum {
	return NewFrustumFromMatrix(c.viewProjMatrix)
}

// WorldToScreen projects a world point onto a width×height viewport.
// visible is false when the point is behind the near plane.
func (c *Camera) WorldToScreen(worldPos math3d.Vec3, width, height int) (x, y, depth float64, visible bool) {
	clip := c.viewProjMatrix.MulVec4(math3d.V4FromV3(worldPos, 1))
	if clip.W < c.near {
		return 0, 0, 0, false
	}
	ndc := clip.PerspectiveDivide()
	x, y = ndcToScreen(ndc, width, height)
	return x, y, ndc.Z, true
}

// ndcToScreen maps NDC x/y in [-1, 1] to pixels. Y is flipped so world +Y
// points up the image.
func ndcToScreen(ndc math3d.Vec3, width, height int) (x, y float64) {
	x = (ndc.X + 1) * 0.5 * float64(width)
	y = (1 - ndc.Y) * 0.5 * float64(height)
	return x, y
}
