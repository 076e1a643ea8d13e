package math3d

import "math"

// Clamp limits v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sigmoid is the logistic function 1 / (1 + e^-x). It maps any depth onto
// (0, 1) while preserving order.
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// Barycentric computes barycentric coordinates against a fixed 2D triangle.
// The Gram-matrix denominator is computed once in NewBarycentric and reused
// for every sample point, so rasterizing a triangle costs two dot products
// per pixel.
type Barycentric struct {
	a        Vec2
	v0, v1   Vec2
	d00, d01 float64
	d11      float64
	invDenom float64
}

// NewBarycentric prepares barycentric evaluation for triangle (a, b, c).
// A zero-area triangle gets an infinite inverse denominator; every weight
// it produces is then non-finite and fails any range test.
func NewBarycentric(a, b, c Vec2) Barycentric {
	v0 := b.Sub(a)
	v1 := c.Sub(a)
	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d11 := v1.Dot(v1)
	return Barycentric{
		a:        a,
		v0:       v0,
		v1:       v1,
		d00:      d00,
		d01:      d01,
		d11:      d11,
		invDenom: 1.0 / (d00*d11 - d01*d01),
	}
}

// At returns the weights (u, v, w) of p relative to vertices (a, b, c).
// u + v + w == 1 for finite results.
func (bc Barycentric) At(p Vec2) Vec3 {
	v2 := p.Sub(bc.a)
	d20 := v2.Dot(bc.v0)
	d21 := v2.Dot(bc.v1)
	v := (bc.d11*d20 - bc.d01*d21) * bc.invDenom
	w := (bc.d00*d21 - bc.d01*d20) * bc.invDenom
	return Vec3{1 - v - w, v, w}
}

// Inside reports whether every weight lies strictly inside (0, 1).
// NaN and infinite weights are never inside.
func Inside(w Vec3) bool {
	return w.X > 0 && w.X < 1 &&
		w.Y > 0 && w.Y < 1 &&
		w.Z > 0 && w.Z < 1
}
