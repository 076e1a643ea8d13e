package math3d

// Transform is an immutable model transform. Every operation returns a new
// value composed by post-multiplication (current × op), so successive calls
// accumulate and a Transform can be shared without aliasing surprises.
type Transform struct {
	m   Mat4
	set bool
}

// IdentityTransform returns the transform that leaves points unchanged.
func IdentityTransform() Transform {
	return Transform{m: Identity(), set: true}
}

// TransformFromMatrix wraps an existing matrix.
func TransformFromMatrix(m Mat4) Transform {
	return Transform{m: m, set: true}
}

// Matrix returns the composed matrix. The zero Transform is the identity.
func (t Transform) Matrix() Mat4 {
	if !t.set {
		return Identity()
	}
	return t.m
}

// Then returns t × op.
func (t Transform) Then(op Mat4) Transform {
	return Transform{m: t.Matrix().Mul(op), set: true}
}

// Translate returns t followed by a translation of delta.
func (t Transform) Translate(delta Vec3) Transform {
	return t.Then(Translate(delta))
}

// Rotate returns t followed by the combined rotation about X, Y and Z.
func (t Transform) Rotate(x, y, z float64) Transform {
	return t.Then(EulerRotation(x, y, z))
}

// Scale returns t followed by a uniform scale.
func (t Transform) Scale(factor float64) Transform {
	return t.Then(ScaleUniform(factor))
}

// Point applies the transform to a position.
func (t Transform) Point(p Vec3) Vec3 {
	return t.Matrix().MulVec3(p)
}

// Direction applies the linear part of the transform to a direction.
func (t Transform) Direction(d Vec3) Vec3 {
	return t.Matrix().MulVec3Dir(d)
}
