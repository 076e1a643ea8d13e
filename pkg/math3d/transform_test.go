package math3d

import (
	"math"
	"testing"
)

func TestTransformZeroValueIsIdentity(t *testing.T) {
	var tr Transform
	if tr.Matrix() != Identity() {
		t.Errorf("zero Transform matrix = %v, want identity", tr.Matrix())
	}
	if got := tr.Point(V3(1, 2, 3)); got != V3(1, 2, 3) {
		t.Errorf("Point = %v, want (1, 2, 3)", got)
	}
}

func TestTransformAccumulates(t *testing.T) {
	tr := IdentityTransform().
		Translate(V3(1, 0, 0)).
		Translate(V3(1, 0, 0))
	if got := tr.Point(Zero3()); !got.ApproxEqual(V3(2, 0, 0), 1e-12) {
		t.Errorf("two translations = %v, want (2, 0, 0)", got)
	}

	quarter := IdentityTransform()
	for range 4 {
		quarter = quarter.Rotate(0, math.Pi/2, 0)
	}
	if got := quarter.Point(V3(1, 0, 0)); !got.ApproxEqual(V3(1, 0, 0), 1e-9) {
		t.Errorf("four quarter turns = %v, want (1, 0, 0)", got)
	}
}

func TestTransformPostMultiplies(t *testing.T) {
	// translate then scale: the scale applies first to the point.
	tr := IdentityTransform().Translate(V3(1, 0, 0)).Scale(2)
	if got := tr.Point(V3(1, 0, 0)); !got.ApproxEqual(V3(3, 0, 0), 1e-12) {
		t.Errorf("Point = %v, want (3, 0, 0)", got)
	}
}

func TestTransformIsImmutable(t *testing.T) {
	base := IdentityTransform().Translate(V3(0, 5, 0))
	moved := base.Translate(V3(0, 5, 0))

	if got := base.Point(Zero3()); !got.ApproxEqual(V3(0, 5, 0), 1e-12) {
		t.Errorf("base changed to %v", got)
	}
	if got := moved.Point(Zero3()); !got.ApproxEqual(V3(0, 10, 0), 1e-12) {
		t.Errorf("moved = %v, want (0, 10, 0)", got)
	}
}

func TestTransformDirectionIgnoresTranslation(t *testing.T) {
	tr := IdentityTransform().Translate(V3(9, 9, 9)).Scale(3)
	if got := tr.Direction(V3(0, 0, 1)); !got.ApproxEqual(V3(0, 0, 3), 1e-12) {
		t.Errorf("Direction = %v, want (0, 0, 3)", got)
	}
}
