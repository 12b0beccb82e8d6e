package bounds

import (
	"math"
	"testing"

	"github.com/ungerik/go3d/float64/vec3"
)

func TestBoundingBoxAdd(t *testing.T) {
	var bb BoundingBox
	if !bb.Empty() {
		t.Fatal("zero value is not empty")
	}
	p := vec3.T{1, 2, 3}
	if bb.Contains(&p, 0) {
		t.Error("empty box contains a point")
	}

	bb.Add(&vec3.T{1, -1, 0}).Add(&vec3.T{-2, 3, 4})
	if bb.Min != (vec3.T{-2, -1, 0}) || bb.Max != (vec3.T{1, 3, 4}) {
		t.Errorf("got [%v, %v]", bb.Min, bb.Max)
	}
	if got := bb.LongestAxis(); got != 1 && got != 2 {
		t.Errorf("LongestAxis = %d", got)
	}
	if bb.AxisLength(0) != 3 || bb.AxisLength(5) != 0 {
		t.Errorf("AxisLength: %g %g", bb.AxisLength(0), bb.AxisLength(5))
	}
	if c := bb.Center(); c != (vec3.T{-0.5, 1, 2}) {
		t.Errorf("Center = %v", c)
	}
}

func TestBoundingBoxAddFlat(t *testing.T) {
	var bb BoundingBox
	bb.AddFlat([]float32{0, 1, 2, -1, 5, 0.5}, 2)
	if bb.Min != (vec3.T{0, -1, 0}) || bb.Max != (vec3.T{5, 1, 0}) {
		t.Errorf("got [%v, %v]", bb.Min, bb.Max)
	}
}

func TestBoundingBoxContainsAndIntersects(t *testing.T) {
	var a, b BoundingBox
	a.Add(&vec3.T{0, 0, 0}).Add(&vec3.T{1, 1, 1})
	b.Add(&vec3.T{1.5, 0, 0}).Add(&vec3.T{2, 1, 1})

	inside := vec3.T{0.5, 0.5, 0.5}
	edge := vec3.T{1 + 1e-5, 0.5, 0.5}
	outside := vec3.T{1.1, 0.5, 0.5}

	if !a.Contains(&inside, 0) {
		t.Error("inside point not contained")
	}
	if !a.Contains(&edge, -1) {
		t.Error("point within the default tolerance not contained")
	}
	if a.Contains(&outside, -1) {
		t.Error("outside point contained")
	}
	if a.Intersects(&b, 0) {
		t.Error("disjoint boxes intersect")
	}
	if !a.Intersects(&b, 0.6) {
		t.Error("boxes within tolerance do not intersect")
	}
}

func TestTriangleNormal(t *testing.T) {
	positions := []float32{
		0, 0, 0,
		2, 0, 0,
		0, 2, 0,
		4, 0, 0,
	}

	n := TriangleNormal(positions, [3]uint32{0, 1, 2})
	if n != (vec3.T{0, 0, 1}) {
		t.Errorf("counter-clockwise normal %v", n)
	}
	n = TriangleNormal(positions, [3]uint32{0, 2, 1})
	if n != (vec3.T{0, 0, -1}) {
		t.Errorf("clockwise normal %v", n)
	}
	if n := TriangleNormal(positions, [3]uint32{0, 1, 3}); n != vec3.Zero {
		t.Errorf("collapsed triangle normal %v", n)
	}

	c := TriangleCentroid(positions, [3]uint32{0, 1, 2})
	if math.Abs(c[0]-2.0/3) > 1e-15 || math.Abs(c[1]-2.0/3) > 1e-15 || c[2] != 0 {
		t.Errorf("centroid %v", c)
	}
}
