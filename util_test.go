package nurbs

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ungerik/go3d/float64/vec3"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

func near(a, b vec3.T, tol float64) bool {
	d := vec3.Sub(&a, &b)
	return d.Length() <= tol
}

// quarterArc is the quarter unit circle from (1, 0) to (0, 1) as a
// single rational segment.
func quarterArc(t *testing.T) *NurbsCurve {
	t.Helper()
	crv, err := NewNurbsCurve([]ControlPoint{
		Pt(1, 0, 0, 1),
		Pt(1, 1, 0, math.Sqrt2/2),
		Pt(0, 1, 0, 1),
	}, ArcKnots())
	if err != nil {
		t.Fatalf("NewNurbsCurve: %v", err)
	}
	return crv
}

// planarCircle traces the unit circle around the origin over its
// circumscribed triangle.
func planarCircle(t *testing.T) *NurbsCurve {
	t.Helper()
	h := math.Sqrt(3)
	crv, err := NewNurbsCurve([]ControlPoint{
		Pt(h/2, 0.5, 0, 1),
		Pt(0, 2, 0, 0.5),
		Pt(-h/2, 0.5, 0, 1),
		Pt(-h, -1, 0, 0.5),
		Pt(0, -1, 0, 1),
		Pt(h, -1, 0, 0.5),
		Pt(h/2, 0.5, 0, 1),
	}, PlanarSplineKnots())
	if err != nil {
		t.Fatalf("NewNurbsCurve: %v", err)
	}
	return crv
}

func unitCone(t *testing.T) *SectorialSurface {
	t.Helper()
	srf, err := NewSectorialSurface([3]vec3.T{{1, 0, 0}, {1, 1, 0}, {0, 1, 0}}, vec3.T{0, 0, 5})
	if err != nil {
		t.Fatalf("NewSectorialSurface: %v", err)
	}
	return srf
}
