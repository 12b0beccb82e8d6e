package nurbs

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/ungerik/go3d/float64/mat4"
	"github.com/ungerik/go3d/float64/vec3"
)

func TestNewNurbsCurveRejects(t *testing.T) {
	arc := []ControlPoint{Pt(1, 0, 0, 1), Pt(1, 1, 0, 1), Pt(0, 1, 0, 1)}

	if _, err := NewNurbsCurve(arc, nil); !errors.Is(err, ErrConfiguration) {
		t.Errorf("nil knot vector: got %v", err)
	}
	if _, err := NewNurbsCurve(arc[:2], ArcKnots()); !errors.Is(err, ErrConfiguration) {
		t.Errorf("too few points: got %v", err)
	}
	if _, err := NewNurbsCurve(arc, PlanarSplineKnots()); !errors.Is(err, ErrConfiguration) {
		t.Errorf("knot vector for 7 points: got %v", err)
	}

	bad := append([]ControlPoint(nil), arc...)
	bad[1].W = math.Inf(1)
	if _, err := NewNurbsCurve(bad, ArcKnots()); !errors.Is(err, ErrConfiguration) {
		t.Errorf("infinite weight: got %v", err)
	}
}

func TestCurveAccessors(t *testing.T) {
	crv := planarCircle(t)

	if crv.Degree() != 2 {
		t.Errorf("got degree %d", crv.Degree())
	}
	if !crv.Closed() {
		t.Error("circle is not closed")
	}
	if quarterArc(t).Closed() {
		t.Error("quarter arc is closed")
	}
	diff(t, []float64{1, 0.5, 1, 0.5, 1, 0.5, 1}, crv.Weights(), cmpopts.EquateApprox(0, 1e-15))

	pts := crv.ControlPoints()
	pts[0].Selected = true
	if crv.ControlPoints()[0].Selected {
		t.Error("ControlPoints exposes internal state")
	}
}

func TestCurveEndpoints(t *testing.T) {
	crv := planarCircle(t)
	start, err := crv.Point(0)
	if err != nil {
		t.Fatalf("Point(0): %v", err)
	}
	end, err := crv.Point(1)
	if err != nil {
		t.Fatalf("Point(1): %v", err)
	}
	want := vec3.T{math.Sqrt(3) / 2, 0.5, 0}
	diff(t, want, start, cmpopts.EquateApprox(0, 1e-12))
	diff(t, want, end, cmpopts.EquateApprox(0, 1e-12))

	if _, err := crv.Point(1.1); !errors.Is(err, ErrDomain) {
		t.Errorf("Point(1.1): got %v", err)
	}
}

func TestPlanarCircleRadius(t *testing.T) {
	crv := planarCircle(t)
	for i := 0; i <= 300; i++ {
		u := float64(i) / 300
		pt, err := crv.Point(u)
		if err != nil {
			t.Fatalf("Point(%g): %v", u, err)
		}
		diff(t, 1.0, pt.Length(), cmpopts.EquateApprox(0, 1e-12))
	}
}

func TestTangentMatchesDerivatives(t *testing.T) {
	for _, crv := range []*NurbsCurve{quarterArc(t), planarCircle(t)} {
		for _, u := range []float64{0, 0.1, 0.25, 0.5, 0.8, 1} {
			tangent, err := crv.Tangent(u)
			if err != nil {
				t.Fatalf("Tangent(%g): %v", u, err)
			}
			ders, err := crv.Derivatives(u, 1)
			if err != nil {
				t.Fatalf("Derivatives(%g): %v", u, err)
			}
			if len(ders) != 2 {
				t.Fatalf("got %d derivatives, want 2", len(ders))
			}
			if !near(ders[1], tangent, 1e-9*math.Max(1, tangent.Length())) {
				t.Errorf("at %g: Tangent %v, Derivatives %v", u, tangent, ders[1])
			}

			pt, _ := crv.Point(u)
			if !near(ders[0], pt, 1e-12) {
				t.Errorf("at %g: Derivatives[0] %v, Point %v", u, ders[0], pt)
			}
		}
	}
}

func TestCircleTangentIsPerpendicular(t *testing.T) {
	crv := planarCircle(t)
	for _, u := range []float64{0.1, 0.3, 0.5, 0.7, 0.9} {
		pt, _ := crv.Point(u)
		tangent, err := crv.Tangent(u)
		if err != nil {
			t.Fatalf("Tangent(%g): %v", u, err)
		}
		if d := vec3.Dot(&pt, &tangent); math.Abs(d) > 1e-9*tangent.Length() {
			t.Errorf("at %g: tangent %v not perpendicular to radius %v", u, tangent, pt)
		}
	}
}

func TestSecondDerivativeMatchesFiniteDifference(t *testing.T) {
	crv := quarterArc(t)
	const h = 1e-4

	for _, u := range []float64{0.2, 0.5, 0.7} {
		ders, err := crv.Derivatives(u, 2)
		if err != nil {
			t.Fatalf("Derivatives: %v", err)
		}
		a, _ := crv.Tangent(u - h)
		b, _ := crv.Tangent(u + h)
		fd := vec3.Sub(&b, &a)
		fd.Scale(1 / (2 * h))
		if !near(fd, ders[2], 1e-5) {
			t.Errorf("at %g: second derivative %v, finite difference %v", u, ders[2], fd)
		}
	}
}

func TestDerivativesRejectNegativeCount(t *testing.T) {
	if _, err := quarterArc(t).Derivatives(0.5, -1); !errors.Is(err, ErrConfiguration) {
		t.Errorf("got %v", err)
	}
}

func TestCurveTransform(t *testing.T) {
	crv := planarCircle(t)
	offset := vec3.T{2, -1, 3}
	mat := mat4.Ident
	mat.SetTranslation(&offset)

	moved := crv.Transform(&mat)
	for _, u := range []float64{0, 0.3, 0.6, 1} {
		p, _ := crv.Point(u)
		q, err := moved.Point(u)
		if err != nil {
			t.Fatalf("Point(%g): %v", u, err)
		}
		want := vec3.Add(&p, &offset)
		if !near(want, q, 1e-12) {
			t.Errorf("at %g: got %v, want %v", u, q, want)
		}
	}
	diff(t, crv.Weights(), moved.Weights())
}

func TestSampleErrors(t *testing.T) {
	crv := quarterArc(t)
	if _, err := crv.Sample(1, 2); !errors.Is(err, ErrConfiguration) {
		t.Errorf("one sample: got %v", err)
	}
	if _, err := crv.Sample(10, 4); !errors.Is(err, ErrConfiguration) {
		t.Errorf("four components: got %v", err)
	}
}

func TestSample(t *testing.T) {
	s, err := quarterArc(t).Sample(5, 3)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}

	if s.Count() != 5 || len(s.Points) != 15 {
		t.Fatalf("got %d samples with %d components", s.Count(), len(s.Points))
	}
	diff(t, []float64{0, 0.25, 0.5, 0.75, 1}, s.Params, cmpopts.EquateApprox(0, 1e-15))
	diff(t, vec3.T{1, 0, 0}, s.Point(0), cmpopts.EquateApprox(0, 1e-7))
	diff(t, vec3.T{0, 1, 0}, s.Point(4), cmpopts.EquateApprox(0, 1e-7))
	diff(t, []uint32{0, 1, 1, 2, 2, 3, 3, 4}, s.LineIndices())

	flat, err := quarterArc(t).Sample(3, 2)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if len(flat.Points) != 6 {
		t.Errorf("got %d components, want 6", len(flat.Points))
	}
}

func TestPolylineIndices(t *testing.T) {
	diff(t, []uint32(nil), PolylineIndices(1))
	diff(t, []uint32{0, 1}, PolylineIndices(2))
	diff(t, []uint32{0, 1, 1, 2}, quarterArc(t).LineIndices())
}
