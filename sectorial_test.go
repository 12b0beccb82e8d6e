package nurbs

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/ungerik/go3d/float64/vec3"
)

func TestSectorialCorners(t *testing.T) {
	srf := unitCone(t)

	tests := []struct {
		u, v float64
		want vec3.T
	}{
		{0, 0, vec3.T{1, 0, 0}},
		{1, 0, vec3.T{0, 1, 0}},
		{0, 1, vec3.T{0, 0, 5}},
		{1, 1, vec3.T{0, 0, 5}},
		{0.5, 0.5, vec3.T{math.Sqrt2 / 4, math.Sqrt2 / 4, 2.5}},
	}
	for _, tt := range tests {
		s, err := srf.Evaluate(tt.u, tt.v)
		if err != nil {
			t.Fatalf("Evaluate(%g, %g): %v", tt.u, tt.v, err)
		}
		diff(t, tt.want, s.Point, cmpopts.EquateApprox(0, 1e-12))
		diff(t, UV{tt.u, tt.v}, s.UV)
	}
}

func TestSectorialArcIsCircular(t *testing.T) {
	srf := unitCone(t)

	for i := 0; i <= 40; i++ {
		u := float64(i) / 40
		for _, v := range []float64{0, 0.25, 0.6} {
			s, err := srf.Evaluate(u, v)
			if err != nil {
				t.Fatalf("Evaluate(%g, %g): %v", u, v, err)
			}
			r := math.Hypot(s.Point[0], s.Point[1])
			if math.Abs(r-(1-v)) > 1e-4 {
				t.Errorf("at (%g, %g): radius %g, want %g", u, v, r, 1-v)
			}
			if math.Abs(s.Point[2]-5*v) > 1e-12 {
				t.Errorf("at (%g, %g): height %g, want %g", u, v, s.Point[2], 5*v)
			}
		}
	}
}

func TestSectorialPartialsMatchFiniteDifference(t *testing.T) {
	srf := unitCone(t)
	const h = 1e-6

	point := func(u, v float64) vec3.T {
		s, err := srf.Evaluate(u, v)
		if err != nil {
			t.Fatalf("Evaluate(%g, %g): %v", u, v, err)
		}
		return s.Point
	}

	for _, uv := range []UV{{0.1, 0.1}, {0.5, 0.3}, {0.7, 0.8}, {0.9, 0.5}} {
		u, v := uv[0], uv[1]
		s, err := srf.Evaluate(u, v)
		if err != nil {
			t.Fatalf("Evaluate: %v", err)
		}

		a, b := point(u-h, v), point(u+h, v)
		su := vec3.Sub(&b, &a)
		su.Scale(1 / (2 * h))
		if !near(su, s.Su, 1e-5) {
			t.Errorf("Su at %v: got %v, finite difference %v", uv, s.Su, su)
		}

		a, b = point(u, v-h), point(u, v+h)
		sv := vec3.Sub(&b, &a)
		sv.Scale(1 / (2 * h))
		if !near(sv, s.Sv, 1e-5) {
			t.Errorf("Sv at %v: got %v, finite difference %v", uv, s.Sv, sv)
		}

		n := vec3.Cross(&s.Su, &s.Sv)
		diff(t, n, s.Normal)
	}
}

func TestSectorialNormalPointsOutward(t *testing.T) {
	srf := unitCone(t)

	for _, uv := range []UV{{0, 0}, {0.3, 0.2}, {1, 0.5}, {0.5, 0.99}} {
		s, err := srf.Evaluate(uv[0], uv[1])
		if err != nil {
			t.Fatalf("Evaluate: %v", err)
		}
		if s.Degenerate {
			t.Fatalf("at %v: unexpected degenerate normal", uv)
		}
		radial := vec3.T{s.Point[0], s.Point[1], 0}
		if vec3.Dot(&s.Normal, &radial) <= 0 || s.Normal[2] <= 0 {
			t.Errorf("at %v: normal %v does not point out and up", uv, s.Normal)
		}
	}
}

func TestSectorialApexIsDegenerate(t *testing.T) {
	srf := unitCone(t)

	for _, u := range []float64{0, 0.4, 1} {
		s, err := srf.Evaluate(u, 1)
		if err != nil {
			t.Fatalf("Evaluate(%g, 1): %v", u, err)
		}
		if !s.Degenerate {
			t.Errorf("at u=%g: apex normal %v not flagged degenerate", u, s.Normal)
		}
		diff(t, vec3.Zero, s.Su)
		diff(t, vec3.Zero, s.Normal)
	}
}

func TestSectorialDomain(t *testing.T) {
	srf := unitCone(t)

	for _, uv := range []UV{{0.5, 1.5}, {0.5, -0.1}, {1.5, 0.5}, {-0.2, 0.5}, {0.5, math.NaN()}} {
		_, err := srf.Evaluate(uv[0], uv[1])
		if !errors.Is(err, ErrDomain) {
			t.Errorf("Evaluate(%v): got %v, want a domain error", uv, err)
		}
	}

	// within Epsilon of the boundary is snapped
	s, err := srf.Evaluate(1+Epsilon/2, -Epsilon/2)
	if err != nil {
		t.Fatalf("Evaluate near the boundary: %v", err)
	}
	diff(t, vec3.T{0, 1, 0}, s.Point, cmpopts.EquateApprox(0, 1e-9))
}

func TestSectorialMatchesTensorSurface(t *testing.T) {
	srf := unitCone(t)
	tensor := srf.Nurbs()

	if tensor.DegreeU() != 2 || tensor.DegreeV() != 1 {
		t.Fatalf("got degrees %d×%d, want 2×1", tensor.DegreeU(), tensor.DegreeV())
	}

	approx := cmpopts.EquateApprox(0, 1e-9)
	for i := 0; i <= 8; i++ {
		for j := 0; j <= 8; j++ {
			u, v := float64(i)/8, float64(j)/8
			want, err := tensor.Evaluate(u, v)
			if err != nil {
				t.Fatalf("tensor Evaluate(%g, %g): %v", u, v, err)
			}
			got, err := srf.Evaluate(u, v)
			if err != nil {
				t.Fatalf("Evaluate(%g, %g): %v", u, v, err)
			}
			diff(t, want.Point, got.Point, approx)
			diff(t, want.Su, got.Su, approx)
			diff(t, want.Sv, got.Sv, approx)
			if want.Degenerate != got.Degenerate {
				t.Errorf("at (%g, %g): degenerate %v, tensor %v", u, v, got.Degenerate, want.Degenerate)
			}
		}
	}
}

func TestSectorialAccessors(t *testing.T) {
	srf := unitCone(t)
	diff(t, vec3.T{0, 0, 5}, srf.Apex())

	arc := srf.Arc()
	diff(t, ArcWeights[:], arc.Weights(), cmpopts.EquateApprox(0, 1e-15))
	diff(t, ArcKnots().Knots(), arc.Knots())
}

func TestPlanarSectorNormalsShareHalfSpace(t *testing.T) {
	srf, err := NewSectorialSurface([3]vec3.T{{1, 0, 0}, {1, 1, 0}, {0, 1, 0}}, vec3.Zero)
	if err != nil {
		t.Fatalf("NewSectorialSurface: %v", err)
	}

	reference := vec3.UnitZ
	for i := 0; i <= 10; i++ {
		for j := 0; j <= 10; j++ {
			s, err := srf.Evaluate(float64(j)/10, float64(i)/10)
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if s.Degenerate {
				continue
			}
			if d := vec3.Dot(&s.Normal, &reference); d <= 0 {
				t.Errorf("at (%d, %d): normal %v leaves the +z half-space", i, j, s.Normal)
			}
		}
	}
}
