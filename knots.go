package nurbs

import (
	"math"

	"github.com/pqminh27/nurbs/internal"
)

// Epsilon and Tolerance are the numeric thresholds shared by the kernel.
const (
	Epsilon   = internal.Epsilon
	Tolerance = internal.Tolerance
)

// KnotVector is a validated, clamped, non-decreasing knot sequence for a
// fixed degree and control point count. It is never mutated after
// construction, so one value may be shared by concurrent evaluations.
type KnotVector struct {
	degree int
	count  int
	knots  internal.KnotVec
}

// NewKnotVector validates knots for the given degree and control point count.
// All construction-time invariants are checked here once; evaluation assumes
// them.
func NewKnotVector(degree, controlCount int, knots []float64) (*KnotVector, error) {
	const op = "knot vector"

	if degree < 1 {
		return nil, configErrorf(op, "degree %d must be at least 1", degree)
	}
	if controlCount < degree+1 {
		return nil, configErrorf(op, "%d control points is fewer than degree+1 = %d", controlCount, degree+1)
	}
	if len(knots) != controlCount+degree+1 {
		return nil, configErrorf(op, "%d knots given, controlCount+degree+1 = %d", len(knots), controlCount+degree+1)
	}

	kv := internal.KnotVec(knots).Clone()
	for _, k := range kv {
		if math.IsNaN(k) || math.IsInf(k, 0) {
			return nil, configErrorf(op, "knot %g is not finite", k)
		}
	}
	if !kv.IsNonDecreasing() {
		return nil, configErrorf(op, "knots must be non-decreasing")
	}
	if !kv.IsClamped(degree) {
		return nil, configErrorf(op, "first and last knot must each repeat degree+1 = %d times", degree+1)
	}
	if min, max := kv.Domain(degree); max-min < Epsilon {
		return nil, configErrorf(op, "empty parameter domain [%g, %g]", min, max)
	}

	return &KnotVector{degree: degree, count: controlCount, knots: kv}, nil
}

func mustKnotVector(degree, controlCount int, knots []float64) *KnotVector {
	kv, err := NewKnotVector(degree, controlCount, knots)
	if err != nil {
		panic(err)
	}
	return kv
}

// PlanarSplineKnots is the fixed 10-knot degree-2 vector for the 7-point
// planar curve.
func PlanarSplineKnots() *KnotVector {
	return mustKnotVector(2, 7, []float64{0, 0, 0, 1.0 / 3, 1.0 / 3, 2.0 / 3, 2.0 / 3, 1, 1, 1})
}

// ArcKnots is the single-segment degree-2 vector of the quadratic arc.
func ArcKnots() *KnotVector {
	return mustKnotVector(2, 3, []float64{0, 0, 0, 1, 1, 1})
}

// ArcDerivativeKnots is the degree-1 vector that carries the arc's
// derivative basis.
func ArcDerivativeKnots() *KnotVector {
	return mustKnotVector(1, 2, []float64{0, 0, 1, 1})
}

func (this *KnotVector) Degree() int {
	return this.degree
}

func (this *KnotVector) ControlCount() int {
	return this.count
}

func (this *KnotVector) Knots() []float64 {
	return []float64(this.knots.Clone())
}

// Domain returns [knots[degree], knots[n+1]].
func (this *KnotVector) Domain() (min, max float64) {
	return this.knots.Domain(this.degree)
}

// Derivative returns the knot vector one degree lower that carries the first
// derivative basis: the same knots without their first and last entry.
func (this *KnotVector) Derivative() (*KnotVector, error) {
	inner := this.knots[1 : len(this.knots)-1]
	if this.degree == 1 {
		// piecewise constant, every span already clamped
		return &KnotVector{degree: 0, count: this.count - 1, knots: inner.Clone()}, nil
	}
	return NewKnotVector(this.degree-1, this.count-1, inner)
}

// Span locates the knot span containing t. Parameters outside the domain are
// rejected; values within Epsilon of an end are snapped onto it.
func (this *KnotVector) Span(t float64) (int, error) {
	t, err := this.clamp("span", t)
	if err != nil {
		return 0, err
	}
	return FindSpan(this.count-1, this.degree, t, this.knots), nil
}

// Basis returns the span containing t and the degree+1 basis values active on
// it; values[m] belongs to control point span-degree+m.
func (this *KnotVector) Basis(t float64) (span int, values []float64, err error) {
	t, err = this.clamp("basis", t)
	if err != nil {
		return 0, nil, err
	}
	span = FindSpan(this.count-1, this.degree, t, this.knots)
	return span, BasisFunctions(span, t, this.degree, this.knots), nil
}

func (this *KnotVector) clamp(op string, t float64) (float64, error) {
	min, max := this.Domain()
	switch {
	case math.IsNaN(t) || t < min-Epsilon || t > max+Epsilon:
		return 0, &DomainError{Op: op, T: t, Min: min, Max: max}
	case t < min:
		return min, nil
	case t > max:
		return max, nil
	}
	return t, nil
}

// FindSpan returns the knot span index i with knots[i] <= t < knots[i+1],
// or n when t is the right end of the domain. n is the highest control point
// index and k the degree. t must lie in [knots[k], knots[n+1]].
func FindSpan(n, k int, t float64, knots []float64) int {
	return internal.KnotVec(knots).SpanGivenN(n, k, t)
}

// BasisFunctions evaluates the degree+1 non-vanishing B-spline basis
// functions on span at t with the triangular Cox–de Boor recurrence.
func BasisFunctions(span int, t float64, degree int, knots []float64) []float64 {
	return internal.BasisFunctionsGivenKnotSpanIndex(span, t, degree, knots)
}
