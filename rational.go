package nurbs

import (
	"math"

	"github.com/pqminh27/nurbs/internal"
	"github.com/ungerik/go3d/float64/vec3"
)

// ControlPoint is a weighted control point. Selected belongs to the caller
// (picking and dragging state) and is never read by the kernel.
type ControlPoint struct {
	Pos      vec3.T
	W        float64
	Selected bool
}

// Pt returns the control point (x, y, z) with weight w.
func Pt(x, y, z, w float64) ControlPoint {
	return ControlPoint{Pos: vec3.T{x, y, z}, W: w}
}

func (this ControlPoint) homogenized() internal.HomoPoint {
	return internal.Homogenized(this.Pos, this.W)
}

// Compute the rational weights R_i = w_i*N_i / H with H = Σ w_i*N_i over the
// control points active on span
//
// **params**
// + control points, at least span+1 of them
// + knot span index
// + degree
// + the degree+1 basis values on span
//
// **returns**
// + degree+1 rational weights summing to one, or a *DegeneracyError when H is
// within Epsilon of zero
func RationalWeights(points []ControlPoint, span, degree int, basis []float64) ([]float64, error) {
	first := span - degree
	if first < 0 || span >= len(points) || len(basis) != degree+1 {
		return nil, configErrorf("rational weights", "span %d of degree %d does not fit %d control points and %d basis values",
			span, degree, len(points), len(basis))
	}

	var h float64
	for m, n := range basis {
		h += points[first+m].W * n
	}
	if math.Abs(h) < Epsilon || math.IsNaN(h) {
		return nil, &DegeneracyError{Op: "rational weights", Denominator: h}
	}

	r := make([]float64, degree+1)
	for m, n := range basis {
		r[m] = points[first+m].W * n / h
	}

	return r, nil
}

// EvaluateRational combines the basis values on span with the control point
// weights into the rational point Σ R_i * P_i.
func EvaluateRational(points []ControlPoint, span, degree int, basis []float64) (vec3.T, error) {
	r, err := RationalWeights(points, span, degree, basis)
	if err != nil {
		return vec3.Zero, err
	}

	first := span - degree
	var pt vec3.T
	for m, rm := range r {
		scaled := points[first+m].Pos.Scaled(rm)
		pt.Add(&scaled)
	}

	return pt, nil
}

// Compute a point and its first derivative on a rational curve using the
// one-degree-lower basis
//
// With Pw_i = (w_i*P_i, w_i), A(t) = Σ N_i,k Pw_i has the derivative
//
//	A'(t) = Σ N_i,k-1(t) * k / (U[i+k+1] - U[i+1]) * (Pw_i+1 - Pw_i)
//
// over the knot vector without its end knots, and C' = (A' - W'*C) / W.
//
// **params**
// + control points, kv.ControlCount() of them
// + knot vector of the curve
// + parameter
//
// **returns**
// + the point, the derivative, or an error
func RationalDerivative(points []ControlPoint, kv *KnotVector, t float64) (point, tangent vec3.T, err error) {
	dkv, err := kv.Derivative()
	if err != nil {
		return vec3.Zero, vec3.Zero, err
	}
	return rationalDerivative(points, kv, dkv, t)
}

func rationalDerivative(points []ControlPoint, kv, dkv *KnotVector, t float64) (point, tangent vec3.T, err error) {
	const op = "rational derivative"

	if len(points) != kv.count {
		return vec3.Zero, vec3.Zero, configErrorf(op, "%d control points for a knot vector of %d", len(points), kv.count)
	}

	span, basis, err := kv.Basis(t)
	if err != nil {
		return vec3.Zero, vec3.Zero, err
	}

	k := kv.degree
	var a internal.HomoPoint
	for m, n := range basis {
		scaled := points[span-k+m].homogenized()
		scaled.Scale(n)
		a.Add(&scaled)
	}
	if math.Abs(a.W) < Epsilon || math.IsNaN(a.W) {
		return vec3.Zero, vec3.Zero, &DegeneracyError{Op: op, Denominator: a.W}
	}
	point = a.Dehomogenized()

	dspan, dbasis, err := dkv.Basis(t)
	if err != nil {
		return vec3.Zero, vec3.Zero, err
	}

	var da internal.HomoPoint
	knots := kv.knots
	for m, n := range dbasis {
		i := dspan - dkv.degree + m
		width := knots[i+k+1] - knots[i+1]
		if width == 0 {
			continue
		}

		diff := points[i+1].homogenized()
		prev := points[i].homogenized()
		diff.Sub(&prev)
		diff.Scale(n * float64(k) / width)
		da.Add(&diff)
	}

	// C' = (A' - W'*C) / W
	tangent = point.Scaled(-da.W)
	tangent.Add(&da.Vec3)
	tangent.Scale(1 / a.W)

	return point, tangent, nil
}
