package nurbs

import (
	"math"

	"github.com/pqminh27/nurbs/internal"

	"github.com/ungerik/go3d/float64/mat4"
	"github.com/ungerik/go3d/float64/vec3"
)

// NurbsCurve is a rational B-spline curve over a validated knot vector.
// It is immutable to the client, so a single value may be evaluated from
// several goroutines.
type NurbsCurve struct {
	// caller-facing control points, returned by ControlPoints
	points []ControlPoint

	// the same control points as homogeneous coordinates (w*p, w)
	controlPoints []internal.HomoPoint

	kv *KnotVector

	// knot vector one degree lower, carries the first derivative
	dkv *KnotVector
}

// NewNurbsCurve pairs control points with a knot vector. The knot vector
// fixes the degree and the number of control points it accepts.
func NewNurbsCurve(controlPoints []ControlPoint, kv *KnotVector) (*NurbsCurve, error) {
	const op = "nurbs curve"

	if kv == nil {
		return nil, configErrorf(op, "knot vector is nil")
	}
	if len(controlPoints) != kv.count {
		return nil, configErrorf(op, "%d control points for a knot vector built for %d", len(controlPoints), kv.count)
	}
	for i, cp := range controlPoints {
		if math.IsNaN(cp.W) || math.IsInf(cp.W, 0) {
			return nil, configErrorf(op, "weight %d is not finite", i)
		}
	}

	dkv, err := kv.Derivative()
	if err != nil {
		return nil, err
	}

	pts := append([]ControlPoint(nil), controlPoints...)
	homo := make([]internal.HomoPoint, len(pts))
	for i, cp := range pts {
		homo[i] = cp.homogenized()
	}

	return &NurbsCurve{points: pts, controlPoints: homo, kv: kv, dkv: dkv}, nil
}

func (this *NurbsCurve) Degree() int {
	return this.kv.degree
}

func (this *NurbsCurve) ControlPoints() []ControlPoint {
	return append([]ControlPoint(nil), this.points...)
}

func (this *NurbsCurve) Weights() []float64 {
	return internal.Weight1d(this.controlPoints)
}

func (this *NurbsCurve) KnotVector() *KnotVector {
	return this.kv
}

func (this *NurbsCurve) Knots() []float64 {
	return this.kv.Knots()
}

// Determine the valid domain of the curve
//
// **returns**
// + the start and end parameter of the domain
func (this *NurbsCurve) Domain() (min, max float64) {
	return this.kv.Domain()
}

// Closed reports whether the first and the last control point coincide.
func (this *NurbsCurve) Closed() bool {
	first := this.points[0].Pos
	last := this.points[len(this.points)-1].Pos
	return vec3.SquareDistance(&first, &last) < Epsilon
}

// Compute a point on a NURBS curve
//
// **params**
// + parameter on the curve at which the point is to be evaluated
//
// **returns**
// + the point, a *DomainError for a parameter outside the domain or a
// *DegeneracyError when the weighted basis sum vanishes
func (this *NurbsCurve) Point(u float64) (vec3.T, error) {
	span, basis, err := this.kv.Basis(u)
	if err != nil {
		return vec3.Zero, err
	}
	return EvaluateRational(this.points, span, this.kv.degree, basis)
}

// Compute the first derivative at a point on a NURBS curve through the
// derivative basis
//
// **params**
// + u parameter
//
// **returns**
// + the tangent, not normalized
func (this *NurbsCurve) Tangent(u float64) (vec3.T, error) {
	_, tangent, err := rationalDerivative(this.points, this.kv, this.dkv, u)
	return tangent, err
}

//
// Determine the derivatives of a NURBS curve at a given parameter
// (corresponds to algorithm 4.2 from The NURBS book, Piegl & Tiller 2nd edition)
//
// **params**
// + parameter on the curve at which the point is to be evaluated
// + number of derivatives to evaluate
//
// **returns**
// + the point followed by numDerivs derivatives; derivatives above the
// degree of a polynomial piece are still carried by the rational recurrence
//
func (this *NurbsCurve) Derivatives(u float64, numDerivs int) ([]vec3.T, error) {
	if numDerivs < 0 {
		return nil, configErrorf("curve derivatives", "negative derivative count %d", numDerivs)
	}

	u, err := this.kv.clamp("curve derivatives", u)
	if err != nil {
		return nil, err
	}

	ders := this.nonRationalDerivatives(u, numDerivs)
	if math.Abs(ders[0].W) < Epsilon {
		return nil, &DegeneracyError{Op: "curve derivatives", Denominator: ders[0].W}
	}

	ck := make([]vec3.T, 0, numDerivs+1)
	for k := 0; k <= numDerivs; k++ {
		var v vec3.T
		if k < len(ders) {
			v = ders[k].Vec3
		}

		for i := 1; i <= k; i++ {
			if i >= len(ders) {
				break
			}
			scaled := ck[k-i].Scaled(binomial(k, i) * ders[i].W)
			v.Sub(&scaled)
		}
		v.Scale(1 / ders[0].W)
		ck = append(ck, v)
	}

	return ck, nil
}

// Determine the derivatives of a non-uniform, non-rational B-spline curve in
// homogeneous space at a given parameter
// (corresponds to algorithm 3.2 from The NURBS book, Piegl & Tiller 2nd edition)
//
// **params**
// + parameter inside the domain
// + number of derivatives to evaluate
//
// **returns**
// + min(numDerivs, degree)+1 homogeneous derivatives; the rest are zero
func (this *NurbsCurve) nonRationalDerivatives(u float64, numDerivs int) []internal.HomoPoint {
	degree := this.kv.degree
	knots := this.kv.knots

	du := numDerivs
	if du > degree {
		du = degree
	}

	ck := make([]internal.HomoPoint, du+1)
	knotSpanIndex := knots.SpanGivenN(this.kv.count-1, degree, u)
	nders := internal.DerivativeBasisFunctionsGivenNI(knotSpanIndex, u, degree, du, knots)

	for k := 0; k <= du; k++ {
		for j := 0; j <= degree; j++ {
			scaled := this.controlPoints[knotSpanIndex-degree+j].Scaled(nders[k][j])
			ck[k].Add(&scaled)
		}
	}

	return ck
}

// Transform returns a copy of the curve with every control point mapped by
// mat. Weights and knots are shared; rational curves are invariant under
// affine maps of their control points.
func (this *NurbsCurve) Transform(mat *mat4.T) *NurbsCurve {
	pts := make([]ControlPoint, len(this.points))
	homo := make([]internal.HomoPoint, len(this.points))
	for i, cp := range this.points {
		cp.Pos = mat.MulVec3(&cp.Pos)
		pts[i] = cp
		homo[i] = cp.homogenized()
	}

	return &NurbsCurve{points: pts, controlPoints: homo, kv: this.kv, dkv: this.dkv}
}

// CurveSamples holds count points sampled at equally spaced parameters,
// flattened into Dim float32 components each so they can be uploaded as a
// vertex buffer without conversion.
type CurveSamples struct {
	Dim    int       `json:"dim"`
	Params []float64 `json:"params"`
	Points []float32 `json:"points"`
}

func (this *CurveSamples) Count() int {
	return len(this.Params)
}

// Point returns sample i as a vector; a 2d sample has a zero z.
func (this *CurveSamples) Point(i int) vec3.T {
	var pt vec3.T
	for c := 0; c < this.Dim; c++ {
		pt[c] = float64(this.Points[i*this.Dim+c])
	}
	return pt
}

// LineIndices returns the segment pairs (i, i+1) of the sampled polyline.
func (this *CurveSamples) LineIndices() []uint32 {
	return PolylineIndices(this.Count())
}

//
// Sample a NURBS curve at equally spaced parametric intervals
//
// **params**
// + integer number of samples, at least 2
// + number of components per sample, 2 (x, y) or 3 (x, y, z)
//
// **returns**
// + the samples, first and last at the domain ends
//
func (this *NurbsCurve) Sample(count, dim int) (*CurveSamples, error) {
	const op = "curve sample"

	if count < 2 {
		return nil, configErrorf(op, "sample count %d must be at least 2", count)
	}
	if dim != 2 && dim != 3 {
		return nil, configErrorf(op, "dimension %d must be 2 or 3", dim)
	}

	start, end := this.Domain()
	step := (end - start) / float64(count-1)

	samples := &CurveSamples{
		Dim:    dim,
		Params: make([]float64, count),
		Points: make([]float32, 0, count*dim),
	}

	for i := range samples.Params {
		u := start + step*float64(i)
		if i == count-1 {
			u = end
		}

		pt, err := this.Point(u)
		if err != nil {
			return nil, err
		}

		samples.Params[i] = u
		for c := 0; c < dim; c++ {
			samples.Points = append(samples.Points, float32(pt[c]))
		}
	}

	Logger().Debug("curve sampled", "count", count, "dim", dim, "degree", this.kv.degree)

	return samples, nil
}

// LineIndices returns the segment pairs of the control polygon.
func (this *NurbsCurve) LineIndices() []uint32 {
	return PolylineIndices(len(this.points))
}

// PolylineIndices returns the 2(count-1) indices joining count consecutive
// vertices into line segments.
func PolylineIndices(count int) []uint32 {
	if count < 2 {
		return nil
	}

	indices := make([]uint32, 0, 2*(count-1))
	for i := 0; i < count-1; i++ {
		indices = append(indices, uint32(i), uint32(i+1))
	}

	return indices
}
