package nurbs

import (
	"math"

	"github.com/pqminh27/nurbs/internal"
	"github.com/ungerik/go3d/float64/mat4"
	"github.com/ungerik/go3d/float64/vec3"
)

type UV [2]float64

// SurfaceSample is a surface point with its first partial derivatives and
// the unnormalized normal Su × Sv at one (u, v).
type SurfaceSample struct {
	UV         UV
	Point      vec3.T
	Su, Sv     vec3.T
	Normal     vec3.T
	Degenerate bool // normal vanishes, e.g. at a collapsed apex
}

func newSurfaceSample(u, v float64, pt, su, sv vec3.T) SurfaceSample {
	normal := vec3.Cross(&su, &sv)
	return SurfaceSample{
		UV:         UV{u, v},
		Point:      pt,
		Su:         su,
		Sv:         sv,
		Normal:     normal,
		Degenerate: isDegenerateNormal(&su, &sv, &normal),
	}
}

// isDegenerateNormal reports whether n = su × sv carries no direction. The
// test is relative to the partials, so it does not depend on the size of the
// geometry: a partial that is negligible next to the other, or partials that
// are parallel, both make the normal degenerate.
func isDegenerateNormal(su, sv, n *vec3.T) bool {
	a, b := su.Length(), sv.Length()
	if math.Min(a, b) <= Tolerance*math.Max(a, b) {
		return true
	}
	return n.Length() <= Tolerance*a*b
}

// SurfaceEvaluator evaluates a parametric surface over [0,1]x[0,1].
// Implementations must be safe for concurrent use.
type SurfaceEvaluator interface {
	Evaluate(u, v float64) (SurfaceSample, error)
}

type NurbsSurface struct {
	// 2d array of control points, the first index runs along u, the second along v,
	// each a homogeneous coordinate
	controlPoints [][]internal.HomoPoint

	// knot vector in u direction, fixes degreeU
	kvU *KnotVector

	// knot vector in v direction, fixes degreeV
	kvV *KnotVector
}

// NewNurbsSurface builds a tensor-product surface. controlPoints[i][j] and
// weights[i][j] belong to basis function i in u and j in v.
func NewNurbsSurface(degreeU, degreeV int, controlPoints [][]vec3.T, weights [][]float64, knotsU, knotsV []float64) (*NurbsSurface, error) {
	const op = "nurbs surface"

	if len(controlPoints) == 0 || len(controlPoints[0]) == 0 {
		return nil, configErrorf(op, "control point grid is empty")
	}
	if len(weights) != len(controlPoints) {
		return nil, configErrorf(op, "%d weight rows for %d control point rows", len(weights), len(controlPoints))
	}
	for i, row := range controlPoints {
		if len(row) != len(controlPoints[0]) || len(weights[i]) != len(row) {
			return nil, configErrorf(op, "control point row %d is ragged", i)
		}
	}

	kvU, err := NewKnotVector(degreeU, len(controlPoints), knotsU)
	if err != nil {
		return nil, err
	}
	kvV, err := NewKnotVector(degreeV, len(controlPoints[0]), knotsV)
	if err != nil {
		return nil, err
	}

	return &NurbsSurface{internal.Homogenize2d(controlPoints, weights), kvU, kvV}, nil
}

func (this *NurbsSurface) DegreeU() int {
	return this.kvU.degree
}

func (this *NurbsSurface) DegreeV() int {
	return this.kvV.degree
}

func (this *NurbsSurface) ControlPoints() [][]vec3.T {
	return internal.Dehomogenize2d(this.controlPoints)
}

func (this *NurbsSurface) Weights() [][]float64 {
	return internal.Weight2d(this.controlPoints)
}

func (this *NurbsSurface) KnotsU() []float64 {
	return this.kvU.Knots()
}

func (this *NurbsSurface) KnotsV() []float64 {
	return this.kvV.Knots()
}

func (this *NurbsSurface) DomainU() (min, max float64) {
	return this.kvU.Domain()
}

func (this *NurbsSurface) DomainV() (min, max float64) {
	return this.kvV.Domain()
}

func (this *NurbsSurface) Transform(mat *mat4.T) *NurbsSurface {
	pts := internal.Dehomogenize2d(this.controlPoints)

	for i := range pts {
		for j := range pts[i] {
			pts[i][j] = mat.MulVec3(&pts[i][j])
		}
	}

	return &NurbsSurface{
		internal.Homogenize2d(pts, internal.Weight2d(this.controlPoints)),
		this.kvU,
		this.kvV,
	}
}

// Compute the normal Su × Sv at a point on a NURBS surface
//
// **params**
// + u and v parameter
//
// **returns**
// + the normal, not normalized
func (this *NurbsSurface) Normal(uv UV) (vec3.T, error) {
	derivs, err := this.Derivatives(uv, 1)
	if err != nil {
		return vec3.Zero, err
	}
	return vec3.Cross(&derivs[1][0], &derivs[0][1]), nil
}

// Evaluate implements SurfaceEvaluator.
func (this *NurbsSurface) Evaluate(u, v float64) (SurfaceSample, error) {
	derivs, err := this.Derivatives(UV{u, v}, 1)
	if err != nil {
		return SurfaceSample{}, err
	}
	return newSurfaceSample(u, v, derivs[0][0], derivs[1][0], derivs[0][1]), nil
}

// Compute the derivatives at a point on a NURBS surface
// (corresponds to algorithm 4.4 from The NURBS book, Piegl & Tiller 2nd edition)
//
// **params**
// + u and v parameter at which to evaluate the derivatives
// + number of derivatives to evaluate
//
// **returns**
// + a 2d jagged array: skl[k][l] is the kth derivative in u and lth in v,
// k+l <= numDerivs
func (this *NurbsSurface) Derivatives(uv UV, numDerivs int) ([][]vec3.T, error) {
	const op = "surface derivatives"

	if numDerivs < 0 {
		return nil, configErrorf(op, "negative derivative count %d", numDerivs)
	}

	uv, err := this.clamp(op, uv)
	if err != nil {
		return nil, err
	}

	ders := this.nonRationalDerivatives(uv, numDerivs)
	wder := func(k, l int) float64 {
		if k < len(ders) && l < len(ders[k]) {
			return ders[k][l].W
		}
		return 0
	}
	if w := wder(0, 0); math.Abs(w) < Epsilon {
		return nil, &DegeneracyError{Op: op, Denominator: w}
	}

	skl := make([][]vec3.T, numDerivs+1)
	for k := 0; k <= numDerivs; k++ {
		skl[k] = make([]vec3.T, numDerivs+1-k)

		for l := 0; l <= numDerivs-k; l++ {
			var v vec3.T
			if k < len(ders) && l < len(ders[k]) {
				v = ders[k][l].Vec3
			}

			for j := 1; j <= l; j++ {
				scaled := skl[k][l-j].Scaled(binomial(l, j) * wder(0, j))
				v.Sub(&scaled)
			}

			for i := 1; i <= k; i++ {
				scaled := skl[k-i][l].Scaled(binomial(k, i) * wder(i, 0))
				v.Sub(&scaled)

				var v2 vec3.T

				for j := 1; j <= l; j++ {
					scaled := skl[k-i][l-j].Scaled(binomial(l, j) * wder(i, j))
					v2.Add(&scaled)
				}

				scaled = v2.Scaled(binomial(k, i))
				v.Sub(&scaled)
			}

			v.Scale(1 / wder(0, 0))
			skl[k][l] = v
		}
	}

	return skl, nil
}

//
// Compute a point on a NURBS surface
//
// **params**
// + u and v parameter at which to evaluate the surface point
//
// **returns**
// + the point, or a *DomainError / *DegeneracyError
func (this *NurbsSurface) Point(uv UV) (vec3.T, error) {
	uv, err := this.clamp("surface point", uv)
	if err != nil {
		return vec3.Zero, err
	}

	homoPt := this.nonRationalPoint(uv)
	if math.Abs(homoPt.W) < Epsilon {
		return vec3.Zero, &DegeneracyError{Op: "surface point", Denominator: homoPt.W}
	}
	return homoPt.Dehomogenized(), nil
}

func (this *NurbsSurface) clamp(op string, uv UV) (UV, error) {
	u, err := this.kvU.clamp(op, uv[0])
	if err != nil {
		return uv, err
	}
	v, err := this.kvV.clamp(op, uv[1])
	if err != nil {
		return uv, err
	}
	return UV{u, v}, nil
}

// Compute the derivatives on a non-uniform, non-rational B spline surface
// (corresponds to algorithm 3.6 from The NURBS book, Piegl & Tiller 2nd edition)
//
// **params**
// + u and v parameter inside the domain
// + number of derivatives to evaluate
//
// **returns**
// + a 2d jagged array of homogeneous derivatives - u derivatives increase by row, v by column
func (this *NurbsSurface) nonRationalDerivatives(uv UV, numDerivs int) [][]internal.HomoPoint {
	degreeU, degreeV := this.kvU.degree, this.kvV.degree
	knotsU, knotsV := this.kvU.knots, this.kvV.knots
	controlPoints := this.controlPoints

	du := numDerivs
	if du > degreeU {
		du = degreeU
	}
	dv := numDerivs
	if dv > degreeV {
		dv = degreeV
	}

	skl := make([][]internal.HomoPoint, du+1)
	for i := range skl {
		skl[i] = make([]internal.HomoPoint, dv+1)
	}

	knotSpanIndexU := knotsU.SpanGivenN(this.kvU.count-1, degreeU, uv[0])
	knotSpanIndexV := knotsV.SpanGivenN(this.kvV.count-1, degreeV, uv[1])
	uders := internal.DerivativeBasisFunctionsGivenNI(knotSpanIndexU, uv[0], degreeU, du, knotsU)
	vders := internal.DerivativeBasisFunctionsGivenNI(knotSpanIndexV, uv[1], degreeV, dv, knotsV)
	temp := make([]internal.HomoPoint, degreeV+1)

	for k := 0; k <= du; k++ {
		for s := range temp {
			temp[s] = internal.HomoPoint{}

			for r := 0; r <= degreeU; r++ {
				scaled := controlPoints[knotSpanIndexU-degreeU+r][knotSpanIndexV-degreeV+s].Scaled(uders[k][r])
				temp[s].Add(&scaled)
			}
		}

		dd := numDerivs - k
		if dd > dv {
			dd = dv
		}

		for l := 0; l <= dd; l++ {
			for s := 0; s <= degreeV; s++ {
				scaled := temp[s].Scaled(vders[l][s])
				skl[k][l].Add(&scaled)
			}
		}
	}

	return skl
}

// Compute a point on a non-uniform, non-rational B spline surface
// (corresponds to algorithm 3.5 from The NURBS book, Piegl & Tiller 2nd edition)
func (this *NurbsSurface) nonRationalPoint(uv UV) internal.HomoPoint {
	degreeU, degreeV := this.kvU.degree, this.kvV.degree
	knotsU, knotsV := this.kvU.knots, this.kvV.knots
	controlPoints := this.controlPoints

	knotSpanIndexU := knotsU.SpanGivenN(this.kvU.count-1, degreeU, uv[0])
	knotSpanIndexV := knotsV.SpanGivenN(this.kvV.count-1, degreeV, uv[1])
	uBasisVals := internal.BasisFunctionsGivenKnotSpanIndex(knotSpanIndexU, uv[0], degreeU, knotsU)
	vBasisVals := internal.BasisFunctionsGivenKnotSpanIndex(knotSpanIndexV, uv[1], degreeV, knotsV)
	uind := knotSpanIndexU - degreeU
	var position internal.HomoPoint

	for l := 0; l <= degreeV; l++ {
		var temp internal.HomoPoint
		vind := knotSpanIndexV - degreeV + l

		// sample u isoline
		for k := 0; k <= degreeU; k++ {
			scaled := controlPoints[uind+k][vind].Scaled(uBasisVals[k])
			temp.Add(&scaled)
		}

		// add point from u isoline
		temp.Scale(vBasisVals[l])
		position.Add(&temp)
	}

	return position
}
