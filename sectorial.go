package nurbs

import (
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// ArcWeights are the control weights of a quadratic rational arc spanning a
// right angle: the middle point carries cos(45°).
var ArcWeights = [3]float64{1, math.Sqrt2 / 2, 1}

// SectorialSurface is the ruled surface joining a quadratic rational arc
// C(u) to a single apex point:
//
//	S(u, v) = (1-v)·C(u) + v·Apex
//
// The row v = 1 collapses onto the apex, so its normal vanishes.
type SectorialSurface struct {
	arc  *NurbsCurve
	apex vec3.T
}

// NewSectorialSurface builds the surface over the arc with control points
// arc[0], arc[1], arc[2] weighted by ArcWeights.
func NewSectorialSurface(arc [3]vec3.T, apex vec3.T) (*SectorialSurface, error) {
	points := make([]ControlPoint, len(arc))
	for i, p := range arc {
		points[i] = ControlPoint{Pos: p, W: ArcWeights[i]}
	}

	curve, err := NewNurbsCurve(points, ArcKnots())
	if err != nil {
		return nil, err
	}

	return &SectorialSurface{arc: curve, apex: apex}, nil
}

// Arc returns the rational arc at v = 0.
func (this *SectorialSurface) Arc() *NurbsCurve {
	return this.arc
}

func (this *SectorialSurface) Apex() vec3.T {
	return this.apex
}

// Evaluate returns the point, the analytic partials and the normal at (u, v).
//
//	Su = (1-v)·C'(u)
//	Sv = Apex - C(u)
//	N  = Su × Sv
//
// Both parameters must lie in [0, 1].
func (this *SectorialSurface) Evaluate(u, v float64) (SurfaceSample, error) {
	if math.IsNaN(v) || v < -Epsilon || v > 1+Epsilon {
		return SurfaceSample{}, &DomainError{Op: "sectorial surface", T: v, Min: 0, Max: 1}
	}
	v = math.Min(math.Max(v, 0), 1)

	c, dc, err := rationalDerivative(this.arc.points, this.arc.kv, this.arc.dkv, u)
	if err != nil {
		return SurfaceSample{}, err
	}

	pt := vec3.Interpolate(&c, &this.apex, v)
	su := dc.Scaled(1 - v)
	sv := vec3.Sub(&this.apex, &c)

	return newSurfaceSample(u, v, pt, su, sv), nil
}

// Nurbs returns the same surface as a degree 2×1 tensor-product NURBS: every
// arc control point is paired with the apex and both carry the arc weight.
func (this *SectorialSurface) Nurbs() *NurbsSurface {
	cps := make([][]vec3.T, len(this.arc.points))
	weights := make([][]float64, len(this.arc.points))
	for i, cp := range this.arc.points {
		cps[i] = []vec3.T{cp.Pos, this.apex}
		weights[i] = []float64{cp.W, cp.W}
	}

	srf, err := NewNurbsSurface(2, 1, cps, weights, ArcKnots().Knots(), []float64{0, 0, 1, 1})
	if err != nil {
		// the arc was validated on construction
		panic(err)
	}
	return srf
}
