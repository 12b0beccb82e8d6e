package make

import (
	"errors"
	"math"

	"github.com/pqminh27/nurbs"
	"github.com/pqminh27/nurbs/internal"
	"github.com/ungerik/go3d/float64/vec3"
)

var errCollinear = errors.New("make: arc control points are collinear")

// Generate the control points of a quarter arc
// (one segment of Algorithm A7.1 from Piegl & Tiller)
//
// **params**
// + the center of the arc
// + the xaxis of the arc, where the arc starts
// + orthogonal yaxis of the arc, where the arc ends
// + radius of the arc
//
// **returns**
// + the three control points to be weighted by nurbs.ArcWeights
func QuarterArc(center, xaxis, yaxis *vec3.T, radius float64) [3]vec3.T {
	xaxisNorm, yaxisNorm := xaxis.Normalized(), yaxis.Normalized()

	x := xaxisNorm.Scaled(radius)
	y := yaxisNorm.Scaled(radius)

	p0 := vec3.Add(center, &x)
	p2 := vec3.Add(center, &y)

	// the tangents at both ends meet at center + x + y
	p1 := vec3.Add(&p0, &y)

	return [3]vec3.T{p0, p1, p2}
}

// ArcCurve weights the three arc control points with nurbs.ArcWeights.
func ArcCurve(arc [3]vec3.T) (*nurbs.NurbsCurve, error) {
	points := make([]nurbs.ControlPoint, len(arc))
	for i, p := range arc {
		points[i] = nurbs.ControlPoint{Pos: p, W: nurbs.ArcWeights[i]}
	}
	return nurbs.NewNurbsCurve(points, nurbs.ArcKnots())
}

// Recover the center of the circle a quadratic arc lies on
//
// The center is where the normals of the control polygon at both ends
// meet. Both normals lie in the plane of the three points.
//
// **params**
// + first, middle and last arc control point
//
// **returns**
// + the center, or an error when the points are collinear
func ArcCenter(p0, p1, p2 *vec3.T) (vec3.T, error) {
	t0 := vec3.Sub(p1, p0)
	t2 := vec3.Sub(p2, p1)

	planeNormal := vec3.Cross(&t0, &t2)
	if planeNormal.Length() < internal.Tolerance {
		return vec3.Zero, errCollinear
	}

	n0 := vec3.Cross(&planeNormal, &t0)
	n2 := vec3.Cross(&planeNormal, &t2)

	// p0 + s*n0 = p2 + r*n2, projected onto t0 and t2
	d := vec3.Sub(p2, p0)
	s, r, ok := internal.Mat2Solve(
		vec3.Dot(&n0, &t0), -vec3.Dot(&n2, &t0),
		vec3.Dot(&n0, &t2), -vec3.Dot(&n2, &t2),
		vec3.Dot(&d, &t0), vec3.Dot(&d, &t2),
	)
	if !ok || math.IsNaN(r) {
		return vec3.Zero, errCollinear
	}

	offset := n0.Scaled(s)
	return vec3.Add(p0, &offset), nil
}
