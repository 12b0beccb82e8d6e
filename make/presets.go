package make

import (
	"math"

	"github.com/pqminh27/nurbs"
	"github.com/ungerik/go3d/float64/vec3"
)

// TriangleCircle returns the closed degree 2 curve tracing the circle of
// radius r around (x0, y0) in the plane z = 0. The control polygon is the
// circumscribed equilateral triangle: edge midpoints with weight 1
// alternate with corners weighted cos(60°) = 1/2, and the last point closes
// onto the first.
func TriangleCircle(x0, y0, r float64) (*nurbs.NurbsCurve, error) {
	h := r * math.Sqrt(3)

	points := []nurbs.ControlPoint{
		nurbs.Pt(x0+h/2, y0+r/2, 0, 1),
		nurbs.Pt(x0, y0+2*r, 0, 0.5),
		nurbs.Pt(x0-h/2, y0+r/2, 0, 1),
		nurbs.Pt(x0-h, y0-r, 0, 0.5),
		nurbs.Pt(x0, y0-r, 0, 1),
		nurbs.Pt(x0+h, y0-r, 0, 0.5),
		nurbs.Pt(x0+h/2, y0+r/2, 0, 1),
	}

	return nurbs.NewNurbsCurve(points, nurbs.PlanarSplineKnots())
}

// ReferenceCircle samples the circle of radius r around (x0, y0) at count
// equally spaced angles from 0 to 2π, both ends included.
func ReferenceCircle(x0, y0, r float64, count int) ([]vec3.T, error) {
	if count < 2 {
		return nil, &nurbs.ConfigurationError{Op: "reference circle", Reason: "at least 2 points are required"}
	}

	points := make([]vec3.T, count)
	dPhi := 2 * math.Pi / float64(count-1)
	for i := range points {
		phi := dPhi * float64(i)
		points[i] = vec3.T{x0 + r*math.Cos(phi), y0 + r*math.Sin(phi), 0}
	}

	return points, nil
}

// QuarterCone returns the sectorial surface over the quarter circle of
// radius r around (x0, y0) from (x0+r, y0) to (x0, y0+r), ruled toward the
// apex (x0, y0, height).
func QuarterCone(x0, y0, r, height float64) (*nurbs.SectorialSurface, error) {
	center := vec3.T{x0, y0, 0}
	arc := QuarterArc(&center, &vec3.UnitX, &vec3.UnitY, r)

	return nurbs.NewSectorialSurface(arc, vec3.T{x0, y0, height})
}
