package bounds

import (
	"github.com/ungerik/go3d/float64/vec3"
)

func vertex(positions []float32, i uint32) vec3.T {
	return vec3.T{
		float64(positions[3*i]),
		float64(positions[3*i+1]),
		float64(positions[3*i+2]),
	}
}

//
// Get triangle normal
//
// **params**
// + flat xyz positions
// + the three vertex indices of the triangle, in winding order
//
// **returns**
// + the unit normal, or zero for a collapsed triangle
//
func TriangleNormal(positions []float32, tri [3]uint32) vec3.T {
	v0 := vertex(positions, tri[0])
	v1 := vertex(positions, tri[1])
	v2 := vertex(positions, tri[2])

	v1.Sub(&v0)
	v2.Sub(&v0)
	n := vec3.Cross(&v1, &v2)
	if n.LengthSqr() == 0 {
		return vec3.Zero
	}

	return *n.Normalize()
}

//
// Get triangle centroid
//
// **params**
// + flat xyz positions
// + the three vertex indices of the triangle
//
// **returns**
// + the centroid
//
func TriangleCentroid(positions []float32, tri [3]uint32) vec3.T {
	var centroid vec3.T

	for _, iPt := range tri {
		v := vertex(positions, iPt)
		centroid.Add(&v)
	}

	return *centroid.Scale(1.0 / 3)
}
