package nurbs

import (
	"github.com/pqminh27/nurbs/bounds"
	"github.com/ungerik/go3d/float64/vec3"
)

// Mesh holds a tessellated surface as flat arrays ready for a vertex buffer.
// Vertex k = i*Cols+j has its position at Positions[3k:3k+3], its normal at
// Normals[3k:3k+3] and its (u, v) at UVs[2k:2k+2].
type Mesh struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`

	Positions []float32 `json:"positions"`
	Normals   []float32 `json:"normals"`
	UVs       []float32 `json:"uvs"`

	// Rows line strips of Cols indices each
	RowLines []uint32 `json:"rowLines"`
	// Cols line strips of Rows indices each
	ColumnLines []uint32 `json:"columnLines"`
	Triangles   []uint32 `json:"triangles"`

	// vertices whose normal vanished
	Degenerate []uint32 `json:"degenerate,omitempty"`
}

func (this *Mesh) VertexCount() int {
	return len(this.Positions) / 3
}

func (this *Mesh) TriangleCount() int {
	return len(this.Triangles) / 3
}

func (this *Mesh) Position(i int) vec3.T {
	return vec3.T{float64(this.Positions[3*i]), float64(this.Positions[3*i+1]), float64(this.Positions[3*i+2])}
}

func (this *Mesh) Normal(i int) vec3.T {
	return vec3.T{float64(this.Normals[3*i]), float64(this.Normals[3*i+1]), float64(this.Normals[3*i+2])}
}

func (this *Mesh) Triangle(t int) [3]uint32 {
	return [3]uint32{this.Triangles[3*t], this.Triangles[3*t+1], this.Triangles[3*t+2]}
}

// FacetNormal returns the unit normal of triangle t from its winding, zero
// when the triangle collapsed.
func (this *Mesh) FacetNormal(t int) vec3.T {
	return bounds.TriangleNormal(this.Positions, this.Triangle(t))
}

func (this *Mesh) Bounds() bounds.BoundingBox {
	var bb bounds.BoundingBox
	bb.AddFlat(this.Positions, 3)
	return bb
}
