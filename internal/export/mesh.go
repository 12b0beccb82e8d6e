package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pqminh27/nurbs"
)

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// WriteOBJ writes the mesh as Wavefront OBJ: positions, texture
// coordinates, normals and one face per triangle. Degenerate normals are
// written as they are (zero).
func WriteOBJ(w io.Writer, m *nurbs.Mesh) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %dx%d grid, %d vertices, %d triangles\n", m.Rows, m.Cols, m.VertexCount(), m.TriangleCount())
	for i := 0; i < m.VertexCount(); i++ {
		p := m.Positions[3*i : 3*i+3]
		fmt.Fprintf(bw, "v %g %g %g\n", p[0], p[1], p[2])
	}
	for i := 0; i < len(m.UVs)/2; i++ {
		fmt.Fprintf(bw, "vt %g %g\n", m.UVs[2*i], m.UVs[2*i+1])
	}
	for i := 0; i < len(m.Normals)/3; i++ {
		n := m.Normals[3*i : 3*i+3]
		fmt.Fprintf(bw, "vn %g %g %g\n", n[0], n[1], n[2])
	}

	// OBJ indices are 1-based
	for t := 0; t < m.TriangleCount(); t++ {
		tri := m.Triangle(t)
		fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n",
			tri[0]+1, tri[0]+1, tri[0]+1,
			tri[1]+1, tri[1]+1, tri[1]+1,
			tri[2]+1, tri[2]+1, tri[2]+1)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write obj: %w", err)
	}
	return nil
}

// WriteCurveOBJ writes sampled curve points as OBJ vertices joined by one
// line element.
func WriteCurveOBJ(w io.Writer, s *nurbs.CurveSamples) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %d samples\n", s.Count())
	for i := 0; i < s.Count(); i++ {
		p := s.Point(i)
		fmt.Fprintf(bw, "v %g %g %g\n", p[0], p[1], p[2])
	}
	bw.WriteString("l")
	for i := 1; i <= s.Count(); i++ {
		fmt.Fprintf(bw, " %d", i)
	}
	bw.WriteString("\n")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write obj: %w", err)
	}
	return nil
}
