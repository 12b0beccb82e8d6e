package export

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"strings"
	"testing"

	"github.com/pqminh27/nurbs"
	nmake "github.com/pqminh27/nurbs/make"
	"github.com/ungerik/go3d/float64/vec3"
)

func coneMesh(t *testing.T, n, m int) (*nurbs.SectorialSurface, *nurbs.Mesh) {
	t.Helper()
	cone, err := nmake.QuarterCone(0, 0, 1, 5)
	if err != nil {
		t.Fatalf("QuarterCone: %v", err)
	}
	g, err := nurbs.NewGrid(n, m)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	mesh, err := nurbs.Tessellate(context.Background(), cone, g, nurbs.TessellateOptions{NormalizeNormals: true})
	if err != nil {
		t.Fatalf("Tessellate: %v", err)
	}
	return cone, mesh
}

func circleSamples(t *testing.T) (*nurbs.NurbsCurve, *nurbs.CurveSamples) {
	t.Helper()
	crv, err := nmake.TriangleCircle(0, 0, 1)
	if err != nil {
		t.Fatalf("TriangleCircle: %v", err)
	}
	s, err := crv.Sample(50, 2)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	return crv, s
}

func countPrefix(text, prefix string) int {
	n := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}

func TestWriteOBJ(t *testing.T) {
	_, mesh := coneMesh(t, 5, 4)

	var buf bytes.Buffer
	if err := WriteOBJ(&buf, mesh); err != nil {
		t.Fatalf("WriteOBJ: %v", err)
	}
	out := buf.String()

	if got := countPrefix(out, "v "); got != 20 {
		t.Errorf("got %d vertices, want 20", got)
	}
	if got := countPrefix(out, "vn "); got != 20 {
		t.Errorf("got %d normals, want 20", got)
	}
	if got := countPrefix(out, "vt "); got != 20 {
		t.Errorf("got %d texture coordinates, want 20", got)
	}
	if got := countPrefix(out, "f "); got != 24 {
		t.Errorf("got %d faces, want 24", got)
	}
	if !strings.Contains(out, "f 1/1/1 2/2/2 5/5/5\n") {
		t.Errorf("first face is not 1-based (a, c, b):\n%s", out)
	}
}

func TestWriteCurveOBJ(t *testing.T) {
	_, s := circleSamples(t)

	var buf bytes.Buffer
	if err := WriteCurveOBJ(&buf, s); err != nil {
		t.Fatalf("WriteCurveOBJ: %v", err)
	}
	out := buf.String()

	if got := countPrefix(out, "v "); got != 50 {
		t.Errorf("got %d vertices, want 50", got)
	}
	if got := countPrefix(out, "l "); got != 1 {
		t.Fatalf("got %d line elements, want 1", got)
	}
	if !strings.Contains(out, "l 1 2 3 ") || !strings.HasSuffix(out, " 50\n") {
		t.Errorf("line element does not join 1..50")
	}
}

func TestWriteJSONMesh(t *testing.T) {
	_, mesh := coneMesh(t, 3, 3)

	var buf bytes.Buffer
	if err := WriteJSON(&buf, mesh); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var got nurbs.Mesh
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Rows != 3 || got.Cols != 3 || len(got.Triangles) != 24 {
		t.Errorf("decoded mesh %dx%d with %d triangle indices", got.Rows, got.Cols, len(got.Triangles))
	}
	if len(got.Degenerate) != 3 {
		t.Errorf("got %d degenerate vertices, want the 3 apex samples", len(got.Degenerate))
	}
}

func TestWritePNG(t *testing.T) {
	cone, mesh := coneMesh(t, 6, 8)
	arc := cone.Arc().ControlPoints()
	control := []vec3.T{arc[0].Pos, arc[1].Pos, arc[2].Pos, cone.Apex()}
	sc := MeshScene(mesh, control, nurbs.ControlPolygonIndices(3))

	var buf bytes.Buffer
	if err := WritePNG(&buf, sc, ImageOptions{Width: 160, Height: 120, View: ObliqueView}); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 160 || b.Dy() != 120 {
		t.Errorf("image is %dx%d, want 160x120", b.Dx(), b.Dy())
	}
}

func TestWritePDF(t *testing.T) {
	crv, s := circleSamples(t)
	ref, err := nmake.ReferenceCircle(0, 0, 1, 20)
	if err != nil {
		t.Fatalf("ReferenceCircle: %v", err)
	}
	sc := CurveScene(s, crv.ControlPoints(), ref)

	var buf bytes.Buffer
	if err := WritePDF(&buf, sc, "circle", ImageOptions{}); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header")
	}
}

func TestFrameFitsScene(t *testing.T) {
	sc := &Scene{Lines: []Polyline{{Points: []vec3.T{{-2, -1, 0}, {2, 1, 0}}}}}
	f := newFrame(sc, TopView, 200, 100, 10)

	x0, y0 := f.apply(vec3.T{-2, -1, 0})
	x1, y1 := f.apply(vec3.T{2, 1, 0})

	if x0 < 10-1e-9 || x1 > 190+1e-9 {
		t.Errorf("x range [%g, %g] leaves the margins", x0, x1)
	}
	if y0 <= y1 {
		t.Errorf("y does not point down: %g <= %g", y0, y1)
	}
	if got := (x1 - x0) / (y0 - y1); got < 2-1e-9 || got > 2+1e-9 {
		t.Errorf("aspect ratio %g, want 2", got)
	}
}

func TestSceneBounds(t *testing.T) {
	_, s := circleSamples(t)
	sc := CurveScene(s, nil, nil)
	bb := sc.Bounds()

	for _, p := range []vec3.T{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}} {
		if !bb.Contains(&p, 0.05) {
			t.Errorf("bounds %v do not contain %v", bb, p)
		}
	}
}
