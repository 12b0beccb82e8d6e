package nurbs

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// Grid is an N×M sampling resolution. Row i has v = i/(N-1) and column j
// has u = j/(M-1); sample (i, j) is stored at index i*M+j.
type Grid struct {
	N, M int
}

// NewGrid validates the resolution; both sides need at least two samples.
func NewGrid(n, m int) (Grid, error) {
	if n < 2 || m < 2 {
		return Grid{}, configErrorf("grid", "resolution %dx%d, both sides must be at least 2", n, m)
	}
	return Grid{N: n, M: m}, nil
}

func (g Grid) VertexCount() int {
	return g.N * g.M
}

func (g Grid) Index(i, j int) uint32 {
	return uint32(i*g.M + j)
}

// Param maps grid index (i, j) to (u, v).
func (g Grid) Param(i, j int) (u, v float64) {
	u = float64(j) / float64(g.M-1)
	v = float64(i) / float64(g.N-1)
	return
}

// RowLineIndices returns N line strips of M indices each, row after row.
func (g Grid) RowLineIndices() []uint32 {
	indices := make([]uint32, 0, g.N*g.M)
	for i := 0; i < g.N; i++ {
		for j := 0; j < g.M; j++ {
			indices = append(indices, g.Index(i, j))
		}
	}
	return indices
}

// ColumnLineIndices returns M line strips of N indices each, column after
// column.
func (g Grid) ColumnLineIndices() []uint32 {
	indices := make([]uint32, 0, g.N*g.M)
	for j := 0; j < g.M; j++ {
		for i := 0; i < g.N; i++ {
			indices = append(indices, g.Index(i, j))
		}
	}
	return indices
}

// TriangleIndices returns two triangles per cell, 6(N-1)(M-1) indices. With
// a=(i,j), b=(i+1,j), c=(i,j+1), d=(i+1,j+1) the cell is split into (a,c,b)
// and (c,d,b), so each facet normal points along Su × Sv. Meshes wound as
// (a,b,c), (c,b,d) face the other way; a renderer expecting that order has
// to flip its front-face convention.
func (g Grid) TriangleIndices() []uint32 {
	indices := make([]uint32, 0, 6*(g.N-1)*(g.M-1))
	for i := 0; i < g.N-1; i++ {
		for j := 0; j < g.M-1; j++ {
			a := g.Index(i, j)
			b := g.Index(i+1, j)
			c := g.Index(i, j+1)
			d := g.Index(i+1, j+1)
			indices = append(indices, a, c, b, c, d, b)
		}
	}
	return indices
}

// ControlPolygonIndices returns line segments for a control net of k arc
// points followed by the apex at index k: the arc polyline, then one spoke
// from every arc point to the apex.
func ControlPolygonIndices(k int) []uint32 {
	indices := PolylineIndices(k)
	for i := 0; i < k; i++ {
		indices = append(indices, uint32(i), uint32(k))
	}
	return indices
}

type TessellateOptions struct {
	// Workers bounds the number of rows evaluated at once; zero means
	// GOMAXPROCS.
	Workers int

	// NormalizeNormals scales every non-degenerate normal to unit length.
	// Degenerate normals stay zero.
	NormalizeNormals bool
}

// Tessellate samples srf on every grid node and builds the flat position,
// normal and parameter arrays plus the index arrays. Rows are evaluated
// concurrently; the first failing sample cancels the rest and its error is
// returned unchanged.
func Tessellate(ctx context.Context, srf SurfaceEvaluator, g Grid, opts TessellateOptions) (*Mesh, error) {
	if _, err := NewGrid(g.N, g.M); err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	start := time.Now()
	count := g.VertexCount()
	mesh := &Mesh{
		Rows:      g.N,
		Cols:      g.M,
		Positions: make([]float32, 3*count),
		Normals:   make([]float32, 3*count),
		UVs:       make([]float32, 2*count),
	}
	degenerate := make([]bool, count)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i := 0; i < g.N; i++ {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			// every row owns a disjoint slice of the output arrays
			for j := 0; j < g.M; j++ {
				u, v := g.Param(i, j)
				s, err := srf.Evaluate(u, v)
				if err != nil {
					return err
				}

				n := s.Normal
				if opts.NormalizeNormals && !s.Degenerate {
					n.Normalize()
				}

				k := int(g.Index(i, j))
				degenerate[k] = s.Degenerate
				for c := 0; c < 3; c++ {
					mesh.Positions[3*k+c] = float32(s.Point[c])
					mesh.Normals[3*k+c] = float32(n[c])
				}
				mesh.UVs[2*k] = float32(u)
				mesh.UVs[2*k+1] = float32(v)
			}

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	for k, d := range degenerate {
		if d {
			mesh.Degenerate = append(mesh.Degenerate, uint32(k))
		}
	}

	mesh.RowLines = g.RowLineIndices()
	mesh.ColumnLines = g.ColumnLineIndices()
	mesh.Triangles = g.TriangleIndices()

	Logger().Debug("surface tessellated",
		"rows", g.N,
		"cols", g.M,
		"workers", workers,
		"degenerate", len(mesh.Degenerate),
		"elapsed", time.Since(start),
	)

	return mesh, nil
}
