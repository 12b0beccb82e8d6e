// Package export writes kernel output for other programs: meshes and curve
// samples as JSON or Wavefront OBJ, and 2D previews as PNG or PDF.
package export

import (
	"image/color"
	"math"

	"github.com/pqminh27/nurbs"
	"github.com/pqminh27/nurbs/bounds"
	"github.com/ungerik/go3d/float64/vec3"
)

var (
	ColorSurface = color.RGBA{R: 40, G: 90, B: 200, A: 255}
	ColorCurve   = color.RGBA{R: 200, G: 40, B: 40, A: 255}
	ColorControl = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	ColorMarker  = color.RGBA{R: 20, G: 20, B: 20, A: 255}
)

type Polyline struct {
	Points []vec3.T
	Color  color.RGBA
	Width  float64
}

type Marker struct {
	At     vec3.T
	Radius float64
	Color  color.RGBA
}

// Scene is a set of 3D polylines and point markers to be projected onto a
// page or an image.
type Scene struct {
	Lines   []Polyline
	Markers []Marker
}

func (this *Scene) Bounds() bounds.BoundingBox {
	var bb bounds.BoundingBox
	for _, l := range this.Lines {
		for i := range l.Points {
			bb.Add(&l.Points[i])
		}
	}
	for i := range this.Markers {
		bb.Add(&this.Markers[i].At)
	}
	return bb
}

func strips(m *nurbs.Mesh, indices []uint32, length int, col color.RGBA) []Polyline {
	var lines []Polyline
	for start := 0; start+length <= len(indices); start += length {
		pts := make([]vec3.T, length)
		for k, idx := range indices[start : start+length] {
			pts[k] = m.Position(int(idx))
		}
		lines = append(lines, Polyline{Points: pts, Color: col, Width: 1})
	}
	return lines
}

// MeshScene draws the row and column lines of a tessellated surface and,
// when given, the control net as segment pairs over control.
func MeshScene(m *nurbs.Mesh, control []vec3.T, controlLines []uint32) *Scene {
	sc := &Scene{}
	sc.Lines = append(sc.Lines, strips(m, m.RowLines, m.Cols, ColorSurface)...)
	sc.Lines = append(sc.Lines, strips(m, m.ColumnLines, m.Rows, ColorSurface)...)

	for k := 0; k+1 < len(controlLines); k += 2 {
		a, b := controlLines[k], controlLines[k+1]
		sc.Lines = append(sc.Lines, Polyline{
			Points: []vec3.T{control[a], control[b]},
			Color:  ColorControl,
			Width:  0.5,
		})
	}
	for _, p := range control {
		sc.Markers = append(sc.Markers, Marker{At: p, Radius: 3, Color: ColorMarker})
	}
	return sc
}

// CurveScene draws sampled curve points as one polyline over the control
// polygon, with optional reference points as small markers.
func CurveScene(s *nurbs.CurveSamples, control []nurbs.ControlPoint, reference []vec3.T) *Scene {
	sc := &Scene{}

	if len(control) > 1 {
		poly := Polyline{Color: ColorControl, Width: 0.5}
		for _, cp := range control {
			poly.Points = append(poly.Points, cp.Pos)
			sc.Markers = append(sc.Markers, Marker{At: cp.Pos, Radius: 3, Color: ColorMarker})
		}
		sc.Lines = append(sc.Lines, poly)
	}

	curve := Polyline{Color: ColorCurve, Width: 1.5}
	for i := 0; i < s.Count(); i++ {
		curve.Points = append(curve.Points, s.Point(i))
	}
	sc.Lines = append(sc.Lines, curve)

	for _, p := range reference {
		sc.Markers = append(sc.Markers, Marker{At: p, Radius: 1.5, Color: ColorSurface})
	}
	return sc
}

// View orients the scene before the orthographic projection: Yaw turns
// about z, then Pitch tilts about the screen x axis, both in radians.
type View struct {
	Yaw, Pitch float64
}

// TopView looks straight down the z axis.
var TopView = View{}

// ObliqueView shows height as well as the xy plane.
var ObliqueView = View{Yaw: -math.Pi / 6, Pitch: -math.Pi / 3}

func (v View) project(p vec3.T) (x, y float64) {
	sy, cy := math.Sincos(v.Yaw)
	sp, cp := math.Sincos(v.Pitch)

	x = cy*p[0] - sy*p[1]
	y0 := sy*p[0] + cy*p[1]
	y = cp*y0 - sp*p[2]
	return x, y
}

// frame maps projected scene coordinates into a width×height canvas with
// y pointing down, preserving the aspect ratio.
type frame struct {
	view       View
	scale      float64
	minX, minY float64
	offX, offY float64
	height     float64
}

func newFrame(sc *Scene, view View, width, height, margin float64) frame {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	visit := func(p vec3.T) {
		x, y := view.project(p)
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	for _, l := range sc.Lines {
		for _, p := range l.Points {
			visit(p)
		}
	}
	for _, m := range sc.Markers {
		visit(m.At)
	}

	f := frame{view: view, scale: 1, height: height}
	if math.IsInf(minX, 1) {
		return f
	}

	w, h := maxX-minX, maxY-minY
	availW, availH := width-2*margin, height-2*margin
	switch {
	case w == 0 && h == 0:
		f.scale = 1
	case w == 0:
		f.scale = availH / h
	case h == 0:
		f.scale = availW / w
	default:
		f.scale = math.Min(availW/w, availH/h)
	}

	f.minX, f.minY = minX, minY
	f.offX = margin + (availW-w*f.scale)/2
	f.offY = margin + (availH-h*f.scale)/2
	return f
}

func (f frame) apply(p vec3.T) (x, y float64) {
	px, py := f.view.project(p)
	x = f.offX + (px-f.minX)*f.scale
	y = f.height - (f.offY + (py-f.minY)*f.scale)
	return x, y
}
