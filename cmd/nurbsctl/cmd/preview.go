package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pqminh27/nurbs"
	"github.com/pqminh27/nurbs/internal/config"
	"github.com/pqminh27/nurbs/internal/export"
	nmake "github.com/pqminh27/nurbs/make"
	"github.com/ungerik/go3d/float64/vec3"
)

func init() {
	RegisterCommand(&Command{
		Name:  "preview",
		Short: "Render a PNG or PDF preview",
		Long: `Render the configured curve or surface with its control polygon.

The curve is drawn as its sampled polyline; the triangle-circle preset
also shows points of the exact circle for comparison. The surface is
drawn as its grid row and column lines with the control net of the arc
and the apex. The output format follows the file extension.`,
		Usage: "nurbsctl preview [-config file] [-kind curve|surface] -out file.png|file.pdf [-view top|oblique] [-width w] [-height h]",
		Run:   runPreview,
	})
}

func runPreview(args []string) (err error) {
	fs, cfgPath := newFlagSet("preview")
	kind := fs.String("kind", "surface", "curve or surface")
	out := fs.String("out", "", "output file, .png or .pdf")
	viewName := fs.String("view", "", "top or oblique (top for curves, oblique for surfaces when empty)")
	width := fs.Int("width", 800, "image width")
	height := fs.Int("height", 600, "image height")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return fmt.Errorf("-out is required\n\nUsage: nurbsctl preview -out file.png")
	}

	ctx, cancel := signalContext()
	defer cancel()

	e, err := setup(ctx, *cfgPath, "preview")
	if err != nil {
		return err
	}
	defer e.close()

	var (
		sc    *export.Scene
		title string
		view  = export.ObliqueView
	)
	switch *kind {
	case "curve":
		sc, err = curveScene(e.cfg.Curve)
		title, view = e.cfg.Curve.Name, export.TopView
	case "surface":
		sc, err = e.surfaceScene(ctx)
		title = e.cfg.Surface.Name
	default:
		return fmt.Errorf("unknown kind %q (use curve or surface)", *kind)
	}
	if err != nil {
		return err
	}

	switch *viewName {
	case "":
	case "top":
		view = export.TopView
	case "oblique":
		view = export.ObliqueView
	default:
		return fmt.Errorf("unknown view %q (use top or oblique)", *viewName)
	}

	opt := export.ImageOptions{Width: *width, Height: *height, View: view}

	w, err := openOutput(*out)
	if err != nil {
		return err
	}
	defer closeOutput(w, &err)

	switch format := formatFromPath(*out, ""); format {
	case "png":
		err = export.WritePNG(w, sc, opt)
	case "pdf":
		err = export.WritePDF(w, sc, title, opt)
	default:
		return fmt.Errorf("unknown preview format %q (use .png or .pdf)", format)
	}
	if err != nil {
		return err
	}

	e.log.Info("preview written", slog.String("kind", *kind), slog.String("path", *out))
	return nil
}

func curveScene(c config.CurveConfig) (*export.Scene, error) {
	crv, err := c.Build()
	if err != nil {
		return nil, err
	}
	s, err := crv.Sample(c.Samples, 3)
	if err != nil {
		return nil, err
	}

	var reference []vec3.T
	if c.Preset == config.PresetTriangleCircle {
		reference, err = nmake.ReferenceCircle(c.Center[0], c.Center[1], c.Radius, 37)
		if err != nil {
			return nil, err
		}
	}
	return export.CurveScene(s, crv.ControlPoints(), reference), nil
}

func (e *env) surfaceScene(ctx context.Context) (*export.Scene, error) {
	srf, mesh, err := e.buildSurface(ctx)
	if err != nil {
		return nil, err
	}

	arc := srf.Arc().ControlPoints()
	control := make([]vec3.T, 0, len(arc)+1)
	for _, cp := range arc {
		control = append(control, cp.Pos)
	}
	control = append(control, srf.Apex())

	return export.MeshScene(mesh, control, nurbs.ControlPolygonIndices(len(arc))), nil
}
