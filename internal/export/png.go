package export

import (
	"fmt"
	"io"

	"github.com/gogpu/gg"
)

// ImageOptions sizes a preview. Width and Height are pixels for PNG and
// points for PDF.
type ImageOptions struct {
	Width, Height int
	Margin        float64
	View          View
}

func (o ImageOptions) withDefaults() ImageOptions {
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 600
	}
	if o.Margin <= 0 {
		o.Margin = 20
	}
	return o
}

// WritePNG rasterizes the scene onto a white canvas and encodes it as PNG.
func WritePNG(w io.Writer, sc *Scene, opt ImageOptions) error {
	opt = opt.withDefaults()

	dc := gg.NewContext(opt.Width, opt.Height)
	defer dc.Close()

	dc.ClearWithColor(gg.White)
	f := newFrame(sc, opt.View, float64(opt.Width), float64(opt.Height), opt.Margin)

	for _, l := range sc.Lines {
		if len(l.Points) < 2 {
			continue
		}
		dc.SetColor(l.Color)
		dc.SetLineWidth(l.Width)
		for i, p := range l.Points {
			x, y := f.apply(p)
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("stroke polyline: %w", err)
		}
	}

	for _, m := range sc.Markers {
		x, y := f.apply(m.At)
		dc.SetColor(m.Color)
		dc.DrawCircle(x, y, m.Radius)
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("fill marker: %w", err)
		}
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
