package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF draws the scene as vector lines on a single page.
func WritePDF(w io.Writer, sc *Scene, title string, opt ImageOptions) error {
	opt = opt.withDefaults()
	pageW, pageH := float64(opt.Width), float64(opt.Height)

	// points give a 1:1 mapping from the frame to the page
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.SetTitle(title, false)
	pdf.SetFont("Helvetica", "", 10)
	pdf.AddPage()

	// gofpdf has y pointing down as well
	f := newFrame(sc, opt.View, pageW, pageH, opt.Margin)

	for _, l := range sc.Lines {
		pdf.SetDrawColor(int(l.Color.R), int(l.Color.G), int(l.Color.B))
		pdf.SetLineWidth(l.Width)
		for i := 1; i < len(l.Points); i++ {
			x0, y0 := f.apply(l.Points[i-1])
			x1, y1 := f.apply(l.Points[i])
			pdf.Line(x0, y0, x1, y1)
		}
	}

	for _, m := range sc.Markers {
		x, y := f.apply(m.At)
		pdf.SetFillColor(int(m.Color.R), int(m.Color.G), int(m.Color.B))
		pdf.Circle(x, y, m.Radius, "F")
	}

	if title != "" {
		pdf.SetTextColor(0, 0, 0)
		pdf.Text(opt.Margin/2, opt.Margin/2+5, title)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
