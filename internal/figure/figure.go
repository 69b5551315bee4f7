// Package figure composes the three-panel summary figure: (a) the annotated
// micrograph, (b) example line profiles with trough markers, (c) the
// nanodomain width distribution with Gaussian fit overlays. The figure is
// written as both PNG and PDF.
package figure

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"

	"nanodomain-widths/internal/analysis"
	"nanodomain-widths/internal/config"
)

var (
	grey      = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	markerRed = color.RGBA{R: 255, A: 255}
)

// Render draws the figure and saves <out_name>.png and <out_name>.pdf under
// the working directory.
func Render(cfg config.Config, img image.Image, regions []analysis.Region) error {
	if len(regions) == 0 {
		return fmt.Errorf("figure: no regions to draw")
	}

	imgPanel, err := imagePanel(cfg, img)
	if err != nil {
		return err
	}
	// Panel (b) shows profiles from the last region processed.
	profPanel, err := profilePanel(cfg, regions[len(regions)-1])
	if err != nil {
		return err
	}
	distPanel, err := histPanel(cfg, regions)
	if err != nil {
		return err
	}

	w := vg.Length(cfg.FigWidthInch) * vg.Inch
	h := vg.Length(cfg.FigHeightInch) * vg.Inch

	for _, ext := range []string{".png", ".pdf"} {
		path := filepath.Join(cfg.Dir, cfg.OutName+ext)
		if err := save(path, ext, w, h, cfg.DPI, imgPanel, profPanel, distPanel); err != nil {
			return err
		}
		slog.Info("figure written", "path", path)
	}
	return nil
}

func save(path, ext string, w, h vg.Length, dpi int, imgPanel, profPanel, histPanel *plot.Plot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("figure: %w", err)
	}

	switch ext {
	case ".png":
		c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))
		drawPanels(draw.New(c), imgPanel, profPanel, histPanel)
		if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(f); err != nil {
			f.Close()
			return fmt.Errorf("figure: write %s: %w", path, err)
		}
	case ".pdf":
		c := vgpdf.New(w, h)
		drawPanels(draw.New(c), imgPanel, profPanel, histPanel)
		if _, err := c.WriteTo(f); err != nil {
			f.Close()
			return fmt.Errorf("figure: write %s: %w", path, err)
		}
	default:
		f.Close()
		return fmt.Errorf("figure: unsupported format %s", ext)
	}
	return f.Close()
}

// drawPanels lays the three plots out on one canvas: left half is the
// micrograph spanning the full height, the right half splits 5:2 between
// the profile strip and the histogram.
func drawPanels(dc draw.Canvas, imgPanel, profPanel, histPanel *plot.Plot) {
	const histFrac = 2.0 / 7.0

	imgPanel.Draw(sub(dc, 0, 0, 0.5, 1))
	profPanel.Draw(sub(dc, 0.5, histFrac, 1, 1))
	histPanel.Draw(sub(dc, 0.5, 0, 1, histFrac))
}

// sub crops dc to the given fractional rectangle, origin bottom-left.
func sub(dc draw.Canvas, x0, y0, x1, y1 float64) draw.Canvas {
	r := dc.Rectangle
	size := r.Size()
	return draw.Canvas{
		Canvas: dc.Canvas,
		Rectangle: vg.Rectangle{
			Min: vg.Point{X: r.Min.X + vg.Length(x0)*size.X, Y: r.Min.Y + vg.Length(y0)*size.Y},
			Max: vg.Point{X: r.Min.X + vg.Length(x1)*size.X, Y: r.Min.Y + vg.Length(y1)*size.Y},
		},
	}
}

// imagePanel draws the micrograph with scale bar, arrows, and region
// labels. Annotation coordinates come in image pixels (origin top-left) and
// are flipped to plot coordinates here.
func imagePanel(cfg config.Config, img image.Image) (*plot.Plot, error) {
	p := plot.New()
	styleTitle(p, "(a) Image, I_filter")
	p.HideAxes()

	w := float64(img.Bounds().Dx())
	h := float64(img.Bounds().Dy())

	p.Add(plotter.NewImage(img, 0, 0, w, h))

	flip := func(y float64) float64 { return h - y }

	// Scale bar: a filled rectangle plus its length label.
	bar := cfg.ScaleBar
	barPx := bar.LengthNm / bar.NmPerPixel
	rect := plotter.XYs{
		{X: bar.X, Y: flip(bar.Y)},
		{X: bar.X + barPx, Y: flip(bar.Y)},
		{X: bar.X + barPx, Y: flip(bar.Y + bar.Height)},
		{X: bar.X, Y: flip(bar.Y + bar.Height)},
	}
	poly, err := plotter.NewPolygon(rect)
	if err != nil {
		return nil, fmt.Errorf("figure: scale bar: %w", err)
	}
	poly.Color = color.Black
	poly.LineStyle.Width = 0
	p.Add(poly)

	labels := plotter.XYLabels{
		XYs: plotter.XYs{{
			X: bar.X + barPx + bar.LabelXOffs,
			Y: flip(bar.Y + bar.Height),
		}},
		Labels: []string{fmt.Sprintf("%g nm", bar.LengthNm)},
	}
	for _, rl := range cfg.RegionLabels {
		labels.XYs = append(labels.XYs, plotter.XY{X: rl.X, Y: flip(rl.Y)})
		labels.Labels = append(labels.Labels, rl.Text)
	}
	l, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, fmt.Errorf("figure: labels: %w", err)
	}
	for i := range l.TextStyle {
		l.TextStyle[i].Font.Size = 8
		if i > 0 { // region labels are white and centered on their point
			l.TextStyle[i].Color = color.White
			l.TextStyle[i].Font.Size = 9
			l.TextStyle[i].XAlign = text.XCenter
		}
	}
	p.Add(l)

	p.Add(arrowPlotter(cfg.BlackArrows, color.Black, flip))
	p.Add(arrowPlotter(cfg.RedArrows, markerRed, flip))

	return p, nil
}

func arrowPlotter(src []config.Arrow, c color.Color, flip func(float64) float64) arrows {
	a := arrows{
		color:     c,
		lineWidth: vg.Points(1),
		headLen:   vg.Points(5),
	}
	for _, s := range src {
		a.segs = append(a.segs, arrowSeg{
			x1: s.X1, y1: flip(s.Y1),
			x2: s.X2, y2: flip(s.Y2),
		})
	}
	return a
}

// profilePanel draws up to MaxProfiles example profiles, each offset
// vertically for visual separation, with trough tick markers.
func profilePanel(cfg config.Config, reg analysis.Region) (*plot.Plot, error) {
	p := plot.New()
	styleTitle(p, "(b) Line profile examples")
	styleAxes(p, "Distance (nm)", "")
	p.X.Min = 0
	p.X.Max = cfg.ProfileXMax
	p.Y.Tick.Marker = plot.ConstantTicks(nil)

	n := len(reg.Profiles)
	if n > cfg.MaxProfiles {
		n = cfg.MaxProfiles
	}

	for idx := 0; idx < n; idx++ {
		prof := reg.Profiles[idx]
		offset := cfg.ProfileOffset * float64(idx)

		pts := make(plotter.XYs, len(prof.Distance))
		for i := range prof.Distance {
			pts[i] = plotter.XY{X: prof.Distance[i], Y: prof.Intensity[i] + offset}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("figure: profile %d: %w", idx, err)
		}
		line.LineStyle.Color = grey
		line.LineStyle.Width = vg.Points(0.75)
		p.Add(line)

		marks := make(plotter.XYs, 0, len(reg.Troughs[idx]))
		for _, t := range reg.Troughs[idx] {
			marks = append(marks, plotter.XY{X: prof.Distance[t], Y: prof.Intensity[t] + offset})
		}
		if len(marks) == 0 {
			continue
		}
		s, err := plotter.NewScatter(marks)
		if err != nil {
			return nil, fmt.Errorf("figure: trough markers %d: %w", idx, err)
		}
		s.GlyphStyle.Color = markerRed
		s.GlyphStyle.Radius = vg.Points(2.5)
		s.GlyphStyle.Shape = tickGlyph{}
		p.Add(s)
	}

	return p, nil
}

// histPanel draws one step histogram per region with its dashed fit curve,
// and a legend of region labels plus a single "Fit" entry.
func histPanel(cfg config.Config, regions []analysis.Region) (*plot.Plot, error) {
	p := plot.New()
	styleTitle(p, "(c) Nanodomain width distribution")
	styleAxes(p, "Width (nm)", "Frequency")
	p.X.Min = 0
	p.X.Max = cfg.HistXMax
	p.Y.Tick.Marker = plot.ConstantTicks(nil)

	p.Legend.Top = true
	p.Legend.TextStyle.Font.Size = 8

	entries := legendEntries(regions)
	for i, reg := range regions {
		col := cfg.Color(i)

		steps, err := plotter.NewLine(staircase(reg.Edges, reg.Counts))
		if err != nil {
			return nil, fmt.Errorf("figure: histogram %s: %w", reg.Name, err)
		}
		steps.LineStyle.Color = col
		steps.LineStyle.Width = vg.Points(0.5)
		p.Add(steps)
		p.Legend.Add(entries[i], steps)

		xs, ys := reg.Fit.Curve(cfg.Fit.XMin, cfg.Fit.XMax, cfg.Fit.Steps)
		curve := make(plotter.XYs, len(xs))
		for j := range xs {
			curve[j] = plotter.XY{X: xs[j], Y: ys[j]}
		}
		fitLine, err := plotter.NewLine(curve)
		if err != nil {
			return nil, fmt.Errorf("figure: fit overlay %s: %w", reg.Name, err)
		}
		fitLine.LineStyle.Color = col
		fitLine.LineStyle.Width = vg.Points(0.75)
		fitLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(fitLine)
	}

	// One shared legend entry stands in for all the fit overlays.
	fitThumb, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 0}})
	if err != nil {
		return nil, fmt.Errorf("figure: legend: %w", err)
	}
	fitThumb.LineStyle.Color = grey
	fitThumb.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Legend.Add(entries[len(entries)-1], fitThumb)

	return p, nil
}

// legendEntries lists the legend labels in draw order: one per region plus
// the shared fit entry.
func legendEntries(regions []analysis.Region) []string {
	entries := make([]string, 0, len(regions)+1)
	for _, reg := range regions {
		entries = append(entries, reg.Label)
	}
	return append(entries, "Fit")
}

// staircase converts bin edges and counts into a step outline anchored to
// the baseline at both ends.
func staircase(edges, counts []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, 2*len(edges))
	pts = append(pts, plotter.XY{X: edges[0], Y: 0})
	for i, c := range counts {
		pts = append(pts, plotter.XY{X: edges[i], Y: c})
		pts = append(pts, plotter.XY{X: edges[i+1], Y: c})
	}
	pts = append(pts, plotter.XY{X: edges[len(edges)-1], Y: 0})
	return pts
}

func styleTitle(p *plot.Plot, title string) {
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = 9
	p.Title.TextStyle.Font.Variant = "Sans"
}

func styleAxes(p *plot.Plot, xlabel, ylabel string) {
	p.X.Label.Text = xlabel
	p.X.Label.TextStyle.Font.Size = 9
	p.X.Label.TextStyle.Font.Variant = "Sans"
	p.X.Tick.Label.Font.Size = 8
	p.X.Tick.Label.Font.Variant = "Sans"

	p.Y.Label.Text = ylabel
	p.Y.Label.TextStyle.Font.Size = 9
	p.Y.Label.TextStyle.Font.Variant = "Sans"
	p.Y.Tick.Label.Font.Size = 8
	p.Y.Tick.Label.Font.Variant = "Sans"
}
