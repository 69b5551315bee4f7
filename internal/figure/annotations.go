package figure

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// arrowSeg is one arrow in data coordinates, tail to head.
type arrowSeg struct {
	x1, y1, x2, y2 float64
}

// arrows draws straight arrows with a filled triangular head. Unlike the
// line plotters, arrows are not clipped to the data rectangle, so markers
// can sit in the margin below the micrograph and point into it.
type arrows struct {
	segs      []arrowSeg
	color     color.Color
	lineWidth vg.Length
	headLen   vg.Length
}

func (a arrows) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)

	sty := draw.LineStyle{Color: a.color, Width: a.lineWidth}

	for _, s := range a.segs {
		tail := vg.Point{X: trX(s.x1), Y: trY(s.y1)}
		head := vg.Point{X: trX(s.x2), Y: trY(s.y2)}

		dx := float64(head.X - tail.X)
		dy := float64(head.Y - tail.Y)
		norm := math.Hypot(dx, dy)
		if norm == 0 {
			continue
		}
		ux, uy := dx/norm, dy/norm

		// Stop the shaft where the head begins.
		base := vg.Point{
			X: head.X - vg.Length(ux)*a.headLen,
			Y: head.Y - vg.Length(uy)*a.headLen,
		}
		c.StrokeLine2(sty, tail.X, tail.Y, base.X, base.Y)

		// Head: two barbs perpendicular to the shaft.
		half := a.headLen / 2
		px, py := -uy, ux
		left := vg.Point{
			X: base.X + vg.Length(px)*half,
			Y: base.Y + vg.Length(py)*half,
		}
		right := vg.Point{
			X: base.X - vg.Length(px)*half,
			Y: base.Y - vg.Length(py)*half,
		}
		c.FillPolygon(a.color, []vg.Point{head, left, right})
	}
}

// tickGlyph is a vertical bar marker, the "|" used on trough positions.
type tickGlyph struct{}

func (tickGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	c.StrokeLine2(draw.LineStyle{Color: sty.Color, Width: vg.Points(0.8)},
		pt.X, pt.Y-sty.Radius, pt.X, pt.Y+sty.Radius)
}
