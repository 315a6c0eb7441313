package viz

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Band shades the full height of a plot between two x values.
type Band struct {
	From, To float64
	Color    color.Color
}

// Plot implements plot.Plotter.
func (b *Band) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	x0, x1 := trX(b.From), trX(b.To)
	y0, y1 := trY(plt.Y.Min), trY(plt.Y.Max)

	pts := []vg.Point{
		{X: x0, Y: y0},
		{X: x1, Y: y0},
		{X: x1, Y: y1},
		{X: x0, Y: y1},
	}
	c.FillPolygon(b.Color, c.ClipPolygonXY(pts))
}
