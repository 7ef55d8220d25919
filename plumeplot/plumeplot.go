/*
Copyright © 2024 the plume authors.
This file is part of plume.

plume is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

plume is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with plume.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package plumeplot draws plume concentration fields.
package plumeplot

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spatialmodel/plume"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Options specifies how a figure is drawn.
type Options struct {
	// Title is the title of the concentration map.
	Title string

	// Levels is the number of color bands, iso-lines, and colorbar
	// ticks. It must be between 2 and MaxLevels.
	Levels int

	// Width and Height give the size of the whole figure.
	Width, Height vg.Length

	// ColorMap is the color map used for the concentrations. Its
	// range is set when the figure is created.
	ColorMap palette.ColorMap
}

// DefaultOptions returns the options used when none are specified.
func DefaultOptions() Options {
	return Options{
		Title:    "Ground-level plume concentration",
		Levels:   20,
		Width:    8 * vg.Inch,
		Height:   5 * vg.Inch,
		ColorMap: moreland.SmoothBlueRed(),
	}
}

// MaxLevels is the largest number of levels a figure may have.
const MaxLevels = 256

// colorBarWidth is the width of the colorbar panel.
const colorBarWidth = 1.1 * vg.Inch

var (
	thresholdStyle = draw.LineStyle{
		Color:  color.RGBA{R: 220, A: 255},
		Width:  vg.Points(2),
		Dashes: []vg.Length{vg.Points(6), vg.Points(3)},
	}
	isoLineStyle = draw.LineStyle{
		Color: color.Black,
		Width: vg.Points(0.3),
	}
)

// Figure is a concentration map with its colorbar.
type Figure struct {
	Map, ColorBar *plot.Plot
	width, height vg.Length
}

// New creates a figure of the concentration field in r, with an iso-line
// at the effective threshold and a vertical marker at the reach distance
// if there is one.
func New(r *plume.Result, o Options) (*Figure, error) {
	if r == nil || r.Field == nil {
		return nil, fmt.Errorf("plumeplot: no field to draw")
	}
	o = withDefaults(o)
	if err := CheckLevels(o.Levels); err != nil {
		return nil, err
	}
	f := r.Field
	if nx, ny := f.Dims(); nx < 2 || ny < 2 {
		return nil, fmt.Errorf("plumeplot: field must be at least 2×2 to draw but is %d×%d", nx, ny)
	}
	min, max := f.Min(), f.Max()
	hi := max
	if !(hi > min) {
		// Constant field; give the color scale a nonzero width.
		hi = min + math.Max(math.Abs(min), 1)
	}
	cm := o.ColorMap
	cm.SetMin(min)
	cm.SetMax(hi)

	p, err := plot.New()
	if err != nil {
		return nil, fmt.Errorf("plumeplot: %v", err)
	}
	p.Title.Text = o.Title
	p.X.Label.Text = "Downwind distance x (m)"
	p.Y.Label.Text = "Crosswind distance y (m)"
	p.Legend.Top = true

	heat := plotter.NewHeatMap(f, cm.Palette(o.Levels))
	heat.Min, heat.Max = min, hi
	p.Add(heat)

	if max > min {
		levels := make([]float64, o.Levels)
		floats.Span(levels, min, max)
		p.Add(isoLines(f, levels, isoLineStyle))

		p.Add(isoLines(f, []float64{r.Reach.EffectiveCs}, thresholdStyle))
		p.Legend.Add(fmt.Sprintf("Cs = %.2f", r.Reach.EffectiveCs), lineThumbnail(thresholdStyle))
	}

	if r.Reach.Found {
		y := f.Grid.Y
		l, err := plotter.NewLine(plotter.XYs{
			{X: r.Reach.Distance, Y: y[0]},
			{X: r.Reach.Distance, Y: y[len(y)-1]},
		})
		if err != nil {
			return nil, fmt.Errorf("plumeplot: reach marker: %v", err)
		}
		l.LineStyle = thresholdStyle
		p.Add(l)
		p.Legend.Add(fmt.Sprintf("Reach: %.2f m", r.Reach.Distance), l)
	}
	p.Add(plotter.NewGrid())

	bar, err := plot.New()
	if err != nil {
		return nil, fmt.Errorf("plumeplot: %v", err)
	}
	bar.Add(colorBands{cm: cm, n: o.Levels})
	bar.HideX()
	bar.Y.Padding = 0
	bar.Y.Label.Text = "mg/m³"
	bar.Y.Tick.Marker = spanTicks(o.Levels)

	return &Figure{Map: p, ColorBar: bar, width: o.Width, height: o.Height}, nil
}

// CheckLevels returns an error if n levels cannot be drawn.
func CheckLevels(n int) error {
	if n < 2 || n > MaxLevels {
		return fmt.Errorf("plumeplot: number of levels must be between 2 and %d but is %d", MaxLevels, n)
	}
	return nil
}

func withDefaults(o Options) Options {
	d := DefaultOptions()
	if o.Title == "" {
		o.Title = d.Title
	}
	if o.Levels == 0 {
		o.Levels = d.Levels
	}
	if o.Width == 0 {
		o.Width = d.Width
	}
	if o.Height == 0 {
		o.Height = d.Height
	}
	if o.ColorMap == nil {
		o.ColorMap = d.ColorMap
	}
	return o
}

// isoLines returns contour lines of f at the given levels, all drawn
// in the same style.
func isoLines(f plotter.GridXYZ, levels []float64, sty draw.LineStyle) *plotter.Contour {
	c := plotter.NewContour(f, levels, monochrome{sty.Color})
	c.LineStyles = []draw.LineStyle{sty}
	// Keep the palette scale finite when there is only one level.
	c.Min = math.Nextafter(levels[0], math.Inf(-1))
	c.Max = math.Nextafter(levels[len(levels)-1], math.Inf(1))
	return c
}

// monochrome is a palette with a single color.
type monochrome []color.Color

func (m monochrome) Colors() []color.Color { return m }

// lineThumbnail draws a legend entry for contour lines.
type lineThumbnail draw.LineStyle

func (l lineThumbnail) Thumbnail(c *draw.Canvas) {
	y := c.Center().Y
	c.StrokeLine2(draw.LineStyle(l), c.Min.X, y, c.Max.X, y)
}

// colorBands is a vertical colorbar drawn as n filled bands. It must not
// draw images: the eps canvas cannot, and the pdf canvas rejects the
// 16-bit image plotter.ColorBar makes.
type colorBands struct {
	cm palette.ColorMap
	n  int
}

func (b colorBands) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	min, max := b.cm.Min(), b.cm.Max()
	step := (max - min) / float64(b.n)
	for i := 0; i < b.n; i++ {
		lo, hi := min+float64(i)*step, min+float64(i+1)*step
		if i == b.n-1 {
			hi = max
		}
		col, err := b.cm.At(lo + step/2)
		if err != nil {
			panic(err)
		}
		pts := []vg.Point{
			{X: trX(0), Y: trY(lo)},
			{X: trX(1), Y: trY(lo)},
			{X: trX(1), Y: trY(hi)},
			{X: trX(0), Y: trY(hi)},
		}
		c.FillPolygon(col, c.ClipPolygonXY(pts))
	}
}

func (b colorBands) DataRange() (xmin, xmax, ymin, ymax float64) {
	return 0, 1, b.cm.Min(), b.cm.Max()
}

// spanTicks places n evenly spaced labelled ticks across an axis.
type spanTicks int

func (n spanTicks) Ticks(min, max float64) []plot.Tick {
	v := make([]float64, int(n))
	floats.Span(v, min, max)
	t := make([]plot.Tick, len(v))
	for i, x := range v {
		t[i] = plot.Tick{Value: x, Label: fmt.Sprintf("%.3g", x)}
	}
	return t
}

// splitHorizontal splits c at x
func splitHorizontal(c draw.Canvas, x vg.Length) (left, right draw.Canvas) {
	return draw.Crop(c, 0, c.Min.X-c.Max.X+x, 0, 0), draw.Crop(c, x, 0, 0, 0)
}

// Formats lists the supported output formats.
var Formats = []string{"png", "jpg", "jpeg", "tif", "tiff", "svg", "pdf", "eps"}

// FormatFromFile returns the output format implied by the extension
// of filename.
func FormatFromFile(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// CheckFormat returns an error if format is not one of Formats.
func CheckFormat(format string) error {
	for _, f := range Formats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("plumeplot: unsupported output format %q; the options are %s",
		format, strings.Join(Formats, ", "))
}

// WriteTo draws the figure in the given format and writes it to w.
func (fig *Figure) WriteTo(w io.Writer, format string) error {
	if err := CheckFormat(format); err != nil {
		return err
	}
	c, err := draw.NewFormattedCanvas(fig.width, fig.height, format)
	if err != nil {
		return fmt.Errorf("plumeplot: %v", err)
	}
	dc := draw.New(c)
	left, right := splitHorizontal(dc, fig.width-colorBarWidth)
	fig.Map.Draw(left)
	fig.ColorBar.Draw(right)
	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("plumeplot: writing figure: %v", err)
	}
	return nil
}

// Save writes the figure to filename in the format given by the file
// extension.
func (fig *Figure) Save(filename string) (err error) {
	format := FormatFromFile(filename)
	if err := CheckFormat(format); err != nil {
		return err
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("plumeplot: %v", err)
	}
	defer func() {
		if e := f.Close(); err == nil {
			err = e
		}
	}()
	return fig.WriteTo(f, format)
}
