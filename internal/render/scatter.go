// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/ManuGH/innoviz/internal/profile"
)

// DefaultScatterSize fits two scatterplots side by side.
var DefaultScatterSize = Size{Width: 540, Height: 420}

// Marker radii in points.
const (
	minRadius = 2.0
	maxRadius = 14.0
	noSize    = 3.0
)

var selectedRing = color.Black

// series is one region's markers.
type series struct {
	region string
	color  color.Color
	xys    plotter.XYs
	radii  []float64
}

// scatterSeries splits the unselected points by region, in legend order, and
// returns the selected point separately.
func scatterSeries(s *profile.Scatter) ([]series, *profile.Point, float64) {
	maxPop := 0.0
	for _, p := range s.Points {
		if p.Size != nil {
			maxPop = math.Max(maxPop, *p.Size)
		}
	}

	out := make([]series, len(s.Regions))
	index := make(map[string]int, len(s.Regions))
	for i, r := range s.Regions {
		out[i] = series{region: r, color: qualitative[i%len(qualitative)]}
		index[r] = i
	}

	var selected *profile.Point
	for i := range s.Points {
		p := &s.Points[i]
		if !plottable(s, p) {
			continue
		}
		if p.Selected {
			selected = p
			continue
		}
		j, ok := index[p.Region]
		if !ok {
			j = len(out)
			index[p.Region] = j
			out = append(out, series{region: p.Region, color: missingColor})
		}
		out[j].xys = append(out[j].xys, plotter.XY{X: p.X, Y: p.Y})
		out[j].radii = append(out[j].radii, radius(p, maxPop))
	}
	return out, selected, maxPop
}

// plottable rejects values a log axis cannot place.
func plottable(s *profile.Scatter, p *profile.Point) bool {
	if math.IsNaN(p.X) || math.IsNaN(p.Y) {
		return false
	}
	return (!s.X.Log || p.X > 0) && (!s.Y.Log || p.Y > 0)
}

// radius scales marker area with population.
func radius(p *profile.Point, maxPop float64) float64 {
	if p.Size == nil || maxPop <= 0 {
		return noSize
	}
	return math.Max(minRadius, maxRadius*math.Sqrt(*p.Size/maxPop))
}

func newMarkers(xys plotter.XYs, radii []float64, c color.Color, shape draw.GlyphDrawer) (*plotter.Scatter, error) {
	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	sc.GlyphStyle = draw.GlyphStyle{Color: c, Radius: vg.Points(noSize), Shape: shape}
	sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{Color: c, Radius: vg.Points(radii[i]), Shape: shape}
	}
	return sc, nil
}

func configureAxis(a *plot.Axis, ax profile.Axis) {
	a.Label.Text = ax.Label
	if ax.Log {
		a.Scale = plot.LogScale{}
		a.Tick.Marker = plot.LogTicks{Prec: -1}
	}
}

// ScatterSVG draws s with one colour per region and the selected country on
// top, labelled by its code.
func ScatterSVG(s *profile.Scatter, size Size) ([]byte, error) {
	if err := size.Validate(); err != nil {
		return nil, err
	}
	groups, selected, maxPop := scatterSeries(s)
	if !hasPoints(groups, selected) {
		return emptySVG(size, "No data"), nil
	}

	p := plot.New()
	configureAxis(&p.X, s.X)
	configureAxis(&p.Y, s.Y)
	grid := plotter.NewGrid()
	grid.Vertical.Color = color.Gray{Y: 0xe5}
	grid.Horizontal.Color = color.Gray{Y: 0xe5}
	p.Add(grid)
	p.Legend.Top = true
	p.Legend.Left = true

	for _, g := range groups {
		if len(g.xys) == 0 {
			continue
		}
		sc, err := newMarkers(g.xys, g.radii, withAlpha(g.color, 0xb3), draw.CircleGlyph{})
		if err != nil {
			return nil, fmt.Errorf("scatter %s: %w", g.region, err)
		}
		p.Add(sc)
		p.Legend.Add(g.region, sc)
	}

	if selected != nil {
		at := plotter.XYs{{X: selected.X, Y: selected.Y}}
		r := []float64{radius(selected, maxPop)}
		fill := selectedFill(groups, selected.Region)
		dot, err := newMarkers(at, r, fill, draw.CircleGlyph{})
		if err != nil {
			return nil, err
		}
		ring, err := newMarkers(at, r, selectedRing, draw.RingGlyph{})
		if err != nil {
			return nil, err
		}
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: at, Labels: []string{selected.Label}})
		if err != nil {
			return nil, err
		}
		labels.Offset = vg.Point{X: -vg.Points(r[0]), Y: vg.Points(r[0] + 2)}
		p.Add(dot, ring, labels)
	}

	canvas := vgsvg.New(vg.Points(size.Width), vg.Points(size.Height))
	p.Draw(draw.New(canvas))
	var buf bytes.Buffer
	if _, err := canvas.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write scatter svg: %w", err)
	}
	out := buf.Bytes()
	// Inline embedding wants the bare element without the XML prolog.
	if i := bytes.Index(out, []byte("<svg")); i > 0 {
		out = out[i:]
	}
	return out, nil
}

func hasPoints(groups []series, selected *profile.Point) bool {
	if selected != nil {
		return true
	}
	for _, g := range groups {
		if len(g.xys) > 0 {
			return true
		}
	}
	return false
}

func selectedFill(groups []series, region string) color.Color {
	for _, g := range groups {
		if g.region == region {
			return g.color
		}
	}
	return missingColor
}

func withAlpha(c color.Color, a uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: a}
}
