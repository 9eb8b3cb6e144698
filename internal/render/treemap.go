// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package render

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"image/color"
	"math"

	"github.com/nikolaydubina/treemap"
	"github.com/nikolaydubina/treemap/render"

	"github.com/ManuGH/innoviz/internal/profile"
)

// Size is the pixel size of a rendered chart.
type Size struct {
	Width  float64
	Height float64
}

// DefaultTreemapSize matches the wide layout of the profile page.
var DefaultTreemapSize = Size{Width: 1080, Height: 640}

// ErrInvalidSize is returned for chart sizes outside the supported bounds.
var ErrInvalidSize = errors.New("invalid chart size")

const (
	minChartSide = 100
	maxChartSide = 4000

	treemapMargin  = 4
	treemapPadding = 4
)

// Validate checks that s is drawable.
func (s Size) Validate() error {
	for _, v := range []float64{s.Width, s.Height} {
		if math.IsNaN(v) || v < minChartSide || v > maxChartSide {
			return fmt.Errorf("%w: %gx%g (each side %d..%d)", ErrInvalidSize, s.Width, s.Height, minChartSide, maxChartSide)
		}
	}
	return nil
}

// TreemapSVG draws tm with a squarified layout.
func TreemapSVG(tm *profile.Treemap, size Size) ([]byte, error) {
	if err := size.Validate(); err != nil {
		return nil, err
	}
	if len(tm.Nodes) == 0 || !(tm.Total > 0) {
		return emptySVG(size, "No data for "+tm.Country.Name), nil
	}

	tree := toTree(tm)
	var colorer render.Colorer = newCategoryColorer(tree)
	if tm.Color != nil {
		colorer = heatColorer{}
	}

	builder := render.UITreeMapBuilder{
		Colorer:     colorer,
		BorderColor: color.White,
	}
	layout := builder.NewUITreeMap(tree, size.Width, size.Height, treemapMargin, treemapPadding, treemapPadding)
	return render.SVGRenderer{}.Render(layout, size.Width, size.Height), nil
}

// toTree converts the flat node list into the layout tree. Paths are
// prefixed with the root so node ids can never collide with it.
func toTree(tm *profile.Treemap) treemap.Tree {
	root := tm.Country.Code
	if root == "" {
		root = "root"
	}
	tree := treemap.Tree{
		Nodes: map[string]treemap.Node{
			root: {Path: root, Name: tm.Country.Name, Size: tm.Total},
		},
		To:   map[string][]string{},
		Root: root,
	}

	for _, n := range tm.Nodes {
		path := root + "/" + n.ID
		parent := root
		if n.Parent != "" {
			parent = root + "/" + n.Parent
		}
		node := treemap.Node{Path: path, Name: n.Name, Size: n.Value}
		if tm.Color != nil && n.Color != nil {
			node.Heat = heat(*n.Color, tm.Color.Range)
			node.HasHeat = true
		}
		tree.Nodes[path] = node
		tree.To[parent] = append(tree.To[parent], path)
	}
	return tree
}

// heat places v inside the fixed colour range, clamped to [0, 1].
func heat(v float64, r profile.ColorRange) float64 {
	if !(r.Max > r.Min) {
		return 0.5
	}
	return clamp01((v - r.Min) / (r.Max - r.Min))
}

// heatColorer colours tiles on the inferno scale by their normalised heat.
type heatColorer struct{}

func (heatColorer) ColorBox(tree treemap.Tree, node string) color.Color {
	n, ok := tree.Nodes[node]
	if !ok || node == tree.Root {
		return color.Transparent
	}
	if !n.HasHeat {
		return missingColor
	}
	return interpolate(inferno, n.Heat)
}

func (c heatColorer) ColorText(tree treemap.Tree, node string) color.Color {
	return contrastText(c.ColorBox(tree, node))
}

// categoryColorer gives every top-level branch its own colour, inherited by
// its leaves.
type categoryColorer struct {
	branch map[string]color.Color
}

func newCategoryColorer(tree treemap.Tree) categoryColorer {
	c := categoryColorer{branch: make(map[string]color.Color)}
	for i, top := range tree.To[tree.Root] {
		col := qualitative[i%len(qualitative)]
		c.branch[top] = col
		for _, leaf := range tree.To[top] {
			c.branch[leaf] = col
		}
	}
	return c
}

func (c categoryColorer) ColorBox(_ treemap.Tree, node string) color.Color {
	if col, ok := c.branch[node]; ok {
		return col
	}
	return color.Transparent
}

func (c categoryColorer) ColorText(tree treemap.Tree, node string) color.Color {
	return contrastText(c.ColorBox(tree, node))
}

func emptySVG(size Size, msg string) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="0 0 %g %g">`,
		size.Width, size.Height, size.Width, size.Height)
	fmt.Fprintf(&b, `<text x="%g" y="%g" text-anchor="middle" font-family="sans-serif" font-size="14" fill="#666">%s</text>`,
		size.Width/2, size.Height/2, html.EscapeString(msg))
	b.WriteString(`</svg>`)
	return b.Bytes()
}
