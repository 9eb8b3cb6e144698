// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package render

import (
	"encoding/xml"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/innoviz/internal/dataset/datasettest"
	"github.com/ManuGH/innoviz/internal/profile"
)

func buildProfile(t *testing.T, o profile.Options) *profile.Profile {
	t.Helper()
	p, err := profile.Build(datasettest.Tables(), o)
	require.NoError(t, err)
	return p
}

// wellFormed fails the test unless b parses as XML.
func wellFormed(t *testing.T, b []byte) {
	t.Helper()
	d := xml.NewDecoder(strings.NewReader(string(b)))
	for {
		_, err := d.Token()
		if err != nil {
			require.ErrorContains(t, err, "EOF")
			return
		}
	}
}

func TestSizeValidate(t *testing.T) {
	assert.NoError(t, DefaultTreemapSize.Validate())
	assert.NoError(t, DefaultScatterSize.Validate())
	assert.ErrorIs(t, Size{Width: 10, Height: 400}.Validate(), ErrInvalidSize)
	assert.ErrorIs(t, Size{Width: 400, Height: 9000}.Validate(), ErrInvalidSize)
}

func TestToTree(t *testing.T) {
	p := buildProfile(t, profile.DefaultOptions())
	tree := toTree(p.PublicationsTreemap)

	assert.Equal(t, "USA", tree.Root)
	assert.InDelta(t, p.PublicationsTreemap.Total, tree.Nodes["USA"].Size, 1e-9)
	assert.Equal(t, []string{"USA/Medicine", "USA/Computer science"}, tree.To["USA"])
	assert.Equal(t, []string{"USA/Medicine/Oncology", "USA/Medicine/Cardiology"}, tree.To["USA/Medicine"])
	assert.Equal(t, "Oncology", tree.Nodes["USA/Medicine/Oncology"].Name)
	assert.False(t, tree.Nodes["USA/Medicine/Oncology"].HasHeat)
}

func TestToTreeHeat(t *testing.T) {
	o := profile.DefaultOptions()
	o.PubColor = profile.ColorPrody
	p := buildProfile(t, o)
	tree := toTree(p.PublicationsTreemap)

	for path, n := range tree.Nodes {
		if path == tree.Root {
			continue
		}
		if n.HasHeat {
			assert.GreaterOrEqual(t, n.Heat, 0.0, path)
			assert.LessOrEqual(t, n.Heat, 1.0, path)
		}
	}
}

func TestHeat(t *testing.T) {
	r := profile.ColorRange{Min: 10, Max: 20}
	assert.InDelta(t, 0.5, heat(15, r), 1e-9)
	assert.Equal(t, 0.0, heat(5, r))
	assert.Equal(t, 1.0, heat(25, r))
	assert.Equal(t, 0.5, heat(3, profile.ColorRange{}))
}

func TestInterpolate(t *testing.T) {
	assert.Equal(t, inferno[0], interpolate(inferno, 0))
	assert.Equal(t, inferno[len(inferno)-1], interpolate(inferno, 1))
	assert.Equal(t, inferno[len(inferno)-1], interpolate(inferno, 7))

	two := []color.RGBA{{A: 0xff}, {R: 200, G: 100, B: 50, A: 0xff}}
	assert.Equal(t, color.RGBA{R: 100, G: 50, B: 25, A: 0xff}, interpolate(two, 0.5))
}

func TestContrastText(t *testing.T) {
	assert.Equal(t, color.White, contrastText(inferno[0]))
	assert.Equal(t, color.Black, contrastText(inferno[len(inferno)-1]))
	assert.Equal(t, color.Black, contrastText(color.Transparent))
}

func TestCategoryColorerInheritsBranch(t *testing.T) {
	p := buildProfile(t, profile.DefaultOptions())
	tree := toTree(p.PublicationsTreemap)
	c := newCategoryColorer(tree)

	assert.Equal(t, c.ColorBox(tree, "USA/Medicine"), c.ColorBox(tree, "USA/Medicine/Oncology"))
	assert.NotEqual(t, c.ColorBox(tree, "USA/Medicine"), c.ColorBox(tree, "USA/Computer science"))
	assert.Equal(t, color.Transparent, c.ColorBox(tree, tree.Root))
}

func TestTreemapSVG(t *testing.T) {
	for _, color := range []profile.Coloring{profile.ColorCategory, profile.ColorPrody} {
		o := profile.DefaultOptions()
		o.PubColor = color
		o.PatColor = color
		p := buildProfile(t, o)

		for _, tm := range []*profile.Treemap{p.PublicationsTreemap, p.PatentsTreemap} {
			svg, err := TreemapSVG(tm, DefaultTreemapSize)
			require.NoError(t, err)
			assert.Contains(t, string(svg), "<svg")
		}
	}
}

func TestTreemapSVGEmpty(t *testing.T) {
	svg, err := TreemapSVG(&profile.Treemap{Country: profile.Country{Code: "ATL", Name: "Atlantis"}}, DefaultTreemapSize)
	require.NoError(t, err)
	wellFormed(t, svg)
	assert.Contains(t, string(svg), "No data for Atlantis")

	_, err = TreemapSVG(&profile.Treemap{}, Size{Width: 1, Height: 1})
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestScatterSVG(t *testing.T) {
	p := buildProfile(t, profile.DefaultOptions())

	svg, err := ScatterSVG(p.PublicationsScatter, DefaultScatterSize)
	require.NoError(t, err)
	wellFormed(t, svg)

	s := string(svg)
	assert.True(t, strings.HasPrefix(s, "<svg"), "prolog is stripped for inline use")
	assert.Contains(t, s, "USA")
	assert.Contains(t, s, "GDP per capita")
	assert.Contains(t, s, "Publications per capita")
	assert.Contains(t, s, "Europe", "legend entry")
}

func TestScatterSVGLinearAxis(t *testing.T) {
	o := profile.DefaultOptions()
	o.PatAgg = profile.AggExpy
	p := buildProfile(t, o)
	require.False(t, p.PatentsScatter.Y.Log)

	svg, err := ScatterSVG(p.PatentsScatter, DefaultScatterSize)
	require.NoError(t, err)
	wellFormed(t, svg)
}

func TestScatterSVGEmpty(t *testing.T) {
	svg, err := ScatterSVG(&profile.Scatter{}, DefaultScatterSize)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "No data")
}

func TestScatterSeriesGroupsByRegion(t *testing.T) {
	pop := func(v float64) *float64 { return &v }
	s := &profile.Scatter{
		X:       profile.Axis{Log: true},
		Regions: []string{"Europe", "Africa"},
		Points: []profile.Point{
			{Code: "DEU", Region: "Europe", X: 50000, Y: 3, Size: pop(84e6)},
			{Code: "FRA", Region: "Europe", X: 45000, Y: 2, Size: pop(21e6)},
			{Code: "KEN", Region: "Africa", X: 2000, Y: 1},
			{Code: "NIL", Region: "Africa", X: 0, Y: 1},
			{Code: "USA", Region: "Americas", X: 80000, Y: 4, Size: pop(336e6), Selected: true, Label: "USA"},
		},
	}

	groups, selected, maxPop := scatterSeries(s)
	require.NotNil(t, selected)
	assert.Equal(t, "USA", selected.Code)
	assert.Equal(t, 336e6, maxPop)

	require.Len(t, groups, 2)
	assert.Equal(t, "Europe", groups[0].region)
	assert.Len(t, groups[0].xys, 2)
	assert.InDelta(t, maxRadius*0.5, groups[0].radii[0], 1e-9)
	assert.InDelta(t, maxRadius*0.25, groups[0].radii[1], 1e-9)
	assert.Len(t, groups[1].xys, 1, "non-positive x is dropped on a log axis")
	assert.Equal(t, noSize, groups[1].radii[0])
}

func TestRadiusScalesWithArea(t *testing.T) {
	big, quarter := 400.0, 100.0
	assert.Equal(t, maxRadius, radius(&profile.Point{Size: &big}, big))
	assert.InDelta(t, maxRadius/2, radius(&profile.Point{Size: &quarter}, big), 1e-9)
	assert.Equal(t, noSize, radius(&profile.Point{}, big))
}

func TestPage(t *testing.T) {
	o := profile.DefaultOptions()
	o.Country = "Germany"
	o.PubTransform = profile.TransformRCA
	p := buildProfile(t, o)

	page, err := Page(p, profile.Countries(datasettest.Tables()))
	require.NoError(t, err)

	s := string(page)
	assert.Contains(t, s, "<title>Country Innovation Profiles - Germany</title>")
	assert.Contains(t, s, `<option value="Germany" selected>Germany</option>`)
	assert.Contains(t, s, `<option value="rca" selected>rca</option>`)
	assert.Contains(t, s, "Publications in Scientific Fields")
	assert.Contains(t, s, "Patent Families in Technologies (IPC4 Subclasses)")
	assert.Contains(t, s, "https://openalex.org/")
	assert.Contains(t, s, "christian_chacua[at]hks[dot]harvard[dot]edu")
	assert.Contains(t, s, "CC BY-SA 4.0")
	assert.Contains(t, s, "<svg")
}

func TestAboutInfo(t *testing.T) {
	a := AboutInfo()
	assert.Equal(t, "Country Innovation Profiles", a.Title)
	assert.Len(t, a.Sources, 3)
	assert.Len(t, a.Contacts, 2)
	assert.Equal(t, profile.PublicationFields, a.Publication)
}
