// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package profile

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/innoviz/internal/dataset"
	"github.com/ManuGH/innoviz/internal/dataset/datasettest"
)

var (
	usa = Country{Code: "USA", Name: "United States"}
	deu = Country{Code: "DEU", Name: "Germany"}
)

func f(v float64) *float64 { return &v }

func approx() cmp.Option { return cmpopts.EquateApprox(0, 1e-9) }

func TestCountries(t *testing.T) {
	got := Countries(datasettest.Tables())
	want := []Country{usa, deu, {Code: "KEN", Name: "Kenya"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Countries mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveCountry(t *testing.T) {
	tables := datasettest.Tables()

	tests := []struct {
		sel  string
		want Country
	}{
		{"", usa},
		{"Germany", deu},
		{"deu", deu},
		{" United States ", usa},
	}
	for _, tt := range tests {
		got, err := ResolveCountry(tables, tt.sel)
		require.NoError(t, err, tt.sel)
		assert.Equal(t, tt.want, got, tt.sel)
	}

	_, err := ResolveCountry(tables, "Atlantis")
	assert.ErrorIs(t, err, ErrUnknownCountry)

	_, err = ResolveCountry(dataset.NewTables(nil, nil, nil, nil), "")
	assert.ErrorIs(t, err, ErrUnknownCountry)
}

func TestPublicationsTreemapDefaults(t *testing.T) {
	tm, err := BuildTreemap(datasettest.Tables(), KindPublications, usa, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "works", tm.ValueColumn)
	assert.Nil(t, tm.Color)
	assert.Equal(t, 230.0, tm.Total)

	want := []Node{
		{ID: "Medicine", Name: "Medicine", Value: 150, Leaves: 2},
		{ID: "Medicine/Oncology", Parent: "Medicine", Name: "Oncology", Value: 100},
		{ID: "Medicine/Cardiology", Parent: "Medicine", Name: "Cardiology", Value: 50},
		{ID: "Computer science", Name: "Computer science", Value: 80, Leaves: 1},
		{ID: "Computer science/Machine learning", Parent: "Computer science", Name: "Machine learning", Value: 80},
	}
	if diff := cmp.Diff(want, tm.Nodes); diff != "" {
		t.Errorf("nodes mismatch (-want +got):\n%s", diff)
	}
}

func TestTreemapNodeIDsEscapeSeparator(t *testing.T) {
	pubs := []dataset.Publication{
		{CountryCode: "USA", BroadConceptName: "Arts/Design", ConceptName: "Type", Works: f(30)},
		{CountryCode: "USA", BroadConceptName: "Arts", ConceptName: "Design/Type", Works: f(20)},
		{CountryCode: "USA", BroadConceptName: "Arts", ConceptName: "100%", Works: f(10)},
	}
	tables := dataset.NewTables(pubs, nil, []dataset.Country{{CountryCode: "USA", CountryName: "United States"}}, nil)

	tm, err := BuildTreemap(tables, KindPublications, usa, DefaultOptions())
	require.NoError(t, err)

	ids := make(map[string]bool, len(tm.Nodes))
	for _, n := range tm.Nodes {
		assert.False(t, ids[n.ID], "duplicate id %q", n.ID)
		ids[n.ID] = true
		if n.Parent != "" {
			assert.True(t, ids[n.Parent], "leaf %q precedes its parent", n.ID)
		}
	}
	assert.True(t, ids["Arts%2FDesign/Type"])
	assert.True(t, ids["Arts/Design%2FType"])
	assert.True(t, ids["Arts/100%25"])
}

func TestPublicationsTreemapProdyColouring(t *testing.T) {
	o := DefaultOptions()
	o.PubColor = ColorPrody

	tm, err := BuildTreemap(datasettest.Tables(), KindPublications, usa, o)
	require.NoError(t, err)

	require.NotNil(t, tm.Color)
	assert.Equal(t, ColorScale{
		Column: "works_prody_count",
		Scale:  "Inferno",
		Label:  "PRODY",
		Range:  ColorRange{Min: 18020.53, Max: 35572.04},
	}, *tm.Color)

	want := []Node{
		{ID: "Medicine", Name: "Medicine", Value: 150, Leaves: 2, Color: f((100*30000 + 50*20000) / 150.0)},
		{ID: "Medicine/Oncology", Parent: "Medicine", Name: "Oncology", Value: 100, Color: f(30000)},
		{ID: "Medicine/Cardiology", Parent: "Medicine", Name: "Cardiology", Value: 50, Color: f(20000)},
		{ID: "Computer science", Name: "Computer science", Value: 80, Leaves: 1, Color: f(35000)},
		{ID: "Computer science/Machine learning", Parent: "Computer science", Name: "Machine learning", Value: 80, Color: f(35000)},
	}
	if diff := cmp.Diff(want, tm.Nodes, approx()); diff != "" {
		t.Errorf("nodes mismatch (-want +got):\n%s", diff)
	}
}

func TestPublicationsTreemapRCAOrdersTiesByName(t *testing.T) {
	o := DefaultOptions()
	o.PubTransform = TransformRCA

	tm, err := BuildTreemap(datasettest.Tables(), KindPublications, usa, o)
	require.NoError(t, err)
	assert.Equal(t, "works_rca", tm.ValueColumn)

	ids := make([]string, len(tm.Nodes))
	for i, n := range tm.Nodes {
		ids[i] = n.ID
	}
	assert.Equal(t, []string{
		"Computer science",
		"Computer science/Machine learning",
		"Medicine",
		"Medicine/Oncology",
		"Medicine/Cardiology",
	}, ids)
	assert.InDelta(t, 4.0, tm.Total, 1e-9)
}

func TestPatentsTreemap(t *testing.T) {
	o := DefaultOptions()
	o.PatColor = ColorPrody

	tm, err := BuildTreemap(datasettest.Tables(), KindPatents, usa, o)
	require.NoError(t, err)
	assert.Equal(t, 440.0, tm.Total)
	require.NotNil(t, tm.Color)
	assert.Equal(t, ColorRange{Min: 20412.18, Max: 46355.5}, tm.Color.Range)

	want := []Node{
		{ID: "Physics", Name: "Physics", Value: 320, Leaves: 2, Color: f(39375)},
		{ID: "Physics/Computing", Parent: "Physics", Name: "Computing", Value: 300, Code: "G06F", Color: f(40000)},
		{ID: "Physics/Optics", Parent: "Physics", Name: "Optics", Value: 20, Code: "G02B", Color: f(30000)},
		{ID: "Electricity", Name: "Electricity", Value: 120, Leaves: 1, Color: f(45000)},
		{ID: "Electricity/Semiconductors", Parent: "Electricity", Name: "Semiconductors", Value: 120, Code: "H01L", Color: f(45000)},
	}
	if diff := cmp.Diff(want, tm.Nodes, approx()); diff != "" {
		t.Errorf("nodes mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, tm.Roots(), 2)
	assert.Len(t, tm.Children("Physics"), 2)
}

func TestTreemapMergesDuplicateLeavesAndSkipsMissingColour(t *testing.T) {
	pubs := []dataset.Publication{
		{CountryCode: "USA", BroadConceptName: "Physics", ConceptName: "Optics", Works: datasettest.F(10), WorksProdyCount: datasettest.F(20000)},
		{CountryCode: "USA", BroadConceptName: "Physics", ConceptName: "Optics", Works: datasettest.F(30), WorksProdyCount: datasettest.F(30000)},
		{CountryCode: "USA", BroadConceptName: "Physics", ConceptName: "Acoustics", Works: datasettest.F(5)},
		{CountryCode: "USA", ConceptName: "Orphan", Works: datasettest.F(1)},
	}
	tables := dataset.NewTables(pubs, nil, datasettest.Countries(), datasettest.Totals())
	o := DefaultOptions()
	o.PubColor = ColorPrody

	tm, err := BuildTreemap(tables, KindPublications, usa, o)
	require.NoError(t, err)

	want := []Node{
		{ID: "Physics", Name: "Physics", Value: 45, Leaves: 2, Color: f((10*20000 + 30*30000) / 40.0)},
		{ID: "Physics/Optics", Parent: "Physics", Name: "Optics", Value: 40, Color: f((10*20000 + 30*30000) / 40.0)},
		{ID: "Physics/Acoustics", Parent: "Physics", Name: "Acoustics", Value: 5},
		{ID: missingCategory, Name: missingCategory, Value: 1, Leaves: 1},
		{ID: missingCategory + "/Orphan", Parent: missingCategory, Name: "Orphan", Value: 1},
	}
	if diff := cmp.Diff(want, tm.Nodes, approx()); diff != "" {
		t.Errorf("nodes mismatch (-want +got):\n%s", diff)
	}
}

func TestTreemapEmptyCountry(t *testing.T) {
	tm, err := BuildTreemap(datasettest.Tables(), KindPatents, Country{Code: "KEN", Name: "Kenya"}, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, tm.Nodes)
	assert.NotNil(t, tm.Nodes)
	assert.Zero(t, tm.Total)
}

func TestPublicationsScatterDefaults(t *testing.T) {
	s, err := BuildScatter(datasettest.Tables(), KindPublications, usa, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, Axis{Column: "gdppc", Label: "GDP per capita", Log: true}, s.X)
	assert.Equal(t, Axis{Column: "works_pc", Label: "Publications per capita", Log: true}, s.Y)
	assert.Equal(t, []string{"Americas", "Europe"}, s.Regions)
	assert.Equal(t, 1, s.Dropped, "Kenya has no GDP")

	want := []Point{
		{Code: "USA", Name: "United States", Region: "Americas", X: 65000, Y: 0.0037, Size: f(330e6), Label: "USA", Selected: true},
		{Code: "DEU", Name: "Germany", Region: "Europe", X: 48000, Y: 0.0048, Size: f(83e6)},
	}
	if diff := cmp.Diff(want, s.Points); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}

	sel, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "USA", sel.Code)
}

func TestPatentsScatterExpyIsLinear(t *testing.T) {
	o := DefaultOptions()
	o.PatAgg = AggExpy

	s, err := BuildScatter(datasettest.Tables(), KindPatents, deu, o)
	require.NoError(t, err)
	assert.Equal(t, Axis{Column: "patent_count_expy_count", Label: "Patents sophistication (expy)", Log: false}, s.Y)
	require.Len(t, s.Points, 2)
	assert.False(t, s.Points[0].Selected)
	assert.True(t, s.Points[1].Selected)
	assert.Equal(t, "DEU", s.Points[1].Label)
}

func TestScatterDropsNonPositiveOnLogAxis(t *testing.T) {
	totals := datasettest.Totals()
	totals[2].GDPPC = datasettest.F(2000)
	tables := dataset.NewTables(nil, nil, datasettest.Countries(), totals)

	o := DefaultOptions()
	o.PatAgg = AggTotal
	s, err := BuildScatter(tables, KindPatents, usa, o)
	require.NoError(t, err)
	assert.Len(t, s.Points, 2, "zero patents cannot sit on a log axis")

	o.PatAgg = AggExpy
	s, err = BuildScatter(tables, KindPatents, usa, o)
	require.NoError(t, err)
	assert.Len(t, s.Points, 3, "zero is plotted on a linear axis")
}

func TestBuildTotals(t *testing.T) {
	tot := BuildTotals(datasettest.Tables(), usa)
	assert.Equal(t, "1,234,567", tot.Publications.Display)
	assert.Equal(t, "98,765,432", tot.Citations.Display)
	assert.Equal(t, "440", tot.PatentFamilies.Display)
	require.NotNil(t, tot.Publications.Value)
	assert.Equal(t, 1234567.0, *tot.Publications.Value)

	missing := BuildTotals(datasettest.Tables(), Country{Code: "ATL", Name: "Atlantis"})
	assert.Equal(t, notAvailable, missing.Publications.Display)
	assert.Nil(t, missing.PatentFamilies.Value)
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0", FormatCount(0))
	assert.Equal(t, "12,345", FormatCount(12345.4))
	assert.Equal(t, "1,000,000", FormatCount(999999.6))
}

func TestBuildProfile(t *testing.T) {
	o := DefaultOptions()
	o.Country = "deu"

	p, err := Build(datasettest.Tables(), o)
	require.NoError(t, err)
	assert.Equal(t, deu, p.Country)
	assert.Equal(t, "Germany", p.Options.Country, "country is normalised to its name")
	assert.Equal(t, "400,000", p.Totals.Publications.Display)
	assert.Len(t, p.PublicationsTreemap.Nodes, 2)
	assert.Len(t, p.PatentsTreemap.Nodes, 2)
	assert.Equal(t, KindPatents, p.PatentsScatter.Kind)

	o.Country = "Atlantis"
	_, err = Build(datasettest.Tables(), o)
	assert.ErrorIs(t, err, ErrUnknownCountry)
}

func TestScatterForAndTreemapFor(t *testing.T) {
	s, err := ScatterFor(datasettest.Tables(), KindPatents, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, usa, s.Country)

	_, err = TreemapFor(datasettest.Tables(), "trademarks", DefaultOptions())
	assert.ErrorIs(t, err, ErrUnknownKind)
}
