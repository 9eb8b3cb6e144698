// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package profile

import (
	"math"
	"slices"

	"github.com/ManuGH/innoviz/internal/dataset"
)

// Axis describes one scatter axis.
type Axis struct {
	Column string `json:"column"`
	Label  string `json:"label"`
	Log    bool   `json:"log"`
}

// Point is one country in a scatterplot.
type Point struct {
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Region string  `json:"region"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	// Size is the population; nil when unknown.
	Size *float64 `json:"size,omitempty"`
	// Label is the country code for the selected country, empty otherwise.
	Label    string `json:"label,omitempty"`
	Selected bool   `json:"selected"`
}

// Scatter plots every country's GDP per capita against one metric.
type Scatter struct {
	Kind     Kind     `json:"kind"`
	Country  Country  `json:"country"`
	X        Axis     `json:"x"`
	Y        Axis     `json:"y"`
	Regions  []string `json:"regions"`
	Points   []Point  `json:"points"`
	// Dropped counts rows that cannot be placed on the axes.
	Dropped int `json:"dropped"`
}

const gdpColumn = "gdppc"

// BuildScatter builds the all-country scatterplot of kind, highlighting country.
func BuildScatter(t *dataset.Tables, kind Kind, country Country, o Options) (*Scatter, error) {
	cols, err := o.Columns(kind)
	if err != nil {
		return nil, err
	}

	agg := o.PubAgg
	prefix := "Publications "
	if kind == KindPatents {
		agg = o.PatAgg
		prefix = "Patents "
	}
	s := &Scatter{
		Kind:    kind,
		Country: country,
		X:       Axis{Column: gdpColumn, Label: "GDP per capita", Log: true},
		Y:       Axis{Column: cols.Scatter, Label: prefix + AggLabel(agg), Log: cols.ScatterLogY},
		Points:  make([]Point, 0, len(t.Totals)),
	}

	for i := range t.Totals {
		row := &t.Totals[i]
		x, err := row.Value(gdpColumn)
		if err != nil {
			return nil, err
		}
		y, err := row.Value(cols.Scatter)
		if err != nil {
			return nil, err
		}
		if !plottable(x, true) || !plottable(y, s.Y.Log) {
			s.Dropped++
			continue
		}
		p := Point{
			Code:   row.CountryCode,
			Name:   row.CountryName,
			Region: row.Region,
			X:      x,
			Y:      y,
		}
		if pop, _ := row.Value("pop"); plottable(pop, true) {
			p.Size = &pop
		}
		if row.CountryCode == country.Code {
			p.Label = row.CountryCode
			p.Selected = true
		}
		s.Points = append(s.Points, p)
		if !slices.Contains(s.Regions, row.Region) {
			s.Regions = append(s.Regions, row.Region)
		}
	}
	slices.Sort(s.Regions)
	return s, nil
}

func plottable(v float64, log bool) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return !log || v > 0
}

// Selected returns the highlighted point, if it is plotted.
func (s *Scatter) Selected() (Point, bool) {
	for _, p := range s.Points {
		if p.Selected {
			return p, true
		}
	}
	return Point{}, false
}
