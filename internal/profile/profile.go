// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package profile

import (
	"github.com/ManuGH/innoviz/internal/dataset"
)

// Profile is every view of one country under one set of options.
type Profile struct {
	Country             Country  `json:"country"`
	Options             Options  `json:"options"`
	Totals              Totals   `json:"totals"`
	PublicationsScatter *Scatter `json:"publicationsScatter"`
	PatentsScatter      *Scatter `json:"patentsScatter"`
	PublicationsTreemap *Treemap `json:"publicationsTreemap"`
	PatentsTreemap      *Treemap `json:"patentsTreemap"`
}

// Build resolves the country of o and builds the whole profile.
func Build(t *dataset.Tables, o Options) (*Profile, error) {
	country, err := ResolveCountry(t, o.Country)
	if err != nil {
		return nil, err
	}
	o.Country = country.Name

	p := &Profile{Country: country, Options: o, Totals: BuildTotals(t, country)}
	if p.PublicationsScatter, err = BuildScatter(t, KindPublications, country, o); err != nil {
		return nil, err
	}
	if p.PatentsScatter, err = BuildScatter(t, KindPatents, country, o); err != nil {
		return nil, err
	}
	if p.PublicationsTreemap, err = BuildTreemap(t, KindPublications, country, o); err != nil {
		return nil, err
	}
	if p.PatentsTreemap, err = BuildTreemap(t, KindPatents, country, o); err != nil {
		return nil, err
	}
	return p, nil
}

// ScatterFor resolves the country of o and builds one scatterplot.
func ScatterFor(t *dataset.Tables, kind Kind, o Options) (*Scatter, error) {
	country, err := ResolveCountry(t, o.Country)
	if err != nil {
		return nil, err
	}
	return BuildScatter(t, kind, country, o)
}

// TreemapFor resolves the country of o and builds one treemap.
func TreemapFor(t *dataset.Tables, kind Kind, o Options) (*Treemap, error) {
	country, err := ResolveCountry(t, o.Country)
	if err != nil {
		return nil, err
	}
	return BuildTreemap(t, kind, country, o)
}
