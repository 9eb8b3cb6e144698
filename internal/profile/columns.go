// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package profile

// Colour scale attached to prody-coloured treemaps.
const (
	ColorScaleName = "Inferno"
	ColorLabel     = "PRODY"
)

// ColorRange is the fixed colour domain of a prody column, shared by every
// country so colours compare across profiles.
type ColorRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ColorRanges holds the colour domain of every prody column.
var ColorRanges = map[string]ColorRange{
	"patent_count_prody_count":    {20412.18, 46355.5},
	"works_prody_count":           {18020.53, 35572.04},
	"citations_prody_count":       {20481.44, 38344.45},
	"works_cited_prody_count":     {18803.98, 35492.67},
	"citations_cited_prody_count": {20002.89, 38103.41},
}

const patentBase = "patent_count"

// Columns are the dataset columns one side of a profile reads.
type Columns struct {
	// Scatter is read from country_totals; ScatterLogY is false for expy.
	Scatter     string `json:"scatter"`
	ScatterLogY bool   `json:"scatterLogY"`
	// Value sizes treemap tiles; Color is empty unless prody colouring is on.
	Value string `json:"value"`
	Color string `json:"color,omitempty"`
}

// Columns resolves the columns for kind under o.
func (o Options) Columns(kind Kind) (Columns, error) {
	var (
		base      string
		agg       Aggregation
		transform Transform
		coloring  Coloring
	)
	switch kind {
	case KindPublications:
		base = string(o.PubMetric)
		if o.PubConstraint == ConstraintCited5 {
			base += "_cited"
		}
		agg, transform, coloring = o.PubAgg, o.PubTransform, o.PubColor
	case KindPatents:
		base = patentBase
		agg, transform, coloring = o.PatAgg, o.PatTransform, o.PatColor
	default:
		return Columns{}, ErrUnknownKind
	}

	c := Columns{Scatter: base, ScatterLogY: true, Value: base}
	switch agg {
	case AggTotal:
	case AggPerCapita:
		c.Scatter = base + "_pc"
	case AggExpy:
		c.Scatter = base + "_expy_count"
		c.ScatterLogY = false
	default:
		return Columns{}, &OptionError{Field: aggParam(kind), Value: string(agg)}
	}
	if transform == TransformRCA {
		c.Value = base + "_rca"
	}
	if coloring == ColorPrody {
		// Prody is defined on raw counts, never on the rca transform.
		c.Color = base + "_prody_count"
	}
	return c, nil
}

func aggParam(kind Kind) string {
	if kind == KindPatents {
		return ParamPatAgg
	}
	return ParamPubAgg
}
