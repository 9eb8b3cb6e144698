// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package profile

import (
	"fmt"
	"net/url"
	"strings"
)

// Kind selects the publications or the patents side of a profile.
type Kind string

const (
	KindPublications Kind = "publications"
	KindPatents      Kind = "patents"
)

// Kinds lists the view kinds in display order.
var Kinds = []Kind{KindPublications, KindPatents}

// ParseKind parses a path segment into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindPublications:
		return KindPublications, nil
	case KindPatents:
		return KindPatents, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownKind, s)
}

type (
	Metric      string
	Constraint  string
	Aggregation string
	Transform   string
	Coloring    string
)

const (
	MetricWorks     Metric = "works"
	MetricCitations Metric = "citations"

	ConstraintNone   Constraint = "none"
	ConstraintCited5 Constraint = "cited5"

	AggPerCapita Aggregation = "per_capita"
	AggTotal     Aggregation = "total"
	AggExpy      Aggregation = "expy"

	TransformNone Transform = "none"
	TransformRCA  Transform = "rca"

	ColorCategory Coloring = "category"
	ColorPrody    Coloring = "prody"
)

// Query parameter names.
const (
	ParamCountry       = "country"
	ParamPubMetric     = "pub_metric"
	ParamPubConstraint = "pub_constraint"
	ParamPubAgg        = "pub_agg"
	ParamPubTransform  = "pub_transform"
	ParamPubColor      = "pub_color"
	ParamPatAgg        = "pat_agg"
	ParamPatTransform  = "pat_transform"
	ParamPatColor      = "pat_color"
)

// Choice is one selectable option value and the label shown for it.
type Choice struct {
	Token string `json:"token"`
	Label string `json:"label"`
}

var (
	metricChoices = []Choice{
		{string(MetricWorks), "works"},
		{string(MetricCitations), "citations"},
	}
	constraintChoices = []Choice{
		{string(ConstraintNone), "none"},
		{string(ConstraintCited5), "at least 5"},
	}
	aggChoices = []Choice{
		{string(AggPerCapita), "per capita"},
		{string(AggTotal), "total"},
		{string(AggExpy), "sophistication (expy)"},
	}
	transformChoices = []Choice{
		{string(TransformNone), "none"},
		{string(TransformRCA), "rca"},
	}
	pubColorChoices = []Choice{
		{string(ColorCategory), "broad concept"},
		{string(ColorPrody), "concept sophistication (prody)"},
	}
	patColorChoices = []Choice{
		{string(ColorCategory), "patent class"},
		{string(ColorPrody), "subclass sophistication (prody)"},
	}
)

// Field describes one option for forms and the about endpoint.
type Field struct {
	Param   string   `json:"param"`
	Label   string   `json:"label"`
	Help    string   `json:"help"`
	Choices []Choice `json:"choices"`
}

// PublicationFields and PatentFields describe the option forms.
var (
	PublicationFields = []Field{
		{ParamPubMetric, "Metric", "Metric used to draw visualizations", metricChoices},
		{ParamPubConstraint, "Citation count constraint", "Minimum number of citations for a publication to be included", constraintChoices},
		{ParamPubAgg, "Aggregation method for scatterplot", "Aggregation method for scatterplot", aggChoices},
		{ParamPubTransform, "Transformations for treemap", "Transformations to apply to the data", transformChoices},
		{ParamPubColor, "Color for treemap", "Method to use for coloring the treemap", pubColorChoices},
	}
	PatentFields = []Field{
		{ParamPatAgg, "Aggregation method for scatterplot", "Aggregation method for scatterplot", aggChoices},
		{ParamPatTransform, "Transformations for treemap", "Transformations to apply to the data", transformChoices},
		{ParamPatColor, "Color for treemap", "Method to use for coloring the treemap", patColorChoices},
	}
)

// Options are the user selections of a profile page.
type Options struct {
	// Country is a country name from the country code table, or an ISO code.
	// Empty selects the first country.
	Country string `json:"country"`

	PubMetric     Metric      `json:"pubMetric"`
	PubConstraint Constraint  `json:"pubConstraint"`
	PubAgg        Aggregation `json:"pubAgg"`
	PubTransform  Transform   `json:"pubTransform"`
	PubColor      Coloring    `json:"pubColor"`

	PatAgg       Aggregation `json:"patAgg"`
	PatTransform Transform   `json:"patTransform"`
	PatColor     Coloring    `json:"patColor"`
}

// DefaultOptions returns the first choice of every option.
func DefaultOptions() Options {
	return Options{
		PubMetric:     MetricWorks,
		PubConstraint: ConstraintNone,
		PubAgg:        AggPerCapita,
		PubTransform:  TransformNone,
		PubColor:      ColorCategory,
		PatAgg:        AggPerCapita,
		PatTransform:  TransformNone,
		PatColor:      ColorCategory,
	}
}

// ParseOptions reads options from query values. Missing values keep their
// defaults, unknown parameters are ignored. Each value may be given as its
// token or its label, case-insensitively.
func ParseOptions(q url.Values) (Options, error) {
	o := DefaultOptions()
	o.Country = strings.TrimSpace(q.Get(ParamCountry))

	fields := []struct {
		param   string
		choices []Choice
		set     func(string)
	}{
		{ParamPubMetric, metricChoices, func(v string) { o.PubMetric = Metric(v) }},
		{ParamPubConstraint, constraintChoices, func(v string) { o.PubConstraint = Constraint(v) }},
		{ParamPubAgg, aggChoices, func(v string) { o.PubAgg = Aggregation(v) }},
		{ParamPubTransform, transformChoices, func(v string) { o.PubTransform = Transform(v) }},
		{ParamPubColor, pubColorChoices, func(v string) { o.PubColor = Coloring(v) }},
		{ParamPatAgg, aggChoices, func(v string) { o.PatAgg = Aggregation(v) }},
		{ParamPatTransform, transformChoices, func(v string) { o.PatTransform = Transform(v) }},
		{ParamPatColor, patColorChoices, func(v string) { o.PatColor = Coloring(v) }},
	}
	for _, f := range fields {
		raw, ok := q[f.param]
		if !ok || len(raw) == 0 || strings.TrimSpace(raw[0]) == "" {
			continue
		}
		token, err := parseChoice(f.param, raw[0], f.choices)
		if err != nil {
			return Options{}, err
		}
		f.set(token)
	}
	return o, nil
}

func parseChoice(param, raw string, choices []Choice) (string, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	for _, c := range choices {
		if v == c.Token || v == strings.ToLower(c.Label) {
			return c.Token, nil
		}
	}
	allowed := make([]string, len(choices))
	for i, c := range choices {
		allowed[i] = c.Token
	}
	return "", &OptionError{Field: param, Value: raw, Allowed: allowed}
}

// Query encodes o with tokens. Encode of the result is canonical.
func (o Options) Query() url.Values {
	q := url.Values{}
	if o.Country != "" {
		q.Set(ParamCountry, o.Country)
	}
	q.Set(ParamPubMetric, string(o.PubMetric))
	q.Set(ParamPubConstraint, string(o.PubConstraint))
	q.Set(ParamPubAgg, string(o.PubAgg))
	q.Set(ParamPubTransform, string(o.PubTransform))
	q.Set(ParamPubColor, string(o.PubColor))
	q.Set(ParamPatAgg, string(o.PatAgg))
	q.Set(ParamPatTransform, string(o.PatTransform))
	q.Set(ParamPatColor, string(o.PatColor))
	return q
}

// Key is a stable cache key for o. Equal option sets produce equal keys
// regardless of how they were spelled in the request.
func (o Options) Key() string {
	return o.Query().Encode()
}

// AggLabel returns the display label of an aggregation.
func AggLabel(a Aggregation) string {
	return label(aggChoices, string(a))
}

func label(choices []Choice, token string) string {
	for _, c := range choices {
		if c.Token == token {
			return c.Label
		}
	}
	return token
}
