// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package dataset

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrUnknownColumn is returned when a numeric column name is not part of a table.
var ErrUnknownColumn = errors.New("unknown column")

type columnSet[R any] map[string]func(*R) *float64

func (c columnSet[R]) value(table Table, row *R, name string) (float64, error) {
	get, ok := c[name]
	if !ok {
		return math.NaN(), fmt.Errorf("%w: %s.%s", ErrUnknownColumn, table, name)
	}
	return num(get(row)), nil
}

func (c columnSet[R]) names() []string {
	out := make([]string, 0, len(c))
	for k := range c {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func num(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

var publicationColumns = columnSet[Publication]{
	"works":                       func(r *Publication) *float64 { return r.Works },
	"citations":                   func(r *Publication) *float64 { return r.Citations },
	"works_cited":                 func(r *Publication) *float64 { return r.WorksCited },
	"citations_cited":             func(r *Publication) *float64 { return r.CitationsCited },
	"works_rca":                   func(r *Publication) *float64 { return r.WorksRCA },
	"citations_rca":               func(r *Publication) *float64 { return r.CitationsRCA },
	"works_cited_rca":             func(r *Publication) *float64 { return r.WorksCitedRCA },
	"citations_cited_rca":         func(r *Publication) *float64 { return r.CitationsCitedRCA },
	"works_prody_count":           func(r *Publication) *float64 { return r.WorksProdyCount },
	"citations_prody_count":       func(r *Publication) *float64 { return r.CitationsProdyCount },
	"works_cited_prody_count":     func(r *Publication) *float64 { return r.WorksCitedProdyCount },
	"citations_cited_prody_count": func(r *Publication) *float64 { return r.CitationsCitedProdyCount },
}

var patentColumns = columnSet[Patent]{
	"patent_count":             func(r *Patent) *float64 { return r.PatentCount },
	"patent_count_rca":         func(r *Patent) *float64 { return r.PatentCountRCA },
	"patent_count_prody_count": func(r *Patent) *float64 { return r.PatentCountProdyCount },
}

var totalColumns = columnSet[CountryTotal]{
	"gdppc":                      func(r *CountryTotal) *float64 { return r.GDPPC },
	"pop":                        func(r *CountryTotal) *float64 { return r.Population },
	"works":                      func(r *CountryTotal) *float64 { return r.Works },
	"citations":                  func(r *CountryTotal) *float64 { return r.Citations },
	"works_cited":                func(r *CountryTotal) *float64 { return r.WorksCited },
	"citations_cited":            func(r *CountryTotal) *float64 { return r.CitationsCited },
	"works_pc":                   func(r *CountryTotal) *float64 { return r.WorksPC },
	"citations_pc":               func(r *CountryTotal) *float64 { return r.CitationsPC },
	"works_cited_pc":             func(r *CountryTotal) *float64 { return r.WorksCitedPC },
	"citations_cited_pc":         func(r *CountryTotal) *float64 { return r.CitationsCitedPC },
	"works_expy_count":           func(r *CountryTotal) *float64 { return r.WorksExpy },
	"citations_expy_count":       func(r *CountryTotal) *float64 { return r.CitationsExpy },
	"works_cited_expy_count":     func(r *CountryTotal) *float64 { return r.WorksCitedExpy },
	"citations_cited_expy_count": func(r *CountryTotal) *float64 { return r.CitationsCitedExpy },
	"patent_count":               func(r *CountryTotal) *float64 { return r.PatentCount },
	"patent_count_pc":            func(r *CountryTotal) *float64 { return r.PatentCountPC },
	"patent_count_expy_count":    func(r *CountryTotal) *float64 { return r.PatentCountExpy },
}

// Value returns the named numeric column, NaN when missing.
func (r *Publication) Value(column string) (float64, error) {
	return publicationColumns.value(TablePublications, r, column)
}

// Value returns the named numeric column, NaN when missing.
func (r *Patent) Value(column string) (float64, error) {
	return patentColumns.value(TablePatents, r, column)
}

// Value returns the named numeric column, NaN when missing.
func (r *CountryTotal) Value(column string) (float64, error) {
	return totalColumns.value(TableCountryTotals, r, column)
}

// NumericColumns lists the numeric column names of a table, sorted.
func NumericColumns(t Table) []string {
	switch t {
	case TablePublications:
		return publicationColumns.names()
	case TablePatents:
		return patentColumns.names()
	case TableCountryTotals:
		return totalColumns.names()
	}
	return nil
}

// HasColumn reports whether t has a numeric column called name.
func HasColumn(t Table, name string) bool {
	return slices.Contains(NumericColumns(t), name)
}
