// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package dataset

import "time"

// Table identifies one of the aggregated inputs by its object stem.
type Table string

const (
	TablePublications  Table = "country_concept"
	TablePatents       Table = "country_patents"
	TableCountryCodes  Table = "country_codes"
	TableCountryTotals Table = "country_totals"
)

// AllTables lists every table a snapshot needs, in load order.
var AllTables = []Table{TablePublications, TablePatents, TableCountryCodes, TableCountryTotals}

// ObjectName returns the blob name for t in the given format, e.g. "country_codes.parquet".
func (t Table) ObjectName(format string) string {
	return string(t) + "." + format
}

// Publication is one country x scientific concept row (OpenAlex).
type Publication struct {
	CountryCode      string `parquet:"country_code,optional"`
	BroadConceptName string `parquet:"broad_concept_name,optional"`
	ConceptName      string `parquet:"concept_name,optional"`

	Works          *float64 `parquet:"works,optional"`
	Citations      *float64 `parquet:"citations,optional"`
	WorksCited     *float64 `parquet:"works_cited,optional"`
	CitationsCited *float64 `parquet:"citations_cited,optional"`

	WorksRCA          *float64 `parquet:"works_rca,optional"`
	CitationsRCA      *float64 `parquet:"citations_rca,optional"`
	WorksCitedRCA     *float64 `parquet:"works_cited_rca,optional"`
	CitationsCitedRCA *float64 `parquet:"citations_cited_rca,optional"`

	WorksProdyCount          *float64 `parquet:"works_prody_count,optional"`
	CitationsProdyCount      *float64 `parquet:"citations_prody_count,optional"`
	WorksCitedProdyCount     *float64 `parquet:"works_cited_prody_count,optional"`
	CitationsCitedProdyCount *float64 `parquet:"citations_cited_prody_count,optional"`
}

// Patent is one country x IPC4 subclass row (patent families).
type Patent struct {
	CountryCode  string `parquet:"country_code,optional"`
	SectionName  string `parquet:"section_name,optional"`
	SubclassName string `parquet:"subclass_name,optional"`
	SubclassCode string `parquet:"subclass_code,optional"`

	PatentCount           *float64 `parquet:"patent_count,optional"`
	PatentCountRCA        *float64 `parquet:"patent_count_rca,optional"`
	PatentCountProdyCount *float64 `parquet:"patent_count_prody_count,optional"`
}

// Country maps an ISO code to its display name.
type Country struct {
	CountryCode string `parquet:"country_code,optional"`
	CountryName string `parquet:"country_name,optional"`
}

// CountryTotal carries per-country aggregates and economic context.
type CountryTotal struct {
	CountryCode string `parquet:"country_code,optional"`
	CountryName string `parquet:"country_name,optional"`
	Region      string `parquet:"region,optional"`

	GDPPC      *float64 `parquet:"gdppc,optional"`
	Population *float64 `parquet:"pop,optional"`

	Works          *float64 `parquet:"works,optional"`
	Citations      *float64 `parquet:"citations,optional"`
	WorksCited     *float64 `parquet:"works_cited,optional"`
	CitationsCited *float64 `parquet:"citations_cited,optional"`

	WorksPC          *float64 `parquet:"works_pc,optional"`
	CitationsPC      *float64 `parquet:"citations_pc,optional"`
	WorksCitedPC     *float64 `parquet:"works_cited_pc,optional"`
	CitationsCitedPC *float64 `parquet:"citations_cited_pc,optional"`

	WorksExpy          *float64 `parquet:"works_expy_count,optional"`
	CitationsExpy      *float64 `parquet:"citations_expy_count,optional"`
	WorksCitedExpy     *float64 `parquet:"works_cited_expy_count,optional"`
	CitationsCitedExpy *float64 `parquet:"citations_cited_expy_count,optional"`

	PatentCount     *float64 `parquet:"patent_count,optional"`
	PatentCountPC   *float64 `parquet:"patent_count_pc,optional"`
	PatentCountExpy *float64 `parquet:"patent_count_expy_count,optional"`
}

// Tables is an immutable snapshot of all four inputs plus lookup indexes.
type Tables struct {
	Publications []Publication
	Patents      []Patent
	Countries    []Country
	Totals       []CountryTotal

	LoadedAt time.Time

	pubsByCode    map[string][]int
	patsByCode    map[string][]int
	totalByCode   map[string]int
	countryByName map[string]int
}

// NewTables builds the lookup indexes. The slices are retained, not copied.
func NewTables(pubs []Publication, pats []Patent, countries []Country, totals []CountryTotal) *Tables {
	t := &Tables{
		Publications:  pubs,
		Patents:       pats,
		Countries:     countries,
		Totals:        totals,
		LoadedAt:      time.Now(),
		pubsByCode:    make(map[string][]int),
		patsByCode:    make(map[string][]int),
		totalByCode:   make(map[string]int, len(totals)),
		countryByName: make(map[string]int, len(countries)),
	}
	for i, p := range pubs {
		t.pubsByCode[p.CountryCode] = append(t.pubsByCode[p.CountryCode], i)
	}
	for i, p := range pats {
		t.patsByCode[p.CountryCode] = append(t.patsByCode[p.CountryCode], i)
	}
	for i, c := range totals {
		if _, dup := t.totalByCode[c.CountryCode]; !dup {
			t.totalByCode[c.CountryCode] = i
		}
	}
	for i, c := range countries {
		if _, dup := t.countryByName[c.CountryName]; !dup {
			t.countryByName[c.CountryName] = i
		}
	}
	return t
}

// RowCounts reports the number of rows per table.
func (t *Tables) RowCounts() map[Table]int {
	return map[Table]int{
		TablePublications:  len(t.Publications),
		TablePatents:       len(t.Patents),
		TableCountryCodes:  len(t.Countries),
		TableCountryTotals: len(t.Totals),
	}
}

// CountryNames returns unique country names in order of first appearance.
func (t *Tables) CountryNames() []Country {
	seen := make(map[string]struct{}, len(t.Countries))
	out := make([]Country, 0, len(t.Countries))
	for _, c := range t.Countries {
		if _, ok := seen[c.CountryName]; ok {
			continue
		}
		seen[c.CountryName] = struct{}{}
		out = append(out, c)
	}
	return out
}

// CountryByName resolves a display name to the first matching country row.
func (t *Tables) CountryByName(name string) (Country, bool) {
	i, ok := t.countryByName[name]
	if !ok {
		return Country{}, false
	}
	return t.Countries[i], true
}

// Total returns the totals row for code.
func (t *Tables) Total(code string) (*CountryTotal, bool) {
	i, ok := t.totalByCode[code]
	if !ok {
		return nil, false
	}
	return &t.Totals[i], true
}

// PublicationsFor returns the publication rows of one country in table order.
func (t *Tables) PublicationsFor(code string) []*Publication {
	idx := t.pubsByCode[code]
	out := make([]*Publication, len(idx))
	for i, j := range idx {
		out[i] = &t.Publications[j]
	}
	return out
}

// PatentsFor returns the patent rows of one country in table order.
func (t *Tables) PatentsFor(code string) []*Patent {
	idx := t.patsByCode[code]
	out := make([]*Patent, len(idx))
	for i, j := range idx {
		out[i] = &t.Patents[j]
	}
	return out
}
