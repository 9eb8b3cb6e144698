// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package profile

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ManuGH/innoviz/internal/dataset"
)

// notAvailable is displayed for figures the dataset does not carry.
const notAvailable = "n/a"

// Figure is a headline number and its display string.
type Figure struct {
	Label   string   `json:"label"`
	Value   *float64 `json:"value"`
	Display string   `json:"display"`
}

// Totals are the headline figures of the selected country.
type Totals struct {
	Country        Country `json:"country"`
	Publications   Figure  `json:"publications"`
	Citations      Figure  `json:"citations"`
	PatentFamilies Figure  `json:"patentFamilies"`
}

var printer = message.NewPrinter(language.English)

// BuildTotals reads the headline figures of country.
func BuildTotals(t *dataset.Tables, country Country) Totals {
	out := Totals{
		Country:        country,
		Publications:   Figure{Label: "Total publications", Display: notAvailable},
		Citations:      Figure{Label: "Total citations", Display: notAvailable},
		PatentFamilies: Figure{Label: "Total patent families", Display: notAvailable},
	}
	row, ok := t.Total(country.Code)
	if !ok {
		return out
	}
	fill(&out.Publications, row, "works")
	fill(&out.Citations, row, "citations")
	fill(&out.PatentFamilies, row, "patent_count")
	return out
}

func fill(f *Figure, row *dataset.CountryTotal, column string) {
	v, err := row.Value(column)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	f.Value = &v
	f.Display = FormatCount(v)
}

// FormatCount renders v with thousands separators and no decimals, e.g. "12,345".
func FormatCount(v float64) string {
	return printer.Sprintf("%.0f", v)
}
