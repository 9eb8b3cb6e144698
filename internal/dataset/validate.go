// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package dataset

import (
	"fmt"
	"math"

	"github.com/ManuGH/innoviz/internal/validate"
)

// Validate reports every structural problem in the snapshot at once.
// A snapshot that fails validation is still servable; callers decide.
func (t *Tables) Validate() error {
	v := validate.New()

	counts := t.RowCounts()
	for _, table := range AllTables {
		if counts[table] == 0 {
			v.AddError(string(table), "table is empty", 0)
		}
	}

	seen := make(map[string]struct{}, len(t.Countries))
	for i, c := range t.Countries {
		field := fmt.Sprintf("%s[%d]", TableCountryCodes, i)
		if c.CountryCode == "" {
			v.AddError(field, "empty country_code", c.CountryName)
			continue
		}
		if c.CountryName == "" {
			v.AddError(field, "empty country_name", c.CountryCode)
		}
		if _, dup := seen[c.CountryCode]; dup {
			v.AddError(field, "duplicate country_code", c.CountryCode)
		}
		seen[c.CountryCode] = struct{}{}
		if _, ok := t.Total(c.CountryCode); !ok {
			v.AddError(field, "country has no totals row", c.CountryCode)
		}
	}

	seenTotals := make(map[string]struct{}, len(t.Totals))
	for i, c := range t.Totals {
		field := fmt.Sprintf("%s[%d]", TableCountryTotals, i)
		if c.CountryCode == "" {
			v.AddError(field, "empty country_code", c.CountryName)
			continue
		}
		if _, dup := seenTotals[c.CountryCode]; dup {
			v.AddError(field, "duplicate country_code", c.CountryCode)
		}
		seenTotals[c.CountryCode] = struct{}{}
		if g := num(c.GDPPC); !math.IsNaN(g) && g < 0 {
			v.AddError(field, "negative gdppc", g)
		}
	}

	for i, p := range t.Publications {
		if p.CountryCode == "" || p.ConceptName == "" {
			v.AddError(fmt.Sprintf("%s[%d]", TablePublications, i), "row needs country_code and concept_name", p.CountryCode)
		}
	}
	for i, p := range t.Patents {
		if p.CountryCode == "" || p.SubclassName == "" {
			v.AddError(fmt.Sprintf("%s[%d]", TablePatents, i), "row needs country_code and subclass_name", p.CountryCode)
		}
	}

	return v.Err()
}
