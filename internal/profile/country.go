// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package profile

import (
	"fmt"
	"strings"

	"github.com/ManuGH/innoviz/internal/dataset"
)

// Country identifies a selectable country.
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Countries lists the selectable countries in country code table order,
// one entry per distinct name.
func Countries(t *dataset.Tables) []Country {
	names := t.CountryNames()
	out := make([]Country, len(names))
	for i, c := range names {
		out[i] = Country{Code: c.CountryCode, Name: c.CountryName}
	}
	return out
}

// ResolveCountry finds the country named by sel. The name match wins over an
// ISO code match; empty sel selects the first country.
func ResolveCountry(t *dataset.Tables, sel string) (Country, error) {
	sel = strings.TrimSpace(sel)
	if sel == "" {
		names := t.CountryNames()
		if len(names) == 0 {
			return Country{}, fmt.Errorf("%w: no countries loaded", ErrUnknownCountry)
		}
		return Country{Code: names[0].CountryCode, Name: names[0].CountryName}, nil
	}
	if c, ok := t.CountryByName(sel); ok {
		return Country{Code: c.CountryCode, Name: c.CountryName}, nil
	}
	for _, c := range t.CountryNames() {
		if strings.EqualFold(c.CountryCode, sel) {
			return Country{Code: c.CountryCode, Name: c.CountryName}, nil
		}
	}
	return Country{}, fmt.Errorf("%w: %q", ErrUnknownCountry, sel)
}
