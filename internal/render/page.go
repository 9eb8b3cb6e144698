// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/ManuGH/innoviz/internal/profile"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.New("page.html").Funcs(template.FuncMap{
	"selected": func(current, token string) bool { return current == token },
}).ParseFS(templatesFS, "templates/*.html"))

type formField struct {
	profile.Field
	Current string
}

type pageData struct {
	About     About
	Profile   *profile.Profile
	Countries []profile.Country

	PublicationFields []formField
	PatentFields      []formField

	PublicationsScatter template.HTML
	PatentsScatter      template.HTML
	PublicationsTreemap template.HTML
	PatentsTreemap      template.HTML
}

// Page renders the HTML profile page for p. Charts are drawn inline as SVG.
func Page(p *profile.Profile, countries []profile.Country) ([]byte, error) {
	data := pageData{
		About:             AboutInfo(),
		Profile:           p,
		Countries:         countries,
		PublicationFields: currentFields(profile.PublicationFields, p.Options),
		PatentFields:      currentFields(profile.PatentFields, p.Options),
	}

	charts := []struct {
		dst  *template.HTML
		draw func() ([]byte, error)
	}{
		{&data.PublicationsScatter, func() ([]byte, error) { return ScatterSVG(p.PublicationsScatter, DefaultScatterSize) }},
		{&data.PatentsScatter, func() ([]byte, error) { return ScatterSVG(p.PatentsScatter, DefaultScatterSize) }},
		{&data.PublicationsTreemap, func() ([]byte, error) { return TreemapSVG(p.PublicationsTreemap, DefaultTreemapSize) }},
		{&data.PatentsTreemap, func() ([]byte, error) { return TreemapSVG(p.PatentsTreemap, DefaultTreemapSize) }},
	}
	for _, c := range charts {
		svg, err := c.draw()
		if err != nil {
			return nil, fmt.Errorf("render chart: %w", err)
		}
		// SVG output escapes every text node it writes.
		*c.dst = template.HTML(svg) //nolint:gosec
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute page template: %w", err)
	}
	return buf.Bytes(), nil
}

func currentFields(fields []profile.Field, o profile.Options) []formField {
	q := o.Query()
	out := make([]formField, len(fields))
	for i, f := range fields {
		out[i] = formField{Field: f, Current: q.Get(f.Param)}
	}
	return out
}
