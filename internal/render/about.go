// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package render

import "github.com/ManuGH/innoviz/internal/profile"

// Link is a named external reference.
type Link struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Contact is an obfuscated address and what to write about.
type Contact struct {
	Address string `json:"address"`
	Topic   string `json:"topic"`
}

// About describes the project and its data.
type About struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Coverage    string          `json:"coverage"`
	Sources     []Link          `json:"sources"`
	Contacts    []Contact       `json:"contacts"`
	License     Link            `json:"license"`
	Publication []profile.Field `json:"publicationOptions"`
	Patents     []profile.Field `json:"patentOptions"`
}

// AboutInfo returns the project description served on the page and at
// /api/v1/about.
func AboutInfo() About {
	return About{
		Title: "Country Innovation Profiles",
		Description: "Patents and scientific publications aggregated per country. " +
			"Patent families follow the methodology of the WIPO World Intellectual Property Report " +
			"on PATSTAT data; publications are counted on OpenAlex.",
		Coverage: "2013-2022",
		Sources: []Link{
			{Name: "PATSTAT", URL: "https://www.epo.org/en/searching-for-patents/business/patstat"},
			{Name: "WIPO World Intellectual Property Report (working paper 58)", URL: "https://tind.wipo.int/record/40558/files/wipo_pub_econstat_wp_58.pdf"},
			{Name: "OpenAlex", URL: "https://openalex.org/"},
		},
		Contacts: []Contact{
			{Address: "shreyas_gadgin_matha[at]hks[dot]harvard[dot]edu", Topic: "publications data or the app"},
			{Address: "christian_chacua[at]hks[dot]harvard[dot]edu", Topic: "patents data"},
		},
		License:     Link{Name: "CC BY-SA 4.0", URL: "https://creativecommons.org/licenses/by-sa/4.0/"},
		Publication: profile.PublicationFields,
		Patents:     profile.PatentFields,
	}
}
