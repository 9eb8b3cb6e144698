// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package datasettest provides a small, hand-checked fixture snapshot for tests.
package datasettest

import (
	"github.com/ManuGH/innoviz/internal/dataset"
)

// F returns a pointer to v.
func F(v float64) *float64 { return &v }

// Publications returns the publication fixture rows.
func Publications() []dataset.Publication {
	return []dataset.Publication{
		{
			CountryCode: "USA", BroadConceptName: "Medicine", ConceptName: "Oncology",
			Works: F(100), Citations: F(1000), WorksCited: F(60), CitationsCited: F(900),
			WorksRCA: F(1.2), CitationsRCA: F(1.5), WorksCitedRCA: F(1.1), CitationsCitedRCA: F(1.4),
			WorksProdyCount: F(30000), CitationsProdyCount: F(32000), WorksCitedProdyCount: F(31000), CitationsCitedProdyCount: F(33000),
		},
		{
			CountryCode: "USA", BroadConceptName: "Medicine", ConceptName: "Cardiology",
			Works: F(50), Citations: F(400), WorksCited: F(20), CitationsCited: F(300),
			WorksRCA: F(0.8), CitationsRCA: F(0.7), WorksCitedRCA: F(0.9), CitationsCitedRCA: F(0.6),
			WorksProdyCount: F(20000), CitationsProdyCount: F(22000), WorksCitedProdyCount: F(21000), CitationsCitedProdyCount: F(23000),
		},
		{
			CountryCode: "USA", BroadConceptName: "Computer science", ConceptName: "Machine learning",
			Works: F(80), Citations: F(2000), WorksCited: F(70), CitationsCited: F(1900),
			WorksRCA: F(2.0), CitationsRCA: F(2.5), WorksCitedRCA: F(2.1), CitationsCitedRCA: F(2.4),
			WorksProdyCount: F(35000), CitationsProdyCount: F(36000), WorksCitedProdyCount: F(34000), CitationsCitedProdyCount: F(37000),
		},
		{
			// zero works: never drawn in a works treemap
			CountryCode: "USA", BroadConceptName: "Computer science", ConceptName: "Databases",
			Works: F(0), Citations: F(0), WorksCited: F(0), CitationsCited: F(0),
			WorksRCA: F(0), CitationsRCA: F(0), WorksCitedRCA: F(0), CitationsCitedRCA: F(0),
		},
		{
			CountryCode: "DEU", BroadConceptName: "Medicine", ConceptName: "Oncology",
			Works: F(40), Citations: F(300), WorksCited: F(25), CitationsCited: F(250),
			WorksRCA: F(1.0), CitationsRCA: F(1.0), WorksCitedRCA: F(1.0), CitationsCitedRCA: F(1.0),
			WorksProdyCount: F(30000), CitationsProdyCount: F(32000), WorksCitedProdyCount: F(31000), CitationsCitedProdyCount: F(33000),
		},
	}
}

// Patents returns the patent fixture rows.
func Patents() []dataset.Patent {
	return []dataset.Patent{
		{CountryCode: "USA", SectionName: "Physics", SubclassName: "Computing", SubclassCode: "G06F",
			PatentCount: F(300), PatentCountRCA: F(1.8), PatentCountProdyCount: F(40000)},
		{CountryCode: "USA", SectionName: "Physics", SubclassName: "Optics", SubclassCode: "G02B",
			PatentCount: F(20), PatentCountRCA: F(0.4), PatentCountProdyCount: F(30000)},
		{CountryCode: "USA", SectionName: "Electricity", SubclassName: "Semiconductors", SubclassCode: "H01L",
			PatentCount: F(120), PatentCountRCA: F(1.1), PatentCountProdyCount: F(45000)},
		{CountryCode: "DEU", SectionName: "Mechanical engineering", SubclassName: "Engines", SubclassCode: "F02B",
			PatentCount: F(90), PatentCountRCA: F(3.0), PatentCountProdyCount: F(42000)},
	}
}

// Countries returns the country code fixture rows.
func Countries() []dataset.Country {
	return []dataset.Country{
		{CountryCode: "USA", CountryName: "United States"},
		{CountryCode: "DEU", CountryName: "Germany"},
		{CountryCode: "KEN", CountryName: "Kenya"},
	}
}

// Totals returns the country totals fixture rows.
func Totals() []dataset.CountryTotal {
	return []dataset.CountryTotal{
		{
			CountryCode: "USA", CountryName: "United States", Region: "Americas",
			GDPPC: F(65000), Population: F(330e6),
			Works: F(1234567), Citations: F(98765432), WorksCited: F(800000), CitationsCited: F(90000000),
			WorksPC: F(0.0037), CitationsPC: F(0.3), WorksCitedPC: F(0.0024), CitationsCitedPC: F(0.27),
			WorksExpy: F(30500), CitationsExpy: F(33000), WorksCitedExpy: F(31000), CitationsCitedExpy: F(34000),
			PatentCount: F(440), PatentCountPC: F(1.3e-6), PatentCountExpy: F(41000),
		},
		{
			CountryCode: "DEU", CountryName: "Germany", Region: "Europe",
			GDPPC: F(48000), Population: F(83e6),
			Works: F(400000), Citations: F(9000000), WorksCited: F(250000), CitationsCited: F(8000000),
			WorksPC: F(0.0048), CitationsPC: F(0.11), WorksCitedPC: F(0.003), CitationsCitedPC: F(0.096),
			WorksExpy: F(29000), CitationsExpy: F(31000), WorksCitedExpy: F(30000), CitationsCitedExpy: F(32000),
			PatentCount: F(90), PatentCountPC: F(1.1e-6), PatentCountExpy: F(42000),
		},
		{
			// missing GDP: dropped from scatterplots
			CountryCode: "KEN", CountryName: "Kenya", Region: "Africa",
			Population: F(54e6),
			Works: F(5000), Citations: F(40000), WorksCited: F(2000), CitationsCited: F(30000),
			WorksPC: F(0.00009), CitationsPC: F(0.0007), WorksCitedPC: F(0.00004), CitationsCitedPC: F(0.0005),
			WorksExpy: F(21000), CitationsExpy: F(22000), WorksCitedExpy: F(21500), CitationsCitedExpy: F(22500),
			PatentCount: F(0), PatentCountPC: F(0), PatentCountExpy: F(0),
		},
	}
}

// Tables returns the indexed fixture snapshot.
func Tables() *dataset.Tables {
	return dataset.NewTables(Publications(), Patents(), Countries(), Totals())
}
