// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package dataset_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/ManuGH/innoviz/internal/dataset"
	"github.com/ManuGH/innoviz/internal/dataset/datasettest"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFromName(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"country_concept.parquet", dataset.FormatParquet, false},
		{"country_codes.CSV", dataset.FormatCSV, false},
		{"country_codes.xlsx", "", true},
		{"country_codes", "", true},
	}
	for _, tt := range tests {
		got, err := dataset.FormatFromName(tt.name)
		if tt.wantErr {
			assert.ErrorIs(t, err, dataset.ErrUnsupportedFormat, tt.name)
			continue
		}
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got)
	}
}

func TestDecode_UnsupportedFormat(t *testing.T) {
	_, err := dataset.Decode[dataset.Country]("json", []byte("{}"))
	assert.ErrorIs(t, err, dataset.ErrUnsupportedFormat)
}

func TestDecode_CSV(t *testing.T) {
	doc := "country_name,country_code,extra\nUnited States,USA,x\nGermany,DEU,y\n"
	rows, err := dataset.Decode[dataset.Country](dataset.FormatCSV, []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, []dataset.Country{
		{CountryCode: "USA", CountryName: "United States"},
		{CountryCode: "DEU", CountryName: "Germany"},
	}, rows)
}

func TestDecode_CSVMissingValuesAreNaN(t *testing.T) {
	doc := "country_code,section_name,subclass_name,subclass_code,patent_count,patent_count_rca,patent_count_prody_count\n" +
		"USA,Physics,Computing,G06F,12,,NA\n"
	rows, err := dataset.Decode[dataset.Patent](dataset.FormatCSV, []byte(doc))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	v, err := rows[0].Value("patent_count")
	require.NoError(t, err)
	assert.Equal(t, 12.0, v)

	rca, err := rows[0].Value("patent_count_rca")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(rca))

	prody, err := rows[0].Value("patent_count_prody_count")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(prody))
}

func TestDecode_CSVMissingColumn(t *testing.T) {
	_, err := dataset.Decode[dataset.Country](dataset.FormatCSV, []byte("country_code\nUSA\n"))
	assert.ErrorIs(t, err, dataset.ErrMissingColumn)
}

func TestDecode_CSVBadNumber(t *testing.T) {
	doc := "country_code,section_name,subclass_name,subclass_code,patent_count,patent_count_rca,patent_count_prody_count\n" +
		"USA,Physics,Computing,G06F,twelve,1,1\n"
	_, err := dataset.Decode[dataset.Patent](dataset.FormatCSV, []byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestDecode_CSVEmptyDocument(t *testing.T) {
	_, err := dataset.Decode[dataset.Country](dataset.FormatCSV, nil)
	require.Error(t, err)
}

func TestDecode_ParquetKeepsNulls(t *testing.T) {
	in := []dataset.Patent{
		{CountryCode: "USA", SectionName: "Physics", SubclassName: "Computing", SubclassCode: "G06F",
			PatentCount: datasettest.F(300)},
	}
	var buf bytes.Buffer
	require.NoError(t, parquet.Write(&buf, in))

	out, err := dataset.Decode[dataset.Patent](dataset.FormatParquet, buf.Bytes())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "G06F", out[0].SubclassCode)

	v, err := out[0].Value("patent_count")
	require.NoError(t, err)
	assert.Equal(t, 300.0, v)

	rca, err := out[0].Value("patent_count_rca")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(rca))
}

// patentCounts stores its counts as integers the way many exporters do.
type patentCounts struct {
	CountryCode           string `parquet:"country_code"`
	SectionName           string `parquet:"section_name"`
	SubclassName          string `parquet:"subclass_name"`
	SubclassCode          string `parquet:"subclass_code"`
	PatentCount           int64  `parquet:"patent_count"`
	PatentCountRCA        int32  `parquet:"patent_count_rca"`
	PatentCountProdyCount *int64 `parquet:"patent_count_prody_count,optional"`
}

func TestDecode_ParquetIntegerColumnsBecomeFloats(t *testing.T) {
	prody := int64(7)
	in := []patentCounts{
		{CountryCode: "USA", SectionName: "Physics", SubclassName: "Computing", SubclassCode: "G06F",
			PatentCount: 4200, PatentCountRCA: 3},
		{CountryCode: "DEU", SectionName: "Physics", SubclassName: "Computing", SubclassCode: "G06F",
			PatentCount: 1 << 40, PatentCountProdyCount: &prody},
	}
	var buf bytes.Buffer
	require.NoError(t, parquet.Write(&buf, in))

	out, err := dataset.Decode[dataset.Patent](dataset.FormatParquet, buf.Bytes())
	require.NoError(t, err)
	require.Len(t, out, 2)

	v, err := out[0].Value("patent_count")
	require.NoError(t, err)
	assert.Equal(t, 4200.0, v)
	rca, err := out[0].Value("patent_count_rca")
	require.NoError(t, err)
	assert.Equal(t, 3.0, rca)
	missing, err := out[0].Value("patent_count_prody_count")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(missing))

	big, err := out[1].Value("patent_count")
	require.NoError(t, err)
	assert.Equal(t, float64(1<<40), big)
	p, err := out[1].Value("patent_count_prody_count")
	require.NoError(t, err)
	assert.Equal(t, 7.0, p)
}

func TestDecode_ParquetMissingColumn(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, parquet.Write(&buf, []struct {
		CountryCode string `parquet:"country_code"`
	}{{CountryCode: "USA"}}))

	_, err := dataset.Decode[dataset.Country](dataset.FormatParquet, buf.Bytes())
	assert.ErrorIs(t, err, dataset.ErrMissingColumn)
}

func TestDecodeAll_FromFixtureCSV(t *testing.T) {
	raw := dataset.Raw{Format: dataset.FormatCSV, Data: map[dataset.Table][]byte{}}
	for _, tbl := range dataset.AllTables {
		raw.Data[tbl] = datasettest.CSVFiles()[tbl.ObjectName(dataset.FormatCSV)]
	}

	tables, err := dataset.DecodeAll(raw)
	require.NoError(t, err)

	want := datasettest.Tables()
	assert.Equal(t, want.RowCounts(), tables.RowCounts())
	assert.Len(t, tables.PublicationsFor("USA"), 4)

	total, ok := tables.Total("KEN")
	require.True(t, ok)
	gdp, err := total.Value("gdppc")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(gdp))
}

func TestDecodeAll_ReportsEveryBrokenTable(t *testing.T) {
	raw := dataset.Raw{Format: dataset.FormatCSV, Data: map[dataset.Table][]byte{
		dataset.TableCountryCodes: []byte("nope\n1\n"),
	}}
	_, err := dataset.DecodeAll(raw)
	require.Error(t, err)
	for _, tbl := range dataset.AllTables {
		assert.Contains(t, err.Error(), string(tbl))
	}
}
