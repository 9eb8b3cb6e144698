// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package datasettest

import (
	"bytes"
	"encoding/csv"

	"github.com/ManuGH/innoviz/internal/dataset"
	"github.com/jszwec/csvutil"
)

// CSV renders rows as a headed CSV document using their column tags.
// It panics on encoding errors; fixtures are static.
func CSV[R any](rows []R) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	enc := csvutil.NewEncoder(w)
	enc.Tag = "parquet"
	if err := enc.Encode(rows); err != nil {
		panic(err)
	}
	w.Flush()
	return buf.Bytes()
}

// CSVFiles returns the fixture snapshot as CSV objects keyed by object name.
func CSVFiles() map[string][]byte {
	return map[string][]byte{
		dataset.TablePublications.ObjectName(dataset.FormatCSV):  CSV(Publications()),
		dataset.TablePatents.ObjectName(dataset.FormatCSV):       CSV(Patents()),
		dataset.TableCountryCodes.ObjectName(dataset.FormatCSV):  CSV(Countries()),
		dataset.TableCountryTotals.ObjectName(dataset.FormatCSV): CSV(Totals()),
	}
}
