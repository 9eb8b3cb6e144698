// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Supported encodings.
const (
	FormatParquet = "parquet"
	FormatCSV     = "csv"
)

// ErrUnsupportedFormat is returned for objects that are neither parquet nor CSV.
var ErrUnsupportedFormat = errors.New("file format not supported")

// FormatFromName derives the encoding from an object name's extension.
func FormatFromName(name string) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".parquet":
		return FormatParquet, nil
	case ".csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
}

// Decode decodes a whole table of rows of type R.
func Decode[R any](format string, data []byte) ([]R, error) {
	switch format {
	case FormatParquet:
		rows, err := decodeParquet[R](data)
		if err != nil {
			return nil, fmt.Errorf("read parquet: %w", err)
		}
		return rows, nil
	case FormatCSV:
		rows, err := decodeCSV[R](bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		return rows, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Raw holds the undecoded bytes of every table.
type Raw struct {
	Format string
	Data   map[Table][]byte
}

// DecodeAll decodes the four tables of raw and indexes them.
func DecodeAll(raw Raw) (*Tables, error) {
	get := func(t Table) ([]byte, error) {
		b, ok := raw.Data[t]
		if !ok {
			return nil, fmt.Errorf("table %s missing", t)
		}
		return b, nil
	}

	var errs []error
	decode := func(t Table, fn func([]byte) error) {
		b, err := get(t)
		if err == nil {
			err = fn(b)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", t, err))
		}
	}

	var (
		pubs      []Publication
		pats      []Patent
		countries []Country
		totals    []CountryTotal
	)
	decode(TablePublications, func(b []byte) (err error) {
		pubs, err = Decode[Publication](raw.Format, b)
		return err
	})
	decode(TablePatents, func(b []byte) (err error) {
		pats, err = Decode[Patent](raw.Format, b)
		return err
	})
	decode(TableCountryCodes, func(b []byte) (err error) {
		countries, err = Decode[Country](raw.Format, b)
		return err
	})
	decode(TableCountryTotals, func(b []byte) (err error) {
		totals, err = Decode[CountryTotal](raw.Format, b)
		return err
	})
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return NewTables(pubs, pats, countries, totals), nil
}
