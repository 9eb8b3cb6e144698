// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/jszwec/csvutil"
)

// ErrMissingColumn is returned when a header lacks a column the row type needs.
var ErrMissingColumn = errors.New("missing column")

// columnTag is the struct tag both codecs bind columns by.
const columnTag = "parquet"

// ColumnNames returns the column names R binds to, in field order.
func ColumnNames[R any]() []string {
	rt := reflect.TypeFor[R]()
	out := make([]string, 0, rt.NumField())
	for i := range rt.NumField() {
		tag, ok := rt.Field(i).Tag.Lookup(columnTag)
		if !ok {
			continue
		}
		if name, _, _ := strings.Cut(tag, ","); name != "" && name != "-" {
			out = append(out, name)
		}
	}
	return out
}

func isMissing(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "na", "nan", "null", "none":
		return true
	}
	return false
}

// numbers maps the missing-value tokens onto nil *float64 fields.
var numbers = csvutil.NewUnmarshalers(
	csvutil.UnmarshalFunc(func(data []byte, dst **float64) error {
		s := string(data)
		if isMissing(s) {
			*dst = nil
			return nil
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return err
		}
		*dst = &x
		return nil
	}),
)

// decodeCSV binds a headed CSV document onto rows of R.
func decodeCSV[R any](r io.Reader) ([]R, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty document")
		}
		return nil, err
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return decodeRecords[R](cr, header)
}

// decodeRecords binds string records carrying the given header onto rows of R.
// Columns outside R are ignored.
func decodeRecords[R any](rd csvutil.Reader, header []string) ([]R, error) {
	if err := requireColumns[R](header); err != nil {
		return nil, err
	}
	dec, err := csvutil.NewDecoder(rd, header...)
	if err != nil {
		return nil, err
	}
	dec.Tag = columnTag
	dec.WithUnmarshalers(numbers)

	var rows []R
	for line := 2; ; line++ {
		var row R
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func requireColumns[R any](header []string) error {
	have := make(map[string]struct{}, len(header))
	for _, h := range header {
		have[h] = struct{}{}
	}
	var missing []string
	for _, name := range ColumnNames[R]() {
		if _, ok := have[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}
