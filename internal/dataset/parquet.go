// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package dataset

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
)

const parquetBatch = 256

// parquetRecords reads a parquet file with its own schema and yields each
// row as text records, one cell per leaf column. Nulls become empty cells.
type parquetRecords struct {
	reader *parquet.Reader
	width  int
	batch  []parquet.Row
	next   int
	filled int
	done   bool
	err    error
}

func openParquet(data []byte) (*parquetRecords, []string, error) {
	f, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, err
	}
	cols := f.Schema().Columns()
	header := make([]string, len(cols))
	for i, path := range cols {
		header[i] = strings.Join(path, ".")
	}
	return &parquetRecords{
		reader: parquet.NewReader(f),
		width:  len(cols),
		batch:  make([]parquet.Row, parquetBatch),
	}, header, nil
}

// Read implements csvutil.Reader.
func (p *parquetRecords) Read() ([]string, error) {
	for p.next >= p.filled {
		if p.done {
			if p.err != nil {
				return nil, p.err
			}
			return nil, io.EOF
		}
		n, err := p.reader.ReadRows(p.batch)
		p.next, p.filled = 0, n
		if err != nil {
			p.done = true
			if !errors.Is(err, io.EOF) {
				p.err = err
			}
		}
	}
	row := p.batch[p.next]
	p.next++

	rec := make([]string, p.width)
	for _, v := range row {
		if c := v.Column(); c >= 0 && c < p.width {
			rec[c] = valueText(v)
		}
	}
	return rec, nil
}

func (p *parquetRecords) Close() error { return p.reader.Close() }

// valueText renders a leaf value by its physical kind.
func valueText(v parquet.Value) string {
	if v.IsNull() {
		return ""
	}
	switch v.Kind() {
	case parquet.Boolean:
		return strconv.FormatBool(v.Boolean())
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case parquet.Float:
		return strconv.FormatFloat(float64(v.Float()), 'g', -1, 32)
	case parquet.Double:
		return strconv.FormatFloat(v.Double(), 'g', -1, 64)
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	}
	return v.String()
}

// decodeParquet binds a parquet file onto rows of R. Every numeric
// physical type lands in the float fields of R.
func decodeParquet[R any](data []byte) ([]R, error) {
	records, header, err := openParquet(data)
	if err != nil {
		return nil, err
	}
	defer records.Close()
	return decodeRecords[R](records, header)
}
