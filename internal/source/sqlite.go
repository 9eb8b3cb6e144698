// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package source

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/ManuGH/innoviz/internal/dataset"
	"github.com/ManuGH/innoviz/internal/metrics"
)

// SQLite serves each dataset table from a same-named table of a SQLite export.
// Rows are re-encoded as CSV so they flow through the CSV binder.
type SQLite struct {
	db      *sql.DB
	path    string
	updated func() (os.FileInfo, error)
}

func NewSQLite(path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	cleanPath := filepath.Clean(path)
	if _, err := os.Stat(cleanPath); err != nil {
		return nil, fmt.Errorf("sqlite db: %w", err)
	}

	db, err := sql.Open("sqlite", cleanPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return &SQLite{
		db:      db,
		path:    cleanPath,
		updated: func() (os.FileInfo, error) { return os.Stat(cleanPath) },
	}, nil
}

func (s *SQLite) Kind() string { return "sqlite" }

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Fetch exports the table named by the stem of name, e.g.
// "country_codes.parquet" reads table country_codes.
func (s *SQLite) Fetch(ctx context.Context, name string) (*Object, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	table := dataset.Table(strings.TrimSuffix(name, filepath.Ext(name)))
	if !slices.Contains(dataset.AllTables, table) {
		return nil, fmt.Errorf("%w: no table for %s", ErrNotFound, name)
	}

	data, err := s.export(ctx, table)
	if err != nil {
		metrics.IncSourceFetch(s.Kind(), metrics.OutcomeFailure)
		return nil, err
	}
	metrics.IncSourceFetch(s.Kind(), metrics.OutcomeSuccess)
	metrics.AddSourceBytes(s.Kind(), len(data))

	obj := &Object{Name: name, Format: dataset.FormatCSV, Data: data}
	if info, err := s.updated(); err == nil {
		obj.Updated = info.ModTime()
	}
	return obj, nil
}

func (s *SQLite) export(ctx context.Context, table dataset.Table) ([]byte, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type IN ('table', 'view') AND name = ?`, string(table)).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("lookup table %s: %w", table, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: table %s in %s", ErrNotFound, table, s.path)
	}

	// table is one of dataset.AllTables, never user input.
	rows, err := s.db.QueryContext(ctx, `SELECT * FROM "`+string(table)+`"`) // #nosec G202
	if err != nil {
		return nil, fmt.Errorf("query table %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(cols); err != nil {
		return nil, err
	}

	values := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}
	record := make([]string, len(cols))
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan table %s: %w", table, err)
		}
		for i, v := range values {
			record[i] = ""
			if v.Valid {
				record[i] = v.String
			}
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table %s: %w", table, err)
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
