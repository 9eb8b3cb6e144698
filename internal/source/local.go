// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ManuGH/innoviz/internal/metrics"
)

// Local reads objects from a directory.
type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data dir %s is not a directory", dir)
	}
	return &Local{dir: dir}, nil
}

// Dir is the directory served by l.
func (l *Local) Dir() string { return l.dir }

func (l *Local) Kind() string { return "local" }

func (l *Local) Close() error { return nil }

func (l *Local) Fetch(ctx context.Context, name string) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkName(name); err != nil {
		return nil, err
	}

	path := filepath.Join(l.dir, name)
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		metrics.IncSourceFetch(l.Kind(), metrics.OutcomeFailure)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		metrics.IncSourceFetch(l.Kind(), metrics.OutcomeFailure)
		return nil, err
	}
	// #nosec G304 -- name is validated as a bare file name
	data, err := os.ReadFile(path)
	if err != nil {
		metrics.IncSourceFetch(l.Kind(), metrics.OutcomeFailure)
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	metrics.IncSourceFetch(l.Kind(), metrics.OutcomeSuccess)
	metrics.AddSourceBytes(l.Kind(), len(data))
	return newObject(name, data, info.ModTime())
}
