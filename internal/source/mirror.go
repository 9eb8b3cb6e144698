// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"

	xglog "github.com/ManuGH/innoviz/internal/log"
	"github.com/ManuGH/innoviz/internal/metrics"
)

// Mirror keeps the last good copy of every object fetched from an upstream
// source and serves it when the upstream fails.
type Mirror struct {
	upstream Source
	dir      string
	logger   zerolog.Logger
}

type mirrorMeta struct {
	Format  string    `json:"format"`
	Updated time.Time `json:"updated"`
}

func NewMirror(upstream Source, dir string, logger zerolog.Logger) (*Mirror, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create mirror dir: %w", err)
	}
	return &Mirror{upstream: upstream, dir: dir, logger: logger}, nil
}

func (m *Mirror) Kind() string { return m.upstream.Kind() }

func (m *Mirror) Close() error { return m.upstream.Close() }

func (m *Mirror) Fetch(ctx context.Context, name string) (*Object, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	obj, err := m.upstream.Fetch(ctx, name)
	if err == nil {
		if werr := m.store(ctx, obj); werr != nil {
			m.logger.Warn().Err(werr).
				Str(xglog.FieldEvent, "mirror.write_failed").
				Str(xglog.FieldObject, name).
				Msg("failed to update mirror copy")
		}
		return obj, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	cached, cerr := m.load(name)
	if cerr != nil {
		return nil, errors.Join(err, fmt.Errorf("mirror: %w", cerr))
	}
	m.logger.Warn().Err(err).
		Str(xglog.FieldEvent, "mirror.fallback").
		Str(xglog.FieldSource, m.Kind()).
		Str(xglog.FieldObject, name).
		Time("updated", cached.Updated).
		Msg("upstream fetch failed, serving mirror copy")
	metrics.IncSourceFetch(m.Kind(), metrics.OutcomeMirror)
	return cached, nil
}

func (m *Mirror) store(ctx context.Context, obj *Object) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	meta, err := json.Marshal(mirrorMeta{Format: obj.Format, Updated: obj.Updated})
	if err != nil {
		return err
	}
	if err := writeAtomic(m.dataPath(obj.Name), obj.Data); err != nil {
		return err
	}
	return writeAtomic(m.metaPath(obj.Name), meta)
}

func (m *Mirror) load(name string) (*Object, error) {
	data, err := os.ReadFile(m.dataPath(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: no mirror copy of %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}

	obj := &Object{Name: name, Data: data, FromMirror: true}
	var meta mirrorMeta
	raw, err := os.ReadFile(m.metaPath(name))
	if err == nil && json.Unmarshal(raw, &meta) == nil {
		obj.Format = meta.Format
		obj.Updated = meta.Updated
	}
	if obj.Format == "" {
		fallback, err := newObject(name, data, time.Time{})
		if err != nil {
			return nil, err
		}
		obj.Format = fallback.Format
	}
	return obj, nil
}

func (m *Mirror) dataPath(name string) string { return filepath.Join(m.dir, name) }

func (m *Mirror) metaPath(name string) string { return filepath.Join(m.dir, "."+name+".meta.json") }

func writeAtomic(path string, data []byte) error {
	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o640))
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer func() { _ = pending.Cleanup() }()

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("commit %s: %w", path, err)
	}
	return nil
}
