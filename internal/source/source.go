// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package source fetches the raw dataset objects from a bucket, a directory
// or a SQLite export.
package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ManuGH/innoviz/internal/config"
	"github.com/ManuGH/innoviz/internal/dataset"
	xglog "github.com/ManuGH/innoviz/internal/log"
	"github.com/ManuGH/innoviz/internal/validate"
)

// ErrNotFound is returned when the named object does not exist.
var ErrNotFound = errors.New("object not found")

// Object is one fetched dataset file.
type Object struct {
	Name string
	// Format is the encoding of Data, which may differ from the name's
	// extension for sources that re-encode (sqlite always yields csv).
	Format     string
	Data       []byte
	Updated    time.Time
	FromMirror bool
}

// Source fetches named objects.
type Source interface {
	Fetch(ctx context.Context, name string) (*Object, error)
	// Kind is the config name of the source ("gcs", "local", "sqlite").
	Kind() string
	Close() error
}

// New builds the source described by cfg, wrapped in a mirror when
// cfg.MirrorDir is set.
func New(ctx context.Context, cfg config.DataConfig) (Source, error) {
	var (
		src Source
		err error
	)
	switch cfg.Source {
	case config.SourceGCS:
		src, err = NewGCS(ctx, GCSConfig{
			Bucket:          cfg.Bucket,
			QuotaProject:    cfg.QuotaProject,
			CredentialsFile: cfg.CredentialsFile,
			CredentialsJSON: cfg.CredentialsJSON,
			Endpoint:        cfg.Endpoint,
		})
	case config.SourceLocal:
		src, err = NewLocal(cfg.Dir)
	case config.SourceSQLite:
		src, err = NewSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported data source %q", cfg.Source)
	}
	if err != nil {
		return nil, err
	}
	if cfg.MirrorDir != "" {
		return NewMirror(src, cfg.MirrorDir, xglog.WithComponent("source"))
	}
	return src, nil
}

func checkName(name string) error {
	v := validate.New()
	v.ObjectName("name", name)
	return v.Err()
}

func newObject(name string, data []byte, updated time.Time) (*Object, error) {
	format, err := dataset.FormatFromName(name)
	if err != nil {
		return nil, err
	}
	return &Object{Name: name, Format: format, Data: data, Updated: updated}, nil
}
