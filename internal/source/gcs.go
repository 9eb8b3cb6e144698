// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package source

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/ManuGH/innoviz/internal/metrics"
	"github.com/ManuGH/innoviz/internal/telemetry"
)

// GCSConfig configures the bucket source.
type GCSConfig struct {
	Bucket string
	// QuotaProject overrides the project billed for requests.
	QuotaProject string
	// CredentialsFile and CredentialsJSON are mutually exclusive. With neither
	// set, application default credentials are used.
	CredentialsFile string
	CredentialsJSON string
	// Endpoint overrides the storage API endpoint (emulators).
	Endpoint string
}

// GCS reads objects from a Cloud Storage bucket.
type GCS struct {
	client *storage.Client
	bucket *storage.BucketHandle
	name   string
}

func NewGCS(ctx context.Context, cfg GCSConfig) (*GCS, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("gcs: bucket is required")
	}

	var opts []option.ClientOption
	switch {
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	}
	if cfg.QuotaProject != "" {
		opts = append(opts, option.WithQuotaProject(cfg.QuotaProject))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs: create client: %w", err)
	}
	return &GCS{client: client, bucket: client.Bucket(cfg.Bucket), name: cfg.Bucket}, nil
}

func (g *GCS) Kind() string { return "gcs" }

func (g *GCS) Close() error { return g.client.Close() }

func (g *GCS) Fetch(ctx context.Context, name string) (*Object, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	ctx, span := telemetry.Tracer("innoviz/source").Start(ctx, "gcs.fetch")
	defer span.End()

	rc, err := g.bucket.Object(name).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		metrics.IncSourceFetch(g.Kind(), metrics.OutcomeFailure)
		telemetry.RecordError(span, err, "not_found")
		return nil, fmt.Errorf("%w: gs://%s/%s", ErrNotFound, g.name, name)
	}
	if err != nil {
		metrics.IncSourceFetch(g.Kind(), metrics.OutcomeFailure)
		telemetry.RecordError(span, err, "open")
		return nil, fmt.Errorf("gcs: open gs://%s/%s: %w", g.name, name, err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		metrics.IncSourceFetch(g.Kind(), metrics.OutcomeFailure)
		telemetry.RecordError(span, err, "read")
		return nil, fmt.Errorf("gcs: read gs://%s/%s: %w", g.name, name, err)
	}

	metrics.IncSourceFetch(g.Kind(), metrics.OutcomeSuccess)
	metrics.AddSourceBytes(g.Kind(), len(data))
	span.SetAttributes(telemetry.SourceAttributes(g.Kind(), name, len(data), false)...)
	return newObject(name, data, rc.Attrs.LastModified)
}
