// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package store keeps the current dataset snapshot in memory and refreshes it
// from the configured source.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/ManuGH/innoviz/internal/dataset"
	xglog "github.com/ManuGH/innoviz/internal/log"
	"github.com/ManuGH/innoviz/internal/metrics"
	"github.com/ManuGH/innoviz/internal/source"
	"github.com/ManuGH/innoviz/internal/telemetry"
	"github.com/ManuGH/innoviz/internal/validate"
)

// ErrUnavailable is returned when no snapshot has ever been loaded and the
// current load failed.
var ErrUnavailable = errors.New("dataset unavailable")

const (
	defaultTTL          = 600 * time.Second
	defaultLoadTimeout  = 2 * time.Minute
	defaultRetryBackoff = 30 * time.Second
)

// Options configures a Store.
type Options struct {
	Source source.Source
	// Format selects the object names fetched: "<table>.<format>".
	Format      string
	TTL         time.Duration
	LoadTimeout time.Duration
	// RetryBackoff is how long a failed reload is not retried while a stale
	// snapshot is being served.
	RetryBackoff time.Duration
	Logger       zerolog.Logger
}

// Snapshot is an immutable view of one successful load.
type Snapshot struct {
	Tables     *dataset.Tables
	Generation uint64
	LoadedAt   time.Time
	// Updated is the newest modification time reported by the source.
	Updated time.Time
	// Stale is set when the snapshot outlived its TTL because reloading failed.
	Stale bool
	// ValidationErrors counts problems found by dataset validation.
	ValidationErrors int
}

// Store serves dataset snapshots with TTL refresh and stale-while-error.
type Store struct {
	src          source.Source
	format       string
	ttl          time.Duration
	loadTimeout  time.Duration
	retryBackoff time.Duration
	logger       zerolog.Logger
	now          func() time.Time

	group singleflight.Group

	mu          sync.RWMutex
	current     *Snapshot
	generation  uint64
	invalidated bool
	// epoch counts Invalidate calls; a load only clears invalidated when no
	// call happened while it ran.
	epoch       uint64
	lastErr     error
	lastErrAt   time.Time
}

func New(opts Options) (*Store, error) {
	if opts.Source == nil {
		return nil, errors.New("store: source is required")
	}
	if opts.Format == "" {
		opts.Format = dataset.FormatParquet
	}
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = defaultLoadTimeout
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = defaultRetryBackoff
	}
	return &Store{
		src:          opts.Source,
		format:       opts.Format,
		ttl:          opts.TTL,
		loadTimeout:  opts.LoadTimeout,
		retryBackoff: opts.RetryBackoff,
		logger:       opts.Logger,
		now:          time.Now,
	}, nil
}

// Snapshot returns the current snapshot, loading it when missing, expired or
// invalidated. Concurrent callers share one load. A load that was overtaken by
// Invalidate is followed by one more, so callers never get data fetched before
// the invalidation they raced with.
func (s *Store) Snapshot(ctx context.Context) (*Snapshot, error) {
	for attempt := 0; ; attempt++ {
		s.mu.RLock()
		cur, fresh, backoff := s.current, s.freshLocked(), s.backingOffLocked()
		s.mu.RUnlock()

		if cur != nil && fresh {
			return cur, nil
		}
		if cur != nil && backoff {
			return s.serveStale(cur), nil
		}

		ch := s.group.DoChan("load", func() (any, error) {
			// Detached so one cancelled request does not fail every waiter.
			lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
			defer cancel()
			return s.load(lctx)
		})

		var res singleflight.Result
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res = <-ch:
		}
		if res.Err != nil {
			if cur != nil {
				return s.serveStale(cur), nil
			}
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, res.Err)
		}

		s.mu.RLock()
		overtaken := s.invalidated
		s.mu.RUnlock()
		if !overtaken || attempt > 0 {
			return res.Val.(*Snapshot), nil
		}
	}
}

// Reload drops the current snapshot and loads a new one immediately.
func (s *Store) Reload(ctx context.Context) (*Snapshot, error) {
	s.Invalidate()
	return s.Snapshot(ctx)
}

// Invalidate forces the next Snapshot call to reload. The previous snapshot
// stays available for stale serving.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.invalidated = true
	s.epoch++
	s.lastErrAt = time.Time{}
	s.mu.Unlock()
}

// Ready reports whether any snapshot has been loaded.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

func (s *Store) freshLocked() bool {
	return s.current != nil && !s.invalidated && s.now().Sub(s.current.LoadedAt) < s.ttl
}

func (s *Store) backingOffLocked() bool {
	return s.lastErr != nil && !s.lastErrAt.IsZero() && s.now().Sub(s.lastErrAt) < s.retryBackoff
}

func (s *Store) serveStale(cur *Snapshot) *Snapshot {
	metrics.IncStaleServed()
	stale := *cur
	stale.Stale = true
	return &stale
}

func (s *Store) load(ctx context.Context) (*Snapshot, error) {
	ctx, span := telemetry.Tracer("innoviz/store").Start(ctx, "store.load")
	defer span.End()

	s.mu.RLock()
	epoch := s.epoch
	s.mu.RUnlock()

	start := s.now()
	snap, err := s.fetchAndDecode(ctx)
	metrics.RecordSnapshotLoad(s.now().Sub(start), err)
	if err != nil {
		telemetry.RecordError(span, err, "load")
		s.mu.Lock()
		s.lastErr = err
		if s.epoch == epoch {
			s.lastErrAt = s.now()
		}
		hasStale := s.current != nil
		s.mu.Unlock()

		s.logger.Error().Err(err).
			Str(xglog.FieldEvent, "store.load_failed").
			Str(xglog.FieldSource, s.src.Kind()).
			Bool("stale_available", hasStale).
			Msg("dataset load failed")
		return nil, err
	}

	s.mu.Lock()
	s.generation++
	snap.Generation = s.generation
	s.current = snap
	if s.epoch == epoch {
		s.invalidated = false
	}
	s.lastErr = nil
	s.lastErrAt = time.Time{}
	s.mu.Unlock()

	rows := snap.Tables.RowCounts()
	total := 0
	labels := make(map[string]int, len(rows))
	for t, n := range rows {
		labels[string(t)] = n
		total += n
	}
	metrics.RecordSnapshot(labels, snap.LoadedAt, snap.ValidationErrors)
	span.SetAttributes(telemetry.SnapshotAttributes(snap.Generation, total, false)...)

	s.logger.Info().
		Str(xglog.FieldEvent, "store.loaded").
		Str(xglog.FieldSource, s.src.Kind()).
		Uint64(xglog.FieldGeneration, snap.Generation).
		Int(xglog.FieldRows, total).
		Dur("took", s.now().Sub(start)).
		Msg("dataset snapshot loaded")
	return snap, nil
}

func (s *Store) fetchAndDecode(ctx context.Context) (*Snapshot, error) {
	objects := make([]*source.Object, len(dataset.AllTables))
	g, gctx := errgroup.WithContext(ctx)
	for i, table := range dataset.AllTables {
		g.Go(func() error {
			obj, err := s.src.Fetch(gctx, table.ObjectName(s.format))
			if err != nil {
				return fmt.Errorf("fetch %s: %w", table, err)
			}
			objects[i] = obj
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	raw := dataset.Raw{Data: make(map[dataset.Table][]byte, len(objects))}
	var updated time.Time
	for i, obj := range objects {
		if raw.Format == "" {
			raw.Format = obj.Format
		} else if obj.Format != raw.Format {
			return nil, fmt.Errorf("mixed formats: %s is %s, expected %s", obj.Name, obj.Format, raw.Format)
		}
		raw.Data[dataset.AllTables[i]] = obj.Data
		if obj.Updated.After(updated) {
			updated = obj.Updated
		}
		if obj.FromMirror {
			s.logger.Warn().
				Str(xglog.FieldEvent, "store.mirror_used").
				Str(xglog.FieldObject, obj.Name).
				Msg("table loaded from mirror copy")
		}
	}

	tables, err := dataset.DecodeAll(raw)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	now := s.now()
	tables.LoadedAt = now

	snap := &Snapshot{Tables: tables, LoadedAt: now, Updated: updated}
	if verr := tables.Validate(); verr != nil {
		snap.ValidationErrors = 1
		var ve validate.ValidationError
		if errors.As(verr, &ve) {
			snap.ValidationErrors = len(ve.Errors())
		}
		s.logger.Warn().Err(verr).
			Str(xglog.FieldEvent, "store.validation_failed").
			Int("problems", snap.ValidationErrors).
			Msg("dataset snapshot has validation problems")
	}
	return snap, nil
}
