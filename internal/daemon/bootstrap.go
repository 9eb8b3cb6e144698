// SPDX-License-Identifier: MIT

// Package daemon provides the core daemon bootstrapping and lifecycle management.
package daemon

import (
	"context"
	"fmt"

	"github.com/ManuGH/innoviz/internal/api"
	"github.com/ManuGH/innoviz/internal/cache"
	"github.com/ManuGH/innoviz/internal/config"
	"github.com/ManuGH/innoviz/internal/health"
	"github.com/ManuGH/innoviz/internal/log"
	"github.com/ManuGH/innoviz/internal/source"
	"github.com/ManuGH/innoviz/internal/store"
	"github.com/ManuGH/innoviz/internal/telemetry"
)

// Bootstrap wires source, store, view cache, health checks and the HTTP API
// from a validated configuration. Resources opened before a failure are
// released before returning.
func Bootstrap(ctx context.Context, cfg config.AppConfig) (app *App, err error) {
	logger := log.WithComponent("daemon")

	var cleanups []func() error
	defer func() {
		if err == nil {
			return
		}
		for i := len(cleanups) - 1; i >= 0; i-- {
			_ = cleanups[i]()
		}
	}()

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.LogService,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Telemetry.Environment,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}
	cleanups = append(cleanups, func() error { return tp.Shutdown(context.Background()) })

	src, err := source.New(ctx, cfg.Data)
	if err != nil {
		return nil, fmt.Errorf("open data source: %w", err)
	}
	cleanups = append(cleanups, src.Close)

	st, err := store.New(store.Options{
		Source:      src,
		Format:      cfg.Data.Format,
		TTL:         cfg.Data.TTL,
		LoadTimeout: cfg.Data.LoadTimeout,
		Logger:      log.WithComponent("store"),
	})
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}

	views, err := cache.New(cfg.Cache, log.WithComponent("cache"))
	if err != nil {
		return nil, fmt.Errorf("open view cache: %w", err)
	}
	cleanups = append(cleanups, views.Close)

	hm := health.NewManager(cfg.Version)
	registerChecks(hm, cfg, st, views)

	apiSrv, err := api.New(cfg, api.Deps{Store: st, Cache: views, Health: hm})
	if err != nil {
		return nil, fmt.Errorf("create API server: %w", err)
	}

	mgr, err := NewManager(cfg.Server, Deps{Logger: logger, APIHandler: apiSrv.Handler()})
	if err != nil {
		return nil, err
	}
	// LIFO: the cache closes before the source, telemetry flushes last.
	mgr.RegisterShutdownHook("telemetry", tp.Shutdown)
	mgr.RegisterShutdownHook("source", func(context.Context) error { return src.Close() })
	mgr.RegisterShutdownHook("view_cache", func(context.Context) error { return views.Close() })

	hooks := Hooks{
		Invalidate: func() {
			st.Invalidate()
			views.Clear()
		},
		Warm: func(ctx context.Context) error {
			_, err := st.Snapshot(ctx)
			return err
		},
	}
	if cfg.Data.Source == config.SourceLocal && cfg.Data.Watch {
		hooks.Watch = func(ctx context.Context) error {
			return st.Watch(ctx, cfg.Data.Dir, store.DefaultDebounce)
		}
	}

	logger.Info().
		Str(log.FieldEvent, "daemon.bootstrapped").
		Str(log.FieldSource, src.Kind()).
		Str("format", cfg.Data.Format).
		Str("cache", views.Name()).
		Bool("watch", hooks.Watch != nil).
		Bool("tracing", cfg.Telemetry.Enabled).
		Msg("runtime wired")

	return NewApp(logger, mgr, hooks), nil
}

// registerChecks adds the readiness checks of every configured component.
func registerChecks(hm *health.Manager, cfg config.AppConfig, st *store.Store, views cache.Cache) {
	hm.RegisterChecker(health.NewSnapshotChecker(st))

	if p, ok := views.(interface{ HealthCheck(context.Context) error }); ok {
		hm.RegisterChecker(health.NewPingChecker("cache_"+views.Name(), p.HealthCheck))
	}

	switch cfg.Data.Source {
	case config.SourceLocal:
		hm.RegisterChecker(health.NewPathChecker("data_dir", cfg.Data.Dir, true))
	case config.SourceSQLite:
		hm.RegisterChecker(health.NewPathChecker("sqlite_file", cfg.Data.SQLitePath, false))
	}
	if cfg.Data.MirrorDir != "" {
		hm.RegisterChecker(health.NewPathChecker("mirror_dir", cfg.Data.MirrorDir, true))
	}
}
