// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/innoviz/internal/log"
)

// Hooks are the runtime callbacks an App drives besides the server.
type Hooks struct {
	// Invalidate drops the dataset snapshot and cached views.
	Invalidate func()
	// Watch blocks watching the data source until ctx is done. Optional.
	Watch func(ctx context.Context) error
	// Warm loads the first snapshot in the background. Optional.
	Warm func(ctx context.Context) error
}

// App owns the long-lived runtime lifecycle (watcher, reload signal, warm-up)
// and delegates server management to Manager.
type App struct {
	logger       zerolog.Logger
	manager      Manager
	hooks        Hooks
	reloadSignal os.Signal
}

// NewApp creates a new App orchestrator.
func NewApp(logger zerolog.Logger, manager Manager, hooks Hooks) *App {
	return &App{
		logger:       logger,
		manager:      manager,
		hooks:        hooks,
		reloadSignal: syscall.SIGHUP,
	}
}

// Run starts all owned background subsystems and blocks until ctx is cancelled or a fatal error occurs.
func (a *App) Run(ctx context.Context) error {
	if a.manager == nil {
		return ErrMissingManager
	}

	g, ctx := errgroup.WithContext(ctx)

	if a.hooks.Invalidate != nil && a.reloadSignal != nil {
		hupChan := make(chan os.Signal, 1)
		signal.Notify(hupChan, a.reloadSignal)
		g.Go(func() error {
			defer signal.Stop(hupChan)
			a.reloadLoop(ctx, hupChan)
			return nil
		})
	}

	// The watcher is best-effort: the daemon keeps serving with TTL refresh.
	if a.hooks.Watch != nil {
		g.Go(func() error {
			if err := a.hooks.Watch(ctx); err != nil {
				a.logger.Warn().Err(err).Str(log.FieldEvent, "store.watcher_start_failed").Msg("data watcher unavailable")
			}
			return nil
		})
	}

	if a.hooks.Warm != nil {
		g.Go(func() error {
			if err := a.hooks.Warm(ctx); err != nil {
				a.logger.Warn().Err(err).Str(log.FieldEvent, "store.warm_failed").Msg("initial dataset load failed")
			}
			return nil
		})
	}

	g.Go(func() error {
		err := a.manager.Start(ctx)
		if err != nil {
			_ = a.manager.Shutdown(context.Background())
		}
		return err
	})

	return g.Wait()
}

func (a *App) reloadLoop(ctx context.Context, signals <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-signals:
			a.logger.Info().
				Str(log.FieldEvent, "store.reload_signal").
				Str("signal", sig.String()).
				Msg("received reload signal, invalidating dataset")
			a.hooks.Invalidate()
		}
	}
}
