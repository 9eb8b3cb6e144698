// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// innoviz serves country innovation profiles over HTTP.
//
// Usage:
//
//	innoviz [-config file.yaml]          run the daemon
//	innoviz -version                     print version and exit
//	innoviz validate [-config file.yaml] load and validate the datasets
//	innoviz profile [-config file.yaml] [-country name] [option=value ...]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ManuGH/innoviz/internal/config"
	"github.com/ManuGH/innoviz/internal/daemon"
	"github.com/ManuGH/innoviz/internal/health"
	xglog "github.com/ManuGH/innoviz/internal/log"
	"github.com/ManuGH/innoviz/internal/version"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "validate":
			os.Exit(runValidate(os.Args[2:], os.Stdout, os.Stderr))
		case "profile":
			os.Exit(runProfile(os.Args[2:], os.Stdout, os.Stderr))
		}
	}

	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	// Safe defaults until the config is loaded.
	xglog.Configure(xglog.Config{
		Level:   "info",
		Service: "innoviz",
		Version: version.Version,
	})
	logger := xglog.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path := strings.TrimSpace(*configPath)
	cfg, err := loadConfig(path)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "config.load_failed").
			Str("config_path", path).
			Msg("failed to load configuration")
	}

	xglog.Configure(xglog.Config{
		Level:   cfg.LogLevel,
		Service: cfg.LogService,
		Version: cfg.Version,
	})
	logger = xglog.WithComponent("daemon")

	if path != "" {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "file").
			Str("path", path).
			Msg("loaded configuration from file")
	} else {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "env+defaults").
			Msg("loaded configuration from environment and defaults")
	}

	if err := health.PerformStartupChecks(cfg); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "startup.check_failed").
			Msg("pre-flight checks failed")
	}

	app, err := daemon.Bootstrap(ctx, cfg)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "daemon.bootstrap_failed").
			Msg("failed to wire runtime")
	}

	logger.Info().
		Str("event", "daemon.start").
		Str("version", version.Version).
		Str("listen", cfg.Server.ListenAddr).
		Str("source", cfg.Data.Source).
		Msg("starting innoviz")

	if err := app.Run(ctx); err != nil {
		logger.Error().Err(err).Str("event", "daemon.failed").Msg("daemon stopped with error")
		stop()
		os.Exit(1)
	}
	logger.Info().Str("event", "daemon.stopped").Msg("shutdown complete")
}

// loadConfig loads and validates the configuration: ENV > file > defaults.
func loadConfig(path string) (config.AppConfig, error) {
	return config.NewLoader(path, version.Version).Load()
}
