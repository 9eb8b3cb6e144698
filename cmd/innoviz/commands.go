// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/ManuGH/innoviz/internal/config"
	"github.com/ManuGH/innoviz/internal/dataset"
	xglog "github.com/ManuGH/innoviz/internal/log"
	"github.com/ManuGH/innoviz/internal/profile"
	"github.com/ManuGH/innoviz/internal/source"
	"github.com/ManuGH/innoviz/internal/store"
	"github.com/ManuGH/innoviz/internal/validate"
)

// Exit codes of the subcommands.
const (
	exitOK      = 0
	exitInvalid = 1
	exitUsage   = 2
)

// loadSnapshot fetches and decodes the datasets once, without the daemon.
func loadSnapshot(ctx context.Context, cfg config.AppConfig) (*store.Snapshot, error) {
	src, err := source.New(ctx, cfg.Data)
	if err != nil {
		return nil, fmt.Errorf("open data source: %w", err)
	}
	defer func() { _ = src.Close() }()

	st, err := store.New(store.Options{
		Source:      src,
		Format:      cfg.Data.Format,
		TTL:         cfg.Data.TTL,
		LoadTimeout: cfg.Data.LoadTimeout,
		Logger:      xglog.WithComponent("store"),
	})
	if err != nil {
		return nil, err
	}
	return st.Snapshot(ctx)
}

// setupCLI parses common flags and configures logging to stderr.
func setupCLI(fs *flag.FlagSet, args []string, stderr io.Writer) (config.AppConfig, bool) {
	configPath := fs.String("config", "", "path to config file (YAML)")
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return config.AppConfig{}, false
	}

	xglog.Configure(xglog.Config{Level: "warn", Output: stderr, Service: "innoviz"})

	cfg, err := loadConfig(strings.TrimSpace(*configPath))
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Configuration error:\n  %v\n", err)
		return config.AppConfig{}, false
	}
	return cfg, true
}

// runValidate loads every table and reports all dataset problems.
func runValidate(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	cfg, ok := setupCLI(fs, args, stderr)
	if !ok {
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snap, err := loadSnapshot(ctx, cfg)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Load error (%s source):\n  %v\n", cfg.Data.Source, err)
		return exitInvalid
	}

	if err := snap.Tables.Validate(); err != nil {
		_, _ = fmt.Fprintln(stderr, "Dataset validation failed:")
		var ve validate.ValidationError
		if errors.As(err, &ve) {
			for _, e := range ve.Errors() {
				_, _ = fmt.Fprintf(stderr, "  - %v\n", e)
			}
		} else {
			_, _ = fmt.Fprintf(stderr, "  %v\n", err)
		}
		return exitInvalid
	}

	counts := snap.Tables.RowCounts()
	tables := make([]string, 0, len(counts))
	for t := range counts {
		tables = append(tables, string(t))
	}
	sort.Strings(tables)

	_, _ = fmt.Fprintf(stdout, "✓ datasets from %s source are valid\n", cfg.Data.Source)
	for _, t := range tables {
		_, _ = fmt.Fprintf(stdout, "  %-16s %d rows\n", t, counts[dataset.Table(t)])
	}
	return exitOK
}

// runProfile prints the profile JSON of one country. Positional arguments
// are option=value pairs using the same names as the HTTP query.
func runProfile(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	country := fs.String("country", "", "country name or ISO code (default: first country)")
	compact := fs.Bool("compact", false, "print compact JSON")
	cfg, ok := setupCLI(fs, args, stderr)
	if !ok {
		return exitUsage
	}

	q := url.Values{}
	for _, arg := range fs.Args() {
		k, v, found := strings.Cut(arg, "=")
		if !found || k == "" {
			_, _ = fmt.Fprintf(stderr, "invalid option %q: want name=value\n", arg)
			return exitUsage
		}
		q.Set(k, v)
	}
	if *country != "" {
		q.Set(profile.ParamCountry, *country)
	}
	opts, err := profile.ParseOptions(q)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snap, err := loadSnapshot(ctx, cfg)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Load error (%s source):\n  %v\n", cfg.Data.Source, err)
		return exitInvalid
	}

	p, err := profile.Build(snap.Tables, opts)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return exitInvalid
	}

	enc := json.NewEncoder(stdout)
	if !*compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(p); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return exitInvalid
	}
	return exitOK
}
