// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package api serves country profiles over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/routers"
	"github.com/rs/zerolog"

	"github.com/ManuGH/innoviz/internal/cache"
	"github.com/ManuGH/innoviz/internal/config"
	"github.com/ManuGH/innoviz/internal/health"
	xglog "github.com/ManuGH/innoviz/internal/log"
	"github.com/ManuGH/innoviz/internal/store"
)

// Snapshotter is the dataset store as seen by the HTTP layer.
type Snapshotter interface {
	Snapshot(ctx context.Context) (*store.Snapshot, error)
	Reload(ctx context.Context) (*store.Snapshot, error)
	Invalidate()
	Status() store.Status
}

// Deps are the collaborators of a Server.
type Deps struct {
	Store  Snapshotter
	Cache  cache.Cache
	Health *health.Manager
}

// Server routes profile requests to the store and renders views.
type Server struct {
	cfg      config.AppConfig
	store    Snapshotter
	cache    cache.Cache
	health   *health.Manager
	logger   zerolog.Logger
	cacheTTL time.Duration
	handler  http.Handler
	openapi  routers.Router
}

// New builds a Server and its route tree.
func New(cfg config.AppConfig, deps Deps) (*Server, error) {
	if deps.Store == nil {
		return nil, errors.New("api: store is required")
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewNoOpCache()
	}
	if deps.Health == nil {
		deps.Health = health.NewManager(cfg.Version)
	}
	s := &Server{
		cfg:      cfg,
		store:    deps.Store,
		cache:    deps.Cache,
		health:   deps.Health,
		logger:   xglog.WithComponent("api"),
		cacheTTL: cfg.Cache.TTL,
	}
	_, router, err := loadOpenAPI(context.Background())
	if err != nil {
		return nil, err
	}
	s.openapi = router
	s.handler = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}
