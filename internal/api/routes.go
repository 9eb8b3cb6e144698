// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ManuGH/innoviz/internal/api/middleware"
)

func (s *Server) routes() http.Handler {
	stack := middleware.StackConfig{
		EnableCORS:            len(s.cfg.API.AllowedOrigins) > 0,
		AllowedOrigins:        s.cfg.API.AllowedOrigins,
		EnableSecurityHeaders: true,
		EnableMetrics:         true,
		EnableLogging:         true,
		RateLimitRPM:          s.cfg.API.RateLimitRPM,
	}
	if s.cfg.Telemetry.Enabled {
		stack.TracingService = s.cfg.LogService
	}
	r := middleware.NewRouter(stack)

	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", s.handlePage)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.validateRequest)
		r.Get("/openapi.yaml", s.handleOpenAPI)
		r.Get("/about", s.handleAbout)
		r.Get("/countries", s.handleCountries)
		r.Get("/profile", s.handleProfile)
		r.Get("/scatter/{kind}", s.handleScatter)
		r.Get("/treemap/{kind}", s.handleTreemap)
		r.Get("/status", s.handleStatus)

		r.With(
			middleware.ReloadRateLimit(s.cfg.API.ReloadRateLimitRPM),
			middleware.CSRFProtection(s.cfg.API.AllowedOrigins),
		).Post("/reload", s.handleReload)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, r, http.StatusNotFound, codeNotFound, "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, r, http.StatusMethodNotAllowed, codeMethodNotAllowed, r.Method+" not allowed on "+r.URL.Path)
	})
	return r
}
