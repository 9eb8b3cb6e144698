// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"net/http"

	"github.com/ManuGH/innoviz/internal/log"
	"github.com/ManuGH/innoviz/internal/store"
)

type reloadResponse struct {
	// Reloaded is set when the request waited for a fresh snapshot.
	Reloaded bool         `json:"reloaded"`
	Status   store.Status `json:"status"`
}

// handleReload drops the current snapshot and every cached view.
// With ?wait=true the next snapshot is loaded before responding.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	logger := log.WithContext(r.Context(), s.logger)

	if token := s.cfg.API.ReloadToken; token != "" {
		if !authorizeToken(bearerToken(r), token) {
			logger.Warn().
				Str(log.FieldEvent, "auth.invalid_token").
				Str(log.FieldRemoteAddr, r.RemoteAddr).
				Msg("reload rejected")
			w.Header().Set("WWW-Authenticate", `Bearer realm="innoviz"`)
			writeProblem(w, r, http.StatusUnauthorized, codeUnauthorized, "a valid bearer token is required")
			return
		}
	}

	s.store.Invalidate()
	s.cache.Clear()
	logger.Info().
		Str(log.FieldEvent, "api.reload").
		Str("cache", s.cache.Name()).
		Msg("snapshot and view cache invalidated")

	if r.URL.Query().Get("wait") != "true" {
		writeJSON(w, http.StatusAccepted, reloadResponse{Status: s.store.Status()})
		return
	}

	snap, err := s.store.Reload(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	// A failed reload with a previous snapshot keeps serving the old one.
	if snap.Stale {
		status := s.store.Status()
		writeJSON(w, http.StatusServiceUnavailable, struct {
			Problem
			Status store.Status `json:"status"`
		}{
			Problem: Problem{
				Error:     codeUnavailable,
				Detail:    "reload failed, still serving the previous snapshot: " + status.LastError,
				RequestID: log.RequestIDFromContext(r.Context()),
			},
			Status: status,
		})
		return
	}
	writeJSON(w, http.StatusOK, reloadResponse{Reloaded: true, Status: s.store.Status()})
}
