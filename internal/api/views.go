// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/innoviz/internal/api/middleware"
	"github.com/ManuGH/innoviz/internal/dataset"
	"github.com/ManuGH/innoviz/internal/log"
	"github.com/ManuGH/innoviz/internal/metrics"
	"github.com/ManuGH/innoviz/internal/telemetry"
)

// Response headers describing how a view was served.
const (
	headerCache      = middleware.HeaderViewCache
	headerGeneration = "X-Snapshot-Generation"
	headerStale      = "X-Snapshot-Stale"
)

const (
	contentJSON = "application/json"
	contentSVG  = "image/svg+xml"
	contentHTML = "text/html; charset=utf-8"
)

// view is one cacheable rendering of the current snapshot.
type view struct {
	// name labels metrics and is the route part of the cache key.
	name        string
	contentType string
	// key is the canonical form of everything the body depends on besides
	// the snapshot.
	key     string
	country string
	build   func(t *dataset.Tables) ([]byte, error)
}

// cacheKey is "<generation>:<route>:<canonical options>".
func cacheKey(generation uint64, route, key string) string {
	return fmt.Sprintf("%d:%s:%s", generation, route, key)
}

// serveView answers from the view cache when possible and renders otherwise.
// Cache failures only cost a render.
func (s *Server) serveView(w http.ResponseWriter, r *http.Request, v view) {
	ctx := r.Context()
	trace.SpanFromContext(ctx).SetAttributes(telemetry.ProfileAttributes(v.country, v.name)...)

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		metrics.IncViewError(v.name, "snapshot")
		s.writeError(w, r, err)
		return
	}

	w.Header().Set(headerGeneration, strconv.FormatUint(snap.Generation, 10))
	if snap.Stale {
		w.Header().Set(headerStale, "true")
	}

	key := cacheKey(snap.Generation, v.name, v.key)
	if body, ok := s.cache.Get(key); ok {
		metrics.RecordViewCache(s.cache.Name(), true)
		w.Header().Set(headerCache, "HIT")
		writeBody(w, v.contentType, body)
		return
	}
	metrics.RecordViewCache(s.cache.Name(), false)

	body, err := v.build(snap.Tables)
	if err != nil {
		_, code := classify(err)
		metrics.IncViewError(v.name, code)
		s.writeError(w, r, err)
		return
	}
	metrics.IncViewRendered(v.name)
	if s.cacheTTL > 0 {
		s.cache.Set(key, body, s.cacheTTL)
	}

	logger := log.WithContext(ctx, s.logger)
	logger.Debug().
		Str(log.FieldEvent, "view.rendered").
		Str("view", v.name).
		Str(log.FieldCountry, v.country).
		Uint64(log.FieldGeneration, snap.Generation).
		Int(log.FieldBytes, len(body)).
		Msg("view rendered")

	w.Header().Set(headerCache, "MISS")
	writeBody(w, v.contentType, body)
}

func writeBody(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// marshal encodes v the way writeJSON does, with a trailing newline.
func marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	return append(b, '\n'), nil
}
