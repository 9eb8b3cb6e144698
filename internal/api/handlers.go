// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/innoviz/internal/dataset"
	"github.com/ManuGH/innoviz/internal/profile"
	"github.com/ManuGH/innoviz/internal/render"
	"github.com/ManuGH/innoviz/internal/store"
)

const svgSuffix = ".svg"

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	o, err := profile.ParseOptions(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.serveView(w, r, view{
		name:        "page",
		contentType: contentHTML,
		key:         o.Key(),
		country:     o.Country,
		build: func(t *dataset.Tables) ([]byte, error) {
			p, err := profile.Build(t, o)
			if err != nil {
				return nil, err
			}
			return render.Page(p, profile.Countries(t))
		},
	})
}

func (s *Server) handleAbout(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, render.AboutInfo())
}

type countriesResponse struct {
	Countries []profile.Country `json:"countries"`
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	s.serveView(w, r, view{
		name:        "countries",
		contentType: contentJSON,
		build: func(t *dataset.Tables) ([]byte, error) {
			return marshal(countriesResponse{Countries: profile.Countries(t)})
		},
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	o, err := profile.ParseOptions(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.serveView(w, r, view{
		name:        "profile",
		contentType: contentJSON,
		key:         o.Key(),
		country:     o.Country,
		build: func(t *dataset.Tables) ([]byte, error) {
			p, err := profile.Build(t, o)
			if err != nil {
				return nil, err
			}
			return marshal(p)
		},
	})
}

func (s *Server) handleScatter(w http.ResponseWriter, r *http.Request) {
	req, err := parseChartRequest(r, render.DefaultScatterSize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	v := view{
		name:        "scatter_" + string(req.kind),
		contentType: contentJSON,
		key:         req.key(),
		country:     req.opts.Country,
		build: func(t *dataset.Tables) ([]byte, error) {
			sc, err := profile.ScatterFor(t, req.kind, req.opts)
			if err != nil {
				return nil, err
			}
			if req.svg {
				return render.ScatterSVG(sc, req.size)
			}
			return marshal(sc)
		},
	}
	if req.svg {
		v.name += "_svg"
		v.contentType = contentSVG
	}
	s.serveView(w, r, v)
}

func (s *Server) handleTreemap(w http.ResponseWriter, r *http.Request) {
	req, err := parseChartRequest(r, render.DefaultTreemapSize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	v := view{
		name:        "treemap_" + string(req.kind),
		contentType: contentJSON,
		key:         req.key(),
		country:     req.opts.Country,
		build: func(t *dataset.Tables) ([]byte, error) {
			tm, err := profile.TreemapFor(t, req.kind, req.opts)
			if err != nil {
				return nil, err
			}
			if req.svg {
				return render.TreemapSVG(tm, req.size)
			}
			return marshal(tm)
		},
	}
	if req.svg {
		v.name += "_svg"
		v.contentType = contentSVG
	}
	s.serveView(w, r, v)
}

type statusResponse struct {
	Store store.Status      `json:"store"`
	Cache cacheStatusReport `json:"cache"`
}

type cacheStatusReport struct {
	Backend    string  `json:"backend"`
	TTLSeconds float64 `json:"ttlSeconds"`
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	Size       int     `json:"size"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	stats := s.cache.Stats()
	writeJSON(w, http.StatusOK, statusResponse{
		Store: s.store.Status(),
		Cache: cacheStatusReport{
			Backend:    s.cache.Name(),
			TTLSeconds: s.cacheTTL.Seconds(),
			Hits:       stats.Hits,
			Misses:     stats.Misses,
			Size:       stats.CurrentSize,
		},
	})
}

// chartRequest is a parsed /scatter/{kind} or /treemap/{kind} request.
type chartRequest struct {
	kind profile.Kind
	svg  bool
	opts profile.Options
	size render.Size
}

func (c chartRequest) key() string {
	k := c.opts.Key()
	if c.svg {
		k += fmt.Sprintf("&size=%gx%g", c.size.Width, c.size.Height)
	}
	return k
}

func parseChartRequest(r *http.Request, def render.Size) (chartRequest, error) {
	var req chartRequest
	raw := chi.URLParam(r, "kind")
	if name, ok := strings.CutSuffix(raw, svgSuffix); ok {
		raw = name
		req.svg = true
	}
	kind, err := profile.ParseKind(raw)
	if err != nil {
		return req, err
	}
	req.kind = kind

	q := r.URL.Query()
	if req.opts, err = profile.ParseOptions(q); err != nil {
		return req, err
	}
	if !req.svg {
		return req, nil
	}
	if req.size, err = parseSize(q, def); err != nil {
		return req, err
	}
	return req, nil
}

// parseSize reads optional width and height parameters.
func parseSize(q url.Values, def render.Size) (render.Size, error) {
	size := def
	for _, p := range []struct {
		param string
		dst   *float64
	}{
		{"width", &size.Width},
		{"height", &size.Height},
	} {
		raw := strings.TrimSpace(q.Get(p.param))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return size, &profile.OptionError{Field: p.param, Value: raw}
		}
		*p.dst = float64(n)
	}
	if err := size.Validate(); err != nil {
		return size, err
	}
	return size, nil
}
