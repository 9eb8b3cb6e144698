// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ManuGH/innoviz/internal/log"
	"github.com/ManuGH/innoviz/internal/profile"
	"github.com/ManuGH/innoviz/internal/render"
	"github.com/ManuGH/innoviz/internal/store"
)

// Error codes of the JSON error body.
const (
	codeInvalidOption    = "invalid_option"
	codeInvalidSize      = "invalid_size"
	codeUnknownCountry   = "unknown_country"
	codeUnknownKind      = "unknown_kind"
	codeUnavailable      = "data_unavailable"
	codeUnauthorized     = "unauthorized"
	codeNotFound         = "not_found"
	codeMethodNotAllowed = "method_not_allowed"
	codeTimeout          = "timeout"
	codeInternal         = "internal_error"
)

// Problem is the JSON error body of every failed request.
type Problem struct {
	Error     string `json:"error"`
	Detail    string `json:"detail"`
	RequestID string `json:"request_id,omitempty"`
	// Allowed lists the accepted values of an invalid option.
	Allowed []string `json:"allowed,omitempty"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, r *http.Request, status int, code, detail string) {
	writeJSON(w, status, Problem{
		Error:     code,
		Detail:    detail,
		RequestID: log.RequestIDFromContext(r.Context()),
	})
}

// classify maps an error onto its HTTP status and error code.
func classify(err error) (int, string) {
	var optErr *profile.OptionError
	switch {
	case errors.As(err, &optErr):
		return http.StatusBadRequest, codeInvalidOption
	case errors.Is(err, render.ErrInvalidSize):
		return http.StatusBadRequest, codeInvalidSize
	case errors.Is(err, profile.ErrUnknownCountry):
		return http.StatusNotFound, codeUnknownCountry
	case errors.Is(err, profile.ErrUnknownKind):
		return http.StatusNotFound, codeUnknownKind
	case errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable, codeUnavailable
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, codeTimeout
	}
	return http.StatusInternalServerError, codeInternal
}

// writeError maps err onto the error body and logs server-side failures.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	p := Problem{
		Error:     code,
		Detail:    err.Error(),
		RequestID: log.RequestIDFromContext(r.Context()),
	}
	var optErr *profile.OptionError
	if errors.As(err, &optErr) {
		p.Allowed = optErr.Allowed
	}
	if status >= http.StatusInternalServerError {
		logger := log.WithContext(r.Context(), s.logger)
		logger.Error().
			Err(err).
			Str(log.FieldEvent, "request.failed").
			Str(log.FieldPath, r.URL.Path).
			Str("code", code).
			Msg("request failed")
		// Internal details stay in the log.
		if status == http.StatusInternalServerError {
			p.Detail = "An unexpected error occurred."
		}
	}
	writeJSON(w, status, p)
}
