// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package daemon

import "errors"

// Wiring errors. They surface before any listener is bound.
var (
	ErrMissingLogger     = errors.New("logger is required")
	ErrMissingAPIHandler = errors.New("API handler is required")
	ErrMissingManager    = errors.New("manager is required")
)

// ErrManagerNotStarted is returned by Shutdown on a manager whose Start was
// never called.
var ErrManagerNotStarted = errors.New("manager not started")
