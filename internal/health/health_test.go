// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/innoviz/internal/config"
	"github.com/ManuGH/innoviz/internal/store"
)

func TestNewManager(t *testing.T) {
	m := NewManager("v1.2.3")
	assert.NotNil(t, m)
	assert.Equal(t, "v1.2.3", m.version)
	assert.Empty(t, m.checkers)
}

func TestManager_Health_NoCheckers(t *testing.T) {
	m := NewManager("v1.0.0")

	resp := m.Health(context.Background(), false)
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Equal(t, "v1.0.0", resp.Version)
	assert.GreaterOrEqual(t, resp.Uptime, int64(0))
	assert.Nil(t, resp.Checks)
}

func TestManager_Health_WithCheckers(t *testing.T) {
	m := NewManager("v1.0.0")
	m.RegisterChecker(&mockChecker{name: "healthy", status: StatusHealthy})
	m.RegisterChecker(&mockChecker{name: "degraded", status: StatusDegraded})

	// Non-verbose: no checks included
	resp := m.Health(context.Background(), false)
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Nil(t, resp.Checks)

	resp = m.Health(context.Background(), true)
	assert.Equal(t, StatusDegraded, resp.Status)
	assert.Len(t, resp.Checks, 2)
	assert.Equal(t, StatusHealthy, resp.Checks["healthy"].Status)
	assert.Equal(t, StatusDegraded, resp.Checks["degraded"].Status)
}

func TestManager_Health_UnhealthyWinsOverDegraded(t *testing.T) {
	m := NewManager("v1.0.0")
	m.RegisterChecker(&mockChecker{name: "unhealthy", status: StatusUnhealthy})
	m.RegisterChecker(&mockChecker{name: "degraded", status: StatusDegraded})

	resp := m.Health(context.Background(), true)
	assert.Equal(t, StatusUnhealthy, resp.Status)
	assert.Len(t, resp.Checks, 2)
}

func TestManager_Ready(t *testing.T) {
	tests := []struct {
		name       string
		statuses   []Status
		wantReady  bool
		wantStatus Status
	}{
		{"no checkers", nil, true, StatusHealthy},
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, true, StatusHealthy},
		{"degraded", []Status{StatusHealthy, StatusDegraded}, true, StatusDegraded},
		{"unhealthy", []Status{StatusDegraded, StatusUnhealthy}, false, StatusUnhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager("v1.0.0")
			for i, s := range tt.statuses {
				m.RegisterChecker(&mockChecker{name: string(rune('a' + i)), status: s})
			}
			resp := m.Ready(context.Background())
			assert.Equal(t, tt.wantReady, resp.Ready)
			assert.Equal(t, tt.wantStatus, resp.Status)
		})
	}
}

func TestManager_ServeHealth(t *testing.T) {
	m := NewManager("v1.0.0")
	m.RegisterChecker(&mockChecker{name: "test", status: StatusUnhealthy})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	m.ServeHealth(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Nil(t, resp.Checks)

	// Verbose reports components but liveness stays 200.
	req = httptest.NewRequest(http.MethodGet, "/healthz?verbose=true", nil)
	w = httptest.NewRecorder()
	m.ServeHealth(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp = HealthResponse{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, StatusUnhealthy, resp.Status)
	assert.Len(t, resp.Checks, 1)
}

func TestManager_ServeReady(t *testing.T) {
	tests := []struct {
		name           string
		checker        Checker
		expectedStatus int
		expectedReady  bool
	}{
		{"healthy", &mockChecker{name: "test", status: StatusHealthy}, http.StatusOK, true},
		{"degraded", &mockChecker{name: "test", status: StatusDegraded}, http.StatusOK, true},
		{"unhealthy", &mockChecker{name: "test", status: StatusUnhealthy}, http.StatusServiceUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager("v1.0.0")
			m.RegisterChecker(tt.checker)

			req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
			w := httptest.NewRecorder()
			m.ServeReady(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var resp ReadinessResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tt.expectedReady, resp.Ready)
		})
	}
}

func TestManager_ServeEncodingError(t *testing.T) {
	m := NewManager("v1.0.0")

	// Should not panic even if encoding fails
	m.ServeHealth(&brokenWriter{header: make(http.Header)}, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	m.ServeReady(&brokenWriter{header: make(http.Header)}, httptest.NewRequest(http.MethodGet, "/readyz", nil))
}

func TestSnapshotChecker(t *testing.T) {
	loadedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		status     store.Status
		wantStatus Status
		wantErr    string
	}{
		{
			name:       "never loaded",
			status:     store.Status{},
			wantStatus: StatusUnhealthy,
		},
		{
			name:       "first load failed",
			status:     store.Status{LastError: "bucket unreachable"},
			wantStatus: StatusUnhealthy,
			wantErr:    "bucket unreachable",
		},
		{
			name:       "fresh",
			status:     store.Status{Loaded: true, Generation: 3, LoadedAt: &loadedAt},
			wantStatus: StatusHealthy,
		},
		{
			name:       "stale after failed reload",
			status:     store.Status{Loaded: true, Generation: 3, LoadedAt: &loadedAt, Expired: true, LastError: "timeout"},
			wantStatus: StatusDegraded,
			wantErr:    "timeout",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewSnapshotChecker(fixedStatus(tt.status))
			assert.Equal(t, "snapshot", c.Name())

			res := c.Check(context.Background())
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, tt.wantErr, res.Error)
		})
	}

	res := NewSnapshotChecker(fixedStatus(tests[2].status)).Check(context.Background())
	assert.Equal(t, "generation 3 loaded at 2025-03-01T12:00:00Z", res.Message)
}

func TestPingChecker(t *testing.T) {
	ok := NewPingChecker("redis", func(context.Context) error { return nil })
	assert.Equal(t, "redis", ok.Name())
	assert.Equal(t, StatusHealthy, ok.Check(context.Background()).Status)

	failing := NewPingChecker("redis", func(context.Context) error { return errors.New("connection refused") })
	res := failing.Check(context.Background())
	assert.Equal(t, StatusDegraded, res.Status)
	assert.Equal(t, "connection refused", res.Error)

	bounded := NewPingChecker("slow", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return nil
	})
	bounded.Check(context.Background())
}

func TestPathChecker(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "innoviz.db")
	require.NoError(t, os.WriteFile(file, []byte("content"), 0o600))
	empty := filepath.Join(dir, "empty.db")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))

	tests := []struct {
		name       string
		path       string
		dir        bool
		wantStatus Status
		wantErr    string
	}{
		{"not configured", "", false, StatusHealthy, ""},
		{"file exists", file, false, StatusHealthy, ""},
		{"dir exists", dir, true, StatusHealthy, ""},
		{"empty file", empty, false, StatusDegraded, ""},
		{"missing", filepath.Join(dir, "nope"), false, StatusUnhealthy, "path not found"},
		{"file wanted", dir, false, StatusUnhealthy, "expected file, got directory"},
		{"dir wanted", file, true, StatusUnhealthy, "expected directory, got file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewPathChecker("data", tt.path, tt.dir).Check(context.Background())
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, tt.wantErr, res.Error)
		})
	}
}

func TestPerformStartupChecks(t *testing.T) {
	dir := t.TempDir()

	cfg := config.Defaults()
	cfg.Data.Source = config.SourceLocal
	cfg.Data.Dir = dir
	cfg.Data.MirrorDir = filepath.Join(dir, "mirror")
	require.NoError(t, PerformStartupChecks(cfg))
	assert.DirExists(t, cfg.Data.MirrorDir)
	assert.NoFileExists(t, filepath.Join(cfg.Data.MirrorDir, ".write_test"))

	bad := cfg
	bad.Server.ListenAddr = "8080"
	assert.ErrorContains(t, PerformStartupChecks(bad), "listen address")

	bad = cfg
	bad.Data.Dir = filepath.Join(dir, "missing")
	assert.ErrorContains(t, PerformStartupChecks(bad), "data directory")

	bad = cfg
	bad.Data.Source = config.SourceSQLite
	bad.Data.SQLitePath = filepath.Join(dir, "missing.db")
	assert.ErrorContains(t, PerformStartupChecks(bad), "sqlite")
}

type fixedStatus store.Status

func (f fixedStatus) Status() store.Status { return store.Status(f) }

type mockChecker struct {
	name    string
	status  Status
	message string
	err     string
}

func (m *mockChecker) Name() string {
	return m.name
}

func (m *mockChecker) Check(_ context.Context) CheckResult {
	return CheckResult{
		Status:  m.status,
		Message: m.message,
		Error:   m.err,
	}
}

// brokenWriter is a mock ResponseWriter that always fails to write
type brokenWriter struct {
	header http.Header
}

func (w *brokenWriter) Header() http.Header {
	return w.header
}

func (w *brokenWriter) Write([]byte) (int, error) {
	return 0, assert.AnError
}

func (w *brokenWriter) WriteHeader(int) {}
