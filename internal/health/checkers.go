// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ManuGH/innoviz/internal/store"
)

// StatusSource reports the dataset store state.
type StatusSource interface {
	Status() store.Status
}

// SnapshotChecker is unhealthy until the first snapshot is loaded and
// degraded while an expired snapshot is served after a failed reload.
type SnapshotChecker struct {
	src StatusSource
}

// NewSnapshotChecker creates a checker for the dataset store.
func NewSnapshotChecker(src StatusSource) *SnapshotChecker {
	return &SnapshotChecker{src: src}
}

func (c *SnapshotChecker) Name() string {
	return "snapshot"
}

func (c *SnapshotChecker) Check(_ context.Context) CheckResult {
	st := c.src.Status()
	if !st.Loaded {
		res := CheckResult{Status: StatusUnhealthy, Message: "no snapshot loaded yet"}
		if st.LastError != "" {
			res.Error = st.LastError
		}
		return res
	}
	if st.Expired && st.LastError != "" {
		return CheckResult{
			Status:  StatusDegraded,
			Message: "serving stale snapshot",
			Error:   st.LastError,
		}
	}
	return CheckResult{
		Status:  StatusHealthy,
		Message: fmt.Sprintf("generation %d loaded at %s", st.Generation, st.LoadedAt.UTC().Format(time.RFC3339)),
	}
}

// PingChecker reports a dependency that answers a ping, such as the redis
// view cache. A failing ping degrades but never fails readiness.
type PingChecker struct {
	name    string
	ping    func(context.Context) error
	timeout time.Duration
}

// NewPingChecker creates a checker calling ping with a bounded context.
func NewPingChecker(name string, ping func(context.Context) error) *PingChecker {
	return &PingChecker{name: name, ping: ping, timeout: 2 * time.Second}
}

func (c *PingChecker) Name() string {
	return c.name
}

func (c *PingChecker) Check(ctx context.Context) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.ping(ctx); err != nil {
		return CheckResult{Status: StatusDegraded, Error: err.Error()}
	}
	return CheckResult{Status: StatusHealthy}
}

// PathChecker checks that a configured file or directory exists.
type PathChecker struct {
	name string
	path string
	dir  bool
}

// NewPathChecker creates a checker for a file (dir false) or directory.
func NewPathChecker(name, path string, dir bool) *PathChecker {
	return &PathChecker{name: name, path: path, dir: dir}
}

func (c *PathChecker) Name() string {
	return c.name
}

func (c *PathChecker) Check(_ context.Context) CheckResult {
	if c.path == "" {
		return CheckResult{
			Status:  StatusHealthy,
			Message: "not configured (optional)",
		}
	}

	info, err := os.Stat(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return CheckResult{
				Status:  StatusUnhealthy,
				Error:   "path not found",
				Message: c.path,
			}
		}
		return CheckResult{
			Status: StatusUnhealthy,
			Error:  err.Error(),
		}
	}

	switch {
	case c.dir && !info.IsDir():
		return CheckResult{Status: StatusUnhealthy, Error: "expected directory, got file"}
	case !c.dir && info.IsDir():
		return CheckResult{Status: StatusUnhealthy, Error: "expected file, got directory"}
	case !c.dir && info.Size() == 0:
		return CheckResult{Status: StatusDegraded, Message: "file is empty"}
	}

	return CheckResult{
		Status:  StatusHealthy,
		Message: "path exists",
	}
}
