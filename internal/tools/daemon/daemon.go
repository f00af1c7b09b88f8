// Package daemon wires daemon-control tools (status/request-stop) onto
// internal/store/daemon_store.go's single-row daemon_state.
package daemon

import (
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"jaybrain/internal/logging"
	"jaybrain/internal/store"
	"jaybrain/internal/tools"
)

// processAlive probes a PID with signal 0: daemon_status overrides a
// stored status of "running" to "stopped" when the recorded PID is no
// longer live, since a crashed daemon never gets to write its own
// shutdown state.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

var (
	st    *store.Store
	audit *logging.AuditLogger
)

// Init wires the package-level store and audit logger.
func Init(s *store.Store, a *logging.AuditLogger) {
	st = s
	audit = a
}

// StatusTool returns a tool reporting the daemon's lifecycle state.
func StatusTool() *tools.Tool {
	return &tools.Tool{
		Name:        "daemon_status",
		Description: "Report whether the background daemon is running and how stale its heartbeat is",
		Category:    tools.CategoryDaemon,
		Priority:    60,
		Execute:     executeStatus,
		Schema:      tools.ToolSchema{},
	}
}

func executeStatus(ctx context.Context, args map[string]any) (string, error) {
	d, err := st.GetDaemonState()
	if err != nil {
		return "", fmt.Errorf("daemon_status: %w", err)
	}
	if d == nil {
		return "Daemon has never started", nil
	}

	status := d.Status
	if !processAlive(d.PID) {
		status = "stopped"
	}

	age := time.Since(d.LastHeartbeat).Round(time.Second)
	return fmt.Sprintf("pid=%d status=%s started=%s last_heartbeat=%s ago modules=%s",
		d.PID, status, d.StartedAt.Format("2006-01-02 15:04:05"), age, strings.Join(d.Modules, ",")), nil
}

// RequestStopTool returns a tool that signals a running daemon to shut
// down cleanly via SIGTERM.
func RequestStopTool() *tools.Tool {
	return &tools.Tool{
		Name:        "daemon_request_stop",
		Description: "Send SIGTERM to the running daemon process so it shuts down cleanly",
		Category:    tools.CategoryDaemon,
		Priority:    65,
		Execute:     executeRequestStop,
		Schema:      tools.ToolSchema{},
	}
}

func executeRequestStop(ctx context.Context, args map[string]any) (string, error) {
	d, err := st.GetDaemonState()
	if err != nil {
		return "", fmt.Errorf("daemon_request_stop: %w", err)
	}
	if d == nil || d.Status != "running" {
		return "Daemon is not running", nil
	}

	proc, err := os.FindProcess(d.PID)
	if err != nil {
		return "", fmt.Errorf("daemon_request_stop: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return "", fmt.Errorf("daemon_request_stop: %w", err)
	}
	if err := st.LogDaemonLifecycle("stop_requested", fmt.Sprintf("pid=%d", d.PID)); err != nil {
		logging.Heartbeat("daemon_request_stop: failed to log lifecycle event: %v", err)
	}
	if audit != nil {
		audit.Log(logging.AuditEvent{EventType: logging.AuditDaemonLifecycle, Category: "daemon", Action: "stop_requested", Success: true})
	}
	return fmt.Sprintf("Sent stop signal to daemon pid %d", d.PID), nil
}
