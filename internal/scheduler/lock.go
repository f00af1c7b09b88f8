// Package scheduler is the daemon's singleton job registry (C5): one
// process per store, a worker pool running cron/interval jobs, and a
// 30s heartbeat writer. Heartbeat checks themselves (C6) live in
// internal/scheduler/checks.go.
package scheduler

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"jaybrain/internal/logging"
)

// AcquireLock enforces the singleton discipline described in spec.md
// §4.5: an exclusive lock file holding a live PID blocks a second
// daemon from starting; a lock file naming a dead PID (or unreadable)
// is cleaned up and replaced. Returns the rival PID when refused.
func AcquireLock(lockPath string) (refusedBy int, err error) {
	data, err := os.ReadFile(lockPath)
	if err == nil {
		if pid, perr := strconv.Atoi(strings.TrimSpace(string(data))); perr == nil && processAlive(pid) && pid != os.Getpid() {
			return pid, nil
		}
		logging.Scheduler("removing stale lock file at %s", lockPath)
		_ = os.Remove(lockPath)
	} else if !os.IsNotExist(err) {
		return 0, fmt.Errorf("read lock file: %w", err)
	}

	if err := os.WriteFile(lockPath, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		return 0, fmt.Errorf("write lock file: %w", err)
	}
	return 0, nil
}

// ReleaseLock removes the lock file on graceful shutdown.
func ReleaseLock(lockPath string) error {
	err := os.Remove(lockPath)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// processAlive probes a PID with signal 0, which performs no action but
// reports whether the process exists and is signalable.
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
