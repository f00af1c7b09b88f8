package scheduler

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestAcquireLockSucceedsWhenAbsent(t *testing.T) {
	dir := t.TempDir()
	lockPath := filepath.Join(dir, "daemon.lock")

	refusedBy, err := AcquireLock(lockPath)
	if err != nil {
		t.Fatalf("AcquireLock: %v", err)
	}
	if refusedBy != 0 {
		t.Fatalf("expected no refusal, got pid %d", refusedBy)
	}

	data, err := os.ReadFile(lockPath)
	if err != nil {
		t.Fatalf("read lock file: %v", err)
	}
	if strconv.Itoa(os.Getpid()) != string(data) {
		t.Fatalf("expected lock file to hold our pid, got %q", data)
	}
}

func TestAcquireLockRefusesLiveRival(t *testing.T) {
	dir := t.TempDir()
	lockPath := filepath.Join(dir, "daemon.lock")

	// A pid guaranteed alive for the duration of the test: our own.
	if err := os.WriteFile(lockPath, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		t.Fatalf("seed lock file: %v", err)
	}

	// processAlive treats our own pid as alive but AcquireLock exempts
	// it from refusal, so seed with a different live pid: pid 1 is not
	// guaranteed reachable in a sandboxed test container, so instead
	// verify the replace-dead-lock path below and the live-rival path
	// via a forked-process-free stand-in using our own pid with the
	// self-exemption bypassed is not possible without exporting
	// processAlive's check; exercise the refusal branch through a
	// pid that is alive but not our own: the test runner's parent.
	parent := os.Getppid()
	if parent <= 1 {
		t.Skip("no reachable parent pid to exercise the live-rival path")
	}
	if err := os.WriteFile(lockPath, []byte(strconv.Itoa(parent)), 0644); err != nil {
		t.Fatalf("seed lock file: %v", err)
	}

	refusedBy, err := AcquireLock(lockPath)
	if err != nil {
		t.Fatalf("AcquireLock: %v", err)
	}
	if refusedBy != parent {
		t.Fatalf("expected refusal by pid %d, got %d", parent, refusedBy)
	}
}

func TestAcquireLockReplacesDeadPID(t *testing.T) {
	dir := t.TempDir()
	lockPath := filepath.Join(dir, "daemon.lock")

	// PID unlikely to be alive in any environment.
	if err := os.WriteFile(lockPath, []byte("999999"), 0644); err != nil {
		t.Fatalf("seed lock file: %v", err)
	}

	refusedBy, err := AcquireLock(lockPath)
	if err != nil {
		t.Fatalf("AcquireLock: %v", err)
	}
	if refusedBy != 0 {
		t.Fatalf("expected the dead lock to be replaced, got refusal by %d", refusedBy)
	}
}

func TestReleaseLockRemovesFile(t *testing.T) {
	dir := t.TempDir()
	lockPath := filepath.Join(dir, "daemon.lock")

	if _, err := AcquireLock(lockPath); err != nil {
		t.Fatalf("AcquireLock: %v", err)
	}
	if err := ReleaseLock(lockPath); err != nil {
		t.Fatalf("ReleaseLock: %v", err)
	}
	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Fatalf("expected lock file to be gone, stat err = %v", err)
	}
}

func TestReleaseLockOnMissingFileIsNoop(t *testing.T) {
	dir := t.TempDir()
	if err := ReleaseLock(filepath.Join(dir, "missing.lock")); err != nil {
		t.Fatalf("ReleaseLock on missing file: %v", err)
	}
}
