package jobs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"jaybrain/internal/store"
)

func TestTrashSweepRemovesExpiredEntries(t *testing.T) {
	j := newTestJobs(t)

	trashed := filepath.Join(j.cfg.TrashDir, "old-file.txt")
	if err := os.MkdirAll(j.cfg.TrashDir, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(trashed, []byte("gone soon"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := j.st.InsertTrashEntry(store.TrashManifestEntry{
		OriginalPath: "/tmp/old-file.txt",
		TrashPath:    trashed,
		Category:     "general",
		ExpiresAt:    time.Now().AddDate(0, 0, -1),
	}); err != nil {
		t.Fatalf("InsertTrashEntry: %v", err)
	}

	triggered, err := j.TrashSweep()
	if err != nil {
		t.Fatalf("TrashSweep: %v", err)
	}
	if !triggered {
		t.Fatal("expected TrashSweep to report triggered=true with an expired entry present")
	}
	if _, err := os.Stat(trashed); !os.IsNotExist(err) {
		t.Fatal("expected the expired trash file to be removed from disk")
	}
}

func TestTrashSweepNoopWhenNothingExpired(t *testing.T) {
	j := newTestJobs(t)
	triggered, err := j.TrashSweep()
	if err != nil {
		t.Fatalf("TrashSweep: %v", err)
	}
	if triggered {
		t.Fatal("expected TrashSweep to report triggered=false with nothing expired")
	}
}
