//go:build integration

package jobs_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"jaybrain/internal/config"
	"jaybrain/internal/jobs"
	"jaybrain/internal/notify"
	"jaybrain/internal/store"
)

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
}

func TestGitShadowSnapshotsDirtyTree_Integration(t *testing.T) {
	dir := t.TempDir()
	runGit(t, dir, "init")
	tracked := filepath.Join(dir, "tracked.txt")
	if err := os.WriteFile(tracked, []byte("v1"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	runGit(t, dir, "add", "tracked.txt")
	runGit(t, dir, "commit", "-m", "initial")

	if err := os.WriteFile(tracked, []byte("v2"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer s.Close()

	cfg := config.DefaultJobsConfig()
	cfg.GitShadowRepoPath = dir
	notifier := notify.New(s, config.DefaultNotifyConfig(), nil, func(string) error { return nil })
	j := jobs.New(s, cfg, "", notifier, nil)

	triggered, err := j.GitShadow()
	if err != nil {
		t.Fatalf("GitShadow: %v", err)
	}
	if !triggered {
		t.Fatal("expected GitShadow to snapshot the dirty tracked file")
	}

	snapshots, err := s.RecentGitShadowSnapshots(10)
	if err != nil {
		t.Fatalf("RecentGitShadowSnapshots: %v", err)
	}
	if len(snapshots) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(snapshots))
	}

	// The working tree itself must be untouched by "git stash create".
	out, err := os.ReadFile(tracked)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(out) != "v2" {
		t.Fatalf("expected working tree to still read v2, got %q", out)
	}
}

func TestGitShadowSkipsCleanTree_Integration(t *testing.T) {
	dir := t.TempDir()
	runGit(t, dir, "init")
	if err := os.WriteFile(filepath.Join(dir, "tracked.txt"), []byte("v1"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	runGit(t, dir, "add", "tracked.txt")
	runGit(t, dir, "commit", "-m", "initial")

	s, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer s.Close()

	cfg := config.DefaultJobsConfig()
	cfg.GitShadowRepoPath = dir
	notifier := notify.New(s, config.DefaultNotifyConfig(), nil, func(string) error { return nil })
	j := jobs.New(s, cfg, "", notifier, nil)

	triggered, err := j.GitShadow()
	if err != nil {
		t.Fatalf("GitShadow: %v", err)
	}
	if triggered {
		t.Fatal("expected GitShadow to skip a clean tree")
	}
}
