package jobs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"jaybrain/internal/store"
)

// GitShadow snapshots the configured repo's working-tree state without
// touching it: "git stash create" builds a stash-like commit object
// and leaves the index and working tree untouched, unlike a plain
// "git stash". A clean or untracked-only tree is skipped.
func (j *Jobs) GitShadow() (bool, error) {
	repo := j.cfg.GitShadowRepoPath
	changed, err := gitChangedFiles(repo)
	if err != nil {
		return false, fmt.Errorf("git_shadow: %w", err)
	}
	if len(changed) == 0 {
		return false, nil
	}

	hash, err := runGitCapture(repo, "stash", "create")
	if err != nil {
		return false, fmt.Errorf("git_shadow: stash create: %w", err)
	}
	if hash == "" {
		// Nothing to stash even though the tree looked dirty (e.g.
		// only untracked files changed).
		return false, nil
	}

	if err := j.st.RecordGitShadowSnapshot(store.GitShadowSnapshot{
		RepoPath:     repo,
		StashHash:    hash,
		ChangedFiles: changed,
	}); err != nil {
		return false, fmt.Errorf("git_shadow: %w", err)
	}
	return true, nil
}

// gitChangedFiles returns the tracked-file subset of "git status
// --porcelain" (paths whose first two status columns aren't "??").
func gitChangedFiles(repo string) ([]string, error) {
	out, err := runGitCapture(repo, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	var changed []string
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 || strings.HasPrefix(line, "??") {
			continue
		}
		changed = append(changed, strings.TrimSpace(line[3:]))
	}
	return changed, nil
}

func runGitCapture(repo string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = repo
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, stderr.String())
	}
	return strings.TrimSpace(stdout.String()), nil
}
