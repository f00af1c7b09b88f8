package pulse

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jaybrain/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestExecuteQuerySessionExactMatch(t *testing.T) {
	s := newTestStore(t)
	Init(s, t.TempDir())

	if err := s.UpsertClaudeSession(store.ClaudeSession{SessionID: "sess-exact-match", Cwd: "/proj", Status: "active"}); err != nil {
		t.Fatalf("UpsertClaudeSession: %v", err)
	}
	if err := s.LogSessionActivity(store.SessionActivityLogEntry{SessionID: "sess-exact-match", ToolName: "Read"}); err != nil {
		t.Fatalf("LogSessionActivity: %v", err)
	}
	if err := s.LogSessionActivity(store.SessionActivityLogEntry{SessionID: "sess-exact-match", ToolName: "Read"}); err != nil {
		t.Fatalf("LogSessionActivity: %v", err)
	}
	if err := s.LogSessionActivity(store.SessionActivityLogEntry{SessionID: "sess-exact-match", ToolName: "Write"}); err != nil {
		t.Fatalf("LogSessionActivity: %v", err)
	}

	out, err := executeQuerySession(context.Background(), map[string]any{"needle": "sess-exact-match"})
	if err != nil {
		t.Fatalf("executeQuerySession: %v", err)
	}
	if !strings.Contains(out, "status=ok") || !strings.Contains(out, "Read: 2") || !strings.Contains(out, "Write: 1") {
		t.Errorf("got %q", out)
	}
}

func TestExecuteQuerySessionAmbiguous(t *testing.T) {
	s := newTestStore(t)
	Init(s, t.TempDir())

	s.UpsertClaudeSession(store.ClaudeSession{SessionID: "sess-abc-1", Status: "active"})
	s.UpsertClaudeSession(store.ClaudeSession{SessionID: "sess-abc-2", Status: "active"})

	out, err := executeQuerySession(context.Background(), map[string]any{"needle": "abc"})
	if err != nil {
		t.Fatalf("executeQuerySession: %v", err)
	}
	if !strings.Contains(out, "status=ambiguous") {
		t.Errorf("got %q", out)
	}
}

func TestExecuteQuerySessionNotFound(t *testing.T) {
	s := newTestStore(t)
	Init(s, t.TempDir())

	out, err := executeQuerySession(context.Background(), map[string]any{"needle": "nonexistent"})
	if err != nil {
		t.Fatalf("executeQuerySession: %v", err)
	}
	if out != "status=not_found" {
		t.Errorf("got %q", out)
	}
}

func TestExecuteGetActiveSessionsIncludesRecentlyEnded(t *testing.T) {
	s := newTestStore(t)
	Init(s, t.TempDir())

	s.UpsertClaudeSession(store.ClaudeSession{SessionID: "active-1", Status: "active"})
	s.UpsertClaudeSession(store.ClaudeSession{SessionID: "ended-1", Status: "ended"})

	out, err := executeGetActiveSessions(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("executeGetActiveSessions: %v", err)
	}
	if !strings.Contains(out, "active-1") || !strings.Contains(out, "ended-1") {
		t.Errorf("got %q", out)
	}
}

func TestExecuteGetSessionContextReadsTranscript(t *testing.T) {
	s := newTestStore(t)
	dir := t.TempDir()
	Init(s, dir)

	transcript := `{"type":"user","message":{"role":"user","content":"what should I work on next"}}` + "\n" +
		`{"type":"assistant","message":{"role":"assistant","content":[{"type":"text","text":"let's tackle the daemon"}]}}`
	if err := os.WriteFile(filepath.Join(dir, "sess-context-1.jsonl"), []byte(transcript), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	out, err := executeGetSessionContext(context.Background(), map[string]any{"session_id_or_prefix": "sess-context"})
	if err != nil {
		t.Fatalf("executeGetSessionContext: %v", err)
	}
	if !strings.Contains(out, "status=ok") || !strings.Contains(out, "daemon") {
		t.Errorf("got %q", out)
	}
}
