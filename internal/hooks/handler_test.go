package hooks

import (
	"context"
	"testing"
	"time"

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

func TestHandleSessionStartUpsertsActiveSession(t *testing.T) {
	s := newTestStore(t)
	h := NewHandler(s, 3, time.Millisecond, 0)

	ok := h.Handle(context.Background(), &Event{
		HookEventName: SessionStart,
		SessionID:     "sess-1",
		Cwd:           "/home/dev/project",
	})
	if !ok {
		t.Fatal("expected Handle to report success")
	}

	cs, err := s.GetClaudeSession("sess-1")
	if err != nil {
		t.Fatalf("GetClaudeSession: %v", err)
	}
	if cs == nil {
		t.Fatal("expected a session row")
	}
	if cs.Status != "active" {
		t.Errorf("status = %q, want active", cs.Status)
	}
	if cs.Cwd != "/home/dev/project" {
		t.Errorf("cwd = %q", cs.Cwd)
	}
}

func TestHandlePostToolUseLogsActivityAndSummarizesInput(t *testing.T) {
	s := newTestStore(t)
	h := NewHandler(s, 3, time.Millisecond, 0)

	h.Handle(context.Background(), &Event{
		HookEventName: SessionStart,
		SessionID:     "sess-2",
		Cwd:           "/tmp",
	})
	h.Handle(context.Background(), &Event{
		HookEventName: PostToolUse,
		SessionID:     "sess-2",
		Cwd:           "/tmp",
		ToolName:      "Bash",
		ToolInput:     []byte(`{"command": "go test ./..."}`),
	})

	activity, err := s.SessionActivity("sess-2", 10)
	if err != nil {
		t.Fatalf("SessionActivity: %v", err)
	}
	if len(activity) != 1 {
		t.Fatalf("got %d activity rows, want 1", len(activity))
	}
	if activity[0].ToolInputSummary != "go test ./..." {
		t.Errorf("tool_input_summary = %q", activity[0].ToolInputSummary)
	}
	if activity[0].ToolName != "Bash" {
		t.Errorf("tool_name = %q", activity[0].ToolName)
	}

	cs, err := s.GetClaudeSession("sess-2")
	if err != nil {
		t.Fatalf("GetClaudeSession: %v", err)
	}
	if cs.ToolCount != 1 {
		t.Errorf("tool_count = %d, want 1", cs.ToolCount)
	}
}

func TestHandleStopOnlyTouchesHeartbeat(t *testing.T) {
	s := newTestStore(t)
	h := NewHandler(s, 3, time.Millisecond, 0)

	h.Handle(context.Background(), &Event{HookEventName: SessionStart, SessionID: "sess-3", Cwd: "/tmp"})
	h.Handle(context.Background(), &Event{HookEventName: Stop, SessionID: "sess-3", Cwd: "/tmp"})

	activity, err := s.SessionActivity("sess-3", 10)
	if err != nil {
		t.Fatalf("SessionActivity: %v", err)
	}
	if len(activity) != 0 {
		t.Errorf("stop should not append activity rows, got %d", len(activity))
	}
}

func TestHandleSessionEndMarksEnded(t *testing.T) {
	s := newTestStore(t)
	h := NewHandler(s, 3, time.Millisecond, 0)

	h.Handle(context.Background(), &Event{HookEventName: SessionStart, SessionID: "sess-4", Cwd: "/tmp"})
	h.Handle(context.Background(), &Event{HookEventName: SessionEnd, SessionID: "sess-4", Cwd: "/tmp"})

	cs, err := s.GetClaudeSession("sess-4")
	if err != nil {
		t.Fatalf("GetClaudeSession: %v", err)
	}
	if cs.Status != "ended" {
		t.Errorf("status = %q, want ended", cs.Status)
	}
}

func TestHandleUnknownEventIsNoop(t *testing.T) {
	s := newTestStore(t)
	h := NewHandler(s, 3, time.Millisecond, 0)

	ok := h.Handle(context.Background(), &Event{HookEventName: "SomethingElse", SessionID: "sess-5"})
	if ok {
		t.Error("unknown event should report false")
	}
}

func TestHandleNilEventIsNoop(t *testing.T) {
	s := newTestStore(t)
	h := NewHandler(s, 3, time.Millisecond, 0)

	if h.Handle(context.Background(), nil) {
		t.Error("nil event should report false")
	}
}

func TestHandleCountsInvocationsForPruneCadence(t *testing.T) {
	s := newTestStore(t)
	h := NewHandler(s, 3, time.Millisecond, 2)

	h.Handle(context.Background(), &Event{HookEventName: SessionStart, SessionID: "sess-6", Cwd: "/tmp"})
	if h.invocations != 1 {
		t.Fatalf("invocations = %d, want 1", h.invocations)
	}
	h.Handle(context.Background(), &Event{HookEventName: Stop, SessionID: "sess-6", Cwd: "/tmp"})
	if h.invocations != 2 {
		t.Fatalf("invocations = %d, want 2", h.invocations)
	}
}
