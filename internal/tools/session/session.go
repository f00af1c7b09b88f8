// Package session wires session_start/session_end/session_handoff onto
// the store's user-facing Session table (C1).
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jaybrain/internal/logging"
	"jaybrain/internal/store"
	"jaybrain/internal/tools"
)

var (
	st    *store.Store
	audit *logging.AuditLogger
)

// Init wires the package-level store and audit logger.
func Init(s *store.Store, a *logging.AuditLogger) {
	st = s
	audit = a
}

// SessionStartTool returns a tool that opens a new tracked session.
func SessionStartTool() *tools.Tool {
	return &tools.Tool{
		Name:        "session_start",
		Description: "Start a new tracked work session",
		Category:    tools.CategorySession,
		Priority:    80,
		Execute:     executeSessionStart,
		Schema: tools.ToolSchema{
			Required: []string{"title"},
			Properties: map[string]tools.Property{
				"title": {Type: "string", Description: "What this session is about"},
			},
		},
	}
}

func executeSessionStart(ctx context.Context, args map[string]any) (string, error) {
	title, _ := args["title"].(string)
	if strings.TrimSpace(title) == "" {
		return "", fmt.Errorf("title is required")
	}

	sess, err := st.CreateSession(store.Session{Title: title})
	if err != nil {
		return "", fmt.Errorf("session_start: %w", err)
	}
	if audit != nil {
		audit.SessionStart(sess.ID)
	}
	logging.Tools("session_start: %s", sess.ID)
	return fmt.Sprintf("Started session %s: %s", sess.ID, sess.Title), nil
}

// SessionEndTool returns a tool that closes out a session with a
// summary and follow-up notes.
func SessionEndTool() *tools.Tool {
	return &tools.Tool{
		Name:        "session_end",
		Description: "Close a tracked session with a summary, decisions made, and next steps",
		Category:    tools.CategorySession,
		Priority:    80,
		Execute:     executeSessionEnd,
		Schema: tools.ToolSchema{
			Required: []string{"id"},
			Properties: map[string]tools.Property{
				"id":         {Type: "string", Description: "The session id"},
				"summary":    {Type: "string", Description: "What happened this session"},
				"decisions":  {Type: "array", Description: "Decisions made", Items: &tools.PropertyItems{Type: "string"}},
				"next_steps": {Type: "array", Description: "Follow-up items", Items: &tools.PropertyItems{Type: "string"}},
			},
		},
	}
}

func executeSessionEnd(ctx context.Context, args map[string]any) (string, error) {
	id, _ := args["id"].(string)
	if id == "" {
		return "", fmt.Errorf("id is required")
	}
	summary, _ := args["summary"].(string)
	decisions := stringSlice(args["decisions"])
	nextSteps := stringSlice(args["next_steps"])

	start := time.Now()
	if err := st.EndSession(id, summary, decisions, nextSteps); err != nil {
		return "", fmt.Errorf("session_end: %w", err)
	}
	if audit != nil {
		activity, _ := st.SessionActivity(id, 0)
		audit.SessionEnd(id, len(activity), time.Since(start).Milliseconds())
	}
	logging.Tools("session_end: %s", id)
	return fmt.Sprintf("Ended session %s", id), nil
}

// SessionHandoffTool returns a tool that records a mid-session
// checkpoint summary without ending the session, used to hand
// continuation context to the next conversation turn.
func SessionHandoffTool() *tools.Tool {
	return &tools.Tool{
		Name:        "session_handoff",
		Description: "Record a checkpoint summary for resuming this session later without closing it",
		Category:    tools.CategorySession,
		Priority:    75,
		Execute:     executeSessionHandoff,
		Schema: tools.ToolSchema{
			Required: []string{"id", "summary"},
			Properties: map[string]tools.Property{
				"id":      {Type: "string", Description: "The session id"},
				"summary": {Type: "string", Description: "Checkpoint summary for resuming"},
			},
		},
	}
}

func executeSessionHandoff(ctx context.Context, args map[string]any) (string, error) {
	id, _ := args["id"].(string)
	if id == "" {
		return "", fmt.Errorf("id is required")
	}
	summary, _ := args["summary"].(string)
	if strings.TrimSpace(summary) == "" {
		return "", fmt.Errorf("summary is required")
	}

	if err := st.CheckpointSession(id, summary); err != nil {
		return "", fmt.Errorf("session_handoff: %w", err)
	}
	if audit != nil {
		audit.Log(logging.AuditEvent{
			EventType: logging.AuditSessionCheckpoint,
			Category:  "session",
			Target:    id,
			Success:   true,
		})
	}
	logging.Tools("session_handoff: %s", id)
	return fmt.Sprintf("Checkpointed session %s", id), nil
}

func stringSlice(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
