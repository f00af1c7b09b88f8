// Package hooks implements the fast write-only ingest path (C3): short-
// lived hook scripts invoked by the assistant host pipe one JSON event
// on stdin, this package turns it into a claude_sessions upsert plus an
// activity-log append, and never lets an error escape to the host.
package hooks

import (
	"encoding/json"
)

// EventName enumerates the hook_event_name values the assistant host
// sends.
type EventName string

const (
	SessionStart       EventName = "SessionStart"
	PostToolUse        EventName = "PostToolUse"
	PostToolUseFailure EventName = "PostToolUseFailure"
	Stop               EventName = "Stop"
	SessionEnd         EventName = "SessionEnd"
	PreCompact         EventName = "PreCompact"
)

// Event is the inbound hook payload: JSON on stdin with at least
// hook_event_name, session_id, and cwd.
type Event struct {
	HookEventName EventName       `json:"hook_event_name"`
	SessionID     string          `json:"session_id"`
	Cwd           string          `json:"cwd"`
	ToolName      string          `json:"tool_name,omitempty"`
	ToolInput     json.RawMessage `json:"tool_input,omitempty"`
}

// ParseEvent decodes a hook event from raw stdin bytes. An empty
// payload is not an error: callers should treat it as a no-op.
func ParseEvent(raw []byte) (*Event, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var e Event
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
