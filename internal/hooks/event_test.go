package hooks

import "testing"

func TestParseEventEmptyPayloadIsNoop(t *testing.T) {
	e, err := ParseEvent(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e != nil {
		t.Fatalf("expected nil event for empty payload, got %+v", e)
	}
}

func TestParseEventDecodesFields(t *testing.T) {
	raw := []byte(`{"hook_event_name":"PostToolUse","session_id":"abc","cwd":"/tmp","tool_name":"Grep","tool_input":{"pattern":"foo"}}`)
	e, err := ParseEvent(raw)
	if err != nil {
		t.Fatalf("ParseEvent: %v", err)
	}
	if e.HookEventName != PostToolUse {
		t.Errorf("hook_event_name = %q", e.HookEventName)
	}
	if e.SessionID != "abc" || e.Cwd != "/tmp" || e.ToolName != "Grep" {
		t.Errorf("unexpected event: %+v", e)
	}
}

func TestParseEventMalformedJSONErrors(t *testing.T) {
	_, err := ParseEvent([]byte(`{not json`))
	if err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}
