package pulse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseTranscriptSkipsProgressAndSnapshotLines(t *testing.T) {
	input := strings.Join([]string{
		`{"type":"progress","message":{"role":"assistant","content":[{"type":"text","text":"ignored"}]}}`,
		`{"type":"file-history-snapshot"}`,
		`{"type":"user","message":{"role":"user","content":"hello there"}}`,
	}, "\n")

	turns, err := ParseTranscript(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseTranscript: %v", err)
	}
	if len(turns) != 1 || turns[0].Text != "hello there" {
		t.Fatalf("got %+v", turns)
	}
}

func TestParseTranscriptSkipsToolOnlyTurns(t *testing.T) {
	input := `{"type":"assistant","message":{"role":"assistant","content":[{"type":"tool_use","text":""},{"type":"thinking","text":"pondering"}]}}`
	turns, err := ParseTranscript(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseTranscript: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("expected no turns, got %+v", turns)
	}
}

func TestParseTranscriptSkipsToolResultOnlyUserTurn(t *testing.T) {
	input := `{"type":"user","message":{"role":"user","content":[{"type":"tool_result","text":"42"}]}}`
	turns, err := ParseTranscript(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseTranscript: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("expected no turns, got %+v", turns)
	}
}

func TestParseTranscriptKeepsLastAssistantTextForRepeatedRequestID(t *testing.T) {
	input := strings.Join([]string{
		`{"type":"assistant","requestId":"r1","message":{"role":"assistant","content":[{"type":"text","text":"partial"}]}}`,
		`{"type":"assistant","requestId":"r1","message":{"role":"assistant","content":[{"type":"text","text":"partial and complete"}]}}`,
	}, "\n")

	turns, err := ParseTranscript(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseTranscript: %v", err)
	}
	if len(turns) != 1 {
		t.Fatalf("expected streamed duplicates to collapse to one turn, got %+v", turns)
	}
	if turns[0].Text != "partial and complete" {
		t.Errorf("got %q", turns[0].Text)
	}
}

func TestParseTranscriptTruncatesLongTurns(t *testing.T) {
	long := strings.Repeat("x", 2000)
	input := `{"type":"user","message":{"role":"user","content":"` + long + `"}}`
	turns, err := ParseTranscript(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseTranscript: %v", err)
	}
	if len(turns) != 1 || len(turns[0].Text) != turnTruncate {
		t.Fatalf("expected turn truncated to %d chars, got %d", turnTruncate, len(turns[0].Text))
	}
}

func TestFindTranscriptFileMatchesByPrefix(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "project-a")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	path := filepath.Join(sub, "sess-abc123def456.jsonl")
	if err := os.WriteFile(path, []byte(""), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := FindTranscriptFile(dir, "sess-abc123")
	if err != nil {
		t.Fatalf("FindTranscriptFile: %v", err)
	}
	if got != path {
		t.Errorf("got %q, want %q", got, path)
	}
}

func TestFindTranscriptFileNotFound(t *testing.T) {
	dir := t.TempDir()
	if _, err := FindTranscriptFile(dir, "nope"); err == nil {
		t.Fatal("expected an error for no match")
	}
}
