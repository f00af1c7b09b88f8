package jobs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleTranscript = `{"type":"message","message":{"role":"user","content":[{"type":"text","text":"hello there"}]}}
{"type":"message","message":{"role":"assistant","content":[{"type":"text","text":"hi, how can I help"}]}}
`

func TestConversationArchiveRendersAndMarksArchived(t *testing.T) {
	j := newTestJobs(t)
	j.projectsDir = t.TempDir()

	sessionPath := filepath.Join(j.projectsDir, "session-abc.jsonl")
	if err := os.WriteFile(sessionPath, []byte(sampleTranscript), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	triggered, err := j.ConversationArchive()
	if err != nil {
		t.Fatalf("ConversationArchive: %v", err)
	}
	if !triggered {
		t.Fatal("expected ConversationArchive to archive the one unarchived transcript")
	}

	mdPath := filepath.Join(j.cfg.ConversationArchiveDir, "session-abc.md")
	body, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatalf("ReadFile archived markdown: %v", err)
	}
	if !strings.Contains(string(body), "hello there") {
		t.Fatalf("expected rendered markdown to contain the user turn, got: %s", body)
	}
	if _, err := os.Stat(mdPath + ".zst"); err != nil {
		t.Fatalf("expected a compressed cold copy to also be written: %v", err)
	}

	already, err := j.st.IsSessionArchived("session-abc")
	if err != nil {
		t.Fatalf("IsSessionArchived: %v", err)
	}
	if !already {
		t.Fatal("expected the session to be marked archived")
	}

	// A second run must skip the already-archived session.
	triggered, err = j.ConversationArchive()
	if err != nil {
		t.Fatalf("ConversationArchive (second run): %v", err)
	}
	if triggered {
		t.Fatal("expected a second run to find nothing new to archive")
	}
}

func TestConversationArchiveNoopWhenProjectsDirEmpty(t *testing.T) {
	j := newTestJobs(t)
	j.projectsDir = ""
	triggered, err := j.ConversationArchive()
	if err != nil {
		t.Fatalf("ConversationArchive: %v", err)
	}
	if triggered {
		t.Fatal("expected ConversationArchive to be a no-op with an empty projects dir")
	}
}
