package notify

import (
	"testing"

	"jaybrain/internal/config"
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

func TestDispatchSendsOnFirstCall(t *testing.T) {
	s := newTestStore(t)
	var sent []string
	d := New(s, config.DefaultNotifyConfig(), nil, func(msg string) error {
		sent = append(sent, msg)
		return nil
	})

	ok, err := d.Dispatch("exam_countdown", "14 days to go")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !ok {
		t.Fatal("expected first dispatch to send")
	}
	if len(sent) != 1 || sent[0] != "14 days to go" {
		t.Fatalf("unexpected sent messages: %v", sent)
	}
}

func TestDispatchSuppressesWithinWindow(t *testing.T) {
	s := newTestStore(t)
	calls := 0
	jobs := map[string]config.JobSpec{
		"exam_countdown": {Trigger: "@daily", RateLimitWindow: "22h"},
	}
	d := New(s, config.DefaultNotifyConfig(), jobs, func(msg string) error {
		calls++
		return nil
	})

	if _, err := d.Dispatch("exam_countdown", "first"); err != nil {
		t.Fatalf("first dispatch: %v", err)
	}
	ok, err := d.Dispatch("exam_countdown", "second")
	if err != nil {
		t.Fatalf("second dispatch: %v", err)
	}
	if ok {
		t.Fatal("expected second dispatch within the rate-limit window to be suppressed")
	}
	if calls != 1 {
		t.Fatalf("expected send to be called once, got %d", calls)
	}
}

func TestDispatchTruncatesToMessageMaxChars(t *testing.T) {
	s := newTestStore(t)
	var got string
	cfg := config.DefaultNotifyConfig()
	cfg.MessageMaxChars = 10
	d := New(s, cfg, nil, func(msg string) error {
		got = msg
		return nil
	})

	if _, err := d.Dispatch("stale_applications", "this message is far longer than ten characters"); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("expected truncated message of length 10, got %d (%q)", len(got), got)
	}
}

func TestDispatchUnknownCheckUsesDefaultWindow(t *testing.T) {
	s := newTestStore(t)
	d := New(s, config.DefaultNotifyConfig(), nil, func(string) error { return nil })
	if _, err := d.Dispatch("unregistered_check", "hi"); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
}
