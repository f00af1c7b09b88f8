package jobs

import (
	"testing"

	"jaybrain/internal/config"
	"jaybrain/internal/notify"
	"jaybrain/internal/scheduler"
	"jaybrain/internal/store"
	"jaybrain/internal/tools/trash"
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

func testNotifier(s *store.Store) *notify.Dispatcher {
	return notify.New(s, config.DefaultNotifyConfig(), nil, func(string) error { return nil })
}

// testNotifierCapturing returns a Dispatcher that writes every sent
// message into *captured, for jobs whose output is asserted by content
// rather than by a side effect on the store.
func testNotifierCapturing(s *store.Store, captured *string) *notify.Dispatcher {
	return notify.New(s, config.DefaultNotifyConfig(), nil, func(msg string) error {
		*captured = msg
		return nil
	})
}

func testScheduler() *scheduler.Scheduler {
	return scheduler.New()
}

func newTestJobs(t *testing.T) *Jobs {
	t.Helper()
	s := newTestStore(t)
	notifier := testNotifier(s)
	cfg := config.DefaultJobsConfig()
	cfg.VaultPath = t.TempDir()
	cfg.ConversationArchiveDir = t.TempDir()
	cfg.TrashDir = t.TempDir()
	cfg.GitShadowRepoPath = t.TempDir()
	trash.Init(s, nil, cfg.TrashDir, cfg.TrashRetentionDays)
	return New(s, cfg, "", notifier, nil)
}

func TestBreakerForReusesSameHost(t *testing.T) {
	j := newTestJobs(t)
	a := j.breakerFor("example.com")
	b := j.breakerFor("example.com")
	if a != b {
		t.Fatal("expected breakerFor to return the same breaker for the same host")
	}
	c := j.breakerFor("other.com")
	if a == c {
		t.Fatal("expected breakerFor to return distinct breakers for distinct hosts")
	}
}

func TestRegisterSkipsJobsWithNoTriggerSpec(t *testing.T) {
	j := newTestJobs(t)
	sched := testScheduler()
	if err := j.Register(sched, map[string]config.JobSpec{
		"vault_sync": {Trigger: "1h"},
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	// No assertion beyond "doesn't error": the other six named jobs have
	// no trigger in this map and must be skipped rather than failing
	// Register outright.
}

func TestRegisterBindsEveryNamedJobGivenFullSpecs(t *testing.T) {
	j := newTestJobs(t)
	sched := testScheduler()
	if err := j.Register(sched, config.DefaultSchedulerConfig().Jobs); err != nil {
		t.Fatalf("Register: %v", err)
	}
	for _, name := range []string{
		"vault_sync", "conversation_archive", "trash_sweep", "git_shadow",
		"job_board_autofetch", "feed_poll", "daily_briefing",
	} {
		if err := sched.RunNow(name); err != nil {
			t.Fatalf("RunNow(%s): %v", name, err)
		}
	}
}
