package scheduler

import (
	"strings"
	"testing"
	"time"

	"jaybrain/internal/config"
	"jaybrain/internal/notify"
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

func newTestChecks(t *testing.T, st *store.Store) (*Checks, *[]string) {
	t.Helper()
	var sent []string
	d := notify.New(st, config.DefaultNotifyConfig(), nil, func(msg string) error {
		sent = append(sent, msg)
		return nil
	})
	return NewChecks(st, config.DefaultHeartbeatConfig(), d), &sent
}

func TestForgeStudyMorningTriggersWhenDueCrossesThreshold(t *testing.T) {
	st := newTestStore(t)
	checks, sent := newTestChecks(t, st)

	past := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 6; i++ {
		if _, err := st.CreateForgeConcept(store.ForgeConcept{Term: "concept", NextReview: &past}); err != nil {
			t.Fatalf("CreateForgeConcept: %v", err)
		}
	}

	triggered, err := checks.ForgeStudyMorning()
	if err != nil {
		t.Fatalf("ForgeStudyMorning: %v", err)
	}
	if !triggered {
		t.Fatal("expected the check to trigger once due concepts cross the default threshold of 5")
	}
	if len(*sent) != 1 {
		t.Fatalf("expected one dispatched message, got %v", *sent)
	}
}

func TestForgeStudyMorningDoesNotTriggerBelowThreshold(t *testing.T) {
	st := newTestStore(t)
	checks, sent := newTestChecks(t, st)

	past := time.Now().UTC().Add(-time.Hour)
	if _, err := st.CreateForgeConcept(store.ForgeConcept{Term: "concept", NextReview: &past}); err != nil {
		t.Fatalf("CreateForgeConcept: %v", err)
	}

	triggered, err := checks.ForgeStudyMorning()
	if err != nil {
		t.Fatalf("ForgeStudyMorning: %v", err)
	}
	if triggered {
		t.Fatal("expected no trigger with only one due concept")
	}
	if len(*sent) != 0 {
		t.Fatalf("expected no dispatched messages, got %v", *sent)
	}
}

func TestForgeStudyEveningWarnsWhenStreakAtRisk(t *testing.T) {
	st := newTestStore(t)
	checks, sent := newTestChecks(t, st)

	past := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 6; i++ {
		if _, err := st.CreateForgeConcept(store.ForgeConcept{Term: "concept", NextReview: &past}); err != nil {
			t.Fatalf("CreateForgeConcept: %v", err)
		}
	}

	triggered, err := checks.ForgeStudyEvening()
	if err != nil {
		t.Fatalf("ForgeStudyEvening: %v", err)
	}
	if !triggered {
		t.Fatal("expected the evening check to trigger")
	}
	if len(*sent) != 1 {
		t.Fatalf("expected one dispatched message, got %v", *sent)
	}
	if want := "streak is at risk"; !strings.Contains((*sent)[0], want) {
		t.Fatalf("expected streak-at-risk language, got %q", (*sent)[0])
	}
}

func TestExamCountdownFiresWithinWindow(t *testing.T) {
	st := newTestStore(t)
	cfg := config.DefaultHeartbeatConfig()
	cfg.ExamDate = time.Now().UTC().AddDate(0, 0, 5).Format("2006-01-02")
	var sent []string
	d := notify.New(st, config.DefaultNotifyConfig(), nil, func(msg string) error {
		sent = append(sent, msg)
		return nil
	})
	checks := NewChecks(st, cfg, d)

	triggered, err := checks.ExamCountdown()
	if err != nil {
		t.Fatalf("ExamCountdown: %v", err)
	}
	if !triggered {
		t.Fatal("expected exam_countdown to fire within the configured window")
	}
	if len(sent) != 1 {
		t.Fatalf("expected one dispatched message, got %v", sent)
	}
}

func TestExamCountdownSilentOutsideWindow(t *testing.T) {
	st := newTestStore(t)
	cfg := config.DefaultHeartbeatConfig()
	cfg.ExamDate = time.Now().UTC().AddDate(0, 0, 60).Format("2006-01-02")
	checks, sent := newTestChecksWithCfg(t, st, cfg)

	triggered, err := checks.ExamCountdown()
	if err != nil {
		t.Fatalf("ExamCountdown: %v", err)
	}
	if triggered {
		t.Fatal("expected no trigger 60 days out")
	}
	if len(*sent) != 0 {
		t.Fatalf("expected no dispatched messages, got %v", *sent)
	}
}

func newTestChecksWithCfg(t *testing.T, st *store.Store, cfg config.HeartbeatConfig) (*Checks, *[]string) {
	t.Helper()
	var sent []string
	d := notify.New(st, config.DefaultNotifyConfig(), nil, func(msg string) error {
		sent = append(sent, msg)
		return nil
	})
	return NewChecks(st, cfg, d), &sent
}

func TestStaleApplicationsTriggersPastWindow(t *testing.T) {
	st := newTestStore(t)
	checks, sent := newTestChecks(t, st)

	old := time.Now().UTC().AddDate(0, 0, -30)
	if _, err := st.CreateApplication(store.Application{Status: store.AppApplied, AppliedDate: &old}); err != nil {
		t.Fatalf("CreateApplication: %v", err)
	}

	triggered, err := checks.StaleApplications()
	if err != nil {
		t.Fatalf("StaleApplications: %v", err)
	}
	if !triggered {
		t.Fatal("expected stale_applications to trigger")
	}
	if len(*sent) != 1 {
		t.Fatalf("expected one dispatched message, got %v", *sent)
	}
}

func TestSessionCrashDetectsStaleActiveSession(t *testing.T) {
	st := newTestStore(t)
	checks, sent := newTestChecks(t, st)

	stale := time.Now().UTC().Add(-45 * time.Minute)
	if err := st.UpsertClaudeSession(store.ClaudeSession{
		SessionID: "sess-1", Cwd: "/tmp", StartedAt: stale, LastHeartbeat: stale, Status: "active",
	}); err != nil {
		t.Fatalf("UpsertClaudeSession: %v", err)
	}

	triggered, err := checks.SessionCrash()
	if err != nil {
		t.Fatalf("SessionCrash: %v", err)
	}
	if !triggered {
		t.Fatal("expected session_crash to trigger for a stale active session")
	}
	if len(*sent) != 1 {
		t.Fatalf("expected one dispatched message, got %v", *sent)
	}
}

func TestSessionCrashSilentForFreshSession(t *testing.T) {
	st := newTestStore(t)
	checks, sent := newTestChecks(t, st)

	now := time.Now().UTC()
	if err := st.UpsertClaudeSession(store.ClaudeSession{
		SessionID: "sess-1", Cwd: "/tmp", StartedAt: now, LastHeartbeat: now, Status: "active",
	}); err != nil {
		t.Fatalf("UpsertClaudeSession: %v", err)
	}

	triggered, err := checks.SessionCrash()
	if err != nil {
		t.Fatalf("SessionCrash: %v", err)
	}
	if triggered {
		t.Fatal("expected no trigger for a fresh heartbeat")
	}
	if len(*sent) != 0 {
		t.Fatalf("expected no dispatched messages, got %v", *sent)
	}
}

func TestGoalStalenessSilentForFreshGoal(t *testing.T) {
	st := newTestStore(t)
	checks, sent := newTestChecks(t, st)

	dom, err := st.CreateLifeDomain(store.LifeDomain{Name: "career"})
	if err != nil {
		t.Fatalf("CreateLifeDomain: %v", err)
	}
	if _, err := st.CreateLifeGoal(store.LifeGoal{DomainID: dom.ID, Title: "new goal", Status: "active"}); err != nil {
		t.Fatalf("CreateLifeGoal: %v", err)
	}

	triggered, err := checks.GoalStaleness()
	if err != nil {
		t.Fatalf("GoalStaleness: %v", err)
	}
	if triggered {
		t.Fatal("expected no trigger for a goal updated moments ago")
	}
	if len(*sent) != 0 {
		t.Fatalf("expected no dispatched messages, got %v", *sent)
	}
}

func TestNetworkDecayTriggersPastThreshold(t *testing.T) {
	st := newTestStore(t)
	checks, sent := newTestChecks(t, st)

	old := time.Now().UTC().AddDate(0, 0, -120).Format("2006-01-02")
	if _, err := st.InsertGraphEntity(store.GraphEntity{
		Name: "Alex", EntityType: "person",
		Properties: map[string]any{"last_contact": old},
	}); err != nil {
		t.Fatalf("InsertGraphEntity: %v", err)
	}

	triggered, err := checks.NetworkDecay()
	if err != nil {
		t.Fatalf("NetworkDecay: %v", err)
	}
	if !triggered {
		t.Fatal("expected network_decay to trigger past the default 90-day threshold")
	}
	if len(*sent) != 1 {
		t.Fatalf("expected one dispatched message, got %v", *sent)
	}
}

func TestNetworkDecaySilentWithinThreshold(t *testing.T) {
	st := newTestStore(t)
	checks, sent := newTestChecks(t, st)

	recent := time.Now().UTC().AddDate(0, 0, -10).Format("2006-01-02")
	if _, err := st.InsertGraphEntity(store.GraphEntity{
		Name: "Alex", EntityType: "person",
		Properties: map[string]any{"last_contact": recent},
	}); err != nil {
		t.Fatalf("InsertGraphEntity: %v", err)
	}

	triggered, err := checks.NetworkDecay()
	if err != nil {
		t.Fatalf("NetworkDecay: %v", err)
	}
	if triggered {
		t.Fatal("expected no trigger within the decay threshold")
	}
	if len(*sent) != 0 {
		t.Fatalf("expected no dispatched messages, got %v", *sent)
	}
}
