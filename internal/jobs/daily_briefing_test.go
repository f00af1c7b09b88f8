package jobs

import (
	"strings"
	"testing"

	"jaybrain/internal/store"
)

func TestDailyBriefingNoopWhenNothingDue(t *testing.T) {
	j := newTestJobs(t)
	triggered, err := j.DailyBriefing()
	if err != nil {
		t.Fatalf("DailyBriefing: %v", err)
	}
	if triggered {
		t.Fatal("expected DailyBriefing to be a no-op with no pending tasks or due concepts")
	}
}

func TestDailyBriefingListsPendingTasksAndDueConcepts(t *testing.T) {
	j := newTestJobs(t)
	if _, err := j.st.CreateTask(store.Task{Title: "Write quarterly review", Status: "pending"}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if _, err := j.st.CreateForgeConcept(store.ForgeConcept{Term: "Binary Search"}); err != nil {
		t.Fatalf("CreateForgeConcept: %v", err)
	}

	var captured string
	j.notifier = testNotifierCapturing(j.st, &captured)

	triggered, err := j.DailyBriefing()
	if err != nil {
		t.Fatalf("DailyBriefing: %v", err)
	}
	if !triggered {
		t.Fatal("expected DailyBriefing to dispatch when a task and a concept are due")
	}
	if !strings.Contains(captured, "Write quarterly review") {
		t.Fatalf("expected the briefing to mention the pending task, got: %s", captured)
	}
	if !strings.Contains(captured, "Binary Search") {
		t.Fatalf("expected the briefing to mention the due concept, got: %s", captured)
	}
}

func TestDailyBriefingCapsListAtTenWithOverflowNote(t *testing.T) {
	j := newTestJobs(t)
	for i := 0; i < 12; i++ {
		if _, err := j.st.CreateTask(store.Task{Title: "task", Status: "pending"}); err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
	}

	var captured string
	j.notifier = testNotifierCapturing(j.st, &captured)

	if _, err := j.DailyBriefing(); err != nil {
		t.Fatalf("DailyBriefing: %v", err)
	}
	if !strings.Contains(captured, "...and 2 more") {
		t.Fatalf("expected an overflow note for the 2 tasks past the 10-line cap, got: %s", captured)
	}
}
