package forge

import (
	"testing"
	"time"

	"jaybrain/internal/store"
)

func TestBuildQueueV1Dedup(t *testing.T) {
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	due := store.ForgeConcept{ID: "due", MasteryLevel: 0.1, ReviewCount: 3, NextReview: &past}
	q := BuildQueueV1([]store.ForgeConcept{due}, now)

	if len(q.DueNow) != 1 {
		t.Fatalf("expected due concept in due_now, got %d", len(q.DueNow))
	}
	if len(q.Struggling) != 0 {
		t.Fatalf("a concept already placed in due_now must not also appear in struggling, got %d", len(q.Struggling))
	}
}

func TestBuildQueueV1Buckets(t *testing.T) {
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	soon := now.AddDate(0, 0, 2)

	newConcept := store.ForgeConcept{ID: "new", MasteryLevel: 0, ReviewCount: 0}
	strugglingConcept := store.ForgeConcept{ID: "struggling", MasteryLevel: 0.1, ReviewCount: 4}
	upNextConcept := store.ForgeConcept{ID: "upnext", MasteryLevel: 0.5, ReviewCount: 2, NextReview: &soon}

	q := BuildQueueV1([]store.ForgeConcept{newConcept, strugglingConcept, upNextConcept}, now)

	if len(q.New) != 1 || q.New[0].ID != "new" {
		t.Fatalf("expected new concept to land in New, got %+v", q.New)
	}
	if len(q.Struggling) != 1 || q.Struggling[0].ID != "struggling" {
		t.Fatalf("expected struggling concept to land in Struggling, got %+v", q.Struggling)
	}
	if len(q.UpNext) != 1 || q.UpNext[0].ID != "upnext" {
		t.Fatalf("expected up-next concept to land in UpNext, got %+v", q.UpNext)
	}
}

func TestBuildQueueV2OrdersByUrgencyAndWeight(t *testing.T) {
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	lowWeightDue := store.ForgeConcept{ID: "low", MasteryLevel: 0.2, NextReview: &past, ObjectiveIDs: []string{"obj-low"}}
	highWeightDue := store.ForgeConcept{ID: "high", MasteryLevel: 0.2, NextReview: &past, ObjectiveIDs: []string{"obj-high"}}
	objectives := map[string]store.ForgeObjective{
		"obj-low":  {ID: "obj-low", Code: "L1", ExamWeight: 0.1},
		"obj-high": {ID: "obj-high", Code: "H1", ExamWeight: 0.9},
	}

	items := BuildQueueV2([]store.ForgeConcept{lowWeightDue, highWeightDue}, objectives, now, 10)

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Concept.ID != "high" {
		t.Fatalf("expected the higher exam-weight concept to rank first, got %s", items[0].Concept.ID)
	}
}

func TestBuildQueueV2RespectsLimit(t *testing.T) {
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	concepts := make([]store.ForgeConcept, 5)
	for i := range concepts {
		concepts[i] = store.ForgeConcept{ID: string(rune('a' + i)), MasteryLevel: 0.3}
	}
	items := BuildQueueV2(concepts, map[string]store.ForgeObjective{}, now, 2)
	if len(items) != 2 {
		t.Fatalf("expected limit of 2 items, got %d", len(items))
	}
}
