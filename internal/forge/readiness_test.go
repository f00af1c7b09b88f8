package forge

import (
	"testing"

	"jaybrain/internal/store"
)

func TestBuildReadinessOverall(t *testing.T) {
	concepts := []store.ForgeConcept{
		{ID: "a", MasteryLevel: 0.8, ReviewCount: 3, ObjectiveIDs: []string{"o1"}},
		{ID: "b", MasteryLevel: 0.2, ReviewCount: 0, ObjectiveIDs: []string{"o1"}},
		{ID: "c", MasteryLevel: 0.6, ReviewCount: 1, ObjectiveIDs: []string{"o2"}},
	}
	objectives := []store.ForgeObjective{
		{ID: "o1", Domain: "networking", ExamWeight: 0.4},
		{ID: "o2", Domain: "security", ExamWeight: 0.6},
	}

	r := BuildReadiness(concepts, objectives)

	if r.TotalConcepts != 3 {
		t.Fatalf("expected 3 total concepts, got %d", r.TotalConcepts)
	}
	if r.ReviewedConcepts != 2 {
		t.Fatalf("expected 2 reviewed concepts, got %d", r.ReviewedConcepts)
	}
	if len(r.PerDomain) != 2 {
		t.Fatalf("expected 2 domains, got %d", len(r.PerDomain))
	}
}

func TestBuildReadinessEmpty(t *testing.T) {
	r := BuildReadiness(nil, nil)
	if r.TotalConcepts != 0 || r.Coverage != 0 {
		t.Fatalf("expected zero-value readiness for no concepts, got %+v", r)
	}
}

func TestBuildCalibrationOverconfidence(t *testing.T) {
	correct := true
	incorrect := false
	reviews := []store.ForgeReview{
		{Confidence: 5, WasCorrect: &incorrect},
		{Confidence: 5, WasCorrect: &incorrect},
		{Confidence: 5, WasCorrect: &correct},
		{Confidence: 2, WasCorrect: &correct},
	}
	c := BuildCalibration(reviews)

	if c.ConfidentIncorrect != 2 || c.ConfidentCorrect != 1 {
		t.Fatalf("unexpected confident tallies: %+v", c)
	}
	if c.OverconfidenceRate < 0.6 || c.OverconfidenceRate > 0.7 {
		t.Fatalf("expected overconfidence rate near 2/3, got %v", c.OverconfidenceRate)
	}
}

func TestBuildCalibrationIgnoresUnscoredReviews(t *testing.T) {
	reviews := []store.ForgeReview{
		{Confidence: 5, WasCorrect: nil},
	}
	c := BuildCalibration(reviews)
	if c.ConfidentCorrect != 0 || c.ConfidentIncorrect != 0 {
		t.Fatalf("v1 reviews without was_correct should not contribute to calibration, got %+v", c)
	}
}
