package forge

import (
	"testing"
	"time"
)

func TestScoreV1Understood(t *testing.T) {
	high := ScoreV1(0.5, "understood", 5)
	low := ScoreV1(0.5, "understood", 2)
	if high <= low {
		t.Fatalf("higher confidence understood should score higher: high=%v low=%v", high, low)
	}
}

func TestScoreV1Struggled(t *testing.T) {
	d := ScoreV1(0.5, "struggled", 5)
	if d >= 0.5 {
		t.Fatalf("struggled should lower mastery, got %v", d)
	}
}

func TestScoreV1ClampsToZero(t *testing.T) {
	d := ScoreV1(0.05, "struggled", 5)
	if d < 0 {
		t.Fatalf("mastery should never go negative, got %v", d)
	}
}

func TestScoreV2Ordering(t *testing.T) {
	correctConfident := ScoreV2(0.5, true, 5) - 0.5
	correctUnsure := ScoreV2(0.5, true, 2) - 0.5
	incorrectConfident := ScoreV2(0.5, false, 5) - 0.5
	incorrectUnsure := ScoreV2(0.5, false, 2) - 0.5

	if !(correctConfident > correctUnsure && correctUnsure > 0) {
		t.Fatalf("expected correct_confident > correct_unsure > 0, got %v, %v", correctConfident, correctUnsure)
	}
	if !(incorrectConfident < incorrectUnsure && incorrectUnsure < 0) {
		t.Fatalf("expected incorrect_confident < incorrect_unsure < 0, got %v, %v", incorrectConfident, incorrectUnsure)
	}
}

func TestScoreV2ClampsToOne(t *testing.T) {
	d := ScoreV2(0.95, true, 5)
	if d > 1 {
		t.Fatalf("mastery should never exceed 1, got %v", d)
	}
}

func TestNextReviewIntervalBands(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		mastery float64
		days    int
	}{
		{0.1, 1},
		{0.35, 3},
		{0.5, 7},
		{0.7, 14},
		{0.9, 30},
	}
	for _, c := range cases {
		got := NextReviewInterval(c.mastery, now)
		want := now.AddDate(0, 0, c.days)
		if !got.Equal(want) {
			t.Fatalf("mastery=%v: expected +%d days (%v), got %v", c.mastery, c.days, want, got)
		}
	}
}

func TestErrorTypeClassification(t *testing.T) {
	if got := ErrorType(5, 0.8, 0); got != "slip" {
		t.Fatalf("high mastery with no history should classify as slip, got %s", got)
	}
	if got := ErrorType(5, 0.8, 5); got != "misconception" {
		t.Fatalf("high confidence + high mastery + history should classify as misconception, got %s", got)
	}
	if got := ErrorType(2, 0.8, 5); got != "lapse" {
		t.Fatalf("low confidence + high mastery should classify as lapse, got %s", got)
	}
	if got := ErrorType(2, 0.3, 3); got != "mistake" {
		t.Fatalf("low mastery with history should classify as mistake, got %s", got)
	}
}
