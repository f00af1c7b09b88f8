package forge

import (
	"testing"
	"time"
)

func TestCalculateStreakConsecutiveEndingToday(t *testing.T) {
	today := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	dates := []string{"2026-07-31", "2026-07-30", "2026-07-29"}
	s := CalculateStreak(dates, today)
	if s.Current != 3 {
		t.Fatalf("expected current streak of 3, got %d", s.Current)
	}
	if s.Longest != 3 {
		t.Fatalf("expected longest streak of 3, got %d", s.Longest)
	}
}

func TestCalculateStreakEndingYesterdayStillCounts(t *testing.T) {
	today := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	dates := []string{"2026-07-30", "2026-07-29"}
	s := CalculateStreak(dates, today)
	if s.Current != 2 {
		t.Fatalf("a streak ending yesterday with nothing logged today should still count, got current=%d", s.Current)
	}
}

func TestCalculateStreakGapBreaksCurrentNotLongest(t *testing.T) {
	today := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	dates := []string{"2026-07-31", "2026-07-25", "2026-07-24", "2026-07-23"}
	s := CalculateStreak(dates, today)
	if s.Current != 1 {
		t.Fatalf("expected current streak of 1 after a gap, got %d", s.Current)
	}
	if s.Longest != 3 {
		t.Fatalf("expected longest streak of 3 from the older run, got %d", s.Longest)
	}
}

func TestCalculateStreakTwoDayGapIsZeroCurrent(t *testing.T) {
	today := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	dates := []string{"2026-07-28"}
	s := CalculateStreak(dates, today)
	if s.Current != 0 {
		t.Fatalf("a two-day-old last review should not count toward current streak, got %d", s.Current)
	}
}
