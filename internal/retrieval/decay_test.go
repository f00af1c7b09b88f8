package retrieval

import (
	"testing"
	"time"
)

func TestDecayFreshFullImportance(t *testing.T) {
	now := time.Now().UTC()
	d := Decay(DecayInput{CreatedAt: now, Importance: 1}, now)
	if d != 1.0 {
		t.Fatalf("fresh memory with importance=1 should decay to exactly 1.0, got %v", d)
	}
}

func TestDecayOneHalfLife(t *testing.T) {
	now := time.Now().UTC()
	created := now.Add(-time.Duration(BaseHalfLifeDays*24) * time.Hour)
	d := Decay(DecayInput{CreatedAt: created, Importance: 1}, now)
	if diff := d - 0.5; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("one half-life with importance=1 should decay to 0.5, got %v", d)
	}
}

func TestDecayNeverBelowMin(t *testing.T) {
	now := time.Now().UTC()
	created := now.Add(-time.Duration(MaxHalfLifeDays*50*24) * time.Hour)
	d := Decay(DecayInput{CreatedAt: created, Importance: 0}, now)
	if d != MinDecay {
		t.Fatalf("ancient memory should floor at MinDecay, got %v", d)
	}
}

func TestDecayAccessResetsClock(t *testing.T) {
	now := time.Now().UTC()
	created := now.Add(-time.Duration(BaseHalfLifeDays*24) * time.Hour)
	recentAccess := now.Add(-time.Hour)

	stale := Decay(DecayInput{CreatedAt: created, Importance: 0.5}, now)
	fresh := Decay(DecayInput{CreatedAt: created, LastAccessed: &recentAccess, Importance: 0.5}, now)

	if fresh <= stale {
		t.Fatalf("a recent access should raise the decay score: stale=%v fresh=%v", stale, fresh)
	}
}

func TestDecayMonotoneInAccessCount(t *testing.T) {
	now := time.Now().UTC()
	created := now.Add(-time.Duration(200*24) * time.Hour)

	low := Decay(DecayInput{CreatedAt: created, Importance: 1, AccessCount: 0}, now)
	high := Decay(DecayInput{CreatedAt: created, Importance: 1, AccessCount: 10}, now)

	if high <= low {
		t.Fatalf("higher access_count should extend the half-life and raise the score: low=%v high=%v", low, high)
	}
}
