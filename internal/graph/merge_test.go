package graph

import (
	"testing"

	"jaybrain/internal/store"
)

func TestMergeEntityUnionsAliasesAndMemoryIDs(t *testing.T) {
	existing := store.GraphEntity{Aliases: []string{"Bob"}, MemoryIDs: []string{"m1"}, Description: "short"}
	incoming := store.GraphEntity{Aliases: []string{"Bob", "Robert"}, MemoryIDs: []string{"m2"}, Description: "a longer description"}

	merged := MergeEntity(existing, incoming)

	if len(merged.Aliases) != 2 {
		t.Fatalf("expected 2 deduped aliases, got %v", merged.Aliases)
	}
	if len(merged.MemoryIDs) != 2 {
		t.Fatalf("expected memory ids from both sides, got %v", merged.MemoryIDs)
	}
	if merged.Description != incoming.Description {
		t.Fatalf("expected the non-empty incoming description to win, got %q", merged.Description)
	}
}

func TestMergeEntityOverwritesDescriptionWhenIncomingNonEmptyEvenIfShorter(t *testing.T) {
	existing := store.GraphEntity{Description: "a much longer existing description"}
	incoming := store.GraphEntity{Description: "short"}
	merged := MergeEntity(existing, incoming)
	if merged.Description != incoming.Description {
		t.Fatalf("expected the incoming description to overwrite even though it's shorter, got %q", merged.Description)
	}
}

func TestMergeEntityKeepsExistingDescriptionWhenIncomingEmpty(t *testing.T) {
	existing := store.GraphEntity{Description: "existing description"}
	incoming := store.GraphEntity{Description: ""}
	merged := MergeEntity(existing, incoming)
	if merged.Description != existing.Description {
		t.Fatalf("expected the existing description to survive an empty incoming description, got %q", merged.Description)
	}
}

func TestMergeRelationshipOverwritesWeightWhenProvided(t *testing.T) {
	existing := store.GraphRelationship{Weight: 0.3, EvidenceIDs: []string{"e1"}}
	incoming := store.GraphRelationship{Weight: 0.9, EvidenceIDs: []string{"e2"}}

	merged := MergeRelationship(existing, incoming)
	if merged.Weight != 0.9 {
		t.Fatalf("expected the incoming weight to overwrite, got %v", merged.Weight)
	}
	if len(merged.EvidenceIDs) != 2 {
		t.Fatalf("expected evidence ids unioned, got %v", merged.EvidenceIDs)
	}
}

func TestMergeRelationshipKeepsWeightWhenNotProvided(t *testing.T) {
	existing := store.GraphRelationship{Weight: 0.6}
	incoming := store.GraphRelationship{}

	merged := MergeRelationship(existing, incoming)
	if merged.Weight != 0.6 {
		t.Fatalf("expected the existing weight to survive an unset incoming weight, got %v", merged.Weight)
	}
}

func TestMergeRelationshipClampsWeightAboveOne(t *testing.T) {
	existing := store.GraphRelationship{Weight: 0.5}
	incoming := store.GraphRelationship{Weight: 1.5}

	merged := MergeRelationship(existing, incoming)
	if merged.Weight != 1 {
		t.Fatalf("expected weight clamped at 1, got %v", merged.Weight)
	}
}

func TestMergePropertiesIncomingWins(t *testing.T) {
	existing := store.GraphEntity{Properties: map[string]any{"role": "engineer", "team": "infra"}}
	incoming := store.GraphEntity{Properties: map[string]any{"role": "manager"}}
	merged := MergeEntity(existing, incoming)
	if merged.Properties["role"] != "manager" {
		t.Fatalf("expected incoming property to win on conflict, got %v", merged.Properties["role"])
	}
	if merged.Properties["team"] != "infra" {
		t.Fatalf("expected untouched existing property to survive, got %v", merged.Properties["team"])
	}
}
