package graph

import (
	"testing"

	"jaybrain/internal/store"
)

// fakeFetcher is an in-memory RelationshipFetcher for BFS tests: a star
// graph centered on "a" with "b" and "c" one hop out, "d" two hops out
// via "b", and an isolated "e" unreachable from "a".
type fakeFetcher struct {
	entities map[string]store.GraphEntity
	edges    map[string][]store.GraphRelationship
}

func (f *fakeFetcher) Neighborhood(entityID string, limit int) ([]store.GraphRelationship, error) {
	return f.edges[entityID], nil
}

func (f *fakeFetcher) GetGraphEntity(id string) (*store.GraphEntity, error) {
	e, ok := f.entities[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func newFakeFetcher() *fakeFetcher {
	entities := map[string]store.GraphEntity{
		"a": {ID: "a", Name: "A", EntityType: "person"},
		"b": {ID: "b", Name: "B", EntityType: "person"},
		"c": {ID: "c", Name: "C", EntityType: "project"},
		"d": {ID: "d", Name: "D", EntityType: "project"},
		"e": {ID: "e", Name: "E", EntityType: "person"},
	}
	ab := store.GraphRelationship{ID: "ab", SourceEntityID: "a", TargetEntityID: "b", RelType: "knows", Weight: 1}
	ac := store.GraphRelationship{ID: "ac", SourceEntityID: "a", TargetEntityID: "c", RelType: "uses", Weight: 1}
	bd := store.GraphRelationship{ID: "bd", SourceEntityID: "b", TargetEntityID: "d", RelType: "uses", Weight: 1}
	edges := map[string][]store.GraphRelationship{
		"a": {ab, ac},
		"b": {ab, bd},
		"c": {ac},
		"d": {bd},
		"e": nil,
	}
	return &fakeFetcher{entities: entities, edges: edges}
}

func TestBuildNeighborhoodOneHopOnlyDirectNeighbors(t *testing.T) {
	f := newFakeFetcher()
	n, err := BuildNeighborhood(f, f.entities["a"], 1, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.EntityCount != 3 {
		t.Fatalf("expected center + 2 one-hop entities, got %d: %+v", n.EntityCount, n.Entities)
	}
	if n.RelationshipCount != 2 {
		t.Fatalf("expected 2 relationships at depth 1, got %d", n.RelationshipCount)
	}
	if n.Depth != 1 {
		t.Fatalf("expected depth 1, got %d", n.Depth)
	}
}

func TestBuildNeighborhoodTwoHopsReachesSecondRing(t *testing.T) {
	f := newFakeFetcher()
	n, err := BuildNeighborhood(f, f.entities["a"], 2, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.EntityCount != 4 {
		t.Fatalf("expected a, b, c, d reached within 2 hops, got %d: %+v", n.EntityCount, n.Entities)
	}
	if n.RelationshipCount != 3 {
		t.Fatalf("expected all 3 edges touched, got %d", n.RelationshipCount)
	}
	for _, e := range n.Entities {
		if e.ID == "e" {
			t.Fatalf("entity e is unreachable from a and must not appear")
		}
	}
}

func TestBuildNeighborhoodClampsDepthToMax(t *testing.T) {
	f := newFakeFetcher()
	n, err := BuildNeighborhood(f, f.entities["a"], MaxNeighborhoodDepth+10, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Depth != MaxNeighborhoodDepth {
		t.Fatalf("expected depth clamped to %d, got %d", MaxNeighborhoodDepth, n.Depth)
	}
}

func TestBuildNeighborhoodDefaultsDepthWhenZeroOrNegative(t *testing.T) {
	f := newFakeFetcher()
	n, err := BuildNeighborhood(f, f.entities["a"], 0, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Depth != DefaultNeighborhoodDepth {
		t.Fatalf("expected default depth %d, got %d", DefaultNeighborhoodDepth, n.Depth)
	}
}

func TestBuildNeighborhoodFiltersEntityTypeButKeepsCenter(t *testing.T) {
	f := newFakeFetcher()
	n, err := BuildNeighborhood(f, f.entities["a"], 2, "project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids := map[string]bool{}
	for _, e := range n.Entities {
		ids[e.ID] = true
	}
	if !ids["a"] {
		t.Fatalf("expected center to survive the entity_type filter, got %+v", n.Entities)
	}
	if !ids["c"] || !ids["d"] {
		t.Fatalf("expected project entities c and d, got %+v", n.Entities)
	}
	if ids["b"] {
		t.Fatalf("expected person entity b to be filtered out, got %+v", n.Entities)
	}
}
