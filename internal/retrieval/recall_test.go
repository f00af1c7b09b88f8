package retrieval

import (
	"context"
	"testing"

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

func TestRecallExcludesArchivedMemoriesByDefault(t *testing.T) {
	s := newTestStore(t)
	engine := NewEngine(s, nil)

	m, err := s.CreateMemory(store.Memory{Content: "the rocket launch schedule"}, nil)
	if err != nil {
		t.Fatalf("CreateMemory: %v", err)
	}
	if err := s.ArchiveMemory(m.ID, "superseded"); err != nil {
		t.Fatalf("ArchiveMemory: %v", err)
	}

	hits, err := engine.Recall(context.Background(), "rocket launch", Options{})
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	for _, h := range hits {
		if h.Memory.ID == m.ID {
			t.Fatalf("expected archived memory to be excluded by default, found it in %+v", hits)
		}
	}
}

func TestRecallIncludesArchivedMemoriesWhenRequested(t *testing.T) {
	s := newTestStore(t)
	engine := NewEngine(s, nil)

	m, err := s.CreateMemory(store.Memory{Content: "the rocket launch schedule slipped a week"}, nil)
	if err != nil {
		t.Fatalf("CreateMemory: %v", err)
	}
	if err := s.ArchiveMemory(m.ID, "superseded"); err != nil {
		t.Fatalf("ArchiveMemory: %v", err)
	}

	hits, err := engine.Recall(context.Background(), "rocket launch", Options{IncludeArchived: true})
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	var found bool
	for _, h := range hits {
		if h.Memory.ID == m.ID {
			found = true
			if !h.Archived {
				t.Fatalf("expected hit for archived memory to be marked Archived")
			}
		}
	}
	if !found {
		t.Fatalf("expected archived memory to surface with include_archived, got %+v", hits)
	}
}

func TestRecallArchivedRespectsCategoryFilter(t *testing.T) {
	s := newTestStore(t)
	engine := NewEngine(s, nil)

	m, err := s.CreateMemory(store.Memory{Content: "rocket launch delayed again", Category: store.CategoryEpisodic}, nil)
	if err != nil {
		t.Fatalf("CreateMemory: %v", err)
	}
	if err := s.ArchiveMemory(m.ID, "superseded"); err != nil {
		t.Fatalf("ArchiveMemory: %v", err)
	}

	hits, err := engine.Recall(context.Background(), "rocket launch", Options{IncludeArchived: true, Category: store.CategorySemantic})
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	for _, h := range hits {
		if h.Memory.ID == m.ID {
			t.Fatalf("expected category filter to exclude the archived episodic memory, got %+v", hits)
		}
	}
}
