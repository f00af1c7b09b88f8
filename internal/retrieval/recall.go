package retrieval

import (
	"context"
	"sort"
	"time"

	"jaybrain/internal/embedding"
	"jaybrain/internal/logging"
	"jaybrain/internal/store"
)

// Hit is one ranked recall result: the underlying memory plus its
// fused-then-decayed score. Archived is set when the hit came from
// memory_archive rather than the live memories table (include_archived).
type Hit struct {
	Memory   store.Memory
	Score    float64
	Archived bool
}

// KnowledgeHit is the knowledge-table twin of Hit.
type KnowledgeHit struct {
	Knowledge store.Knowledge
	Score     float64
}

// Options controls one recall call.
type Options struct {
	Category        string
	Limit           int
	Weights         Weights
	IncludeArchived bool
}

// Engine binds a store and an embedding backend to serve recall calls.
// A nil Embedder degrades to keyword-only search (partial failure path
// from the spec: embedding model missing never surfaces as an error).
type Engine struct {
	store    *store.Store
	embedder embedding.EmbeddingEngine
}

// NewEngine builds a retrieval engine. embedder may be nil.
func NewEngine(st *store.Store, embedder embedding.EmbeddingEngine) *Engine {
	return &Engine{store: st, embedder: embedder}
}

// Embed generates an embedding for text using the engine's configured
// backend. Returns a nil vector, nil error when no embedder is wired,
// so callers can store content without a vector rather than fail.
func (e *Engine) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.embedder == nil {
		return nil, nil
	}
	vec, err := e.embedder.Embed(ctx, text)
	if err != nil {
		logging.Retrieval("embedding unavailable: %v", err)
		return nil, nil
	}
	return vec, nil
}

// Recall implements the memory-table recall algorithm: embed once,
// query vector K-NN and keyword search concurrently, fuse, decay,
// optional category filter, return top limit.
func (e *Engine) Recall(ctx context.Context, query string, opts Options) ([]Hit, error) {
	if opts.Limit <= 0 {
		opts.Limit = 10
	}
	if opts.Weights == (Weights{}) {
		opts.Weights = DefaultWeights()
	}
	overfetch := opts.Limit * VecOverfetch

	var vecHits []store.VecHit
	var kwHits []store.KeywordHit
	errCh := make(chan error, 2)

	go func() {
		defer func() { recover() }()
		if e.embedder == nil {
			errCh <- nil
			return
		}
		vec, err := e.embedder.Embed(ctx, query)
		if err != nil {
			logging.Retrieval("embedding unavailable, falling back to keyword-only: %v", err)
			errCh <- nil
			return
		}
		hits, err := e.store.MemoryVectorKNN(vec, overfetch)
		if err != nil {
			logging.Retrieval("vector search failed, falling back to keyword-only: %v", err)
			errCh <- nil
			return
		}
		vecHits = hits
		errCh <- nil
	}()

	go func() {
		hits, err := e.store.MemoryKeywordSearch(query, overfetch)
		if err != nil {
			errCh <- err
			return
		}
		kwHits = hits
		errCh <- nil
	}()

	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			return nil, err
		}
	}

	fused := fuse(vecHits, kwHits, opts.Weights)
	ids := make([]string, len(fused))
	for i, f := range fused {
		ids[i] = f.id
	}
	memories, err := e.store.ListMemoriesByIDs(ids)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var out []Hit
	for _, f := range fused {
		m, ok := memories[f.id]
		if !ok {
			continue
		}
		if opts.Category != "" && m.Category != opts.Category {
			continue
		}
		decay := Decay(DecayInput{
			CreatedAt:    m.CreatedAt,
			LastAccessed: m.LastAccessed,
			Importance:   m.Importance,
			AccessCount:  m.AccessCount,
		}, now)
		out = append(out, Hit{Memory: m, Score: f.score * decay})
	}

	if opts.IncludeArchived {
		archHits, err := e.recallArchived(query, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, archHits...)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	for _, h := range out {
		if !h.Archived {
			_ = e.store.TouchMemory(h.Memory.ID)
		}
	}
	return out, nil
}

// recallArchived is include_archived's extra branch: keyword-only
// search over memory_archive (archived content never gets re-embedded),
// decayed the same way live hits are so the scores stay comparable.
func (e *Engine) recallArchived(query string, opts Options) ([]Hit, error) {
	overfetch := opts.Limit * VecOverfetch
	kwHits, err := e.store.ArchivedMemoryKeywordSearch(query, overfetch)
	if err != nil {
		return nil, err
	}
	if len(kwHits) == 0 {
		return nil, nil
	}
	ids := make([]string, len(kwHits))
	for i, h := range kwHits {
		ids[i] = h.ID
	}
	archived, err := e.store.ListArchivedMemoriesByIDs(ids)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	norm := normalizeKeyword(kwHits)
	var out []Hit
	for id, score := range norm {
		a, ok := archived[id]
		if !ok {
			continue
		}
		if opts.Category != "" && a.Category != opts.Category {
			continue
		}
		decay := Decay(DecayInput{
			CreatedAt:    a.CreatedAt,
			LastAccessed: a.LastAccessed,
			Importance:   a.Importance,
			AccessCount:  a.AccessCount,
		}, now)
		out = append(out, Hit{Memory: a.Memory, Score: score * opts.Weights.Keyword * decay, Archived: true})
	}
	return out, nil
}

// RecallKnowledge is the knowledge-table twin of Recall. Knowledge
// entries have no access_count/importance decay clock in the data
// model, so the fused score is returned unmodified; callers that want
// a decayed score use Recall against memories instead.
func (e *Engine) RecallKnowledge(ctx context.Context, query string, limit int, w Weights) ([]KnowledgeHit, error) {
	if limit <= 0 {
		limit = 10
	}
	if w == (Weights{}) {
		w = DefaultWeights()
	}
	overfetch := limit * VecOverfetch

	var vecHits []store.VecHit
	if e.embedder != nil {
		if vec, err := e.embedder.Embed(ctx, query); err == nil {
			if hits, err := e.store.KnowledgeVectorKNN(vec, overfetch); err == nil {
				vecHits = hits
			} else {
				logging.Retrieval("knowledge vector search failed, falling back to keyword-only: %v", err)
			}
		} else {
			logging.Retrieval("embedding unavailable for knowledge recall: %v", err)
		}
	}

	kwHits, err := e.store.KnowledgeKeywordSearch(query, overfetch)
	if err != nil {
		return nil, err
	}

	fused := fuse(vecHits, kwHits, w)
	sort.Slice(fused, func(i, j int) bool { return fused[i].score > fused[j].score })
	if len(fused) > limit {
		fused = fused[:limit]
	}

	out := make([]KnowledgeHit, 0, len(fused))
	for _, f := range fused {
		k, err := e.store.GetKnowledge(f.id)
		if err != nil {
			return nil, err
		}
		if k == nil {
			continue
		}
		out = append(out, KnowledgeHit{Knowledge: *k, Score: f.score})
	}
	return out, nil
}
