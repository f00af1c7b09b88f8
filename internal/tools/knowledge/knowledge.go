// Package knowledge wires knowledge_store/knowledge_search/
// knowledge_update onto the store and retrieval engine (C1/C2).
package knowledge

import (
	"context"
	"fmt"
	"strings"

	"jaybrain/internal/logging"
	"jaybrain/internal/retrieval"
	"jaybrain/internal/store"
	"jaybrain/internal/tools"
)

var (
	st     *store.Store
	engine *retrieval.Engine
	audit  *logging.AuditLogger
)

// Init wires the package-level store, retrieval engine, and audit logger.
func Init(s *store.Store, e *retrieval.Engine, a *logging.AuditLogger) {
	st = s
	engine = e
	audit = a
}

// KnowledgeStoreTool returns a tool that creates a knowledge entry.
func KnowledgeStoreTool() *tools.Tool {
	return &tools.Tool{
		Name:        "knowledge_store",
		Description: "Store a longer-form knowledge reference entry",
		Category:    tools.CategoryKnowledge,
		Priority:    85,
		Execute:     executeKnowledgeStore,
		Schema: tools.ToolSchema{
			Required: []string{"title", "content"},
			Properties: map[string]tools.Property{
				"title":    {Type: "string", Description: "Entry title"},
				"content":  {Type: "string", Description: "Entry content"},
				"category": {Type: "string", Description: "Category label"},
				"tags":     {Type: "array", Description: "Tags", Items: &tools.PropertyItems{Type: "string"}},
				"source":   {Type: "string", Description: "Where this came from"},
			},
		},
	}
}

func executeKnowledgeStore(ctx context.Context, args map[string]any) (string, error) {
	title, _ := args["title"].(string)
	content, _ := args["content"].(string)
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("title and content are required")
	}
	category, _ := args["category"].(string)
	source, _ := args["source"].(string)
	tags := stringSlice(args["tags"])

	var vec []float32
	if engine != nil {
		vec, _ = engine.Embed(ctx, title+"\n"+content)
	}

	k, err := st.CreateKnowledge(store.Knowledge{
		Title:    title,
		Content:  content,
		Category: category,
		Tags:     tags,
		Source:   source,
	}, vec)
	if err != nil {
		return "", fmt.Errorf("knowledge_store: %w", err)
	}
	if audit != nil {
		audit.Log(logging.AuditEvent{EventType: logging.AuditKnowledgeStore, Category: "knowledge", Target: k.ID, Success: true})
	}
	logging.Tools("knowledge_store: %s", k.ID)
	return fmt.Sprintf("Stored knowledge entry %s: %s", k.ID, k.Title), nil
}

// KnowledgeSearchTool returns a tool that searches knowledge entries.
func KnowledgeSearchTool() *tools.Tool {
	return &tools.Tool{
		Name:        "knowledge_search",
		Description: "Search knowledge entries by fused vector and keyword relevance",
		Category:    tools.CategoryKnowledge,
		Priority:    85,
		Execute:     executeKnowledgeSearch,
		Schema: tools.ToolSchema{
			Required: []string{"query"},
			Properties: map[string]tools.Property{
				"query": {Type: "string", Description: "The search query"},
				"limit": {Type: "integer", Description: "Max results, default 10", Default: 10},
			},
		},
	}
}

func executeKnowledgeSearch(ctx context.Context, args map[string]any) (string, error) {
	query, _ := args["query"].(string)
	if query == "" {
		return "", fmt.Errorf("query is required")
	}
	limit := intArg(args["limit"], 10)

	hits, err := engine.RecallKnowledge(ctx, query, limit, retrieval.DefaultWeights())
	if err != nil {
		return "", fmt.Errorf("knowledge_search: %w", err)
	}
	if audit != nil {
		audit.Log(logging.AuditEvent{EventType: logging.AuditKnowledgeSearch, Category: "knowledge", Target: query, Success: len(hits) > 0})
	}
	if len(hits) == 0 {
		return "No knowledge entries found", nil
	}
	var b strings.Builder
	for _, h := range hits {
		fmt.Fprintf(&b, "[%s] (%.3f) %s: %s\n", h.Knowledge.ID, h.Score, h.Knowledge.Title, truncate(h.Knowledge.Content, 200))
	}
	return b.String(), nil
}

// KnowledgeUpdateTool returns a tool that overwrites an existing entry.
func KnowledgeUpdateTool() *tools.Tool {
	return &tools.Tool{
		Name:        "knowledge_update",
		Description: "Update an existing knowledge entry's content, category, or tags",
		Category:    tools.CategoryKnowledge,
		Priority:    70,
		Execute:     executeKnowledgeUpdate,
		Schema: tools.ToolSchema{
			Required: []string{"id"},
			Properties: map[string]tools.Property{
				"id":       {Type: "string", Description: "The knowledge entry id"},
				"title":    {Type: "string", Description: "New title"},
				"content":  {Type: "string", Description: "New content"},
				"category": {Type: "string", Description: "New category"},
				"tags":     {Type: "array", Description: "New tags", Items: &tools.PropertyItems{Type: "string"}},
			},
		},
	}
}

func executeKnowledgeUpdate(ctx context.Context, args map[string]any) (string, error) {
	id, _ := args["id"].(string)
	if id == "" {
		return "", fmt.Errorf("id is required")
	}
	existing, err := st.GetKnowledge(id)
	if err != nil {
		return "", fmt.Errorf("knowledge_update: %w", err)
	}
	if existing == nil {
		return "", fmt.Errorf("knowledge entry %s not found", id)
	}

	contentChanged := false
	if v, ok := args["title"].(string); ok && v != "" {
		existing.Title = v
		contentChanged = true
	}
	if v, ok := args["content"].(string); ok && v != "" {
		existing.Content = v
		contentChanged = true
	}
	if v, ok := args["category"].(string); ok {
		existing.Category = v
	}
	if tags := stringSlice(args["tags"]); tags != nil {
		existing.Tags = tags
	}

	var vec []float32
	if contentChanged && engine != nil {
		vec, _ = engine.Embed(ctx, existing.Title+"\n"+existing.Content)
	}

	if err := st.UpdateKnowledge(*existing, vec); err != nil {
		return "", fmt.Errorf("knowledge_update: %w", err)
	}
	logging.Tools("knowledge_update: %s", id)
	return fmt.Sprintf("Updated knowledge entry %s", id), nil
}

func stringSlice(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func intArg(v any, def int) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return def
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
