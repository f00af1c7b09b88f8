// Package memory wires the remember/recall/forget/deep_recall tool
// surface onto the store and retrieval engine (C1/C2).
package memory

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

// Init wires the package-level store, retrieval engine, and audit
// logger used by every tool in this package. Must be called once
// during startup before the tools are registered.
func Init(s *store.Store, e *retrieval.Engine, a *logging.AuditLogger) {
	st = s
	engine = e
	audit = a
}

// RememberTool returns a tool that stores a new memory.
func RememberTool() *tools.Tool {
	return &tools.Tool{
		Name:        "remember",
		Description: "Store a new memory with an optional category, tags, and importance",
		Category:    tools.CategoryMemory,
		Priority:    90,
		Execute:     executeRemember,
		Schema: tools.ToolSchema{
			Required: []string{"content"},
			Properties: map[string]tools.Property{
				"content":    {Type: "string", Description: "The memory content"},
				"category":   {Type: "string", Description: "One of semantic, episodic, procedural, decision, preference", Default: store.CategorySemantic},
				"tags":       {Type: "array", Description: "Tags for this memory", Items: &tools.PropertyItems{Type: "string"}},
				"importance": {Type: "number", Description: "Importance in [0,1], default 0.5", Default: 0.5},
				"session_id": {Type: "string", Description: "Session this memory was created in"},
			},
		},
	}
}

func executeRemember(ctx context.Context, args map[string]any) (string, error) {
	content, _ := args["content"].(string)
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("content is required")
	}

	category, _ := args["category"].(string)
	if category == "" {
		category = store.CategorySemantic
	}
	importance := 0.5
	if v, ok := args["importance"].(float64); ok {
		importance = v
	}
	tags := stringSlice(args["tags"])
	sessionID, _ := args["session_id"].(string)

	var vec []float32
	if engine != nil {
		vec, _ = engine.Embed(ctx, content)
	}

	m, err := st.CreateMemory(store.Memory{
		Content:    content,
		Category:   category,
		Tags:       tags,
		Importance: importance,
		SessionID:  sessionID,
	}, vec)
	if err != nil {
		return "", fmt.Errorf("remember: %w", err)
	}

	if audit != nil {
		audit.MemoryOp(logging.AuditMemoryStore, m.ID, true)
	}
	logging.Tools("remember: stored %s (category=%s)", m.ID, category)
	return fmt.Sprintf("Stored memory %s", m.ID), nil
}

// RecallTool returns a tool that recalls memories by fused vector +
// keyword search.
func RecallTool() *tools.Tool {
	return &tools.Tool{
		Name:        "recall",
		Description: "Recall memories matching a query, ranked by relevance and recency decay",
		Category:    tools.CategoryMemory,
		Priority:    90,
		Execute:     executeRecall,
		Schema: tools.ToolSchema{
			Required: []string{"query"},
			Properties: map[string]tools.Property{
				"query":            {Type: "string", Description: "The search query"},
				"category":         {Type: "string", Description: "Restrict to one category"},
				"limit":            {Type: "integer", Description: "Max results, default 10", Default: 10},
				"include_archived": {Type: "boolean", Description: "Also search archived memories", Default: false},
			},
		},
	}
}

func executeRecall(ctx context.Context, args map[string]any) (string, error) {
	query, _ := args["query"].(string)
	if query == "" {
		return "", fmt.Errorf("query is required")
	}
	category, _ := args["category"].(string)
	limit := intArg(args["limit"], 10)
	includeArchived, _ := args["include_archived"].(bool)

	hits, err := engine.Recall(ctx, query, retrieval.Options{Category: category, Limit: limit, IncludeArchived: includeArchived})
	if err != nil {
		return "", fmt.Errorf("recall: %w", err)
	}

	if audit != nil {
		audit.MemoryOp(logging.AuditMemoryRecall, query, len(hits) > 0)
	}
	return formatHits(hits), nil
}

// DeepRecallTool returns a tool identical to recall but with a wider
// candidate pool and a higher default limit, for exhaustive review.
func DeepRecallTool() *tools.Tool {
	return &tools.Tool{
		Name:        "deep_recall",
		Description: "Recall memories with a wider overfetch window, for exhaustive review rather than quick lookup",
		Category:    tools.CategoryMemory,
		Priority:    70,
		Execute:     executeDeepRecall,
		Schema: tools.ToolSchema{
			Required: []string{"query"},
			Properties: map[string]tools.Property{
				"query":            {Type: "string", Description: "The search query"},
				"limit":            {Type: "integer", Description: "Max results, default 30", Default: 30},
				"include_archived": {Type: "boolean", Description: "Also search archived memories", Default: false},
			},
		},
	}
}

func executeDeepRecall(ctx context.Context, args map[string]any) (string, error) {
	query, _ := args["query"].(string)
	if query == "" {
		return "", fmt.Errorf("query is required")
	}
	limit := intArg(args["limit"], 30)
	includeArchived, _ := args["include_archived"].(bool)

	hits, err := engine.Recall(ctx, query, retrieval.Options{Limit: limit, IncludeArchived: includeArchived})
	if err != nil {
		return "", fmt.Errorf("deep_recall: %w", err)
	}
	if audit != nil {
		audit.MemoryOp(logging.AuditMemoryRecall, query, len(hits) > 0)
	}
	return formatHits(hits), nil
}

// ForgetTool returns a tool that archives or hard-deletes a memory.
func ForgetTool() *tools.Tool {
	return &tools.Tool{
		Name:        "forget",
		Description: "Remove a memory by id, archiving it by default for audit",
		Category:    tools.CategoryMemory,
		Priority:    60,
		Execute:     executeForget,
		Schema: tools.ToolSchema{
			Required: []string{"id"},
			Properties: map[string]tools.Property{
				"id":     {Type: "string", Description: "The memory id"},
				"reason": {Type: "string", Description: "Why this memory is being forgotten"},
				"hard":   {Type: "boolean", Description: "Hard-delete instead of archiving", Default: false},
			},
		},
	}
}

func executeForget(ctx context.Context, args map[string]any) (string, error) {
	id, _ := args["id"].(string)
	if id == "" {
		return "", fmt.Errorf("id is required")
	}
	reason, _ := args["reason"].(string)
	hard, _ := args["hard"].(bool)

	var err error
	if hard {
		err = st.DeleteMemory(id)
	} else {
		if reason == "" {
			reason = "manual forget"
		}
		err = st.ArchiveMemory(id, reason)
	}
	if err != nil {
		return "", fmt.Errorf("forget: %w", err)
	}

	if audit != nil {
		audit.MemoryOp(logging.AuditMemoryForget, id, true)
	}
	logging.Tools("forget: removed %s (hard=%v)", id, hard)
	return fmt.Sprintf("Forgot memory %s", id), nil
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

func formatHits(hits []retrieval.Hit) string {
	if len(hits) == 0 {
		return "No memories found"
	}
	var b strings.Builder
	for _, h := range hits {
		archivedTag := ""
		if h.Archived {
			archivedTag = " [archived]"
		}
		fmt.Fprintf(&b, "[%s]%s (%.3f) %s: %s\n", h.Memory.ID, archivedTag, h.Score, h.Memory.Category, h.Memory.Content)
	}
	return b.String()
}
