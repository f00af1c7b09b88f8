// Package graph wires the knowledge-graph tool surface (add_entity/
// add_relationship/query_neighborhood/search_entities/get_entities)
// onto internal/graph's merge rules and the store (C8).
package graph

import (
	"context"
	"fmt"
	"strings"

	"jaybrain/internal/graph"
	"jaybrain/internal/logging"
	"jaybrain/internal/store"
	"jaybrain/internal/tools"
)

var (
	st    *store.Store
	audit *logging.AuditLogger
)

// Init wires the package-level store and audit logger.
func Init(s *store.Store, a *logging.AuditLogger) {
	st = s
	audit = a
}

// AddEntityTool returns a tool that inserts or merges a graph entity.
func AddEntityTool() *tools.Tool {
	return &tools.Tool{
		Name:        "graph_add_entity",
		Description: "Add or merge a knowledge graph entity by (name, entity_type)",
		Category:    tools.CategoryGraph,
		Priority:    80,
		Execute:     executeAddEntity,
		Schema: tools.ToolSchema{
			Required: []string{"name", "entity_type"},
			Properties: map[string]tools.Property{
				"name":        {Type: "string", Description: "Entity name"},
				"entity_type": {Type: "string", Description: "person, project, technology, company, or concept"},
				"description": {Type: "string", Description: "Description"},
				"aliases":     {Type: "array", Description: "Alternate names", Items: &tools.PropertyItems{Type: "string"}},
				"memory_ids":  {Type: "array", Description: "Memories mentioning this entity", Items: &tools.PropertyItems{Type: "string"}},
			},
		},
	}
}

func executeAddEntity(ctx context.Context, args map[string]any) (string, error) {
	name, _ := args["name"].(string)
	entityType, _ := args["entity_type"].(string)
	if name == "" || entityType == "" {
		return "", fmt.Errorf("name and entity_type are required")
	}
	description, _ := args["description"].(string)
	incoming := store.GraphEntity{
		Name:        name,
		EntityType:  entityType,
		Description: description,
		Aliases:     stringSlice(args["aliases"]),
		MemoryIDs:   stringSlice(args["memory_ids"]),
	}

	existing, err := st.GetGraphEntityByNameType(name, entityType)
	if err != nil {
		return "", fmt.Errorf("graph_add_entity: %w", err)
	}

	var result store.GraphEntity
	merged := false
	if existing == nil {
		result, err = st.InsertGraphEntity(incoming)
	} else {
		result = graph.MergeEntity(*existing, incoming)
		err = st.ReplaceGraphEntity(result)
		merged = true
	}
	if err != nil {
		return "", fmt.Errorf("graph_add_entity: %w", err)
	}

	if audit != nil {
		audit.Log(logging.AuditEvent{EventType: logging.AuditGraphEntityUpsert, Category: "graph", Target: result.ID, Success: true})
	}
	if merged {
		return fmt.Sprintf("Merged entity %s (%s)", result.Name, result.ID), nil
	}
	return fmt.Sprintf("Added entity %s (%s)", result.Name, result.ID), nil
}

// AddRelationshipTool returns a tool that inserts or merges a graph edge.
func AddRelationshipTool() *tools.Tool {
	return &tools.Tool{
		Name:        "graph_add_relationship",
		Description: "Add or merge a weighted relationship between two graph entities",
		Category:    tools.CategoryGraph,
		Priority:    80,
		Execute:     executeAddRelationship,
		Schema: tools.ToolSchema{
			Required: []string{"source_entity_id", "target_entity_id", "rel_type"},
			Properties: map[string]tools.Property{
				"source_entity_id": {Type: "string", Description: "Source entity id"},
				"target_entity_id": {Type: "string", Description: "Target entity id"},
				"rel_type":         {Type: "string", Description: "Relationship type, e.g. works_with, uses, reports_to"},
				"weight":           {Type: "number", Description: "Optional weight in [0,1]; overwrites the stored weight on merge, defaults to 1.0 on create"},
				"evidence_ids":     {Type: "array", Description: "Memory or knowledge ids supporting this edge", Items: &tools.PropertyItems{Type: "string"}},
			},
		},
	}
}

func executeAddRelationship(ctx context.Context, args map[string]any) (string, error) {
	sourceID, _ := args["source_entity_id"].(string)
	targetID, _ := args["target_entity_id"].(string)
	relType, _ := args["rel_type"].(string)
	if sourceID == "" || targetID == "" || relType == "" {
		return "", fmt.Errorf("source_entity_id, target_entity_id, and rel_type are required")
	}
	weight, _ := args["weight"].(float64)
	incoming := store.GraphRelationship{
		SourceEntityID: sourceID,
		TargetEntityID: targetID,
		RelType:        relType,
		Weight:         weight,
		EvidenceIDs:    stringSlice(args["evidence_ids"]),
	}

	existing, err := st.GetGraphRelationship(sourceID, targetID, relType)
	if err != nil {
		return "", fmt.Errorf("graph_add_relationship: %w", err)
	}

	var result store.GraphRelationship
	if existing == nil {
		result, err = st.InsertGraphRelationship(incoming)
	} else {
		result = graph.MergeRelationship(*existing, incoming)
		err = st.ReplaceGraphRelationship(result)
	}
	if err != nil {
		return "", fmt.Errorf("graph_add_relationship: %w", err)
	}

	if audit != nil {
		audit.Log(logging.AuditEvent{EventType: logging.AuditGraphRelationshipUpsert, Category: "graph", Target: result.ID, Success: true})
	}
	return fmt.Sprintf("Linked %s -[%s]-> %s (weight=%.2f)", sourceID, relType, targetID, result.Weight), nil
}

// QueryNeighborhoodTool returns a tool that BFS-traverses an entity's
// neighborhood out to a bounded depth.
func QueryNeighborhoodTool() *tools.Tool {
	return &tools.Tool{
		Name:        "graph_query_neighborhood",
		Description: "BFS an entity's neighborhood out to a bounded depth, returning every entity and relationship touched",
		Category:    tools.CategoryGraph,
		Priority:    70,
		Execute:     executeQueryNeighborhood,
		Schema: tools.ToolSchema{
			Required: []string{"entity_id"},
			Properties: map[string]tools.Property{
				"entity_id":   {Type: "string", Description: "The center entity id"},
				"depth":       {Type: "integer", Description: "Hops from center, capped at 5, default 2", Default: graph.DefaultNeighborhoodDepth},
				"entity_type": {Type: "string", Description: "Optional entity type filter applied to the non-center entities returned"},
			},
		},
	}
}

func executeQueryNeighborhood(ctx context.Context, args map[string]any) (string, error) {
	entityID, _ := args["entity_id"].(string)
	if entityID == "" {
		return "", fmt.Errorf("entity_id is required")
	}
	depth := intArg(args["depth"], graph.DefaultNeighborhoodDepth)
	entityType, _ := args["entity_type"].(string)

	center, err := st.GetGraphEntity(entityID)
	if err != nil {
		return "", fmt.Errorf("graph_query_neighborhood: %w", err)
	}
	if center == nil {
		return "", fmt.Errorf("graph_query_neighborhood: entity not found: %s", entityID)
	}

	n, err := graph.BuildNeighborhood(st, *center, depth, entityType)
	if err != nil {
		return "", fmt.Errorf("graph_query_neighborhood: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Center: %s (%s)\nDepth: %d  Entities: %d  Relationships: %d\n",
		n.Center.Name, n.Center.ID, n.Depth, n.EntityCount, n.RelationshipCount)
	for _, e := range n.Entities {
		fmt.Fprintf(&b, "  entity [%s] %s (%s)\n", e.ID, e.Name, e.EntityType)
	}
	for _, r := range n.Relationships {
		fmt.Fprintf(&b, "  %s -[%s w=%.2f]-> %s\n", r.SourceEntityID, r.RelType, r.Weight, r.TargetEntityID)
	}
	return b.String(), nil
}

// SearchEntitiesTool returns a tool that substring-searches entities.
func SearchEntitiesTool() *tools.Tool {
	return &tools.Tool{
		Name:        "graph_search_entities",
		Description: "Search graph entities by name, description, or alias substring",
		Category:    tools.CategoryGraph,
		Priority:    70,
		Execute:     executeSearchEntities,
		Schema: tools.ToolSchema{
			Required: []string{"query"},
			Properties: map[string]tools.Property{
				"query":       {Type: "string", Description: "Search text"},
				"entity_type": {Type: "string", Description: "Optional entity type filter"},
				"limit":       {Type: "integer", Description: "Max results, default 20", Default: 20},
			},
		},
	}
}

func executeSearchEntities(ctx context.Context, args map[string]any) (string, error) {
	query, _ := args["query"].(string)
	if query == "" {
		return "", fmt.Errorf("query is required")
	}
	entityType, _ := args["entity_type"].(string)
	limit := intArg(args["limit"], 20)

	entities, err := st.SearchGraphEntities(query, entityType, limit)
	if err != nil {
		return "", fmt.Errorf("graph_search_entities: %w", err)
	}
	return formatEntities(entities), nil
}

// GetEntitiesTool returns a tool that lists entities, optionally by type.
func GetEntitiesTool() *tools.Tool {
	return &tools.Tool{
		Name:        "graph_get_entities",
		Description: "List graph entities, most recently updated first",
		Category:    tools.CategoryGraph,
		Priority:    60,
		Execute:     executeGetEntities,
		Schema: tools.ToolSchema{
			Properties: map[string]tools.Property{
				"entity_type": {Type: "string", Description: "Optional entity type filter"},
				"limit":       {Type: "integer", Description: "Max results, default 50", Default: 50},
			},
		},
	}
}

func executeGetEntities(ctx context.Context, args map[string]any) (string, error) {
	entityType, _ := args["entity_type"].(string)
	limit := intArg(args["limit"], 50)

	entities, err := st.ListGraphEntities(entityType, limit)
	if err != nil {
		return "", fmt.Errorf("graph_get_entities: %w", err)
	}
	return formatEntities(entities), nil
}

func formatEntities(entities []store.GraphEntity) string {
	if len(entities) == 0 {
		return "No entities found"
	}
	var b strings.Builder
	for _, e := range entities {
		fmt.Fprintf(&b, "[%s] %s (%s): %s\n", e.ID, e.Name, e.EntityType, e.Description)
	}
	return b.String()
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
