package store

import (
	"database/sql"
	"encoding/json"
)

// GetGraphEntityByNameType is the merge-on-conflict lookup: internal/graph
// calls this before deciding whether add_entity should insert or merge.
func (s *Store) GetGraphEntityByNameType(name, entityType string) (*GraphEntity, error) {
	row := s.db.QueryRow(
		`SELECT id, name, entity_type, description, aliases, memory_ids, properties, created_at, updated_at
		 FROM graph_entities WHERE name = ? AND entity_type = ?`, name, entityType,
	)
	return scanGraphEntity(row)
}

// GetGraphEntity fetches one entity by id.
func (s *Store) GetGraphEntity(id string) (*GraphEntity, error) {
	row := s.db.QueryRow(
		`SELECT id, name, entity_type, description, aliases, memory_ids, properties, created_at, updated_at
		 FROM graph_entities WHERE id = ?`, id,
	)
	return scanGraphEntity(row)
}

func scanGraphEntity(row *sql.Row) (*GraphEntity, error) {
	var e GraphEntity
	var aliasesJSON, memoryIDsJSON, propsJSON string
	err := row.Scan(&e.ID, &e.Name, &e.EntityType, &e.Description, &aliasesJSON, &memoryIDsJSON, &propsJSON,
		&e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(aliasesJSON), &e.Aliases)
	_ = json.Unmarshal([]byte(memoryIDsJSON), &e.MemoryIDs)
	_ = json.Unmarshal([]byte(propsJSON), &e.Properties)
	return &e, nil
}

// InsertGraphEntity creates a brand-new entity row.
func (s *Store) InsertGraphEntity(e GraphEntity) (GraphEntity, error) {
	if e.ID == "" {
		e.ID = newID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now()
	}
	e.UpdatedAt = e.CreatedAt
	aliasesJSON, err := json.Marshal(e.Aliases)
	if err != nil {
		return GraphEntity{}, err
	}
	memoryIDsJSON, err := json.Marshal(e.MemoryIDs)
	if err != nil {
		return GraphEntity{}, err
	}
	if e.Properties == nil {
		e.Properties = map[string]any{}
	}
	propsJSON, err := json.Marshal(e.Properties)
	if err != nil {
		return GraphEntity{}, err
	}
	_, err = s.db.Exec(
		`INSERT INTO graph_entities (id, name, entity_type, description, aliases, memory_ids, properties, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Name, e.EntityType, e.Description, string(aliasesJSON), string(memoryIDsJSON), string(propsJSON),
		e.CreatedAt, e.UpdatedAt,
	)
	return e, err
}

// ReplaceGraphEntity overwrites the mergeable fields of an existing
// entity (used by add_entity's merge path: union aliases/memory_ids,
// overwrite the description when a non-empty one is supplied,
// shallow-merge properties).
func (s *Store) ReplaceGraphEntity(e GraphEntity) error {
	aliasesJSON, err := json.Marshal(e.Aliases)
	if err != nil {
		return err
	}
	memoryIDsJSON, err := json.Marshal(e.MemoryIDs)
	if err != nil {
		return err
	}
	propsJSON, err := json.Marshal(e.Properties)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`UPDATE graph_entities SET description = ?, aliases = ?, memory_ids = ?, properties = ?, updated_at = ?
		 WHERE id = ?`,
		e.Description, string(aliasesJSON), string(memoryIDsJSON), string(propsJSON), now(), e.ID,
	)
	return err
}

// SearchGraphEntities does a case-insensitive substring match against
// name/description/aliases, for search_entities.
func (s *Store) SearchGraphEntities(query string, entityType string, limit int) ([]GraphEntity, error) {
	q := "%" + query + "%"
	sqlQuery := `SELECT id, name, entity_type, description, aliases, memory_ids, properties, created_at, updated_at
		 FROM graph_entities
		 WHERE (name LIKE ? OR description LIKE ? OR aliases LIKE ?)`
	args := []any{q, q, q}
	if entityType != "" {
		sqlQuery += ` AND entity_type = ?`
		args = append(args, entityType)
	}
	sqlQuery += ` ORDER BY updated_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGraphEntities(rows)
}

// ListGraphEntities returns entities, optionally filtered by type.
func (s *Store) ListGraphEntities(entityType string, limit int) ([]GraphEntity, error) {
	var rows *sql.Rows
	var err error
	if entityType != "" {
		rows, err = s.db.Query(
			`SELECT id, name, entity_type, description, aliases, memory_ids, properties, created_at, updated_at
			 FROM graph_entities WHERE entity_type = ? ORDER BY updated_at DESC LIMIT ?`, entityType, limit,
		)
	} else {
		rows, err = s.db.Query(
			`SELECT id, name, entity_type, description, aliases, memory_ids, properties, created_at, updated_at
			 FROM graph_entities ORDER BY updated_at DESC LIMIT ?`, limit,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGraphEntities(rows)
}

func scanGraphEntities(rows *sql.Rows) ([]GraphEntity, error) {
	var out []GraphEntity
	for rows.Next() {
		var e GraphEntity
		var aliasesJSON, memoryIDsJSON, propsJSON string
		if err := rows.Scan(&e.ID, &e.Name, &e.EntityType, &e.Description, &aliasesJSON, &memoryIDsJSON, &propsJSON,
			&e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(aliasesJSON), &e.Aliases)
		_ = json.Unmarshal([]byte(memoryIDsJSON), &e.MemoryIDs)
		_ = json.Unmarshal([]byte(propsJSON), &e.Properties)
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetGraphRelationship looks up the unique (source, target, rel_type)
// edge, for add_relationship's merge-on-conflict check.
func (s *Store) GetGraphRelationship(sourceID, targetID, relType string) (*GraphRelationship, error) {
	row := s.db.QueryRow(
		`SELECT id, source_entity_id, target_entity_id, rel_type, weight, evidence_ids, properties, created_at, updated_at
		 FROM graph_relationships WHERE source_entity_id = ? AND target_entity_id = ? AND rel_type = ?`,
		sourceID, targetID, relType,
	)
	return scanGraphRelationship(row)
}

func scanGraphRelationship(row *sql.Row) (*GraphRelationship, error) {
	var r GraphRelationship
	var evidenceJSON, propsJSON string
	err := row.Scan(&r.ID, &r.SourceEntityID, &r.TargetEntityID, &r.RelType, &r.Weight, &evidenceJSON, &propsJSON,
		&r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(evidenceJSON), &r.EvidenceIDs)
	_ = json.Unmarshal([]byte(propsJSON), &r.Properties)
	return &r, nil
}

// InsertGraphRelationship creates a brand-new edge.
func (s *Store) InsertGraphRelationship(r GraphRelationship) (GraphRelationship, error) {
	if r.ID == "" {
		r.ID = newID()
	}
	if r.Weight == 0 {
		r.Weight = 1.0
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now()
	}
	r.UpdatedAt = r.CreatedAt
	evidenceJSON, err := json.Marshal(r.EvidenceIDs)
	if err != nil {
		return GraphRelationship{}, err
	}
	if r.Properties == nil {
		r.Properties = map[string]any{}
	}
	propsJSON, err := json.Marshal(r.Properties)
	if err != nil {
		return GraphRelationship{}, err
	}
	_, err = s.db.Exec(
		`INSERT INTO graph_relationships (id, source_entity_id, target_entity_id, rel_type, weight, evidence_ids, properties, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.SourceEntityID, r.TargetEntityID, r.RelType, r.Weight, string(evidenceJSON), string(propsJSON),
		r.CreatedAt, r.UpdatedAt,
	)
	return r, err
}

// ReplaceGraphRelationship overwrites the mergeable fields of an
// existing edge (union evidence_ids, overwrite weight when supplied,
// merge properties).
func (s *Store) ReplaceGraphRelationship(r GraphRelationship) error {
	evidenceJSON, err := json.Marshal(r.EvidenceIDs)
	if err != nil {
		return err
	}
	propsJSON, err := json.Marshal(r.Properties)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`UPDATE graph_relationships SET weight = ?, evidence_ids = ?, properties = ?, updated_at = ? WHERE id = ?`,
		r.Weight, string(evidenceJSON), string(propsJSON), now(), r.ID,
	)
	return err
}

// Neighborhood returns every relationship touching entityID in either
// direction, strongest first. internal/graph.BuildNeighborhood calls
// this once per BFS frontier entity to expand query_neighborhood.
func (s *Store) Neighborhood(entityID string, limit int) ([]GraphRelationship, error) {
	rows, err := s.db.Query(
		`SELECT id, source_entity_id, target_entity_id, rel_type, weight, evidence_ids, properties, created_at, updated_at
		 FROM graph_relationships
		 WHERE source_entity_id = ? OR target_entity_id = ?
		 ORDER BY weight DESC LIMIT ?`,
		entityID, entityID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GraphRelationship
	for rows.Next() {
		var r GraphRelationship
		var evidenceJSON, propsJSON string
		if err := rows.Scan(&r.ID, &r.SourceEntityID, &r.TargetEntityID, &r.RelType, &r.Weight, &evidenceJSON, &propsJSON,
			&r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(evidenceJSON), &r.EvidenceIDs)
		_ = json.Unmarshal([]byte(propsJSON), &r.Properties)
		out = append(out, r)
	}
	return out, rows.Err()
}
