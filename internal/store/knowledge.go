package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// CreateKnowledge inserts a knowledge row with an optional embedding.
func (s *Store) CreateKnowledge(k Knowledge, embedding []float32) (Knowledge, error) {
	if k.ID == "" {
		k.ID = newID()
	}
	if k.CreatedAt.IsZero() {
		k.CreatedAt = now()
	}
	k.UpdatedAt = k.CreatedAt
	tagsJSON, err := json.Marshal(k.Tags)
	if err != nil {
		return Knowledge{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return Knowledge{}, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO knowledge (id, title, content, category, tags, source, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		k.ID, k.Title, k.Content, k.Category, string(tagsJSON), k.Source, k.CreatedAt, k.UpdatedAt,
	)
	if err != nil {
		return Knowledge{}, fmt.Errorf("insert knowledge: %w", err)
	}

	if embedding != nil {
		blob, err := EncodeEmbedding(embedding)
		if err != nil {
			return Knowledge{}, err
		}
		_, err = tx.Exec(
			`INSERT INTO knowledge_vec (id, embedding, content_hash) VALUES (?, ?, ?)`,
			k.ID, blob, ContentHash(k.Content),
		)
		if err != nil {
			return Knowledge{}, fmt.Errorf("insert knowledge vector: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Knowledge{}, err
	}
	return k, nil
}

// GetKnowledge fetches one entry by id, or nil if not found.
func (s *Store) GetKnowledge(id string) (*Knowledge, error) {
	row := s.db.QueryRow(
		`SELECT id, title, content, category, tags, source, created_at, updated_at
		 FROM knowledge WHERE id = ?`, id,
	)
	var k Knowledge
	var tagsJSON string
	err := row.Scan(&k.ID, &k.Title, &k.Content, &k.Category, &tagsJSON, &k.Source, &k.CreatedAt, &k.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(tagsJSON), &k.Tags)
	return &k, nil
}

// KnowledgeVectorKNN returns the K nearest knowledge entries to query.
func (s *Store) KnowledgeVectorKNN(query []float32, k int) ([]VecHit, error) {
	rows, err := s.db.Query(`SELECT id, embedding FROM knowledge_vec`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var knn []knnRow
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, err
		}
		vec, err := DecodeEmbedding(blob)
		if err != nil {
			continue
		}
		knn = append(knn, knnRow{id: id, vec: vec})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bruteForceKNN(knn, query, k), nil
}

// RecentKnowledge lists knowledge entries newest-first, for vault
// sync's markdown mirror.
func (s *Store) RecentKnowledge(limit int) ([]Knowledge, error) {
	rows, err := s.db.Query(
		`SELECT id, title, content, category, tags, source, created_at, updated_at
		 FROM knowledge ORDER BY updated_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Knowledge
	for rows.Next() {
		var k Knowledge
		var tagsJSON string
		if err := rows.Scan(&k.ID, &k.Title, &k.Content, &k.Category, &tagsJSON, &k.Source,
			&k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(tagsJSON), &k.Tags)
		out = append(out, k)
	}
	return out, rows.Err()
}

// KnowledgeKeywordSearch runs the sanitised-token substring search over
// knowledge title+content.
func (s *Store) KnowledgeKeywordSearch(query string, limit int) ([]KeywordHit, error) {
	sanitized := SanitizeKeywordQuery(query)
	if sanitized == "" {
		return nil, nil
	}
	rows, err := s.db.Query(`SELECT id, title || ' ' || content FROM knowledge`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var texts []struct {
		ID   string
		Text string
	}
	for rows.Next() {
		var r struct {
			ID   string
			Text string
		}
		if err := rows.Scan(&r.ID, &r.Text); err != nil {
			return nil, err
		}
		texts = append(texts, r)
	}
	return keywordSearchLike(texts, sanitized, limit), rows.Err()
}

// UpdateKnowledge overwrites title/content/category/tags/source and
// re-embeds if a fresh vector is supplied (nil leaves the existing
// vector row untouched).
func (s *Store) UpdateKnowledge(k Knowledge, embedding []float32) error {
	tagsJSON, err := json.Marshal(k.Tags)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`UPDATE knowledge SET title = ?, content = ?, category = ?, tags = ?, source = ?, updated_at = ?
		 WHERE id = ?`,
		k.Title, k.Content, k.Category, string(tagsJSON), k.Source, now(), k.ID,
	)
	if err != nil {
		return fmt.Errorf("update knowledge: %w", err)
	}

	if embedding != nil {
		blob, err := EncodeEmbedding(embedding)
		if err != nil {
			return err
		}
		_, err = tx.Exec(
			`INSERT INTO knowledge_vec (id, embedding, content_hash) VALUES (?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET embedding = excluded.embedding, content_hash = excluded.content_hash`,
			k.ID, blob, ContentHash(k.Content),
		)
		if err != nil {
			return fmt.Errorf("update knowledge vector: %w", err)
		}
	}

	return tx.Commit()
}

// DeleteKnowledge removes an entry and its vector row.
func (s *Store) DeleteKnowledge(id string) error {
	if _, err := s.db.Exec(`DELETE FROM knowledge_vec WHERE id = ?`, id); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM knowledge WHERE id = ?`, id)
	return err
}
