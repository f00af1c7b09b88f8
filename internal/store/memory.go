package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

func newID() string {
	return uuid.New().String()[:12]
}

// CreateMemory inserts a memory row and its co-resident vector row (if
// embedding is non-nil). A live memory has at most one vector row.
func (s *Store) CreateMemory(m Memory, embedding []float32) (Memory, error) {
	if m.ID == "" {
		m.ID = newID()
	}
	if m.Importance < 0 {
		m.Importance = 0
	}
	if m.Importance > 1 {
		m.Importance = 1
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now()
	}
	tagsJSON, err := json.Marshal(m.Tags)
	if err != nil {
		return Memory{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return Memory{}, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO memories (id, content, category, tags, importance, created_at, session_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Content, m.Category, string(tagsJSON), m.Importance, m.CreatedAt, m.SessionID,
	)
	if err != nil {
		return Memory{}, fmt.Errorf("insert memory: %w", err)
	}

	if embedding != nil {
		blob, err := EncodeEmbedding(embedding)
		if err != nil {
			return Memory{}, err
		}
		_, err = tx.Exec(
			`INSERT INTO memory_vec (id, embedding, content_hash) VALUES (?, ?, ?)`,
			m.ID, blob, ContentHash(m.Content),
		)
		if err != nil {
			return Memory{}, fmt.Errorf("insert memory vector: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Memory{}, err
	}
	return m, nil
}

// GetMemory fetches one memory by id, or nil if not found.
func (s *Store) GetMemory(id string) (*Memory, error) {
	row := s.db.QueryRow(
		`SELECT id, content, category, tags, importance, created_at, last_accessed, access_count, session_id
		 FROM memories WHERE id = ?`, id,
	)
	m, err := scanMemory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return m, err
}

func scanMemory(row *sql.Row) (*Memory, error) {
	var m Memory
	var tagsJSON string
	var lastAccessed sql.NullTime
	var sessionID sql.NullString
	err := row.Scan(&m.ID, &m.Content, &m.Category, &tagsJSON, &m.Importance,
		&m.CreatedAt, &lastAccessed, &m.AccessCount, &sessionID)
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(tagsJSON), &m.Tags)
	if lastAccessed.Valid {
		m.LastAccessed = &lastAccessed.Time
	}
	if sessionID.Valid {
		m.SessionID = sessionID.String
	}
	return &m, nil
}

// TouchMemory bumps access_count and last_accessed, resetting the decay
// clock used by internal/retrieval.
func (s *Store) TouchMemory(id string) error {
	_, err := s.db.Exec(
		`UPDATE memories SET access_count = access_count + 1, last_accessed = ? WHERE id = ?`,
		now(), id,
	)
	return err
}

// ArchiveMemory copies a memory into memory_archive and removes it
// (and its vector row) from the live tables, within one transaction.
func (s *Store) ArchiveMemory(id, reason string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	row := tx.QueryRow(
		`SELECT id, content, category, tags, importance, created_at, last_accessed, access_count, session_id
		 FROM memories WHERE id = ?`, id,
	)
	var m Memory
	var tagsJSON string
	var lastAccessed sql.NullTime
	var sessionID sql.NullString
	if err := row.Scan(&m.ID, &m.Content, &m.Category, &tagsJSON, &m.Importance,
		&m.CreatedAt, &lastAccessed, &m.AccessCount, &sessionID); err != nil {
		return err
	}

	_, err = tx.Exec(
		`INSERT INTO memory_archive (id, content, category, tags, importance, created_at, last_accessed, access_count, session_id, archived_at, archive_reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Content, m.Category, tagsJSON, m.Importance, m.CreatedAt, lastAccessed, m.AccessCount, sessionID, now(), reason,
	)
	if err != nil {
		return fmt.Errorf("insert memory_archive: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM memory_vec WHERE id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM memories WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteMemory hard-deletes without archiving (used by `forget`).
func (s *Store) DeleteMemory(id string) error {
	if _, err := s.db.Exec(`DELETE FROM memory_vec WHERE id = ?`, id); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM memories WHERE id = ?`, id)
	return err
}

// memoryVectorRows loads every memory with a vector row, for the
// brute-force K-NN scan in internal/retrieval.
func (s *Store) memoryVectorRows() ([]knnRow, error) {
	rows, err := s.db.Query(`SELECT id, embedding FROM memory_vec`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []knnRow
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
		out = append(out, knnRow{id: id, vec: vec})
	}
	return out, rows.Err()
}

// MemoryVectorKNN returns the K nearest memories to query by cosine
// distance.
func (s *Store) MemoryVectorKNN(query []float32, k int) ([]VecHit, error) {
	rows, err := s.memoryVectorRows()
	if err != nil {
		return nil, err
	}
	return bruteForceKNN(rows, query, k), nil
}

// MemoryKeywordSearch runs the sanitised-token substring search over
// memory content.
func (s *Store) MemoryKeywordSearch(query string, limit int) ([]KeywordHit, error) {
	sanitized := SanitizeKeywordQuery(query)
	if sanitized == "" {
		return nil, nil
	}
	rows, err := s.db.Query(`SELECT id, content FROM memories`)
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

// RecentMemories lists live memories newest-first, for vault sync's
// markdown mirror.
func (s *Store) RecentMemories(limit int) ([]Memory, error) {
	rows, err := s.db.Query(
		`SELECT id, content, category, tags, importance, created_at, last_accessed, access_count, session_id
		 FROM memories ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Memory
	for rows.Next() {
		var m Memory
		var tagsJSON string
		var lastAccessed sql.NullTime
		var sessionID sql.NullString
		if err := rows.Scan(&m.ID, &m.Content, &m.Category, &tagsJSON, &m.Importance,
			&m.CreatedAt, &lastAccessed, &m.AccessCount, &sessionID); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(tagsJSON), &m.Tags)
		if lastAccessed.Valid {
			m.LastAccessed = &lastAccessed.Time
		}
		if sessionID.Valid {
			m.SessionID = sessionID.String
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListMemoriesByIDs loads memories in bulk, preserving no particular
// order (callers reorder by fused score).
func (s *Store) ListMemoriesByIDs(ids []string) (map[string]Memory, error) {
	out := make(map[string]Memory, len(ids))
	for _, id := range ids {
		m, err := s.GetMemory(id)
		if err != nil {
			return nil, err
		}
		if m != nil {
			out[id] = *m
		}
	}
	return out, nil
}

// ArchivedMemoryKeywordSearch runs the sanitised-token substring search
// over memory_archive content, the include_archived counterpart to
// MemoryKeywordSearch.
func (s *Store) ArchivedMemoryKeywordSearch(query string, limit int) ([]KeywordHit, error) {
	sanitized := SanitizeKeywordQuery(query)
	if sanitized == "" {
		return nil, nil
	}
	rows, err := s.db.Query(`SELECT id, content FROM memory_archive`)
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

// GetArchivedMemory fetches one archived memory by id, or nil if not found.
func (s *Store) GetArchivedMemory(id string) (*MemoryArchive, error) {
	row := s.db.QueryRow(
		`SELECT id, content, category, tags, importance, created_at, last_accessed, access_count, session_id, archived_at, archive_reason
		 FROM memory_archive WHERE id = ?`, id,
	)
	var m MemoryArchive
	var tagsJSON string
	var lastAccessed sql.NullTime
	var sessionID sql.NullString
	err := row.Scan(&m.ID, &m.Content, &m.Category, &tagsJSON, &m.Importance,
		&m.CreatedAt, &lastAccessed, &m.AccessCount, &sessionID, &m.ArchivedAt, &m.ArchiveReason)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(tagsJSON), &m.Tags)
	if lastAccessed.Valid {
		m.LastAccessed = &lastAccessed.Time
	}
	if sessionID.Valid {
		m.SessionID = sessionID.String
	}
	return &m, nil
}

// ListArchivedMemoriesByIDs loads archived memories in bulk, mirroring
// ListMemoriesByIDs.
func (s *Store) ListArchivedMemoriesByIDs(ids []string) (map[string]MemoryArchive, error) {
	out := make(map[string]MemoryArchive, len(ids))
	for _, id := range ids {
		m, err := s.GetArchivedMemory(id)
		if err != nil {
			return nil, err
		}
		if m != nil {
			out[id] = *m
		}
	}
	return out, nil
}
