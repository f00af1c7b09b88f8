package store

import "database/sql"

// InsertTrashEntry records a soft-deleted filesystem object.
func (s *Store) InsertTrashEntry(e TrashManifestEntry) (TrashManifestEntry, error) {
	if e.ID == "" {
		e.ID = newID()
	}
	if e.Category == "" {
		e.Category = "general"
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now()
	}
	_, err := s.db.Exec(
		`INSERT INTO trash_manifest (id, original_path, trash_path, category, size_bytes, sha256, is_dir, reason, auto, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.OriginalPath, e.TrashPath, e.Category, e.SizeBytes, e.SHA256, e.IsDir, e.Reason, e.Auto,
		e.CreatedAt, e.ExpiresAt,
	)
	return e, err
}

// ExpiredTrashEntries returns entries whose retention window has
// elapsed, for the trash job's sweep_expired pass.
func (s *Store) ExpiredTrashEntries() ([]TrashManifestEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, original_path, trash_path, category, size_bytes, sha256, is_dir, reason, auto, created_at, expires_at
		 FROM trash_manifest WHERE expires_at <= ?`, now(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTrashEntries(rows)
}

// ListTrashEntries returns every manifest row, optionally filtered by
// category.
func (s *Store) ListTrashEntries(category string) ([]TrashManifestEntry, error) {
	var rows *sql.Rows
	var err error
	if category != "" {
		rows, err = s.db.Query(
			`SELECT id, original_path, trash_path, category, size_bytes, sha256, is_dir, reason, auto, created_at, expires_at
			 FROM trash_manifest WHERE category = ? ORDER BY created_at DESC`, category,
		)
	} else {
		rows, err = s.db.Query(
			`SELECT id, original_path, trash_path, category, size_bytes, sha256, is_dir, reason, auto, created_at, expires_at
			 FROM trash_manifest ORDER BY created_at DESC`,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTrashEntries(rows)
}

func scanTrashEntries(rows *sql.Rows) ([]TrashManifestEntry, error) {
	var out []TrashManifestEntry
	for rows.Next() {
		var e TrashManifestEntry
		if err := rows.Scan(&e.ID, &e.OriginalPath, &e.TrashPath, &e.Category, &e.SizeBytes, &e.SHA256,
			&e.IsDir, &e.Reason, &e.Auto, &e.CreatedAt, &e.ExpiresAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteTrashEntry removes a manifest row once its file has actually
// been purged from disk.
func (s *Store) DeleteTrashEntry(id string) error {
	_, err := s.db.Exec(`DELETE FROM trash_manifest WHERE id = ?`, id)
	return err
}
