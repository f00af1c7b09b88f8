package store

import (
	"database/sql"
	"encoding/json"
	"time"
)

// CreateForgeSubject inserts a new study subject/track.
func (s *Store) CreateForgeSubject(sub ForgeSubject) (ForgeSubject, error) {
	if sub.ID == "" {
		sub.ID = newID()
	}
	if sub.PassScore == 0 {
		sub.PassScore = 0.8
	}
	metaJSON, err := json.Marshal(sub.Meta)
	if err != nil {
		return ForgeSubject{}, err
	}
	_, err = s.db.Exec(
		`INSERT INTO forge_subjects (id, name, pass_score, meta) VALUES (?, ?, ?, ?)`,
		sub.ID, sub.Name, sub.PassScore, string(metaJSON),
	)
	return sub, err
}

// CreateForgeObjective inserts a syllabus slot under a subject.
func (s *Store) CreateForgeObjective(o ForgeObjective) (ForgeObjective, error) {
	if o.ID == "" {
		o.ID = newID()
	}
	_, err := s.db.Exec(
		`INSERT INTO forge_objectives (id, subject_id, code, title, domain, exam_weight) VALUES (?, ?, ?, ?, ?, ?)`,
		o.ID, o.SubjectID, o.Code, o.Title, o.Domain, o.ExamWeight,
	)
	return o, err
}

// CreateForgeConcept inserts a study concept and links it to any named
// objectives via forge_concept_objectives.
func (s *Store) CreateForgeConcept(c ForgeConcept) (ForgeConcept, error) {
	if c.ID == "" {
		c.ID = newID()
	}
	if c.Difficulty == "" {
		c.Difficulty = DifficultyBeginner
	}
	if c.BloomLevel == "" {
		c.BloomLevel = BloomRemember
	}
	tagsJSON, err := json.Marshal(c.Tags)
	if err != nil {
		return ForgeConcept{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return ForgeConcept{}, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO forge_concepts (id, term, definition, category, difficulty, bloom_level, mastery_level,
			review_count, correct_count, last_reviewed, next_review, tags, subject_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Term, c.Definition, c.Category, c.Difficulty, c.BloomLevel, c.MasteryLevel,
		c.ReviewCount, c.CorrectCount, c.LastReviewed, c.NextReview, string(tagsJSON), c.SubjectID,
	)
	if err != nil {
		return ForgeConcept{}, err
	}

	for _, objID := range c.ObjectiveIDs {
		_, err := tx.Exec(
			`INSERT OR IGNORE INTO forge_concept_objectives (concept_id, objective_id) VALUES (?, ?)`,
			c.ID, objID,
		)
		if err != nil {
			return ForgeConcept{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return ForgeConcept{}, err
	}
	return c, nil
}

// GetForgeConcept fetches one concept, including its objective links.
func (s *Store) GetForgeConcept(id string) (*ForgeConcept, error) {
	row := s.db.QueryRow(
		`SELECT id, term, definition, category, difficulty, bloom_level, mastery_level,
			review_count, correct_count, last_reviewed, next_review, tags, subject_id
		 FROM forge_concepts WHERE id = ?`, id,
	)
	c, err := scanForgeConcept(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	objRows, err := s.db.Query(`SELECT objective_id FROM forge_concept_objectives WHERE concept_id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer objRows.Close()
	for objRows.Next() {
		var objID string
		if err := objRows.Scan(&objID); err != nil {
			return nil, err
		}
		c.ObjectiveIDs = append(c.ObjectiveIDs, objID)
	}
	return c, objRows.Err()
}

func scanForgeConcept(row *sql.Row) (*ForgeConcept, error) {
	var c ForgeConcept
	var tagsJSON string
	var lastReviewed, nextReview sql.NullTime
	var subjectID sql.NullString
	err := row.Scan(&c.ID, &c.Term, &c.Definition, &c.Category, &c.Difficulty, &c.BloomLevel, &c.MasteryLevel,
		&c.ReviewCount, &c.CorrectCount, &lastReviewed, &nextReview, &tagsJSON, &subjectID)
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(tagsJSON), &c.Tags)
	if lastReviewed.Valid {
		c.LastReviewed = &lastReviewed.Time
	}
	if nextReview.Valid {
		c.NextReview = &nextReview.Time
	}
	if subjectID.Valid {
		c.SubjectID = subjectID.String
	}
	return &c, nil
}

// DueForgeConcepts returns concepts whose next_review has passed (or
// is unset), ordered soonest-due first. This backs the v1/v2 study
// queue builders in internal/forge.
func (s *Store) DueForgeConcepts(subjectID string, limit int) ([]ForgeConcept, error) {
	query := `SELECT id, term, definition, category, difficulty, bloom_level, mastery_level,
			review_count, correct_count, last_reviewed, next_review, tags, subject_id
		 FROM forge_concepts
		 WHERE (next_review IS NULL OR next_review <= ?)`
	args := []any{now()}
	if subjectID != "" {
		query += ` AND subject_id = ?`
		args = append(args, subjectID)
	}
	query += ` ORDER BY next_review IS NOT NULL, next_review ASC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ForgeConcept
	for rows.Next() {
		var c ForgeConcept
		var tagsJSON string
		var lastReviewed, nextReview sql.NullTime
		var subID sql.NullString
		if err := rows.Scan(&c.ID, &c.Term, &c.Definition, &c.Category, &c.Difficulty, &c.BloomLevel, &c.MasteryLevel,
			&c.ReviewCount, &c.CorrectCount, &lastReviewed, &nextReview, &tagsJSON, &subID); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(tagsJSON), &c.Tags)
		if lastReviewed.Valid {
			c.LastReviewed = &lastReviewed.Time
		}
		if nextReview.Valid {
			c.NextReview = &nextReview.Time
		}
		if subID.Valid {
			c.SubjectID = subID.String
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// RecordForgeReview inserts a review event and updates the concept's
// mastery fields. The scoring/interval math lives in internal/forge;
// this just persists whatever it computes.
func (s *Store) RecordForgeReview(r ForgeReview, newMastery float64, nextReview *time.Time) error {
	if r.ID == "" {
		r.ID = newID()
	}
	if r.ReviewedAt.IsZero() {
		r.ReviewedAt = now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var wasCorrect any
	if r.WasCorrect != nil {
		wasCorrect = *r.WasCorrect
	}
	_, err = tx.Exec(
		`INSERT INTO forge_reviews (id, concept_id, outcome, confidence, was_correct, notes, subject_id, reviewed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.ConceptID, r.Outcome, r.Confidence, wasCorrect, r.Notes, r.SubjectID, r.ReviewedAt,
	)
	if err != nil {
		return err
	}

	correctDelta := 0
	if r.WasCorrect != nil && *r.WasCorrect {
		correctDelta = 1
	}
	_, err = tx.Exec(
		`UPDATE forge_concepts
		 SET mastery_level = ?, review_count = review_count + 1, correct_count = correct_count + ?,
		     last_reviewed = ?, next_review = ?
		 WHERE id = ?`,
		newMastery, correctDelta, r.ReviewedAt, nextReview, r.ConceptID,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// RecordForgeErrorPattern tags a review as a particular error type
// (slip/lapse/mistake/misconception) for later analysis.
func (s *Store) RecordForgeErrorPattern(p ForgeErrorPattern) error {
	if p.ID == "" {
		p.ID = newID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now()
	}
	_, err := s.db.Exec(
		`INSERT INTO forge_error_patterns (id, concept_id, review_id, error_type, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.ConceptID, p.ReviewID, p.ErrorType, p.CreatedAt,
	)
	return err
}

// ForgeErrorPatternCounts aggregates error_type frequency for the
// error-analysis report.
func (s *Store) ForgeErrorPatternCounts() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT error_type, COUNT(*) FROM forge_error_patterns GROUP BY error_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		out[t] = n
	}
	return out, rows.Err()
}

// BumpForgeStreak increments today's activity roll-up, inserting the
// row if this is the first event of the day.
func (s *Store) BumpForgeStreak(date string, reviewed, added, seconds int) error {
	_, err := s.db.Exec(
		`INSERT INTO forge_streaks (date, concepts_reviewed, concepts_added, time_spent_seconds)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(date) DO UPDATE SET
			concepts_reviewed = concepts_reviewed + excluded.concepts_reviewed,
			concepts_added = concepts_added + excluded.concepts_added,
			time_spent_seconds = time_spent_seconds + excluded.time_spent_seconds`,
		date, reviewed, added, seconds,
	)
	return err
}

// ForgeStreakDates returns every date (YYYY-MM-DD) with at least one
// review, most recent first, for the streak calculator.
func (s *Store) ForgeStreakDates() ([]string, error) {
	rows, err := s.db.Query(`SELECT date FROM forge_streaks WHERE concepts_reviewed > 0 ORDER BY date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CountForgeConcepts returns the total concept count, optionally
// scoped to one subject, for readiness/calibration reports.
func (s *Store) CountForgeConcepts(subjectID string) (int, error) {
	var n int
	var err error
	if subjectID != "" {
		err = s.db.QueryRow(`SELECT COUNT(*) FROM forge_concepts WHERE subject_id = ?`, subjectID).Scan(&n)
	} else {
		err = s.db.QueryRow(`SELECT COUNT(*) FROM forge_concepts`).Scan(&n)
	}
	return n, err
}

// AllForgeConcepts returns every concept regardless of due date,
// needed by callers (heartbeat checks, the v1 study queue) that must
// scan for struggling/up_next concepts whose next_review may be unset
// or in the future.
func (s *Store) AllForgeConcepts() ([]ForgeConcept, error) {
	rows, err := s.db.Query(
		`SELECT id, term, definition, category, difficulty, bloom_level, mastery_level,
			review_count, correct_count, last_reviewed, next_review, tags, subject_id
		 FROM forge_concepts`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ForgeConcept
	for rows.Next() {
		var c ForgeConcept
		var tagsJSON string
		var lastReviewed, nextReview sql.NullTime
		var subID sql.NullString
		if err := rows.Scan(&c.ID, &c.Term, &c.Definition, &c.Category, &c.Difficulty, &c.BloomLevel, &c.MasteryLevel,
			&c.ReviewCount, &c.CorrectCount, &lastReviewed, &nextReview, &tagsJSON, &subID); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(tagsJSON), &c.Tags)
		if lastReviewed.Valid {
			c.LastReviewed = &lastReviewed.Time
		}
		if nextReview.Valid {
			c.NextReview = &nextReview.Time
		}
		if subID.Valid {
			c.SubjectID = subID.String
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListForgeObjectives returns the syllabus objectives for a subject,
// for readiness roll-ups and the v2 interleaved queue.
func (s *Store) ListForgeObjectives(subjectID string) ([]ForgeObjective, error) {
	rows, err := s.db.Query(
		`SELECT id, subject_id, code, title, domain, exam_weight FROM forge_objectives WHERE subject_id = ?`,
		subjectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ForgeObjective
	for rows.Next() {
		var o ForgeObjective
		if err := rows.Scan(&o.ID, &o.SubjectID, &o.Code, &o.Title, &o.Domain, &o.ExamWeight); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// AllForgeReviews returns every recorded review, for the calibration
// report. Reviews accumulate slowly enough that no pagination is
// needed yet.
func (s *Store) AllForgeReviews() ([]ForgeReview, error) {
	rows, err := s.db.Query(
		`SELECT id, concept_id, outcome, confidence, was_correct, notes, subject_id, reviewed_at FROM forge_reviews`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ForgeReview
	for rows.Next() {
		var r ForgeReview
		var wasCorrect sql.NullBool
		var subjectID sql.NullString
		if err := rows.Scan(&r.ID, &r.ConceptID, &r.Outcome, &r.Confidence, &wasCorrect, &r.Notes, &subjectID, &r.ReviewedAt); err != nil {
			return nil, err
		}
		if wasCorrect.Valid {
			v := wasCorrect.Bool
			r.WasCorrect = &v
		}
		if subjectID.Valid {
			r.SubjectID = subjectID.String
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
