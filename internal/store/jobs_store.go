package store

import (
	"database/sql"
	"encoding/json"
)

// CreateJobBoard registers a board for job_board_autofetch to poll.
func (s *Store) CreateJobBoard(b JobBoard) (JobBoard, error) {
	if b.ID == "" {
		b.ID = newID()
	}
	if b.BoardType == "" {
		b.BoardType = "general"
	}
	b.Active = true
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now()
	}
	b.UpdatedAt = b.CreatedAt
	tagsJSON, err := json.Marshal(b.Tags)
	if err != nil {
		return JobBoard{}, err
	}
	_, err = s.db.Exec(
		`INSERT INTO job_boards (id, name, url, board_type, tags, active, last_checked, content_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Name, b.URL, b.BoardType, string(tagsJSON), b.Active, b.LastChecked, b.ContentHash, b.CreatedAt, b.UpdatedAt,
	)
	return b, err
}

// ListActiveJobBoards returns boards due for a poll.
func (s *Store) ListActiveJobBoards() ([]JobBoard, error) {
	rows, err := s.db.Query(
		`SELECT id, name, url, board_type, tags, active, last_checked, content_hash, created_at, updated_at
		 FROM job_boards WHERE active = 1`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []JobBoard
	for rows.Next() {
		var b JobBoard
		var tagsJSON string
		var lastChecked sql.NullTime
		if err := rows.Scan(&b.ID, &b.Name, &b.URL, &b.BoardType, &tagsJSON, &b.Active, &lastChecked,
			&b.ContentHash, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(tagsJSON), &b.Tags)
		if lastChecked.Valid {
			b.LastChecked = &lastChecked.Time
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// MarkJobBoardChecked records the poll time and the new content hash,
// the change-detection gate ported from job_boards.py.
func (s *Store) MarkJobBoardChecked(id, contentHash string) error {
	_, err := s.db.Exec(
		`UPDATE job_boards SET last_checked = ?, content_hash = ?, updated_at = ? WHERE id = ?`,
		now(), contentHash, now(), id,
	)
	return err
}

// CreateJobPosting inserts a posting scraped from a board.
func (s *Store) CreateJobPosting(p JobPosting) (JobPosting, error) {
	if p.ID == "" {
		p.ID = newID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now()
	}
	reqJSON, err := json.Marshal(p.RequiredSkills)
	if err != nil {
		return JobPosting{}, err
	}
	prefJSON, err := json.Marshal(p.PreferredSkills)
	if err != nil {
		return JobPosting{}, err
	}
	_, err = s.db.Exec(
		`INSERT INTO job_postings (id, board_id, title, company, url, description, required_skills,
			preferred_skills, salary_min, salary_max, work_mode, location, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.BoardID, p.Title, p.Company, p.URL, p.Description, string(reqJSON), string(prefJSON),
		p.SalaryMin, p.SalaryMax, p.WorkMode, p.Location, p.CreatedAt,
	)
	return p, err
}

// GetJobPosting fetches one posting by id.
func (s *Store) GetJobPosting(id string) (*JobPosting, error) {
	row := s.db.QueryRow(
		`SELECT id, board_id, title, company, url, description, required_skills, preferred_skills,
			salary_min, salary_max, work_mode, location, created_at
		 FROM job_postings WHERE id = ?`, id,
	)
	var p JobPosting
	var reqJSON, prefJSON string
	var boardID sql.NullString
	var salaryMin, salaryMax sql.NullInt64
	err := row.Scan(&p.ID, &boardID, &p.Title, &p.Company, &p.URL, &p.Description, &reqJSON, &prefJSON,
		&salaryMin, &salaryMax, &p.WorkMode, &p.Location, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(reqJSON), &p.RequiredSkills)
	_ = json.Unmarshal([]byte(prefJSON), &p.PreferredSkills)
	p.BoardID = boardID.String
	if salaryMin.Valid {
		v := int(salaryMin.Int64)
		p.SalaryMin = &v
	}
	if salaryMax.Valid {
		v := int(salaryMax.Int64)
		p.SalaryMax = &v
	}
	return &p, nil
}

// SearchJobPostings does a keyword search across title/description,
// for jobs_search.
func (s *Store) SearchJobPostings(query string, limit int) ([]JobPosting, error) {
	q := "%" + query + "%"
	rows, err := s.db.Query(
		`SELECT id, board_id, title, company, url, description, required_skills, preferred_skills,
			salary_min, salary_max, work_mode, location, created_at
		 FROM job_postings WHERE title LIKE ? OR description LIKE ? ORDER BY created_at DESC LIMIT ?`,
		q, q, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []JobPosting
	for rows.Next() {
		var p JobPosting
		var reqJSON, prefJSON string
		var boardID sql.NullString
		var salaryMin, salaryMax sql.NullInt64
		if err := rows.Scan(&p.ID, &boardID, &p.Title, &p.Company, &p.URL, &p.Description, &reqJSON, &prefJSON,
			&salaryMin, &salaryMax, &p.WorkMode, &p.Location, &p.CreatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(reqJSON), &p.RequiredSkills)
		_ = json.Unmarshal([]byte(prefJSON), &p.PreferredSkills)
		p.BoardID = boardID.String
		if salaryMin.Valid {
			v := int(salaryMin.Int64)
			p.SalaryMin = &v
		}
		if salaryMax.Valid {
			v := int(salaryMax.Int64)
			p.SalaryMax = &v
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CreateApplication starts tracking a candidate's pursuit of a posting.
func (s *Store) CreateApplication(a Application) (Application, error) {
	if a.ID == "" {
		a.ID = newID()
	}
	if a.Status == "" {
		a.Status = AppDiscovered
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now()
	}
	a.UpdatedAt = a.CreatedAt
	_, err := s.db.Exec(
		`INSERT INTO applications (id, job_posting_id, status, resume_path, cover_letter_path, applied_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.JobPostingID, a.Status, a.ResumePath, a.CoverLetterPath, a.AppliedDate, a.CreatedAt, a.UpdatedAt,
	)
	return a, err
}

// GetApplication fetches one application by id.
func (s *Store) GetApplication(id string) (*Application, error) {
	row := s.db.QueryRow(
		`SELECT id, job_posting_id, status, resume_path, cover_letter_path, applied_date, created_at, updated_at
		 FROM applications WHERE id = ?`, id,
	)
	var a Application
	var appliedDate sql.NullTime
	err := row.Scan(&a.ID, &a.JobPostingID, &a.Status, &a.ResumePath, &a.CoverLetterPath, &appliedDate,
		&a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if appliedDate.Valid {
		a.AppliedDate = &appliedDate.Time
	}
	return &a, nil
}

// ApplicationsByStatus returns applications at a given status, oldest
// first, for the stale_applications heartbeat check.
func (s *Store) ApplicationsByStatus(status string) ([]Application, error) {
	rows, err := s.db.Query(
		`SELECT id, job_posting_id, status, resume_path, cover_letter_path, applied_date, created_at, updated_at
		 FROM applications WHERE status = ? ORDER BY updated_at ASC`, status,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Application
	for rows.Next() {
		var a Application
		var appliedDate sql.NullTime
		if err := rows.Scan(&a.ID, &a.JobPostingID, &a.Status, &a.ResumePath, &a.CoverLetterPath, &appliedDate,
			&a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		if appliedDate.Valid {
			a.AppliedDate = &appliedDate.Time
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateApplicationStatus moves an application to a new status,
// stamping applied_date the first time it reaches AppApplied.
func (s *Store) UpdateApplicationStatus(id, status string) error {
	if status == AppApplied {
		_, err := s.db.Exec(
			`UPDATE applications SET status = ?, applied_date = COALESCE(applied_date, ?), updated_at = ? WHERE id = ?`,
			status, now(), now(), id,
		)
		return err
	}
	_, err := s.db.Exec(
		`UPDATE applications SET status = ?, updated_at = ? WHERE id = ?`,
		status, now(), id,
	)
	return err
}

// CreateInterviewPrep attaches a prep note to an application.
func (s *Store) CreateInterviewPrep(p InterviewPrep) (InterviewPrep, error) {
	if p.ID == "" {
		p.ID = newID()
	}
	if p.PrepType == "" {
		p.PrepType = "general"
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now()
	}
	p.UpdatedAt = p.CreatedAt
	tagsJSON, err := json.Marshal(p.Tags)
	if err != nil {
		return InterviewPrep{}, err
	}
	_, err = s.db.Exec(
		`INSERT INTO interview_prep (id, application_id, prep_type, content, tags, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.ApplicationID, p.PrepType, p.Content, string(tagsJSON), p.CreatedAt, p.UpdatedAt,
	)
	return p, err
}

// InterviewPrepForApplication lists every prep note attached to an
// application, for interview_prep's context aggregation.
func (s *Store) InterviewPrepForApplication(applicationID string) ([]InterviewPrep, error) {
	rows, err := s.db.Query(
		`SELECT id, application_id, prep_type, content, tags, created_at, updated_at
		 FROM interview_prep WHERE application_id = ? ORDER BY created_at ASC`, applicationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []InterviewPrep
	for rows.Next() {
		var p InterviewPrep
		var tagsJSON string
		if err := rows.Scan(&p.ID, &p.ApplicationID, &p.PrepType, &p.Content, &tagsJSON, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(tagsJSON), &p.Tags)
		out = append(out, p)
	}
	return out, rows.Err()
}
