package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// CreateTask inserts a task row with no queue position.
func (s *Store) CreateTask(t Task) (Task, error) {
	if t.ID == "" {
		t.ID = newID()
	}
	if t.Status == "" {
		t.Status = TaskStatusTodo
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	tagsJSON, err := json.Marshal(t.Tags)
	if err != nil {
		return Task{}, err
	}
	_, err = s.db.Exec(
		`INSERT INTO tasks (id, title, description, status, priority, project, tags, due_date, queue_position)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, t.Status, t.Priority, t.Project, string(tagsJSON), t.DueDate, t.QueuePosition,
	)
	if err != nil {
		return Task{}, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

// GetTask fetches one task by id, or nil if not found.
func (s *Store) GetTask(id string) (*Task, error) {
	row := s.db.QueryRow(
		`SELECT id, title, description, status, priority, project, tags, due_date, queue_position
		 FROM tasks WHERE id = ?`, id,
	)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

func scanTask(row *sql.Row) (*Task, error) {
	var t Task
	var tagsJSON string
	var dueDate sql.NullTime
	var queuePos sql.NullInt64
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.Project,
		&tagsJSON, &dueDate, &queuePos)
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(tagsJSON), &t.Tags)
	if dueDate.Valid {
		t.DueDate = &dueDate.Time
	}
	if queuePos.Valid {
		p := int(queuePos.Int64)
		t.QueuePosition = &p
	}
	return &t, nil
}

// ListTasks returns tasks matching an optional status filter, ordered
// by queue_position (nulls last) then created_at.
func (s *Store) ListTasks(status string) ([]Task, error) {
	var rows *sql.Rows
	var err error
	if status != "" {
		rows, err = s.db.Query(
			`SELECT id, title, description, status, priority, project, tags, due_date, queue_position
			 FROM tasks WHERE status = ?
			 ORDER BY queue_position IS NULL, queue_position, created_at`, status,
		)
	} else {
		rows, err = s.db.Query(
			`SELECT id, title, description, status, priority, project, tags, due_date, queue_position
			 FROM tasks ORDER BY queue_position IS NULL, queue_position, created_at`,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		var t Task
		var tagsJSON string
		var dueDate sql.NullTime
		var queuePos sql.NullInt64
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.Project,
			&tagsJSON, &dueDate, &queuePos); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(tagsJSON), &t.Tags)
		if dueDate.Valid {
			t.DueDate = &dueDate.Time
		}
		if queuePos.Valid {
			p := int(queuePos.Int64)
			t.QueuePosition = &p
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// QueuePush inserts a task into the queue at position, shifting every
// task already at or after that position back by one. Positions are
// always a dense 1..N sequence; callers that name a position beyond
// the current queue length just append.
func (s *Store) QueuePush(taskID string, position int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if position < 1 {
		position = 1
	}
	var queued int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM tasks WHERE queue_position IS NOT NULL AND id != ?`, taskID).Scan(&queued); err != nil {
		return err
	}
	if position > queued+1 {
		position = queued + 1
	}

	// Shift existing occupants down (highest first, to avoid the
	// unique index colliding mid-shift).
	rows, err := tx.Query(
		`SELECT id, queue_position FROM tasks WHERE queue_position >= ? ORDER BY queue_position DESC`,
		position,
	)
	if err != nil {
		return err
	}
	type shift struct {
		id  string
		pos int
	}
	var shifts []shift
	for rows.Next() {
		var sft shift
		if err := rows.Scan(&sft.id, &sft.pos); err != nil {
			rows.Close()
			return err
		}
		shifts = append(shifts, sft)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, sft := range shifts {
		if _, err := tx.Exec(`UPDATE tasks SET queue_position = ? WHERE id = ?`, sft.pos+1, sft.id); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`UPDATE tasks SET queue_position = ? WHERE id = ?`, position, taskID); err != nil {
		return err
	}

	return tx.Commit()
}

// QueuePop removes and returns the task at queue_position 1, reindexing
// the remaining queue to stay dense starting at 1.
func (s *Store) QueuePop() (*Task, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRow(
		`SELECT id, title, description, status, priority, project, tags, due_date, queue_position
		 FROM tasks WHERE queue_position = 1`,
	)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(`UPDATE tasks SET queue_position = NULL WHERE id = ?`, t.ID); err != nil {
		return nil, err
	}

	rows, err := tx.Query(
		`SELECT id, queue_position FROM tasks WHERE queue_position IS NOT NULL ORDER BY queue_position ASC`,
	)
	if err != nil {
		return nil, err
	}
	type shift struct {
		id  string
		pos int
	}
	var shifts []shift
	for rows.Next() {
		var sft shift
		if err := rows.Scan(&sft.id, &sft.pos); err != nil {
			rows.Close()
			return nil, err
		}
		shifts = append(shifts, sft)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, sft := range shifts {
		newPos := i + 1
		if sft.pos == newPos {
			continue
		}
		if _, err := tx.Exec(`UPDATE tasks SET queue_position = ? WHERE id = ?`, newPos, sft.id); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTask removes a task outright (queue reindexing, if any, is the
// caller's responsibility via QueuePop first).
func (s *Store) DeleteTask(id string) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	return err
}

// UpdateTask overwrites the mutable fields of an existing task
// (status, priority, description, due date). Title/project/tags are
// included so task_update can rewrite them in the same call.
func (s *Store) UpdateTask(t Task) error {
	tagsJSON, err := json.Marshal(t.Tags)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?, project = ?, tags = ?, due_date = ?
		 WHERE id = ?`,
		t.Title, t.Description, t.Status, t.Priority, t.Project, string(tagsJSON), t.DueDate, t.ID,
	)
	return err
}
