package store

import (
	"database/sql"
	"fmt"
)

// CreateLifeDomain registers a top-level bucket of effort/time.
func (s *Store) CreateLifeDomain(d LifeDomain) (LifeDomain, error) {
	if d.ID == "" {
		d.ID = newID()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now()
	}
	d.UpdatedAt = d.CreatedAt
	_, err := s.db.Exec(
		`INSERT INTO life_domains (id, name, priority, hours_per_week, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.Priority, d.HoursPerWeek, d.CreatedAt, d.UpdatedAt,
	)
	return d, err
}

// ListLifeDomains returns every tracked domain.
func (s *Store) ListLifeDomains() ([]LifeDomain, error) {
	rows, err := s.db.Query(
		`SELECT id, name, priority, hours_per_week, created_at, updated_at FROM life_domains ORDER BY priority DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LifeDomain
	for rows.Next() {
		var d LifeDomain
		if err := rows.Scan(&d.ID, &d.Name, &d.Priority, &d.HoursPerWeek, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CreateLifeGoal adds a goal under a domain.
func (s *Store) CreateLifeGoal(g LifeGoal) (LifeGoal, error) {
	if g.ID == "" {
		g.ID = newID()
	}
	if g.Status == "" {
		g.Status = "active"
	}
	g.UpdatedAt = now()
	_, err := s.db.Exec(
		`INSERT INTO life_goals (id, domain_id, title, status, progress, target_date, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.DomainID, g.Title, g.Status, g.Progress, g.TargetDate, g.UpdatedAt,
	)
	return g, err
}

// GoalsForDomain lists goals belonging to one domain.
func (s *Store) GoalsForDomain(domainID string) ([]LifeGoal, error) {
	rows, err := s.db.Query(
		`SELECT id, domain_id, title, status, progress, target_date, updated_at
		 FROM life_goals WHERE domain_id = ? ORDER BY updated_at DESC`, domainID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LifeGoal
	for rows.Next() {
		var g LifeGoal
		var targetDate sql.NullTime
		if err := rows.Scan(&g.ID, &g.DomainID, &g.Title, &g.Status, &g.Progress, &targetDate, &g.UpdatedAt); err != nil {
			return nil, err
		}
		if targetDate.Valid {
			g.TargetDate = &targetDate.Time
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// StaleLifeGoals returns active goals whose updated_at is older than
// staleDays, for the goal_staleness heartbeat check.
func (s *Store) StaleLifeGoals(staleDays int) ([]LifeGoal, error) {
	rows, err := s.db.Query(
		`SELECT id, domain_id, title, status, progress, target_date, updated_at
		 FROM life_goals WHERE status = 'active' AND updated_at < datetime('now', ?)`,
		daysAgo(staleDays),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LifeGoal
	for rows.Next() {
		var g LifeGoal
		var targetDate sql.NullTime
		if err := rows.Scan(&g.ID, &g.DomainID, &g.Title, &g.Status, &g.Progress, &targetDate, &g.UpdatedAt); err != nil {
			return nil, err
		}
		if targetDate.Valid {
			g.TargetDate = &targetDate.Time
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func daysAgo(n int) string {
	if n <= 0 {
		n = 1
	}
	return fmt.Sprintf("-%d days", n)
}

// UpdateLifeGoalProgress sets a goal's progress fraction.
func (s *Store) UpdateLifeGoalProgress(id string, progress float64) error {
	_, err := s.db.Exec(`UPDATE life_goals SET progress = ?, updated_at = ? WHERE id = ?`, progress, now(), id)
	return err
}

// CreateLifeSubGoal adds a checklist item under a goal.
func (s *Store) CreateLifeSubGoal(sg LifeSubGoal) (LifeSubGoal, error) {
	if sg.ID == "" {
		sg.ID = newID()
	}
	_, err := s.db.Exec(
		`INSERT INTO life_subgoals (id, goal_id, title, done) VALUES (?, ?, ?, ?)`,
		sg.ID, sg.GoalID, sg.Title, sg.Done,
	)
	return sg, err
}

// CreateLifeGoalMetric adds a numeric tracked value on a goal.
func (s *Store) CreateLifeGoalMetric(m LifeGoalMetric) (LifeGoalMetric, error) {
	if m.ID == "" {
		m.ID = newID()
	}
	_, err := s.db.Exec(
		`INSERT INTO life_goal_metrics (id, goal_id, name, value, target) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.GoalID, m.Name, m.Value, m.Target,
	)
	return m, err
}
