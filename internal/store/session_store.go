package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// CreateSession inserts a user-facing session row (distinct from the
// hook-ingest ClaudeSession tracked below).
func (s *Store) CreateSession(sess Session) (Session, error) {
	if sess.ID == "" {
		sess.ID = newID()
	}
	if sess.StartedAt.IsZero() {
		sess.StartedAt = now()
	}
	decisionsJSON, err := json.Marshal(sess.DecisionsMade)
	if err != nil {
		return Session{}, err
	}
	stepsJSON, err := json.Marshal(sess.NextSteps)
	if err != nil {
		return Session{}, err
	}
	_, err = s.db.Exec(
		`INSERT INTO sessions (id, title, started_at, ended_at, summary, decisions_made, next_steps, checkpoint_summary, checkpoint_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.Title, sess.StartedAt, sess.EndedAt, sess.Summary, string(decisionsJSON), string(stepsJSON),
		sess.CheckpointSummary, sess.CheckpointAt,
	)
	return sess, err
}

// EndSession records the close-out summary and decisions for a session.
func (s *Store) EndSession(id, summary string, decisions, nextSteps []string) error {
	decisionsJSON, err := json.Marshal(decisions)
	if err != nil {
		return err
	}
	stepsJSON, err := json.Marshal(nextSteps)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`UPDATE sessions SET ended_at = ?, summary = ?, decisions_made = ?, next_steps = ? WHERE id = ?`,
		now(), summary, string(decisionsJSON), string(stepsJSON), id,
	)
	return err
}

// CheckpointSession records a mid-session progress note without ending
// the session.
func (s *Store) CheckpointSession(id, summary string) error {
	_, err := s.db.Exec(
		`UPDATE sessions SET checkpoint_summary = ?, checkpoint_at = ? WHERE id = ?`,
		summary, now(), id,
	)
	return err
}

// GetSession fetches a session by id.
func (s *Store) GetSession(id string) (*Session, error) {
	row := s.db.QueryRow(
		`SELECT id, title, started_at, ended_at, summary, decisions_made, next_steps, checkpoint_summary, checkpoint_at
		 FROM sessions WHERE id = ?`, id,
	)
	var sess Session
	var decisionsJSON, stepsJSON string
	var endedAt, checkpointAt sql.NullTime
	var checkpointSummary sql.NullString
	err := row.Scan(&sess.ID, &sess.Title, &sess.StartedAt, &endedAt, &sess.Summary,
		&decisionsJSON, &stepsJSON, &checkpointSummary, &checkpointAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(decisionsJSON), &sess.DecisionsMade)
	_ = json.Unmarshal([]byte(stepsJSON), &sess.NextSteps)
	if endedAt.Valid {
		sess.EndedAt = &endedAt.Time
	}
	if checkpointAt.Valid {
		sess.CheckpointAt = &checkpointAt.Time
	}
	sess.CheckpointSummary = checkpointSummary.String
	return &sess, nil
}

// UpsertClaudeSession creates or refreshes a hook-ingest session row on
// session_start / post_tool_use / heartbeat events (C3).
func (s *Store) UpsertClaudeSession(cs ClaudeSession) error {
	_, err := s.db.Exec(
		`INSERT INTO claude_sessions (session_id, cwd, started_at, last_heartbeat, status, description, tool_count, last_tool, last_tool_input)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET
			last_heartbeat = excluded.last_heartbeat,
			status = excluded.status,
			tool_count = claude_sessions.tool_count + 1,
			last_tool = excluded.last_tool,
			last_tool_input = excluded.last_tool_input`,
		cs.SessionID, cs.Cwd, cs.StartedAt, cs.LastHeartbeat, cs.Status, cs.Description,
		cs.ToolCount, cs.LastTool, cs.LastToolInput,
	)
	return err
}

// MarkClaudeSessionStatus flips a session's status (e.g. active ->
// ended) without touching the tool-call counters.
func (s *Store) MarkClaudeSessionStatus(sessionID, status string) error {
	_, err := s.db.Exec(
		`UPDATE claude_sessions SET status = ?, last_heartbeat = ? WHERE session_id = ?`,
		status, now(), sessionID,
	)
	return err
}

// ActiveClaudeSessions returns sessions whose last heartbeat is newer
// than the staleness cutoff, used by pulse's get_active_sessions (C4).
func (s *Store) ActiveClaudeSessions(staleCutoffSeconds int) ([]ClaudeSession, error) {
	rows, err := s.db.Query(
		`SELECT session_id, cwd, started_at, last_heartbeat, status, description, tool_count, last_tool, last_tool_input
		 FROM claude_sessions
		 WHERE status = 'active' AND last_heartbeat >= datetime('now', ?)
		 ORDER BY last_heartbeat DESC`,
		secondsAgo(staleCutoffSeconds),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ClaudeSession
	for rows.Next() {
		var cs ClaudeSession
		if err := rows.Scan(&cs.SessionID, &cs.Cwd, &cs.StartedAt, &cs.LastHeartbeat, &cs.Status,
			&cs.Description, &cs.ToolCount, &cs.LastTool, &cs.LastToolInput); err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

// UpsertSessionCheckpoint writes a checkpoint summary to the sessions
// table, creating a minimal row first if the id is unknown. This is
// pre_compact's write path (C3).
func (s *Store) UpsertSessionCheckpoint(id, summary string) error {
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, started_at, checkpoint_summary, checkpoint_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET checkpoint_summary = excluded.checkpoint_summary, checkpoint_at = excluded.checkpoint_at`,
		id, now(), summary, now(),
	)
	return err
}

// TouchClaudeSessionHeartbeat bumps last_heartbeat only, leaving
// tool_count/last_tool untouched. This is the stop event's write path
// (C3): a heartbeat ping carries no tool activity.
func (s *Store) TouchClaudeSessionHeartbeat(sessionID string) error {
	_, err := s.db.Exec(`UPDATE claude_sessions SET last_heartbeat = ? WHERE session_id = ?`, now(), sessionID)
	return err
}

// EndStaleClaudeSessions marks sessions whose last_heartbeat is older
// than cutoffHours as ended, part of the hook pipeline's 1-in-50
// pruning pass (C3).
func (s *Store) EndStaleClaudeSessions(cutoffHours int) (int64, error) {
	res, err := s.db.Exec(
		`UPDATE claude_sessions SET status = 'ended' WHERE status != 'ended' AND last_heartbeat < datetime('now', ?)`,
		fmt.Sprintf("-%d hours", cutoffHours),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// GetClaudeSession fetches a single hook-ingest session by id, for
// pulse's query_session and get_session_context.
func (s *Store) GetClaudeSession(sessionID string) (*ClaudeSession, error) {
	row := s.db.QueryRow(
		`SELECT session_id, cwd, started_at, last_heartbeat, status, description, tool_count, last_tool, last_tool_input
		 FROM claude_sessions WHERE session_id = ?`, sessionID,
	)
	var cs ClaudeSession
	err := row.Scan(&cs.SessionID, &cs.Cwd, &cs.StartedAt, &cs.LastHeartbeat, &cs.Status,
		&cs.Description, &cs.ToolCount, &cs.LastTool, &cs.LastToolInput)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cs, nil
}

// RecentlyEndedClaudeSessions returns sessions whose status is 'ended'
// and whose last heartbeat falls within the last withinHours, for
// pulse's get_active_sessions (C4).
func (s *Store) RecentlyEndedClaudeSessions(withinHours int) ([]ClaudeSession, error) {
	rows, err := s.db.Query(
		`SELECT session_id, cwd, started_at, last_heartbeat, status, description, tool_count, last_tool, last_tool_input
		 FROM claude_sessions
		 WHERE status = 'ended' AND last_heartbeat >= datetime('now', ?)
		 ORDER BY last_heartbeat DESC`,
		fmt.Sprintf("-%d hours", withinHours),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ClaudeSession
	for rows.Next() {
		var cs ClaudeSession
		if err := rows.Scan(&cs.SessionID, &cs.Cwd, &cs.StartedAt, &cs.LastHeartbeat, &cs.Status,
			&cs.Description, &cs.ToolCount, &cs.LastTool, &cs.LastToolInput); err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

// AllClaudeSessionIDs lists every known session id, for pulse's
// query_session needle resolution (C4).
func (s *Store) AllClaudeSessionIDs() ([]string, error) {
	rows, err := s.db.Query(`SELECT session_id FROM claude_sessions ORDER BY last_heartbeat DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// CrashedClaudeSessions returns sessions still marked active whose
// heartbeat has gone stale for longer than idleMinutes, for the
// scheduler's session_crash check (C6).
func (s *Store) CrashedClaudeSessions(idleMinutes int) ([]ClaudeSession, error) {
	rows, err := s.db.Query(
		`SELECT session_id, cwd, started_at, last_heartbeat, status, description, tool_count, last_tool, last_tool_input
		 FROM claude_sessions
		 WHERE status = 'active' AND last_heartbeat < datetime('now', ?)
		 ORDER BY last_heartbeat ASC`,
		fmt.Sprintf("-%d minutes", idleMinutes),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ClaudeSession
	for rows.Next() {
		var cs ClaudeSession
		if err := rows.Scan(&cs.SessionID, &cs.Cwd, &cs.StartedAt, &cs.LastHeartbeat, &cs.Status,
			&cs.Description, &cs.ToolCount, &cs.LastTool, &cs.LastToolInput); err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

// HasPulseTables reports whether the claude_sessions/session_activity_log
// tables exist, mirroring the hook-ingest schema's lazy-creation history;
// pulse's read operations degrade to {status: "no_data"} when absent.
func (s *Store) HasPulseTables() bool {
	return tableExists(s.db, "claude_sessions") && tableExists(s.db, "session_activity_log")
}

func secondsAgo(n int) string {
	if n <= 0 {
		n = 1
	}
	return fmt.Sprintf("-%d seconds", n)
}

// LogSessionActivity appends one row to session_activity_log (C3's
// post_tool_use ingest path).
func (s *Store) LogSessionActivity(e SessionActivityLogEntry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = now()
	}
	_, err := s.db.Exec(
		`INSERT INTO session_activity_log (session_id, event_type, tool_name, tool_input_summary, timestamp)
		 VALUES (?, ?, ?, ?, ?)`,
		e.SessionID, e.EventType, e.ToolName, e.ToolInputSummary, e.Timestamp,
	)
	return err
}

// SessionActivity returns the activity log for one session, newest
// last, for pulse's get_session_activity (C4).
func (s *Store) SessionActivity(sessionID string, limit int) ([]SessionActivityLogEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, session_id, event_type, tool_name, tool_input_summary, timestamp
		 FROM session_activity_log WHERE session_id = ? ORDER BY timestamp DESC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionActivityLogEntry
	for rows.Next() {
		var e SessionActivityLogEntry
		if err := rows.Scan(&e.ID, &e.SessionID, &e.EventType, &e.ToolName, &e.ToolInputSummary, &e.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, rows.Err()
}

// AllSessionActivity returns the most recent activity rows across every
// session, newest last, for pulse's get_session_activity (C4) when
// called with no session_id filter.
func (s *Store) AllSessionActivity(limit int) ([]SessionActivityLogEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, session_id, event_type, tool_name, tool_input_summary, timestamp
		 FROM session_activity_log ORDER BY timestamp DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionActivityLogEntry
	for rows.Next() {
		var e SessionActivityLogEntry
		if err := rows.Scan(&e.ID, &e.SessionID, &e.EventType, &e.ToolName, &e.ToolInputSummary, &e.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, rows.Err()
}

// PruneSessionActivity deletes activity rows older than cutoffDays,
// called from the hook path's 1-in-50 pruning pass.
func (s *Store) PruneSessionActivity(cutoffDays int) (int64, error) {
	res, err := s.db.Exec(
		`DELETE FROM session_activity_log WHERE timestamp < datetime('now', ?)`,
		fmt.Sprintf("-%d days", cutoffDays),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
