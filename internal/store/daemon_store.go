package store

import (
	"database/sql"
	"encoding/json"
	"time"
)

// UpsertDaemonState writes the single daemon_state row, used by the
// scheduler's singleton discipline (lock file + PID-alive check) and
// by the 30s heartbeat writer.
func (s *Store) UpsertDaemonState(d DaemonState) error {
	modulesJSON, err := json.Marshal(d.Modules)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO daemon_state (id, pid, started_at, last_heartbeat, modules, status)
		 VALUES (1, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			pid = excluded.pid,
			started_at = excluded.started_at,
			last_heartbeat = excluded.last_heartbeat,
			modules = excluded.modules,
			status = excluded.status`,
		d.PID, d.StartedAt, d.LastHeartbeat, string(modulesJSON), d.Status,
	)
	return err
}

// TouchDaemonHeartbeat bumps last_heartbeat without rewriting the rest
// of the row.
func (s *Store) TouchDaemonHeartbeat() error {
	_, err := s.db.Exec(`UPDATE daemon_state SET last_heartbeat = ? WHERE id = 1`, now())
	return err
}

// GetDaemonState reads the current daemon record, or nil if the daemon
// has never started in this store.
func (s *Store) GetDaemonState() (*DaemonState, error) {
	row := s.db.QueryRow(`SELECT pid, started_at, last_heartbeat, modules, status FROM daemon_state WHERE id = 1`)
	var d DaemonState
	var modulesJSON string
	if err := row.Scan(&d.PID, &d.StartedAt, &d.LastHeartbeat, &modulesJSON, &d.Status); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	_ = json.Unmarshal([]byte(modulesJSON), &d.Modules)
	return &d, nil
}

// LogDaemonLifecycle appends a startup/shutdown event.
func (s *Store) LogDaemonLifecycle(event, detail string) error {
	_, err := s.db.Exec(
		`INSERT INTO daemon_lifecycle_log (event, detail, created_at) VALUES (?, ?, ?)`,
		event, detail, now(),
	)
	return err
}

// LogHeartbeatCheck records the outcome of one scheduled condition
// check, used by dispatch_notification's rate-limit lookback.
func (s *Store) LogHeartbeatCheck(e HeartbeatLogEntry) error {
	if e.CheckedAt.IsZero() {
		e.CheckedAt = now()
	}
	_, err := s.db.Exec(
		`INSERT INTO heartbeat_log (check_name, triggered, message, notified, checked_at) VALUES (?, ?, ?, ?, ?)`,
		e.CheckName, e.Triggered, e.Message, e.Notified, e.CheckedAt,
	)
	return err
}

// LastNotifiedAt returns the most recent checked_at for a check name
// where notified = 1, or nil if that check has never fired a
// notification. dispatch_notification's rate-limit gate compares this
// against RATE_LIMIT_HOURS[checkName].
func (s *Store) LastNotifiedAt(checkName string) (*time.Time, error) {
	row := s.db.QueryRow(
		`SELECT checked_at FROM heartbeat_log WHERE check_name = ? AND notified = 1 ORDER BY checked_at DESC LIMIT 1`,
		checkName,
	)
	var t time.Time
	if err := row.Scan(&t); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}
