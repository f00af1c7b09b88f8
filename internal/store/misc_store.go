package store

import (
	"database/sql"
	"encoding/json"
)

// GetOnboardingState reads the single onboarding_state row, or a fresh
// zero-value if onboarding has not started.
func (s *Store) GetOnboardingState() (OnboardingState, error) {
	row := s.db.QueryRow(
		`SELECT current_step, total_steps, responses, completed, started_at, completed_at FROM onboarding_state WHERE id = 1`,
	)
	var st OnboardingState
	var responsesJSON string
	var startedAt, completedAt sql.NullTime
	err := row.Scan(&st.CurrentStep, &st.TotalSteps, &responsesJSON, &st.Completed, &startedAt, &completedAt)
	if err == sql.ErrNoRows {
		return OnboardingState{Responses: map[string]string{}}, nil
	}
	if err != nil {
		return OnboardingState{}, err
	}
	_ = json.Unmarshal([]byte(responsesJSON), &st.Responses)
	if startedAt.Valid {
		st.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		st.CompletedAt = &completedAt.Time
	}
	return st, nil
}

// SaveOnboardingState upserts the single onboarding_state row. The
// personality_onboarding_step tool calls this after merging its answer
// into Responses and advancing CurrentStep.
func (s *Store) SaveOnboardingState(st OnboardingState) error {
	responsesJSON, err := json.Marshal(st.Responses)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO onboarding_state (id, current_step, total_steps, responses, completed, started_at, completed_at)
		 VALUES (1, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			current_step = excluded.current_step,
			total_steps = excluded.total_steps,
			responses = excluded.responses,
			completed = excluded.completed,
			started_at = COALESCE(onboarding_state.started_at, excluded.started_at),
			completed_at = excluded.completed_at`,
		st.CurrentStep, st.TotalSteps, string(responsesJSON), st.Completed, st.StartedAt, st.CompletedAt,
	)
	return err
}

// GetPersonalityConfig reads the single personality_config row.
func (s *Store) GetPersonalityConfig() (PersonalityConfig, error) {
	row := s.db.QueryRow(`SELECT config FROM personality_config WHERE id = 1`)
	var configJSON string
	if err := row.Scan(&configJSON); err != nil {
		if err == sql.ErrNoRows {
			return PersonalityConfig{Config: map[string]any{}}, nil
		}
		return PersonalityConfig{}, err
	}
	var cfg PersonalityConfig
	_ = json.Unmarshal([]byte(configJSON), &cfg.Config)
	return cfg, nil
}

// SavePersonalityConfig upserts the single personality_config row,
// storing Config as given; keys are not split on dots.
func (s *Store) SavePersonalityConfig(cfg PersonalityConfig) error {
	configJSON, err := json.Marshal(cfg.Config)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO personality_config (id, config) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET config = excluded.config`,
		string(configJSON),
	)
	return err
}

// GetTelegramBotState reads the long-poll offset tracker.
func (s *Store) GetTelegramBotState() (TelegramBotState, error) {
	row := s.db.QueryRow(`SELECT last_update_id, chat_id FROM telegram_bot_state WHERE id = 1`)
	var st TelegramBotState
	if err := row.Scan(&st.LastUpdateID, &st.ChatID); err != nil {
		if err == sql.ErrNoRows {
			return TelegramBotState{}, nil
		}
		return TelegramBotState{}, err
	}
	return st, nil
}

// SaveTelegramBotState upserts the long-poll offset tracker.
func (s *Store) SaveTelegramBotState(st TelegramBotState) error {
	_, err := s.db.Exec(
		`INSERT INTO telegram_bot_state (id, last_update_id, chat_id) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET last_update_id = excluded.last_update_id, chat_id = excluded.chat_id`,
		st.LastUpdateID, st.ChatID,
	)
	return err
}

// CreateCramTopic adds a short-lived exam-cram note.
func (s *Store) CreateCramTopic(t CramTopic) (CramTopic, error) {
	if t.ID == "" {
		t.ID = newID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now()
	}
	_, err := s.db.Exec(`INSERT INTO cram_topics (id, title, notes, created_at) VALUES (?, ?, ?, ?)`,
		t.ID, t.Title, t.Notes, t.CreatedAt)
	return t, err
}

// ListCramTopics returns every cram topic, newest first.
func (s *Store) ListCramTopics() ([]CramTopic, error) {
	rows, err := s.db.Query(`SELECT id, title, notes, created_at FROM cram_topics ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CramTopic
	for rows.Next() {
		var t CramTopic
		if err := rows.Scan(&t.ID, &t.Title, &t.Notes, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CreateNewsFeedSource registers a polled RSS/Atom source.
func (s *Store) CreateNewsFeedSource(src NewsFeedSource) (NewsFeedSource, error) {
	if src.ID == "" {
		src.ID = newID()
	}
	src.Active = true
	if src.CreatedAt.IsZero() {
		src.CreatedAt = now()
	}
	_, err := s.db.Exec(`INSERT INTO news_feed_sources (id, name, url, active, created_at) VALUES (?, ?, ?, ?, ?)`,
		src.ID, src.Name, src.URL, src.Active, src.CreatedAt)
	return src, err
}

// ActiveNewsFeedSources lists sources due for a poll.
func (s *Store) ActiveNewsFeedSources() ([]NewsFeedSource, error) {
	rows, err := s.db.Query(`SELECT id, name, url, active, created_at FROM news_feed_sources WHERE active = 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []NewsFeedSource
	for rows.Next() {
		var src NewsFeedSource
		if err := rows.Scan(&src.ID, &src.Name, &src.URL, &src.Active, &src.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, rows.Err()
}

// CreateNewsFeedArticle records a fetched article, for the feed poll
// job (C10).
func (s *Store) CreateNewsFeedArticle(a NewsFeedArticle) (NewsFeedArticle, error) {
	if a.ID == "" {
		a.ID = newID()
	}
	if a.FetchedAt.IsZero() {
		a.FetchedAt = now()
	}
	_, err := s.db.Exec(
		`INSERT INTO news_feed_articles (id, source_id, title, url, published_at, fetched_at) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.SourceID, a.Title, a.URL, a.PublishedAt, a.FetchedAt,
	)
	return a, err
}

// CreateSignalforgeArticle stores a raw article awaiting clustering.
func (s *Store) CreateSignalforgeArticle(a SignalforgeArticle) (SignalforgeArticle, error) {
	if a.ID == "" {
		a.ID = newID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now()
	}
	_, err := s.db.Exec(
		`INSERT INTO signalforge_articles (id, title, content, cluster_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Content, nullIfEmpty(a.ClusterID), a.CreatedAt,
	)
	return a, err
}

// CreateSignalforgeCluster groups related articles.
func (s *Store) CreateSignalforgeCluster(c SignalforgeCluster) (SignalforgeCluster, error) {
	if c.ID == "" {
		c.ID = newID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now()
	}
	_, err := s.db.Exec(`INSERT INTO signalforge_clusters (id, label, created_at) VALUES (?, ?, ?)`,
		c.ID, c.Label, c.CreatedAt)
	return c, err
}

// CreateSignalforgeSynthesis stores the generated summary for a
// cluster.
func (s *Store) CreateSignalforgeSynthesis(syn SignalforgeSynthesis) (SignalforgeSynthesis, error) {
	if syn.ID == "" {
		syn.ID = newID()
	}
	if syn.CreatedAt.IsZero() {
		syn.CreatedAt = now()
	}
	_, err := s.db.Exec(
		`INSERT INTO signalforge_synthesis (id, cluster_id, summary, created_at) VALUES (?, ?, ?, ?)`,
		syn.ID, syn.ClusterID, syn.Summary, syn.CreatedAt,
	)
	return syn, err
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// CreateDiscoveredEvent records a calendar event surfaced from scanned
// content.
func (s *Store) CreateDiscoveredEvent(e DiscoveredEvent) (DiscoveredEvent, error) {
	if e.ID == "" {
		e.ID = newID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now()
	}
	_, err := s.db.Exec(
		`INSERT INTO discovered_events (id, title, starts_at, source, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Title, e.StartsAt, e.Source, e.CreatedAt,
	)
	return e, err
}

// LogFileDeletion appends one row observed by the file-deletion
// watcher job (C10).
func (s *Store) LogFileDeletion(e FileDeletionLogEntry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = now()
	}
	_, err := s.db.Exec(
		`INSERT INTO file_deletion_log (path, filename, event_type, pid, timestamp) VALUES (?, ?, ?, ?, ?)`,
		e.Path, e.Filename, e.EventType, e.PID, e.Timestamp,
	)
	return err
}

// RecentFileDeletions returns the most recent deletion events, for the
// homelab ops surface.
func (s *Store) RecentFileDeletions(limit int) ([]FileDeletionLogEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, path, filename, event_type, pid, timestamp FROM file_deletion_log ORDER BY timestamp DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FileDeletionLogEntry
	for rows.Next() {
		var e FileDeletionLogEntry
		if err := rows.Scan(&e.ID, &e.Path, &e.Filename, &e.EventType, &e.PID, &e.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// RecordGitShadowSnapshot logs a stash taken before a risky git
// operation, for the git shadow job (C10).
func (s *Store) RecordGitShadowSnapshot(snap GitShadowSnapshot) error {
	changedJSON, err := json.Marshal(snap.ChangedFiles)
	if err != nil {
		return err
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = now()
	}
	_, err = s.db.Exec(
		`INSERT INTO git_shadow_snapshots (repo_path, stash_hash, changed_files, created_at) VALUES (?, ?, ?, ?)`,
		snap.RepoPath, snap.StashHash, string(changedJSON), snap.CreatedAt,
	)
	return err
}

// RecentGitShadowSnapshots returns the most recent git shadow
// snapshots, newest first.
func (s *Store) RecentGitShadowSnapshots(limit int) ([]GitShadowSnapshot, error) {
	rows, err := s.db.Query(
		`SELECT id, repo_path, stash_hash, changed_files, created_at FROM git_shadow_snapshots ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GitShadowSnapshot
	for rows.Next() {
		var snap GitShadowSnapshot
		var changedJSON string
		if err := rows.Scan(&snap.ID, &snap.RepoPath, &snap.StashHash, &changedJSON, &snap.CreatedAt); err != nil {
			return nil, err
		}
		if changedJSON != "" {
			if err := json.Unmarshal([]byte(changedJSON), &snap.ChangedFiles); err != nil {
				return nil, err
			}
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// StartConversationArchiveRun opens a new archival run record and
// returns its id.
func (s *Store) StartConversationArchiveRun() (int64, error) {
	res, err := s.db.Exec(`INSERT INTO conversation_archive_runs (started_at) VALUES (?)`, now())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// FinishConversationArchiveRun records how many sessions a run
// archived.
func (s *Store) FinishConversationArchiveRun(runID int64, archivedCount int) error {
	_, err := s.db.Exec(
		`UPDATE conversation_archive_runs SET finished_at = ?, archived_count = ? WHERE id = ?`,
		now(), archivedCount, runID,
	)
	return err
}

// IsSessionArchived checks conversation_archive_sessions, the
// idempotency guard that keeps the archive job from re-archiving a
// transcript it has already processed.
func (s *Store) IsSessionArchived(sessionID string) (bool, error) {
	var exists int
	err := s.db.QueryRow(`SELECT 1 FROM conversation_archive_sessions WHERE session_id = ?`, sessionID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkSessionArchived records that a transcript has been archived to
// markdownPath.
func (s *Store) MarkSessionArchived(sessionID, markdownPath string) error {
	_, err := s.db.Exec(
		`INSERT INTO conversation_archive_sessions (session_id, archived_at, markdown_path) VALUES (?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET archived_at = excluded.archived_at, markdown_path = excluded.markdown_path`,
		sessionID, now(), markdownPath,
	)
	return err
}
