package store

// schemaStatements are the base table definitions. Every statement is
// CREATE TABLE IF NOT EXISTS so opening an already-current store is a
// cheap no-op; new columns land in pendingMigrations instead of here.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS _migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS memories (
		id TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		category TEXT NOT NULL,
		tags TEXT NOT NULL DEFAULT '[]',
		importance REAL NOT NULL DEFAULT 0.5,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		last_accessed DATETIME,
		access_count INTEGER NOT NULL DEFAULT 0,
		session_id TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS memory_vec (
		id TEXT PRIMARY KEY REFERENCES memories(id) ON DELETE CASCADE,
		embedding BLOB NOT NULL,
		content_hash TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS memory_archive (
		id TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		category TEXT NOT NULL,
		tags TEXT NOT NULL DEFAULT '[]',
		importance REAL NOT NULL DEFAULT 0.5,
		created_at DATETIME NOT NULL,
		last_accessed DATETIME,
		access_count INTEGER NOT NULL DEFAULT 0,
		session_id TEXT,
		archived_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		archive_reason TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'todo',
		priority TEXT NOT NULL DEFAULT 'medium',
		project TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '[]',
		due_date DATETIME,
		queue_position INTEGER,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_tasks_queue_position ON tasks(queue_position) WHERE queue_position IS NOT NULL`,

	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		ended_at DATETIME,
		summary TEXT NOT NULL DEFAULT '',
		decisions_made TEXT NOT NULL DEFAULT '[]',
		next_steps TEXT NOT NULL DEFAULT '[]',
		checkpoint_summary TEXT,
		checkpoint_at DATETIME
	)`,

	`CREATE TABLE IF NOT EXISTS knowledge (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '[]',
		source TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS knowledge_vec (
		id TEXT PRIMARY KEY REFERENCES knowledge(id) ON DELETE CASCADE,
		embedding BLOB NOT NULL,
		content_hash TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS forge_subjects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		pass_score REAL NOT NULL DEFAULT 0.8,
		meta TEXT NOT NULL DEFAULT '{}'
	)`,
	`CREATE TABLE IF NOT EXISTS forge_objectives (
		id TEXT PRIMARY KEY,
		subject_id TEXT NOT NULL REFERENCES forge_subjects(id),
		code TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		domain TEXT NOT NULL DEFAULT '',
		exam_weight REAL NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS forge_concepts (
		id TEXT PRIMARY KEY,
		term TEXT NOT NULL,
		definition TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		difficulty TEXT NOT NULL DEFAULT 'beginner',
		bloom_level TEXT NOT NULL DEFAULT 'remember',
		mastery_level REAL NOT NULL DEFAULT 0,
		review_count INTEGER NOT NULL DEFAULT 0,
		correct_count INTEGER NOT NULL DEFAULT 0,
		last_reviewed DATETIME,
		next_review DATETIME,
		tags TEXT NOT NULL DEFAULT '[]',
		subject_id TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS forge_concept_objectives (
		concept_id TEXT NOT NULL REFERENCES forge_concepts(id),
		objective_id TEXT NOT NULL REFERENCES forge_objectives(id),
		PRIMARY KEY (concept_id, objective_id)
	)`,
	`CREATE TABLE IF NOT EXISTS forge_reviews (
		id TEXT PRIMARY KEY,
		concept_id TEXT NOT NULL REFERENCES forge_concepts(id),
		outcome TEXT NOT NULL,
		confidence INTEGER NOT NULL,
		was_correct INTEGER,
		notes TEXT NOT NULL DEFAULT '',
		subject_id TEXT,
		reviewed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS forge_streaks (
		date TEXT PRIMARY KEY,
		concepts_reviewed INTEGER NOT NULL DEFAULT 0,
		concepts_added INTEGER NOT NULL DEFAULT 0,
		time_spent_seconds INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS forge_error_patterns (
		id TEXT PRIMARY KEY,
		concept_id TEXT NOT NULL,
		review_id TEXT NOT NULL,
		error_type TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS graph_entities (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		entity_type TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		aliases TEXT NOT NULL DEFAULT '[]',
		memory_ids TEXT NOT NULL DEFAULT '[]',
		properties TEXT NOT NULL DEFAULT '{}',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_graph_entities_name_type ON graph_entities(name, entity_type)`,
	`CREATE TABLE IF NOT EXISTS graph_relationships (
		id TEXT PRIMARY KEY,
		source_entity_id TEXT NOT NULL REFERENCES graph_entities(id),
		target_entity_id TEXT NOT NULL REFERENCES graph_entities(id),
		rel_type TEXT NOT NULL,
		weight REAL NOT NULL DEFAULT 1.0,
		evidence_ids TEXT NOT NULL DEFAULT '[]',
		properties TEXT NOT NULL DEFAULT '{}',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_graph_rel_unique ON graph_relationships(source_entity_id, target_entity_id, rel_type)`,

	`CREATE TABLE IF NOT EXISTS job_boards (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		url TEXT NOT NULL,
		board_type TEXT NOT NULL DEFAULT 'general',
		tags TEXT NOT NULL DEFAULT '[]',
		active INTEGER NOT NULL DEFAULT 1,
		last_checked DATETIME,
		content_hash TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS job_postings (
		id TEXT PRIMARY KEY,
		board_id TEXT REFERENCES job_boards(id),
		title TEXT NOT NULL,
		company TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		required_skills TEXT NOT NULL DEFAULT '[]',
		preferred_skills TEXT NOT NULL DEFAULT '[]',
		salary_min INTEGER,
		salary_max INTEGER,
		work_mode TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS applications (
		id TEXT PRIMARY KEY,
		job_posting_id TEXT NOT NULL REFERENCES job_postings(id),
		status TEXT NOT NULL DEFAULT 'discovered',
		resume_path TEXT NOT NULL DEFAULT '',
		cover_letter_path TEXT NOT NULL DEFAULT '',
		applied_date DATETIME,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS interview_prep (
		id TEXT PRIMARY KEY,
		application_id TEXT NOT NULL REFERENCES applications(id),
		prep_type TEXT NOT NULL DEFAULT 'general',
		content TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '[]',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS life_domains (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		priority INTEGER NOT NULL DEFAULT 0,
		hours_per_week REAL NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS life_goals (
		id TEXT PRIMARY KEY,
		domain_id TEXT NOT NULL REFERENCES life_domains(id),
		title TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		progress REAL NOT NULL DEFAULT 0,
		target_date DATETIME,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS life_subgoals (
		id TEXT PRIMARY KEY,
		goal_id TEXT NOT NULL REFERENCES life_goals(id),
		title TEXT NOT NULL,
		done INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS life_goal_metrics (
		id TEXT PRIMARY KEY,
		goal_id TEXT NOT NULL REFERENCES life_goals(id),
		name TEXT NOT NULL,
		value REAL NOT NULL DEFAULT 0,
		target REAL NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS claude_sessions (
		session_id TEXT PRIMARY KEY,
		cwd TEXT NOT NULL DEFAULT '',
		started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		last_heartbeat DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		status TEXT NOT NULL DEFAULT 'active',
		description TEXT NOT NULL DEFAULT '',
		tool_count INTEGER NOT NULL DEFAULT 0,
		last_tool TEXT NOT NULL DEFAULT '',
		last_tool_input TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS session_activity_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		tool_name TEXT NOT NULL DEFAULT '',
		tool_input_summary TEXT NOT NULL DEFAULT '',
		timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_activity_session ON session_activity_log(session_id, timestamp)`,

	`CREATE TABLE IF NOT EXISTS daemon_state (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		pid INTEGER NOT NULL,
		started_at DATETIME NOT NULL,
		last_heartbeat DATETIME NOT NULL,
		modules TEXT NOT NULL DEFAULT '[]',
		status TEXT NOT NULL DEFAULT 'stopped'
	)`,
	`CREATE TABLE IF NOT EXISTS daemon_lifecycle_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event TEXT NOT NULL,
		detail TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS heartbeat_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		check_name TEXT NOT NULL,
		triggered INTEGER NOT NULL DEFAULT 0,
		message TEXT NOT NULL DEFAULT '',
		notified INTEGER NOT NULL DEFAULT 0,
		checked_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_heartbeat_log_check ON heartbeat_log(check_name, checked_at)`,

	`CREATE TABLE IF NOT EXISTS trash_manifest (
		id TEXT PRIMARY KEY,
		original_path TEXT NOT NULL,
		trash_path TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT 'general',
		size_bytes INTEGER NOT NULL DEFAULT 0,
		sha256 TEXT NOT NULL DEFAULT '',
		is_dir INTEGER NOT NULL DEFAULT 0,
		reason TEXT NOT NULL DEFAULT '',
		auto INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		expires_at DATETIME NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS news_feed_sources (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		url TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS news_feed_articles (
		id TEXT PRIMARY KEY,
		source_id TEXT NOT NULL REFERENCES news_feed_sources(id),
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		published_at DATETIME,
		fetched_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS signalforge_articles (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		cluster_id TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS signalforge_clusters (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS signalforge_synthesis (
		id TEXT PRIMARY KEY,
		cluster_id TEXT NOT NULL REFERENCES signalforge_clusters(id),
		summary TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS discovered_events (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		starts_at DATETIME,
		source TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS onboarding_state (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		current_step INTEGER NOT NULL DEFAULT 0,
		total_steps INTEGER NOT NULL DEFAULT 0,
		responses TEXT NOT NULL DEFAULT '{}',
		completed INTEGER NOT NULL DEFAULT 0,
		started_at DATETIME,
		completed_at DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS personality_config (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		config TEXT NOT NULL DEFAULT '{}'
	)`,
	`CREATE TABLE IF NOT EXISTS telegram_bot_state (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		last_update_id INTEGER NOT NULL DEFAULT 0,
		chat_id TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS cram_topics (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS file_deletion_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL,
		filename TEXT NOT NULL,
		event_type TEXT NOT NULL,
		pid INTEGER NOT NULL,
		timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS git_shadow_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		repo_path TEXT NOT NULL,
		stash_hash TEXT NOT NULL,
		changed_files TEXT NOT NULL DEFAULT '[]',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS conversation_archive_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		finished_at DATETIME,
		archived_count INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS conversation_archive_sessions (
		session_id TEXT PRIMARY KEY,
		archived_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		markdown_path TEXT NOT NULL DEFAULT ''
	)`,
}
