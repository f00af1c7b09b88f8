package config

// DomainCwdRule maps a case-insensitive cwd prefix to a life-domain
// name, for time allocation's session-to-domain resolution. Rules are
// tried in order; the first prefix match wins.
type DomainCwdRule struct {
	Prefix     string `yaml:"prefix" json:"prefix"`
	DomainName string `yaml:"domain_name" json:"domain_name"`
}

// JobsConfig configures the auxiliary jobs (C10): time allocation,
// vault sync, conversation archive, and the git shadow snapshot path.
type JobsConfig struct {
	// IdleThresholdMinutes bounds how large a gap between two activity
	// timestamps in the same session can be before time allocation stops
	// counting it as active time.
	IdleThresholdMinutes int `yaml:"idle_threshold_minutes" json:"idle_threshold_minutes"`

	// DomainCwdRules resolves a session's cwd to a life domain name.
	DomainCwdRules []DomainCwdRule `yaml:"domain_cwd_rules" json:"domain_cwd_rules"`

	// VaultPath is the Obsidian-style vault directory synced by vault sync.
	VaultPath string `yaml:"vault_path" json:"vault_path"`

	// ArchiveCompressionLevel is the zstd compression level used for
	// conversation-archive and vault-sync cold storage.
	ArchiveCompressionLevel int `yaml:"archive_compression_level" json:"archive_compression_level"`

	// GitShadowRepoPath is the working tree snapshotted by the git
	// shadow job, which runs the git binary directly in this directory.
	GitShadowRepoPath string `yaml:"git_shadow_repo_path" json:"git_shadow_repo_path"`

	// FeedPollTimeout bounds a single feed-poll HTTP round trip.
	FeedPollTimeout string `yaml:"feed_poll_timeout" json:"feed_poll_timeout"`

	// TrashDir is where soft-deleted files are moved before their
	// retention window expires and the sweep job purges them for real.
	TrashDir string `yaml:"trash_dir" json:"trash_dir"`

	// TrashRetentionDays is how long a trashed file survives before
	// sweep_expired unlinks it.
	TrashRetentionDays int `yaml:"trash_retention_days" json:"trash_retention_days"`

	// ConversationArchiveDir is where rendered conversation markdown
	// (plus its .md.zst cold copy) is written.
	ConversationArchiveDir string `yaml:"conversation_archive_dir" json:"conversation_archive_dir"`

	// ConversationArchiveMaxAgeDays bounds how far back the archive job
	// looks for un-archived transcripts on each run.
	ConversationArchiveMaxAgeDays int `yaml:"conversation_archive_max_age_days" json:"conversation_archive_max_age_days"`

	// WatchRoots are the directories the file-deletion watcher monitors.
	WatchRoots []string `yaml:"watch_roots" json:"watch_roots"`

	// WatchIgnoreGlobs filters noisy paths (bytecode dirs, .git/objects,
	// node_modules, swap/tmp files) out of the deletion log.
	WatchIgnoreGlobs []string `yaml:"watch_ignore_globs" json:"watch_ignore_globs"`
}

// DefaultJobsConfig returns the defaults for the auxiliary jobs.
func DefaultJobsConfig() JobsConfig {
	return JobsConfig{
		IdleThresholdMinutes: 30,
		DomainCwdRules: []DomainCwdRule{
			{Prefix: "~/work", DomainName: "Career"},
			{Prefix: "~/study", DomainName: "Learning"},
			{Prefix: "~/projects", DomainName: "Side Projects"},
		},
		VaultPath:                     "data/vault",
		ArchiveCompressionLevel:       9,
		GitShadowRepoPath:             ".",
		FeedPollTimeout:               "15s",
		TrashDir:                      ".jaybrain/trash",
		TrashRetentionDays:            30,
		ConversationArchiveDir:        "data/archive/conversations",
		ConversationArchiveMaxAgeDays: 90,
		WatchRoots:                    []string{"."},
		WatchIgnoreGlobs: []string{
			"*/.git/objects/*", "*/node_modules/*", "*/__pycache__/*",
			"*.pyc", "*.swp", "*.swo", "*~", "*/tmp/*",
		},
	}
}
