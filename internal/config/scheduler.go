package config

// JobSpec names a scheduler job's trigger (a cron expression or an
// interval duration string) and its notification rate-limit window.
type JobSpec struct {
	Trigger         string `yaml:"trigger" json:"trigger"`
	RateLimitWindow string `yaml:"rate_limit_window" json:"rate_limit_window,omitempty"`
}

// SchedulerConfig configures the scheduler daemon (C5): the lock file,
// the heartbeat interval, and the job registry from spec.md §4.5's table.
type SchedulerConfig struct {
	LockPath          string             `yaml:"lock_path" json:"lock_path"`
	PIDPath           string             `yaml:"pid_path" json:"pid_path"`
	HeartbeatInterval string             `yaml:"heartbeat_interval" json:"heartbeat_interval"`
	Jobs              map[string]JobSpec `yaml:"jobs" json:"jobs"`
}

// DefaultSchedulerConfig returns the job registry named in spec.md §4.5.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		LockPath:          "data/daemon.lock",
		PIDPath:           "data/daemon.pid",
		HeartbeatInterval: "30s",
		Jobs: map[string]JobSpec{
			"forge_study_morning": {Trigger: "0 8 * * *", RateLimitWindow: "20h"},
			"forge_study_evening": {Trigger: "0 20 * * *", RateLimitWindow: "20h"},
			"exam_countdown":      {Trigger: "@daily", RateLimitWindow: "22h"},
			"stale_applications":  {Trigger: "@daily", RateLimitWindow: "22h"},
			"session_crash":       {Trigger: "10m", RateLimitWindow: "2h"},
			"goal_staleness":      {Trigger: "@weekly", RateLimitWindow: "160h"},
			"time_allocation":     {Trigger: "@weekly", RateLimitWindow: "160h"},
			"network_decay":       {Trigger: "@weekly", RateLimitWindow: "160h"},
			"job_board_autofetch": {Trigger: "@weekly"},
			"feed_poll":           {Trigger: "30m"},
			"vault_sync":          {Trigger: "@hourly"},
			"trash_sweep":         {Trigger: "@daily"},
			"git_shadow":          {Trigger: "15m"},
			"daily_briefing":      {Trigger: "0 7 * * *"},
			"conversation_archive": {Trigger: "0 2 * * *"},
		},
	}
}
