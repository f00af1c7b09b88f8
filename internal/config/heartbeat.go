package config

// HeartbeatConfig configures the heartbeat checks (C6): the adaptive
// study thresholds, exam countdown window, staleness windows, and the
// per-person network-decay default.
type HeartbeatConfig struct {
	// ExamDate is the configured exam date (RFC3339 date, e.g. "2026-09-01").
	ExamDate string `yaml:"exam_date" json:"exam_date"`

	// ExamCountdownDays is how many days out the exam_countdown check starts firing.
	ExamCountdownDays int `yaml:"exam_countdown_days" json:"exam_countdown_days"`

	// ExamProximityDays is how close to the exam any due forge item
	// triggers a study notification, overriding ForgeDueThreshold.
	ExamProximityDays int `yaml:"exam_proximity_days" json:"exam_proximity_days"`

	// ForgeDueThreshold is the configured due-item count that triggers
	// forge_study_morning/_evening outside the exam proximity window.
	ForgeDueThreshold int `yaml:"forge_due_threshold" json:"forge_due_threshold"`

	// StaleApplicationDays flags applications with status=applied whose
	// applied_date is older than this many days.
	StaleApplicationDays int `yaml:"stale_application_days" json:"stale_application_days"`

	// SessionCrashIdleMinutes flags active session rows whose heartbeat
	// is older than this many minutes.
	SessionCrashIdleMinutes int `yaml:"session_crash_idle_minutes" json:"session_crash_idle_minutes"`

	// GoalStalenessDays flags active goals not updated within this window.
	GoalStalenessDays int `yaml:"goal_staleness_days" json:"goal_staleness_days"`

	// DefaultNetworkDecayDays is the fallback decay_threshold_days for
	// person entities that don't set their own.
	DefaultNetworkDecayDays int `yaml:"default_network_decay_days" json:"default_network_decay_days"`
}

// DefaultHeartbeatConfig returns the thresholds named in spec.md §4.6.
func DefaultHeartbeatConfig() HeartbeatConfig {
	return HeartbeatConfig{
		ExamDate:                "",
		ExamCountdownDays:       14,
		ExamProximityDays:       7,
		ForgeDueThreshold:       5,
		StaleApplicationDays:    14,
		SessionCrashIdleMinutes: 30,
		GoalStalenessDays:       14,
		DefaultNetworkDecayDays: 90,
	}
}
