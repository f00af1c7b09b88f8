package config

// NotifyConfig configures the notification dispatcher: the outbound
// message length budget and the default rate-limit window for checks
// that don't name their own (see SchedulerConfig.Jobs).
type NotifyConfig struct {
	// MessageMaxChars is the outbound send_message length budget
	// (spec.md §6: 4096 chars, chunking is the caller's responsibility).
	MessageMaxChars int `yaml:"message_max_chars" json:"message_max_chars"`

	// DefaultRateLimitWindow applies to any dispatch_notification call
	// whose check_name has no entry in SchedulerConfig.Jobs.
	DefaultRateLimitWindow string `yaml:"default_rate_limit_window" json:"default_rate_limit_window"`
}

// DefaultNotifyConfig returns the budget named in spec.md §6.
func DefaultNotifyConfig() NotifyConfig {
	return NotifyConfig{
		MessageMaxChars:        4096,
		DefaultRateLimitWindow: "24h",
	}
}
