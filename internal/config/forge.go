package config

// ForgeConfig holds the spaced-repetition engine's (C7) struggling/up-next
// thresholds and default queue length. internal/forge does not read it:
// its v1 and v2 queue builders use their own package constants.
type ForgeConfig struct {
	// StrugglingMasteryThreshold is the mastery_level below which a
	// reviewed concept is classified as struggling.
	StrugglingMasteryThreshold float64 `yaml:"struggling_mastery_threshold" json:"struggling_mastery_threshold"`

	// UpNextWindowDays is how far into the future next_review may fall
	// for a concept to land in the up_next bucket.
	UpNextWindowDays int `yaml:"up_next_window_days" json:"up_next_window_days"`

	// UpNextMasteryFloor/Ceiling bound the mastery range for up_next.
	UpNextMasteryFloor   float64 `yaml:"up_next_mastery_floor" json:"up_next_mastery_floor"`
	UpNextMasteryCeiling float64 `yaml:"up_next_mastery_ceiling" json:"up_next_mastery_ceiling"`

	// DefaultQueueLimit bounds the v2 interleaved queue length when the
	// caller doesn't specify one.
	DefaultQueueLimit int `yaml:"default_queue_limit" json:"default_queue_limit"`
}

// DefaultForgeConfig returns the thresholds implied by spec.md §4.7.
func DefaultForgeConfig() ForgeConfig {
	return ForgeConfig{
		StrugglingMasteryThreshold: 0.3,
		UpNextWindowDays:           3,
		UpNextMasteryFloor:         0.3,
		UpNextMasteryCeiling:       0.7,
		DefaultQueueLimit:          20,
	}
}
