package config

// HooksConfig configures the hook-ingest pipeline (C3): retry behavior
// against SQLITE_BUSY and the pruning cadence on SessionActivity.
type HooksConfig struct {
	// BusyRetryMax is the number of retries on SQLITE_BUSY before giving up.
	BusyRetryMax int `yaml:"busy_retry_max" json:"busy_retry_max"`

	// BusyRetryBaseDelay is the base delay for exponential backoff between retries.
	BusyRetryBaseDelay string `yaml:"busy_retry_base_delay" json:"busy_retry_base_delay"`

	// PruneEveryN triggers a pruning pass on SessionActivity roughly
	// once every N hook invocations (spec.md's "1-in-50" cadence).
	PruneEveryN int `yaml:"prune_every_n" json:"prune_every_n"`
}

// DefaultHooksConfig returns the defaults spec.md names for hook ingest.
func DefaultHooksConfig() HooksConfig {
	return HooksConfig{
		BusyRetryMax:       3,
		BusyRetryBaseDelay: "100ms",
		PruneEveryN:        50,
	}
}
