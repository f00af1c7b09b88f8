package config

// DecayConfig holds a memory recency half-life and floor, loaded from
// config and the JAYBRAIN_HALF_LIFE_DAYS/floor env overrides and checked
// by Validate. internal/retrieval does not read it: its decay score uses
// that package's own constants (BaseHalfLifeDays and the rest).
type DecayConfig struct {
	HalfLifeDays float64 `yaml:"half_life_days" json:"half_life_days"`
	FloorScore   float64 `yaml:"floor_score" json:"floor_score"`
}

// DefaultDecayConfig returns the defaults implied by spec.md §8's
// invariants (half-life score of 0.5, floor of 0.05).
func DefaultDecayConfig() DecayConfig {
	return DecayConfig{
		HalfLifeDays: 14,
		FloorScore:   0.05,
	}
}
