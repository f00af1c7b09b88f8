package config

// MetricsConfig configures the loopback prometheus/health endpoint
// served for the scheduler daemon's job counters.
type MetricsConfig struct {
	ListenAddr string `yaml:"listen_addr" json:"listen_addr"`
}

// DefaultMetricsConfig returns a loopback-only default.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		ListenAddr: "127.0.0.1:9090",
	}
}
