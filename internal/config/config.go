package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"jaybrain/internal/logging"

	"gopkg.in/yaml.v3"
)

// Config holds all JayBrain configuration, loaded from data/config.yaml
// and overridable by JAYBRAIN_* environment variables.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// DataDir is the base directory for the store, logs, trash, and pid/lock files.
	DataDir string `yaml:"data_dir"`

	Store       StoreConfig       `yaml:"store"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	Decay       DecayConfig       `yaml:"decay"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Hooks       HooksConfig       `yaml:"hooks"`
	Pulse       PulseConfig       `yaml:"pulse"`
	Scheduler   SchedulerConfig   `yaml:"scheduler"`
	Heartbeat   HeartbeatConfig   `yaml:"heartbeat"`
	Forge       ForgeConfig       `yaml:"forge"`
	Notify      NotifyConfig      `yaml:"notify"`
	Security    SecurityConfig    `yaml:"security"`
	Jobs        JobsConfig        `yaml:"jobs"`
	Browser     BrowserConfig     `yaml:"browser"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "jaybrain",
		Version: "0.1.0",
		DataDir: "data",

		Store:       DefaultStoreConfig(),
		Embedding:   DefaultEmbeddingConfig(),
		Decay:       DefaultDecayConfig(),
		Concurrency: DefaultConcurrencyConfig(),
		Hooks:       DefaultHooksConfig(),
		Pulse:       DefaultPulseConfig(),
		Scheduler:   DefaultSchedulerConfig(),
		Heartbeat:   DefaultHeartbeatConfig(),
		Forge:       DefaultForgeConfig(),
		Notify:      DefaultNotifyConfig(),
		Security:    DefaultSecurityConfig(),
		Jobs:        DefaultJobsConfig(),
		Browser:     DefaultBrowserConfig(),
		Metrics:     DefaultMetricsConfig(),
		Logging: LoggingConfig{
			Level:     "info",
			DebugMode: false,
		},
	}
}

// Load reads a Config from a YAML file, falling back to defaults for
// anything the file doesn't set, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	logging.BootDebug("Loading config from: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Boot("Config file not found, using defaults: %s", path)
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		logging.BootError("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		logging.BootError("Failed to parse config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	logging.Boot("Config loaded: data_dir=%s embedding_provider=%s", cfg.DataDir, cfg.Embedding.Provider)
	return cfg, nil
}

// Save writes the config to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides fills in config fields from JAYBRAIN_* environment
// variables. Every runtime threshold named in spec.md's "Config via
// environment" section (half-life, idle threshold, rate-limit windows,
// SSRF allow-set, exam date, embedding model path) is represented here.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("JAYBRAIN_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("JAYBRAIN_DATABASE_PATH"); v != "" {
		c.Store.DatabasePath = v
	}
	if v := os.Getenv("JAYBRAIN_HALF_LIFE_DAYS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Decay.HalfLifeDays = f
		}
	}
	if v := os.Getenv("JAYBRAIN_DECAY_FLOOR"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Decay.FloorScore = f
		}
	}
	if v := os.Getenv("JAYBRAIN_EMBEDDING_PROVIDER"); v != "" {
		c.Embedding.Provider = v
	}
	if v := os.Getenv("JAYBRAIN_EMBEDDING_MODEL_PATH"); v != "" {
		c.Embedding.SetModelPath(v)
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && c.Embedding.GenAIAPIKey == "" {
		c.Embedding.GenAIAPIKey = v
	}
	if v := os.Getenv("OLLAMA_ENDPOINT"); v != "" {
		c.Embedding.OllamaEndpoint = v
	}
	if v := os.Getenv("JAYBRAIN_SESSION_CRASH_IDLE_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Heartbeat.SessionCrashIdleMinutes = n
		}
	}
	if v := os.Getenv("JAYBRAIN_EXAM_DATE"); v != "" {
		c.Heartbeat.ExamDate = v
	}
	if v := os.Getenv("JAYBRAIN_STALE_APPLICATION_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Heartbeat.StaleApplicationDays = n
		}
	}
	if v := os.Getenv("JAYBRAIN_NOTIFY_RATE_LIMIT_WINDOW"); v != "" {
		c.Notify.DefaultRateLimitWindow = v
	}
	if v := os.Getenv("JAYBRAIN_SSRF_ALLOW_HOSTS"); v != "" {
		c.Security.SSRFAllowHosts = strings.Split(v, ",")
	}
	if v := os.Getenv("JAYBRAIN_IDLE_THRESHOLD_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Jobs.IdleThresholdMinutes = n
		}
	}
}

// Validate checks the config for obviously invalid values.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if c.Decay.HalfLifeDays <= 0 {
		return fmt.Errorf("decay.half_life_days must be > 0")
	}
	if c.Decay.FloorScore < 0 || c.Decay.FloorScore > 1 {
		return fmt.Errorf("decay.floor_score must be in [0, 1]")
	}
	switch c.Embedding.Provider {
	case "ollama", "genai":
	default:
		return fmt.Errorf("embedding.provider must be 'ollama' or 'genai', got %q", c.Embedding.Provider)
	}
	if c.Concurrency.SchedulerWorkerPoolSize < 1 {
		return fmt.Errorf("concurrency.scheduler_worker_pool_size must be >= 1")
	}
	return nil
}
