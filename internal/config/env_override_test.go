package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides_DataDir(t *testing.T) {
	t.Setenv("JAYBRAIN_DATA_DIR", "/tmp/jaybrain-data")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, "/tmp/jaybrain-data", cfg.DataDir)
}

func TestEnvOverrides_DatabasePath(t *testing.T) {
	t.Setenv("JAYBRAIN_DATABASE_PATH", "/tmp/custom.store")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, "/tmp/custom.store", cfg.Store.DatabasePath)
}

func TestEnvOverrides_EmbeddingModelPath(t *testing.T) {
	t.Run("ollama provider", func(t *testing.T) {
		t.Setenv("JAYBRAIN_EMBEDDING_MODEL_PATH", "nomic-embed-text")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "nomic-embed-text", cfg.Embedding.OllamaModel)
	})

	t.Run("genai provider", func(t *testing.T) {
		t.Setenv("JAYBRAIN_EMBEDDING_PROVIDER", "genai")
		t.Setenv("JAYBRAIN_EMBEDDING_MODEL_PATH", "gemini-embedding-002")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "genai", cfg.Embedding.Provider)
		assert.Equal(t, "gemini-embedding-002", cfg.Embedding.GenAIModel)
	})
}

func TestEnvOverrides_SessionCrashIdleMinutes(t *testing.T) {
	t.Setenv("JAYBRAIN_SESSION_CRASH_IDLE_MINUTES", "45")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, 45, cfg.Heartbeat.SessionCrashIdleMinutes)
}

func TestEnvOverrides_StaleApplicationDays(t *testing.T) {
	t.Setenv("JAYBRAIN_STALE_APPLICATION_DAYS", "7")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, 7, cfg.Heartbeat.StaleApplicationDays)
}

func TestEnvOverrides_NotifyRateLimitWindow(t *testing.T) {
	t.Setenv("JAYBRAIN_NOTIFY_RATE_LIMIT_WINDOW", "12h")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, "12h", cfg.Notify.DefaultRateLimitWindow)
}

func TestEnvOverrides_InvalidNumericValuesIgnored(t *testing.T) {
	t.Setenv("JAYBRAIN_HALF_LIFE_DAYS", "not-a-number")

	cfg := DefaultConfig()
	want := cfg.Decay.HalfLifeDays
	cfg.applyEnvOverrides()

	assert.Equal(t, want, cfg.Decay.HalfLifeDays)
}
