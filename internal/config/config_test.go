package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "jaybrain", cfg.Name)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "ollama", cfg.Embedding.Provider)
	assert.Equal(t, 4, cfg.Concurrency.SchedulerWorkerPoolSize)
	require.NoError(t, cfg.Validate())
}

func TestConfig_SaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Heartbeat.ExamDate = "2026-09-01"
	cfg.Decay.HalfLifeDays = 21

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "2026-09-01", loaded.Heartbeat.ExamDate)
	assert.Equal(t, 21.0, loaded.Decay.HalfLifeDays)
}

func TestConfig_LoadMissingFileReturnsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "does-not-exist.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().DataDir, cfg.DataDir)
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("JAYBRAIN_HALF_LIFE_DAYS", "30")
	t.Setenv("JAYBRAIN_EXAM_DATE", "2026-12-01")
	t.Setenv("JAYBRAIN_SSRF_ALLOW_HOSTS", "internal.example.com,metrics.example.com")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, 30.0, cfg.Decay.HalfLifeDays)
	assert.Equal(t, "2026-12-01", cfg.Heartbeat.ExamDate)
	assert.Equal(t, []string{"internal.example.com", "metrics.example.com"}, cfg.Security.SSRFAllowHosts)
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Decay.HalfLifeDays = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Embedding.Provider = "not-a-real-provider"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Concurrency.SchedulerWorkerPoolSize = 0
	assert.Error(t, cfg.Validate())
}

func TestEmbeddingConfig_ModelPath(t *testing.T) {
	cfg := DefaultEmbeddingConfig()
	assert.Equal(t, cfg.OllamaModel, cfg.ModelPath())

	cfg.Provider = "genai"
	assert.Equal(t, cfg.GenAIModel, cfg.ModelPath())

	cfg.SetModelPath("gemini-embedding-002")
	assert.Equal(t, "gemini-embedding-002", cfg.GenAIModel)
}
