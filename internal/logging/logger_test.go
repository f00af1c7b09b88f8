package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func resetLoggingState() {
	CloseAll()
	loggers = make(map[Category]*Logger)
	logsDir = ""
	dataDir = ""
	config = loggingConfig{}
	configLoaded = false
}

// TestAllCategoriesLog verifies every category produces a log file when debug_mode is true.
func TestAllCategoriesLog(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configContent := `
logging:
  level: debug
  debug_mode: true
  categories:
    boot: true
    store: true
    retrieval: true
    hooks: true
    pulse: true
    scheduler: true
    heartbeat: true
    forge: true
    graph: true
    tools: true
    jobs: true
    notify: true
    security: true
    embedding: true
    browser: true
    mcp: true
`
	if err := os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	resetLoggingState()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	if !IsDebugMode() {
		t.Error("Expected debug mode to be enabled")
	}

	categories := []Category{
		CategoryBoot, CategoryStore, CategoryRetrieval, CategoryHooks, CategoryPulse,
		CategoryScheduler, CategoryHeartbeat, CategoryForge, CategoryGraph, CategoryTools,
		CategoryJobs, CategoryNotify, CategorySecurity, CategoryEmbedding, CategoryBrowser,
		CategoryMCP,
	}

	for _, cat := range categories {
		if !IsCategoryEnabled(cat) {
			t.Errorf("Category %s should be enabled", cat)
		}
		logger := Get(cat)
		logger.Info("info message for %s", cat)
		logger.Debug("debug message for %s", cat)
		logger.Warn("warn message for %s", cat)
		logger.Error("error message for %s", cat)
	}

	Boot("convenience boot log")
	Store("convenience store log")
	Retrieval("convenience retrieval log")
	Hooks("convenience hooks log")
	Pulse("convenience pulse log")
	Scheduler("convenience scheduler log")
	Heartbeat("convenience heartbeat log")
	Forge("convenience forge log")
	Graph("convenience graph log")
	Tools("convenience tools log")
	Jobs("convenience jobs log")
	Notify("convenience notify log")
	Security("convenience security log")
	Embedding("convenience embedding log")
	Browser("convenience browser log")

	CloseAll()

	logsPath := filepath.Join(tempDir, "logs")
	entries, err := os.ReadDir(logsPath)
	if err != nil {
		t.Fatalf("Failed to read logs dir: %v", err)
	}

	for _, cat := range categories {
		found := false
		for _, entry := range entries {
			if strings.Contains(entry.Name(), string(cat)+".log") {
				found = true
				content, err := os.ReadFile(filepath.Join(logsPath, entry.Name()))
				if err != nil {
					t.Errorf("Failed to read log file for %s: %v", cat, err)
					continue
				}
				if len(content) == 0 {
					t.Errorf("Log file for %s is empty", cat)
				}
				break
			}
		}
		if !found {
			t.Errorf("No log file found for category: %s", cat)
		}
	}
}

// TestDebugModeDisabled verifies no logs are written when debug_mode is false.
func TestDebugModeDisabled(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_test_disabled")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configContent := `
logging:
  level: debug
  debug_mode: false
  categories:
    boot: true
    store: true
`
	if err := os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	resetLoggingState()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	if IsDebugMode() {
		t.Error("Expected debug mode to be DISABLED")
	}

	categories := []Category{CategoryBoot, CategoryStore, CategoryRetrieval}
	for _, cat := range categories {
		if IsCategoryEnabled(cat) {
			t.Errorf("Category %s should be DISABLED when debug_mode=false", cat)
		}
	}

	Boot("this should NOT be logged")
	Store("this should NOT be logged")

	logger := Get(CategoryBoot)
	logger.Info("this should NOT be logged")
	logger.Debug("this should NOT be logged")
	logger.Error("this should NOT be logged")

	CloseAll()

	logsPath := filepath.Join(tempDir, "logs")
	if entries, err := os.ReadDir(logsPath); err == nil && len(entries) > 0 {
		t.Errorf("Expected NO log files in production mode, but found %d files", len(entries))
	}
}

// TestCategoryToggle verifies per-category enable/disable overrides.
func TestCategoryToggle(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_test_category")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configContent := `
logging:
  level: debug
  debug_mode: true
  categories:
    boot: true
    store: true
    hooks: false
    pulse: false
`
	if err := os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	resetLoggingState()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	if !IsCategoryEnabled(CategoryBoot) {
		t.Error("boot should be enabled")
	}
	if !IsCategoryEnabled(CategoryStore) {
		t.Error("store should be enabled")
	}
	if IsCategoryEnabled(CategoryHooks) {
		t.Error("hooks should be DISABLED")
	}
	if IsCategoryEnabled(CategoryPulse) {
		t.Error("pulse should be DISABLED")
	}

	// Category absent from config defaults to enabled when debug_mode=true.
	if !IsCategoryEnabled(CategoryForge) {
		t.Error("forge (not in config) should default to enabled")
	}

	Boot("this SHOULD be logged")
	Store("this SHOULD be logged")
	Hooks("this should NOT be logged")
	Pulse("this should NOT be logged")
	Forge("this SHOULD be logged (default enabled)")

	CloseAll()

	logsPath := filepath.Join(tempDir, "logs")
	entries, _ := os.ReadDir(logsPath)

	var hasBoot, hasStore, hasHooks, hasPulse bool
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.Contains(name, "boot"):
			hasBoot = true
		case strings.Contains(name, "store"):
			hasStore = true
		case strings.Contains(name, "hooks"):
			hasHooks = true
		case strings.Contains(name, "pulse"):
			hasPulse = true
		}
	}

	if !hasBoot {
		t.Error("Expected boot log file")
	}
	if !hasStore {
		t.Error("Expected store log file")
	}
	if hasHooks {
		t.Error("Should NOT have hooks log file (disabled)")
	}
	if hasPulse {
		t.Error("Should NOT have pulse log file (disabled)")
	}
}

// TestTimerLogging exercises the timing helper.
func TestTimerLogging(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_test_timer")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configContent := "logging:\n  level: debug\n  debug_mode: true\n"
	os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0644)

	resetLoggingState()
	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	timer := StartTimer(CategoryScheduler, "TestOperation")
	time.Sleep(time.Millisecond)
	elapsed := timer.Stop()

	if elapsed <= 0 {
		t.Error("Timer should have recorded non-zero duration")
	}

	CloseAll()
}
