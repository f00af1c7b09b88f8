package config

// BrowserConfig configures the headless-Chrome automation sessions behind
// the browser_* tools (C9).
type BrowserConfig struct {
	// DebuggerURL, when set, connects to an already-running Chrome's
	// DevTools WebSocket instead of launching one.
	DebuggerURL string `yaml:"debugger_url" json:"debugger_url"`

	// Launch is the binary path followed by extra CLI flags for a
	// launched Chrome, e.g. ["google-chrome", "--disable-gpu"].
	Launch []string `yaml:"launch" json:"launch"`

	Headless            bool   `yaml:"headless" json:"headless"`
	ViewportWidth       int    `yaml:"viewport_width" json:"viewport_width"`
	ViewportHeight      int    `yaml:"viewport_height" json:"viewport_height"`
	NavigationTimeoutMs int    `yaml:"navigation_timeout_ms" json:"navigation_timeout_ms"`
	SessionStore        string `yaml:"session_store" json:"session_store"`

	// EventLoggingLevel is one of off, minimal, normal, verbose.
	EventLoggingLevel string `yaml:"event_logging_level" json:"event_logging_level"`
	EventThrottleMs   int    `yaml:"event_throttle_ms" json:"event_throttle_ms"`
}

// DefaultBrowserConfig returns the defaults for browser automation.
func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		Headless:            true,
		ViewportWidth:       1920,
		ViewportHeight:      1080,
		NavigationTimeoutMs: 30000,
		SessionStore:        "data/browser/sessions.json",
		EventLoggingLevel:   "normal",
		EventThrottleMs:     100,
	}
}
