package browser

import "testing"

func TestDefaultConfigFallbacks(t *testing.T) {
	var c Config
	if w := c.GetViewportWidth(); w != 1920 {
		t.Fatalf("expected default viewport width 1920, got %d", w)
	}
	if h := c.GetViewportHeight(); h != 1080 {
		t.Fatalf("expected default viewport height 1080, got %d", h)
	}
	if d := c.NavigationTimeout(); d.Seconds() != 30 {
		t.Fatalf("expected default navigation timeout of 30s, got %v", d)
	}
}

func TestDefaultConfigRespectsOverrides(t *testing.T) {
	c := Config{ViewportWidth: 800, ViewportHeight: 600, NavigationTimeoutMs: 5000}
	if w := c.GetViewportWidth(); w != 800 {
		t.Fatalf("expected overridden width 800, got %d", w)
	}
	if h := c.GetViewportHeight(); h != 600 {
		t.Fatalf("expected overridden height 600, got %d", h)
	}
	if d := c.NavigationTimeout(); d.Seconds() != 5 {
		t.Fatalf("expected overridden timeout of 5s, got %v", d)
	}
}

func TestEventThrottlerAllowsFirstThenThrottles(t *testing.T) {
	th := newEventThrottler(1000 * 60) // 1 minute, long enough not to flake
	if !th.Allow("click") {
		t.Fatal("expected the first call for a key to be allowed")
	}
	if th.Allow("click") {
		t.Fatal("expected a second call within the interval to be throttled")
	}
	if !th.Allow("input") {
		t.Fatal("expected a different key to be allowed independently")
	}
}

func TestEventThrottlerNilIsAlwaysAllowed(t *testing.T) {
	var th *eventThrottler
	if !th.Allow("anything") {
		t.Fatal("expected a nil throttler (EventThrottleMs<=0) to always allow")
	}
}
