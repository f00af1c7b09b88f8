//go:build integration

package browser_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jaybrain/internal/browser"

	"github.com/stretchr/testify/require"
)

func TestSessionManagerNavigationIntegration(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "<html><body><h1>Hello World</h1></body></html>")
	}))
	defer ts.Close()

	cfg := browser.DefaultConfig()
	cfg.Headless = true
	cfg.NavigationTimeoutMs = 10000
	cfg.EventThrottleMs = 10

	sm := browser.NewSessionManager(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	defer func() {
		if err := sm.Shutdown(context.Background()); err != nil {
			t.Logf("shutdown error: %v", err)
		}
	}()

	require.NoError(t, sm.Start(ctx), "failed to start browser")

	session, err := sm.CreateSession(ctx, ts.URL)
	require.NoError(t, err, "failed to create session")
	require.NotEmpty(t, session.ID)
	require.Equal(t, ts.URL, session.URL)

	retrieved, ok := sm.GetSession(session.ID)
	require.True(t, ok)
	require.Equal(t, "active", retrieved.Status)

	text, err := sm.ExtractText(ctx, session.ID, "h1")
	require.NoError(t, err, "failed to extract text")
	require.Equal(t, "Hello World", text)

	targetURL := ts.URL + "/page2"
	require.NoError(t, sm.Navigate(ctx, session.ID, targetURL), "failed to navigate to second page")

	require.Eventually(t, func() bool {
		s, ok := sm.GetSession(session.ID)
		return ok && s.URL == targetURL
	}, 10*time.Second, 100*time.Millisecond, "expected session metadata to reflect the second navigation")

	require.NoError(t, sm.CloseSession(session.ID))
	require.Empty(t, sm.List())
}

func TestSessionManagerInteractionIntegration(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintln(w, `
			<html>
			<body>
				<button id="btn1">Click Me</button>
				<input id="inp1" type="text" />
			</body>
			</html>
		`)
	}))
	defer ts.Close()

	cfg := browser.DefaultConfig()
	cfg.Headless = true
	cfg.NavigationTimeoutMs = 10000
	cfg.EventThrottleMs = 10

	sm := browser.NewSessionManager(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	defer func() {
		if err := sm.Shutdown(context.Background()); err != nil {
			t.Logf("shutdown error: %v", err)
		}
	}()

	require.NoError(t, sm.Start(ctx), "failed to start browser")

	session, err := sm.CreateSession(ctx, ts.URL)
	require.NoError(t, err, "failed to create session")

	require.NoError(t, sm.Click(ctx, session.ID, "#btn1"), "failed to click button")
	require.NoError(t, sm.Type(ctx, session.ID, "#inp1", "hello"), "failed to type text")

	shot, err := sm.Screenshot(ctx, session.ID, false)
	require.NoError(t, err, "failed to capture screenshot")
	require.NotEmpty(t, shot)
}

func TestSessionManagerForkSessionCopiesStorageIntegration(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "<html><body>fork target</body></html>")
	}))
	defer ts.Close()

	cfg := browser.DefaultConfig()
	cfg.Headless = true
	cfg.NavigationTimeoutMs = 10000

	sm := browser.NewSessionManager(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	defer sm.Shutdown(context.Background())

	require.NoError(t, sm.Start(ctx))
	session, err := sm.CreateSession(ctx, ts.URL)
	require.NoError(t, err)

	forked, err := sm.ForkSession(ctx, session.ID, "")
	require.NoError(t, err)
	require.NotEqual(t, session.ID, forked.ID)
	require.Equal(t, "forked", forked.Status)
}
