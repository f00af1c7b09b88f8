package hooks

import (
	"context"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"jaybrain/internal/logging"
	"jaybrain/internal/store"
)

// staleSessionCutoffHours is the "48h" window spec.md names for both
// the activity-log prune and the stale-session auto-close.
const staleSessionCutoffHours = 48
const staleSessionCutoffDays = staleSessionCutoffHours / 24

// Handler processes hook events against a store, retrying writes on a
// busy database and running the 1-in-50 pruning pass.
type Handler struct {
	store       *store.Store
	retryMax    int
	retryBase   time.Duration
	pruneEveryN int
	invocations int
}

// NewHandler builds a Handler. retryMax/retryBase/pruneEveryN come from
// config.HooksConfig.
func NewHandler(s *store.Store, retryMax int, retryBase time.Duration, pruneEveryN int) *Handler {
	return &Handler{store: s, retryMax: retryMax, retryBase: retryBase, pruneEveryN: pruneEveryN}
}

// Handle dispatches one event. It never returns an error the caller
// should surface to the assistant host: every failure is logged and
// swallowed, matching spec.md's "never raise to the host" contract.
// The bool return reports whether the event was recognised and its write
// succeeded, for tests.
func (h *Handler) Handle(ctx context.Context, e *Event) bool {
	if e == nil {
		return false
	}

	var err error
	switch e.HookEventName {
	case SessionStart:
		err = h.withRetry(func() error { return h.handleSessionStart(e) })
	case PostToolUse, PostToolUseFailure:
		err = h.withRetry(func() error { return h.handlePostToolUse(e) })
	case Stop:
		err = h.withRetry(func() error { return h.store.TouchClaudeSessionHeartbeat(e.SessionID) })
	case SessionEnd:
		err = h.withRetry(func() error { return h.store.MarkClaudeSessionStatus(e.SessionID, "ended") })
	case PreCompact:
		start := time.Now()
		err = h.withRetry(func() error { return h.handlePreCompact(e) })
		if elapsed := time.Since(start); elapsed > 4*time.Second {
			logging.Hooks("pre_compact exceeded 4s budget: %s", elapsed)
		}
	default:
		logging.Hooks("unknown hook_event_name %q", e.HookEventName)
		return false
	}

	if err != nil {
		logging.Hooks("hook write failed for %s/%s: %v", e.HookEventName, e.SessionID, err)
	}

	h.invocations++
	if h.pruneEveryN > 0 && h.invocations%h.pruneEveryN == 0 {
		h.prune()
	}
	return err == nil
}

func (h *Handler) handleSessionStart(e *Event) error {
	now := time.Now().UTC()
	return h.store.UpsertClaudeSession(store.ClaudeSession{
		SessionID:     e.SessionID,
		Cwd:           e.Cwd,
		StartedAt:     now,
		LastHeartbeat: now,
		Status:        "active",
	})
}

func (h *Handler) handlePostToolUse(e *Event) error {
	summary := SummarizeToolInput(e.ToolInput)
	now := time.Now().UTC()
	if err := h.store.UpsertClaudeSession(store.ClaudeSession{
		SessionID:     e.SessionID,
		Cwd:           e.Cwd,
		StartedAt:     now,
		LastHeartbeat: now,
		Status:        "active",
		LastTool:      e.ToolName,
		LastToolInput: summary,
	}); err != nil {
		return err
	}
	return h.store.LogSessionActivity(store.SessionActivityLogEntry{
		SessionID:        e.SessionID,
		EventType:        string(e.HookEventName),
		ToolName:         e.ToolName,
		ToolInputSummary: summary,
	})
}

func (h *Handler) handlePreCompact(e *Event) error {
	return h.store.UpsertSessionCheckpoint(e.SessionID, "checkpoint before context compaction")
}

func (h *Handler) prune() {
	deleted, err := h.store.PruneSessionActivity(staleSessionCutoffDays)
	if err != nil {
		logging.Hooks("prune pass failed: %v", err)
		return
	}
	staled, err := h.store.EndStaleClaudeSessions(staleSessionCutoffHours)
	if err != nil {
		logging.Hooks("stale-session close failed: %v", err)
		return
	}
	logging.Hooks("prune pass: deleted %d activity rows, closed %d stale sessions", deleted, staled)
}

// withRetry wraps a write with exponential backoff on a busy database,
// on top of the connection's own busy_timeout, since a hook script uses
// a short-lived dedicated connection and spec.md calls for its own
// backoff ladder (100ms, 200ms, 400ms across 3 retries).
func (h *Handler) withRetry(write func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = h.retryBase
	b.Multiplier = 2
	b.MaxElapsedTime = 0
	bo := backoff.WithMaxRetries(b, uint64(h.retryMax))

	return backoff.Retry(func() error {
		err := write()
		if err == nil || !isBusyError(err) {
			return backoff.Permanent(err)
		}
		return err
	}, bo)
}

func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "locked") || strings.Contains(msg, "busy")
}
