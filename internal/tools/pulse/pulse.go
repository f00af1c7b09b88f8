// Package pulse wires the live-session visibility tool surface
// (get_active_sessions/get_session_activity/query_session/
// get_session_context) onto internal/store/session_store.go's
// claude_sessions/session_activity_log tables (C4), delegating needle
// resolution and transcript parsing to internal/pulse.
package pulse

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"jaybrain/internal/logging"
	"jaybrain/internal/pulse"
	"jaybrain/internal/store"
	"jaybrain/internal/tools"
)

var (
	st          *store.Store
	projectsDir string
)

// allActivityLimit stands in for "no limit" when aggregating tool_usage
// across a session's whole activity log; SessionActivity's LIMIT clause
// treats 0 as zero rows, not unlimited.
const allActivityLimit = 1_000_000

// Init wires the package-level store and the transcripts directory
// (config.PulseConfig.ProjectsDir).
func Init(s *store.Store, transcriptsDir string) {
	st = s
	projectsDir = transcriptsDir
}

// GetActiveSessionsTool returns a tool listing sessions heartbeating
// recently, plus sessions that ended within the last 24h.
func GetActiveSessionsTool() *tools.Tool {
	return &tools.Tool{
		Name:        "pulse_get_active_sessions",
		Description: "List Claude Code sessions that have heartbeated recently, plus recently ended ones",
		Category:    tools.CategoryPulse,
		Priority:    65,
		Execute:     executeGetActiveSessions,
		Schema: tools.ToolSchema{
			Properties: map[string]tools.Property{
				"stale_cutoff_seconds": {Type: "integer", Description: "Staleness window in seconds, default 300", Default: 300},
			},
		},
	}
}

func executeGetActiveSessions(ctx context.Context, args map[string]any) (string, error) {
	if !st.HasPulseTables() {
		return "status=no_data", nil
	}

	cutoff := intArg(args["stale_cutoff_seconds"], 300)
	active, err := st.ActiveClaudeSessions(cutoff)
	if err != nil {
		return "", fmt.Errorf("pulse_get_active_sessions: %w", err)
	}
	ended, err := st.RecentlyEndedClaudeSessions(24)
	if err != nil {
		return "", fmt.Errorf("pulse_get_active_sessions: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "status=ok active_count=%d\n", len(active))
	for _, cs := range active {
		fmt.Fprintf(&b, "[active] %s %.1fm ago (%d tool calls, last: %s) in %s\n",
			cs.SessionID, minutesSince(cs.LastHeartbeat), cs.ToolCount, cs.LastTool, cs.Cwd)
	}
	for _, cs := range ended {
		fmt.Fprintf(&b, "[recently_ended] %s ended %.1fm ago in %s\n",
			cs.SessionID, minutesSince(cs.LastHeartbeat), cs.Cwd)
	}
	if len(active) == 0 && len(ended) == 0 {
		b.WriteString("no active or recently ended sessions\n")
	}
	return b.String(), nil
}

func minutesSince(t time.Time) float64 {
	if t.IsZero() {
		return -1
	}
	return time.Since(t).Minutes()
}

// GetSessionActivityTool returns a tool listing a session's recent
// tool-use activity.
func GetSessionActivityTool() *tools.Tool {
	return &tools.Tool{
		Name:        "pulse_get_session_activity",
		Description: "List a session's recent tool-use activity, oldest first",
		Category:    tools.CategoryPulse,
		Priority:    65,
		Execute:     executeGetSessionActivity,
		Schema: tools.ToolSchema{
			Properties: map[string]tools.Property{
				"session_id": {Type: "string", Description: "The session id; omit to list across all sessions"},
				"limit":      {Type: "integer", Description: "Max entries, default 50", Default: 50},
			},
		},
	}
}

func executeGetSessionActivity(ctx context.Context, args map[string]any) (string, error) {
	if !st.HasPulseTables() {
		return "status=no_data", nil
	}

	sessionID, _ := args["session_id"].(string)
	limit := intArg(args["limit"], 50)
	var (
		activity []store.SessionActivityLogEntry
		err      error
	)
	if sessionID == "" {
		activity, err = st.AllSessionActivity(limit)
	} else {
		activity, err = st.SessionActivity(sessionID, limit)
	}
	if err != nil {
		return "", fmt.Errorf("pulse_get_session_activity: %w", err)
	}
	if len(activity) == 0 {
		return "status=ok count=0", nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "status=ok count=%d\n", len(activity))
	for _, a := range activity {
		fmt.Fprintf(&b, "%s %s %s %s: %s\n", a.Timestamp.Format("15:04:05"), a.SessionID, a.EventType, a.ToolName, a.ToolInputSummary)
	}
	return b.String(), nil
}

// QuerySessionTool returns a tool resolving a needle against known
// session ids and reporting the matched session's tool_usage.
func QuerySessionTool() *tools.Tool {
	return &tools.Tool{
		Name:        "pulse_query_session",
		Description: "Resolve a session id or prefix and report its status and tool-usage breakdown",
		Category:    tools.CategoryPulse,
		Priority:    60,
		Execute:     executeQuerySession,
		Schema: tools.ToolSchema{
			Required: []string{"needle"},
			Properties: map[string]tools.Property{
				"needle": {Type: "string", Description: "Exact session id or a substring of one"},
			},
		},
	}
}

func executeQuerySession(ctx context.Context, args map[string]any) (string, error) {
	if !st.HasPulseTables() {
		return "status=no_data", nil
	}

	needle, _ := args["needle"].(string)
	if needle == "" {
		return "", fmt.Errorf("needle is required")
	}

	ids, err := st.AllClaudeSessionIDs()
	if err != nil {
		return "", fmt.Errorf("pulse_query_session: %w", err)
	}
	res := pulse.ResolveNeedle(ids, needle)

	switch res.Status {
	case pulse.ResolveNotFound:
		return "status=not_found", nil
	case pulse.ResolveAmbiguous:
		return fmt.Sprintf("status=ambiguous matches=%s", strings.Join(res.Matches, ", ")), nil
	}

	cs, err := st.GetClaudeSession(res.Match)
	if err != nil {
		return "", fmt.Errorf("pulse_query_session: %w", err)
	}
	if cs == nil {
		return "status=not_found", nil
	}
	activity, err := st.SessionActivity(cs.SessionID, allActivityLimit)
	if err != nil {
		return "", fmt.Errorf("pulse_query_session: %w", err)
	}

	usage := make(map[string]int)
	for _, a := range activity {
		if a.ToolName != "" {
			usage[a.ToolName]++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "status=ok session_id=%s status_field=%s cwd=%s tool_count=%d\n",
		cs.SessionID, cs.Status, cs.Cwd, cs.ToolCount)
	b.WriteString("tool_usage:\n")
	for name, count := range usage {
		fmt.Fprintf(&b, "  %s: %d\n", name, count)
	}
	return b.String(), nil
}

// GetSessionContextTool returns a tool that opens a session's JSONL
// transcript file and renders its recent turns.
func GetSessionContextTool() *tools.Tool {
	return &tools.Tool{
		Name:        "pulse_get_session_context",
		Description: "Parse a session's transcript and return its opening and recent turns, or a snippet window",
		Category:    tools.CategoryPulse,
		Priority:    70,
		Execute:     executeGetSessionContext,
		Schema: tools.ToolSchema{
			Required: []string{"session_id_or_prefix"},
			Properties: map[string]tools.Property{
				"session_id_or_prefix": {Type: "string", Description: "Session id or a prefix of its transcript filename"},
				"last_n":               {Type: "integer", Description: "Number of recent turns to return, default 5", Default: 5},
				"snippet":              {Type: "string", Description: "Find the first turn containing this text (case-insensitive)"},
			},
		},
	}
}

func executeGetSessionContext(ctx context.Context, args map[string]any) (string, error) {
	idOrPrefix, _ := args["session_id_or_prefix"].(string)
	if idOrPrefix == "" {
		return "", fmt.Errorf("session_id_or_prefix is required")
	}
	lastN := intArg(args["last_n"], 5)
	snippet, _ := args["snippet"].(string)

	path, err := pulse.FindTranscriptFile(projectsDir, idOrPrefix)
	if err != nil {
		return "", fmt.Errorf("pulse_get_session_context: %w", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("pulse_get_session_context: %w", err)
	}
	defer f.Close()

	turns, err := pulse.ParseTranscript(f)
	if err != nil {
		return "", fmt.Errorf("pulse_get_session_context: %w", err)
	}

	built := pulse.BuildContext(turns, lastN, snippet)

	var b strings.Builder
	fmt.Fprintf(&b, "status=%s file=%s\n", built.Status, path)
	if len(built.Opening) > 0 {
		b.WriteString("opening:\n")
		for _, t := range built.Opening {
			fmt.Fprintf(&b, "  [%s] %s\n", t.Role, t.Text)
		}
	}
	b.WriteString("turns:\n")
	for _, t := range built.Turns {
		fmt.Fprintf(&b, "  [%s] %s\n", t.Role, t.Text)
	}

	logging.Pulse("pulse_get_session_context: %s -> %s (%d turns)", idOrPrefix, path, len(turns))
	return b.String(), nil
}

func intArg(v any, def int) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return def
	}
}
