// Package logging provides audit logging that emits structured, queryable
// events for every mutating operation in the system: memory writes, task
// queue moves, forge reviews, graph upserts, tool calls, notifications,
// and security decisions.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// =============================================================================
// AUDIT EVENT TYPES
// =============================================================================

// AuditEventType names the kind of audit event, used both in the JSON
// line and to pick the fact template in generateFact.
type AuditEventType string

const (
	// Memory lifecycle -> memory_op/4
	AuditMemoryStore   AuditEventType = "memory_store"
	AuditMemoryRecall  AuditEventType = "memory_recall"
	AuditMemoryForget  AuditEventType = "memory_forget"
	AuditMemoryArchive AuditEventType = "memory_archive"

	// Task and queue -> task_op/4
	AuditTaskCreate AuditEventType = "task_create"
	AuditTaskUpdate AuditEventType = "task_update"
	AuditQueuePush  AuditEventType = "queue_push"
	AuditQueuePop   AuditEventType = "queue_pop"

	// Session lifecycle -> session_event/3
	AuditSessionStart      AuditEventType = "session_start"
	AuditSessionEnd        AuditEventType = "session_end"
	AuditSessionCheckpoint AuditEventType = "session_checkpoint"

	// Knowledge base -> knowledge_op/3
	AuditKnowledgeStore  AuditEventType = "knowledge_store"
	AuditKnowledgeSearch AuditEventType = "knowledge_search"

	// Forge review cycle -> forge_op/4
	AuditForgeReview AuditEventType = "forge_review"
	AuditForgeStreak AuditEventType = "forge_streak"

	// Knowledge graph -> graph_op/3
	AuditGraphEntityUpsert       AuditEventType = "graph_entity_upsert"
	AuditGraphRelationshipUpsert AuditEventType = "graph_relationship_upsert"

	// Job search pipeline -> jobs_op/4
	AuditJobBoardCheck      AuditEventType = "job_board_check"
	AuditApplicationUpdate  AuditEventType = "application_update"
	AuditInterviewPrepWrite AuditEventType = "interview_prep_write"

	// Tool execution -> tool_exec/6
	AuditToolInvoke   AuditEventType = "tool_invoke"
	AuditToolComplete AuditEventType = "tool_complete"
	AuditToolError    AuditEventType = "tool_error"

	// Notification dispatch -> notify_op/4
	AuditNotifyDispatch     AuditEventType = "notify_dispatch"
	AuditNotifyRateLimited  AuditEventType = "notify_rate_limited"

	// Safety -> safety_check/4
	AuditSafetyCheck AuditEventType = "safety_check"
	AuditSafetyBlock AuditEventType = "safety_block"
	AuditSafetyAllow AuditEventType = "safety_allow"

	// Daemon lifecycle -> daemon_op/4
	AuditDaemonHeartbeat AuditEventType = "daemon_heartbeat"
	AuditDaemonLifecycle AuditEventType = "daemon_lifecycle"

	// Performance -> perf_metric/4
	AuditPerfMetric AuditEventType = "perf_metric"
	AuditPerfSlow   AuditEventType = "perf_slow"

	// Error events -> error_event/4
	AuditErrorGeneric  AuditEventType = "error_generic"
	AuditErrorCritical AuditEventType = "error_critical"
	AuditErrorRecovery AuditEventType = "error_recovery"
)

// =============================================================================
// AUDIT EVENT STRUCTURE
// =============================================================================

// AuditEvent is a single structured audit log line.
type AuditEvent struct {
	Timestamp  int64                  `json:"ts"`
	EventType  AuditEventType         `json:"event"`
	Category   string                 `json:"cat"`
	SessionID  string                 `json:"session"`
	Target     string                 `json:"target"`
	Action     string                 `json:"action"`
	Success    bool                   `json:"success"`
	DurationMs int64                  `json:"dur_ms"`
	Error      string                 `json:"error"`
	Message    string                 `json:"msg"`
	Fields     map[string]interface{} `json:"fields"`
	Fact       string                 `json:"fact"`
}

// =============================================================================
// AUDIT LOGGER
// =============================================================================

var (
	auditFile   *os.File
	auditMu     sync.Mutex
	auditLogger *AuditLogger
)

// AuditLogger writes structured audit events, optionally scoped to a session.
type AuditLogger struct {
	sessionID string
	category  Category
}

// InitAudit opens the audit log for the current day.
func InitAudit() error {
	if !IsDebugMode() {
		return nil
	}

	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile != nil {
		return nil
	}

	date := time.Now().Format("2006-01-02")
	auditPath := filepath.Join(logsDir, fmt.Sprintf("%s_audit.log", date))

	file, err := os.OpenFile(auditPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	auditFile = file

	header := fmt.Sprintf("# Audit log started at %s\n", time.Now().Format(time.RFC3339))
	auditFile.WriteString(header)

	return nil
}

// CloseAudit closes the audit log file.
func CloseAudit() {
	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile != nil {
		auditFile.Close()
		auditFile = nil
	}
}

// Audit returns the global audit logger.
func Audit() *AuditLogger {
	if auditLogger == nil {
		auditLogger = &AuditLogger{}
	}
	return auditLogger
}

// AuditWithSession creates an audit logger scoped to a session.
func AuditWithSession(sessionID string) *AuditLogger {
	return &AuditLogger{sessionID: sessionID}
}

// AuditWithContext creates a fully-scoped audit logger.
func AuditWithContext(sessionID string, category Category) *AuditLogger {
	return &AuditLogger{sessionID: sessionID, category: category}
}

// =============================================================================
// AUDIT LOGGING METHODS
// =============================================================================

// Log writes an audit event, filling in defaults from the logger's scope.
func (a *AuditLogger) Log(event AuditEvent) {
	if !IsDebugMode() || auditFile == nil {
		return
	}

	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}
	if event.SessionID == "" && a.sessionID != "" {
		event.SessionID = a.sessionID
	}
	if event.Category == "" && a.category != "" {
		event.Category = string(a.category)
	}
	if event.Fields == nil {
		event.Fields = make(map[string]interface{})
	}

	event.Fact = generateFact(event)

	auditMu.Lock()
	defer auditMu.Unlock()

	if data, err := json.Marshal(event); err == nil {
		auditFile.WriteString(string(data) + "\n")
	}
}

// generateFact renders a compact predicate-style string for each event,
// so the audit log can be grepped or fed to a simple fact parser without
// re-parsing the full JSON line.
func generateFact(e AuditEvent) string {
	switch e.EventType {
	case AuditMemoryStore, AuditMemoryRecall, AuditMemoryForget, AuditMemoryArchive:
		return fmt.Sprintf("memory_op(%d, %s, %q, %v).", e.Timestamp, e.EventType, e.Target, e.Success)

	case AuditTaskCreate, AuditTaskUpdate, AuditQueuePush, AuditQueuePop:
		return fmt.Sprintf("task_op(%d, %s, %q, %v).", e.Timestamp, e.EventType, e.Target, e.Success)

	case AuditSessionStart, AuditSessionEnd, AuditSessionCheckpoint:
		return fmt.Sprintf("session_event(%d, %s, %q).", e.Timestamp, e.EventType, e.SessionID)

	case AuditKnowledgeStore, AuditKnowledgeSearch:
		return fmt.Sprintf("knowledge_op(%d, %s, %q).", e.Timestamp, e.EventType, e.Target)

	case AuditForgeReview, AuditForgeStreak:
		return fmt.Sprintf("forge_op(%d, %s, %q, %v).", e.Timestamp, e.EventType, e.Target, e.Success)

	case AuditGraphEntityUpsert, AuditGraphRelationshipUpsert:
		return fmt.Sprintf("graph_op(%d, %s, %q).", e.Timestamp, e.EventType, e.Target)

	case AuditJobBoardCheck, AuditApplicationUpdate, AuditInterviewPrepWrite:
		return fmt.Sprintf("jobs_op(%d, %s, %q, %v).", e.Timestamp, e.EventType, e.Target, e.Success)

	case AuditToolInvoke, AuditToolComplete, AuditToolError:
		return fmt.Sprintf("tool_exec(%d, %s, %q, %q, %v, %d).",
			e.Timestamp, e.EventType, e.Target, e.Action, e.Success, e.DurationMs)

	case AuditNotifyDispatch, AuditNotifyRateLimited:
		return fmt.Sprintf("notify_op(%d, %s, %q, %v).", e.Timestamp, e.EventType, e.Target, e.Success)

	case AuditSafetyCheck, AuditSafetyBlock, AuditSafetyAllow:
		return fmt.Sprintf("safety_check(%d, %s, %q, %v).", e.Timestamp, e.EventType, e.Action, e.Success)

	case AuditDaemonHeartbeat, AuditDaemonLifecycle:
		return fmt.Sprintf("daemon_op(%d, %s, %q, %v).", e.Timestamp, e.EventType, e.Target, e.Success)

	case AuditPerfMetric, AuditPerfSlow:
		return fmt.Sprintf("perf_metric(%d, %q, %q, %d).", e.Timestamp, e.Category, e.Action, e.DurationMs)

	case AuditErrorGeneric, AuditErrorCritical, AuditErrorRecovery:
		return fmt.Sprintf("error_event(%d, %s, %q, %q).", e.Timestamp, e.EventType, e.Category, escapeString(e.Error))

	default:
		return fmt.Sprintf("audit_event(%d, %s, %q, %q, %v).",
			e.Timestamp, e.EventType, e.Category, escapeString(e.Message), e.Success)
	}
}

func escapeString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/10)

	for _, c := range s {
		switch c {
		case '"':
			b.WriteString("\\\"")
		case '\\':
			b.WriteString("\\\\")
		case '\n':
			b.WriteString("\\n")
		case '\r':
			b.WriteString("\\r")
		case '\t':
			b.WriteString("\\t")
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// =============================================================================
// CONVENIENCE METHODS FOR COMMON EVENTS
// =============================================================================

// MemoryOp logs a memory store/recall/forget/archive event.
func (a *AuditLogger) MemoryOp(eventType AuditEventType, memoryID string, success bool) {
	a.Log(AuditEvent{EventType: eventType, Target: memoryID, Success: success,
		Message: fmt.Sprintf("Memory %s: %s (success=%v)", eventType, memoryID, success)})
}

// TaskOp logs a task create/update/queue event.
func (a *AuditLogger) TaskOp(eventType AuditEventType, taskID string, success bool) {
	a.Log(AuditEvent{EventType: eventType, Target: taskID, Success: success,
		Message: fmt.Sprintf("Task %s: %s (success=%v)", eventType, taskID, success)})
}

// SessionStart logs session start.
func (a *AuditLogger) SessionStart(sessionID string) {
	a.Log(AuditEvent{EventType: AuditSessionStart, SessionID: sessionID, Success: true,
		Message: fmt.Sprintf("Session started: %s", sessionID)})
}

// SessionEnd logs session end with its tool count and duration.
func (a *AuditLogger) SessionEnd(sessionID string, toolCount int, durationMs int64) {
	a.Log(AuditEvent{
		EventType: AuditSessionEnd, SessionID: sessionID, Success: true, DurationMs: durationMs,
		Fields:  map[string]interface{}{"tool_count": toolCount},
		Message: fmt.Sprintf("Session ended: %s (%d tools, %dms)", sessionID, toolCount, durationMs),
	})
}

// ForgeReview logs a spaced-repetition review event.
func (a *AuditLogger) ForgeReview(conceptID string, newMastery float64, success bool) {
	a.Log(AuditEvent{
		EventType: AuditForgeReview, Target: conceptID, Success: success,
		Fields:  map[string]interface{}{"mastery": newMastery},
		Message: fmt.Sprintf("Forge review: %s -> mastery=%.2f", conceptID, newMastery),
	})
}

// GraphOp logs an entity or relationship upsert.
func (a *AuditLogger) GraphOp(eventType AuditEventType, subject string) {
	a.Log(AuditEvent{EventType: eventType, Target: subject,
		Message: fmt.Sprintf("Graph %s: %s", eventType, subject)})
}

// ToolExec logs a tool invocation outcome.
func (a *AuditLogger) ToolExec(toolName, action string, durationMs int64, success bool, errMsg string) {
	eventType := AuditToolComplete
	if !success {
		eventType = AuditToolError
	}
	a.Log(AuditEvent{
		EventType: eventType, Target: toolName, Action: action, Success: success,
		DurationMs: durationMs, Error: errMsg,
		Message: fmt.Sprintf("Tool %s: %s (%dms, success=%v)", toolName, action, durationMs, success),
	})
}

// NotifyDispatch logs a notification send or rate-limit skip.
func (a *AuditLogger) NotifyDispatch(checkName string, sent bool) {
	eventType := AuditNotifyDispatch
	if !sent {
		eventType = AuditNotifyRateLimited
	}
	a.Log(AuditEvent{
		EventType: eventType, Target: checkName, Success: sent,
		Message: fmt.Sprintf("Notify %s: %s (sent=%v)", eventType, checkName, sent),
	})
}

// SafetyCheck logs a security decision (e.g. the SSRF guard).
func (a *AuditLogger) SafetyCheck(action string, allowed bool, reason string) {
	eventType := AuditSafetyAllow
	if !allowed {
		eventType = AuditSafetyBlock
	}
	a.Log(AuditEvent{
		EventType: eventType, Action: action, Success: allowed,
		Fields:  map[string]interface{}{"reason": reason},
		Message: fmt.Sprintf("Safety %s: %s (%s)", eventType, action, reason),
	})
}

// DaemonHeartbeat logs a heartbeat tick.
func (a *AuditLogger) DaemonHeartbeat(checkName string, success bool) {
	a.Log(AuditEvent{EventType: AuditDaemonHeartbeat, Target: checkName, Success: success,
		Message: fmt.Sprintf("Heartbeat check: %s (success=%v)", checkName, success)})
}

// PerfMetric logs a performance measurement, flagging it slow past threshold.
func (a *AuditLogger) PerfMetric(operation string, durationMs int64, threshold int64) {
	eventType := AuditPerfMetric
	success := true
	if threshold > 0 && durationMs > threshold {
		eventType = AuditPerfSlow
		success = false
	}
	fields := map[string]interface{}{}
	if threshold > 0 {
		fields["threshold_ms"] = threshold
	}
	a.Log(AuditEvent{
		EventType: eventType, Action: operation, DurationMs: durationMs, Success: success, Fields: fields,
		Message: fmt.Sprintf("Perf: %s took %dms (threshold=%dms)", operation, durationMs, threshold),
	})
}

// Error logs an error event, optionally marked critical.
func (a *AuditLogger) Error(category string, err error, critical bool) {
	eventType := AuditErrorGeneric
	if critical {
		eventType = AuditErrorCritical
	}
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	a.Log(AuditEvent{
		EventType: eventType, Category: category, Success: false, Error: errMsg,
		Message: fmt.Sprintf("Error in %s: %s (critical=%v)", category, errMsg, critical),
	})
}
