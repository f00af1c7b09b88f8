// Package notify implements dispatch_notification (spec.md §6): a
// rate-limit gate in front of the opaque send_message channel, backed
// by the daemon's heartbeat_log.
package notify

import (
	"fmt"
	"time"

	"jaybrain/internal/config"
	"jaybrain/internal/logging"
	"jaybrain/internal/metrics"
	"jaybrain/internal/store"
)

// SendFunc delivers an already rate-limit-cleared message to whatever
// external channel the daemon is configured with (NATS subject, chat
// webhook, or similar). It is opaque to the dispatcher.
type SendFunc func(message string) error

// Dispatcher gates notifications per check name and logs every
// decision, triggered or suppressed, to heartbeat_log.
type Dispatcher struct {
	st      *store.Store
	cfg     config.NotifyConfig
	windows map[string]time.Duration
	send    SendFunc
	audit   *logging.AuditLogger
}

// New builds a Dispatcher. jobs supplies the per-check rate-limit
// windows from SchedulerConfig.Jobs; a check absent from jobs falls
// back to cfg.DefaultRateLimitWindow. It has no audit logger.
func New(st *store.Store, cfg config.NotifyConfig, jobs map[string]config.JobSpec, send SendFunc) *Dispatcher {
	return NewWithAudit(st, cfg, jobs, send, nil)
}

// NewWithAudit is New plus an audit logger that records every
// dispatch_notification decision (sent or rate-limited).
func NewWithAudit(st *store.Store, cfg config.NotifyConfig, jobs map[string]config.JobSpec, send SendFunc, audit *logging.AuditLogger) *Dispatcher {
	windows := make(map[string]time.Duration, len(jobs))
	for name, spec := range jobs {
		if spec.RateLimitWindow == "" {
			continue
		}
		if d, err := time.ParseDuration(spec.RateLimitWindow); err == nil {
			windows[name] = d
		}
	}
	return &Dispatcher{st: st, cfg: cfg, windows: windows, send: send, audit: audit}
}

func (d *Dispatcher) windowFor(checkName string) time.Duration {
	if w, ok := d.windows[checkName]; ok {
		return w
	}
	if w, err := time.ParseDuration(d.cfg.DefaultRateLimitWindow); err == nil {
		return w
	}
	return 24 * time.Hour
}

// Dispatch sends message for checkName unless the check last notified
// within its rate-limit window, in which case it is logged as
// suppressed and not sent. Every call appends a heartbeat_log row.
func (d *Dispatcher) Dispatch(checkName, message string) (sent bool, err error) {
	last, err := d.st.LastNotifiedAt(checkName)
	if err != nil {
		return false, fmt.Errorf("dispatch_notification: %w", err)
	}

	window := d.windowFor(checkName)
	suppressed := last != nil && time.Since(*last) < window

	if len(message) > d.cfg.MessageMaxChars {
		message = message[:d.cfg.MessageMaxChars]
	}

	if !suppressed && d.send != nil {
		if sendErr := d.send(message); sendErr != nil {
			err = fmt.Errorf("dispatch_notification: send: %w", sendErr)
		}
	}

	notified := !suppressed && err == nil
	metrics.RecordNotification(checkName, suppressed)
	if d.audit != nil {
		d.audit.NotifyDispatch(checkName, notified)
	}
	if logErr := d.st.LogHeartbeatCheck(store.HeartbeatLogEntry{
		CheckName: checkName,
		Triggered: true,
		Message:   message,
		Notified:  notified,
	}); logErr != nil {
		logging.Heartbeat("dispatch_notification: failed to log %s: %v", checkName, logErr)
	}

	return notified, err
}
