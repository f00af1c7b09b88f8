package scheduler

import (
	"fmt"
	"time"

	"jaybrain/internal/config"
	"jaybrain/internal/forge"
	"jaybrain/internal/logging"
	"jaybrain/internal/notify"
	"jaybrain/internal/store"
)

// Checks bundles the store, config, and notifier every heartbeat check
// (C6) needs. Each method matches the JobFunc signature and is handed
// straight to Scheduler.Register by the daemon entrypoint.
type Checks struct {
	st       *store.Store
	cfg      config.HeartbeatConfig
	notifier *notify.Dispatcher
	audit    *logging.AuditLogger
}

// NewChecks builds the heartbeat check set with no audit logger.
func NewChecks(st *store.Store, cfg config.HeartbeatConfig, notifier *notify.Dispatcher) *Checks {
	return NewChecksWithAudit(st, cfg, notifier, nil)
}

// NewChecksWithAudit is NewChecks plus an audit logger recording every
// heartbeat tick's success/failure.
func NewChecksWithAudit(st *store.Store, cfg config.HeartbeatConfig, notifier *notify.Dispatcher, audit *logging.AuditLogger) *Checks {
	return &Checks{st: st, cfg: cfg, notifier: notifier, audit: audit}
}

func (c *Checks) logUntriggered(checkName string) error {
	if c.audit != nil {
		c.audit.DaemonHeartbeat(checkName, true)
	}
	return c.st.LogHeartbeatCheck(store.HeartbeatLogEntry{CheckName: checkName, Triggered: false})
}

// dispatch sends msg through the notifier and records the tick's
// success on the audit log, regardless of whether the rate-limit
// gate actually suppressed it.
func (c *Checks) dispatch(checkName, msg string) (bool, error) {
	_, err := c.notifier.Dispatch(checkName, msg)
	if c.audit != nil {
		c.audit.DaemonHeartbeat(checkName, err == nil)
	}
	if err != nil {
		return true, fmt.Errorf("%s: %w", checkName, err)
	}
	return true, nil
}

// dueThreshold returns the count of due forge concepts that triggers a
// study nudge. Within ExamProximityDays of the exam it tightens to 1,
// per spec.md §4.6's adaptive rule; otherwise it is ForgeDueThreshold.
func (c *Checks) dueThreshold() int {
	if days, ok := c.daysToExam(); ok && days <= c.cfg.ExamProximityDays {
		return 1
	}
	return c.cfg.ForgeDueThreshold
}

func (c *Checks) daysToExam() (int, bool) {
	if c.cfg.ExamDate == "" {
		return 0, false
	}
	exam, err := time.Parse("2006-01-02", c.cfg.ExamDate)
	if err != nil {
		return 0, false
	}
	days := int(time.Until(exam).Hours() / 24)
	return days, true
}

func (c *Checks) dueConceptCount() (int, error) {
	concepts, err := c.st.AllForgeConcepts()
	if err != nil {
		return 0, err
	}
	q := forge.BuildQueueV1(concepts, time.Now().UTC())
	return len(q.DueNow) + len(q.Struggling), nil
}

// ForgeStudyMorning nudges toward the day's study queue once due
// concepts cross the adaptive threshold.
func (c *Checks) ForgeStudyMorning() (bool, error) {
	return c.forgeStudyCheck("forge_study_morning", false)
}

// ForgeStudyEvening repeats the morning check but adds streak-at-risk
// language when today has no recorded study activity yet.
func (c *Checks) ForgeStudyEvening() (bool, error) {
	return c.forgeStudyCheck("forge_study_evening", true)
}

func (c *Checks) forgeStudyCheck(checkName string, eveningStreakWarning bool) (bool, error) {
	due, err := c.dueConceptCount()
	if err != nil {
		return false, fmt.Errorf("%s: %w", checkName, err)
	}
	if due < c.dueThreshold() {
		return false, c.logUntriggered(checkName)
	}

	msg := fmt.Sprintf("%d forge concepts are due or struggling.", due)
	if eveningStreakWarning {
		dates, err := c.st.ForgeStreakDates()
		if err != nil {
			return false, fmt.Errorf("%s: %w", checkName, err)
		}
		today := time.Now().UTC().Format("2006-01-02")
		studiedToday := false
		for _, d := range dates {
			if d == today {
				studiedToday = true
				break
			}
		}
		if !studiedToday {
			msg += " No review logged today, your streak is at risk."
		}
	}

	return c.dispatch(checkName, msg)
}

// ExamCountdown fires once the configured exam date is within
// ExamCountdownDays, repeating daily until the exam passes.
func (c *Checks) ExamCountdown() (bool, error) {
	const checkName = "exam_countdown"
	days, ok := c.daysToExam()
	if !ok || days < 0 || days > c.cfg.ExamCountdownDays {
		return false, c.logUntriggered(checkName)
	}

	msg := fmt.Sprintf("%d days until your exam.", days)
	return c.dispatch(checkName, msg)
}

// StaleApplications flags job applications stuck in "applied" status
// past the configured staleness window.
func (c *Checks) StaleApplications() (bool, error) {
	const checkName = "stale_applications"
	apps, err := c.st.ApplicationsByStatus(store.AppApplied)
	if err != nil {
		return false, fmt.Errorf("%s: %w", checkName, err)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -c.cfg.StaleApplicationDays)
	var stale []store.Application
	for _, a := range apps {
		if a.AppliedDate != nil && a.AppliedDate.Before(cutoff) {
			stale = append(stale, a)
		}
	}
	if len(stale) == 0 {
		return false, c.logUntriggered(checkName)
	}

	msg := fmt.Sprintf("%d application(s) have had no status update in over %d days.", len(stale), c.cfg.StaleApplicationDays)
	return c.dispatch(checkName, msg)
}

// SessionCrash flags Claude sessions still marked active whose
// heartbeat has gone stale, a sign the process died without an orderly
// SessionEnd hook.
func (c *Checks) SessionCrash() (bool, error) {
	const checkName = "session_crash"
	crashed, err := c.st.CrashedClaudeSessions(c.cfg.SessionCrashIdleMinutes)
	if err != nil {
		return false, fmt.Errorf("%s: %w", checkName, err)
	}
	if len(crashed) == 0 {
		return false, c.logUntriggered(checkName)
	}

	msg := fmt.Sprintf("%d Claude session(s) look crashed (idle past %dm with no SessionEnd).", len(crashed), c.cfg.SessionCrashIdleMinutes)
	return c.dispatch(checkName, msg)
}

// GoalStaleness flags active life goals untouched within the
// configured window.
func (c *Checks) GoalStaleness() (bool, error) {
	const checkName = "goal_staleness"
	stale, err := c.st.StaleLifeGoals(c.cfg.GoalStalenessDays)
	if err != nil {
		return false, fmt.Errorf("%s: %w", checkName, err)
	}
	if len(stale) == 0 {
		return false, c.logUntriggered(checkName)
	}

	msg := fmt.Sprintf("%d goal(s) haven't been updated in over %d days.", len(stale), c.cfg.GoalStalenessDays)
	return c.dispatch(checkName, msg)
}

// TimeAllocation is a weekly check on forge study density: it counts the
// forge streak dates in the last 7 days and notifies when fewer than 2
// are logged. Other life domains and goals are not consulted.
func (c *Checks) TimeAllocation() (bool, error) {
	const checkName = "time_allocation"
	dates, err := c.st.ForgeStreakDates()
	if err != nil {
		return false, fmt.Errorf("%s: %w", checkName, err)
	}

	weekAgo := time.Now().UTC().AddDate(0, 0, -7).Format("2006-01-02")
	studyDaysThisWeek := 0
	for _, d := range dates {
		if d >= weekAgo {
			studyDaysThisWeek++
		}
	}
	if studyDaysThisWeek >= 2 {
		return false, c.logUntriggered(checkName)
	}

	msg := fmt.Sprintf("Only %d day(s) of forge study logged this week.", studyDaysThisWeek)
	return c.dispatch(checkName, msg)
}

// NetworkDecay flags person entities in the knowledge graph whose
// properties.last_contact has exceeded their decay threshold (or the
// configured default).
func (c *Checks) NetworkDecay() (bool, error) {
	const checkName = "network_decay"
	people, err := c.st.ListGraphEntities("person", 10000)
	if err != nil {
		return false, fmt.Errorf("%s: %w", checkName, err)
	}

	now := time.Now().UTC()
	var decayed []string
	for _, p := range people {
		lastContactRaw, _ := p.Properties["last_contact"].(string)
		if lastContactRaw == "" {
			continue
		}
		lastContact, err := time.Parse("2006-01-02", lastContactRaw)
		if err != nil {
			continue
		}

		threshold := c.cfg.DefaultNetworkDecayDays
		if td, ok := p.Properties["decay_threshold_days"].(float64); ok && td > 0 {
			threshold = int(td)
		}
		if now.Sub(lastContact) > time.Duration(threshold)*24*time.Hour {
			decayed = append(decayed, p.Name)
		}
	}
	if len(decayed) == 0 {
		return false, c.logUntriggered(checkName)
	}

	msg := fmt.Sprintf("%d contact(s) are overdue for a check-in: %v", len(decayed), decayed)
	return c.dispatch(checkName, msg)
}

// Register binds every heartbeat check to s using the trigger specs
// named in cfg.Jobs.
func (c *Checks) Register(s *Scheduler, jobs map[string]config.JobSpec) error {
	checks := map[string]JobFunc{
		"forge_study_morning": c.ForgeStudyMorning,
		"forge_study_evening": c.ForgeStudyEvening,
		"exam_countdown":      c.ExamCountdown,
		"stale_applications":  c.StaleApplications,
		"session_crash":       c.SessionCrash,
		"goal_staleness":      c.GoalStaleness,
		"time_allocation":     c.TimeAllocation,
		"network_decay":       c.NetworkDecay,
	}
	for name, fn := range checks {
		spec, ok := jobs[name]
		if !ok {
			return fmt.Errorf("no job spec configured for heartbeat check %q", name)
		}
		if err := s.Register(name, spec, fn); err != nil {
			return fmt.Errorf("register %s: %w", name, err)
		}
	}
	return nil
}
