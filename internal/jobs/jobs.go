// Package jobs implements the auxiliary daemon jobs (C10): vault sync,
// conversation archive, trash sweep, git shadow snapshots, job board
// autofetch, feed poll, and the daily briefing. Each is a
// scheduler.JobFunc bound to its SchedulerConfig.Jobs entry by
// Register, the same shape scheduler.Checks uses for the heartbeat
// checks.
package jobs

import (
	"net/http"
	"time"

	"jaybrain/internal/config"
	"jaybrain/internal/logging"
	"jaybrain/internal/notify"
	"jaybrain/internal/scheduler"
	"jaybrain/internal/store"

	"github.com/sony/gobreaker"
)

// Jobs bundles the store, config, and notification dispatcher every
// auxiliary job needs. One Jobs per daemon process.
type Jobs struct {
	st          *store.Store
	cfg         config.JobsConfig
	projectsDir string
	notifier    *notify.Dispatcher
	audit       *logging.AuditLogger
	client      *http.Client
	breakers    map[string]*gobreaker.CircuitBreaker
}

// New builds a Jobs bound to st, cfg, and notifier. projectsDir is the
// pulse reader's transcript directory, reused by the conversation
// archive job.
func New(st *store.Store, cfg config.JobsConfig, projectsDir string, notifier *notify.Dispatcher, audit *logging.AuditLogger) *Jobs {
	timeout, err := time.ParseDuration(cfg.FeedPollTimeout)
	if err != nil {
		timeout = 15 * time.Second
	}
	return &Jobs{
		st:          st,
		cfg:         cfg,
		projectsDir: projectsDir,
		notifier:    notifier,
		audit:       audit,
		client:      &http.Client{Timeout: timeout},
		breakers:    make(map[string]*gobreaker.CircuitBreaker),
	}
}

// breakerFor returns the circuit breaker for a given outbound host,
// creating it on first use. Feed poll and job board autofetch both
// call remote hosts that may be flaky; a tripped breaker on one host
// never blocks requests to another.
func (j *Jobs) breakerFor(host string) *gobreaker.CircuitBreaker {
	if b, ok := j.breakers[host]; ok {
		return b
	}
	b := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        host,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	j.breakers[host] = b
	return b
}

// dispatch reports a triggered job through the shared notifier, under
// the job's own name so rate limiting is keyed per-job like the
// heartbeat checks.
func (j *Jobs) dispatch(jobName, msg string) (bool, error) {
	sent, err := j.notifier.Dispatch(jobName, msg)
	if err != nil {
		return true, err
	}
	return sent, nil
}

// Register binds every auxiliary job to s using the trigger specs
// named in jobSpecs. Job names absent from jobSpecs (e.g. a
// SchedulerConfig trimmed down in a test) are skipped rather than
// treated as a configuration error, since unlike the heartbeat checks
// these jobs are optional infrastructure, not safety-critical alerts.
func (j *Jobs) Register(s *scheduler.Scheduler, jobSpecs map[string]config.JobSpec) error {
	named := map[string]scheduler.JobFunc{
		"vault_sync":           j.VaultSync,
		"conversation_archive": j.ConversationArchive,
		"trash_sweep":          j.TrashSweep,
		"git_shadow":           j.GitShadow,
		"job_board_autofetch":  j.JobBoardAutofetch,
		"feed_poll":            j.FeedPoll,
		"daily_briefing":       j.DailyBriefing,
	}
	for name, fn := range named {
		spec, ok := jobSpecs[name]
		if !ok {
			logging.Scheduler("auxiliary job %q has no trigger configured, skipping", name)
			continue
		}
		if err := s.Register(name, spec, fn); err != nil {
			return err
		}
	}
	return nil
}
