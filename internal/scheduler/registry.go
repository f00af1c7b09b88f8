package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron"

	"jaybrain/internal/config"
	"jaybrain/internal/logging"
	"jaybrain/internal/metrics"
)

// JobFunc is a scheduled unit of work. It returns whether its
// condition triggered (for the logging/metrics layer) and an error,
// which is logged but never propagated to the scheduler loop.
type JobFunc func() (triggered bool, err error)

// job pairs a registered JobFunc with the mutex that keeps two
// invocations of the same job from overlapping.
type job struct {
	name string
	fn   JobFunc
	mu   sync.Mutex
}

// Scheduler owns the cron engine, the interval tickers, and the
// per-job overlap guards. One Scheduler per daemon process.
type Scheduler struct {
	cron    *cron.Cron
	jobs    map[string]*job
	tickers []*time.Ticker
	stop    chan struct{}
	wg      sync.WaitGroup
}

// New builds a Scheduler with no jobs registered yet.
func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		jobs: make(map[string]*job),
		stop: make(chan struct{}),
	}
}

// Register binds a job's trigger spec (a config.SchedulerConfig.Jobs
// trigger string) to fn. A trigger that parses as a Go duration runs
// on a ticker; everything else is parsed as a standard 5-field cron
// spec or a descriptor like "@daily" and handed to the cron engine.
func (s *Scheduler) Register(name string, spec config.JobSpec, fn JobFunc) error {
	j := &job{name: name, fn: fn}
	s.jobs[name] = j

	if d, err := time.ParseDuration(spec.Trigger); err == nil {
		ticker := time.NewTicker(d)
		s.tickers = append(s.tickers, ticker)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for {
				select {
				case <-ticker.C:
					s.run(j)
				case <-s.stop:
					return
				}
			}
		}()
		return nil
	}

	sched, err := cron.ParseStandard(spec.Trigger)
	if err != nil {
		return err
	}
	s.cron.Schedule(sched, cron.FuncJob(func() { s.run(j) }))
	return nil
}

// run executes a job's function under its overlap guard, recovering
// from a panic and logging (never crashing the daemon) per spec.md
// §4.5's job execution rules.
func (s *Scheduler) run(j *job) {
	if !j.mu.TryLock() {
		logging.Scheduler("skipping %s: previous invocation still running", j.name)
		return
	}
	defer j.mu.Unlock()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logging.Scheduler("job %s panicked: %v", j.name, r)
			metrics.RecordJobOutcome(j.name, "panic", time.Since(start))
		}
	}()

	triggered, err := j.fn()
	outcome := "ok"
	if err != nil {
		logging.Scheduler("job %s failed: %v", j.name, err)
		outcome = "error"
	} else if triggered {
		outcome = "triggered"
	}
	metrics.RecordJobOutcome(j.name, outcome, time.Since(start))
}

// RunNow executes a registered job immediately and synchronously,
// bypassing its trigger. Used by CLI one-shot invocations and tests.
func (s *Scheduler) RunNow(name string) error {
	j, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	s.run(j)
	return nil
}

// Start begins the cron engine on its own goroutine and returns at
// once; jobs keep firing until Stop is called.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the cron engine and every interval ticker, waiting for
// in-flight ticker goroutines to exit.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	close(s.stop)
	for _, t := range s.tickers {
		t.Stop()
	}
	s.wg.Wait()
}
