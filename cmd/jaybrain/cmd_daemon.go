package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"jaybrain/internal/jobs"
	"jaybrain/internal/logging"
	"jaybrain/internal/metrics"
	"jaybrain/internal/notify"
	"jaybrain/internal/scheduler"
	"jaybrain/internal/store"
)

var (
	daemonStart  bool
	daemonStop   bool
	daemonStatus bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Control the scheduler daemon (heartbeat checks plus auxiliary jobs)",
	RunE:  runDaemon,
}

func runDaemon(cmd *cobra.Command, args []string) error {
	set := 0
	for _, b := range []bool{daemonStart, daemonStop, daemonStatus} {
		if b {
			set++
		}
	}
	if set > 1 {
		return errInvalidInvocation{fmt.Errorf("daemon: pass exactly one of --start, --stop, --status")}
	}

	switch {
	case daemonStart:
		return startDaemon(cmd)
	case daemonStop:
		return stopDaemon()
	case daemonStatus:
		return printDaemonStatus()
	default:
		return cmd.Help()
	}
}

func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

func printDaemonStatus() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.Store.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close()

	d, err := st.GetDaemonState()
	if err != nil {
		return err
	}
	if d == nil {
		fmt.Println("daemon has never started")
		return nil
	}

	status := d.Status
	if !processAlive(d.PID) {
		status = "stopped"
	}
	age := time.Since(d.LastHeartbeat).Round(time.Second)
	fmt.Printf("pid=%d status=%s started=%s last_heartbeat=%s ago modules=%s\n",
		d.PID, status, d.StartedAt.Format("2006-01-02 15:04:05"), age, strings.Join(d.Modules, ","))
	return nil
}

func stopDaemon() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.Store.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close()

	d, err := st.GetDaemonState()
	if err != nil {
		return err
	}
	if d == nil || !processAlive(d.PID) {
		fmt.Println("daemon is not running")
		return nil
	}

	proc, err := os.FindProcess(d.PID)
	if err != nil {
		return err
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("stop daemon: %w", err)
	}
	_ = st.LogDaemonLifecycle("stop_requested", fmt.Sprintf("pid=%d", d.PID))
	fmt.Printf("sent SIGTERM to daemon pid %d\n", d.PID)
	return nil
}

// startDaemon runs the scheduler daemon in the foreground: an embedded
// NATS server carries dispatch_notification's outbound send_message
// leg, robfig/cron plus a time.Ticker drive the job table, and a 30s
// heartbeat keeps daemon_state current until SIGINT/SIGTERM.
func startDaemon(cmd *cobra.Command) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.st.Close()

	refusedBy, err := scheduler.AcquireLock(a.cfg.Scheduler.LockPath)
	if err != nil {
		return fmt.Errorf("acquire daemon lock: %w", err)
	}
	if refusedBy != 0 {
		fmt.Fprintf(os.Stderr, "daemon already running as pid %d\n", refusedBy)
		os.Exit(1)
	}
	defer scheduler.ReleaseLock(a.cfg.Scheduler.LockPath)

	if err := os.WriteFile(a.cfg.Scheduler.PIDPath, []byte(fmt.Sprintf("%d", os.Getpid())), 0644); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(a.cfg.Scheduler.PIDPath)

	if _, err := a.buildRegistry(); err != nil {
		return fmt.Errorf("build tool registry: %w", err)
	}

	natsSrv, err := natsserver.NewServer(&natsserver.Options{
		Port:     -1,
		HTTPPort: -1,
		NoLog:    true,
		NoSigs:   true,
	})
	if err != nil {
		return fmt.Errorf("create embedded NATS server: %w", err)
	}
	go natsSrv.Start()
	if !natsSrv.ReadyForConnections(5 * time.Second) {
		return fmt.Errorf("embedded NATS server did not become ready")
	}
	defer natsSrv.Shutdown()

	nc, err := nats.Connect(natsSrv.ClientURL())
	if err != nil {
		return fmt.Errorf("connect to embedded NATS server: %w", err)
	}
	defer nc.Close()

	notifier := notify.NewWithAudit(a.st, a.cfg.Notify, a.cfg.Scheduler.Jobs, notify.NATSSend(nc, "heartbeat.out"), a.audit)
	checks := scheduler.NewChecksWithAudit(a.st, a.cfg.Heartbeat, notifier, a.audit)

	sched := scheduler.New()
	if err := checks.Register(sched, a.cfg.Scheduler.Jobs); err != nil {
		return fmt.Errorf("register heartbeat checks: %w", err)
	}

	auxJobs := jobs.New(a.st, a.cfg.Jobs, a.cfg.Pulse.ProjectsDir, notifier, a.audit)
	if err := auxJobs.Register(sched, a.cfg.Scheduler.Jobs); err != nil {
		return fmt.Errorf("register auxiliary jobs: %w", err)
	}

	sched.Start()
	defer sched.Stop()

	watcherCtx, cancelWatcher := context.WithCancel(context.Background())
	watcherDone := make(chan error, 1)
	go func() { watcherDone <- auxJobs.RunFileDeletionWatcher(watcherCtx) }()
	defer func() {
		cancelWatcher()
		<-watcherDone
	}()

	metricsCtx, cancelMetrics := context.WithCancel(context.Background())
	metricsDone := make(chan error, 1)
	go func() { metricsDone <- metrics.Serve(metricsCtx, a.cfg.Metrics.ListenAddr) }()
	defer func() {
		cancelMetrics()
		<-metricsDone
	}()

	now := time.Now().UTC()
	if err := a.st.UpsertDaemonState(store.DaemonState{
		PID:           os.Getpid(),
		StartedAt:     now,
		LastHeartbeat: now,
		Modules:       []string{"scheduler", "heartbeat", "jobs", "file_watcher", "notify", "metrics"},
		Status:        "running",
	}); err != nil {
		return fmt.Errorf("record daemon start: %w", err)
	}
	_ = a.st.LogDaemonLifecycle("start", fmt.Sprintf("pid=%d", os.Getpid()))
	logging.Scheduler("daemon started pid=%d metrics=%s nats=%s", os.Getpid(), a.cfg.Metrics.ListenAddr, natsSrv.ClientURL())

	heartbeatInterval, err := time.ParseDuration(a.cfg.Scheduler.HeartbeatInterval)
	if err != nil {
		heartbeatInterval = 30 * time.Second
	}
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case <-ticker.C:
			if err := a.st.TouchDaemonHeartbeat(); err != nil {
				logging.Scheduler("heartbeat write failed: %v", err)
			}
		case <-ctx.Done():
			logging.Scheduler("daemon shutting down")
			_ = a.st.LogDaemonLifecycle("stop", fmt.Sprintf("pid=%d", os.Getpid()))
			d, _ := a.st.GetDaemonState()
			if d != nil {
				d.Status = "stopped"
				_ = a.st.UpsertDaemonState(*d)
			}
			return nil
		}
	}
}
