// Package metrics exposes the scheduler's job-outcome counters on a
// loopback prometheus endpoint (C5/C10).
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	jobOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jaybrain",
		Subsystem: "scheduler",
		Name:      "job_outcomes_total",
		Help:      "Count of scheduled job executions, labeled by job name and outcome",
	}, []string{"job", "outcome"})

	jobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "jaybrain",
		Subsystem: "scheduler",
		Name:      "job_duration_seconds",
		Help:      "Duration of scheduled job executions",
	}, []string{"job"})

	notificationsDispatched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jaybrain",
		Subsystem: "notify",
		Name:      "dispatched_total",
		Help:      "Count of dispatch_notification calls, labeled by check name and whether it was rate-limited",
	}, []string{"check", "suppressed"})
)

func init() {
	prometheus.MustRegister(jobOutcomes, jobDuration, notificationsDispatched)
}

// RecordJobOutcome records one scheduled job execution's outcome and
// duration.
func RecordJobOutcome(jobName, outcome string, d time.Duration) {
	jobOutcomes.WithLabelValues(jobName, outcome).Inc()
	jobDuration.WithLabelValues(jobName).Observe(d.Seconds())
}

// RecordNotification records one dispatch_notification call.
func RecordNotification(checkName string, suppressed bool) {
	notificationsDispatched.WithLabelValues(checkName, boolLabel(suppressed)).Inc()
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// Serve starts the loopback health/metrics endpoint and blocks until
// ctx is canceled or the listener fails.
func Serve(ctx context.Context, addr string) error {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: r}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
