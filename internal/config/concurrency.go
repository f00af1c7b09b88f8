package config

// ConcurrencyConfig mirrors spec.md §5's concurrency/resource model:
// a bounded scheduler worker pool, a hook-script execution budget, a
// per-job daemon timeout, and the retrieval fan-out parallelism.
type ConcurrencyConfig struct {
	// SchedulerWorkerPoolSize bounds how many daemon jobs run at once.
	SchedulerWorkerPoolSize int `yaml:"scheduler_worker_pool_size" json:"scheduler_worker_pool_size"`

	// HookScriptTimeout bounds a hook script's own work before it aborts
	// and prints a warning.
	HookScriptTimeout string `yaml:"hook_script_timeout" json:"hook_script_timeout"`

	// JobDefaultTimeout is the per-job default timeout after which a
	// daemon job is marked errored in the next heartbeat log.
	JobDefaultTimeout string `yaml:"job_default_timeout" json:"job_default_timeout"`

	// RetrievalParallelism bounds the worker pool used to run keyword
	// and vector search concurrently before fusion.
	RetrievalParallelism int `yaml:"retrieval_parallelism" json:"retrieval_parallelism"`
}

// DefaultConcurrencyConfig returns the defaults named in spec.md §5.
func DefaultConcurrencyConfig() ConcurrencyConfig {
	return ConcurrencyConfig{
		SchedulerWorkerPoolSize: 4,
		HookScriptTimeout:       "5s",
		JobDefaultTimeout:       "5m",
		RetrievalParallelism:    2,
	}
}
