// Package main implements the jaybrain CLI: the single binary that
// hosts the MCP tool surface, the hook-ingest entrypoint, and the
// scheduler daemon against one shared store file.
//
// # File Index
//
//   - main.go       - entry point, rootCmd, global flags, init()
//   - boot.go       - shared config/store/registry bring-up
//   - cmd_daemon.go - daemon --start|--stop|--status
//   - cmd_mcp.go    - mcp-serve
//   - cmd_hook.go   - hook (stdin JSON, fire-and-forget)
//   - cmd_bot.go    - bot --start
//   - cmd_metrics.go - metrics
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"jaybrain/internal/logging"
)

var (
	configPath string
	verbose    bool
	logger     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "jaybrain",
	Short: "jaybrain - personal-agent memory and automation substrate",
	Long: `jaybrain is a personal-agent memory and automation substrate.

It exposes a tool-call surface over a model-context protocol, ingests
per-invocation hook events from a coding assistant to build
cross-session awareness, runs a background daemon that evaluates
proactive checks and dispatches notifications, and persists a decaying,
searchable knowledge base.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if err := logging.Initialize("data"); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to initialize file logging: %v\n", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "data/config.yaml", "Path to config.yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	daemonCmd.Flags().BoolVar(&daemonStart, "start", false, "Start the daemon in the foreground")
	daemonCmd.Flags().BoolVar(&daemonStop, "stop", false, "Signal a running daemon to shut down")
	daemonCmd.Flags().BoolVar(&daemonStatus, "status", false, "Print the daemon's current lifecycle state")

	botCmd.Flags().BoolVar(&botStart, "start", false, "Validate bot config and print the transport contract")

	rootCmd.AddCommand(daemonCmd, mcpServeCmd, hookCmd, botCmd, metricsCmd)
}

// errInvalidInvocation marks a usage error the CLI's 0/1/2 exit-code
// contract maps to exit code 2, distinct from the generic exit code 1
// used for runtime failures and "already running" refusals.
type errInvalidInvocation struct{ err error }

func (e errInvalidInvocation) Error() string { return e.err.Error() }
func (e errInvalidInvocation) Unwrap() error { return e.err }

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var invalid errInvalidInvocation
		if errors.As(err, &invalid) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
