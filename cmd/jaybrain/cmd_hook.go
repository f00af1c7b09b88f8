package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"jaybrain/internal/hooks"
	"jaybrain/internal/store"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Ingest one hook event from stdin (fire-and-forget, always exits 0)",
	RunE:  runHook,
}

// runHook is the fire-and-forget hook script entrypoint: it opens the
// store fresh, handles exactly one event read from stdin, and never
// propagates an error through its own exit code, per the ingest
// pipeline's latency/availability contract. Failures go to stderr.
func runHook(cmd *cobra.Command, args []string) error {
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jaybrain hook: read stdin: %v\n", err)
		return nil
	}

	event, err := hooks.ParseEvent(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jaybrain hook: parse event: %v\n", err)
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "jaybrain hook: load config: %v\n", err)
		return nil
	}

	st, err := store.Open(cfg.Store.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jaybrain hook: open store: %v\n", err)
		return nil
	}
	defer st.Close()

	retryBase, err := time.ParseDuration(cfg.Hooks.BusyRetryBaseDelay)
	if err != nil {
		retryBase = 100 * time.Millisecond
	}
	h := hooks.NewHandler(st, cfg.Hooks.BusyRetryMax, retryBase, cfg.Hooks.PruneEveryN)

	timeout, err := time.ParseDuration(cfg.Concurrency.HookScriptTimeout)
	if err != nil {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if !h.Handle(ctx, event) && event != nil {
		fmt.Fprintf(os.Stderr, "jaybrain hook: unhandled event %s\n", event.HookEventName)
	}
	return nil
}
