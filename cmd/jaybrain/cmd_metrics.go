package main

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Print the running daemon's current prometheus gauges",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		client := &http.Client{Timeout: 5 * time.Second}
		resp, err := client.Get(fmt.Sprintf("http://%s/metrics", cfg.Metrics.ListenAddr))
		if err != nil {
			return fmt.Errorf("metrics: daemon unreachable at %s (is it running?): %w", cfg.Metrics.ListenAddr, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("metrics: read response: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(body))
		return nil
	},
}
