package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var botStart bool

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Validate config for the Telegram bot transport and print its contract",
	Long: `The Telegram bot itself is an external collaborator: jaybrain never
dials Telegram's API directly. "bot --start" only confirms the daemon's
notification config is sane and prints the contract an external
transport must satisfy to receive jaybrain's outbound notifications
(the NATS subject layout dispatch_notification publishes on, and the
send_message(text) length budget every message is pre-truncated to).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !botStart {
			return cmd.Help()
		}

		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("bot: invalid config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "jaybrain notification transport contract:")
		fmt.Fprintf(out, "  subject: heartbeat.out (one subject for every check and job)\n")
		fmt.Fprintf(out, "  payload: UTF-8 text, at most %d characters\n", cfg.Notify.MessageMaxChars)
		fmt.Fprintf(out, "  default rate-limit window: %s\n", cfg.Notify.DefaultRateLimitWindow)
		fmt.Fprintln(out, "A transport subscribing to heartbeat.> and relaying each message's")
		fmt.Fprintln(out, "payload to a chat satisfies this contract; jaybrain implements none of it.")
		return nil
	},
}
