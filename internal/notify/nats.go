package notify

import (
	"fmt"

	"github.com/nats-io/nats.go"
)

// NATSSend publishes notification bodies on subject over an
// already-connected nats.Conn. The daemon owns the connection's
// lifecycle; NATSSend only wraps Publish as a SendFunc.
func NATSSend(nc *nats.Conn, subject string) SendFunc {
	return func(message string) error {
		if err := nc.Publish(subject, []byte(message)); err != nil {
			return fmt.Errorf("nats publish to %s: %w", subject, err)
		}
		return nil
	}
}
