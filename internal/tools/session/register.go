package session

import (
	"jaybrain/internal/tools"
)

// RegisterAll registers all session tools with the given registry.
// Init must be called first.
func RegisterAll(registry *tools.Registry) error {
	allTools := []*tools.Tool{
		SessionStartTool(),
		SessionEndTool(),
		SessionHandoffTool(),
	}

	for _, tool := range allTools {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}

	return nil
}
