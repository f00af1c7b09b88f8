package trash

import (
	"jaybrain/internal/tools"
)

// RegisterAll registers all trash tools with the given registry.
// Init must be called first.
func RegisterAll(registry *tools.Registry) error {
	allTools := []*tools.Tool{
		MoveTool(),
		ListTool(),
		RestoreTool(),
		SweepExpiredTool(),
	}

	for _, tool := range allTools {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}

	return nil
}
