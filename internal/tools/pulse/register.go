package pulse

import (
	"jaybrain/internal/tools"
)

// RegisterAll registers all pulse tools with the given registry.
// Init must be called first.
func RegisterAll(registry *tools.Registry) error {
	allTools := []*tools.Tool{
		GetActiveSessionsTool(),
		GetSessionActivityTool(),
		QuerySessionTool(),
		GetSessionContextTool(),
	}

	for _, tool := range allTools {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}

	return nil
}
