package memory

import (
	"jaybrain/internal/tools"
)

// RegisterAll registers all memory tools with the given registry.
// Init must be called first.
func RegisterAll(registry *tools.Registry) error {
	allTools := []*tools.Tool{
		RememberTool(),
		RecallTool(),
		DeepRecallTool(),
		ForgetTool(),
	}

	for _, tool := range allTools {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}

	return nil
}
