package task

import (
	"jaybrain/internal/tools"
)

// RegisterAll registers all task tools with the given registry.
// Init must be called first.
func RegisterAll(registry *tools.Registry) error {
	allTools := []*tools.Tool{
		TaskCreateTool(),
		TaskListTool(),
		TaskUpdateTool(),
		QueuePushTool(),
		QueuePopTool(),
	}

	for _, tool := range allTools {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}

	return nil
}
