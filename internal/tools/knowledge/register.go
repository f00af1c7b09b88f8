package knowledge

import (
	"jaybrain/internal/tools"
)

// RegisterAll registers all knowledge tools with the given registry.
// Init must be called first.
func RegisterAll(registry *tools.Registry) error {
	allTools := []*tools.Tool{
		KnowledgeStoreTool(),
		KnowledgeSearchTool(),
		KnowledgeUpdateTool(),
	}

	for _, tool := range allTools {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}

	return nil
}
