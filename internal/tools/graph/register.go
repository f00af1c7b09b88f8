package graph

import (
	"jaybrain/internal/tools"
)

// RegisterAll registers all graph tools with the given registry.
// Init must be called first.
func RegisterAll(registry *tools.Registry) error {
	allTools := []*tools.Tool{
		AddEntityTool(),
		AddRelationshipTool(),
		QueryNeighborhoodTool(),
		SearchEntitiesTool(),
		GetEntitiesTool(),
	}

	for _, tool := range allTools {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}

	return nil
}
