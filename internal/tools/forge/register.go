package forge

import (
	"jaybrain/internal/tools"
)

// RegisterAll registers all forge tools with the given registry.
// Init must be called first.
func RegisterAll(registry *tools.Registry) error {
	allTools := []*tools.Tool{
		AddConceptTool(),
		RecordReviewTool(),
		StudyQueueTool(),
		ReadinessTool(),
		CalibrationTool(),
		StatsTool(),
		ErrorAnalysisTool(),
	}

	for _, tool := range allTools {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}

	return nil
}
