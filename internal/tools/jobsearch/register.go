package jobsearch

import (
	"jaybrain/internal/tools"
)

// RegisterAll registers all jobsearch tools with the given registry.
// Init must be called first.
func RegisterAll(registry *tools.Registry) error {
	allTools := []*tools.Tool{
		JobBoardAddTool(),
		JobSearchTool(),
		ApplicationTrackTool(),
		InterviewPrepTool(),
	}

	for _, tool := range allTools {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}

	return nil
}
