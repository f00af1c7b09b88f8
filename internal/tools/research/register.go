package research

import (
	"jaybrain/internal/tools"
)

// RegisterAll registers all research tools with the given registry.
func RegisterAll(registry *tools.Registry) error {
	allTools := []*tools.Tool{
		// SSRF-guarded web fetching
		WebFetchTool(),

		// Browser automation
		BrowserNavigateTool(),
		BrowserExtractTool(),
		BrowserScreenshotTool(),
		BrowserClickTool(),
		BrowserTypeTool(),
		BrowserCloseTool(),
	}

	for _, tool := range allTools {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}

	return nil
}
