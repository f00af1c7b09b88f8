package timealloc

import (
	"jaybrain/internal/tools"
)

// RegisterAll registers the time-allocation tool with the given
// registry. Init must be called first.
func RegisterAll(registry *tools.Registry) error {
	return registry.Register(ReportTool())
}
