package personality

import (
	"jaybrain/internal/tools"
)

// RegisterAll registers all personality/onboarding tools with the
// given registry. Init must be called first.
func RegisterAll(registry *tools.Registry) error {
	allTools := []*tools.Tool{
		OnboardingStepTool(),
		OnboardingStatusTool(),
		ProfileSetTool(),
		ProfileGetTool(),
	}

	for _, tool := range allTools {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}

	return nil
}
