// Package personality wires the onboarding/personality-config tool
// surface onto internal/store/misc_store.go's single-row tables.
package personality

import (
	"context"
	"fmt"
	"strings"

	"jaybrain/internal/logging"
	"jaybrain/internal/store"
	"jaybrain/internal/tools"
)

var (
	st    *store.Store
	audit *logging.AuditLogger
)

// Init wires the package-level store and audit logger.
func Init(s *store.Store, a *logging.AuditLogger) {
	st = s
	audit = a
}

// OnboardingStepTool returns a tool that records one intake answer and
// advances the onboarding wizard.
func OnboardingStepTool() *tools.Tool {
	return &tools.Tool{
		Name:        "personality_onboarding_step",
		Description: "Record one onboarding answer and advance to the next step",
		Category:    tools.CategoryPersonality,
		Priority:    70,
		Execute:     executeOnboardingStep,
		Schema: tools.ToolSchema{
			Required: []string{"key", "answer"},
			Properties: map[string]tools.Property{
				"key":    {Type: "string", Description: "The onboarding question's key"},
				"answer": {Type: "string", Description: "The user's answer"},
			},
		},
	}
}

func executeOnboardingStep(ctx context.Context, args map[string]any) (string, error) {
	key, _ := args["key"].(string)
	answer, _ := args["answer"].(string)
	if key == "" {
		return "", fmt.Errorf("key is required")
	}

	onboardingState, err := st.GetOnboardingState()
	if err != nil {
		return "", fmt.Errorf("personality_onboarding_step: %w", err)
	}
	if onboardingState.Responses == nil {
		onboardingState.Responses = map[string]string{}
	}
	onboardingState.Responses[key] = answer
	onboardingState.CurrentStep++
	if onboardingState.TotalSteps > 0 && onboardingState.CurrentStep >= onboardingState.TotalSteps {
		onboardingState.Completed = true
	}

	if err := st.SaveOnboardingState(onboardingState); err != nil {
		return "", fmt.Errorf("personality_onboarding_step: %w", err)
	}
	logging.Tools("personality_onboarding_step: %s -> step %d/%d", key, onboardingState.CurrentStep, onboardingState.TotalSteps)
	return fmt.Sprintf("Recorded %s, now at step %d/%d (completed=%v)", key, onboardingState.CurrentStep, onboardingState.TotalSteps, onboardingState.Completed), nil
}

// OnboardingStatusTool returns a tool reporting onboarding progress.
func OnboardingStatusTool() *tools.Tool {
	return &tools.Tool{
		Name:        "personality_onboarding_status",
		Description: "Report onboarding progress and answers so far",
		Category:    tools.CategoryPersonality,
		Priority:    55,
		Execute:     executeOnboardingStatus,
		Schema:      tools.ToolSchema{},
	}
}

func executeOnboardingStatus(ctx context.Context, args map[string]any) (string, error) {
	onboardingState, err := st.GetOnboardingState()
	if err != nil {
		return "", fmt.Errorf("personality_onboarding_status: %w", err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "step %d/%d, completed=%v\n", onboardingState.CurrentStep, onboardingState.TotalSteps, onboardingState.Completed)
	for k, v := range onboardingState.Responses {
		fmt.Fprintf(&b, "  %s: %s\n", k, v)
	}
	return b.String(), nil
}

// ProfileSetTool returns a tool that sets one or more personality
// config keys.
func ProfileSetTool() *tools.Tool {
	return &tools.Tool{
		Name:        "personality_profile_set",
		Description: "Set personality/tone configuration keys",
		Category:    tools.CategoryPersonality,
		Priority:    60,
		Execute:     executeProfileSet,
		Schema: tools.ToolSchema{
			Required: []string{"key", "value"},
			Properties: map[string]tools.Property{
				"key":   {Type: "string", Description: "Config key, e.g. tone, formality, verbosity"},
				"value": {Type: "string", Description: "Config value"},
			},
		},
	}
}

func executeProfileSet(ctx context.Context, args map[string]any) (string, error) {
	key, _ := args["key"].(string)
	value, _ := args["value"].(string)
	if key == "" {
		return "", fmt.Errorf("key is required")
	}

	cfg, err := st.GetPersonalityConfig()
	if err != nil {
		return "", fmt.Errorf("personality_profile_set: %w", err)
	}
	if cfg.Config == nil {
		cfg.Config = map[string]any{}
	}
	cfg.Config[key] = value

	if err := st.SavePersonalityConfig(cfg); err != nil {
		return "", fmt.Errorf("personality_profile_set: %w", err)
	}
	return fmt.Sprintf("Set %s = %s", key, value), nil
}

// ProfileGetTool returns a tool that reports the current personality
// config.
func ProfileGetTool() *tools.Tool {
	return &tools.Tool{
		Name:        "personality_profile_get",
		Description: "Report the current personality/tone configuration",
		Category:    tools.CategoryPersonality,
		Priority:    55,
		Execute:     executeProfileGet,
		Schema:      tools.ToolSchema{},
	}
}

func executeProfileGet(ctx context.Context, args map[string]any) (string, error) {
	cfg, err := st.GetPersonalityConfig()
	if err != nil {
		return "", fmt.Errorf("personality_profile_get: %w", err)
	}
	if len(cfg.Config) == 0 {
		return "No personality configuration set", nil
	}
	var b strings.Builder
	for k, v := range cfg.Config {
		fmt.Fprintf(&b, "%s: %v\n", k, v)
	}
	return b.String(), nil
}
