package tools

import (
	"context"
	"errors"
	"testing"
)

func numericTool() *Tool {
	return &Tool{
		Name:     "numeric_tool",
		Category: CategoryGeneral,
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			return "ok", nil
		},
		Schema: ToolSchema{
			Required: []string{"limit"},
			Properties: map[string]Property{
				"limit": {Type: "integer"},
			},
		},
	}
}

func TestValidateArgsMissingRequired(t *testing.T) {
	reg := NewRegistry()
	tool := numericTool()
	reg.MustRegister(tool)

	_, err := reg.ExecuteTool(context.Background(), tool, map[string]any{})
	if !errors.Is(err, ErrMissingRequiredArg) {
		t.Fatalf("want ErrMissingRequiredArg, got %v", err)
	}
}

func TestValidateArgsWrongType(t *testing.T) {
	reg := NewRegistry()
	tool := numericTool()
	reg.MustRegister(tool)

	_, err := reg.ExecuteTool(context.Background(), tool, map[string]any{"limit": "not-a-number"})
	if !errors.Is(err, ErrInvalidArgType) {
		t.Fatalf("want ErrInvalidArgType, got %v", err)
	}
}

func TestValidateArgsAccepted(t *testing.T) {
	reg := NewRegistry()
	tool := numericTool()
	reg.MustRegister(tool)

	result, err := reg.ExecuteTool(context.Background(), tool, map[string]any{"limit": 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Result != "ok" {
		t.Errorf("got %q, want ok", result.Result)
	}
}
